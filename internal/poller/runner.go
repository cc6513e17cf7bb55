// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls immediately, then once per interval until ctx is done.
// One goroutine per session. No overlap. No retries.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		if res := p.PollOnce(); res.Err != nil {
			p.log.WithError(res.Err).WithField("query", res.Query).Warn("status query failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
