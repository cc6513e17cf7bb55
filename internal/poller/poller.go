// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// Poller is a dumb, clock-driven status requester.
// It cycles through the configured queries, one per tick.
type Poller struct {
	cfg    Config
	sender Sender
	log    logrus.FieldLogger

	next int
}

// New creates a poller with immutable config.
func New(cfg Config, sender Sender, log logrus.FieldLogger) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Queries) == 0 {
		return nil, errors.New("poller: at least one query required")
	}
	if sender == nil {
		return nil, errors.New("poller: sender required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		cfg:    cfg,
		sender: sender,
		log:    log.WithField("component", "poller"),
	}, nil
}

// PollOnce sends exactly one query and advances the cursor,
// whether or not the send succeeded.
func (p *Poller) PollOnce() PollResult {
	q := p.cfg.Queries[p.next]
	p.next = (p.next + 1) % len(p.cfg.Queries)

	res := PollResult{
		Query: q,
		At:    time.Now(),
		Err:   p.sender.Send(q),
	}
	if res.Err != nil {
		p.cfg.Metrics.SendError(protocol.ChannelStatus.String())
	}
	return res
}
