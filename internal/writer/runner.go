// internal/writer/runner.go
package writer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/bridge"
	"github.com/tamzrod/cats-bridge/internal/metrics"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
	"github.com/tamzrod/cats-bridge/internal/status"
)

// DefaultStaleAfter is how long a ready robot may go without a state
// reply before the block reports stale.
const DefaultStaleAfter = 5 * time.Second

// Source is what the runner samples on every tick.
type Source interface {
	Ready() bool
	Store() *pvstore.Store
	LastState() time.Time
}

// Runner periodically samples the robot state and writes it to the mirror.
type Runner struct {
	src      Source
	mirror   *Mirror
	interval time.Duration
	log      logrus.FieldLogger
	metrics  *metrics.Metrics

	StaleAfter time.Duration
	now        func() time.Time

	everReady     bool
	notReadySince time.Time
}

func NewRunner(src Source, mirror *Mirror, interval time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		src:        src,
		mirror:     mirror,
		interval:   interval,
		log:        log.WithField("component", "mirror"),
		metrics:    m,
		StaleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
}

// Run writes one snapshot per interval until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.Tick(); err != nil {
				r.log.WithError(err).Warn("status mirror write failed")
			}
		}
	}
}

// Tick samples once and writes to every target.
func (r *Runner) Tick() error {
	s, io := r.Snapshot()
	err := r.mirror.Write(s, io)
	r.metrics.MirrorWrite(err)
	return err
}

// Snapshot builds the status block values from the current store contents.
func (r *Runner) Snapshot() (status.Snapshot, IO) {
	now := r.now()
	st := r.src.Store()
	ready := r.src.Ready()

	if ready {
		r.everReady = true
		r.notReadySince = time.Time{}
	} else if r.notReadySince.IsZero() {
		r.notReadySince = now
	}

	var secs int
	if !ready {
		secs = int(now.Sub(r.notReadySince) / time.Second)
	}

	last := r.src.LastState()
	stale := ready && (last.IsZero() || now.Sub(last) > r.StaleAfter)
	enabled := st.Int(bridge.FieldEnabled) != 0

	s := status.Snapshot{
		Health:          status.Health(enabled, ready, r.everReady, stale),
		Status:          status.Clamp(st.Int(bridge.FieldStatus)),
		SecondsNotReady: status.Clamp(secs),
		Power:           status.Clamp(st.Int(bridge.FieldPower)),
		Auto:            status.Clamp(st.Int(bridge.FieldAutoMode)),
		Default:         status.Clamp(st.Int(bridge.FieldDefault)),
		Running:         status.Clamp(st.Int(bridge.FieldRunning)),
		Tool:            status.Clamp(st.Int(bridge.FieldTool)),
		DiffLid:         status.Clamp(st.Int(bridge.FieldDiffLid)),
		DiffSample:      status.Clamp(st.Int(bridge.FieldDiffSample)),
		ToolLid:         status.Clamp(st.Int(bridge.FieldToolLid)),
		ToolSample:      status.Clamp(st.Int(bridge.FieldToolSample)),
		Plate:           status.Clamp(st.Int(bridge.FieldPlate)),
		Well:            status.Clamp(st.Int(bridge.FieldWell)),
		Speed:           status.Clamp(st.Int(bridge.FieldSpeed)),
		LN2:             ln2Flags(st),
	}

	return s, IO{
		Inputs:  st.Bits(bridge.FieldInputs),
		Outputs: st.Bits(bridge.FieldOutputs),
	}
}

func ln2Flags(st *pvstore.Store) uint16 {
	var v uint16
	if st.Int(bridge.FieldDewar1LN2) != 0 {
		v |= status.LN2Dewar1
	}
	if st.Int(bridge.FieldDewar2LN2) != 0 {
		v |= status.LN2Dewar2
	}
	return v
}
