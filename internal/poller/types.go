// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/cats-bridge/internal/metrics"
)

// Sender abstracts the status channel the poller writes queries to.
type Sender interface {
	Send(text string) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Queries  []string

	// Metrics counts failed sends. May be nil.
	Metrics *metrics.Metrics
}

// PollResult describes one poll cycle.
type PollResult struct {
	Query string
	At    time.Time
	Err   error // non-nil means the query could not be sent
}
