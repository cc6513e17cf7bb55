// internal/bridge/bridge.go
package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/location"
	"github.com/tamzrod/cats-bridge/internal/metrics"
	"github.com/tamzrod/cats-bridge/internal/poller"
	"github.com/tamzrod/cats-bridge/internal/protocol"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

// Sender writes one message to a robot channel.
type Sender interface {
	Send(text string) error
}

// message is one inbound line tagged with its channel.
type message struct {
	text    string
	channel protocol.Channel
}

// Controller bridges the robot channels to the process variable store.
//
// It tracks which channels are connected, owns the outbound command queue
// and the inbound message queue, and runs the dispatcher, ingestor and
// status poller while both channels are up.
type Controller struct {
	store   *pvstore.Store
	command Sender
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	poller  *poller.Poller

	tools        location.Tools
	plateTypes   map[int]bool
	powerOnDelay time.Duration

	commands *queue[protocol.Command]
	messages *queue[message]

	// lifecycle serializes connect, disconnect and shutdown
	lifecycle sync.Mutex
	workers   sync.WaitGroup
	root      context.Context
	stop      context.CancelFunc

	// mu guards session state
	mu      sync.RWMutex
	pending map[protocol.Channel]bool
	ready   bool
	cancel  context.CancelFunc
	closed  bool

	timersMu sync.Mutex
	timers   map[*time.Timer]struct{}

	// unix nanos of the last decoded state reply
	lastState atomic.Int64
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	tools        location.Tools
	plateTypes   []int
	powerOnDelay time.Duration
	pollInterval time.Duration
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTools sets the tool numbers used for puck and plate operations.
func WithTools(t location.Tools) Option {
	return func(o *options) { o.tools = t }
}

// WithPlateTypes sets the plate types accepted by plate operations.
func WithPlateTypes(types []int) Option {
	return func(o *options) { o.plateTypes = append([]int(nil), types...) }
}

// WithPowerOnDelay sets the pause between "reset" and "on".
func WithPowerOnDelay(d time.Duration) Option {
	return func(o *options) { o.powerOnDelay = d }
}

// WithPollInterval sets the status query cadence.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// New creates a controller and registers its command handlers on store.
// command and status are the outbound sides of the two robot channels.
func New(store *pvstore.Store, command, status Sender, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("bridge: store required")
	}
	if command == nil || status == nil {
		return nil, errors.New("bridge: command and status senders required")
	}

	o := options{
		tools:        location.DefaultTools,
		plateTypes:   []int{1, 2},
		powerOnDelay: time.Second,
		pollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}

	p, err := poller.New(
		poller.Config{Interval: o.pollInterval, Queries: protocol.StatusQueries, Metrics: o.metrics},
		status,
		o.log.WithField("channel", protocol.ChannelStatus.String()),
	)
	if err != nil {
		return nil, err
	}

	root, stop := context.WithCancel(context.Background())

	c := &Controller{
		store:        store,
		command:      command,
		log:          o.log.WithField("component", "bridge"),
		metrics:      o.metrics,
		poller:       p,
		tools:        o.tools,
		plateTypes:   make(map[int]bool, len(o.plateTypes)),
		powerOnDelay: o.powerOnDelay,
		commands:     newQueue[protocol.Command](),
		messages:     newQueue[message](),
		root:         root,
		stop:         stop,
		pending:      make(map[protocol.Channel]bool, len(protocol.Channels)),
		timers:       make(map[*time.Timer]struct{}),
	}
	for _, t := range o.plateTypes {
		c.plateTypes[t] = true
	}
	for _, ch := range protocol.Channels {
		c.pending[ch] = true
	}

	if err := c.registerCommands(); err != nil {
		stop()
		return nil, err
	}

	return c, nil
}

// Store returns the store the controller reads and writes.
func (c *Controller) Store() *pvstore.Store {
	return c.store
}

// ------------------------------------------------------------
// transport events
// ------------------------------------------------------------

// OnConnect marks ch connected. When no channel is pending any more a new
// session starts: both queues are cleared, the workers start and
// CONNECTED is set.
func (c *Controller) OnConnect(ch protocol.Channel) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.metrics.Reconnect(ch.String())
	c.metrics.SetConnected(ch.String(), true)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.pending, ch)
	complete := len(c.pending) == 0
	c.ready = false
	prev := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	c.log.WithField("channel", ch.String()).Info("channel connected")

	if prev != nil {
		// duplicate connect while a session was running
		prev()
		c.workers.Wait()
	}

	if !complete {
		c.metrics.SetReady(false)
		return
	}

	// workers of a cancelled session may still be inside Send or process
	c.workers.Wait()

	c.commands.Clear()
	c.messages.Clear()

	ctx, cancel := context.WithCancel(c.root)
	c.workers.Add(3)
	go c.dispatch(ctx)
	go c.ingest(ctx)
	go func() {
		defer c.workers.Done()
		c.poller.Run(ctx)
	}()

	c.mu.Lock()
	c.cancel = cancel
	c.ready = true
	c.mu.Unlock()

	c.put(FieldConnected, 1)
	c.metrics.SetReady(true)
	c.log.Warn("controller ready")
}

// OnDisconnect marks ch pending again and ends the running session.
// Queued items are not drained.
func (c *Controller) OnDisconnect(ch protocol.Channel) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.metrics.SetConnected(ch.String(), false)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.pending[ch] = true
	c.ready = false
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.stopTimers()

	c.put(FieldConnected, 0)
	c.metrics.SetReady(false)
	c.log.WithField("channel", ch.String()).Warn("channel disconnected")
}

// OnMessage queues one inbound line for the ingestor.
func (c *Controller) OnMessage(text string, ch protocol.Channel) {
	c.messages.Push(message{text: text, channel: ch})
}

// ------------------------------------------------------------
// readiness
// ------------------------------------------------------------

// LastState returns when the last state reply was decoded.
// It is zero until the first one.
func (c *Controller) LastState() time.Time {
	n := c.lastState.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Ready reports whether both channels are connected and a session runs.
func (c *Controller) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// ReadyForCommands reports whether a command would be accepted now.
func (c *Controller) ReadyForCommands() bool {
	return c.Ready() &&
		c.store.Int(FieldEnabled) != 0 &&
		c.store.Int(FieldConnected) != 0
}

// Pending returns the channels that are not connected.
func (c *Controller) Pending() []protocol.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]protocol.Channel, 0, len(c.pending))
	for _, ch := range protocol.Channels {
		if c.pending[ch] {
			out = append(out, ch)
		}
	}
	return out
}

// Enqueue queues cmd for the command channel.
// Commands issued while not ready are dropped, never replayed.
func (c *Controller) Enqueue(cmd protocol.Command) bool {
	if !c.ReadyForCommands() {
		c.metrics.CommandDropped("not_ready")
		c.log.WithField("command", cmd.Name).Debug("controller not ready, command dropped")
		return false
	}
	c.commands.Push(cmd)
	return true
}

// ------------------------------------------------------------
// shutdown
// ------------------------------------------------------------

// Shutdown stops every worker and waits for them until ctx is done.
// The controller ignores transport events afterwards.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.lifecycle.Lock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.lifecycle.Unlock()
		return nil
	}
	c.closed = true
	c.ready = false
	c.cancel = nil
	c.mu.Unlock()

	c.stop()
	c.stopTimers()
	c.put(FieldConnected, 0)
	c.metrics.SetReady(false)
	c.lifecycle.Unlock()

	done := make(chan struct{})
	go func() {
		c.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info("controller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

// put writes a store field. Failures are programming errors and only logged.
func (c *Controller) put(name string, value any) {
	if err := c.store.Put(name, value); err != nil {
		c.log.WithError(err).WithField("field", name).Error("store write failed")
	}
}

// after runs fn once d has elapsed unless the session ends first.
func (c *Controller) after(d time.Duration, fn func()) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		c.timersMu.Lock()
		_, live := c.timers[t]
		delete(c.timers, t)
		c.timersMu.Unlock()
		if live {
			fn()
		}
	})
	c.timers[t] = struct{}{}
}

func (c *Controller) stopTimers() {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}
