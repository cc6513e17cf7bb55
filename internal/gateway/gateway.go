// internal/gateway/gateway.go
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

const defaultBuffer = 1024

// Config is the runtime config of the Redis gateway.
type Config struct {
	Prefix string
	Device string
	Buffer int // pending change events; 0 => default
}

// Event is one field change as published on the changes channel and
// accepted on the put channel.
type Event struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Gateway exposes a store through Redis.
//
// Current values live in a hash, every change is published as an Event,
// and Events received on the put channel are written to the store.
type Gateway struct {
	client *redis.Client
	store  *pvstore.Store
	cfg    Config
	log    logrus.FieldLogger

	events chan Event
}

// New wires the gateway to the store. Changes are buffered until Run.
func New(client *redis.Client, store *pvstore.Store, cfg Config, log logrus.FieldLogger) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("gateway: redis client required")
	}
	if store == nil {
		return nil, errors.New("gateway: store required")
	}
	if cfg.Prefix == "" || cfg.Device == "" {
		return nil, errors.New("gateway: prefix and device required")
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	g := &Gateway{
		client: client,
		store:  store,
		cfg:    cfg,
		log:    log.WithField("component", "gateway"),
		events: make(chan Event, cfg.Buffer),
	}
	store.Watch(g.changed)
	return g, nil
}

func (g *Gateway) key(suffix string) string {
	return fmt.Sprintf("%s:%s:%s", g.cfg.Prefix, g.cfg.Device, suffix)
}

// ValuesKey is the hash holding the current value of every field.
func (g *Gateway) ValuesKey() string { return g.key("pv") }

// ChangesChannel carries one Event per store write.
func (g *Gateway) ChangesChannel() string { return g.key("changes") }

// PutChannel accepts Events from external writers.
func (g *Gateway) PutChannel() string { return g.key("put") }

// changed runs inside store.Put and must not block.
func (g *Gateway) changed(name string, value any) {
	select {
	case g.events <- Event{Name: name, Value: pvstore.JSONValue(value)}:
	default:
		g.log.WithField("field", name).Warn("change buffer full, event dropped")
	}
}

// Run subscribes to the put channel, writes the full value hash and then
// mirrors changes until ctx is done.
func (g *Gateway) Run(ctx context.Context) error {
	sub := g.client.Subscribe(ctx, g.PutChannel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("gateway: subscribe: %w", err)
	}

	if err := g.Sync(ctx); err != nil {
		g.log.WithError(err).Warn("initial sync failed")
	}
	g.log.WithField("key", g.ValuesKey()).Info("gateway running")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-g.events:
			if err := g.publish(ctx, ev); err != nil && ctx.Err() == nil {
				g.log.WithError(err).WithField("field", ev.Name).Warn("publish failed")
			}

		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			g.apply(m.Payload)
		}
	}
}

// Sync writes every current value to the hash.
func (g *Gateway) Sync(ctx context.Context) error {
	snap := g.store.Snapshot()
	values := make(map[string]any, len(snap))
	for name, v := range snap {
		values[name] = pvstore.Format(v)
	}
	return g.client.HSet(ctx, g.ValuesKey(), values).Err()
}

func (g *Gateway) publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("gateway: encode: %w", err)
	}

	pipe := g.client.Pipeline()
	pipe.HSet(ctx, g.ValuesKey(), ev.Name, pvstore.Format(ev.Value))
	pipe.Publish(ctx, g.ChangesChannel(), payload)
	_, err = pipe.Exec(ctx)
	return err
}

// apply writes one external Event to the store.
func (g *Gateway) apply(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		g.log.WithError(err).Warn("invalid put message")
		return
	}
	if err := g.store.Put(ev.Name, ev.Value); err != nil {
		g.log.WithError(err).WithField("field", ev.Name).Warn("put rejected")
	}
}
