// internal/bridge/ingestor.go
package bridge

import (
	"context"

	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// ingest is the single consumer of the message queue.
func (c *Controller) ingest(ctx context.Context) {
	defer c.workers.Done()

	for {
		m, ok := c.messages.Pop(ctx)
		if !ok {
			return
		}
		c.process(m)
	}
}

// process routes one inbound line.
// Command channel lines are robot replies and go to LOG.
func (c *Controller) process(m message) {
	c.log.WithField("channel", m.channel.String()).Debugf("> %s", m.text)

	switch m.channel {
	case protocol.ChannelStatus:
		c.decode(m.text)
	case protocol.ChannelCommand:
		c.put(FieldLog, m.text)
	default:
		c.log.WithField("channel", m.channel.String()).Warn("message on unknown channel ignored")
	}
}
