// internal/bridge/dispatcher.go
package bridge

import (
	"context"

	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// dispatch is the single consumer of the command queue.
// Send failures are logged and the loop continues.
func (c *Controller) dispatch(ctx context.Context) {
	defer c.workers.Done()

	log := c.log.WithField("channel", protocol.ChannelCommand.String())

	for {
		cmd, ok := c.commands.Pop(ctx)
		if !ok {
			return
		}

		text := cmd.String()
		log.Debugf("< %s", text)

		if err := c.command.Send(text); err != nil {
			c.metrics.SendError(protocol.ChannelCommand.String())
			log.WithError(err).WithField("command", cmd.Name).Error("command send failed")
			continue
		}
		c.metrics.CommandSent(cmd.Name)
	}
}
