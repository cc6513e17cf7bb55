// internal/transport/builder.go
package transport

import (
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/tamzrod/cats-bridge/internal/config"
	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// Build creates the command and status clients for one robot.
// Assumes config has passed Validate and Normalize.
func Build(r cfg.RobotConfig, h Handler, log logrus.FieldLogger) (command, status *Client, err error) {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	base := Config{
		Delimiter:        r.Delimiter,
		DialTimeout:      ms(r.DialTimeoutMs),
		WriteTimeout:     ms(r.WriteTimeoutMs),
		ReconnectInitial: ms(r.ReconnectInitialMs),
		ReconnectMax:     ms(r.ReconnectMaxMs),
	}

	cc := base
	cc.Channel = protocol.ChannelCommand
	cc.Address = net.JoinHostPort(r.Address, strconv.Itoa(r.CommandPort))
	if command, err = New(cc, h, log); err != nil {
		return nil, nil, err
	}

	sc := base
	sc.Channel = protocol.ChannelStatus
	sc.Address = net.JoinHostPort(r.Address, strconv.Itoa(r.StatusPort))
	if status, err = New(sc, h, log); err != nil {
		return nil, nil, err
	}

	return command, status, nil
}
