// internal/transport/types.go
package transport

import (
	"errors"
	"time"

	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// ErrNotConnected is returned by Send while the channel is down.
var ErrNotConnected = errors.New("transport: not connected")

// Handler receives connection events and inbound lines of one channel.
type Handler interface {
	OnConnect(ch protocol.Channel)
	OnDisconnect(ch protocol.Channel)
	OnMessage(text string, ch protocol.Channel)
}

// Config is the runtime config of one robot channel.
type Config struct {
	Address   string // host:port
	Channel   protocol.Channel
	Delimiter string

	DialTimeout      time.Duration
	WriteTimeout     time.Duration
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
}
