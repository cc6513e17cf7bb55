// internal/protocol/channel.go
package protocol

// Channel identifies one of the two robot TCP connections.
type Channel uint8

const (
	ChannelCommand Channel = iota + 1
	ChannelStatus
)

// Channels lists every channel the bridge needs before it is ready.
var Channels = []Channel{ChannelCommand, ChannelStatus}

func (c Channel) String() string {
	switch c {
	case ChannelCommand:
		return "COMMAND"
	case ChannelStatus:
		return "STATUS"
	default:
		return "UNKNOWN"
	}
}
