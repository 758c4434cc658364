package bus

import "fmt"

// Message kinds mirror the unified origin notation used when addressing a
// destination: "<platform>:<kind>:<target>".
const (
	KindGroup   = "group_message"
	KindPrivate = "private_message"
)

// InboundMessage is a message received from a platform channel, typically
// an admin command.
type InboundMessage struct {
	Channel  string            // source channel name (e.g. "telegram", "qq")
	Kind     string            // KindGroup or KindPrivate
	SenderID string            // sender identifier
	ChatID   string            // chat/conversation identifier
	Content  string            // text content
	Metadata map[string]string // arbitrary metadata
}

// OutboundMessage is a message to be delivered by a platform channel.
type OutboundMessage struct {
	Channel  string            // target channel name
	Kind     string            // KindGroup or KindPrivate
	ChatID   string            // target group or recipient id
	Content  string            // text content
	Type     string            // "text", "notice", "error"
	Metadata map[string]string // arbitrary metadata
}

// Origin returns the unified origin string for the message destination.
func (m OutboundMessage) Origin() string {
	return fmt.Sprintf("%s:%s:%s", m.Channel, m.Kind, m.ChatID)
}
