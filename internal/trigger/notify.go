package trigger

import (
	"log/slog"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
)

// LogOnlyAdmin is the sentinel admin id meaning notices are only logged,
// never delivered.
const LogOnlyAdmin = "admin"

// DeliverFunc routes an admin notice. nil means log-only.
type DeliverFunc func(msg bus.OutboundMessage) error

// Notifier formats and routes execution success/failure notices to the
// configured admin. Routing is a policy concern: without a real admin id
// and a notify channel, notices only hit the log.
type Notifier struct {
	adminID   string
	channel   string
	onSuccess bool
	onFailure bool
	deliver   DeliverFunc
}

func NewNotifier(adminID, channel string, onSuccess, onFailure bool, deliver DeliverFunc) *Notifier {
	return &Notifier{
		adminID:   adminID,
		channel:   channel,
		onSuccess: onSuccess,
		onFailure: onFailure,
		deliver:   deliver,
	}
}

// Success emits an execution-succeeded notice if enabled.
func (n *Notifier) Success(message string) {
	if n == nil || !n.onSuccess {
		return
	}
	n.send("✅ "+message, "notice")
}

// Failure emits an execution-failed notice if enabled.
func (n *Notifier) Failure(message string) {
	if n == nil || !n.onFailure {
		return
	}
	n.send("❌ "+message, "error")
}

func (n *Notifier) send(text, msgType string) {
	if n.deliver == nil || n.channel == "" || n.adminID == "" || n.adminID == LogOnlyAdmin {
		slog.Info("notification", "message", text)
		return
	}
	err := n.deliver(bus.OutboundMessage{
		Channel: n.channel,
		Kind:    bus.KindPrivate,
		ChatID:  n.adminID,
		Content: text,
		Type:    msgType,
	})
	if err != nil {
		slog.Error("failed to deliver notification", "admin", n.adminID, "error", err)
	}
}
