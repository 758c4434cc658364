package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
)

// StatusReport renders the trigger list with cron expressions and computed
// next runs.
func (s *Service) StatusReport() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "LLM trigger scheduler\n")
	fmt.Fprintf(&b, "triggers: %d, check interval: %s\n", len(s.triggers), s.interval)
	if len(s.triggers) == 0 {
		b.WriteString("no triggers configured")
		return b.String()
	}
	for _, st := range s.triggers {
		fmt.Fprintf(&b, "- %s (%s) -> %s\n",
			st.Def.Origin(), st.Def.CronExpr, st.NextRun.Format(time.RFC3339))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RunAll force-executes every trigger once, without touching its schedule,
// and reports how many succeeded.
func (s *Service) RunAll(ctx context.Context) (succeeded, total int) {
	s.mu.Lock()
	defs := make([]Definition, len(s.triggers))
	for i, st := range s.triggers {
		defs[i] = st.Def
	}
	s.mu.Unlock()

	for _, def := range defs {
		if err := s.exec.Execute(ctx, def); err != nil {
			slog.Error("trigger test run failed", "origin", def.Origin(), "error", err)
			continue
		}
		succeeded++
	}
	return succeeded, len(defs)
}

// CommandHandler serves the chat command surface: "llm_trigger" replies
// with the status report, "llm_trigger_test" (admin only) force-runs all
// triggers.
type CommandHandler struct {
	bus     *bus.MessageBus
	svc     *Service
	adminID string
}

func NewCommandHandler(msgBus *bus.MessageBus, svc *Service, adminID string) *CommandHandler {
	return &CommandHandler{bus: msgBus, svc: svc, adminID: adminID}
}

// Run consumes inbound messages until ctx is cancelled.
func (h *CommandHandler) Run(ctx context.Context) {
	for {
		msg, err := h.bus.ConsumeInbound(ctx)
		if err != nil {
			return
		}
		h.handle(ctx, msg)
	}
}

func (h *CommandHandler) handle(ctx context.Context, msg bus.InboundMessage) {
	switch strings.TrimSpace(msg.Content) {
	case "llm_trigger":
		h.reply(msg, h.svc.StatusReport())
	case "llm_trigger_test":
		if msg.SenderID != h.adminID {
			h.reply(msg, "only the admin can run trigger tests")
			return
		}
		h.reply(msg, "running all triggers...")
		ok, total := h.svc.RunAll(ctx)
		h.reply(msg, fmt.Sprintf("trigger test finished: %d/%d succeeded", ok, total))
	}
}

func (h *CommandHandler) reply(in bus.InboundMessage, text string) {
	h.bus.PublishOutbound(bus.OutboundMessage{
		Channel: in.Channel,
		Kind:    in.Kind,
		ChatID:  in.ChatID,
		Content: text,
		Type:    "text",
	})
}
