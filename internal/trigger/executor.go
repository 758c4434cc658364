package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/providers"
)

// defaultSystemPrompt is the fixed system instruction sent with every
// trigger execution.
const defaultSystemPrompt = "你是一个有用的AI助手。"

// ProviderResolver resolves a provider by its configured name.
type ProviderResolver interface {
	Lookup(name string) (providers.Provider, bool)
}

// Deliverer synchronously routes an outbound message to its platform
// channel.
type Deliverer interface {
	Deliver(msg bus.OutboundMessage) error
}

// Runner executes one trigger. Implemented by Executor; scheduler tests
// substitute a mock.
type Runner interface {
	Execute(ctx context.Context, def Definition) error
}

// Executor runs a single trigger: resolve the provider, ask it with the
// trigger prompt, and forward a non-empty reply to the trigger's
// destination. An unresolved provider and an empty reply are non-fatal
// skips; provider and delivery errors are returned to the caller.
type Executor struct {
	registry     ProviderResolver
	deliverer    Deliverer
	systemPrompt string
	timeout      time.Duration
}

func NewExecutor(registry ProviderResolver, deliverer Deliverer, timeout time.Duration) *Executor {
	return &Executor{
		registry:     registry,
		deliverer:    deliverer,
		systemPrompt: defaultSystemPrompt,
		timeout:      timeout,
	}
}

func (e *Executor) Execute(ctx context.Context, def Definition) error {
	p, ok := e.registry.Lookup(def.Provider)
	if !ok {
		slog.Warn("provider not registered, skipping trigger",
			"provider", def.Provider, "origin", def.Origin())
		return nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := p.Chat(ctx, providers.ChatRequest{
		Messages:     []providers.Message{{Role: "user", Content: def.Prompt}},
		SystemPrompt: e.systemPrompt,
	})
	if err != nil {
		return fmt.Errorf("provider %q: %w", def.Provider, err)
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		slog.Warn("provider returned no usable reply",
			"provider", def.Provider, "origin", def.Origin())
		return nil
	}

	msg := bus.OutboundMessage{
		Channel: def.Platform,
		Kind:    def.Category.MessageKind(),
		ChatID:  def.TargetID,
		Content: resp.Content,
		Type:    "text",
	}
	if err := e.deliverer.Deliver(msg); err != nil {
		return fmt.Errorf("deliver to %s: %w", msg.Origin(), err)
	}

	slog.Info("delivered LLM reply", "origin", msg.Origin(), "provider", def.Provider)
	return nil
}
