package trigger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/providers"
)

type mockProvider struct {
	reply string
	err   error
	calls int
	seen  providers.ChatRequest
}

func (m *mockProvider) Chat(_ context.Context, req providers.ChatRequest) (*providers.ChatResponse, error) {
	m.calls++
	m.seen = req
	if m.err != nil {
		return nil, m.err
	}
	return &providers.ChatResponse{Content: m.reply}, nil
}

type mockResolver struct {
	providers map[string]providers.Provider
}

func (m *mockResolver) Lookup(name string) (providers.Provider, bool) {
	p, ok := m.providers[name]
	return p, ok
}

type mockDeliverer struct {
	sent []bus.OutboundMessage
	err  error
}

func (m *mockDeliverer) Deliver(msg bus.OutboundMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func groupDef() Definition {
	return Definition{
		Category: CategoryGroup,
		Platform: "qq",
		TargetID: "g1",
		Provider: "provA",
		CronExpr: "*/5 * * * *",
		Prompt:   "good morning",
	}
}

func TestExecuteDeliversReply(t *testing.T) {
	prov := &mockProvider{reply: "hello there"}
	deliv := &mockDeliverer{}
	exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{"provA": prov}}, deliv, time.Minute)

	if err := exec.Execute(context.Background(), groupDef()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if prov.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", prov.calls)
	}
	if len(prov.seen.Messages) != 1 || prov.seen.Messages[0].Content != "good morning" {
		t.Errorf("unexpected provider request %+v", prov.seen.Messages)
	}
	if prov.seen.SystemPrompt == "" {
		t.Error("expected a default system prompt")
	}

	if len(deliv.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(deliv.sent))
	}
	got := deliv.sent[0]
	if got.Channel != "qq" || got.Kind != bus.KindGroup || got.ChatID != "g1" {
		t.Errorf("composite address = %s, want qq:group_message:g1", got.Origin())
	}
	if got.Content != "hello there" {
		t.Errorf("content = %q, want provider reply", got.Content)
	}
}

func TestExecutePrivateKind(t *testing.T) {
	prov := &mockProvider{reply: "hi"}
	deliv := &mockDeliverer{}
	exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{"provA": prov}}, deliv, 0)

	def := groupDef()
	def.Category = CategoryPrivate
	def.Platform = "telegram"
	def.TargetID = "u9"

	if err := exec.Execute(context.Background(), def); err != nil {
		t.Fatal(err)
	}
	if deliv.sent[0].Origin() != "telegram:private_message:u9" {
		t.Errorf("origin = %q, want telegram:private_message:u9", deliv.sent[0].Origin())
	}
}

func TestExecuteUnknownProviderSkips(t *testing.T) {
	deliv := &mockDeliverer{}
	exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{}}, deliv, 0)

	// Unresolved provider is a non-fatal skip, not an error.
	if err := exec.Execute(context.Background(), groupDef()); err != nil {
		t.Fatalf("expected nil error for unknown provider, got %v", err)
	}
	if len(deliv.sent) != 0 {
		t.Error("no delivery expected for unknown provider")
	}
}

func TestExecuteEmptyReplyNoDelivery(t *testing.T) {
	for _, reply := range []string{"", "   ", "\n"} {
		prov := &mockProvider{reply: reply}
		deliv := &mockDeliverer{}
		exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{"provA": prov}}, deliv, 0)

		if err := exec.Execute(context.Background(), groupDef()); err != nil {
			t.Fatalf("reply %q: expected nil error, got %v", reply, err)
		}
		if len(deliv.sent) != 0 {
			t.Errorf("reply %q: no delivery expected", reply)
		}
	}
}

func TestExecuteProviderError(t *testing.T) {
	wantErr := errors.New("rate limited")
	prov := &mockProvider{err: wantErr}
	deliv := &mockDeliverer{}
	exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{"provA": prov}}, deliv, 0)

	err := exec.Execute(context.Background(), groupDef())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if len(deliv.sent) != 0 {
		t.Error("no delivery expected after provider error")
	}
}

func TestExecuteDeliveryError(t *testing.T) {
	wantErr := errors.New("channel down")
	prov := &mockProvider{reply: "hi"}
	deliv := &mockDeliverer{err: wantErr}
	exec := NewExecutor(&mockResolver{providers: map[string]providers.Provider{"provA": prov}}, deliv, 0)

	err := exec.Execute(context.Background(), groupDef())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped delivery error, got %v", err)
	}
}
