package bus

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPublishConsumeInbound(t *testing.T) {
	tests := []struct {
		name string
		msg  InboundMessage
	}{
		{
			name: "basic message",
			msg:  InboundMessage{Channel: "telegram", Kind: KindPrivate, SenderID: "u1", ChatID: "c1", Content: "llm_trigger"},
		},
		{
			name: "message with metadata",
			msg:  InboundMessage{Channel: "qq", Kind: KindGroup, SenderID: "u2", ChatID: "c2", Content: "hello", Metadata: map[string]string{"k": "v"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewMessageBus(10)
			b.PublishInbound(tc.msg)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			got, err := b.ConsumeInbound(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Channel != tc.msg.Channel || got.Content != tc.msg.Content {
				t.Errorf("got %+v, want %+v", got, tc.msg)
			}
		})
	}
}

func TestOutboundDispatch(t *testing.T) {
	tests := []struct {
		name    string
		subChan string
		pubChan string
		wantHit bool
	}{
		{"matching channel", "telegram", "telegram", true},
		{"non-matching channel", "discord", "telegram", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewMessageBus(10)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var mu sync.Mutex
			var received []OutboundMessage

			b.Subscribe(tc.subChan, func(msg OutboundMessage) {
				mu.Lock()
				received = append(received, msg)
				mu.Unlock()
			})

			go b.DispatchOutbound(ctx)

			b.PublishOutbound(OutboundMessage{Channel: tc.pubChan, Kind: KindGroup, ChatID: "c1", Content: "hi", Type: "text"})

			// wait briefly for dispatch
			time.Sleep(50 * time.Millisecond)

			mu.Lock()
			got := len(received) > 0
			mu.Unlock()

			if got != tc.wantHit {
				t.Errorf("received=%v, wantHit=%v", got, tc.wantHit)
			}
		})
	}
}

func TestConsumeInboundCancellation(t *testing.T) {
	b := NewMessageBus(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := b.ConsumeInbound(ctx)
	if err == nil {
		t.Fatal("expected error on cancelled context, got nil")
	}
}

func TestSubscribeAll(t *testing.T) {
	b := NewMessageBus(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []OutboundMessage

	// empty string = subscribe to all channels
	b.Subscribe("", func(msg OutboundMessage) {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
	})

	go b.DispatchOutbound(ctx)

	channels := []string{"telegram", "discord", "qq"}
	for _, ch := range channels {
		b.PublishOutbound(OutboundMessage{Channel: ch, Content: "msg"})
	}

	// wait for dispatch
	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n >= len(channels) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timeout: got %d messages, want %d", n, len(channels))
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != len(channels) {
		t.Errorf("got %d messages, want %d", len(received), len(channels))
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name string
		msg  OutboundMessage
		want string
	}{
		{
			name: "group destination",
			msg:  OutboundMessage{Channel: "qq", Kind: KindGroup, ChatID: "12345"},
			want: "qq:group_message:12345",
		},
		{
			name: "private destination",
			msg:  OutboundMessage{Channel: "telegram", Kind: KindPrivate, ChatID: "u9"},
			want: "telegram:private_message:u9",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.Origin(); got != tc.want {
				t.Errorf("Origin() = %q, want %q", got, tc.want)
			}
		})
	}
}
