package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
)

func init() {
	Register("discord", newDiscordChannel)
}

type discordConfig struct {
	Token        string   `json:"token"`
	AllowedUsers []string `json:"allowedUsers"`
}

type DiscordChannel struct {
	session      *discordgo.Session
	bus          *bus.MessageBus
	allowedUsers map[string]bool
}

func newDiscordChannel(cfg json.RawMessage, msgBus *bus.MessageBus) (Channel, error) {
	var dcfg discordConfig
	if err := json.Unmarshal(cfg, &dcfg); err != nil {
		return nil, fmt.Errorf("failed to parse discord config: %w", err)
	}
	session, err := discordgo.New("Bot " + dcfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	allowed := make(map[string]bool, len(dcfg.AllowedUsers))
	for _, u := range dcfg.AllowedUsers {
		allowed[u] = true
	}
	return &DiscordChannel{
		session:      session,
		bus:          msgBus,
		allowedUsers: allowed,
	}, nil
}

func (c *DiscordChannel) Name() string { return "discord" }

func (c *DiscordChannel) Start(ctx context.Context) error {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if !c.IsAllowed(m.Author.ID) {
			slog.Warn("discord: message from disallowed user", "userID", m.Author.ID)
			return
		}
		kind := bus.KindGroup
		if m.GuildID == "" {
			kind = bus.KindPrivate
		}
		c.bus.PublishInbound(bus.InboundMessage{
			Channel:  "discord",
			Kind:     kind,
			SenderID: m.Author.ID,
			ChatID:   m.ChannelID,
			Content:  m.Content,
		})
	})
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("discord: failed to open websocket: %w", err)
	}
	return nil
}

func (c *DiscordChannel) Stop() error {
	return c.session.Close()
}

// Send delivers a message. Direct messages need a DM channel created from
// the recipient's user id first; group messages post straight to the
// channel id.
func (c *DiscordChannel) Send(msg bus.OutboundMessage) error {
	channelID := msg.ChatID
	if msg.Kind == bus.KindPrivate {
		dm, err := c.session.UserChannelCreate(msg.ChatID)
		if err != nil {
			return fmt.Errorf("discord: failed to open DM with %q: %w", msg.ChatID, err)
		}
		channelID = dm.ID
	}
	_, err := c.session.ChannelMessageSend(channelID, msg.Content)
	if err != nil {
		return fmt.Errorf("discord: failed to send message: %w", err)
	}
	return nil
}

func (c *DiscordChannel) IsAllowed(senderID string) bool {
	if len(c.allowedUsers) == 0 {
		return true
	}
	return c.allowedUsers[senderID]
}
