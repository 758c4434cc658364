package config

// Config is the top-level configuration.
type Config struct {
	LogLevel  string                    `json:"logLevel"`
	Scheduler SchedulerConfig           `json:"scheduler"`
	Providers map[string]ProviderConfig `json:"providers"`
	Channels  ChannelsConfig            `json:"channels"`
}

// SchedulerConfig drives the trigger scheduler.
type SchedulerConfig struct {
	// CheckIntervalSeconds is the poll cadence of the scheduler loop.
	CheckIntervalSeconds int `json:"checkIntervalSeconds"`

	// GroupTriggers and FriendTriggers hold raw trigger definitions, one
	// per entry, in the form
	// "platform::target_id::provider::cron_expr::prompt".
	GroupTriggers  []string `json:"groupTriggers"`
	FriendTriggers []string `json:"friendTriggers"`

	// AdminUserID receives success/failure notices. The sentinel "admin"
	// means notices are only logged.
	AdminUserID string `json:"adminUserId"`

	// NotifyChannel is the platform channel used to reach the admin.
	NotifyChannel string `json:"notifyChannel"`

	NotifyOnFailure bool `json:"notifyOnFailure"`
	NotifyOnSuccess bool `json:"notifyOnSuccess"`

	// ExecutionTimeoutSeconds bounds one trigger execution (provider call
	// plus delivery).
	ExecutionTimeoutSeconds int `json:"executionTimeoutSeconds"`
}

// ProviderConfig describes one named LLM provider instance. Triggers
// reference providers by their map key.
type ProviderConfig struct {
	Type    string `json:"type"` // "openai" (or any OpenAI-compatible API) or "anthropic"
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
	Slack    SlackConfig    `json:"slack"`
	QQ       QQConfig       `json:"qq"`
}

type TelegramConfig struct {
	Token        string   `json:"token"`
	AllowedUsers []string `json:"allowedUsers"`
}

type DiscordConfig struct {
	Token        string   `json:"token"`
	AllowedUsers []string `json:"allowedUsers"`
}

type SlackConfig struct {
	BotToken     string   `json:"botToken"`
	AppToken     string   `json:"appToken"`
	AllowedUsers []string `json:"allowedUsers"`
}

type QQConfig struct {
	AppID        string   `json:"appId"`
	Token        string   `json:"token"`
	AppSecret    string   `json:"appSecret"`
	WebhookPort  int      `json:"webhookPort"`
	AllowedUsers []string `json:"allowedUsers"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Scheduler: SchedulerConfig{
			CheckIntervalSeconds:    30,
			AdminUserID:             "admin",
			NotifyOnFailure:         true,
			NotifyOnSuccess:         false,
			ExecutionTimeoutSeconds: 120,
		},
	}
}
