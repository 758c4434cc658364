package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.llmtrigger/config.json).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromFile(filepath.Join(home, ".llmtrigger", "config.json"))
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env
// overrides. Fields absent from the JSON keep their defaults; explicit
// values (including false booleans) win.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Scheduler.CheckIntervalSeconds <= 0 {
		cfg.Scheduler.CheckIntervalSeconds = 30
	}
	if cfg.Scheduler.ExecutionTimeoutSeconds <= 0 {
		cfg.Scheduler.ExecutionTimeoutSeconds = 120
	}

	return cfg, nil
}

// applyEnvOverrides applies LLMTRIGGER_-prefixed environment variable
// overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"LLMTRIGGER_CHANNELS_TELEGRAM_TOKEN": &cfg.Channels.Telegram.Token,
		"LLMTRIGGER_CHANNELS_DISCORD_TOKEN":  &cfg.Channels.Discord.Token,
		"LLMTRIGGER_CHANNELS_SLACK_BOTTOKEN": &cfg.Channels.Slack.BotToken,
		"LLMTRIGGER_CHANNELS_SLACK_APPTOKEN": &cfg.Channels.Slack.AppToken,
		"LLMTRIGGER_CHANNELS_QQ_TOKEN":       &cfg.Channels.QQ.Token,
		"LLMTRIGGER_SCHEDULER_ADMINUSERID":   &cfg.Scheduler.AdminUserID,
		"LLMTRIGGER_LOGLEVEL":                &cfg.LogLevel,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}

	// Provider API keys live in a map, so they get per-name env keys:
	// LLMTRIGGER_PROVIDER_<NAME>_APIKEY.
	for name, pc := range cfg.Providers {
		env := "LLMTRIGGER_PROVIDER_" + envKey(name) + "_APIKEY"
		if val := os.Getenv(env); val != "" {
			pc.APIKey = val
			cfg.Providers[name] = pc
		}
	}
}

// envKey uppercases a provider name into an environment-variable fragment.
func envKey(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
