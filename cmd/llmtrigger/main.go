package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/bus"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/channels"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/config"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/providers"
	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/trigger"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "llmtrigger",
		Short: "Cron-scheduled LLM prompts delivered to chat platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to config.json (default ~/.llmtrigger/config.json)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	registry, err := providers.BuildRegistry(cfg.Providers)
	if err != nil {
		return fmt.Errorf("build provider registry: %w", err)
	}

	msgBus := bus.NewMessageBus(0)
	manager := channels.NewManager(msgBus)
	if err := addConfiguredChannels(manager, cfg); err != nil {
		return err
	}

	now := time.Now()
	states := trigger.Load(cfg.Scheduler.GroupTriggers, cfg.Scheduler.FriendTriggers, now)
	slog.Info("trigger scheduler initialised", "triggers", len(states))

	notifier := trigger.NewNotifier(
		cfg.Scheduler.AdminUserID,
		cfg.Scheduler.NotifyChannel,
		cfg.Scheduler.NotifyOnSuccess,
		cfg.Scheduler.NotifyOnFailure,
		manager.Deliver,
	)
	executor := trigger.NewExecutor(registry, manager,
		time.Duration(cfg.Scheduler.ExecutionTimeoutSeconds)*time.Second)
	svc := trigger.NewService(trigger.Options{
		Triggers: states,
		Interval: time.Duration(cfg.Scheduler.CheckIntervalSeconds) * time.Second,
		Executor: executor,
		Notifier: notifier,
	})
	handler := trigger.NewCommandHandler(msgBus, svc, cfg.Scheduler.AdminUserID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		msgBus.DispatchOutbound(gctx)
		return nil
	})
	g.Go(func() error {
		handler.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return manager.StartAll(gctx)
	})

	svc.Start(gctx)
	slog.Info("llmtrigger running", "checkInterval", svc.Interval())

	<-gctx.Done()
	slog.Info("shutting down")

	svc.Stop()
	if err := manager.StopAll(); err != nil {
		slog.Error("error stopping channels", "error", err)
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// addConfiguredChannels registers every platform channel that has
// credentials configured.
func addConfiguredChannels(manager *channels.Manager, cfg *config.Config) error {
	add := func(name string, chCfg any, configured bool) error {
		if !configured {
			return nil
		}
		raw, err := json.Marshal(chCfg)
		if err != nil {
			return fmt.Errorf("marshal %s config: %w", name, err)
		}
		if err := manager.AddChannel(name, raw); err != nil {
			return err
		}
		slog.Info("channel configured", "channel", name)
		return nil
	}

	if err := add("telegram", cfg.Channels.Telegram, cfg.Channels.Telegram.Token != ""); err != nil {
		return err
	}
	if err := add("discord", cfg.Channels.Discord, cfg.Channels.Discord.Token != ""); err != nil {
		return err
	}
	if err := add("slack", cfg.Channels.Slack, cfg.Channels.Slack.BotToken != ""); err != nil {
		return err
	}
	if err := add("qq", cfg.Channels.QQ, cfg.Channels.QQ.AppID != ""); err != nil {
		return err
	}
	return nil
}
