package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/deskrelay/internal/bus"
	"github.com/nextlevelbuilder/deskrelay/internal/channels"
	"github.com/nextlevelbuilder/deskrelay/internal/channels/telegram"
	"github.com/nextlevelbuilder/deskrelay/internal/config"
	"github.com/nextlevelbuilder/deskrelay/internal/desk"
	"github.com/nextlevelbuilder/deskrelay/internal/scheduler"
	"github.com/nextlevelbuilder/deskrelay/internal/telemetry"
)

func runBot() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Load config
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Deskrelay is not configured yet.")
		fmt.Println()
		fmt.Println("  export DESKRELAY_TELEGRAM_TOKEN=<bot token from @BotFather>")
		fmt.Println("  export DESKRELAY_SUPPORT_GROUP_ID=<agent group chat id>")
		fmt.Println()
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Telemetry (no-op unless enabled)
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Core components
	msgBus := bus.New()
	store := desk.NewStore()

	tg, err := telegram.New(cfg.Telegram, msgBus)
	if err != nil {
		slog.Error("failed to create telegram channel", "error", err)
		os.Exit(1)
	}

	router := desk.NewRouter(store, tg, cfg.Support.GroupID)
	reminder := scheduler.NewReminder(store, tg, cfg)

	// Lifecycle runs through the Channel interface; tg stays concrete above
	// for the Gateway wiring.
	var channel channels.Channel = tg

	// Failure to establish the transport connection is the one fatal error.
	if err := channel.Start(ctx); err != nil {
		slog.Error("failed to start channel", "channel", channel.Name(), "error", err)
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(ctx)

	// Router loop: serializes all state transitions.
	g.Go(func() error {
		for {
			ev, ok := msgBus.ConsumeInbound(ctx)
			if !ok {
				return nil
			}
			router.HandleEvent(ctx, ev)
		}
	})

	// Reminder sweep.
	g.Go(func() error {
		return reminder.Run(ctx)
	})

	// Config hot reload (non-secret settings).
	g.Go(func() error {
		return watchConfig(ctx, cfgPath, cfg)
	})

	slog.Info("deskrelay running", "support_group", cfg.Support.GroupID)

	if err := g.Wait(); err != nil {
		slog.Error("component failed", "error", err)
	}

	if err := channel.Stop(context.Background()); err != nil {
		slog.Warn("channel stop failed", "channel", channel.Name(), "error", err)
	}
	slog.Info("deskrelay stopped")
}

// watchConfig reloads the config file on change. Secrets stay env-only, so a
// reload can adjust the reminder cadence or telemetry settings but never
// rotate the bot token.
func watchConfig(ctx context.Context, cfgPath string, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config watch unavailable", "error", err)
		return nil
	}
	defer watcher.Close()

	if err := watcher.Add(cfgPath); err != nil {
		// Missing file is fine — env-only configuration.
		slog.Debug("config file not watched", "path", cfgPath, "error", err)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fresh, err := config.Load(cfgPath)
			if err != nil {
				slog.Warn("config reload failed", "error", err)
				continue
			}
			cfg.ReplaceFrom(fresh)
			slog.Info("config reloaded", "path", cfgPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watch error", "error", err)
		}
	}
}
