package config

import (
	"fmt"
	"sync"
	"time"
)

// Config is the root configuration for the deskrelay bot.
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Support   SupportConfig   `json:"support"`
	Reminder  ReminderConfig  `json:"reminder,omitempty"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
	mu        sync.RWMutex
}

// TelegramConfig configures the Telegram transport.
// Token is NEVER read from the config file (secret) — only from env
// DESKRELAY_TELEGRAM_TOKEN.
type TelegramConfig struct {
	Token string `json:"-"`
	Proxy string `json:"proxy,omitempty"` // optional HTTP(S) proxy URL for the Bot API
}

// SupportConfig identifies the agent pool's shared channel.
type SupportConfig struct {
	// GroupID is the chat that receives every new-claim announcement.
	GroupID string `json:"group_id"`
}

// ReminderConfig controls the still-waiting reminder sweep.
type ReminderConfig struct {
	Every string `json:"every,omitempty"` // Go duration, default "1h"
	Cron  string `json:"cron,omitempty"`  // optional cron expression; overrides Every
}

// TelemetryConfig configures OpenTelemetry trace export. When enabled, spans
// are exported to an OTLP-compatible backend (Jaeger, Tempo, Datadog, etc.).
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty"`     // e.g. "localhost:4317"
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // skip TLS (local dev)
	ServiceName string            `json:"service_name,omitempty"` // default "deskrelay"
	Headers     map[string]string `json:"headers,omitempty"`      // e.g. auth tokens for cloud backends
}

// Validate checks the settings the bot cannot run without.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token missing: set DESKRELAY_TELEGRAM_TOKEN")
	}
	if c.Support.GroupID == "" {
		return fmt.Errorf("support group missing: set support.group_id or DESKRELAY_SUPPORT_GROUP_ID")
	}
	return nil
}

// ReminderSchedule returns the current sweep cadence: a fixed interval and an
// optional cron expression that takes precedence when non-empty. Read on
// every scheduler cycle so config hot reload takes effect without restart.
func (c *Config) ReminderSchedule() (time.Duration, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	every := time.Hour
	if c.Reminder.Every != "" {
		if d, err := time.ParseDuration(c.Reminder.Every); err == nil && d > 0 {
			every = d
		}
	}
	return every, c.Reminder.Cron
}

// ReplaceFrom copies all data fields from src into c, preserving c's mutex.
// Used by config hot reload.
func (c *Config) ReplaceFrom(src *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Telegram = src.Telegram
	c.Support = src.Support
	c.Reminder = src.Reminder
	c.Telemetry = src.Telemetry
}
