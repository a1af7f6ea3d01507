package config

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Reminder: ReminderConfig{
			Every: "1h",
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: "deskrelay",
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error: env vars alone can configure the bot.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values; secrets are env-only.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	envStr("DESKRELAY_TELEGRAM_TOKEN", &c.Telegram.Token)
	envStr("DESKRELAY_TELEGRAM_PROXY", &c.Telegram.Proxy)
	envStr("DESKRELAY_SUPPORT_GROUP_ID", &c.Support.GroupID)
	envStr("DESKRELAY_REMINDER_EVERY", &c.Reminder.Every)
	envStr("DESKRELAY_REMINDER_CRON", &c.Reminder.Cron)

	envStr("DESKRELAY_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("DESKRELAY_TELEMETRY_PROTOCOL", &c.Telemetry.Protocol)
	envStr("DESKRELAY_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	if v := os.Getenv("DESKRELAY_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("DESKRELAY_TELEMETRY_INSECURE"); v != "" {
		c.Telemetry.Insecure = v == "true" || v == "1"
	}
}
