package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every DESKRELAY_ variable the loader reads so ambient
// shell state cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DESKRELAY_TELEGRAM_TOKEN",
		"DESKRELAY_TELEGRAM_PROXY",
		"DESKRELAY_SUPPORT_GROUP_ID",
		"DESKRELAY_REMINDER_EVERY",
		"DESKRELAY_REMINDER_CRON",
		"DESKRELAY_TELEMETRY_ENDPOINT",
		"DESKRELAY_TELEMETRY_PROTOCOL",
		"DESKRELAY_TELEMETRY_SERVICE_NAME",
		"DESKRELAY_TELEMETRY_ENABLED",
		"DESKRELAY_TELEMETRY_INSECURE",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESKRELAY_TELEGRAM_TOKEN", "tok-123")
	t.Setenv("DESKRELAY_SUPPORT_GROUP_ID", "-100200300")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "tok-123" {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Support.GroupID != "-100200300" {
		t.Errorf("group = %q", cfg.Support.GroupID)
	}
	if cfg.Reminder.Every != "1h" {
		t.Errorf("default reminder every = %q, want 1h", cfg.Reminder.Every)
	}
	if cfg.Telemetry.Protocol != "grpc" || cfg.Telemetry.ServiceName != "deskrelay" {
		t.Errorf("telemetry defaults = %+v", cfg.Telemetry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadJSON5File(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESKRELAY_TELEGRAM_TOKEN", "tok-123")

	path := writeConfig(t, `{
		// support desk settings
		support: {
			group_id: "-1001234567890",
		},
		reminder: {
			every: "30m",
			cron: "0 * * * *",
		},
		telemetry: {
			enabled: true,
			endpoint: "localhost:4317",
			insecure: true,
		},
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Support.GroupID != "-1001234567890" {
		t.Errorf("group = %q", cfg.Support.GroupID)
	}
	if cfg.Reminder.Every != "30m" || cfg.Reminder.Cron != "0 * * * *" {
		t.Errorf("reminder = %+v", cfg.Reminder)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "localhost:4317" || !cfg.Telemetry.Insecure {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	// Defaults survive a partial file.
	if cfg.Telemetry.Protocol != "grpc" {
		t.Errorf("protocol = %q, want grpc default", cfg.Telemetry.Protocol)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESKRELAY_TELEGRAM_TOKEN", "tok-123")
	t.Setenv("DESKRELAY_SUPPORT_GROUP_ID", "-42")
	t.Setenv("DESKRELAY_REMINDER_EVERY", "15m")

	path := writeConfig(t, `{
		support: { group_id: "-1" },
		reminder: { every: "2h" },
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Support.GroupID != "-42" {
		t.Errorf("group = %q, env must win", cfg.Support.GroupID)
	}
	if cfg.Reminder.Every != "15m" {
		t.Errorf("reminder every = %q, env must win", cfg.Reminder.Every)
	}
}

func TestTokenNeverReadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `{
		telegram: { token: "leaked-from-file" },
		support: { group_id: "-1" },
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "" {
		t.Errorf("token = %q, want empty: secrets are env-only", cfg.Telegram.Token)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{ support: `)

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing token",
			cfg:     &Config{Support: SupportConfig{GroupID: "-1"}},
			wantErr: "DESKRELAY_TELEGRAM_TOKEN",
		},
		{
			name:    "missing group",
			cfg:     &Config{Telegram: TelegramConfig{Token: "t"}},
			wantErr: "support group",
		},
		{
			name: "complete",
			cfg: &Config{
				Telegram: TelegramConfig{Token: "t"},
				Support:  SupportConfig{GroupID: "-1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestReminderSchedule(t *testing.T) {
	tests := []struct {
		name      string
		reminder  ReminderConfig
		wantEvery time.Duration
		wantCron  string
	}{
		{name: "default", wantEvery: time.Hour},
		{name: "custom interval", reminder: ReminderConfig{Every: "30m"}, wantEvery: 30 * time.Minute},
		{name: "bad duration falls back", reminder: ReminderConfig{Every: "soon"}, wantEvery: time.Hour},
		{name: "negative falls back", reminder: ReminderConfig{Every: "-5m"}, wantEvery: time.Hour},
		{name: "cron passthrough", reminder: ReminderConfig{Every: "45m", Cron: "*/10 * * * *"}, wantEvery: 45 * time.Minute, wantCron: "*/10 * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Reminder: tt.reminder}
			every, cron := cfg.ReminderSchedule()
			if every != tt.wantEvery || cron != tt.wantCron {
				t.Errorf("ReminderSchedule() = (%v, %q), want (%v, %q)", every, cron, tt.wantEvery, tt.wantCron)
			}
		})
	}
}

func TestReplaceFrom(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "old-token"},
		Support:  SupportConfig{GroupID: "-1"},
		Reminder: ReminderConfig{Every: "1h"},
	}

	cfg.ReplaceFrom(&Config{
		Telegram: TelegramConfig{Token: "new-token"},
		Support:  SupportConfig{GroupID: "-2"},
		Reminder: ReminderConfig{Every: "10m", Cron: "0 9 * * *"},
	})

	if cfg.Telegram.Token != "new-token" || cfg.Support.GroupID != "-2" {
		t.Errorf("after ReplaceFrom: %+v %+v", cfg.Telegram, cfg.Support)
	}
	every, cron := cfg.ReminderSchedule()
	if every != 10*time.Minute || cron != "0 9 * * *" {
		t.Errorf("schedule after ReplaceFrom = (%v, %q)", every, cron)
	}
}
