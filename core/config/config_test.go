package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Services: ServicesConfig{AI: AIConfig{APIKey: "key"}},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Cooldown.Seconds != 20 {
		t.Fatalf("cooldown = %d, want 20", cfg.Cooldown.Seconds)
	}
	if cfg.History.Size != 10 || cfg.History.RequestLogSize != 1000 {
		t.Fatalf("history bounds = %d/%d", cfg.History.Size, cfg.History.RequestLogSize)
	}
	if cfg.Services.TimeoutSeconds != 30 {
		t.Fatalf("service timeout = %d", cfg.Services.TimeoutSeconds)
	}
}

func TestNormalizeMissingCredentials(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"token", func(c *Config) { c.Telegram.Token = "" }, "telegram token"},
		{"ai_key", func(c *Config) { c.Services.AI.APIKey = "" }, "ai.api_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestNormalizeWebhookRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}
	cfg.Webhook = WebhookConfig{URL: "https://bot.example", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeReportBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Report.Hour = 24
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for report.hour out of range")
	}
	cfg = validConfig()
	cfg.Report.Minute = 60
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for report.minute out of range")
	}
}

func TestNormalizeDatabaseRequiresConnection(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Enabled = true
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for enabled database without host")
	}
	cfg.Database.Host = "localhost"
	cfg.Database.User = "viza"
	cfg.Database.Name = "vizabot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Database.Port != "5432" || cfg.Database.SSLMode != "disable" {
		t.Fatalf("database defaults not applied: %+v", cfg.Database)
	}
}
