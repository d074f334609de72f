package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// CooldownConfig controls pacing of AI-class requests. Button-driven lookups
// (weather, crypto, currency) are never throttled.
type CooldownConfig struct {
	Seconds int `yaml:"seconds" envconfig:"COOLDOWN_SECONDS"`
}

// HistoryConfig bounds per-user chat history and the process-wide request log.
type HistoryConfig struct {
	Size           int `yaml:"size" envconfig:"HISTORY_SIZE"`
	RequestLogSize int `yaml:"request_log_size" envconfig:"REQUEST_LOG_SIZE"`
}

// ReportConfig sets the wall-clock time of the daily admin digest.
type ReportConfig struct {
	Hour   int `yaml:"hour" envconfig:"REPORT_HOUR"`
	Minute int `yaml:"minute" envconfig:"REPORT_MINUTE"`
}

// AIConfig configures the generative-chat provider.
type AIConfig struct {
	APIKey  string `yaml:"api_key" envconfig:"AI_API_KEY"`
	BaseURL string `yaml:"base_url" envconfig:"AI_BASE_URL"`
	Model   string `yaml:"model" envconfig:"AI_MODEL"`
}

// ServicesConfig aggregates external provider endpoints and credentials.
type ServicesConfig struct {
	AI             AIConfig `yaml:"ai"`
	WeatherAPIKey  string   `yaml:"weather_api_key" envconfig:"WEATHER_API_KEY"`
	WeatherURL     string   `yaml:"weather_url" envconfig:"WEATHER_URL"`
	TranslateURL   string   `yaml:"translate_url" envconfig:"TRANSLATE_URL"`
	CryptoURL      string   `yaml:"crypto_url" envconfig:"CRYPTO_URL"`
	CurrencyURL    string   `yaml:"currency_url" envconfig:"CURRENCY_URL"`
	TimeoutSeconds int      `yaml:"timeout_seconds" envconfig:"SERVICE_TIMEOUT_SECONDS"`
}

// RedisConfig selects the optional Redis-backed session store.
type RedisConfig struct {
	Addr       string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password   string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB         int    `yaml:"db" envconfig:"REDIS_DB"`
	TTLMinutes int    `yaml:"ttl_minutes" envconfig:"REDIS_TTL_MINUTES"`
}

// DatabaseConfig selects the optional Postgres-backed durable registry.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Config aggregates the whole bot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Logging  LoggingConfig  `yaml:"logging"`
	Cooldown CooldownConfig `yaml:"cooldown"`
	History  HistoryConfig  `yaml:"history"`
	Report   ReportConfig   `yaml:"report"`
	Services ServicesConfig `yaml:"services"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required configuration fields and adjusts defaults.
// Missing credentials are fatal: the bot refuses to start degraded.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Services.AI.APIKey == "" {
		return fmt.Errorf("services.ai.api_key is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Cooldown.Seconds < 0 {
		return fmt.Errorf("cooldown.seconds must be >= 0")
	}
	if cfg.Cooldown.Seconds == 0 {
		cfg.Cooldown.Seconds = 20
	}

	if cfg.History.Size < 0 || cfg.History.RequestLogSize < 0 {
		return fmt.Errorf("history bounds must be >= 0")
	}
	if cfg.History.Size == 0 {
		cfg.History.Size = 10
	}
	if cfg.History.RequestLogSize == 0 {
		cfg.History.RequestLogSize = 1000
	}

	if cfg.Report.Hour < 0 || cfg.Report.Hour > 23 {
		return fmt.Errorf("report.hour must be in [0,23]")
	}
	if cfg.Report.Minute < 0 || cfg.Report.Minute > 59 {
		return fmt.Errorf("report.minute must be in [0,59]")
	}

	if cfg.Services.TimeoutSeconds <= 0 {
		cfg.Services.TimeoutSeconds = 30
	}
	if cfg.Redis.TTLMinutes <= 0 {
		cfg.Redis.TTLMinutes = 24 * 60
	}
	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database.host, database.user and database.name are required when database.enabled")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 10
		}
	}

	return nil
}
