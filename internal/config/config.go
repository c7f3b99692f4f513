package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"5174"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	PublicURL   string `env:"PUBLIC_URL"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`
	// Proxies allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Storage
	DataDir string `env:"DATA_DIR" envDefault:"."`

	// Webhook notifications
	NotifyWebhookURL   string `env:"NOTIFY_WEBHOOK_URL"`
	NotifyWebhookToken string `env:"NOTIFY_WEBHOOK_TOKEN"`

	// Telegram notifications
	TelegramBotToken   string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID     string `env:"TELEGRAM_CHAT_ID"`
	TelegramAPIBaseURL string `env:"TELEGRAM_API_BASE_URL" envDefault:"https://api.telegram.org"`

	// Email notifications
	EmailTo      string `env:"EMAIL_TO"`
	EmailFrom    string `env:"EMAIL_FROM"`
	EmailReplyTo string `env:"EMAIL_REPLY_TO"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPSecure   bool   `env:"SMTP_SECURE" envDefault:"false"`

	// Notification dispatch
	NotifyWorkers   int           `env:"NOTIFY_WORKERS" envDefault:"4"`
	NotifyQueueSize int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`
	NotifyTimeout   time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"30s"`

	// AI providers
	AIProvider       string        `env:"AI_PROVIDER" envDefault:"auto"`
	ClaudeAPIKey     string        `env:"CLAUDE_API_KEY"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	ClaudeModel      string        `env:"CLAUDE_MODEL" envDefault:"claude-3-5-sonnet-20240620"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiModel      string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	ClaudeAPIBaseURL string        `env:"CLAUDE_API_BASE_URL" envDefault:"https://api.anthropic.com"`
	OpenAIAPIBaseURL string        `env:"OPENAI_API_BASE_URL" envDefault:"https://api.openai.com"`
	GeminiAPIBaseURL string        `env:"GEMINI_API_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	AIMaxTokens      int           `env:"AI_MAX_TOKENS" envDefault:"700"`
	AITimeout        time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`

	// Chat rate limiting (0 disables)
	ChatRatePerMinute int `env:"CHAT_RATE_PER_MINUTE" envDefault:"30"`
	ChatRateBurst     int `env:"CHAT_RATE_BURST" envDefault:"10"`

	// Admin
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`

	// Supabase upload mirror (optional)
	SupabaseURL           string `env:"SUPABASE_URL"`
	SupabaseServiceKey    string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseStorageBucket string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"uploads"`

	// Logging
	LogFile      string `env:"LOG_FILE"`
	LogMaxSizeMB int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SMTPPort <= 0 {
		return fmt.Errorf("SMTP_PORT must be positive")
	}
	if c.AIMaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive")
	}
	if c.NotifyWorkers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	if c.NotifyQueueSize < 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must not be negative")
	}
	if c.ChatRatePerMinute < 0 {
		return fmt.Errorf("CHAT_RATE_PER_MINUTE must not be negative")
	}
	if c.SupabaseURL != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required when SUPABASE_URL is set")
	}
	return nil
}

func (c *Config) WebhookEnabled() bool {
	return c.NotifyWebhookURL != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailTo != ""
}

func (c *Config) UploadMirrorEnabled() bool {
	return c.SupabaseURL != ""
}
