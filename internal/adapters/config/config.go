package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Slack     SlackConfig     `envconfig:"SLACK"`
	Database  DatabaseConfig  `envconfig:"DATABASE"`
	AI        AIConfig        `envconfig:"AI"`
	Analytics AnalyticsConfig `envconfig:"ANALYTICS"`
	Logging   LoggingConfig   `envconfig:"LOGGING"`
}

// ServerConfig represents HTTP listener parameters
type ServerConfig struct {
	Port       string `envconfig:"PORT" default:"3000"`
	HealthPort string `envconfig:"HEALTH_PORT" default:"8081"`
}

// SlackConfig represents Slack app credentials
type SlackConfig struct {
	BotToken      string `envconfig:"SLACK_BOT_TOKEN" required:"true"`
	SigningSecret string `envconfig:"SLACK_SIGNING_SECRET" required:"true"`
}

// DatabaseConfig represents PostgreSQL connection parameters
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"threadpulse"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// AIConfig represents LLM fallback configuration. The fallback chain is
// optional: with no provider enabled, lexically silent text scores 0.
type AIConfig struct {
	Gemini       AIProviderConfig `envconfig:"GEMINI"`
	OpenAI       AIProviderConfig `envconfig:"OPENAI"`
	DefaultModel string           `envconfig:"AI_DEFAULT_MODEL" default:""`
}

// AIProviderConfig represents single LLM provider configuration
type AIProviderConfig struct {
	APIKey  string `envconfig:"API_KEY" required:"false"`
	Enabled bool   `envconfig:"ENABLED" default:"false"`
}

// AnalyticsConfig represents the optional ClickHouse sentiment-history sink
type AnalyticsConfig struct {
	Enabled       bool          `envconfig:"ANALYTICS_ENABLED" default:"false"`
	DSN           string        `envconfig:"CLICKHOUSE_DSN" required:"false"`
	BatchSize     int           `envconfig:"ANALYTICS_BATCH_SIZE" default:"500"`
	FlushInterval time.Duration `envconfig:"ANALYTICS_FLUSH_INTERVAL" default:"10s"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Slack.BotToken, "xoxb-") && !strings.HasPrefix(c.Slack.BotToken, "xoxp-") {
		return fmt.Errorf("slack bot token must be a bot or user token")
	}

	if c.Analytics.Enabled && c.Analytics.DSN == "" {
		return fmt.Errorf("analytics enabled but CLICKHOUSE_DSN is empty")
	}
	if c.Analytics.BatchSize < 1 {
		return fmt.Errorf("analytics batch size must be at least 1")
	}

	if c.AI.Gemini.Enabled && c.AI.Gemini.APIKey == "" {
		return fmt.Errorf("gemini provider enabled without API key")
	}
	if c.AI.OpenAI.Enabled && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("openai provider enabled without API key")
	}

	// The built-in fallback chain carries Gemini model IDs only. An
	// OpenAI-only setup needs a routable default model or the chain
	// would be enabled yet never consulted.
	if c.AI.OpenAI.Enabled && !c.AI.Gemini.Enabled {
		if c.AI.DefaultModel == "" || strings.HasPrefix(c.AI.DefaultModel, "gemini") {
			return fmt.Errorf("AI_DEFAULT_MODEL must name a non-Gemini model when only the OpenAI provider is enabled")
		}
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
