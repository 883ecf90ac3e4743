// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig                `mapstructure:"app"`
	Database     DatabaseConfig           `mapstructure:"database"`
	Workflow     WorkflowConfig           `mapstructure:"workflow"`
	Handlers     map[string]HandlerConfig `mapstructure:"handlers"`
	Integrations IntegrationConfig        `mapstructure:"integrations"`
	Appeals      AppealsConfig            `mapstructure:"appeals"`
	Secrets      SecretsConfig            `mapstructure:"secrets"`
	Logging      LoggingConfig            `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkflowConfig holds the settings of the dispatcher and its substrate.
type WorkflowConfig struct {
	Stream         string        `mapstructure:"stream"`
	ConsumerGroup  string        `mapstructure:"consumer_group"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	StepLogTTL     time.Duration `mapstructure:"step_log_ttl"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

// HandlerConfig holds the core settings applicable to every handler.
type HandlerConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Get returns the named handler block, falling back to defaults when the
// config tree has no entry for it.
func (c *Config) Handler(name string) HandlerConfig {
	if hc, ok := c.Handlers[name]; ok {
		return hc
	}
	return HandlerConfig{Enabled: true, Timeout: 30 * time.Second}
}

// --- Integrations ---

// IntegrationConfig holds settings for the payment gateway, webhook
// delivery and AWS-backed email/alerting.
type IntegrationConfig struct {
	PaymentGateway struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"payment_gateway"`

	Webhook struct {
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"webhook"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled       bool   `mapstructure:"enabled"`
			AlertTopicARN string `mapstructure:"alert_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// AppealsConfig holds settings for appeal links embedded in emails.
type AppealsConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// SecretsConfig holds the key used to decrypt stored provider credentials.
type SecretsConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"` // base64, 32 bytes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
