// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.production.yaml
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// tests running in package directories pick it up too.
func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "moderation-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":9090"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.Workflow.Stream == "" {
		cfg.Workflow.Stream = "user-action.status-changed"
	}
	if cfg.Workflow.ConsumerGroup == "" {
		cfg.Workflow.ConsumerGroup = "moderation-workers"
	}
	if cfg.Workflow.ConsumerName == "" {
		host, _ := os.Hostname()
		cfg.Workflow.ConsumerName = host
	}
	if cfg.Workflow.StepLogTTL == 0 {
		cfg.Workflow.StepLogTTL = 24 * time.Hour
	}
	if cfg.Workflow.InitialBackoff == 0 {
		cfg.Workflow.InitialBackoff = 2 * time.Second
	}

	if cfg.Integrations.PaymentGateway.Timeout == 0 {
		cfg.Integrations.PaymentGateway.Timeout = 30 * time.Second
	}
	if cfg.Integrations.Webhook.Timeout == 0 {
		cfg.Integrations.Webhook.Timeout = 15 * time.Second
	}
	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}

	if cfg.Appeals.TokenTTL == 0 {
		cfg.Appeals.TokenTTL = 14 * 24 * time.Hour
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Integrations.PaymentGateway.BaseURL == "" {
		return fmt.Errorf("integrations.payment_gateway.base_url is required")
	}
	if cfg.Appeals.BaseURL == "" {
		return fmt.Errorf("appeals.base_url is required")
	}
	if cfg.Appeals.TokenSecret == "" {
		return fmt.Errorf("appeals.token_secret is required")
	}
	if cfg.Secrets.EncryptionKey == "" {
		return fmt.Errorf("secrets.encryption_key is required")
	}
	for name, hc := range cfg.Handlers {
		if hc.Enabled && hc.Timeout <= 0 {
			return fmt.Errorf("handlers.%s.timeout must be positive", name)
		}
	}
	return nil
}
