package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	Environment string `default:"prod" split_words:"true"`

	// APIListenAddress is the address the listing API binds to
	APIListenAddress string `default:":8080" split_words:"true"`

	// PostgresDSN selects the PostgreSQL storage driver.
	// An empty value falls back to the volatile in-memory driver.
	PostgresDSN string `split_words:"true"`

	// SyncInterval controls the repeating FSA synchronization task.
	// A non-positive value disables the task entirely.
	SyncInterval time.Duration `default:"24h" split_words:"true"`

	FSABaseURL      string        `split_words:"true"`
	FSASearchTerm   string        `default:"chicken" split_words:"true"`
	FSAAuthorityIDs []int         `split_words:"true"`
	FSARequestDelay time.Duration `default:"200ms" split_words:"true"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("ss", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the application runs in production mode
func (config *Config) IsEnvProduction() bool {
	return strings.ToLower(strings.TrimSpace(config.Environment)) == "prod"
}
