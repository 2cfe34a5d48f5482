package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Client
	APIURL             string `mapstructure:"API_URL"`
	Env                string `mapstructure:"APP_ENV"` // development | production
	SessionFile        string `mapstructure:"SESSION_FILE"`
	ReceiptPath        string `mapstructure:"RECEIPT_PATH"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`

	// Dev server
	DevServerPort      int    `mapstructure:"DEVSERVER_PORT"`
	DevServerJWTSecret string `mapstructure:"DEVSERVER_JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("API_URL", "http://localhost:3333")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SESSION_FILE", defaultSessionFile())
	viper.SetDefault("RECEIPT_PATH", filepath.Join(os.TempDir(), "posterm", "receipts"))
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DEVSERVER_PORT", 3333)
	viper.SetDefault("DEVSERVER_JWT_SECRET", "dev-only-secret")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 8)

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultSessionFile is ~/.posterm/session.json, falling back to the
// working directory when the home dir cannot be resolved.
func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".posterm-session.json"
	}
	return filepath.Join(home, ".posterm", "session.json")
}
