// Package config loads the Strata CLI configuration from strata.yml, the
// user config directory and STRATA_* environment variables, and manages the
// local API key credentials file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/strata3d/strata/pkg/client"
)

// Config represents the Strata CLI configuration
type Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	CredentialsFile string `mapstructure:"credentials_file"`
	APIKey          string `mapstructure:"api_key"`
}

// Load loads the configuration from strata.yml or strata.yaml, falling back
// to defaults and environment overrides
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("endpoint", client.DefaultEndpoint)
	v.SetDefault("credentials_file", defaultCredentialsFile())
	v.SetDefault("api_key", "")

	// Set config name and paths
	v.SetConfigName("strata")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	// Enable environment variable support: STRATA_ENDPOINT, STRATA_API_KEY
	v.SetEnvPrefix("strata")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}
	return &config, nil
}

// configDir returns the user's Strata config directory
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".strata")
}

// defaultCredentialsFile returns the default credentials file path
func defaultCredentialsFile() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "credentials")
}
