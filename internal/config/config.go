// Package config loads process configuration for the caseform commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CASEFORM_API_BASE_URL.
const EnvPrefix = "CASEFORM"

// Config holds application configuration.
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Locale       string             `mapstructure:"locale"`
	Timezone     string             `mapstructure:"timezone"`
	Autocomplete AutocompleteConfig `mapstructure:"autocomplete"`
	Log          LogConfig          `mapstructure:"log"`
}

// APIConfig points at the case management REST API.
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AutocompleteConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads configuration from file and env. The file is CASEFORM_CONFIG
// when set, otherwise $HOME/.config/caseform/config.yaml if present.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.username", "")
	v.SetDefault("api.password", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("locale", "en-US")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("autocomplete.debounce", 500*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "caseform"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}

// Location resolves Timezone, defaulting to UTC.
func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
