// Package config loads chronoflow settings from defaults, a YAML file and
// CHRONOFLOW_* environment variables, later sources winning.
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

type Config struct {
	Store   Store   `mapstructure:"store"`
	Suggest Suggest `mapstructure:"suggest"`
	View    View    `mapstructure:"view"`
	Log     Log     `mapstructure:"log"`
}

type Store struct {
	Kind       string `mapstructure:"kind"`
	Dir        string `mapstructure:"dir"`
	RedisURL   string `mapstructure:"redis_url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Suggest struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature *float64      `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type View struct {
	Sort   string `mapstructure:"sort"`
	Locale string `mapstructure:"locale"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DataDir is where tasks and logs live unless configured otherwise
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "chronoflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chronoflow"
	}
	return filepath.Join(home, ".local", "share", "chronoflow")
}

// DefaultPath is the config file read when none is given
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".chronoflow", "config.yaml")
	}
	return filepath.Join(dir, "chronoflow", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	data := DataDir()
	v.SetDefault("store.kind", "file")
	v.SetDefault("store.dir", data)
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("suggest.provider", "anthropic")
	v.SetDefault("suggest.model", "claude-3-5-haiku-latest")
	v.SetDefault("suggest.base_url", "")
	v.SetDefault("suggest.api_key", "")
	v.SetDefault("suggest.max_tokens", 1024)
	v.SetDefault("suggest.timeout", 0)
	v.SetDefault("view.sort", "priority")
	v.SetDefault("view.locale", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(data, "chronoflow.log"))
}

// Load reads the config file at path (DefaultPath when empty).
// A missing file is fine, a broken one is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("chronoflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Suggest.APIKey == "" {
		cfg.Suggest.APIKey = apiKeyFromEnv(cfg.Suggest.Provider)
	}
	return cfg, nil
}

// apiKeyFromEnv falls back to the variable each provider's own tools use
func apiKeyFromEnv(provider string) string {
	switch provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}
