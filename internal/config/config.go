// Package config loads vibediag settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/vibediag/internal/validation"
)

// Bounds of llm.max_tokens. The validate tag on LLMConfig.MaxTokens repeats them.
const (
	MinMaxTokens = 64
	MaxMaxTokens = 32768
)

// Config holds all settings.
type Config struct {
	User         string        `yaml:"user" validate:"omitempty,email"`
	DatabasePath string        `yaml:"database_path" validate:"required"`
	CatalogDir   string        `yaml:"catalog_dir"`
	LLM          LLMConfig     `yaml:"llm"`
	Logging      LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the interpretation model.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=64,lte=32768"`
	Timeout     string  `yaml:"timeout" validate:"required"`
}

// LoggingConfig configures the console logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"loglevel"`
}

// DefaultPath returns $HOME/.vibediag.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vibediag.yaml"
	}
	return filepath.Join(home, ".vibediag.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dbPath := filepath.Join(".vibediag", "vibediag.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".vibediag", "vibediag.db")
	}
	return &Config{
		DatabasePath: dbPath,
		LLM: LLMConfig{
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     "60s",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config.Save: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VIBEDIAG_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("VIBEDIAG_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("VIBEDIAG_CATALOG_DIR"); v != "" {
		c.CatalogDir = v
	}
	if v := os.Getenv("VIBEDIAG_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("VIBEDIAG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// LLMTimeout returns the model timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if d, err := time.ParseDuration(c.LLM.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid config: llm.timeout %q is not a positive duration", c.LLM.Timeout)
	}
	return nil
}
