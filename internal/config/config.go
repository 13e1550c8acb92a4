// Package config provides configuration management for the analyzer.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/chart"
	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/explain"
	"candle-analyzer/internal/store"
)

// Config holds all application configuration.
type Config struct {
	Chart       ChartConfig   `mapstructure:"chart"`
	Explain     ExplainConfig `mapstructure:"explain"`
	Store       StoreConfig   `mapstructure:"store"`
	Server      ServerConfig  `mapstructure:"server"`
	UI          UIConfig      `mapstructure:"ui"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-" json:"-"` // Loaded separately

	// Dir is the directory the configuration was loaded from.
	Dir string `mapstructure:"-"`
}

// ChartConfig holds thumbnail drawing configuration.
type ChartConfig struct {
	Width   float64 `mapstructure:"width"`
	Height  float64 `mapstructure:"height"`
	Padding float64 `mapstructure:"padding"`
}

// ExplainConfig holds explanation service configuration.
type ExplainConfig struct {
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// StoreConfig holds favorites storage configuration.
type StoreConfig struct {
	Path         string `mapstructure:"path"` // empty means <config dir>/analyzer.db
	FavoritesKey string `mapstructure:"favorites_key"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled    bool   `mapstructure:"color_enabled"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  bool   `mapstructure:"file"`
	Path  string `mapstructure:"path"` // empty means <config dir>/logs/analyzer.log
}

// Credentials holds API credentials.
type Credentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/candle-analyzer"
	}
	return filepath.Join(home, ".config", "candle-analyzer")
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	// Defaults only; decoding plain values cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := chart.DefaultConfig()
	v.SetDefault("chart.width", d.Width)
	v.SetDefault("chart.height", d.Height)
	v.SetDefault("chart.padding", d.Padding)

	v.SetDefault("explain.model", explain.DefaultModel)
	v.SetDefault("explain.base_url", explain.GeminiBaseURL)
	v.SetDefault("explain.timeout", "60s")
	v.SetDefault("explain.requests_per_minute", 10)

	v.SetDefault("store.path", "")
	v.SetDefault("store.favorites_key", store.DefaultFavoritesKey)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8080", "http://127.0.0.1:8080"})

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.default_currency", catalog.DefaultCurrency)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.path", "")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. Missing files
// are written from templates and loading continues with defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// .env never overrides variables already set in the environment
	_ = godotenv.Load(filepath.Join(configDir, ".env"))
	_ = godotenv.Load()

	cfg := &Config{Dir: configDir}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := writeTemplate(configDir, "config.toml", configTemplate, 0644); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Use restricted permissions for credentials file
		return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
	}

	return v.UnmarshalKey("llm", creds)
}

func applyEnvOverrides(cfg *Config) {
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			cfg.Credentials.APIKey = v
			break
		}
	}

	if v := os.Getenv("ANALYZER_CURRENCY"); v != "" {
		cfg.UI.DefaultCurrency = v
	}
}

func (c *Config) resolvePaths() {
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Dir, "analyzer.db")
	}
	if c.Logging.Path == "" {
		c.Logging.Path = filepath.Join(c.Dir, "logs", "analyzer.log")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.ChartConfig(); err != nil {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, err.Error())
	}

	if c.Explain.RequestsPerMinute < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "requests_per_minute must be non-negative")
	}
	if c.Explain.Timeout < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "explain timeout must be non-negative")
	}
	if c.Explain.BaseURL != "" && !strings.HasPrefix(c.Explain.BaseURL, "http") {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "invalid base_url: %s", c.Explain.BaseURL)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "invalid server port: %d", c.Server.Port)
	}

	if _, err := catalog.LookupCurrency(c.UI.DefaultCurrency); err != nil {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "unknown default_currency: %s", c.UI.DefaultCurrency)
	}

	return nil
}

// ChartConfig returns the renderer configuration for the [chart] section.
func (c *Config) ChartConfig() (chart.Config, error) {
	cfg := chart.DefaultConfig()
	cfg.Width = c.Chart.Width
	cfg.Height = c.Chart.Height
	cfg.Padding = c.Chart.Padding
	return cfg, cfg.Validate()
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// HasAPIKey reports whether explanations can be requested.
func (c *Config) HasAPIKey() bool {
	return c.Credentials.APIKey != ""
}
