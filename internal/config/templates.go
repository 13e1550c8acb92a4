package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Candlestick Pattern Analyzer Configuration

[chart]
# Thumbnail drawing area in pixels
width = 200.0
height = 150.0
# Inner margin kept free of candles
padding = 10.0

[explain]
# Model used for pattern explanations
model = "gemini-2.5-flash"
# OpenAI-compatible endpoint; leave empty for api.openai.com
base_url = "https://generativelanguage.googleapis.com/v1beta/openai/"
# Per-request timeout (e.g., "60s", "2m")
timeout = "60s"
# Maximum explanation requests per minute (0 disables pacing)
requests_per_minute = 10

[store]
# Favorites database; empty uses analyzer.db next to this file
path = ""
# Key the favorites list is stored under
favorites_key = "favoritePatterns"

[server]
host = "127.0.0.1"
port = 8080
allowed_origins = ["http://localhost:8080", "http://127.0.0.1:8080"]

[ui]
# Enable colored output
color_enabled = true
# Market selected at startup: EUR/USD, GBP/USD, GOLD
default_currency = "EUR/USD"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Write a rotated log file in addition to the console
file = false
# Log file path; empty uses logs/analyzer.log next to this file
path = ""
`

const credentialsTemplate = `# Candlestick Pattern Analyzer Credentials
# WARNING: Keep this file secure! Do not commit to version control.
# API_KEY, GEMINI_API_KEY or OPENAI_API_KEY override this value.

[llm]
api_key = ""
`

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing %s template: %w", name, err)
	}
	return nil
}

// Path returns the location of config.toml in configDir.
func Path(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}
