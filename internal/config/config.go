package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/itsolution4india/webhook-develop/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all configuration settings. Secrets and endpoints can
// be overridden from the environment so nothing sensitive has to live
// in the config file.
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	Webhook struct {
		VerifyToken string `json:"verify_token"`
	} `json:"webhook"`
	Provider struct {
		BaseURL       string        `json:"base_url"`
		AccessToken   string        `json:"access_token"`
		ReplyTemplate string        `json:"reply_template"`
		Timeout       time.Duration `json:"timeout"`
	} `json:"provider"`
	Dashboard struct {
		URL     string        `json:"url"`
		Timeout time.Duration `json:"timeout"`
	} `json:"dashboard"`
	Audit struct {
		Dir string `json:"dir"`
	} `json:"audit"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file, then applies
// environment overrides. A .env file in the working directory is
// honored when present.
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a default configuration with environment
// overrides applied.
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Database.DSN = "file:reports.db?cache=shared&mode=rwc"
	config.Webhook.VerifyToken = ""
	config.Provider.BaseURL = "https://graph.facebook.com/v13.0"
	config.Provider.ReplyTemplate = "Hi, your message is %s"
	config.Provider.Timeout = 10 * time.Second
	config.Dashboard.Timeout = 10 * time.Second
	config.Audit.Dir = "audit"
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	config.applyEnv()
	return config
}

// applyEnv overlays environment variables onto the config. Business
// code never reads the environment directly; this is the single place
// process configuration enters the program.
func (c *Config) applyEnv() {
	// Best effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	if v := os.Getenv("VERIFY_TOKEN"); v != "" {
		c.Webhook.VerifyToken = v
	}
	if v := os.Getenv("WHATSAPP_ACCESS_TOKEN"); v != "" {
		c.Provider.AccessToken = v
	}
	if v := os.Getenv("DASHBOARD_URL"); v != "" {
		c.Dashboard.URL = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
}
