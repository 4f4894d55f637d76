package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the downloader
type Config struct {
	// Telegram client settings
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Where the API id/hash pair lives
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TelegramConfig holds MTProto client configuration
type TelegramConfig struct {
	SessionFile       string        `yaml:"session_file" json:"session_file"`
	HistoryBatchSize  int           `yaml:"history_batch_size" json:"history_batch_size"`
	PageRetryAttempts int           `yaml:"page_retry_attempts" json:"page_retry_attempts"`
	PageRetryDelay    time.Duration `yaml:"page_retry_delay" json:"page_retry_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// CredentialsConfig selects the credential backend
type CredentialsConfig struct {
	// Backend is one of "file", "keyring" or "encrypted"
	Backend string `yaml:"backend" json:"backend"`
	File    string `yaml:"file" json:"file"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
	OnError    bool `yaml:"on_error" json:"on_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			SessionFile:       "session.json",
			HistoryBatchSize:  100,
			PageRetryAttempts: 3,
			PageRetryDelay:    2 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: "downloads",
		},
		Credentials: CredentialsConfig{
			Backend: "file",
			File:    "config.json",
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnComplete: true,
			OnError:    true,
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionFile := os.Getenv("TGDL_SESSION_FILE"); sessionFile != "" {
		c.Telegram.SessionFile = sessionFile
	}

	if batch := os.Getenv("TGDL_HISTORY_BATCH_SIZE"); batch != "" {
		val, err := strconv.Atoi(batch)
		if err != nil {
			return fmt.Errorf("TGDL_HISTORY_BATCH_SIZE must be an integer: %w", err)
		}
		c.Telegram.HistoryBatchSize = val
	}

	if outputDir := os.Getenv("TGDL_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if backend := os.Getenv("TGDL_CREDENTIALS_BACKEND"); backend != "" {
		c.Credentials.Backend = strings.ToLower(backend)
	}
	if credFile := os.Getenv("TGDL_CREDENTIALS_FILE"); credFile != "" {
		c.Credentials.File = credFile
	}

	if notifEnabled := os.Getenv("TGDL_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	if logLevel := os.Getenv("TGDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TGDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"tgdownloader.yaml",
		"tgdownloader.yml",
		filepath.Join(home, ".config", "tgdownloader", "config.yaml"),
		filepath.Join(home, ".config", "tgdownloader", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.SessionFile == "" {
		errs = append(errs, errors.New("session file is required"))
	}
	if c.Telegram.HistoryBatchSize <= 0 || c.Telegram.HistoryBatchSize > 100 {
		errs = append(errs, errors.New("history batch size must be between 1 and 100"))
	}
	if c.Telegram.PageRetryAttempts < 1 {
		errs = append(errs, errors.New("page retry attempts must be at least 1"))
	}
	if c.Telegram.PageRetryDelay < 0 {
		errs = append(errs, errors.New("page retry delay cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validBackends := map[string]bool{
		"file": true, "keyring": true, "encrypted": true,
	}
	if !validBackends[strings.ToLower(c.Credentials.Backend)] {
		errs = append(errs, fmt.Errorf("invalid credentials backend %q", c.Credentials.Backend))
	}
	if c.Credentials.File == "" {
		errs = append(errs, errors.New("credentials file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tgdownloader.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
