package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"askdoc/internal/chat"
)

// Config holds the user's persistent configuration preferences.
type Config struct {
	BaseURL               string `json:"base_url,omitempty"`                // Backend base URL, e.g. http://localhost:8000
	Personality           string `json:"personality,omitempty"`             // factual, friendly or humorous
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"` // Per-request deadline; 0 means the built-in default
}

// Environment variables that override the stored configuration.
const (
	EnvBaseURL        = "ASKDOC_BASE_URL"
	EnvPersonality    = "ASKDOC_PERSONALITY"
	EnvTimeoutSeconds = "ASKDOC_TIMEOUT_SECONDS"
)

// Manager handles loading and saving the configuration.
type Manager struct {
	configDir string
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}

	return &Manager{
		configDir: filepath.Join(configDir, "askdoc"),
	}, nil
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the configuration from disk and applies environment overrides.
// If the file does not exist, it returns an empty Config and no error.
func (m *Manager) Load() (*Config, error) {
	path := m.GetConfigPath()

	var cfg Config
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config json: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to disk with restricted permissions (0600).
func (m *Manager) Save(cfg *Config) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := m.GetConfigPath()
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the configuration file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}

// Timeout converts the configured request deadline into a time.Duration,
// zero when unset.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvPersonality); v != "" {
		c.Personality = v
	}
	if v := os.Getenv(EnvTimeoutSeconds); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.RequestTimeoutSeconds = secs
		}
	}
}

func (c *Config) validate() error {
	if c.Personality != "" && !chat.Personality(c.Personality).Valid() {
		return fmt.Errorf("invalid personality %q, expected one of %v", c.Personality, chat.Personalities())
	}
	return nil
}
