package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is stored in ~/.mctl/config.json
type Config struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username,omitempty"`
}

const defaultServerURL = "http://localhost:8080"

// getConfigDirFunc is a variable to allow testing with a custom directory
var getConfigDirFunc = getConfigDir

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mctl"), nil
}

func configPath() (string, error) {
	dir, err := getConfigDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// loadConfig reads ~/.mctl/config.json. A missing file is not an error;
// it yields a zero Config.
func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// saveConfig writes ~/.mctl/config.json with owner-only permissions.
func saveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// resolveServerURL resolves the console URL using the following precedence:
// 1. MCTL_SERVER environment variable
// 2. --server flag
// 3. server_url from ~/.mctl/config.json
// 4. built-in default
func resolveServerURL() string {
	if url := os.Getenv("MCTL_SERVER"); url != "" {
		return url
	}
	if serverFlag != "" {
		return serverFlag
	}
	if cfg, err := loadConfig(); err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}
