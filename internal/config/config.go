// Package config loads and stores CLI configuration in the user config dir.
// Only non-secret settings live here; the API key goes to the OS keychain
// or the OPENAI_API_KEY environment variable.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds non-sensitive settings.
type Config struct {
	LogLevel       string `json:"log_level"`
	Model          string `json:"model"`
	Endpoint       string `json:"endpoint,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	DataDir        string `json:"data_dir"`
	StorePath      string `json:"store_path,omitempty"`
}

// defaults returns the configuration used when no file exists.
func defaults() Config {
	return Config{
		LogLevel:       "info",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
		DataDir:        "sample-data",
	}
}

// path returns the config file location under the user config dir.
func path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lastmile", "config.json"), nil
}

// Load reads configuration; a missing file returns defaults.
// Environment variables override the file.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return c, err
		}
	} else if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	c.applyEnv()
	return c, nil
}

// applyEnv overlays LASTMILE_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("LASTMILE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LASTMILE_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("LASTMILE_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("LASTMILE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Save writes configuration with 0600 permissions, creating the directory
// when needed.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
