package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Backend names for the persistence adapter.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	// Backend selects the key-value persistence adapter: "file" or
	// "sqlite".
	Backend string `json:"backend,omitempty"`

	// AutosaveDebounceMS is the editor autosave quiet period in
	// milliseconds, measured from the most recent edit.
	AutosaveDebounceMS int `json:"autosave_debounce_ms,omitempty"`

	// WebBind is the web UI bind address.
	WebBind string `json:"web_bind,omitempty"`

	// WebPort is the web UI port.
	WebPort int `json:"web_port,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:            BackendFile,
		AutosaveDebounceMS: 1000,
		WebBind:            "127.0.0.1",
		WebPort:            8787,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.jotter.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for non-zero scalars.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Backend = overlay.Backend
	if result.Backend == "" {
		result.Backend = base.Backend
	}

	result.AutosaveDebounceMS = overlay.AutosaveDebounceMS
	if result.AutosaveDebounceMS == 0 {
		result.AutosaveDebounceMS = base.AutosaveDebounceMS
	}

	result.WebBind = overlay.WebBind
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	return result
}
