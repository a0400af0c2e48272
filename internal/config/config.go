// Package config handles loading tasktrack.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tasktrack/internal/paths"
)

const (
	// ProjectFile is the per-project configuration file name.
	ProjectFile = "tasktrack.toml"

	// EnvBackendURL overrides the configured backend address.
	EnvBackendURL = "TASKTRACK_BACKEND_URL"

	// DefaultBackendURL is used when nothing else is configured.
	DefaultBackendURL = "http://localhost:8000"

	// DefaultServeAddr is the listen address for the reference backend.
	DefaultServeAddr = "localhost:8000"
)

// Config represents the tasktrack.toml configuration file.
type Config struct {
	Backend Backend `toml:"backend"`
	Suggest Suggest `toml:"suggest"`
	Serve   Serve   `toml:"serve"`
}

// Backend configures how the client reaches the task backend.
type Backend struct {
	// URL is the backend base address.
	URL string `toml:"url"`
	// Timeout bounds each request, e.g. "10s".
	Timeout time.Duration `toml:"timeout"`
}

// Suggest configures remote suggestions.
type Suggest struct {
	// Enabled asks the backend for suggestions in `tt insights` without --ai.
	Enabled bool `toml:"enabled"`
	// OllamaHost is the Ollama address used by `tt serve`.
	OllamaHost string `toml:"ollama-host"`
	// Model is the Ollama model used by `tt serve`.
	Model string `toml:"model"`
}

// Serve configures the reference backend.
type Serve struct {
	Addr     string `toml:"addr"`
	DataFile string `toml:"data-file"`
	Legacy   bool   `toml:"legacy"`
}

// Load loads configuration from projectDir and the global config file.
// Returns an empty config if no config files exist.
func Load(projectDir string) (*Config, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, ProjectFile))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, projectMeta), nil
}

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	dir, err := paths.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Backend.URL = mergeString(projectMeta.IsDefined("backend", "url"), projectCfg.Backend.URL, globalCfg.Backend.URL)
	merged.Backend.Timeout = mergeValue(projectMeta.IsDefined("backend", "timeout"), projectCfg.Backend.Timeout, globalCfg.Backend.Timeout)
	merged.Suggest.Enabled = mergeValue(projectMeta.IsDefined("suggest", "enabled"), projectCfg.Suggest.Enabled, globalCfg.Suggest.Enabled)
	merged.Suggest.OllamaHost = mergeString(projectMeta.IsDefined("suggest", "ollama-host"), projectCfg.Suggest.OllamaHost, globalCfg.Suggest.OllamaHost)
	merged.Suggest.Model = mergeString(projectMeta.IsDefined("suggest", "model"), projectCfg.Suggest.Model, globalCfg.Suggest.Model)
	merged.Serve.Addr = mergeString(projectMeta.IsDefined("serve", "addr"), projectCfg.Serve.Addr, globalCfg.Serve.Addr)
	merged.Serve.DataFile = mergeString(projectMeta.IsDefined("serve", "data-file"), projectCfg.Serve.DataFile, globalCfg.Serve.DataFile)
	merged.Serve.Legacy = mergeValue(projectMeta.IsDefined("serve", "legacy"), projectCfg.Serve.Legacy, globalCfg.Serve.Legacy)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(projectDefined, projectValue, globalValue))
}

func mergeValue[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

// BackendURL resolves the backend address. The flag value wins, then the
// environment, then the config files, then DefaultBackendURL.
func (c *Config) BackendURL(flagValue string) string {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(EnvBackendURL)); value != "" {
		return value
	}
	if c != nil && c.Backend.URL != "" {
		return c.Backend.URL
	}
	return DefaultBackendURL
}

// ServeAddr returns the configured listen address or DefaultServeAddr.
func (c *Config) ServeAddr() string {
	if c != nil && c.Serve.Addr != "" {
		return c.Serve.Addr
	}
	return DefaultServeAddr
}
