package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/registry"
)

// Config is the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// DefaultAgents are the agents sync and install target when none are
	// named on the command line.
	DefaultAgents []string `mapstructure:"default_agents" yaml:"default_agents"`

	// Agents holds per-agent overrides, keyed by agent identifier.
	Agents map[string]AgentOverride `mapstructure:"agents" yaml:"agents"`

	Registry RegistryConfig `mapstructure:"registry" yaml:"registry"`
	Daemon   DaemonConfig   `mapstructure:"daemon" yaml:"daemon"`

	// DataDir overrides where catalog and installation state is kept.
	// Empty means the XDG data directory.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// AgentOverride contains configuration overrides for a specific agent.
type AgentOverride struct {
	// ConfigPath replaces the agent's default native config file path.
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
}

// RegistryConfig configures the remote server registry.
type RegistryConfig struct {
	URL string        `mapstructure:"url" yaml:"url"`
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// DaemonConfig configures the local HTTP API.
type DaemonConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// CORSOrigins are the origins allowed to call the API from a browser.
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Init initializes Viper with defaults and search paths.
// Call this once at application startup before Load. Calling it again
// resets any previously loaded state.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths, in order of precedence. MCPDOCK_CONFIG_DIR lets tests
	// and non-standard installs redirect the lookup entirely.
	viper.AddConfigPath(".")
	if dir := os.Getenv("MCPDOCK_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), paths.AppName))

	viper.SetEnvPrefix("MCPDOCK")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_agents", paths.Agents())
	viper.SetDefault("registry.url", registry.DefaultURL)
	viper.SetDefault("registry.ttl", registry.DefaultTTL)
	viper.SetDefault("daemon.addr", "localhost:8090")
	viper.SetDefault("daemon.cors_origins", []string{})
}

// Load reads the configuration. With a non-empty path that exact file is
// required; with an empty path the search locations are tried and a
// missing file falls back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && path == "" {
			// Implicit load with no file anywhere: defaults apply.
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating config")
	}

	return &cfg, nil
}

// AgentPathOverrides flattens the per-agent overrides into the map the
// agent manager consumes.
func (c *Config) AgentPathOverrides() map[string]string {
	if len(c.Agents) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Agents))
	for id, override := range c.Agents {
		if override.ConfigPath != "" {
			out[id] = override.ConfigPath
		}
	}
	return out
}

// ResolvedDataDir returns the directory for persisted state.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return paths.AppDataDir()
}
