package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/mcpdock/mcpdock/internal/errors"
)

func TestInit_Defaults(t *testing.T) {
	t.Setenv("MCPDOCK_CONFIG_DIR", t.TempDir())
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if len(cfg.DefaultAgents) != 4 {
		t.Errorf("default agents = %v", cfg.DefaultAgents)
	}
	if cfg.Daemon.Addr != "localhost:8090" {
		t.Errorf("daemon addr = %q", cfg.Daemon.Addr)
	}
	if cfg.Registry.URL == "" || cfg.Registry.TTL != 24*time.Hour {
		t.Errorf("registry = %+v", cfg.Registry)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `version: 1
default_agents:
  - claude
  - codex
agents:
  claude:
    config_path: /custom/claude.json
daemon:
  addr: 127.0.0.1:9999
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	Init()
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DefaultAgents) != 2 {
		t.Errorf("default agents = %v", cfg.DefaultAgents)
	}
	if cfg.Daemon.Addr != "127.0.0.1:9999" {
		t.Errorf("daemon addr = %q", cfg.Daemon.Addr)
	}

	overrides := cfg.AgentPathOverrides()
	if overrides["claude"] != "/custom/claude.json" {
		t.Errorf("overrides = %v", overrides)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	Init()

	if _, err := Load("/non/existent/path/config.yaml"); err == nil {
		t.Error("Load() with a non-existent explicit path should error")
	}
}

func TestLoad_SearchesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCPDOCK_CONFIG_DIR", dir)
	content := "version: 1\ndefault_agents: [codex]\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DefaultAgents) != 1 || cfg.DefaultAgents[0] != "codex" {
		t.Errorf("default agents = %v", cfg.DefaultAgents)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: ErrUnsupportedVersion,
		},
		{
			name:    "unknown default agent",
			content: "version: 1\ndefault_agents: [cursor]\n",
			wantErr: ErrInvalidAgent,
		},
		{
			name:    "unknown agent override",
			content: "version: 1\nagents:\n  cursor:\n    config_path: /tmp/x\n",
			wantErr: ErrInvalidAgent,
		},
		{
			name:    "bad daemon addr",
			content: "version: 1\ndaemon:\n  addr: just-a-host\n",
			wantErr: ErrInvalidAddr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			Init()
			_, err := Load(configPath)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolvedDataDir(t *testing.T) {
	cfg := &Config{DataDir: "/custom/state"}
	if got := cfg.ResolvedDataDir(); got != "/custom/state" {
		t.Errorf("ResolvedDataDir() = %q", got)
	}

	cfg = &Config{}
	if got := cfg.ResolvedDataDir(); got == "" {
		t.Error("ResolvedDataDir() must fall back to the app data dir")
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	dirA := t.TempDir()
	fileA := filepath.Join(dirA, "config_a.yaml")
	if err := os.WriteFile(fileA, []byte("version: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	dirB := t.TempDir()
	t.Setenv("MCPDOCK_CONFIG_DIR", dirB)
	if err := os.WriteFile(filepath.Join(dirB, "config.yaml"),
		[]byte("version: 1\ndefault_agents: [copilot]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Re-initializing must drop the explicit file from the first load.
	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(cfg.DefaultAgents) != 1 || cfg.DefaultAgents[0] != "copilot" {
		t.Errorf("default agents = %v, want [copilot]; file used: %s",
			cfg.DefaultAgents, viper.ConfigFileUsed())
	}
}
