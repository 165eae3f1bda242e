package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/connector/claude"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/internal/paths"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()

	overrides := make(map[string]string)
	for _, id := range paths.Agents() {
		overrides[id] = filepath.Join(dir, id, "config.json")
	}

	registry := connector.NewRegistry()
	if err := registry.Register(claude.New(overrides[paths.AgentClaude], filepath.Join(dir, "backups"))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	return NewManager(registry, overrides), dir
}

func TestGetAgent_Undetected(t *testing.T) {
	m, _ := newTestManager(t)

	agent, err := m.GetAgent(t.Context(), paths.AgentClaude)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if agent == nil {
		t.Fatal("known agent must resolve")
	}
	if agent.IsDetected {
		t.Error("agent with no config file or app dir must not be detected")
	}
	if agent.Type != mcp.AgentTypeClaude || agent.Name != "Claude Desktop" {
		t.Errorf("agent = %+v", agent)
	}
}

func TestGetAgent_ReadsConfiguredServers(t *testing.T) {
	m, dir := newTestManager(t)

	configPath := filepath.Join(dir, paths.AgentClaude, "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatal(err)
	}
	seed := `{"mcpServers": {"github": {"command": "npx"}, "postgres": {"command": "pg-mcp"}}}`
	if err := os.WriteFile(configPath, []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	agent, err := m.GetAgent(t.Context(), paths.AgentClaude)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if !agent.IsDetected {
		t.Error("agent with a config file must be detected")
	}
	if len(agent.ConfiguredServerIDs) != 2 {
		t.Errorf("ConfiguredServerIDs = %v", agent.ConfiguredServerIDs)
	}
}

func TestGetAgent_OverriddenPathInExistingDir(t *testing.T) {
	// The parent directory of an overridden config path existing says
	// nothing about the agent; only the file itself counts.
	m, dir := newTestManager(t)

	overridePath := filepath.Join(dir, paths.AgentClaude, "config.json")
	if err := os.MkdirAll(filepath.Dir(overridePath), 0o755); err != nil {
		t.Fatal(err)
	}

	agent, err := m.GetAgent(t.Context(), paths.AgentClaude)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if agent.IsDetected {
		t.Error("overridden path with no config file must not be detected")
	}
}

func TestGetAgent_Unknown(t *testing.T) {
	m, _ := newTestManager(t)

	agent, err := m.GetAgent(t.Context(), "cursor")
	if err != nil || agent != nil {
		t.Errorf("unknown agent = (%v, %v), want (nil, nil)", agent, err)
	}
}

func TestGetAgent_NoConnector(t *testing.T) {
	m, _ := newTestManager(t)

	// codex has no connector registered in this test setup.
	agent, err := m.GetAgent(t.Context(), paths.AgentCodex)
	if err != nil {
		t.Fatalf("GetAgent() error = %v", err)
	}
	if agent == nil {
		t.Fatal("agent without a connector must still be listed")
	}
	if agent.ConfiguredServerIDs != nil {
		t.Errorf("ConfiguredServerIDs = %v, want nil", agent.ConfiguredServerIDs)
	}
}

func TestAgents_BrokenConfigDoesNotHideOthers(t *testing.T) {
	m, dir := newTestManager(t)

	configPath := filepath.Join(dir, paths.AgentClaude, "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	agents, err := m.Agents(t.Context())
	if err != nil {
		t.Fatalf("Agents() error = %v", err)
	}
	if len(agents) != len(paths.Agents()) {
		t.Errorf("Agents() returned %d agents, want %d", len(agents), len(paths.Agents()))
	}
}

func TestDetectedAgents(t *testing.T) {
	m, dir := newTestManager(t)

	configPath := filepath.Join(dir, paths.AgentCodex, "config.json")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	detected, err := m.DetectedAgents(t.Context())
	if err != nil {
		t.Fatalf("DetectedAgents() error = %v", err)
	}
	if len(detected) != 1 || detected[0].ID != paths.AgentCodex {
		t.Errorf("DetectedAgents() = %v", detected)
	}
}
