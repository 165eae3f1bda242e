package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/connector/claude"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
)

type staticCheck struct {
	name   string
	status Severity
}

func (c *staticCheck) Name() string     { return c.name }
func (c *staticCheck) Category() string { return "test" }
func (c *staticCheck) Run(_ context.Context) *CheckResult {
	return &CheckResult{Name: c.name, Category: "test", Status: c.status}
}

func TestRunner_Summary(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&staticCheck{name: "a", status: SeverityPass})
	r.AddCheck(&staticCheck{name: "b", status: SeverityWarning})
	r.AddCheck(&staticCheck{name: "c", status: SeverityError})
	r.AddCheck(&staticCheck{name: "d", status: SeverityInfo})

	report := r.Run(t.Context())

	if len(report.Results) != 4 {
		t.Fatalf("results = %d, want 4", len(report.Results))
	}
	if report.Summary.Passed != 1 || report.Summary.Info != 1 ||
		report.Summary.Warnings != 1 || report.Summary.Errors != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if !report.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if !report.HasWarnings() {
		t.Error("HasWarnings() = false, want true")
	}
}

func TestConfigCheck(t *testing.T) {
	pass := (&ConfigCheck{}).Run(t.Context())
	if pass.Status != SeverityPass {
		t.Errorf("status = %s, want pass", pass.Status)
	}

	fail := (&ConfigCheck{LoadErr: errors.New("bad yaml")}).Run(t.Context())
	if fail.Status != SeverityError {
		t.Errorf("status = %s, want error", fail.Status)
	}
}

func TestDataDirCheck(t *testing.T) {
	check := &DataDirCheck{Dir: filepath.Join(t.TempDir(), "data")}
	result := check.Run(t.Context())
	if result.Status != SeverityPass {
		t.Errorf("status = %s: %s", result.Status, result.Message)
	}
}

func TestAgentCheck(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "claude_desktop_config.json")

	connectors := connector.NewRegistry()
	if err := connectors.Register(claude.New(configPath, filepath.Join(dir, "backups"))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	agents := agent.NewManager(connectors, map[string]string{paths.AgentClaude: configPath})

	check := &AgentCheck{Agents: agents, AgentID: paths.AgentClaude}

	result := check.Run(t.Context())
	if result.Status != SeverityInfo {
		t.Errorf("undetected agent: status = %s, want info", result.Status)
	}

	if err := os.WriteFile(configPath, []byte(`{"mcpServers":{"github":{"command":"npx"}}}`), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	result = check.Run(t.Context())
	if result.Status != SeverityPass {
		t.Errorf("detected agent: status = %s: %s", result.Status, result.Message)
	}

	if err := os.WriteFile(configPath, []byte(`{not json`), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	result = check.Run(t.Context())
	if result.Status != SeverityError {
		t.Errorf("broken config: status = %s, want error", result.Status)
	}
}

func TestRegistryCacheCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.json")

	check := &RegistryCacheCheck{Path: path, TTL: time.Hour}

	if result := check.Run(t.Context()); result.Status != SeverityInfo {
		t.Errorf("missing cache: status = %s, want info", result.Status)
	}

	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("writing cache: %v", err)
	}
	if result := check.Run(t.Context()); result.Status != SeverityPass {
		t.Errorf("fresh cache: status = %s, want pass", result.Status)
	}

	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("aging cache: %v", err)
	}
	if result := check.Run(t.Context()); result.Status != SeverityWarning {
		t.Errorf("stale cache: status = %s, want warning", result.Status)
	}
}
