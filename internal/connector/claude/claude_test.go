package claude

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

func newTestConnector(t *testing.T) (*Connector, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "claude_desktop_config.json")
	return New(configPath, filepath.Join(dir, "backups")), configPath
}

func TestConnector_Type(t *testing.T) {
	c, _ := newTestConnector(t)
	if c.Type() != mcp.AgentTypeClaude {
		t.Errorf("Type() = %q", c.Type())
	}
}

func TestConfiguredServerIDs_MissingFile(t *testing.T) {
	c, _ := newTestConnector(t)

	ids, err := c.ConfiguredServerIDs()
	if err != nil {
		t.Fatalf("ConfiguredServerIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestAddServer_SplitsConfig(t *testing.T) {
	c, configPath := newTestConnector(t)

	err := c.AddServer("github", map[string]string{
		"command":      "npx",
		"args":         "-y @modelcontextprotocol/server-github",
		"GITHUB_TOKEN": "ghp_test",
	})
	if err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	var root struct {
		MCPServers map[string]*serverEntry `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	entry := root.MCPServers["github"]
	if entry == nil {
		t.Fatal("github entry missing")
	}
	if entry.Command != "npx" {
		t.Errorf("Command = %q", entry.Command)
	}
	want := []string{"-y", "@modelcontextprotocol/server-github"}
	if !reflect.DeepEqual(entry.Args, want) {
		t.Errorf("Args = %v, want %v", entry.Args, want)
	}
	if entry.Env["GITHUB_TOKEN"] != "ghp_test" {
		t.Errorf("Env = %v", entry.Env)
	}
}

func TestAddServer_PreservesUnrelatedFields(t *testing.T) {
	c, configPath := newTestConnector(t)

	seed := `{
  "globalShortcut": "Ctrl+Space",
  "mcpServers": {
    "existing": {"command": "existing-mcp"}
  }
}`
	if err := os.WriteFile(configPath, []byte(seed), 0o600); err != nil {
		t.Fatalf("seeding config: %v", err)
	}

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	if string(root["globalShortcut"]) != `"Ctrl+Space"` {
		t.Errorf("unrelated field not preserved: %s", root["globalShortcut"])
	}

	ids, err := c.ConfiguredServerIDs()
	if err != nil {
		t.Fatalf("ConfiguredServerIDs() error = %v", err)
	}
	want := []string{"existing", "github"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestRemoveServer(t *testing.T) {
	c, _ := newTestConnector(t)

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}
	if err := c.RemoveServer("github"); err != nil {
		t.Fatalf("RemoveServer() error = %v", err)
	}

	ids, err := c.ConfiguredServerIDs()
	if err != nil {
		t.Fatalf("ConfiguredServerIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
}

func TestRemoveServer_AbsentIsNoop(t *testing.T) {
	c, _ := newTestConnector(t)

	if err := c.RemoveServer("never-added"); err != nil {
		t.Errorf("RemoveServer() error = %v, want nil", err)
	}
}

func TestSetServerEnabled(t *testing.T) {
	c, configPath := newTestConnector(t)

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	if err := c.SetServerEnabled("github", false); err != nil {
		t.Fatalf("SetServerEnabled() error = %v", err)
	}

	data, _ := os.ReadFile(configPath)
	var root struct {
		MCPServers map[string]*serverEntry `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	if !root.MCPServers["github"].Disabled {
		t.Error("entry should be disabled")
	}

	if err := c.SetServerEnabled("github", true); err != nil {
		t.Fatalf("SetServerEnabled() error = %v", err)
	}
	data, _ = os.ReadFile(configPath)
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	if root.MCPServers["github"].Disabled {
		t.Error("entry should be enabled again")
	}
}

func TestSetServerEnabled_UnknownServer(t *testing.T) {
	c, _ := newTestConnector(t)

	err := c.SetServerEnabled("ghost", false)
	if !errors.Is(err, ErrServerNotConfigured) {
		t.Errorf("error = %v, want ErrServerNotConfigured", err)
	}
}

func TestSave_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "claude_desktop_config.json")
	backupDir := filepath.Join(dir, "backups")
	c := New(configPath, backupDir)

	if err := c.AddServer("first", map[string]string{"command": "a"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}
	// Second write backs up the file produced by the first.
	if err := c.AddServer("second", map[string]string{"command": "b"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("reading backup dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("no backup created before overwrite")
	}
}
