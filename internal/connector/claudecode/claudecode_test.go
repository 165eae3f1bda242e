package claudecode

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
	configPath := filepath.Join(dir, ".claude.json")
	return New(configPath, filepath.Join(dir, "backups")), configPath
}

func TestConnector_Type(t *testing.T) {
	c, _ := newTestConnector(t)
	if c.Type() != mcp.AgentTypeClaudeCode {
		t.Errorf("Type() = %q", c.Type())
	}
}

func TestAddServer_TagsStdioType(t *testing.T) {
	c, configPath := newTestConnector(t)

	if err := c.AddServer("filesystem", map[string]string{
		"command": "npx",
		"args":    "-y @modelcontextprotocol/server-filesystem /tmp",
	}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var root struct {
		MCPServers map[string]*entry `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}

	e := root.MCPServers["filesystem"]
	if e == nil {
		t.Fatal("filesystem entry missing")
	}
	if e.Type != "stdio" {
		t.Errorf("Type = %q, want stdio", e.Type)
	}
	want := []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"}
	if !reflect.DeepEqual(e.Args, want) {
		t.Errorf("Args = %v, want %v", e.Args, want)
	}
}

func TestAddServer_PreservesProjectState(t *testing.T) {
	c, configPath := newTestConnector(t)

	seed := `{
  "numStartups": 42,
  "projects": {"/home/user/work": {"allowedTools": []}},
  "mcpServers": {}
}`
	if err := os.WriteFile(configPath, []byte(seed), 0o600); err != nil {
		t.Fatalf("seeding config: %v", err)
	}

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	data, _ := os.ReadFile(configPath)
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	if string(root["numStartups"]) != "42" {
		t.Errorf("numStartups not preserved: %s", root["numStartups"])
	}
	if _, ok := root["projects"]; !ok {
		t.Error("projects section dropped")
	}
}

func TestAddServer_PrivatePermissions(t *testing.T) {
	c, configPath := newTestConnector(t)

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file perm = %v, want 0600", info.Mode().Perm())
	}
}

func TestRemoveAndToggle(t *testing.T) {
	c, _ := newTestConnector(t)

	if err := c.AddServer("github", map[string]string{"command": "npx"}); err != nil {
		t.Fatalf("AddServer() error = %v", err)
	}

	if err := c.SetServerEnabled("github", false); err != nil {
		t.Fatalf("SetServerEnabled() error = %v", err)
	}
	if err := c.SetServerEnabled("missing", false); !errors.Is(err, ErrServerNotConfigured) {
		t.Errorf("error = %v, want ErrServerNotConfigured", err)
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

	if err := c.RemoveServer("github"); err != nil {
		t.Errorf("second remove should be a no-op, got %v", err)
	}
}
