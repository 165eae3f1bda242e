// Package claudecode implements the connector for the Claude Code CLI.
//
// Claude Code keeps user-scope MCP servers in ~/.claude.json under the
// "mcpServers" object. That file also carries project state, history and
// other settings; everything outside the mcpServers object is preserved
// byte-for-byte.
package claudecode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// ErrServerNotConfigured is returned when toggling a server that is not
// present in the config file.
var ErrServerNotConfigured = errors.New("server not configured for Claude Code")

// entry is the native shape of one MCP server entry. Claude Code tags
// stdio servers with an explicit type field.
type entry struct {
	Type     string            `json:"type,omitempty"`
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// document is a loaded ~/.claude.json with its server section decoded.
type document struct {
	root    map[string]json.RawMessage
	servers map[string]*entry
}

// Connector reads and writes Claude Code's MCP configuration.
type Connector struct {
	configPath string
	backupDir  string
}

// New creates a Claude Code connector for the given config file.
func New(configPath, backupDir string) *Connector {
	return &Connector{
		configPath: configPath,
		backupDir:  backupDir,
	}
}

// Type returns the agent variant this connector serves.
func (c *Connector) Type() mcp.AgentType {
	return mcp.AgentTypeClaudeCode
}

// AddServer writes a server entry derived from the effective configuration.
func (c *Connector) AddServer(serverID string, cfg map[string]string) error {
	doc, err := c.load()
	if err != nil {
		return err
	}

	command, args, env := connector.SplitConfig(cfg)
	doc.servers[serverID] = &entry{
		Type:    "stdio",
		Command: command,
		Args:    args,
		Env:     env,
	}

	return c.save(doc)
}

// RemoveServer deletes a server entry. Removing an absent server is a no-op.
func (c *Connector) RemoveServer(serverID string) error {
	doc, err := c.load()
	if err != nil {
		return err
	}

	if _, ok := doc.servers[serverID]; !ok {
		return nil
	}
	delete(doc.servers, serverID)

	return c.save(doc)
}

// SetServerEnabled toggles the disabled flag on an existing entry.
func (c *Connector) SetServerEnabled(serverID string, enabled bool) error {
	doc, err := c.load()
	if err != nil {
		return err
	}

	e, ok := doc.servers[serverID]
	if !ok {
		return errors.Wrapf(ErrServerNotConfigured, "%q", serverID)
	}
	e.Disabled = !enabled

	return c.save(doc)
}

// ConfiguredServerIDs returns the server IDs in the live file, sorted.
func (c *Connector) ConfiguredServerIDs() ([]string, error) {
	doc, err := c.load()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(doc.servers))
	for id := range doc.servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

func (c *Connector) load() (*document, error) {
	doc := &document{
		root:    make(map[string]json.RawMessage),
		servers: make(map[string]*entry),
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, errors.Wrap(err, "reading Claude Code config")
	}

	if err := json.Unmarshal(data, &doc.root); err != nil {
		return nil, errors.Wrap(err, "parsing Claude Code config")
	}

	if raw, ok := doc.root["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &doc.servers); err != nil {
			return nil, errors.Wrap(err, "parsing mcpServers section")
		}
	}

	return doc, nil
}

func (c *Connector) save(doc *document) error {
	data, err := json.Marshal(doc.servers)
	if err != nil {
		return errors.Wrap(err, "marshaling mcpServers section")
	}
	doc.root["mcpServers"] = data

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if _, err := fileutil.BackupFile(c.configPath, c.backupDir); err != nil {
		return errors.Wrap(err, "backing up Claude Code config")
	}

	// ~/.claude.json is user-private; keep it that way.
	return errors.Wrap(
		fileutil.AtomicWriteJSONWithPerm(c.configPath, doc.root, 0o600),
		"writing Claude Code config")
}
