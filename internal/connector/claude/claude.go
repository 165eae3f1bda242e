// Package claude implements the connector for Claude Desktop.
//
// Claude Desktop keeps its MCP servers in claude_desktop_config.json under
// the top-level "mcpServers" object. Unrelated top-level fields in the file
// are preserved untouched.
package claude

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

// serversKey is the top-level JSON key holding the MCP server entries.
const serversKey = "mcpServers"

// ErrServerNotConfigured is returned when toggling a server that is not
// present in the config file.
var ErrServerNotConfigured = errors.New("server not configured for Claude Desktop")

// serverEntry is the native shape of one MCP server entry.
type serverEntry struct {
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// Connector reads and writes Claude Desktop's MCP configuration.
type Connector struct {
	configPath string
	backupDir  string
}

// New creates a Claude Desktop connector for the given config file.
// Backups of the previous file are written to backupDir before each save.
func New(configPath, backupDir string) *Connector {
	return &Connector{
		configPath: configPath,
		backupDir:  backupDir,
	}
}

// Type returns the agent variant this connector serves.
func (c *Connector) Type() mcp.AgentType {
	return mcp.AgentTypeClaude
}

// AddServer writes a server entry derived from the effective configuration.
// An existing entry for the same ID is overwritten.
func (c *Connector) AddServer(serverID string, cfg map[string]string) error {
	root, servers, err := c.load()
	if err != nil {
		return err
	}

	command, args, env := connector.SplitConfig(cfg)
	servers[serverID] = &serverEntry{
		Command: command,
		Args:    args,
		Env:     env,
	}

	return c.save(root, servers)
}

// RemoveServer deletes a server entry. Removing an absent server is a no-op.
func (c *Connector) RemoveServer(serverID string) error {
	root, servers, err := c.load()
	if err != nil {
		return err
	}

	if _, ok := servers[serverID]; !ok {
		return nil
	}
	delete(servers, serverID)

	return c.save(root, servers)
}

// SetServerEnabled toggles the disabled flag on an existing entry.
func (c *Connector) SetServerEnabled(serverID string, enabled bool) error {
	root, servers, err := c.load()
	if err != nil {
		return err
	}

	entry, ok := servers[serverID]
	if !ok {
		return errors.Wrapf(ErrServerNotConfigured, "%q", serverID)
	}
	entry.Disabled = !enabled

	return c.save(root, servers)
}

// ConfiguredServerIDs returns the server IDs in the live file, sorted.
func (c *Connector) ConfiguredServerIDs() ([]string, error) {
	_, servers, err := c.load()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(servers))
	for id := range servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

// load reads the config file, returning the raw top-level document and the
// decoded server entries. A missing file reads as empty.
func (c *Connector) load() (map[string]json.RawMessage, map[string]*serverEntry, error) {
	root := make(map[string]json.RawMessage)
	servers := make(map[string]*serverEntry)

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return root, servers, nil
		}
		return nil, nil, errors.Wrap(err, "reading Claude Desktop config")
	}

	if err := json.Unmarshal(data, &root); err != nil {
		return nil, nil, errors.Wrap(err, "parsing Claude Desktop config")
	}

	if raw, ok := root[serversKey]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, nil, errors.Wrap(err, "parsing mcpServers section")
		}
	}

	return root, servers, nil
}

// save writes the config atomically, backing up the previous file first.
func (c *Connector) save(root map[string]json.RawMessage, servers map[string]*serverEntry) error {
	data, err := json.Marshal(servers)
	if err != nil {
		return errors.Wrap(err, "marshaling mcpServers section")
	}
	root[serversKey] = data

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if _, err := fileutil.BackupFile(c.configPath, c.backupDir); err != nil {
		return errors.Wrap(err, "backing up Claude Desktop config")
	}

	return errors.Wrap(fileutil.AtomicWriteJSON(c.configPath, root), "writing Claude Desktop config")
}
