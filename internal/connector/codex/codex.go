// Package codex implements the connector for the OpenAI Codex CLI.
//
// Codex keeps its whole configuration in ~/.codex/config.toml; MCP servers
// are [mcp_servers.<id>] tables. The rest of the file (model selection,
// approval policy, and so on) is preserved across writes. TOML comments do
// not survive a rewrite; the backup taken before each save keeps the
// previous file recoverable.
package codex

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// serversTable is the top-level TOML table holding MCP server entries.
const serversTable = "mcp_servers"

// ErrServerNotConfigured is returned when toggling a server that is not
// present in config.toml.
var ErrServerNotConfigured = errors.New("server not configured for Codex")

// Connector reads and writes the Codex CLI's MCP configuration.
type Connector struct {
	configPath string
	backupDir  string
}

// New creates a Codex connector for the given config.toml file.
func New(configPath, backupDir string) *Connector {
	return &Connector{
		configPath: configPath,
		backupDir:  backupDir,
	}
}

// Type returns the agent variant this connector serves.
func (c *Connector) Type() mcp.AgentType {
	return mcp.AgentTypeOpenAICodex
}

// AddServer writes an [mcp_servers.<id>] table derived from the effective
// configuration. An existing table for the same ID is overwritten.
func (c *Connector) AddServer(serverID string, cfg map[string]string) error {
	root, servers, err := c.load()
	if err != nil {
		return err
	}

	command, args, env := connector.SplitConfig(cfg)
	entry := map[string]any{}
	if command != "" {
		entry["command"] = command
	}
	if len(args) > 0 {
		entry["args"] = args
	}
	if len(env) > 0 {
		entry["env"] = env
	}
	servers[serverID] = entry

	return c.save(root, servers)
}

// RemoveServer deletes a server table. Removing an absent server is a no-op.
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

// SetServerEnabled toggles the disabled key on an existing table.
func (c *Connector) SetServerEnabled(serverID string, enabled bool) error {
	root, servers, err := c.load()
	if err != nil {
		return err
	}

	raw, ok := servers[serverID]
	if !ok {
		return errors.Wrapf(ErrServerNotConfigured, "%q", serverID)
	}

	entry, ok := raw.(map[string]any)
	if !ok {
		return errors.Newf("mcp_servers.%s is not a table", serverID)
	}
	if enabled {
		delete(entry, "disabled")
	} else {
		entry["disabled"] = true
	}
	servers[serverID] = entry

	return c.save(root, servers)
}

// ConfiguredServerIDs returns the server IDs in config.toml, sorted.
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

// load reads config.toml, returning the full document and the mcp_servers
// table. A missing file reads as empty.
func (c *Connector) load() (map[string]any, map[string]any, error) {
	root := make(map[string]any)
	servers := make(map[string]any)

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return root, servers, nil
		}
		return nil, nil, errors.Wrap(err, "reading Codex config")
	}

	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, nil, errors.Wrap(err, "parsing Codex config")
	}

	if raw, ok := root[serversTable]; ok {
		table, ok := raw.(map[string]any)
		if !ok {
			return nil, nil, errors.New("mcp_servers is not a table")
		}
		servers = table
	}

	return root, servers, nil
}

func (c *Connector) save(root, servers map[string]any) error {
	if len(servers) > 0 {
		root[serversTable] = servers
	} else {
		delete(root, serversTable)
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if _, err := fileutil.BackupFile(c.configPath, c.backupDir); err != nil {
		return errors.Wrap(err, "backing up Codex config")
	}

	return errors.Wrap(fileutil.AtomicWriteTOML(c.configPath, root), "writing Codex config")
}
