// Package copilot implements the connector for GitHub Copilot in VS Code.
//
// Copilot's MCP servers live in the VS Code user profile's mcp.json under
// the "servers" object. VS Code has no native disabled flag, so disabling
// moves the entry into a parallel "disabledServers" object that VS Code
// ignores; enabling moves it back. Both sections count as "configured".
package copilot

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

// Top-level JSON keys in mcp.json.
const (
	serversKey  = "servers"
	disabledKey = "disabledServers"
)

// ErrServerNotConfigured is returned when toggling a server that is absent
// from both the active and disabled sections.
var ErrServerNotConfigured = errors.New("server not configured for Copilot")

// serverEntry is the native shape of one MCP server entry.
type serverEntry struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Connector reads and writes Copilot's MCP configuration.
type Connector struct {
	configPath string
	backupDir  string
}

// New creates a Copilot connector for the given mcp.json file.
func New(configPath, backupDir string) *Connector {
	return &Connector{
		configPath: configPath,
		backupDir:  backupDir,
	}
}

// Type returns the agent variant this connector serves.
func (c *Connector) Type() mcp.AgentType {
	return mcp.AgentTypeGitHubCopilot
}

// AddServer writes a server entry into the active section.
// An entry already sitting in the disabled section is replaced and re-enabled.
func (c *Connector) AddServer(serverID string, cfg map[string]string) error {
	root, active, disabled, err := c.load()
	if err != nil {
		return err
	}

	command, args, env := connector.SplitConfig(cfg)
	delete(disabled, serverID)
	active[serverID] = &serverEntry{
		Type:    "stdio",
		Command: command,
		Args:    args,
		Env:     env,
	}

	return c.save(root, active, disabled)
}

// RemoveServer deletes a server from both sections. Absent is a no-op.
func (c *Connector) RemoveServer(serverID string) error {
	root, active, disabled, err := c.load()
	if err != nil {
		return err
	}

	_, inActive := active[serverID]
	_, inDisabled := disabled[serverID]
	if !inActive && !inDisabled {
		return nil
	}
	delete(active, serverID)
	delete(disabled, serverID)

	return c.save(root, active, disabled)
}

// SetServerEnabled moves the entry between the active and disabled sections.
func (c *Connector) SetServerEnabled(serverID string, enabled bool) error {
	root, active, disabled, err := c.load()
	if err != nil {
		return err
	}

	if enabled {
		entry, ok := disabled[serverID]
		if !ok {
			if _, alreadyActive := active[serverID]; alreadyActive {
				return nil
			}
			return errors.Wrapf(ErrServerNotConfigured, "%q", serverID)
		}
		delete(disabled, serverID)
		active[serverID] = entry
	} else {
		entry, ok := active[serverID]
		if !ok {
			if _, alreadyDisabled := disabled[serverID]; alreadyDisabled {
				return nil
			}
			return errors.Wrapf(ErrServerNotConfigured, "%q", serverID)
		}
		delete(active, serverID)
		disabled[serverID] = entry
	}

	return c.save(root, active, disabled)
}

// ConfiguredServerIDs returns the server IDs from both sections, sorted.
func (c *Connector) ConfiguredServerIDs() ([]string, error) {
	_, active, disabled, err := c.load()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(active)+len(disabled))
	for id := range active {
		ids = append(ids, id)
	}
	for id := range disabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

func (c *Connector) load() (root map[string]json.RawMessage, active, disabled map[string]*serverEntry, err error) {
	root = make(map[string]json.RawMessage)
	active = make(map[string]*serverEntry)
	disabled = make(map[string]*serverEntry)

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return root, active, disabled, nil
		}
		return nil, nil, nil, errors.Wrap(err, "reading Copilot mcp.json")
	}

	if err := json.Unmarshal(data, &root); err != nil {
		return nil, nil, nil, errors.Wrap(err, "parsing Copilot mcp.json")
	}

	if raw, ok := root[serversKey]; ok {
		if err := json.Unmarshal(raw, &active); err != nil {
			return nil, nil, nil, errors.Wrap(err, "parsing servers section")
		}
	}
	if raw, ok := root[disabledKey]; ok {
		if err := json.Unmarshal(raw, &disabled); err != nil {
			return nil, nil, nil, errors.Wrap(err, "parsing disabledServers section")
		}
	}

	return root, active, disabled, nil
}

func (c *Connector) save(root map[string]json.RawMessage, active, disabled map[string]*serverEntry) error {
	activeData, err := json.Marshal(active)
	if err != nil {
		return errors.Wrap(err, "marshaling servers section")
	}
	root[serversKey] = activeData

	if len(disabled) > 0 {
		disabledData, err := json.Marshal(disabled)
		if err != nil {
			return errors.Wrap(err, "marshaling disabledServers section")
		}
		root[disabledKey] = disabledData
	} else {
		delete(root, disabledKey)
	}

	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if _, err := fileutil.BackupFile(c.configPath, c.backupDir); err != nil {
		return errors.Wrap(err, "backing up Copilot mcp.json")
	}

	return errors.Wrap(fileutil.AtomicWriteJSON(c.configPath, root), "writing Copilot mcp.json")
}
