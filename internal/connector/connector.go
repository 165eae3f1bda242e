package connector

import (
	"strings"

	"github.com/mcpdock/mcpdock/internal/mcp"
)

// Reserved configuration keys understood by all connectors.
const (
	// KeyCommand holds the executable that launches the MCP server.
	KeyCommand = "command"

	// KeyArgs holds the space-separated arguments for the command.
	KeyArgs = "args"
)

// Connector reads and writes one agent's native MCP configuration file.
//
// Implementations must treat a missing config file as an empty
// configuration and must be safe for concurrent use.
type Connector interface {
	// Type returns the agent variant this connector serves.
	Type() mcp.AgentType

	// AddServer writes a server entry with the given effective configuration.
	// Adding a server that is already present overwrites its entry.
	AddServer(serverID string, cfg map[string]string) error

	// RemoveServer deletes a server entry. Removing an absent server is a no-op.
	RemoveServer(serverID string) error

	// SetServerEnabled marks a server entry enabled or disabled without
	// removing it. Returns an error when the entry does not exist.
	SetServerEnabled(serverID string, enabled bool) error

	// ConfiguredServerIDs returns the server IDs present in the live file,
	// sorted for deterministic output.
	ConfiguredServerIDs() ([]string, error)
}

// SplitConfig separates a flat configuration mapping into the command,
// its arguments, and the environment passed to the server process.
func SplitConfig(cfg map[string]string) (command string, args []string, env map[string]string) {
	env = make(map[string]string)
	for k, v := range cfg {
		switch k {
		case KeyCommand:
			command = v
		case KeyArgs:
			args = strings.Fields(v)
		default:
			env[k] = v
		}
	}
	if len(env) == 0 {
		env = nil
	}
	return command, args, env
}

// JoinConfig is the inverse of SplitConfig: it flattens a native entry
// back into the configuration mapping used by the rest of mcpdock.
func JoinConfig(command string, args []string, env map[string]string) map[string]string {
	cfg := make(map[string]string, len(env)+2)
	if command != "" {
		cfg[KeyCommand] = command
	}
	if len(args) > 0 {
		cfg[KeyArgs] = strings.Join(args, " ")
	}
	for k, v := range env {
		cfg[k] = v
	}
	return cfg
}
