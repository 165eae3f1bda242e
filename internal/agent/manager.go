package agent

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/internal/paths"
)

// agentTypes maps agent identifiers to the connector type serving them.
var agentTypes = map[string]mcp.AgentType{
	paths.AgentClaude:     mcp.AgentTypeClaude,
	paths.AgentCopilot:    mcp.AgentTypeGitHubCopilot,
	paths.AgentClaudeCode: mcp.AgentTypeClaudeCode,
	paths.AgentCodex:      mcp.AgentTypeOpenAICodex,
}

// Manager resolves the supported agents against this machine.
type Manager struct {
	connectors *connector.Registry

	// pathOverrides replaces the default config path per agent ID. Set
	// from the agents section of the app config; mainly for tests and
	// non-standard installs.
	pathOverrides map[string]string
}

// NewManager creates an agent manager over the given connector registry.
// pathOverrides may be nil.
func NewManager(connectors *connector.Registry, pathOverrides map[string]string) *Manager {
	return &Manager{
		connectors:    connectors,
		pathOverrides: pathOverrides,
	}
}

// ConfigPath returns the native config file path for an agent, honoring
// overrides. Empty for unknown agents.
func (m *Manager) ConfigPath(agentID string) string {
	if p, ok := m.pathOverrides[agentID]; ok && p != "" {
		return p
	}
	return paths.AgentConfigPath(agentID)
}

// GetAgent resolves a single agent by ID. Unknown IDs return (nil, nil).
//
// The returned agent carries a fresh read of its config file: IsDetected
// reflects the filesystem right now, and ConfiguredServerIDs lists the
// servers currently present in the file. A config file that exists but
// cannot be parsed is an error; a missing file is simply an undetected
// agent.
func (m *Manager) GetAgent(ctx context.Context, agentID string) (*mcp.Agent, error) {
	agentType, ok := agentTypes[agentID]
	if !ok {
		return nil, nil
	}

	configPath := m.ConfigPath(agentID)
	agent := &mcp.Agent{
		ID:         agentID,
		Name:       paths.AgentDisplayName(agentID),
		Type:       agentType,
		ConfigPath: configPath,
		IsDetected: m.detected(agentID, configPath),
	}

	conn, ok := m.connectors.ForType(agentType)
	if !ok {
		// No connector in this build; the agent is still listed so the
		// user can see it, but its config is opaque to us.
		return agent, nil
	}

	ids, err := conn.ConfiguredServerIDs()
	if err != nil {
		return nil, errors.Wrapf(err, "reading config for agent %q", agentID)
	}
	agent.ConfiguredServerIDs = ids

	return agent, nil
}

// Agents resolves all supported agents. Agents whose config files fail to
// parse are returned without server IDs rather than dropped, so one broken
// file does not hide the other agents; the failure is logged.
func (m *Manager) Agents(ctx context.Context) ([]*mcp.Agent, error) {
	log := logging.FromContext(ctx)

	var out []*mcp.Agent
	for _, agentID := range paths.Agents() {
		agent, err := m.GetAgent(ctx, agentID)
		if err != nil {
			log.Warn("skipping agent config", "agent", agentID, "error", err)
			agent = &mcp.Agent{
				ID:         agentID,
				Name:       paths.AgentDisplayName(agentID),
				Type:       agentTypes[agentID],
				ConfigPath: m.ConfigPath(agentID),
				IsDetected: m.detected(agentID, m.ConfigPath(agentID)),
			}
		}
		out = append(out, agent)
	}

	return out, nil
}

// DetectedAgents returns only the agents present on this machine.
func (m *Manager) DetectedAgents(ctx context.Context) ([]*mcp.Agent, error) {
	agents, err := m.Agents(ctx)
	if err != nil {
		return nil, err
	}

	out := agents[:0]
	for _, agent := range agents {
		if agent.IsDetected {
			out = append(out, agent)
		}
	}

	return out, nil
}

// detected reports whether an agent appears installed. The config file
// existing always counts. For the agent's default location, the
// application directory holding the file also counts (installed but never
// configured) — except the home directory itself, since Claude Code keeps
// its file directly under ~. An overridden path carries no such meaning:
// it may point anywhere, so only the file itself is a signal.
func (m *Manager) detected(agentID, configPath string) bool {
	if configPath == "" {
		return false
	}
	if _, err := os.Stat(configPath); err == nil {
		return true
	}
	if p, ok := m.pathOverrides[agentID]; ok && p != "" {
		return false
	}
	dir := filepath.Dir(configPath)
	if dir == paths.Home() {
		return false
	}
	_, err := os.Stat(dir)
	return err == nil
}
