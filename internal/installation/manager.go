package installation

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// The manager is the installation side of configuration propagation.
var _ configuration.InstallationUpdater = (*Manager)(nil)

// AgentResolver looks up agents by ID. Unknown IDs return (nil, nil).
type AgentResolver interface {
	GetAgent(ctx context.Context, agentID string) (*mcp.Agent, error)
}

// Manager coordinates installation records with connector writes to the
// agents' native config files.
type Manager struct {
	store      Store
	agents     AgentResolver
	connectors *connector.Registry

	now   func() time.Time
	newID func() string
}

// NewManager creates a manager over the given store, agent resolver, and
// connector registry.
func NewManager(store Store, agents AgentResolver, connectors *connector.Registry) *Manager {
	return &Manager{
		store:      store,
		agents:     agents,
		connectors: connectors,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// AddServerToAgent installs a server for an agent and returns the
// installation record.
//
// The operation is idempotent at two levels. When a record for the
// (server, agent) pair already exists it is returned unchanged, with no
// connector I/O. When no record exists but the agent's config file already
// carries the server (for example after a manual edit), only the record is
// created. Otherwise the connector writes the entry first, then the record
// is created; cfg becomes the installation's override as-is, so passing
// the server's global configuration pins the installation to that value.
//
// Unknown agents and agent types without a registered connector are hard
// failures: no record is created.
func (m *Manager) AddServerToAgent(ctx context.Context, serverID, agentID string, cfg map[string]string) (*mcp.ServerInstallation, error) {
	log := logging.FromContext(ctx)

	if existing, err := m.store.Find(ctx, serverID, agentID); err != nil {
		return nil, err
	} else if existing != nil {
		log.Debug("server already installed",
			"server", serverID, "agent", agentID, "installation", existing.ID)
		return existing, nil
	}

	agent, conn, err := m.resolve(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if slices.Contains(agent.ConfiguredServerIDs, serverID) {
		log.Debug("server already in agent config, recording only",
			"server", serverID, "agent", agentID)
	} else if err := conn.AddServer(serverID, mcp.CloneConfig(cfg)); err != nil {
		return nil, errors.Wrapf(err, "adding server %q to agent %q", serverID, agentID)
	}

	rec := &mcp.ServerInstallation{
		ID:                  m.newID(),
		ServerID:            serverID,
		AgentID:             agentID,
		IsEnabled:           true,
		InstalledAt:         m.now(),
		AgentSpecificConfig: mcp.CloneConfig(cfg),
	}
	if err := m.store.Add(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "recording installation")
	}

	log.Info("server installed",
		"server", serverID, "agent", agentID, "installation", rec.ID)

	return cloneRecord(rec), nil
}

// RemoveServerFromAgent uninstalls a server from an agent. It reports
// whether anything was removed: false means the agent is unknown, has no
// connector, or neither a record nor a config entry existed.
//
// The connector removes first; the record is deleted only after the file
// write succeeds, so a failed write leaves the record in place for a
// retry. A later install of the same pair always gets a fresh record ID.
func (m *Manager) RemoveServerFromAgent(ctx context.Context, serverID, agentID string) (bool, error) {
	log := logging.FromContext(ctx)

	agent, conn, err := m.resolve(ctx, agentID)
	if err != nil {
		if errors.Is(err, errors.ErrAgentNotFound) || errors.Is(err, errors.ErrConnectorNotFound) {
			return false, nil
		}
		return false, err
	}

	rec, err := m.store.Find(ctx, serverID, agentID)
	if err != nil {
		return false, err
	}
	configured := slices.Contains(agent.ConfiguredServerIDs, serverID)
	if rec == nil && !configured {
		return false, nil
	}

	if configured {
		if err := conn.RemoveServer(serverID); err != nil {
			return false, errors.Wrapf(err, "removing server %q from agent %q", serverID, agentID)
		}
	}
	if rec != nil {
		if _, err := m.store.Delete(ctx, rec.ID); err != nil {
			return false, errors.Wrap(err, "deleting installation record")
		}
	}

	log.Info("server removed", "server", serverID, "agent", agentID)

	return true, nil
}

// ToggleServerEnabled flips an installation between enabled and disabled.
// It returns the new state and whether a record existed: found is false
// when the pair has no installation, and nothing is written. The enabled
// return alone cannot carry that distinction, since a successful flip to
// disabled is also (false, ...).
//
// The record flips before the connector writes; a connector failure is
// returned but not rolled back, so the record and the file can disagree
// until the next toggle or reconcile pass.
func (m *Manager) ToggleServerEnabled(ctx context.Context, serverID, agentID string) (enabled, found bool, err error) {
	rec, err := m.store.Find(ctx, serverID, agentID)
	if err != nil {
		return false, false, err
	}
	if rec == nil {
		return false, false, nil
	}

	_, conn, err := m.resolve(ctx, agentID)
	if err != nil {
		return false, true, err
	}

	rec.IsEnabled = !rec.IsEnabled
	now := m.now()
	rec.UpdatedAt = &now
	if _, err := m.store.Update(ctx, rec); err != nil {
		return false, true, errors.Wrap(err, "updating installation record")
	}

	if err := conn.SetServerEnabled(serverID, rec.IsEnabled); err != nil {
		return rec.IsEnabled, true, errors.Wrapf(err, "toggling server %q for agent %q", serverID, agentID)
	}

	logging.FromContext(ctx).Info("server toggled",
		"server", serverID, "agent", agentID, "enabled", rec.IsEnabled)

	return rec.IsEnabled, true, nil
}

// UpdateInstallationConfig replaces an installation's override
// configuration. Returns false when the record does not exist. Only the
// record changes; pushing the new effective configuration into the agent's
// file is the caller's concern.
func (m *Manager) UpdateInstallationConfig(ctx context.Context, installationID string, cfg map[string]string) (bool, error) {
	rec, err := m.store.Get(ctx, installationID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	rec.AgentSpecificConfig = mcp.CloneConfig(cfg)
	now := m.now()
	rec.UpdatedAt = &now

	return m.store.Update(ctx, rec)
}

// PushInstallationConfig rewrites the agent's config file entry from the
// installation record, bringing the file in line after the record's
// override changed. Disabled installations are left alone; the entry is
// rewritten when they are enabled again.
func (m *Manager) PushInstallationConfig(ctx context.Context, installationID string) error {
	rec, err := m.store.Get(ctx, installationID)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Wrapf(errors.ErrInstallationNotFound, "%q", installationID)
	}
	if !rec.IsEnabled {
		return nil
	}

	_, conn, err := m.resolve(ctx, rec.AgentID)
	if err != nil {
		return err
	}
	if err := conn.AddServer(rec.ServerID, mcp.CloneConfig(rec.AgentSpecificConfig)); err != nil {
		return errors.Wrapf(err, "writing server %q for agent %q", rec.ServerID, rec.AgentID)
	}

	return nil
}

// Installations returns every installation record.
func (m *Manager) Installations(ctx context.Context) ([]*mcp.ServerInstallation, error) {
	return m.store.All(ctx)
}

// Installation returns the record with the given ID, or nil.
func (m *Manager) Installation(ctx context.Context, installationID string) (*mcp.ServerInstallation, error) {
	return m.store.Get(ctx, installationID)
}

// InstallationsByServer returns all records for a server.
func (m *Manager) InstallationsByServer(ctx context.Context, serverID string) ([]*mcp.ServerInstallation, error) {
	return m.store.ByServer(ctx, serverID)
}

// InstallationsByAgent returns all records for an agent.
func (m *Manager) InstallationsByAgent(ctx context.Context, agentID string) ([]*mcp.ServerInstallation, error) {
	return m.store.ByAgent(ctx, agentID)
}

// FindInstallation returns the record for a (server, agent) pair, or nil.
func (m *Manager) FindInstallation(ctx context.Context, serverID, agentID string) (*mcp.ServerInstallation, error) {
	return m.store.Find(ctx, serverID, agentID)
}

// resolve loads the agent and the connector for its type.
func (m *Manager) resolve(ctx context.Context, agentID string) (*mcp.Agent, connector.Connector, error) {
	agent, err := m.agents.GetAgent(ctx, agentID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "resolving agent %q", agentID)
	}
	if agent == nil {
		return nil, nil, errors.Wrapf(errors.ErrAgentNotFound, "%q", agentID)
	}

	conn, ok := m.connectors.ForType(agent.Type)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrConnectorNotFound, "agent type %q", agent.Type)
	}

	return agent, conn, nil
}
