package commands

import (
	"path/filepath"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/api"
	"github.com/mcpdock/mcpdock/internal/config"
	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/connector/claude"
	"github.com/mcpdock/mcpdock/internal/connector/claudecode"
	"github.com/mcpdock/mcpdock/internal/connector/codex"
	"github.com/mcpdock/mcpdock/internal/connector/copilot"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/reconcile"
	"github.com/mcpdock/mcpdock/internal/registry"
	"github.com/mcpdock/mcpdock/internal/server"
)

// app bundles the wired services behind the commands.
type app struct {
	cfg               *config.Config
	agents            *agent.Manager
	installations     *installation.Manager
	installationStore installation.Store
	servers           *server.Service
	registry          *registry.Cache
	reconciler        *reconcile.Reconciler
	prober            *health.Prober
}

// newApp wires every service from the loaded configuration. Connectors
// write backups next to the state files so a bad write is recoverable.
func newApp() (*app, error) {
	cfg := loadedConfig
	if cfg == nil {
		var err error
		config.Init()
		cfg, err = config.Load("")
		if err != nil {
			return nil, errors.NewConfigError(err)
		}
	}

	dataDir := cfg.ResolvedDataDir()
	backupDir := filepath.Join(dataDir, "backups")
	overrides := cfg.AgentPathOverrides()

	pathFor := func(agentID string) string {
		if p := overrides[agentID]; p != "" {
			return p
		}
		return paths.AgentConfigPath(agentID)
	}

	connectors := connector.NewRegistry()
	for _, err := range []error{
		connectors.Register(claude.New(pathFor(paths.AgentClaude), backupDir)),
		connectors.Register(copilot.New(pathFor(paths.AgentCopilot), backupDir)),
		connectors.Register(claudecode.New(pathFor(paths.AgentClaudeCode), backupDir)),
		connectors.Register(codex.New(pathFor(paths.AgentCodex), backupDir)),
	} {
		if err != nil {
			return nil, errors.Wrap(err, "registering connectors")
		}
	}

	agents := agent.NewManager(connectors, overrides)

	store, err := installation.NewFileStore(filepath.Join(dataDir, "installations.json"))
	if err != nil {
		return nil, errors.NewSystemError(err, "Check permissions on "+dataDir)
	}
	installations := installation.NewManager(store, agents, connectors)

	catalog, err := server.NewStore(filepath.Join(dataDir, "servers.json"))
	if err != nil {
		return nil, errors.NewSystemError(err, "Check permissions on "+dataDir)
	}
	servers := server.NewService(catalog, configuration.NewService(installations), installations)

	cache := registry.NewCache(
		cfg.Registry.URL,
		filepath.Join(dataDir, "registry.json"),
		registry.WithTTL(cfg.Registry.TTL),
	)

	return &app{
		cfg:               cfg,
		agents:            agents,
		installations:     installations,
		installationStore: store,
		servers:           servers,
		registry:          cache,
		reconciler:        reconcile.New(agents, store),
		prober:            health.NewProber(0),
	}, nil
}

// apiDependencies adapts the app for the daemon.
func (a *app) apiDependencies() api.Dependencies {
	return api.Dependencies{
		Servers:       a.servers,
		Agents:        a.agents,
		Installations: a.installations,
		Registry:      a.registry,
		Prober:        a.prober,
		Reconciler:    a.reconciler,
	}
}

// targetAgents resolves the --agent flag: named agents when given,
// otherwise the configured defaults filtered to what is detected.
func (a *app) targetAgents(detected []string) []string {
	if len(agentFlag) > 0 {
		return agentFlag
	}

	inDefault := make(map[string]bool, len(a.cfg.DefaultAgents))
	for _, id := range a.cfg.DefaultAgents {
		inDefault[id] = true
	}

	var out []string
	for _, id := range detected {
		if inDefault[id] {
			out = append(out, id)
		}
	}
	return out
}
