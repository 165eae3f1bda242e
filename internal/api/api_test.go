package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/connector/claude"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/reconcile"
	"github.com/mcpdock/mcpdock/internal/registry"
	"github.com/mcpdock/mcpdock/internal/server"
)

// newTestDeps wires real components against temp files, with only the
// claude agent detectable.
func newTestDeps(t *testing.T) Dependencies {
	t.Helper()
	dir := t.TempDir()

	overrides := make(map[string]string)
	for _, id := range paths.Agents() {
		overrides[id] = filepath.Join(dir, id, "config.json")
	}
	claudePath := overrides[paths.AgentClaude]
	if err := os.MkdirAll(filepath.Dir(claudePath), 0o755); err != nil {
		t.Fatal(err)
	}

	connectors := connector.NewRegistry()
	if err := connectors.Register(claude.New(claudePath, filepath.Join(dir, "backups"))); err != nil {
		t.Fatal(err)
	}

	agents := agent.NewManager(connectors, overrides)

	instStore, err := installation.NewFileStore(filepath.Join(dir, "installations.json"))
	if err != nil {
		t.Fatal(err)
	}
	installations := installation.NewManager(instStore, agents, connectors)

	catalog, err := server.NewStore(filepath.Join(dir, "servers.json"))
	if err != nil {
		t.Fatal(err)
	}
	servers := server.NewService(catalog, configuration.NewService(installations), installations)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"servers": [{"id": "github", "name": "GitHub MCP"}]}`))
	}))
	t.Cleanup(remote.Close)

	return Dependencies{
		Servers:       servers,
		Agents:        agents,
		Installations: installations,
		Registry:      registry.NewCache(remote.URL, filepath.Join(dir, "registry.json"), registry.WithHTTPClient(remote.Client())),
		Prober:        health.NewProber(time.Second),
		Reconciler:    reconcile.New(agents, instStore),
	}
}

func TestDependencies_Validate(t *testing.T) {
	deps := newTestDeps(t)
	if err := deps.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	deps.Prober = nil
	if err := deps.Validate(); err == nil {
		t.Error("Validate() must flag a missing dependency")
	}
}

func TestServerHandlers_CRUD(t *testing.T) {
	ctx := t.Context()
	deps := newTestDeps(t)

	add := &AddServerRequest{}
	add.Body.ID = "github"
	add.Body.Name = "GitHub MCP"
	add.Body.Configuration = map[string]string{"command": "npx"}

	created, err := handleAddServer(ctx, deps, add)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !created.Body.IsInstalled {
		t.Error("catalog entries report installed")
	}

	list, err := handleListServers(ctx, deps)
	if err != nil || len(list.Body) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if _, err := handleGetServer(ctx, deps, "ghost"); !errors.Is(err, errors.ErrServerNotFound) {
		t.Errorf("get ghost = %v, want ErrServerNotFound", err)
	}

	if _, err := handleRemoveServer(ctx, deps, "github"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := handleRemoveServer(ctx, deps, "github"); !errors.Is(err, errors.ErrServerNotFound) {
		t.Errorf("second remove = %v, want ErrServerNotFound", err)
	}
}

func TestInstallFlow(t *testing.T) {
	ctx := t.Context()
	deps := newTestDeps(t)

	add := &AddServerRequest{}
	add.Body.ID = "github"
	add.Body.Name = "GitHub MCP"
	add.Body.Configuration = map[string]string{"command": "npx", "apiKey": "k1"}
	if _, err := handleAddServer(ctx, deps, add); err != nil {
		t.Fatalf("add server: %v", err)
	}

	rec, err := deps.Installations.AddServerToAgent(ctx, "github", paths.AgentClaude,
		map[string]string{"command": "npx", "apiKey": "k1"})
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	// Global update propagates to the tracking installation.
	update := &UpdateConfigurationRequest{ID: "github"}
	update.Body.Configuration = map[string]string{"command": "npx", "apiKey": "k2"}
	resp, err := handleUpdateConfiguration(ctx, deps, update)
	if err != nil {
		t.Fatalf("update configuration: %v", err)
	}
	if len(resp.Body.UpdatedInstallations) != 1 || resp.Body.UpdatedInstallations[0] != rec.ID {
		t.Errorf("updated = %v, want [%s]", resp.Body.UpdatedInstallations, rec.ID)
	}

	got, _ := deps.Installations.Installation(ctx, rec.ID)
	if got.AgentSpecificConfig["apiKey"] != "k2" {
		t.Errorf("installation apiKey = %q, want k2", got.AgentSpecificConfig["apiKey"])
	}

	// Listing filters.
	byServer, err := handleListInstallations(ctx, deps, &InstallationsRequest{ServerID: "github"})
	if err != nil || len(byServer.Body) != 1 {
		t.Errorf("by server = %v, %v", byServer, err)
	}
	byOther, err := handleListInstallations(ctx, deps, &InstallationsRequest{AgentID: paths.AgentCodex})
	if err != nil || len(byOther.Body) != 0 {
		t.Errorf("by other agent = %v, %v", byOther, err)
	}
}

func TestRegistrySearchHandlerData(t *testing.T) {
	ctx := t.Context()
	deps := newTestDeps(t)

	servers, err := deps.Registry.Search(ctx, "github")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(servers) != 1 || servers[0].ID != "github" {
		t.Errorf("servers = %v", servers)
	}
}
