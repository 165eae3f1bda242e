package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/api"
	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/connector/claude"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
	"github.com/mcpdock/mcpdock/internal/paths"
	"github.com/mcpdock/mcpdock/internal/reconcile"
	"github.com/mcpdock/mcpdock/internal/registry"
	"github.com/mcpdock/mcpdock/internal/server"
)

func newTestDeps(t *testing.T) api.Dependencies {
	t.Helper()
	dir := t.TempDir()

	overrides := map[string]string{
		paths.AgentClaude: filepath.Join(dir, "claude_desktop_config.json"),
	}

	connectors := connector.NewRegistry()
	require.NoError(t, connectors.Register(claude.New(overrides[paths.AgentClaude], filepath.Join(dir, "backups"))))

	agents := agent.NewManager(connectors, overrides)

	instStore, err := installation.NewFileStore("")
	require.NoError(t, err)
	installations := installation.NewManager(instStore, agents, connectors)

	catalog, err := server.NewStore(filepath.Join(dir, "servers.json"))
	require.NoError(t, err)
	servers := server.NewService(catalog, configuration.NewService(installations), installations)

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"servers": []}`))
	}))
	t.Cleanup(remote.Close)

	return api.Dependencies{
		Servers:       servers,
		Agents:        agents,
		Installations: installations,
		Registry:      registry.NewCache(remote.URL, filepath.Join(dir, "registry.json"), registry.WithHTTPClient(remote.Client())),
		Prober:        health.NewProber(time.Second),
		Reconciler:    reconcile.New(agents, instStore),
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestNew_Validation(t *testing.T) {
	deps := newTestDeps(t)

	_, err := New(deps, Options{}, logging.NewDiscard())
	require.Error(t, err, "missing addr must be rejected")

	deps.Prober = nil
	_, err = New(deps, Options{Addr: "localhost:0"}, logging.NewDiscard())
	require.Error(t, err, "incomplete dependencies must be rejected")
}

func TestDaemon_ServesAPI(t *testing.T) {
	deps := newTestDeps(t)
	addr := freeAddr(t)

	d, err := New(deps, Options{Addr: addr, Version: "test"}, logging.NewDiscard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Seed the catalog through the service, read it back over HTTP.
	require.NoError(t, deps.Servers.Store().Add(t.Context(), &mcp.Server{
		ID: "github", Name: "GitHub MCP",
		Configuration: map[string]string{"command": "npx"},
	}))

	base := fmt.Sprintf("http://%s/api/v1", addr)
	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get(base + "/servers")
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var servers []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&servers))
	require.Len(t, servers, 1)
	require.Equal(t, "github", servers[0].ID)

	// Unknown servers map to 404 through the error handler.
	missing, err := http.Get(base + "/servers/ghost")
	require.NoError(t, err)
	defer missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down")
	}
}
