package api

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/reconcile"
	"github.com/mcpdock/mcpdock/internal/registry"
	"github.com/mcpdock/mcpdock/internal/server"
)

// Version is the API version used in the OpenAPI spec and URL paths.
const Version = "v1"

// Dependencies carries the domain services the handlers run against.
type Dependencies struct {
	Servers       *server.Service
	Agents        *agent.Manager
	Installations *installation.Manager
	Registry      *registry.Cache
	Prober        *health.Prober
	Reconciler    *reconcile.Reconciler
}

// Validate reports the first missing dependency.
func (d Dependencies) Validate() error {
	switch {
	case d.Servers == nil:
		return errors.New("server service is required")
	case d.Agents == nil:
		return errors.New("agent manager is required")
	case d.Installations == nil:
		return errors.New("installation manager is required")
	case d.Registry == nil:
		return errors.New("registry cache is required")
	case d.Prober == nil:
		return errors.New("health prober is required")
	case d.Reconciler == nil:
		return errors.New("reconciler is required")
	}
	return nil
}

// RegisterRoutes registers all routes on the provided Huma router and
// returns the path prefix they live under.
func RegisterRoutes(router huma.API, deps Dependencies) (string, error) {
	if err := deps.Validate(); err != nil {
		return "", err
	}

	prefix, err := url.JoinPath("/api", Version)
	if err != nil {
		return "", errors.Wrap(err, "constructing API path prefix")
	}

	v1 := huma.NewGroup(router, prefix)
	RegisterServerRoutes(v1, deps, "/servers")
	RegisterAgentRoutes(v1, deps, "/agents")
	RegisterInstallationRoutes(v1, deps, "/installations")
	RegisterRegistryRoutes(v1, deps, "/registry")
	RegisterSyncRoutes(v1, deps, "/sync")

	return prefix, nil
}
