package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// ServersResponse wraps the catalog listing.
type ServersResponse struct {
	Body []*mcp.Server
}

// ServerRequest addresses one catalog entry.
type ServerRequest struct {
	ID string `doc:"Server identifier" example:"github" path:"id"`
}

// ServerResponse wraps one catalog entry.
type ServerResponse struct {
	Body *mcp.Server
}

// AddServerRequest adds a server to the catalog.
type AddServerRequest struct {
	Body struct {
		ID            string            `doc:"Server identifier"             example:"github"     json:"id"`
		Name          string            `doc:"Human-readable name"           example:"GitHub MCP" json:"name"`
		Description   string            `doc:"What the server provides"      json:"description,omitempty"`
		Configuration map[string]string `doc:"Global configuration defaults" json:"configuration,omitempty"`
	}
}

// UpdateConfigurationRequest replaces a server's global configuration.
type UpdateConfigurationRequest struct {
	ID   string `doc:"Server identifier" example:"github" path:"id"`
	Body struct {
		Configuration map[string]string `doc:"New global configuration" json:"configuration"`
	}
}

// UpdateConfigurationResponse reports which installations followed.
type UpdateConfigurationResponse struct {
	Body struct {
		UpdatedInstallations []string `doc:"IDs of the installation records rewritten to the new value" json:"updatedInstallations"`
	}
}

// ServerHealthResponse wraps one probe outcome.
type ServerHealthResponse struct {
	Body *health.Status
}

// RegisterServerRoutes sets up the catalog endpoints.
func RegisterServerRoutes(routerAPI huma.API, deps Dependencies, apiPathPrefix string) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List catalog servers",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServersResponse, error) {
			return handleListServers(ctx, deps)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServer",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get a catalog server",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerRequest) (*ServerResponse, error) {
			return handleGetServer(ctx, deps, input.ID)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID:   "addServer",
			Method:        http.MethodPost,
			Summary:       "Add a server to the catalog",
			DefaultStatus: http.StatusCreated,
			Tags:          tags,
		},
		func(ctx context.Context, input *AddServerRequest) (*ServerResponse, error) {
			return handleAddServer(ctx, deps, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "removeServer",
			Method:      http.MethodDelete,
			Path:        "/{id}",
			Summary:     "Remove a server from the catalog",
			Tags:        tags,
		},
		func(ctx context.Context, input *ServerRequest) (*struct{}, error) {
			return handleRemoveServer(ctx, deps, input.ID)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "updateServerConfiguration",
			Method:      http.MethodPut,
			Path:        "/{id}/configuration",
			Summary:     "Replace a server's global configuration",
			Description: "Installations still tracking the previous global value follow the change; diverged installations keep their override.",
			Tags:        tags,
		},
		func(ctx context.Context, input *UpdateConfigurationRequest) (*UpdateConfigurationResponse, error) {
			return handleUpdateConfiguration(ctx, deps, input)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "probeServer",
			Method:      http.MethodPost,
			Path:        "/{id}/health",
			Summary:     "Probe a server over the MCP protocol",
			Tags:        append(tags, "Health"),
		},
		func(ctx context.Context, input *ServerRequest) (*ServerHealthResponse, error) {
			return handleProbeServer(ctx, deps, input.ID)
		},
	)
}

func handleListServers(ctx context.Context, deps Dependencies) (*ServersResponse, error) {
	servers, err := deps.Servers.Store().All(ctx)
	if err != nil {
		return nil, err
	}
	return &ServersResponse{Body: servers}, nil
}

func handleGetServer(ctx context.Context, deps Dependencies, id string) (*ServerResponse, error) {
	srv, err := deps.Servers.Store().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		return nil, errors.Wrapf(errors.ErrServerNotFound, "%q", id)
	}
	return &ServerResponse{Body: srv}, nil
}

func handleAddServer(ctx context.Context, deps Dependencies, input *AddServerRequest) (*ServerResponse, error) {
	srv := &mcp.Server{
		ID:            input.Body.ID,
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		Configuration: input.Body.Configuration,
	}
	if err := deps.Servers.Store().Add(ctx, srv); err != nil {
		return nil, err
	}
	return handleGetServer(ctx, deps, srv.ID)
}

func handleRemoveServer(ctx context.Context, deps Dependencies, id string) (*struct{}, error) {
	ok, err := deps.Servers.Store().Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrServerNotFound, "%q", id)
	}
	return &struct{}{}, nil
}

func handleUpdateConfiguration(ctx context.Context, deps Dependencies, input *UpdateConfigurationRequest) (*UpdateConfigurationResponse, error) {
	updated, err := deps.Servers.UpdateConfiguration(ctx, input.ID, input.Body.Configuration)
	if err != nil {
		return nil, err
	}

	resp := &UpdateConfigurationResponse{}
	resp.Body.UpdatedInstallations = updated
	if resp.Body.UpdatedInstallations == nil {
		resp.Body.UpdatedInstallations = []string{}
	}

	return resp, nil
}

func handleProbeServer(ctx context.Context, deps Dependencies, id string) (*ServerHealthResponse, error) {
	srv, err := deps.Servers.Store().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		return nil, errors.Wrapf(errors.ErrServerNotFound, "%q", id)
	}

	status, err := deps.Prober.Probe(ctx, srv.ID, srv.Configuration)
	if err != nil {
		return nil, err
	}

	return &ServerHealthResponse{Body: status}, nil
}
