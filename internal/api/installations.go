package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// InstallationsRequest filters the installation listing.
type InstallationsRequest struct {
	ServerID string `doc:"Only installations of this server" example:"github" query:"server"`
	AgentID  string `doc:"Only installations for this agent"  example:"claude" query:"agent"`
}

// InstallationsResponse wraps the installation listing.
type InstallationsResponse struct {
	Body []*mcp.ServerInstallation
}

// InstallRequest installs a server for an agent.
type InstallRequest struct {
	Body struct {
		ServerID string            `doc:"Server to install"                         example:"github" json:"serverId"`
		AgentID  string            `doc:"Agent to install for"                      example:"claude" json:"agentId"`
		Config   map[string]string `doc:"Override configuration for this agent"     json:"config,omitempty"`
	}
}

// InstallationResponse wraps one installation record.
type InstallationResponse struct {
	Body *mcp.ServerInstallation
}

// UninstallRequest removes a server from an agent.
type UninstallRequest struct {
	ServerID string `doc:"Server identifier" example:"github" path:"server"`
	AgentID  string `doc:"Agent identifier"  example:"claude" path:"agent"`
}

// ToggleResponse reports the state after a toggle.
type ToggleResponse struct {
	Body struct {
		Enabled bool `doc:"Whether the server is now enabled" json:"enabled"`
	}
}

// OverrideRequest replaces one installation's override configuration.
type OverrideRequest struct {
	ID   string `doc:"Installation record ID" path:"id"`
	Body struct {
		Config map[string]string `doc:"New override configuration" json:"config"`
	}
}

// RegisterInstallationRoutes sets up the installation endpoints.
func RegisterInstallationRoutes(routerAPI huma.API, deps Dependencies, apiPathPrefix string) {
	installAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Installations"}

	huma.Register(
		installAPI,
		huma.Operation{
			OperationID: "listInstallations",
			Method:      http.MethodGet,
			Summary:     "List installation records",
			Tags:        tags,
		},
		func(ctx context.Context, input *InstallationsRequest) (*InstallationsResponse, error) {
			return handleListInstallations(ctx, deps, input)
		},
	)

	huma.Register(
		installAPI,
		huma.Operation{
			OperationID:   "installServer",
			Method:        http.MethodPost,
			Summary:       "Install a server for an agent",
			Description:   "Idempotent: installing an already-installed pair returns the existing record.",
			DefaultStatus: http.StatusCreated,
			Tags:          tags,
		},
		func(ctx context.Context, input *InstallRequest) (*InstallationResponse, error) {
			rec, err := deps.Installations.AddServerToAgent(ctx, input.Body.ServerID, input.Body.AgentID, input.Body.Config)
			if err != nil {
				return nil, err
			}
			return &InstallationResponse{Body: rec}, nil
		},
	)

	huma.Register(
		installAPI,
		huma.Operation{
			OperationID: "uninstallServer",
			Method:      http.MethodDelete,
			Path:        "/{server}/{agent}",
			Summary:     "Remove a server from an agent",
			Tags:        tags,
		},
		func(ctx context.Context, input *UninstallRequest) (*struct{}, error) {
			removed, err := deps.Installations.RemoveServerFromAgent(ctx, input.ServerID, input.AgentID)
			if err != nil {
				return nil, err
			}
			if !removed {
				return nil, errors.Wrapf(errors.ErrInstallationNotFound,
					"server %q on agent %q", input.ServerID, input.AgentID)
			}
			return &struct{}{}, nil
		},
	)

	huma.Register(
		installAPI,
		huma.Operation{
			OperationID: "toggleServer",
			Method:      http.MethodPost,
			Path:        "/{server}/{agent}/toggle",
			Summary:     "Enable or disable a server for an agent",
			Tags:        tags,
		},
		func(ctx context.Context, input *UninstallRequest) (*ToggleResponse, error) {
			enabled, found, err := deps.Installations.ToggleServerEnabled(ctx, input.ServerID, input.AgentID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errors.Wrapf(errors.ErrInstallationNotFound,
					"server %q on agent %q", input.ServerID, input.AgentID)
			}
			resp := &ToggleResponse{}
			resp.Body.Enabled = enabled
			return resp, nil
		},
	)

	huma.Register(
		installAPI,
		huma.Operation{
			OperationID: "updateInstallationConfig",
			Method:      http.MethodPut,
			Path:        "/{id}/config",
			Summary:     "Replace an installation's override configuration",
			Tags:        tags,
		},
		func(ctx context.Context, input *OverrideRequest) (*InstallationResponse, error) {
			ok, err := deps.Installations.UpdateInstallationConfig(ctx, input.ID, input.Body.Config)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Wrapf(errors.ErrInstallationNotFound, "%q", input.ID)
			}
			rec, err := deps.Installations.Installation(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			return &InstallationResponse{Body: rec}, nil
		},
	)
}

func handleListInstallations(ctx context.Context, deps Dependencies, input *InstallationsRequest) (*InstallationsResponse, error) {
	var (
		records []*mcp.ServerInstallation
		err     error
	)
	switch {
	case input.ServerID != "":
		records, err = deps.Installations.InstallationsByServer(ctx, input.ServerID)
	case input.AgentID != "":
		records, err = deps.Installations.InstallationsByAgent(ctx, input.AgentID)
	default:
		records, err = deps.Installations.Installations(ctx)
	}
	if err != nil {
		return nil, err
	}

	if input.ServerID != "" && input.AgentID != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.AgentID == input.AgentID {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return &InstallationsResponse{Body: records}, nil
}
