package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/mcp"
)

// RegistrySearchRequest filters the registry listing.
type RegistrySearchRequest struct {
	Query   string `doc:"Substring to match against ID, name, description, and tags" example:"github" query:"q"`
	Refresh bool   `doc:"Bypass the cache and refetch the registry"                  query:"refresh"`
}

// RegistryServersResponse wraps registry entries.
type RegistryServersResponse struct {
	Body []*mcp.Server
}

// RegisterRegistryRoutes sets up the registry endpoints.
func RegisterRegistryRoutes(routerAPI huma.API, deps Dependencies, apiPathPrefix string) {
	registryAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Registry"}

	huma.Register(
		registryAPI,
		huma.Operation{
			OperationID: "searchRegistry",
			Method:      http.MethodGet,
			Path:        "/servers",
			Summary:     "Search the server registry",
			Tags:        tags,
		},
		func(ctx context.Context, input *RegistrySearchRequest) (*RegistryServersResponse, error) {
			if input.Refresh {
				if _, err := deps.Registry.Servers(ctx, true); err != nil {
					return nil, err
				}
			}
			servers, err := deps.Registry.Search(ctx, input.Query)
			if err != nil {
				return nil, err
			}
			return &RegistryServersResponse{Body: servers}, nil
		},
	)
}
