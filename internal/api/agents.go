package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// AgentsResponse wraps the agent listing.
type AgentsResponse struct {
	Body []*mcp.Agent
}

// AgentRequest addresses one agent.
type AgentRequest struct {
	ID string `doc:"Agent identifier" example:"claude" path:"id"`
}

// AgentResponse wraps one agent.
type AgentResponse struct {
	Body *mcp.Agent
}

// RegisterAgentRoutes sets up the agent endpoints.
func RegisterAgentRoutes(routerAPI huma.API, deps Dependencies, apiPathPrefix string) {
	agentsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Agents"}

	huma.Register(
		agentsAPI,
		huma.Operation{
			OperationID: "listAgents",
			Method:      http.MethodGet,
			Summary:     "List supported agents",
			Description: "Every agent this build knows about, with live detection state and the servers currently in its config file.",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*AgentsResponse, error) {
			agents, err := deps.Agents.Agents(ctx)
			if err != nil {
				return nil, err
			}
			return &AgentsResponse{Body: agents}, nil
		},
	)

	huma.Register(
		agentsAPI,
		huma.Operation{
			OperationID: "getAgent",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get an agent",
			Tags:        tags,
		},
		func(ctx context.Context, input *AgentRequest) (*AgentResponse, error) {
			agent, err := deps.Agents.GetAgent(ctx, input.ID)
			if err != nil {
				return nil, err
			}
			if agent == nil {
				return nil, errors.Wrapf(errors.ErrAgentNotFound, "%q", input.ID)
			}
			return &AgentResponse{Body: agent}, nil
		},
	)
}
