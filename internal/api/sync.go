package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/reconcile"
)

// SyncResponse wraps a reconcile report.
type SyncResponse struct {
	Body *reconcile.Report
}

// RegisterSyncRoutes sets up the reconcile endpoint.
func RegisterSyncRoutes(routerAPI huma.API, deps Dependencies, apiPathPrefix string) {
	syncAPI := huma.NewGroup(routerAPI, apiPathPrefix)

	huma.Register(
		syncAPI,
		huma.Operation{
			OperationID: "sync",
			Method:      http.MethodPost,
			Summary:     "Reconcile records with agent config files",
			Description: "Scans every detected agent and repairs drift in both directions: hand-added servers get records, hand-removed servers lose them.",
			Tags:        []string{"Sync"},
		},
		func(ctx context.Context, _ *struct{}) (*SyncResponse, error) {
			report, err := deps.Reconciler.Run(ctx)
			if err != nil {
				return nil, err
			}
			return &SyncResponse{Body: report}, nil
		},
	)
}
