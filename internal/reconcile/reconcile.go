package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mcpdock/mcpdock/internal/agent"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/installation"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// maxParallelAgents bounds the per-agent scan fan-out.
const maxParallelAgents = 4

// Change names one record created or deleted by a pass.
type Change struct {
	AgentID  string `json:"agentId"`
	ServerID string `json:"serverId"`
}

// Report summarizes one reconcile pass.
type Report struct {
	// AgentsScanned counts the detected agents that were compared.
	AgentsScanned int `json:"agentsScanned"`

	// Added lists records created for servers found only in agent files.
	Added []Change `json:"added,omitempty"`

	// Removed lists records deleted because the agent file no longer
	// carries the server.
	Removed []Change `json:"removed,omitempty"`
}

// Reconciler compares agent config files against installation records.
type Reconciler struct {
	agents *agent.Manager
	store  installation.Store

	now   func() time.Time
	newID func() string
}

// New creates a reconciler over the agent manager and the record store.
func New(agents *agent.Manager, store installation.Store) *Reconciler {
	return &Reconciler{
		agents: agents,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Run performs one reconcile pass over all detected agents. Agents are
// scanned in parallel; the first scan error cancels the pass. Records
// created for hand-added servers carry no override, so they follow the
// server's global configuration.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	agents, err := r.agents.DetectedAgents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing agents")
	}

	report := &Report{AgentsScanned: len(agents)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelAgents)

	for _, ag := range agents {
		g.Go(func() error {
			added, removed, err := r.reconcileAgent(ctx, ag)
			if err != nil {
				return errors.Wrapf(err, "agent %q", ag.ID)
			}
			mu.Lock()
			report.Added = append(report.Added, added...)
			report.Removed = append(report.Removed, removed...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortChanges(report.Added)
	sortChanges(report.Removed)

	logging.FromContext(ctx).Info("reconcile pass complete",
		"agents", report.AgentsScanned,
		"added", len(report.Added), "removed", len(report.Removed))

	return report, nil
}

func (r *Reconciler) reconcileAgent(ctx context.Context, ag *mcp.Agent) ([]Change, []Change, error) {
	records, err := r.store.ByAgent(ctx, ag.ID)
	if err != nil {
		return nil, nil, err
	}

	inFile := make(map[string]bool, len(ag.ConfiguredServerIDs))
	for _, id := range ag.ConfiguredServerIDs {
		inFile[id] = true
	}
	recorded := make(map[string]*mcp.ServerInstallation, len(records))
	for _, rec := range records {
		recorded[rec.ServerID] = rec
	}

	var added, removed []Change

	for serverID := range inFile {
		if recorded[serverID] != nil {
			continue
		}
		rec := &mcp.ServerInstallation{
			ID:          r.newID(),
			ServerID:    serverID,
			AgentID:     ag.ID,
			IsEnabled:   true,
			InstalledAt: r.now(),
		}
		if err := r.store.Add(ctx, rec); err != nil {
			return nil, nil, errors.Wrapf(err, "recording server %q", serverID)
		}
		added = append(added, Change{AgentID: ag.ID, ServerID: serverID})
	}

	for serverID, rec := range recorded {
		if inFile[serverID] {
			continue
		}
		if _, err := r.store.Delete(ctx, rec.ID); err != nil {
			return nil, nil, errors.Wrapf(err, "dropping record for server %q", serverID)
		}
		removed = append(removed, Change{AgentID: ag.ID, ServerID: serverID})
	}

	return added, removed, nil
}

func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].AgentID != changes[j].AgentID {
			return changes[i].AgentID < changes[j].AgentID
		}
		return changes[i].ServerID < changes[j].ServerID
	})
}
