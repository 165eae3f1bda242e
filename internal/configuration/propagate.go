package configuration

import (
	"context"
	"fmt"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// InstallationUpdater is the slice of the installation manager that
// propagation needs: listing a server's installations and replacing one
// installation's override configuration.
type InstallationUpdater interface {
	// InstallationsByServer returns all installation records for a server.
	InstallationsByServer(ctx context.Context, serverID string) ([]*mcp.ServerInstallation, error)

	// UpdateInstallationConfig replaces an installation's override
	// configuration. Returns false when the record does not exist.
	UpdateInstallationConfig(ctx context.Context, installationID string, cfg map[string]string) (bool, error)
}

// Service applies the selective propagation algorithm.
type Service struct {
	installations InstallationUpdater
}

// NewService creates a configuration service over the given installation updater.
func NewService(installations InstallationUpdater) *Service {
	return &Service{installations: installations}
}

// Propagate pushes a global configuration change out to the installations
// of serverID that were tracking the previous global value.
//
// For each installation, the override is compared against oldCfg; only
// exact matches are rewritten to a copy of newCfg. Diverged installations
// are left entirely untouched, even when parts of their config coincide
// with newCfg.
//
// Propagation is not transactional. Per-installation failures do not stop
// the loop: the returned slice lists the IDs that were actually updated,
// and the returned error (if any) joins the individual failures. Callers
// must treat the ID list, not the absence of an error, as the ground
// truth of what changed.
func (s *Service) Propagate(ctx context.Context, serverID string, oldCfg, newCfg map[string]string) ([]string, error) {
	log := logging.FromContext(ctx)

	installations, err := s.installations.InstallationsByServer(ctx, serverID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing installations for server %q", serverID)
	}

	var updated []string
	var failures []error

	for _, inst := range installations {
		if !Equal(inst.AgentSpecificConfig, oldCfg) {
			log.Debug("skipping diverged installation",
				"installation", inst.ID, "agent", inst.AgentID)
			continue
		}

		ok, err := s.installations.UpdateInstallationConfig(ctx, inst.ID, mcp.CloneConfig(newCfg))
		if err != nil {
			failures = append(failures, errors.Wrapf(err, "installation %q", inst.ID))
			continue
		}
		if !ok {
			// Record vanished between the listing and the update.
			failures = append(failures, fmt.Errorf("installation %q no longer exists", inst.ID))
			continue
		}

		updated = append(updated, inst.ID)
		log.Debug("propagated configuration",
			"installation", inst.ID, "agent", inst.AgentID)
	}

	if len(failures) > 0 {
		return updated, errors.Wrapf(errors.Join(failures...),
			"propagating configuration for server %q", serverID)
	}

	log.Info("configuration propagated",
		"server", serverID, "updated", len(updated), "total", len(installations))

	return updated, nil
}
