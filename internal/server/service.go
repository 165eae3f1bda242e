package server

import (
	"context"
	"strings"

	"github.com/mcpdock/mcpdock/internal/configuration"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
	"github.com/mcpdock/mcpdock/internal/mcp"
)

// ConfigPusher rewrites an installation's entry in its agent's config
// file from the record, after the record's override changed.
type ConfigPusher interface {
	PushInstallationConfig(ctx context.Context, installationID string) error
}

// Service is the catalog's write path that keeps installation records in
// step with global configuration changes.
type Service struct {
	store   *Store
	configs *configuration.Service
	pusher  ConfigPusher
}

// NewService creates a service over the catalog and the propagation service.
// pusher may be nil when agent files are synced elsewhere.
func NewService(store *Store, configs *configuration.Service, pusher ConfigPusher) *Service {
	return &Service{store: store, configs: configs, pusher: pusher}
}

// Store exposes the underlying catalog for read paths.
func (s *Service) Store() *Store {
	return s.store
}

// UpdateConfiguration replaces a server's global configuration and
// propagates the change to the installations that were tracking the
// previous value. It returns the IDs of the installations updated.
//
// The catalog entry is written before propagation starts, so a partial
// propagation failure leaves the catalog on the new value; the returned
// error carries the per-installation failures.
func (s *Service) UpdateConfiguration(ctx context.Context, serverID string, newCfg map[string]string) ([]string, error) {
	srv, err := s.store.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if srv == nil {
		return nil, errors.Wrapf(errors.ErrServerNotFound, "%q", serverID)
	}

	if result := configuration.Validate(newCfg); !result.Valid {
		return nil, errors.Wrap(errors.ErrInvalidConfig, strings.Join(result.Errors, "; "))
	}

	oldCfg := srv.Configuration
	srv.Configuration = mcp.CloneConfig(newCfg)
	ok, err := s.store.Update(ctx, srv)
	if err != nil {
		return nil, errors.Wrap(err, "updating server catalog")
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrServerNotFound, "%q", serverID)
	}

	logging.FromContext(ctx).Debug("global configuration updated",
		"server", serverID, "keys", len(newCfg))

	updated, propErr := s.configs.Propagate(ctx, serverID, oldCfg, newCfg)

	// Updated records get their agent file entries rewritten too. File
	// failures join the propagation error; the record list stays accurate.
	if s.pusher != nil {
		var pushErrs []error
		for _, id := range updated {
			if err := s.pusher.PushInstallationConfig(ctx, id); err != nil {
				pushErrs = append(pushErrs, err)
			}
		}
		if len(pushErrs) > 0 {
			propErr = errors.Join(append([]error{propErr}, pushErrs...)...)
		}
	}

	return updated, propErr
}
