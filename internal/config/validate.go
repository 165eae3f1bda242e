package config

import (
	"path/filepath"
	"strings"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not supported.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidAgent indicates an unrecognized agent identifier.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidAddr indicates the daemon address is not host:port.
	ErrInvalidAddr = errors.New("invalid daemon address")
)

// Validate checks a Config for validity. Returns nil when valid, or one
// error per violation.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	for _, agent := range cfg.DefaultAgents {
		if !paths.ValidAgent(agent) {
			errs = append(errs, errors.Wrapf(ErrInvalidAgent, "default agent %q", agent))
		}
	}

	for id, override := range cfg.Agents {
		if !paths.ValidAgent(id) {
			errs = append(errs, errors.Wrapf(ErrInvalidAgent, "agent override %q", id))
		}
		if err := validatePath(override.ConfigPath); err != nil {
			errs = append(errs, errors.Wrapf(err, "agent %q config_path", id))
		}
	}

	if err := validatePath(cfg.DataDir); err != nil {
		errs = append(errs, errors.Wrap(err, "data_dir"))
	}

	if cfg.Daemon.Addr != "" {
		if _, _, found := strings.Cut(cfg.Daemon.Addr, ":"); !found {
			errs = append(errs, errors.Wrapf(ErrInvalidAddr, "%q", cfg.Daemon.Addr))
		}
	}

	if cfg.Registry.TTL < 0 {
		errs = append(errs, errors.New("registry ttl cannot be negative"))
	}

	return errs
}

// validatePath checks that a path string is well-formed. It does not
// check existence. Empty paths mean "use default" and are valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}
