package daemon

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/health"
	"github.com/mcpdock/mcpdock/internal/registry"
)

// mapError maps domain errors to HTTP status codes. Errors without an
// explicit case fall through to 500, so new sentinels in internal/errors
// need a case here.
func mapError(log *slog.Logger, err error) huma.StatusError {
	switch {
	case errors.Is(err, errors.ErrServerNotFound),
		errors.Is(err, errors.ErrAgentNotFound),
		errors.Is(err, errors.ErrInstallationNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, errors.ErrInvalidConfig),
		errors.Is(err, errors.ErrMalformedConfig),
		errors.Is(err, errors.ErrConnectorNotFound),
		errors.Is(err, health.ErrNoCommand):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, registry.ErrInvalidRegistry):
		log.Error("registry rejected", "error", err)
		return huma.Error502BadGateway("registry returned an invalid document", err)
	default:
		log.Error("unexpected error", "error", err)
		return huma.Error500InternalServerError("internal server error", err)
	}
}

// errorHandler adapts mapError to Huma's error hook.
func errorHandler(log *slog.Logger) func(huma.Context, int, string, ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		switch len(errs) {
		case 0:
			return huma.NewError(status, msg)
		case 1:
			return mapError(log, errs[0])
		default:
			return mapError(log, errors.Join(errs...))
		}
	}
}
