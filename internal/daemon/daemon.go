// Package daemon hosts the HTTP API and the background reconcile loop.
package daemon

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/mcpdock/mcpdock/internal/api"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Options configures the daemon.
type Options struct {
	// Addr is the listen address, host:port.
	Addr string

	// CORSOrigins enables CORS for the given origins when non-empty.
	CORSOrigins []string

	// Watch runs the reconcile watcher alongside the API.
	Watch bool

	// Version is reported in the OpenAPI document.
	Version string
}

// Daemon serves the API until its context is canceled.
type Daemon struct {
	deps api.Dependencies
	opts Options
	log  *slog.Logger
}

// New creates a daemon. The dependencies must be fully populated.
func New(deps api.Dependencies, opts Options, log *slog.Logger) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid daemon dependencies")
	}
	if opts.Addr == "" {
		return nil, errors.New("daemon address is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Daemon{deps: deps, opts: opts, log: log}, nil
}

// Run starts the HTTP server (and the reconcile watcher when enabled) and
// blocks until ctx is canceled or a component fails.
func (d *Daemon) Run(ctx context.Context) error {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	if len(d.opts.CORSOrigins) > 0 {
		d.applyCORS(mux)
	}

	version := d.opts.Version
	if version == "" {
		version = "dev"
	}
	router := humachi.New(mux, huma.DefaultConfig("mcpdock API", version))
	huma.NewErrorWithContext = errorHandler(d.log)

	prefix, err := api.RegisterRoutes(router, d.deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              d.opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	ctx = logging.NewContext(ctx, d.log)

	g.Go(func() error {
		d.log.Info("API listening", "addr", d.opts.Addr, "prefix", prefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "API server")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		d.log.Info("shutting down API")
		return srv.Shutdown(shutdownCtx)
	})

	if d.opts.Watch {
		g.Go(func() error {
			if err := d.deps.Reconciler.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "reconcile watcher")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (d *Daemon) applyCORS(mux *chi.Mux) {
	options := cors.Options{
		AllowedOrigins:   d.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	for i, origin := range options.AllowedOrigins {
		if origin == "*" {
			options.AllowedOrigins = []string{"*"}
			options.AllowCredentials = false
			break
		}
		options.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	d.log.Info("CORS enabled", "origins", options.AllowedOrigins)
	mux.Use(cors.Handler(options))
}
