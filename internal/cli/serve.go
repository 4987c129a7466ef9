package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tornado/internal/server"
	"github.com/matzehuels/tornado/pkg/cache"
	"github.com/matzehuels/tornado/pkg/errors"
	"github.com/matzehuels/tornado/pkg/observability"
	"github.com/matzehuels/tornado/pkg/pipeline"
	"github.com/matzehuels/tornado/pkg/session"
)

// Cache backends for the serve command.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

type serveOpts struct {
	addr       string
	backend    string
	redisURL   string
	sessionTTL time.Duration
	maxBody    int64
	hooks      bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:       server.DefaultAddr,
		backend:    backendFile,
		sessionTTL: session.DefaultTTL,
		maxBody:    server.DefaultMaxBodySize,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API over HTTP",
		Long: `Serve the chart API over HTTP.

Endpoints:
  POST   /api/v1/render                      one-shot render
  POST   /api/v1/charts                      create a chart session
  GET    /api/v1/charts/{id}                 current layout
  POST   /api/v1/charts/{id}/click           select a bar (or null to clear)
  PUT    /api/v1/charts/{id}/viewport        resize
  GET    /api/v1/charts/{id}/settings/{obj}  current settings
  GET    /api/v1/charts/{id}/tooltip/{col}   tooltip of one bar
  GET    /api/v1/charts/{id}/render/{fmt}    render svg, png, pdf or json
  DELETE /api/v1/charts/{id}                 drop the session

With --cache redis, layouts, artifacts and sessions are shared through
Redis so several instances can serve the same charts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.backend, "cache", opts.backend, "cache backend: file (default), redis, none")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "redis URL (default: localhost:6379)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "idle session lifetime")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&opts.hooks, "trace", false, "log pipeline, cache and request events")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, runner, err := c.serveBackends(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.hooks {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
		observability.SetChartHooks(hooks)
		defer observability.Reset()
	}

	srv := server.New(server.Config{
		Addr:        opts.addr,
		Runner:      runner,
		Store:       store,
		SessionTTL:  opts.sessionTTL,
		MaxBodySize: opts.maxBody,
		Logger:      c.Logger,
	})

	r := c.report()
	r.info("Serving on %s", StyleHighlight.Render(opts.addr))
	r.detail("cache: %s", opts.backend)
	return srv.ListenAndServe(ctx)
}

// serveBackends builds the session store and the runner for a backend.
func (c *CLI) serveBackends(ctx context.Context, opts serveOpts) (session.Store, *pipeline.Runner, error) {
	switch opts.backend {
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redisURL})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		keyer := cache.NewScopedKeyer(nil, appName+":")
		return session.NewCacheStore(rc, keyer), pipeline.NewRunner(rc, keyer, c.Logger), nil
	case backendFile:
		runner, err := c.newRunner(false)
		if err != nil {
			return nil, nil, err
		}
		return session.NewMemoryStore(), runner, nil
	case backendNone:
		runner, err := c.newRunner(true)
		if err != nil {
			return nil, nil, err
		}
		return session.NewMemoryStore(), runner, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", opts.backend)
}
