package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tlx/internal/server"
	"github.com/desertthunder/tlx/internal/shared"
	"github.com/urfave/cli/v3"
	"gocloud.dev/server/health"
	"gocloud.dev/server/health/sqlhealth"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx, cmd); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	dbCheck := sqlhealth.New(r.db)
	defer dbCheck.Stop()

	checks := &health.Handler{}
	checks.Add(dbCheck)
	checks.Add(r.bucket)

	router := server.NewRouter(server.Deps{
		Catalog:   r.catalog,
		Exporter:  r.engine,
		Archives:  r.bucket,
		Health:    checks,
		Logger:    shared.WithLogger(r.logger, "component", "http"),
		MediaPath: r.config.Export.MediaURL,
		RateLimit: r.config.Server.RateLimit,
		Burst:     r.config.Server.Burst,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx, addr, router, r.logger)
}
