package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/shared/server"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/sweeper"
)

const shutdownTimeout = 15 * time.Second

var serveNoSweep bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the orphan sweeper",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoSweep, "no-sweep", false, "do not schedule the orphan blob sweeper")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		telemetry.Info("server.shutdown", nil)
		return srv.Shutdown(shutdownCtx)
	})
	if !serveNoSweep {
		sched := sweeper.NewScheduler(app.Sweeper, cfg.SweepSchedule)
		if err := sched.Start(gctx); err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			sched.Stop()
			return nil
		})
	}

	return g.Wait()
}
