package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	httpctrl "github.com/secmon-lab/riskgrid/pkg/controller/http"
	"github.com/secmon-lab/riskgrid/pkg/service/worker"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var refreshInterval time.Duration
	var datasetFiles []string
	var appCfg config.AppConfig
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("RISKGRID_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "refresh-interval",
			Usage:       "Interval between rebuilds of every project's risk indices",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("RISKGRID_REFRESH_INTERVAL"),
			Destination: &refreshInterval,
		},
		&cli.StringSliceFlag{
			Name:        "dataset",
			Usage:       "Dataset file (TOML) imported before serving, may be repeated",
			Sources:     cli.EnvVars("RISKGRID_DATASET"),
			Destination: &datasetFiles,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if refreshInterval <= 0 {
				return goerr.New("refresh-interval must be positive", goerr.V("interval", refreshInterval))
			}

			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithRiskConfig(riskCfg))

			for _, file := range datasetFiles {
				if err := importDatasetFile(ctx, uc, file); err != nil {
					return err
				}
			}

			refreshWorker := worker.NewGridRefreshWorker(uc.Grid, refreshInterval)
			if err := refreshWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start grid refresh worker")
			}
			defer refreshWorker.Stop()

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Grid, httpctrl.WithRefreshStatus(refreshWorker)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			logging.Default().Info("Starting HTTP server", "addr", addr)

			errCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start HTTP server")
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Shutting down HTTP server", "signal", sig.String())
			case <-ctx.Done():
				logging.Default().Info("Shutting down HTTP server", "reason", "context cancelled")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown HTTP server")
			}

			return nil
		},
	}
}
