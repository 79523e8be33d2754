package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/resourcebooking/api"
	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/bootstrap"
	"github.com/Domenick1991/resourcebooking/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and gRPC health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.Path(*configPath))
			if err != nil {
				return err
			}
			if migrateUp {
				cfg.Storage.RunMigrations = true
			}

			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := bootstrap.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer deps.Close()

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(logger,
				api.NewReservationHandler(deps.ReservationService(), logger),
				api.NewAvailabilityHandler(deps.AvailabilityService(), logger),
			)

			if err := bootstrap.Run(ctx, cfg, router, logger); err != nil {
				logger.Error("server error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations on startup (postgres driver)")
	return cmd
}
