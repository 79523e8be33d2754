package main

import (
	"context"
	"fmt"

	"github.com/Domenick1991/resourcebooking/config"
	"github.com/Domenick1991/resourcebooking/internal/bootstrap"
	"github.com/Domenick1991/resourcebooking/internal/observability"
	"github.com/Domenick1991/resourcebooking/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.Path(*configPath))
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx := context.Background()
			pool, err := bootstrap.OpenPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return repository.Migrate(ctx, pool, logger)
		},
	}
}
