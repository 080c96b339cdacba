package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-fastqueue/pkg/logger"
	"github.com/huynhanx03/go-fastqueue/pkg/settings"
	"github.com/huynhanx03/go-fastqueue/pkg/soak"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		workers    int
		ops        int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:           "fastqueue-soak",
		Short:         "Run randomized operations against RingQueue and check it against a reference model",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Soak.Workers = workers
			}
			if cmd.Flags().Changed("ops") {
				cfg.Soak.OpsPerWorker = ops
			}
			if cmd.Flags().Changed("seed") {
				cfg.Soak.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.New(cfg.Logger)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, log)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of independent queues")
	cmd.Flags().IntVarP(&ops, "ops", "n", 0, "operations per worker")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	return cmd
}

func run(ctx context.Context, cfg *settings.Config, log *zap.Logger) error {
	log.Info("soak run starting",
		zap.Int("workers", cfg.Soak.Workers),
		zap.Int("ops_per_worker", cfg.Soak.OpsPerWorker),
		zap.Int64("seed", cfg.Soak.Seed),
	)
	_, err := soak.Run(ctx, cfg.Soak, log)
	return err
}
