package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dexhound/dexhound/internal/application"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/persistence"
	"github.com/dexhound/dexhound/internal/persistence/postgres"
	"github.com/dexhound/dexhound/internal/scheduler"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the always-on ingestion loop",
		Long:  "Periodically scans through the shared cache and persists the ranked output to postgres and the shared snapshot store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg := metrics.New()
			svc := application.NewService(cfg, reg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.New(svc, openStore(cfg), openSnapshots(cfg),
				cfg.Scan.IntervalDuration(), cfg.Cache.MarketTTL(), reg)
			sched.Run(ctx)
			return nil
		},
	}
}

func newCronCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cron",
		Short: "Run one ingestion tick and exit",
		Long:  "The serverless entrypoint: one scan through the shared cache, persist, exit. Identical pipeline contract as serve and daemon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg := metrics.New()
			svc := application.NewService(cfg, reg)

			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Scan.TimeoutDuration()+10*time.Second)
			defer cancel()

			sched := scheduler.New(svc, openStore(cfg), openSnapshots(cfg),
				cfg.Scan.IntervalDuration(), cfg.Cache.MarketTTL(), reg)
			sched.RunOnce(ctx)
			return nil
		},
	}
}

// openStore returns the postgres entry store, or nil when no DSN is
// configured.
func openStore(cfg *application.Config) persistence.EntryStore {
	if cfg.Postgres.DSN == "" {
		return nil
	}
	store, err := postgres.Connect(cfg.Postgres.DSN, time.Duration(cfg.Postgres.TimeoutSec)*time.Second)
	if err != nil {
		log.Error().Err(err).Msg("postgres unavailable, persistence disabled")
		return nil
	}
	return store
}
