package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dexhound/dexhound/internal/application"
	httpapi "github.com/dexhound/dexhound/internal/interfaces/http"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/persistence"
	redisstore "github.com/dexhound/dexhound/internal/persistence/redis"
	"github.com/dexhound/dexhound/internal/portfolio"
	"github.com/dexhound/dexhound/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	var poll bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API",
		Long:  "Serves market data, token details and portfolio endpoints, optionally polling the pipeline in-process so responses stay warm.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg := metrics.New()
			svc := application.NewService(cfg, reg)
			router := portfolio.NewRouter(cfg.Portfolio, cfg.Cache.PortfolioTTL(), reg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Seed the in-process cache from the shared snapshot so a fresh
			// host serves cached data before its first scan completes.
			if snaps := openSnapshots(cfg); snaps != nil {
				if res, ok, err := snaps.Load(ctx); err != nil {
					log.Warn().Err(err).Msg("snapshot load failed")
				} else if ok {
					svc.Cache().Seed(res, cfg.Cache.MarketTTL())
					log.Info().Str("run_id", res.RunID).Msg("cache seeded from snapshot")
				}
			}

			if poll {
				sched := scheduler.New(svc, nil, nil, cfg.Scan.IntervalDuration(), cfg.Cache.MarketTTL(), reg)
				go sched.Run(ctx)
			}

			server := httpapi.NewServer(httpapi.ServerConfig{
				Host: cfg.Server.Host,
				Port: cfg.Server.Port,
			}, svc, router, reg.Handler())

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			log.Info().Msg("shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&poll, "poll", true, "Poll the pipeline in-process at the configured interval")
	return cmd
}

// openSnapshots returns the shared snapshot store, or nil when no redis
// address is configured.
func openSnapshots(cfg *application.Config) persistence.SnapshotStore {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	return redisstore.NewSnapshotStore(client, cfg.Redis.Key)
}
