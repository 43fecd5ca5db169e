package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/portfolio"
)

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio <chain> <address>",
		Short: "Fetch one wallet portfolio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			router := portfolio.NewRouter(cfg.Portfolio, cfg.Cache.PortfolioTTL(), metrics.New())

			snap, err := router.Fetch(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			if snap.IsSimulated {
				fmt.Fprintln(os.Stderr, "note: provider returned no activity, showing simulated data")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}
