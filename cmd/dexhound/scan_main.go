package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dexhound/dexhound/internal/application"
	"github.com/dexhound/dexhound/internal/metrics"
)

func newScanCmd() *cobra.Command {
	var force bool
	var limit int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one discovery scan and print the ranked table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc := application.NewService(cfg, metrics.New())

			res, src := svc.GetMarketData(context.Background(), force)
			if res.Empty() {
				fmt.Println("no tokens surfaced; upstream may be unavailable, try again later")
				return nil
			}

			fmt.Printf("source=%s latency=%dms entries=%d\n\n", src, res.Latency.Milliseconds(), len(res.Entries))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tCHAIN\tPRICE\tLIQ\tVOL24H\tFLOW\tSIGNAL\tRISK\tTREND")
			shown := res.Entries
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			for _, e := range shown {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					e.Symbol, e.Chain, e.PriceDisplay, e.LiquidityDisplay,
					e.VolumeDisplay, e.DexFlow, e.Signal, e.RiskLevel, e.Trend)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Bypass the freshness cache")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum rows to print (0 for all)")
	return cmd
}
