package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dexhound/dexhound/internal/application"
)

const (
	appName = "dexhound"
	version = "v1.2.0"
)

var configPath string

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "DEX token discovery and signal engine",
		Version: version,
		Long: `dexhound continuously discovers tradable tokens from public DEX market
data, filters out low-quality listings, derives flow and trend signals,
ranks the survivors and serves the result with strict freshness guarantees.

One shared pipeline, three hosts: an HTTP serving process, an always-on
background daemon and a one-shot cron entrypoint all drive the same cached
core.`,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (built-in defaults when empty)")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDaemonCmd())
	rootCmd.AddCommand(newCronCmd())
	rootCmd.AddCommand(newPortfolioCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for every subcommand.
func loadConfig() (*application.Config, error) {
	if configPath == "" {
		return application.Default(), nil
	}
	return application.Load(configPath)
}
