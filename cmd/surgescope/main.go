package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "surgescope"
	version = "v1.1.0"
)

var (
	flagConfig string
	flagDebug  bool
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Version: version,
		Short:   "Surge detection and buyback modeling for traded tokens",
		Long: `SurgeScope ingests daily price/volume history for a token, flags
anomalous single-day surges ("paper-hands" events), and projects a
token-buyback or liquidation schedule informed by the observed
sell-off behavior that followed those surges.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flagDebug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "configs/config.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBuybackCmd())
	rootCmd.AddCommand(newLiquidationCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
