package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SurgeScope/internal/config"
	"SurgeScope/internal/model"
	"SurgeScope/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	var selloffs bool

	cmd := &cobra.Command{
		Use:   "analyze <ticker>",
		Short: "Detect surge events and report the average paper-hands percentage",
		Long: `Fetches daily history for the ticker from every supported exchange
listing it, flags surge days (intraday high at least surge_percent
above open), and reports each event's observation window plus the
pooled average paper-hands percentage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			kind := model.EventSurge
			if selloffs {
				kind = model.EventSelloff
			}
			return runAnalyze(cmd.Context(), cfg, args[0], kind)
		},
	}

	cmd.Flags().BoolVar(&selloffs, "selloffs", false, "Detect sell-off days instead of surge days")
	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, ticker string, kind model.EventKind) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	res, err := runDetection(ctx, cfg, ticker, kind)
	if err != nil {
		return err
	}

	rec := openRecorder(cfg)
	defer rec.Close()
	recordRun(rec, res, ticker, "analyze")

	suffix := "surges.csv"
	if kind == model.EventSelloff {
		suffix = "selloffs.csv"
	}
	path, err := outputPath(cfg, ticker, suffix)
	if err != nil {
		return err
	}
	if err := report.WriteEventsCSV(path, res.Events); err != nil {
		return fmt.Errorf("write events csv: %w", err)
	}
	log.Info().Str("path", path).Int("events", len(res.Events)).Msg("event windows written")

	report.PrintSummary(os.Stdout, res.Snapshot.Info, res.Report, res.Events)
	return nil
}
