package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SurgeScope/internal/config"
	"SurgeScope/internal/notifier"
	"SurgeScope/internal/scheduler"
)

func newWatchCmd() *cobra.Command {
	var cronSpec string
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "watch <ticker>",
		Short: "Watch a ticker on a schedule and alert on new surge events",
		Long: `Runs surge detection periodically on a cron schedule. Newly observed
events are sent to the configured Telegram chat and recorded; events
already alerted are remembered across restarts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if err := cfg.ValidateWatch(); err != nil {
				return err
			}
			if cronSpec != "" {
				cfg.Watch.Cron = cronSpec
			}
			return runWatch(cmd.Context(), cfg, args[0], runOnStart)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "Cron spec override (6 fields, with seconds)")
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Execute one tick immediately on startup")
	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, ticker string, runOnStart bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	col := newCollector(cfg)
	rec := openRecorder(cfg)
	defer rec.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	statePath := filepath.Join(cfg.Output.Dir, strings.ToUpper(ticker)+"_watch_state.json")
	st, err := scheduler.NewStateStore(statePath, strings.ToLower(ticker))
	if err != nil {
		return err
	}

	w := scheduler.NewWatcher(ctx, col, rec, tn, st, strings.ToLower(ticker), detectorConfig(cfg))
	if err := w.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	if runOnStart {
		log.Info().Msg("run-on-start enabled, executing watch tick now")
		go w.RunNow()
	}

	log.Info().Str("ticker", strings.ToUpper(ticker)).Str("cron", cfg.Watch.Cron).
		Msg("watching; press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	cancel()
	return nil
}
