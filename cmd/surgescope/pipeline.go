package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"SurgeScope/internal/analysis"
	"SurgeScope/internal/collector"
	"SurgeScope/internal/config"
	"SurgeScope/internal/model"
	"SurgeScope/internal/recorder"
)

// detectorConfig converts config percentages to detector ratios: a surge
// percent of 75 means high/open >= 1.75, a sell-off percent of 50 means
// low/open <= 0.50.
func detectorConfig(cfg *config.Config) analysis.DetectorConfig {
	return analysis.DetectorConfig{
		SurgeRatio:   1 + cfg.Analysis.SurgePercent/100,
		SelloffRatio: 1 - cfg.Analysis.SelloffPercent/100,
		WindowDays:   cfg.Analysis.WindowDays,
	}
}

func newCollector(cfg *config.Config) *collector.Collector {
	gecko := collector.NewCoinGeckoClient(cfg.Proxy)
	return collector.NewCollector(gecko, cfg.Data.Exchanges, cfg.Data.Days, cfg.Proxy)
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Msg("create database dir failed, using noop recorder")
			return recorder.NewNoopRecorder()
		}
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return rec
}

// detectionResult is one full collect-and-detect pass over a ticker.
type detectionResult struct {
	Snapshot *model.Snapshot
	Report   model.SurgeReport
	Events   []model.SurgeEvent
}

// runDetection collects all series for the ticker and pools the per-series
// detection results into a single report.
func runDetection(ctx context.Context, cfg *config.Config, ticker string, kind model.EventKind) (*detectionResult, error) {
	col := newCollector(cfg)
	snap, err := col.Collect(ctx, ticker)
	if err != nil {
		return nil, err
	}

	dcfg := detectorConfig(cfg)
	res := &detectionResult{Snapshot: snap}
	for exchange, series := range snap.Series {
		var (
			report model.SurgeReport
			events []model.SurgeEvent
		)
		if kind == model.EventSelloff {
			report, events, err = analysis.DetectSelloffs(series, dcfg)
		} else {
			report, events, err = analysis.Detect(series, dcfg)
		}
		if err != nil {
			return nil, fmt.Errorf("detect on %s: %w", exchange, err)
		}
		for i := range events {
			events[i].Exchange = exchange
		}
		res.Report = res.Report.Merge(report)
		res.Events = append(res.Events, events...)
		log.Info().Str("exchange", exchange).Int("bars", len(series)).
			Int("events", report.EventCount).Msg("series analyzed")
	}
	return res, nil
}

func recordRun(rec recorder.Recorder, res *detectionResult, ticker, mode string) string {
	run := &recorder.AnalysisRun{
		ID:         uuid.NewString(),
		Ticker:     strings.ToUpper(ticker),
		Mode:       mode,
		PriceUSD:   res.Snapshot.Info.PriceUSD,
		Supply:     res.Snapshot.Info.CirculatingSupply,
		EventCount: res.Report.EventCount,
		StartedAt:  time.Now().UTC(),
	}
	run.AvgPH, run.AvgPHValid = res.Report.AveragePH()
	if err := rec.RecordRun(run); err != nil {
		log.Warn().Err(err).Msg("record run failed")
	}
	if err := rec.RecordEvents(run.ID, res.Events); err != nil {
		log.Warn().Err(err).Msg("record events failed")
	}
	return run.ID
}

func outputPath(cfg *config.Config, ticker, suffix string) (string, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s", strings.ToUpper(ticker), suffix)
	return filepath.Join(cfg.Output.Dir, name), nil
}
