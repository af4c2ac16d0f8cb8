package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"SurgeScope/internal/analysis"
	"SurgeScope/internal/collector"
	"SurgeScope/internal/model"
	"SurgeScope/internal/notifier"
	"SurgeScope/internal/recorder"
)

// Watcher periodically re-fetches market data, re-runs surge detection,
// and alerts on events that have not been seen before.
type Watcher struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	State     *StateStore
	Ticker    string
	Detector  analysis.DetectorConfig
	Ctx       context.Context
}

// NewWatcher creates a Watcher.
func NewWatcher(ctx context.Context, col *collector.Collector, rec recorder.Recorder,
	tn *notifier.TelegramNotifier, st *StateStore, ticker string, cfg analysis.DetectorConfig) *Watcher {
	return &Watcher{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Recorder:  rec,
		Notifier:  tn,
		State:     st,
		Ticker:    ticker,
		Detector:  cfg,
		Ctx:       ctx,
	}
}

// Register schedules the watch tick on the given cron spec.
func (w *Watcher) Register(cronSpec string) error {
	if _, err := w.Cron.AddFunc(cronSpec, w.tick); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Info().Str("ticker", w.Ticker).Msg("watcher started")
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Info().Msg("watcher stopped")
}

// RunNow executes a watch tick immediately (manual trigger / RUN_ON_START).
func (w *Watcher) RunNow() {
	w.tick()
}

func (w *Watcher) tick() {
	ctx, cancel := context.WithTimeout(w.Ctx, 5*time.Minute)
	defer cancel()

	snap, err := w.Collector.Collect(ctx, w.Ticker)
	if err != nil {
		log.Error().Err(err).Str("ticker", w.Ticker).Msg("watch collect failed")
		return
	}

	var (
		pooled model.SurgeReport
		events []model.SurgeEvent
	)
	for exchange, series := range snap.Series {
		report, found, err := analysis.Detect(series, w.Detector)
		if err != nil {
			log.Error().Err(err).Str("exchange", exchange).Msg("watch detect failed")
			continue
		}
		for i := range found {
			found[i].Exchange = exchange
		}
		pooled = pooled.Merge(report)
		events = append(events, found...)
	}

	byKey := make(map[string]model.SurgeEvent, len(events))
	keys := make(map[string]string, len(events))
	for _, ev := range events {
		key := fmt.Sprintf("%s|%s", ev.Exchange, ev.TriggerDate.Format("2006-01-02"))
		byKey[key] = ev
		keys[key] = string(ev.Kind)
	}
	fresh, err := w.State.MarkSeen(keys)
	if err != nil {
		log.Error().Err(err).Msg("persist watch state failed")
	}

	run := &recorder.AnalysisRun{
		ID:         uuid.NewString(),
		Ticker:     w.Ticker,
		Mode:       "watch",
		PriceUSD:   snap.Info.PriceUSD,
		Supply:     snap.Info.CirculatingSupply,
		EventCount: pooled.EventCount,
		StartedAt:  snap.FetchedAt,
	}
	run.AvgPH, run.AvgPHValid = pooled.AveragePH()
	if err := w.Recorder.RecordRun(run); err != nil {
		log.Error().Err(err).Msg("record watch run failed")
	}
	if err := w.Recorder.RecordEvents(run.ID, events); err != nil {
		log.Error().Err(err).Msg("record watch events failed")
	}

	if len(fresh) == 0 {
		log.Info().Int("events", pooled.EventCount).Msg("watch tick: nothing new")
		return
	}

	alert := make([]model.SurgeEvent, 0, len(fresh))
	for _, key := range fresh {
		alert = append(alert, byKey[key])
	}
	msg := notifier.FormatSurgeAlert(w.Ticker, snap.Info, alert)
	if err := w.Notifier.SendWithRetry(ctx, msg, 3); err != nil {
		log.Error().Err(err).Msg("send watch alert failed")
		return
	}
	log.Info().Int("new_events", len(alert)).Msg("watch alert sent")
}
