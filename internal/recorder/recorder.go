package recorder

import (
	"time"

	"SurgeScope/internal/model"
)

// AnalysisRun records one full detection (and optional simulation) pass.
type AnalysisRun struct {
	ID         string // uuid
	Ticker     string
	Mode       string // "buyback", "liquidation", or "analyze"
	PriceUSD   float64
	Supply     float64
	EventCount int
	AvgPH      float64
	AvgPHValid bool // false when zero events were found
	StartedAt  time.Time
}

// Recorder persists analysis history.
type Recorder interface {
	RecordRun(run *AnalysisRun) error
	RecordEvents(runID string, events []model.SurgeEvent) error
	RecordSchedule(runID string, kind model.ScheduleKind, steps []model.BuybackStep) error
	Close() error
}
