package analysis

import (
	"math"

	"SurgeScope/internal/model"
)

// DetectorConfig holds the thresholds for event detection. Thresholds are
// passed explicitly so the detector carries no process-wide state.
type DetectorConfig struct {
	// SurgeRatio is the minimum high/open ratio for a day to qualify as a
	// surge. 1.75 means the intraday high must be at least 75% above open.
	SurgeRatio float64
	// SelloffRatio is the maximum low/open ratio for a day to qualify as a
	// sell-off. 0.50 means the intraday low dipped at least 50% below open.
	SelloffRatio float64
	// WindowDays is the observation window width, trigger day included.
	WindowDays int
}

// DefaultDetectorConfig returns the standard thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SurgeRatio:   1.75,
		SelloffRatio: 0.50,
		WindowDays:   5,
	}
}

func (c DetectorConfig) windowDays() int {
	if c.WindowDays <= 0 {
		return 5
	}
	return c.WindowDays
}

// Detect scans an ascending daily series for surge days and extracts an
// observation window per event. An empty series yields an empty report and
// no error. Windows truncated by the end of the series are still emitted
// and count toward the aggregate, so the most recent surges are not
// underrepresented.
func Detect(series []model.DailyBar, cfg DetectorConfig) (model.SurgeReport, []model.SurgeEvent, error) {
	return scan(series, cfg, model.EventSurge)
}

// DetectSelloffs is the mirror of Detect for anomalous single-day dumps:
// a day qualifies when its intraday low is at or below SelloffRatio times
// its open, and the event metric is the percentage rebound from the open
// to the highest close inside the window.
func DetectSelloffs(series []model.DailyBar, cfg DetectorConfig) (model.SurgeReport, []model.SurgeEvent, error) {
	return scan(series, cfg, model.EventSelloff)
}

func scan(series []model.DailyBar, cfg DetectorConfig, kind model.EventKind) (model.SurgeReport, []model.SurgeEvent, error) {
	for _, b := range series {
		if b.Open <= 0 {
			return model.SurgeReport{}, nil, &ValidationError{Date: b.Date, Reason: "open price must be positive"}
		}
	}

	var (
		report model.SurgeReport
		events []model.SurgeEvent
	)
	width := cfg.windowDays()

	for i, b := range series {
		if !qualifies(b, cfg, kind) {
			continue
		}
		end := i + width
		if end > len(series) {
			end = len(series)
		}
		window := series[i:end:end]

		ev := model.SurgeEvent{
			Kind:         kind,
			TriggerDate:  b.Date,
			PHVolume:     b.Volume,
			PHPercentage: phPercentage(b.Open, window, kind),
			Window:       window,
		}
		events = append(events, ev)
		report.EventCount++
		report.TotalPH += ev.PHPercentage
	}
	return report, events, nil
}

func qualifies(b model.DailyBar, cfg DetectorConfig, kind model.EventKind) bool {
	switch kind {
	case model.EventSelloff:
		return b.Low/b.Open <= cfg.SelloffRatio
	default:
		return b.High/b.Open >= cfg.SurgeRatio
	}
}

// phPercentage measures how much of the move was given back inside the
// window: for surges, the decline from the trigger day's open to the
// lowest close; for sell-offs, the rebound from the open to the highest
// close. Windows that never cross back over the open score zero.
func phPercentage(open float64, window []model.DailyBar, kind model.EventKind) float64 {
	if kind == model.EventSelloff {
		high := math.Inf(-1)
		for _, b := range window {
			if b.Close > high {
				high = b.Close
			}
		}
		pct := 100 * (high - open) / open
		if pct < 0 {
			return 0
		}
		return pct
	}

	low := math.Inf(1)
	for _, b := range window {
		if b.Close < low {
			low = b.Close
		}
	}
	pct := 100 * (open - low) / open
	if pct < 0 {
		return 0
	}
	return pct
}
