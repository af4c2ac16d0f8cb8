package model

import "time"

// EventKind indicates what kind of anomaly triggered an event.
type EventKind string

const (
	EventSurge   EventKind = "SURGE"
	EventSelloff EventKind = "SELLOFF"
)

// SurgeEvent is one qualifying day together with its observation window.
// The window starts at the trigger day and covers the following days, up
// to the configured width; it is truncated at the end of the series.
type SurgeEvent struct {
	Kind         EventKind
	Exchange     string
	TriggerDate  time.Time
	PHPercentage float64
	PHVolume     float64
	Window       []DailyBar
}

// SurgeReport aggregates events from one or more series. The fields are a
// plain sum/count pair so reports from independently analyzed series can be
// merged in any order.
type SurgeReport struct {
	EventCount int
	TotalPH    float64
}

// AveragePH returns the mean paper-hands percentage across all events.
// The second return value is false when no events exist; callers must not
// substitute zero for an absent average.
func (r SurgeReport) AveragePH() (float64, bool) {
	if r.EventCount == 0 {
		return 0, false
	}
	return r.TotalPH / float64(r.EventCount), true
}

// Merge combines two reports into one.
func (r SurgeReport) Merge(other SurgeReport) SurgeReport {
	return SurgeReport{
		EventCount: r.EventCount + other.EventCount,
		TotalPH:    r.TotalPH + other.TotalPH,
	}
}
