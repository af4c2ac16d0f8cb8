package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SurgeScope/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bar(n int, open, high, low, close, volume float64) model.DailyBar {
	return model.DailyBar{Date: day(n), Open: open, High: high, Low: low, Close: close, Volume: volume}
}

func flatBar(n int, price float64) model.DailyBar {
	return bar(n, price, price*1.01, price*0.99, price, 1000)
}

func TestDetect_SurgeWithFullWindow(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 180, 95, 150, 5000), // high/open = 1.8
		bar(1, 150, 155, 88, 90, 2000),
		bar(2, 90, 92, 80, 85, 1500),
		bar(3, 85, 96, 84, 95, 1200),
		bar(4, 95, 102, 94, 100, 1100),
		bar(5, 100, 101, 99, 100, 1000),
	}

	report, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, model.EventSurge, ev.Kind)
	assert.Equal(t, day(0), ev.TriggerDate)
	assert.Len(t, ev.Window, 5)
	assert.Equal(t, day(4), ev.Window[4].Date)
	assert.Equal(t, 5000.0, ev.PHVolume)
	// Lowest close in the window is 85: 100*(100-85)/100.
	assert.InDelta(t, 15.0, ev.PHPercentage, 1e-9)

	avg, ok := report.AveragePH()
	require.True(t, ok)
	assert.InDelta(t, 15.0, avg, 1e-9)
}

func TestDetect_EveryEventSatisfiesThreshold(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 174, 90, 120, 100), // 1.74, below threshold
		bar(1, 100, 175, 90, 120, 200), // exactly 1.75
		flatBar(2, 120),
		bar(3, 100, 300, 90, 200, 400), // 3.0
		flatBar(4, 200),
	}

	_, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		trigger := ev.Window[0]
		assert.GreaterOrEqual(t, trigger.High/trigger.Open, 1.75)
	}
}

func TestDetect_TruncatedTailWindow(t *testing.T) {
	series := []model.DailyBar{
		flatBar(0, 100),
		bar(1, 100, 200, 95, 180, 9000),
		bar(2, 180, 185, 60, 70, 3000),
	}

	report, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Only the trigger day and one following day exist.
	assert.Len(t, events[0].Window, 2)
	assert.InDelta(t, 30.0, events[0].PHPercentage, 1e-9)

	// Truncated windows still count toward the aggregate.
	assert.Equal(t, 1, report.EventCount)
}

func TestDetect_SingleBarWindow(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 190, 70, 80, 500),
	}

	_, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)
	// No subsequent days: the metric falls back to the trigger day's close.
	assert.InDelta(t, 20.0, events[0].PHPercentage, 1e-9)
}

func TestDetect_NoDeclineScoresZero(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 180, 100, 150, 500),
		flatBar(1, 160),
		flatBar(2, 170),
	}

	_, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 0.0, events[0].PHPercentage)
}

func TestDetect_NoEventsAbsentAverage(t *testing.T) {
	series := []model.DailyBar{
		flatBar(0, 100),
		flatBar(1, 101),
		flatBar(2, 102),
	}

	report, events, err := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err)
	assert.Empty(t, events)

	_, ok := report.AveragePH()
	assert.False(t, ok, "average must be absent, not zero")
}

func TestDetect_EmptySeries(t *testing.T) {
	report, events, err := Detect(nil, DefaultDetectorConfig())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, report.EventCount)
}

func TestDetect_ZeroOpenRejected(t *testing.T) {
	series := []model.DailyBar{
		flatBar(0, 100),
		bar(1, 0, 10, 0, 5, 100),
	}

	_, _, err := Detect(series, DefaultDetectorConfig())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, day(1), verr.Date)
}

func TestDetect_Idempotent(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 180, 95, 150, 5000),
		bar(1, 150, 155, 88, 90, 2000),
		flatBar(2, 90),
	}

	r1, e1, err1 := Detect(series, DefaultDetectorConfig())
	r2, e2, err2 := Detect(series, DefaultDetectorConfig())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, e1, e2)
}

func TestDetect_CustomThreshold(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.SurgeRatio = 1.25

	series := []model.DailyBar{
		bar(0, 100, 130, 90, 110, 700), // 1.3, qualifies at the lower bar
		flatBar(1, 110),
	}

	_, events, err := Detect(series, cfg)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDetectSelloffs(t *testing.T) {
	series := []model.DailyBar{
		flatBar(0, 100),
		bar(1, 100, 105, 40, 50, 8000), // low/open = 0.4
		bar(2, 50, 80, 48, 75, 3000),
		flatBar(3, 70),
		flatBar(4, 72),
		flatBar(5, 71),
	}

	report, events, err := DetectSelloffs(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, model.EventSelloff, ev.Kind)
	assert.Equal(t, day(1), ev.TriggerDate)
	assert.Equal(t, 8000.0, ev.PHVolume)
	// Highest close in the window is 75, but it never recovers above the
	// 100 open, so the rebound clamps at zero.
	assert.Equal(t, 0.0, ev.PHPercentage)

	avg, ok := report.AveragePH()
	require.True(t, ok)
	assert.Equal(t, 0.0, avg)
}

func TestDetectSelloffs_Rebound(t *testing.T) {
	series := []model.DailyBar{
		bar(0, 100, 105, 30, 40, 8000),
		bar(1, 40, 130, 38, 120, 6000),
		flatBar(2, 110),
	}

	_, events, err := DetectSelloffs(series, DefaultDetectorConfig())
	require.NoError(t, err)
	require.Len(t, events, 1)
	// Highest close 120 against the 100 open.
	assert.InDelta(t, 20.0, events[0].PHPercentage, 1e-9)
}

func TestSurgeReport_Merge(t *testing.T) {
	a := model.SurgeReport{EventCount: 2, TotalPH: 30}
	b := model.SurgeReport{EventCount: 1, TotalPH: 15}

	merged := a.Merge(b)
	assert.Equal(t, 3, merged.EventCount)

	avg, ok := merged.AveragePH()
	require.True(t, ok)
	assert.InDelta(t, 15.0, avg, 1e-9)

	// Merging is order-independent.
	assert.Equal(t, merged, b.Merge(a))
}
