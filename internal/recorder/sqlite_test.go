package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SurgeScope/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer r.Close()

	runID := uuid.NewString()
	run := &AnalysisRun{
		ID:         runID,
		Ticker:     "FURY",
		Mode:       "buyback",
		PriceUSD:   0.0225,
		Supply:     58345815,
		EventCount: 2,
		AvgPH:      27.5,
		AvgPHValid: true,
		StartedAt:  time.Now().UTC(),
	}
	require.NoError(t, r.RecordRun(run))

	events := []model.SurgeEvent{
		{
			Kind:         model.EventSurge,
			Exchange:     "binance",
			TriggerDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			PHVolume:     5000,
			PHPercentage: 15,
			Window:       make([]model.DailyBar, 5),
		},
	}
	require.NoError(t, r.RecordEvents(runID, events))

	steps := []model.BuybackStep{
		{StepIndex: 0, Price: 1.0, TokensSold: 200, CumulativeTokens: 200, CumulativeUSD: 200},
		{StepIndex: 1, Price: 1.05, TokensSold: 220, CumulativeTokens: 420, CumulativeUSD: 431},
	}
	require.NoError(t, r.RecordSchedule(runID, model.ScheduleBuyback, steps))

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM surge_events WHERE run_id = ?`, runID).Scan(&count))
	assert.Equal(t, 1, count)

	var avgPH float64
	var eventCount int
	require.NoError(t, r.db.QueryRow(
		`SELECT avg_ph, event_count FROM runs WHERE id = ?`, runID).Scan(&avgPH, &eventCount))
	assert.InDelta(t, 27.5, avgPH, 1e-9)
	assert.Equal(t, 2, eventCount)

	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM schedule_steps WHERE run_id = ?`, runID).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteRecorder_AbsentAverageStoredAsNull(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer r.Close()

	run := &AnalysisRun{
		ID:        uuid.NewString(),
		Ticker:    "FURY",
		Mode:      "analyze",
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, r.RecordRun(run))

	var avgPH *float64
	require.NoError(t, r.db.QueryRow(`SELECT avg_ph FROM runs WHERE id = ?`, run.ID).Scan(&avgPH))
	assert.Nil(t, avgPH, "absent average must be NULL, not zero")
}
