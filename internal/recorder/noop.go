package recorder

import "SurgeScope/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *AnalysisRun) error                        { return nil }
func (n *NoopRecorder) RecordEvents(_ string, _ []model.SurgeEvent) error     { return nil }
func (n *NoopRecorder) RecordSchedule(_ string, _ model.ScheduleKind, _ []model.BuybackStep) error {
	return nil
}
func (n *NoopRecorder) Close() error { return nil }
