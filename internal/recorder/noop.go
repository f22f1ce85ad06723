package recorder

import "TrendSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ string, _ model.Classification, _ *model.TrendSnapshot) error {
	return nil
}
func (n *NoopRecorder) LatestSnapshots() ([]model.InstrumentSnapshot, error) { return nil, nil }
func (n *NoopRecorder) RecordScanRun(_ *ScanRun) error                      { return nil }
func (n *NoopRecorder) Close() error                                        { return nil }
