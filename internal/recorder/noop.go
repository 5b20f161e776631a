package recorder

import "ETFScreener/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBatch(_ *model.BatchResult) error { return nil }
func (n *NoopRecorder) RecordAborted(_ *AbortedRun) error      { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
