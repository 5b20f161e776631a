package recorder

import (
	"time"

	"ETFScreener/internal/model"
)

// AbortedRun describes a batch that failed structurally and produced no report.
type AbortedRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// Recorder keeps an append-only audit trail of batch runs. Nothing in the
// engine reads it back; each run is computed from scratch.
type Recorder interface {
	RecordBatch(res *model.BatchResult) error
	RecordAborted(run *AbortedRun) error
	Close() error
}
