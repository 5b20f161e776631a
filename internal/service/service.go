package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ETFScreener/internal/model"
	"ETFScreener/internal/recorder"
)

// Batcher runs one full batch over the universe.
type Batcher interface {
	Collect(ctx context.Context) (*model.BatchResult, error)
}

// ReportService serves the latest batch report. A successful batch is kept
// for TTL; structural failures are never cached so the next call retries.
// Concurrent refreshes share one batch.
type ReportService struct {
	batcher  Batcher
	recorder recorder.Recorder
	ttl      time.Duration
	now      func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	latest   *model.BatchResult
	cachedAt time.Time
}

// NewReportService creates a new ReportService. A nil recorder disables the
// audit trail; ttl <= 0 disables caching.
func NewReportService(b Batcher, rec recorder.Recorder, ttl time.Duration) *ReportService {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &ReportService{
		batcher:  b,
		recorder: rec,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Report returns the latest report, running a batch when the cache is empty,
// stale or refresh is set. A structural failure yields the error report
// together with the error.
func (s *ReportService) Report(ctx context.Context, refresh bool) (*model.Report, error) {
	if !refresh {
		if res, ok := s.fresh(); ok {
			return model.NewSuccessReport(res), nil
		}
	}
	res, err := s.Refresh(ctx)
	if err != nil {
		return model.NewErrorReport(err), err
	}
	return model.NewSuccessReport(res), nil
}

// Refresh runs a new batch unless one is already in flight, in which case
// it waits for that one. The batch itself is detached from ctx so that one
// caller going away does not abort the run the others are waiting on.
func (s *ReportService) Refresh(ctx context.Context) (*model.BatchResult, error) {
	ch := s.group.DoChan("batch", func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*model.BatchResult), nil
	}
}

// Latest returns the last successful batch, however old.
func (s *ReportService) Latest() (*model.BatchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Lookup finds ticker in the latest batch.
func (s *ReportService) Lookup(ticker string) (*model.ETFRecord, bool) {
	res, ok := s.Latest()
	if !ok {
		return nil, false
	}
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for i := range res.Records {
		if res.Records[i].Ticker == ticker {
			return &res.Records[i], true
		}
	}
	return nil, false
}

func (s *ReportService) fresh() (*model.BatchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil || s.ttl <= 0 {
		return nil, false
	}
	if s.now().Sub(s.cachedAt) >= s.ttl {
		return nil, false
	}
	return s.latest, true
}

func (s *ReportService) run(ctx context.Context) (*model.BatchResult, error) {
	started := s.now()
	res, err := s.batcher.Collect(ctx)
	if err != nil {
		log.Printf("[ERROR] batch failed: %v", err)
		if rerr := s.recorder.RecordAborted(&recorder.AbortedRun{
			StartedAt: started, FinishedAt: s.now(), Err: err,
		}); rerr != nil {
			log.Printf("[ERROR] record aborted batch: %v", rerr)
		}
		return nil, err
	}

	s.mu.Lock()
	s.latest = res
	s.cachedAt = s.now()
	s.mu.Unlock()

	if err := s.recorder.RecordBatch(res); err != nil {
		log.Printf("[ERROR] record batch %s: %v", res.RunID, err)
	}
	return res, nil
}
