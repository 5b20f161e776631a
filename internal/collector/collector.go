package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ETFScreener/internal/etf"
	"ETFScreener/internal/metrics"
	"ETFScreener/internal/model"
)

// ErrUniverse wraps structural failures to enumerate the ticker universe.
var ErrUniverse = errors.New("ticker universe unavailable")

// Defaults used when the corresponding Collector field is zero.
const (
	DefaultLookbackDays = 365
	DefaultConcurrency  = 4
)

// Collector runs one batch: for every ticker in the universe it fetches the
// price series and quote, builds a record and keeps successes in universe order.
type Collector struct {
	Fetcher      Fetcher
	Universe     etf.UniverseSource
	LookbackDays int
	Concurrency  int
	// FetchTimeout bounds the fetch of one ticker; zero means no extra bound.
	FetchTimeout time.Duration
	Metrics      *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, universe etf.UniverseSource) *Collector {
	return &Collector{
		Fetcher:      fetcher,
		Universe:     universe,
		LookbackDays: DefaultLookbackDays,
		Concurrency:  DefaultConcurrency,
	}
}

type outcome struct {
	record model.ETFRecord
	err    error
}

// Collect runs the batch. Per-ticker failures never fail the batch; an error
// is returned only when the universe cannot be enumerated or ctx is done.
func (c *Collector) Collect(ctx context.Context) (*model.BatchResult, error) {
	started := time.Now()
	tickers, err := c.Universe.Tickers(ctx)
	if err != nil {
		c.Metrics.ObserveBatch(model.StatusError, 0, 0, time.Since(started))
		return nil, fmt.Errorf("%w: %w", ErrUniverse, err)
	}

	total := len(tickers)
	results := make([]outcome, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())
	for i, ticker := range tickers {
		g.Go(func() error {
			log.Printf("[INFO] processing %d/%d: %s", i+1, total, ticker)
			rec, err := c.CollectTicker(gctx, ticker)
			results[i] = outcome{record: rec, err: err}
			c.Metrics.ObserveTicker(err == nil)
			if err != nil {
				log.Printf("[WARN] %s dropped: %v", ticker, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		c.Metrics.ObserveBatch(model.StatusError, 0, 0, time.Since(started))
		return nil, fmt.Errorf("batch aborted: %w", err)
	}

	res := &model.BatchResult{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Universe:  total,
		Records:   make([]model.ETFRecord, 0, total),
	}
	for i, o := range results {
		if o.err != nil {
			res.Failures = append(res.Failures, model.TickerFailure{Ticker: tickers[i], Err: o.err})
			continue
		}
		res.Records = append(res.Records, o.record)
	}
	res.FinishedAt = time.Now()

	log.Printf("[INFO] batch %s completed: %d/%d records in %s",
		res.RunID, res.Count(), total, res.FinishedAt.Sub(started).Round(time.Millisecond))
	if n := len(res.Failures); n > 0 {
		failed := res.FailedTickers()
		log.Printf("[WARN] %d tickers failed: %s", n, strings.Join(failed[:min(5, n)], ", "))
	}
	c.Metrics.ObserveBatch(model.StatusSuccess, res.Count(), len(res.Failures), res.FinishedAt.Sub(started))
	return res, nil
}

// CollectTicker fetches and builds the record for a single ticker.
func (c *Collector) CollectTicker(ctx context.Context, ticker string) (model.ETFRecord, error) {
	if c.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.FetchTimeout)
		defer cancel()
	}

	t0 := time.Now()
	series, err := c.Fetcher.FetchDailyBars(ctx, ticker, c.lookbackDays())
	c.Metrics.ObserveFetch("bars", time.Since(t0))
	if err != nil {
		return model.ETFRecord{}, fmt.Errorf("fetch daily bars: %w", err)
	}

	t0 = time.Now()
	quote, err := c.Fetcher.FetchQuote(ctx, ticker)
	c.Metrics.ObserveFetch("quote", time.Since(t0))
	if err != nil {
		return model.ETFRecord{}, fmt.Errorf("fetch quote: %w", err)
	}

	rec, err := etf.Build(etf.Input{Ticker: ticker, Quote: quote, Series: series})
	if err != nil {
		return model.ETFRecord{}, fmt.Errorf("build record: %w", err)
	}
	return rec, nil
}

func (c *Collector) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Collector) lookbackDays() int {
	if c.LookbackDays <= 0 {
		return DefaultLookbackDays
	}
	return c.LookbackDays
}
