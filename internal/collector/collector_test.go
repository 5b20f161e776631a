package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFScreener/internal/etf"
	"ETFScreener/internal/metrics"
	"ETFScreener/internal/model"
)

type failingUniverse struct{}

func (failingUniverse) Tickers(context.Context) ([]string, error) {
	return nil, errors.New("disk on fire")
}

// slowFetcher delays one symbol past any reasonable per-ticker timeout.
type slowFetcher struct {
	*MockFetcher
	slow string
}

func (s *slowFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	if symbol == s.slow {
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.MockFetcher.FetchDailyBars(ctx, symbol, days)
}

func TestCollect_IsolatesFailures(t *testing.T) {
	fetcher := &MockFetcher{
		Price:  100,
		Errors: map[string]error{"QQQ": errors.New("provider unavailable")},
	}
	c := NewCollector(fetcher, etf.StaticUniverse{"SPY", "QQQ", "TLT"})

	res, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, res.Count())
	assert.Equal(t, "SPY", res.Records[0].Ticker)
	assert.Equal(t, "TLT", res.Records[1].Ticker)
	assert.Equal(t, []string{"QQQ"}, res.FailedTickers())
	assert.Equal(t, 3, res.Universe)
	assert.Equal(t, res.Universe, res.Count()+len(res.Failures))
	assert.NotEmpty(t, res.RunID)

	report := model.NewSuccessReport(res)
	assert.Equal(t, model.StatusSuccess, report.Status)
	assert.Equal(t, 2, *report.Count)
}

func TestCollect_PreservesUniverseOrderUnderConcurrency(t *testing.T) {
	universe := etf.StaticUniverse{"A", "B", "C", "D", "E", "F", "G", "H"}
	fetcher := &MockFetcher{Price: 50, Delay: 5 * time.Millisecond}
	c := NewCollector(fetcher, universe)
	c.Concurrency = 8

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(universe), res.Count())
	for i, rec := range res.Records {
		assert.Equal(t, universe[i], rec.Ticker)
	}
}

func TestCollect_AllFailIsStillSuccess(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &MockFetcher{Errors: map[string]error{"A": boom, "B": boom}}
	c := NewCollector(fetcher, etf.StaticUniverse{"A", "B"})

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count())
	assert.NotNil(t, res.Records)
	assert.Equal(t, []string{"A", "B"}, res.FailedTickers())

	report := model.NewSuccessReport(res)
	assert.Equal(t, 0, *report.Count)
	assert.Empty(t, report.Data)
}

func TestCollect_DuplicateTickersProcessedTwice(t *testing.T) {
	fetcher := &MockFetcher{Price: 10}
	c := NewCollector(fetcher, etf.StaticUniverse{"SPY", "SPY"})

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
}

func TestCollect_StructuralFailure(t *testing.T) {
	c := NewCollector(&MockFetcher{}, failingUniverse{})

	res, err := c.Collect(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUniverse)

	report := model.NewErrorReport(err)
	assert.Equal(t, model.StatusError, report.Status)
	assert.Empty(t, report.Data)
	assert.Nil(t, report.Count)
}

func TestCollect_TimeoutIsPerTickerFailure(t *testing.T) {
	fetcher := &slowFetcher{MockFetcher: &MockFetcher{Price: 20}, slow: "SLOW"}
	c := NewCollector(fetcher, etf.StaticUniverse{"SPY", "SLOW", "GLD"})
	c.FetchTimeout = 20 * time.Millisecond

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "SLOW", res.Failures[0].Ticker)
	assert.ErrorIs(t, res.Failures[0].Err, context.DeadlineExceeded)
}

func TestCollect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(&MockFetcher{Price: 1}, etf.StaticUniverse{"SPY"})
	_, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	fetcher := &MockFetcher{Price: 100, Errors: map[string]error{"B": errors.New("x")}}
	c := NewCollector(fetcher, etf.StaticUniverse{"A", "B", "C"})
	c.Metrics = m

	_, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TickerResults.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TickerResults.WithLabelValues(metrics.ResultFailure)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LastSuccesses))
}

func TestCollectTicker_UsesQuoteAndSeries(t *testing.T) {
	fetcher := &MockFetcher{
		Price: 100,
		Quotes: map[string]model.QuoteSnapshot{
			"TLT": {
				"regularMarketPrice":  91.5,
				"longName":            "iShares 20+ Year Treasury Bond ETF",
				"totalAssets":         60_000_000_000.0,
				"regularMarketVolume": 30_000_000.0,
			},
		},
	}
	c := NewCollector(fetcher, etf.StaticUniverse{"TLT"})

	rec, err := c.CollectTicker(context.Background(), "TLT")
	require.NoError(t, err)
	assert.Equal(t, 91.5, rec.Price)
	assert.Equal(t, model.AssetFixedIncome, rec.Asset)
	assert.Equal(t, "60000", rec.AUM)
	assert.Equal(t, 18000, rec.Lwowski)
	assert.Equal(t, 0.15, rec.Expense)
}
