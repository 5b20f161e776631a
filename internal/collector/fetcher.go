package collector

import (
	"context"
	"errors"

	"ETFScreener/internal/model"
)

// ErrNoData is returned by a Fetcher when the provider answered but had
// nothing usable for the symbol.
var ErrNoData = errors.New("no data returned")

// PriceHistoryProvider returns up to days of daily bars in chronological order.
type PriceHistoryProvider interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) (*model.PriceSeries, error)
}

// QuoteProvider returns the current quote and fund metadata for a symbol.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (model.QuoteSnapshot, error)
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	PriceHistoryProvider
	QuoteProvider
	Name() string
}
