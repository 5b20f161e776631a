package collector

import (
	"context"
	"sync"
	"time"

	"ETFScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Errors fail with the given error.
type MockFetcher struct {
	Price  float64
	Quotes map[string]model.QuoteSnapshot
	Bars   map[string][]model.PriceBar
	Errors map[string]error
	Delay  time.Duration

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns the symbols requested so far, in call order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockFetcher) wait(ctx context.Context, symbol string) error {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err, ok := m.Errors[symbol]; ok {
		return err
	}
	return nil
}

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	if err := m.wait(ctx, symbol); err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
	}
	return &model.PriceSeries{Symbol: symbol, Bars: generateMockBars(m.Price, days), FetchedAt: time.Now()}, nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (model.QuoteSnapshot, error) {
	if q, ok := m.Quotes[symbol]; ok {
		return q, nil
	}
	return model.QuoteSnapshot{
		model.FieldRegularMarketPrice: m.Price,
		model.FieldShortName:          symbol + " Mock Fund",
	}, nil
}

func generateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
