package etf

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFScreener/internal/model"
)

func rampSeries(n int, start, step float64) *model.PriceSeries {
	t0 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = model.PriceBar{Time: t0.AddDate(0, 0, i), Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 1e6}
	}
	return &model.PriceSeries{Bars: bars}
}

func TestExpenseRatioFields_Order(t *testing.T) {
	assert.Equal(t, []string{
		"annualReportExpenseRatio",
		"expenseRatio",
		"annualExpenseRatio",
		"prospectusNetExpenseRatio",
		"managementExpenseRatio",
	}, ExpenseRatioFields)
}

func TestResolveExpenseRatio(t *testing.T) {
	tests := []struct {
		name   string
		quote  model.QuoteSnapshot
		ticker string
		want   float64
	}{
		{
			name:   "first positive field wins",
			quote:  model.QuoteSnapshot{"annualExpenseRatio": 0.0012, "expenseRatio": 0.0009, "managementExpenseRatio": 0.05},
			ticker: "ZZZ",
			want:   0.0009,
		},
		{
			name:   "zero and NaN skipped",
			quote:  model.QuoteSnapshot{"annualReportExpenseRatio": 0.0, "expenseRatio": math.NaN(), "prospectusNetExpenseRatio": 0.0007},
			ticker: "SPY",
			want:   0.0007,
		},
		{
			name:   "negative skipped",
			quote:  model.QuoteSnapshot{"annualReportExpenseRatio": -0.01},
			ticker: "ZZZ",
			want:   DefaultExpenseRatio,
		},
		{
			name:   "static table",
			quote:  model.QuoteSnapshot{"annualReportExpenseRatio": nil},
			ticker: "GLD",
			want:   0.0040,
		},
		{
			name:   "default",
			quote:  model.QuoteSnapshot{},
			ticker: "NOPE",
			want:   0.0030,
		},
		{
			name:   "nil quote",
			quote:  nil,
			ticker: "NOPE",
			want:   0.0030,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveExpenseRatio(tt.quote, tt.ticker))
		})
	}
}

func TestKnownExpenseRatio_CoversUniverse(t *testing.T) {
	for _, ticker := range DefaultUniverse {
		v, ok := KnownExpenseRatio(ticker)
		assert.True(t, ok, ticker)
		assert.Greater(t, v, 0.0, ticker)
		assert.Less(t, v, 0.02, ticker)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name, ticker string
		want         model.AssetClass
	}{
		{"iShares 20+ Year Treasury Bond ETF", "TLT", model.AssetFixedIncome},
		{"Some Treasury Fund", "XYZ", model.AssetFixedIncome},
		{"Vanguard Total Bond Market", "BND", model.AssetFixedIncome},
		{"Unnamed", "HYG", model.AssetFixedIncome},
		{"SPDR Gold Shares", "GLD", model.AssetCommodity},
		{"Energy Select Sector SPDR Fund", "XLE", model.AssetCommodity},
		{"Plain Fund", "UNG", model.AssetCommodity},
		{"Gold Miners Bond Blend", "ABC", model.AssetFixedIncome},
		{"SPDR S&P 500 ETF Trust", "SPY", model.AssetEquity},
		{"Technology Select", "BNDX", model.AssetEquity},
		{"", "", model.AssetEquity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.name, tt.ticker), "%s/%s", tt.name, tt.ticker)
	}
}

func TestLiquidityScore(t *testing.T) {
	tests := []struct {
		name        string
		aum, volume float64
		want        int
	}{
		{"no aum", 0, 5e6, DefaultLiquidityScore},
		{"no volume", 5e9, 0, DefaultLiquidityScore},
		{"nan volume", 5e9, math.NaN(), DefaultLiquidityScore},
		{"clamped low", 1e9, 1e6, MinLiquidityScore},
		{"clamped high", 500e9, 80e6, MaxLiquidityScore},
		{"in range", 100e9, 20e6, 20000},
		{"floored", 100e9, 20.00999e6, 20009},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LiquidityScore(tt.aum, tt.volume)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, MinLiquidityScore)
			assert.LessOrEqual(t, got, MaxLiquidityScore)
		})
	}
}

func TestBuild_FullQuote(t *testing.T) {
	quote := model.QuoteSnapshot{
		"regularMarketPrice":         252.345,
		"regularMarketVolume":        45_678_901.0,
		"regularMarketPreviousClose": 250.0,
		"fiftyTwoWeekHigh":           255.0,
		"totalAssets":                1_234_567_000.0,
		"longName":                   "SPDR S&P 500 ETF Trust",
		"annualReportExpenseRatio":   0.000945,
	}
	rec, err := Build(Input{Ticker: "SPY", Quote: quote, Series: rampSeries(250, 50, 0.8)})
	require.NoError(t, err)

	assert.Equal(t, "SPY", rec.Ticker)
	assert.Equal(t, "SPDR S&P 500 ETF Trust", rec.Name)
	assert.Equal(t, model.AssetEquity, rec.Asset)
	assert.Equal(t, 252.35, rec.Price)
	assert.Equal(t, 255.0, rec.Week52High)
	assert.Equal(t, 250.0, rec.PrevClose)
	assert.Equal(t, 45.7, rec.Volume)
	assert.Equal(t, "1234", rec.AUM)
	assert.Equal(t, 0.09, rec.Expense)
	assert.Equal(t, 99.0, rec.Near52wPct)
	assert.True(t, rec.CloseAbove52w)
	assert.True(t, rec.SMA50gt150)
	assert.True(t, rec.SMA150gt200)
	assert.True(t, rec.SMA200Slope)
	assert.Equal(t, 100, rec.RSI)
	// 1234.567 * 45.678901 / 100
	assert.Equal(t, 1000, rec.Lwowski)
}

func TestBuild_EmptyEverything(t *testing.T) {
	rec, err := Build(Input{Ticker: "NEWX"})
	require.NoError(t, err)

	assert.Equal(t, "NEWX", rec.Name)
	assert.Equal(t, 0.0, rec.Price)
	assert.Equal(t, 0.0, rec.Week52High)
	assert.Equal(t, 0.0, rec.PrevClose)
	assert.Equal(t, 100.0, rec.Near52wPct)
	assert.Equal(t, model.AUMUnavailable, rec.AUM)
	assert.Equal(t, DefaultLiquidityScore, rec.Lwowski)
	assert.Equal(t, 50, rec.RSI)
	assert.Equal(t, 0.3, rec.Expense)
	assert.False(t, rec.SMA50gt150)
	assert.False(t, rec.SMA150gt200)
	assert.False(t, rec.SMA200Slope)
}

func TestBuild_SeriesFallbacks(t *testing.T) {
	series := rampSeries(60, 10, 1) // closes 10..69, highs up to 69.5
	rec, err := Build(Input{Ticker: "GLD", Quote: model.QuoteSnapshot{"shortName": "SPDR Gold", "marketCap": 2_500_000.0}, Series: series})
	require.NoError(t, err)

	assert.Equal(t, 69.0, rec.Price)
	assert.Equal(t, 69.5, rec.Week52High)
	assert.Equal(t, 68.31, rec.PrevClose)
	assert.Equal(t, "2", rec.AUM)
	assert.Equal(t, model.AssetCommodity, rec.Asset)
	assert.Equal(t, 0.4, rec.Expense)
	assert.False(t, rec.SMA50gt150, "sma150 absent")
}

func TestBuild_PriceChainOrder(t *testing.T) {
	quote := model.QuoteSnapshot{"regularMarketPrice": math.NaN(), "currentPrice": 12.0}
	rec, err := Build(Input{Ticker: "X", Quote: quote, Series: rampSeries(5, 100, 1)})
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.Price)
}

func TestBuild_Week52HighZero(t *testing.T) {
	quote := model.QuoteSnapshot{"regularMarketPrice": 40.0, "fiftyTwoWeekHigh": 0.0}
	rec, err := Build(Input{Ticker: "X", Quote: quote})
	require.NoError(t, err)
	assert.Equal(t, 100.0, rec.Near52wPct)
	assert.True(t, rec.CloseAbove52w)
}

func TestBuild_CloseAbove52wBoundary(t *testing.T) {
	high := 100.0
	quote := model.QuoteSnapshot{"regularMarketPrice": high * 0.98, "fiftyTwoWeekHigh": high}
	rec, err := Build(Input{Ticker: "X", Quote: quote})
	require.NoError(t, err)
	assert.True(t, rec.CloseAbove52w)

	quote["regularMarketPrice"] = 97.99
	rec, err = Build(Input{Ticker: "X", Quote: quote})
	require.NoError(t, err)
	assert.False(t, rec.CloseAbove52w)
}

func TestBuild_NameTruncated(t *testing.T) {
	long := strings.Repeat("é", 75)
	rec, err := Build(Input{Ticker: "X", Quote: model.QuoteSnapshot{"longName": long}})
	require.NoError(t, err)
	assert.Equal(t, MaxNameLength, len([]rune(rec.Name)))
}

func TestBuild_EmptyTicker(t *testing.T) {
	_, err := Build(Input{})
	assert.ErrorIs(t, err, ErrEmptyTicker)
}

func TestFormatAUM(t *testing.T) {
	assert.Equal(t, "1234", formatAUM(1_234_567_000))
	assert.Equal(t, "0", formatAUM(999_999))
	assert.Equal(t, model.AUMUnavailable, formatAUM(0))
	assert.Equal(t, model.AUMUnavailable, formatAUM(math.NaN()))
}

func TestAbove(t *testing.T) {
	a, b := 2.0, 1.0
	assert.Equal(t, true, above(&a, &b))
	assert.Equal(t, false, above(&b, &a))
	assert.Nil(t, above(nil, &b))
	assert.Nil(t, above(&a, nil))
}
