package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ETFScreener/internal/model"
)

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func rampSeries(n int, start, step float64) *model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return seriesFromCloses(closes...)
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)

	_, err = CalculateSMA([]float64{1, math.NaN(), 3}, 2)
	assert.Error(t, err)
}

func TestSMA_AbsentWhenSeriesShort(t *testing.T) {
	tests := []struct {
		bars   int
		period int
	}{
		{49, PeriodSMA50},
		{149, PeriodSMA150},
		{199, PeriodSMA200},
		{0, PeriodSMA50},
	}
	for _, tt := range tests {
		assert.Nil(t, SMA(rampSeries(tt.bars, 100, 1), tt.period), "bars=%d period=%d", tt.bars, tt.period)
	}
}

func TestSMA_TrailingWindow(t *testing.T) {
	s := rampSeries(250, 1, 1)

	sma50 := SMA(s, PeriodSMA50)
	require.NotNil(t, sma50)
	// closes 201..250
	assert.InDelta(t, 225.5, *sma50, 1e-9)

	sma200 := SMA(s, PeriodSMA200)
	require.NotNil(t, sma200)
	// closes 51..250
	assert.InDelta(t, 150.5, *sma200, 1e-9)
}

func TestRSI14_ShortSeriesDefaults(t *testing.T) {
	for n := 0; n < PeriodRSI; n++ {
		assert.Equal(t, DefaultRSI, RSI14(rampSeries(n, 100, 1)), "bars=%d", n)
	}
}

func TestRSI14_Bounds(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00,
		46.03, 46.41, 46.22, 45.64,
	}
	rsi := RSI14(seriesFromCloses(closes...))
	assert.GreaterOrEqual(t, rsi, 0)
	assert.LessOrEqual(t, rsi, 100)
}

func TestCalculateRSI_KnownValue(t *testing.T) {
	// Alternating +2/-1 over the last 14 changes: 7 gains of 2, 7 losses of 1.
	closes := []float64{100}
	for i := 0; i < 14; i++ {
		last := closes[len(closes)-1]
		if i%2 == 0 {
			closes = append(closes, last+2)
		} else {
			closes = append(closes, last-1)
		}
	}
	rsi, ok := CalculateRSI(closes, PeriodRSI)
	require.True(t, ok)
	// RS = (14/14) / (7/14) = 2 -> RSI = 66.67
	assert.InDelta(t, 66.6667, rsi, 1e-3)
	assert.Equal(t, 66, RSI14(seriesFromCloses(closes...)))
}

func TestCalculateRSI_ExactlyPeriodBars(t *testing.T) {
	// The first bar contributes a zero change.
	closes := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11}
	rsi, ok := CalculateRSI(closes, PeriodRSI)
	require.True(t, ok)
	// 7 gains of 1, 6 losses of 1
	assert.InDelta(t, 100-100/(1+7.0/6.0), rsi, 1e-9)
}

func TestRSI14_NoLosses(t *testing.T) {
	assert.Equal(t, 100, RSI14(rampSeries(30, 100, 1)))
}

func TestRSI14_FlatSeries(t *testing.T) {
	assert.Equal(t, DefaultRSI, RSI14(rampSeries(30, 100, 0)))
}

func TestRSI14_AllLosses(t *testing.T) {
	assert.Equal(t, 0, RSI14(rampSeries(30, 200, -1)))
}

func TestRSI14_NaNInWindow(t *testing.T) {
	s := rampSeries(30, 100, 1)
	s.Bars[25].Close = math.NaN()
	assert.Equal(t, DefaultRSI, RSI14(s))
}

func TestSeriesHigh(t *testing.T) {
	_, err := SeriesHigh(&model.PriceSeries{})
	assert.Error(t, err)

	high, err := SeriesHigh(seriesFromCloses(10, 30, 20))
	require.NoError(t, err)
	assert.Equal(t, 31.0, high)
}

func TestNear52WeekPct(t *testing.T) {
	assert.Equal(t, 100.0, Near52WeekPct(55, 0))
	assert.Equal(t, 100.0, Near52WeekPct(55, -3))
	assert.Equal(t, 100.0, Near52WeekPct(55, math.NaN()))
	assert.InDelta(t, 50.0, Near52WeekPct(50, 100), 1e-9)
}

func TestCloseNear52WeekHigh(t *testing.T) {
	high := 250.0
	assert.True(t, CloseNear52WeekHigh(high*0.98, high))
	assert.True(t, CloseNear52WeekHigh(251, high))
	assert.False(t, CloseNear52WeekHigh(high*0.98-0.01, high))
}

func TestCompute(t *testing.T) {
	s := rampSeries(160, 100, 1)
	set := Compute(s, 259, 260)
	require.NotNil(t, set.SMA50)
	require.NotNil(t, set.SMA150)
	assert.Nil(t, set.SMA200)
	assert.Equal(t, 100, set.RSI14)
	assert.InDelta(t, 99.615, set.Near52wPct, 1e-3)
}
