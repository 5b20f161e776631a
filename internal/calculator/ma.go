package calculator

import (
	"errors"
	"math"

	movingaverage "github.com/RobinUS2/golang-moving-average"

	"ETFScreener/internal/model"
)

// Moving average windows reported for every ETF.
const (
	PeriodSMA50  = 50
	PeriodSMA150 = 150
	PeriodSMA200 = 200
)

var (
	errPeriod       = errors.New("period must be positive")
	errInsufficient = errors.New("not enough data")
	errNaNWindow    = errors.New("window contains NaN")
)

// CalculateSMA computes the simple moving average of the trailing period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errPeriod
	}
	if len(prices) < period {
		return 0, errInsufficient
	}
	ma := movingaverage.New(period)
	for _, p := range prices[len(prices)-period:] {
		if math.IsNaN(p) {
			return 0, errNaNWindow
		}
		ma.Add(p)
	}
	return ma.Avg(), nil
}

// SMA returns the closing-price average over the trailing period bars,
// or nil when the series is too short.
func SMA(series *model.PriceSeries, period int) *float64 {
	v, err := CalculateSMA(series.Closes(), period)
	if err != nil {
		return nil
	}
	return &v
}
