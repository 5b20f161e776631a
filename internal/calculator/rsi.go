package calculator

import (
	"math"

	"ETFScreener/internal/model"
)

const (
	// PeriodRSI is the window of the reported RSI.
	PeriodRSI = 14
	// DefaultRSI is reported whenever RSI cannot be derived.
	DefaultRSI = 50
)

// CalculateRSI computes a simple-average RSI over the trailing period closes.
//
// The first bar has no predecessor and contributes a zero change, so a series
// of exactly period bars is enough. Gains and losses are averaged arithmetically
// (no Wilder smoothing). With no losses in the window RSI is 100 if there were
// gains and undefined (ok=false) if the window is flat.
func CalculateRSI(closes []float64, period int) (rsi float64, ok bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	n := len(closes)
	var gain, loss float64
	for i := n - period; i < n; i++ {
		change := 0.0
		if i > 0 {
			change = closes[i] - closes[i-1]
		}
		if math.IsNaN(change) {
			return 0, false
		}
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	gain /= float64(period)
	loss /= float64(period)

	if loss == 0 {
		if gain == 0 {
			return 0, false
		}
		return 100, true
	}
	rs := gain / loss
	rsi = 100 - 100/(1+rs)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 0, false
	}
	return rsi, true
}

// RSI14 returns the 14-period RSI truncated to an integer in [0, 100],
// or DefaultRSI when it cannot be derived.
func RSI14(series *model.PriceSeries) int {
	rsi, ok := CalculateRSI(series.Closes(), PeriodRSI)
	if !ok {
		return DefaultRSI
	}
	v := int(rsi)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
