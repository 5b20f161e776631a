package calculator

import (
	"errors"
	"math"

	"ETFScreener/internal/model"
)

// SeriesHigh returns the highest High across the whole series, ignoring NaN bars.
func SeriesHigh(series *model.PriceSeries) (float64, error) {
	if series.Empty() {
		return 0, errors.New("no bars provided")
	}
	high := math.Inf(-1)
	for _, b := range series.Bars {
		if b.High > high {
			high = b.High
		}
	}
	if math.IsInf(high, -1) {
		return 0, errors.New("no valid highs")
	}
	return high, nil
}

// Near52WeekPct returns price as a percentage of the 52-week high,
// or 100 when the high is unknown or not positive.
func Near52WeekPct(price, high float64) float64 {
	if !(high > 0) || math.IsInf(high, 0) {
		return 100
	}
	pct := price / high * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 100
	}
	return pct
}

// CloseNear52WeekHigh reports whether price is within 2% of the 52-week high.
func CloseNear52WeekHigh(price, high float64) bool {
	return price >= high*0.98
}
