package calculator

import "ETFScreener/internal/model"

// Compute derives the moving averages, RSI and 52-week proximity for one series.
func Compute(series *model.PriceSeries, price, week52High float64) model.IndicatorSet {
	return model.IndicatorSet{
		SMA50:      SMA(series, PeriodSMA50),
		SMA150:     SMA(series, PeriodSMA150),
		SMA200:     SMA(series, PeriodSMA200),
		RSI14:      RSI14(series),
		Near52wPct: Near52WeekPct(price, week52High),
	}
}
