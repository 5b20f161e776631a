package model

import "time"

// PriceBar represents a single daily candlestick bar.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds one ticker's bars in strictly increasing time order.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Empty reports whether the series carries no bars.
func (s *PriceSeries) Empty() bool { return s.Len() == 0 }

// Closes extracts the closing prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i := range closes {
		closes[i] = s.Bars[i].Close
	}
	return closes
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *PriceSeries) Last() (bar PriceBar, ok bool) {
	if s.Empty() {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
