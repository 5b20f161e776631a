package etf

import (
	"errors"
	"fmt"
	"strconv"

	"ETFScreener/internal/calculator"
	"ETFScreener/internal/model"
	"ETFScreener/internal/numeric"
)

// MaxNameLength bounds the display name in a record, in characters.
const MaxNameLength = 60

// ErrEmptyTicker is returned when a record is requested for an empty symbol.
var ErrEmptyTicker = errors.New("empty ticker")

// Input is everything the builder needs for one ticker.
type Input struct {
	Ticker string
	Quote  model.QuoteSnapshot
	Series *model.PriceSeries
}

// Extractor yields one candidate for a fallback chain; ok is false when the
// candidate is missing or not a finite number.
type Extractor func(in *Input) (float64, bool)

func quoteField(field string) Extractor {
	return func(in *Input) (float64, bool) {
		v, ok := in.Quote.Get(field)
		if !ok {
			return 0, false
		}
		return numeric.ToFloat(v)
	}
}

func latestClose(in *Input) (float64, bool) {
	bar, ok := in.Series.Last()
	if !ok {
		return 0, false
	}
	return numeric.ToFloat(bar.Close)
}

func seriesHigh(in *Input) (float64, bool) {
	h, err := calculator.SeriesHigh(in.Series)
	if err != nil {
		return 0, false
	}
	return h, true
}

// Fallback chains, first match wins. The order is part of the output contract.
var (
	PriceChain      = []Extractor{quoteField(model.FieldRegularMarketPrice), quoteField(model.FieldCurrentPrice), latestClose}
	VolumeChain     = []Extractor{quoteField(model.FieldRegularMarketVolume)}
	Week52HighChain = []Extractor{quoteField(model.FieldFiftyTwoWeekHigh), seriesHigh}
	AUMChain        = []Extractor{quoteField(model.FieldTotalAssets), quoteField(model.FieldMarketCap)}
	PrevCloseChain  = []Extractor{quoteField(model.FieldRegularMarketPreviousClose)}
	NameFields      = []string{model.FieldLongName, model.FieldShortName}
)

func firstOf(in *Input, chain []Extractor, def float64) float64 {
	for _, ex := range chain {
		if v, ok := ex(in); ok {
			return v
		}
	}
	return def
}

func displayName(in *Input) string {
	for _, f := range NameFields {
		if s, ok := in.Quote.String(f); ok {
			return s
		}
	}
	return in.Ticker
}

// Build composes one ETFRecord from a quote snapshot and price series.
// Missing data never fails a build; a panic inside the derivation is
// recovered and returned as an error so the caller can drop the ticker.
func Build(in Input) (rec model.ETFRecord, err error) {
	if in.Ticker == "" {
		return model.ETFRecord{}, ErrEmptyTicker
	}
	defer func() {
		if r := recover(); r != nil {
			rec = model.ETFRecord{}
			err = fmt.Errorf("build %s: %v", in.Ticker, r)
		}
	}()
	if in.Series == nil {
		in.Series = &model.PriceSeries{Symbol: in.Ticker}
	}
	if in.Quote == nil {
		in.Quote = model.QuoteSnapshot{}
	}

	price := firstOf(&in, PriceChain, 0)
	volume := firstOf(&in, VolumeChain, 0)
	week52High := firstOf(&in, Week52HighChain, price)
	aum := firstOf(&in, AUMChain, 0)
	prevClose := firstOf(&in, PrevCloseChain, price*0.99)

	ind := calculator.Compute(in.Series, price, week52High)

	name := displayName(&in)
	asset := Classify(name, in.Ticker)
	expense := ResolveExpenseRatio(in.Quote, in.Ticker)
	score := LiquidityScore(aum, volume)

	rec = model.ETFRecord{
		Ticker:        in.Ticker,
		Name:          truncate(name, MaxNameLength),
		Asset:         asset,
		Lwowski:       score,
		Price:         numeric.Round(price, 2),
		CloseAbove52w: calculator.CloseNear52WeekHigh(price, week52High),
		SMA50gt150:    numeric.SafeBool(above(ind.SMA50, ind.SMA150)),
		SMA150gt200:   numeric.SafeBool(above(ind.SMA150, ind.SMA200)),
		SMA200Slope:   numeric.SafeBool(above(&price, ind.SMA200)),
		AUM:           formatAUM(aum),
		RSI:           ind.RSI14,
		Near52wPct:    numeric.Round(ind.Near52wPct, 1),
		Week52High:    numeric.Round(week52High, 2),
		PrevClose:     numeric.Round(prevClose, 2),
		Volume:        numeric.Round(volume/1e6, 1),
		Expense:       numeric.Round(expense*100, 2),
	}
	return normalizeRecord(rec), nil
}

// above compares a > b, yielding nil when either operand is absent.
func above(a, b *float64) any {
	if a == nil || b == nil {
		return nil
	}
	return *a > *b
}

// formatAUM renders assets under management as whole millions.
func formatAUM(aum float64) string {
	if !truthy(aum) {
		return model.AUMUnavailable
	}
	return strconv.FormatInt(int64(aum/1e6), 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// normalizeRecord is the last step before a record leaves the engine: every
// float is finite.
func normalizeRecord(rec model.ETFRecord) model.ETFRecord {
	rec.Price = numeric.Finite(rec.Price, 0)
	rec.Near52wPct = numeric.Finite(rec.Near52wPct, 100)
	rec.Week52High = numeric.Finite(rec.Week52High, 0)
	rec.PrevClose = numeric.Finite(rec.PrevClose, 0)
	rec.Volume = numeric.Finite(rec.Volume, 0)
	rec.Expense = numeric.Finite(rec.Expense, numeric.Round(DefaultExpenseRatio*100, 2))
	return rec
}
