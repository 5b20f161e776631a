package model

import "time"

// AssetClass is the coarse category an ETF is filed under.
type AssetClass string

const (
	AssetEquity      AssetClass = "Equity"
	AssetFixedIncome AssetClass = "Fixed Income"
	AssetCommodity   AssetClass = "Commodity"
)

// AUMUnavailable is displayed in place of assets under management when unknown.
const AUMUnavailable = "N/A"

// IndicatorSet holds the technical indicators derived from a PriceSeries.
// Moving averages are nil when the series is shorter than their window.
type IndicatorSet struct {
	SMA50      *float64
	SMA150     *float64
	SMA200     *float64
	RSI14      int
	Near52wPct float64
}

// ETFRecord is the normalized per-ticker output row.
type ETFRecord struct {
	Ticker        string     `json:"ticker"`
	Name          string     `json:"name"`
	Asset         AssetClass `json:"asset"`
	Lwowski       int        `json:"lwowski"`
	Price         float64    `json:"price"`
	CloseAbove52w bool       `json:"closeAbove52w"`
	SMA50gt150    bool       `json:"sma50gt150"`
	SMA150gt200   bool       `json:"sma150gt200"`
	SMA200Slope   bool       `json:"sma200Slope"`
	AUM           string     `json:"aum"`
	RSI           int        `json:"rsi"`
	Near52wPct    float64    `json:"near52wpct"`
	Week52High    float64    `json:"week52High"`
	PrevClose     float64    `json:"prevClose"`
	Volume        float64    `json:"volume"`
	Expense       float64    `json:"expense"`
}

// InTrend reports whether the record passes every trend check: price near
// the 52-week high, SMA50 > SMA150 > SMA200 and price above SMA200.
func (r *ETFRecord) InTrend() bool {
	return r.CloseAbove52w && r.SMA50gt150 && r.SMA150gt200 && r.SMA200Slope
}

// TickerFailure records why a ticker produced no record.
type TickerFailure struct {
	Ticker string
	Err    error
}

// BatchResult aggregates one batch run. Records keep universe order and
// only successes appear in it; len(Records)+len(Failures) equals the universe size.
type BatchResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Universe   int
	Records    []ETFRecord
	Failures   []TickerFailure
}

// Count returns the number of successful records.
func (b *BatchResult) Count() int { return len(b.Records) }

// FailedTickers lists the tickers that produced no record, in universe order.
func (b *BatchResult) FailedTickers() []string {
	out := make([]string, len(b.Failures))
	for i, f := range b.Failures {
		out[i] = f.Ticker
	}
	return out
}

// Report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Report is the wire shape handed to report consumers.
type Report struct {
	Status  string      `json:"status"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    []ETFRecord `json:"data"`
}

// NewSuccessReport renders a batch result as a success report.
func NewSuccessReport(res *BatchResult) *Report {
	data := res.Records
	if data == nil {
		data = []ETFRecord{}
	}
	n := len(data)
	return &Report{Status: StatusSuccess, Count: &n, Data: data}
}

// NewErrorReport renders a structural failure. Data is always empty.
func NewErrorReport(err error) *Report {
	return &Report{Status: StatusError, Message: err.Error(), Data: []ETFRecord{}}
}
