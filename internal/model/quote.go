package model

// Quote snapshot field names, as published by the market-data provider.
const (
	FieldRegularMarketPrice         = "regularMarketPrice"
	FieldCurrentPrice               = "currentPrice"
	FieldRegularMarketVolume        = "regularMarketVolume"
	FieldRegularMarketPreviousClose = "regularMarketPreviousClose"
	FieldFiftyTwoWeekHigh           = "fiftyTwoWeekHigh"
	FieldTotalAssets                = "totalAssets"
	FieldMarketCap                  = "marketCap"
	FieldLongName                   = "longName"
	FieldShortName                  = "shortName"

	FieldAnnualReportExpenseRatio  = "annualReportExpenseRatio"
	FieldExpenseRatio              = "expenseRatio"
	FieldAnnualExpenseRatio        = "annualExpenseRatio"
	FieldProspectusNetExpenseRatio = "prospectusNetExpenseRatio"
	FieldManagementExpenseRatio    = "managementExpenseRatio"
)

// QuoteSnapshot maps provider field names to scalar values. Any field may be
// missing, nil or NaN; values are float64, string or bool once normalized.
type QuoteSnapshot map[string]any

// Get returns the raw value of a field and whether it is present and non-nil.
func (q QuoteSnapshot) Get(field string) (any, bool) {
	v, ok := q[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns a non-empty string field.
func (q QuoteSnapshot) String(field string) (string, bool) {
	v, ok := q.Get(field)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
