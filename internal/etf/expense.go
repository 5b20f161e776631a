package etf

import (
	"ETFScreener/internal/model"
	"ETFScreener/internal/numeric"
)

// DefaultExpenseRatio is used when neither the quote nor the static table
// knows a fund's expense ratio (0.30%).
const DefaultExpenseRatio = 0.0030

// ExpenseRatioFields lists the quote fields carrying an expense ratio,
// most authoritative first. The first strictly positive value wins.
var ExpenseRatioFields = []string{
	model.FieldAnnualReportExpenseRatio,
	model.FieldExpenseRatio,
	model.FieldAnnualExpenseRatio,
	model.FieldProspectusNetExpenseRatio,
	model.FieldManagementExpenseRatio,
}

// knownExpenseRatios holds published expense ratios as fractions.
var knownExpenseRatios = map[string]float64{
	"SPY": 0.000945, "QQQ": 0.0020, "IVV": 0.0004, "VOO": 0.0003, "VTI": 0.0003,
	"BND": 0.0003, "AGG": 0.0003, "GLD": 0.0040, "SLV": 0.0050, "IEFA": 0.0007,
	"EEM": 0.0068, "VWO": 0.0008, "TLT": 0.0015, "IWM": 0.0019, "XLK": 0.0010,
	"XLV": 0.0010, "XLE": 0.0010, "XLF": 0.0010, "XLI": 0.0010, "XLB": 0.0010,
	"XLP": 0.0010, "XLU": 0.0010, "XLY": 0.0010, "SMH": 0.0035, "SOXX": 0.0035,
	"IBB": 0.0045, "KBE": 0.0035, "KRE": 0.0035, "USO": 0.0060, "UNG": 0.0060,
	"HYG": 0.0049, "LQD": 0.0014, "SHY": 0.0015, "IEI": 0.0015, "TIP": 0.0019,
	"VNQ": 0.0012, "DBC": 0.0085, "GDX": 0.0051, "GDXJ": 0.0051, "EWJ": 0.0049,
	"MCHI": 0.0059, "FXI": 0.0074, "INDA": 0.0064, "EPI": 0.0059, "EWZ": 0.0059,
	"ARKK": 0.0075, "ARKW": 0.0075, "ARKG": 0.0075, "QCLN": 0.0040, "TAN": 0.0065,
	"ICLN": 0.0046, "PBW": 0.0060, "XBI": 0.0035, "LABU": 0.0148, "BLOK": 0.0075,
	"FINX": 0.0068, "LIT": 0.0075, "REMX": 0.0065, "URA": 0.0070, "KOL": 0.0065,
	"SCHD": 0.0006, "VYM": 0.0006, "VIG": 0.0006, "NOBL": 0.0035, "SPHD": 0.0028,
	"JEPI": 0.0035, "JEPQ": 0.0035, "DIVO": 0.0050, "SCHG": 0.0004, "VUG": 0.0004,
	"IVW": 0.0018, "IJR": 0.0006, "IJH": 0.0005, "IJS": 0.0018, "IJT": 0.0018,
	"AVUV": 0.0025, "AVDV": 0.0036, "AVEM": 0.0033, "AVDE": 0.0027, "AVUS": 0.0015,
}

// KnownExpenseRatio looks up the static expense ratio for a ticker.
func KnownExpenseRatio(ticker string) (float64, bool) {
	v, ok := knownExpenseRatios[ticker]
	return v, ok
}

// ResolveExpenseRatio returns the fund's expense ratio as a fraction. It never
// fails: quote fields are tried in ExpenseRatioFields order, then the static
// table, then DefaultExpenseRatio.
func ResolveExpenseRatio(quote model.QuoteSnapshot, ticker string) float64 {
	for _, field := range ExpenseRatioFields {
		v, ok := quote.Get(field)
		if !ok {
			continue
		}
		if f, ok := numeric.ToFloat(v); ok && f > 0 {
			return f
		}
	}
	if v, ok := KnownExpenseRatio(ticker); ok {
		return v
	}
	return DefaultExpenseRatio
}
