package etf

import (
	"slices"
	"strings"

	"ETFScreener/internal/model"
)

// Keyword lists are matched as substrings of the lower-cased fund name.
// This is a heuristic; a name that mentions "energy" in passing files as a
// commodity fund.
var (
	bondKeywords      = []string{"bond", "treasury", "aggregate", "fixed income", "corporate bond", "municipal"}
	bondTickers       = []string{"bnd", "agg", "tlt", "shy", "iei", "lqd", "hyg"}
	commodityKeywords = []string{"gold", "silver", "oil", "commodity", "metals", "energy", "natural gas"}
	commodityTickers  = []string{"gld", "slv", "uso", "ung", "dbc"}
)

// Classify assigns an asset class from the display name and ticker.
// Fixed income takes precedence over commodity; everything else is equity.
func Classify(name, ticker string) model.AssetClass {
	name = strings.ToLower(name)
	ticker = strings.ToLower(ticker)

	if containsAny(name, bondKeywords) || slices.Contains(bondTickers, ticker) {
		return model.AssetFixedIncome
	}
	if containsAny(name, commodityKeywords) || slices.Contains(commodityTickers, ticker) {
		return model.AssetCommodity
	}
	return model.AssetEquity
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
