package etf

import "math"

// Liquidity score bounds and the value used when AUM or volume is unknown.
const (
	MinLiquidityScore     = 1000
	MaxLiquidityScore     = 99999
	DefaultLiquidityScore = 5000
)

// LiquidityScore combines assets under management and share volume into the
// bounded "lwowski" rating: floor(AUM/1e6 * volume/1e6 / 100) clamped to
// [MinLiquidityScore, MaxLiquidityScore].
func LiquidityScore(aum, volume float64) int {
	if !truthy(aum) || !truthy(volume) {
		return DefaultLiquidityScore
	}
	raw := (aum / 1e6) * (volume / 1e6) / 100
	if math.IsNaN(raw) {
		return DefaultLiquidityScore
	}
	if raw >= MaxLiquidityScore {
		return MaxLiquidityScore
	}
	score := int(raw)
	if score < MinLiquidityScore {
		return MinLiquidityScore
	}
	return score
}

func truthy(f float64) bool {
	return f != 0 && !math.IsNaN(f)
}
