package present

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"stableScope/pkg/stableswap"
)

const (
	virtualPriceDecimals = 18
	impactPctDecimals    = 4
)

// FormatAmount renders base units as a decimal string with the token's precision.
func FormatAmount(amount uint64, decimals uint8) string {
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return value.StringFixed(int32(decimals))
}

// FormatVirtualPrice renders a VirtualPricePrecision-scaled price, e.g. "1.000001000000000000".
func FormatVirtualPrice(vp *uint256.Int) string {
	if vp == nil {
		return decimal.Zero.StringFixed(virtualPriceDecimals)
	}
	return decimal.NewFromBigInt(vp.ToBig(), -virtualPriceDecimals).StringFixed(virtualPriceDecimals)
}

// FormatImpact renders an ImpactPrecision-scaled ratio as a percentage.
func FormatImpact(impact uint64) string {
	ratio := decimal.NewFromBigInt(new(big.Int).SetUint64(impact), 0).
		Div(decimal.NewFromBigInt(new(big.Int).SetUint64(stableswap.ImpactPrecision), 0))
	return ratio.Shift(2).StringFixed(impactPctDecimals)
}

// ImpactBps converts an ImpactPrecision-scaled ratio to basis points, rounded down.
func ImpactBps(impact uint64) uint64 {
	return impact / (stableswap.ImpactPrecision / stableswap.BpsDenominator)
}
