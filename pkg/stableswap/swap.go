package stableswap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// SwapQuote is the full breakdown of a simulated swap.
type SwapQuote struct {
	D         uint64
	NewBalIn  uint64
	NewBalOut uint64
	// RawOut is the curve output before fees.
	RawOut    uint64
	Fee       uint64
	AdminFee  uint64
	AmountOut uint64
}

// SimulateSwap returns the output for selling amountIn into a pool holding
// balIn of the input token and balOut of the output token.
func SimulateSwap(balIn, balOut, amountIn, amp, feeBps uint64) (uint64, error) {
	q, err := QuoteSwap(balIn, balOut, amountIn, amp, feeBps)
	if err != nil {
		return 0, err
	}
	return q.AmountOut, nil
}

// QuoteSwap is SimulateSwap with the intermediate values kept.
//
// The fee is rawOut·feeBps/10000 rounded down and the admin share of it is
// AdminFeePct percent, also rounded down.
func QuoteSwap(balIn, balOut, amountIn, amp, feeBps uint64) (SwapQuote, error) {
	if amountIn == 0 {
		return SwapQuote{}, fmt.Errorf("%w: amount in is zero", ErrInvalidInput)
	}
	if balIn == 0 || balOut == 0 {
		return SwapQuote{}, fmt.Errorf("%w: empty reserves (%d, %d)", ErrInvalidInput, balIn, balOut)
	}
	if feeBps > BpsDenominator {
		return SwapQuote{}, fmt.Errorf("%w: fee %d bps above %d", ErrInvalidInput, feeBps, BpsDenominator)
	}

	d, err := CalcD(balIn, balOut, amp)
	if err != nil {
		return SwapQuote{}, fmt.Errorf("calc d: %w", err)
	}
	newBalIn, err := addU64(balIn, amountIn)
	if err != nil {
		return SwapQuote{}, err
	}
	newBalOut, err := CalcY(newBalIn, d, amp)
	if err != nil {
		return SwapQuote{}, fmt.Errorf("calc y: %w", err)
	}
	if newBalOut > balOut {
		return SwapQuote{}, fmt.Errorf("%w: solved output balance %d above reserve %d", ErrDegenerateState, newBalOut, balOut)
	}
	if newBalOut == 0 {
		return SwapQuote{}, fmt.Errorf("%w: swap drains the output reserve", ErrDegenerateState)
	}
	rawOut := balOut - newBalOut

	w := newWide(programBits)
	fee := w.narrow(w.div(w.mul(u(rawOut), u(feeBps)), u(BpsDenominator)))
	adminFee := w.narrow(w.div(w.mul(u(fee), u(AdminFeePct)), u(100)))
	if w.err != nil {
		return SwapQuote{}, w.err
	}

	return SwapQuote{
		D:         d,
		NewBalIn:  newBalIn,
		NewBalOut: newBalOut,
		RawOut:    rawOut,
		Fee:       fee,
		AdminFee:  adminFee,
		AmountOut: rawOut - fee,
	}, nil
}

// CalcMinOutput applies a slippage tolerance to an expected output:
// expectedOut·(10000 - slippageBps)/10000, rounded down.
func CalcMinOutput(expectedOut, slippageBps uint64) (uint64, error) {
	if slippageBps > BpsDenominator {
		return 0, fmt.Errorf("%w: slippage %d bps above %d", ErrInvalidInput, slippageBps, BpsDenominator)
	}
	w := newWide(programBits)
	minOut := w.narrow(w.div(w.mul(u(expectedOut), u(BpsDenominator-slippageBps)), u(BpsDenominator)))
	if w.err != nil {
		return 0, w.err
	}
	return minOut, nil
}

// CalcPriceImpact compares the realized rate amountOut/amountIn of a simulated
// swap against the marginal rate at the current balances. The result is the
// relative shortfall scaled by ImpactPrecision, so ImpactPrecision is 100%.
// Fees count toward the impact.
func CalcPriceImpact(balIn, balOut, amountIn, amp, feeBps uint64) (uint64, error) {
	q, err := QuoteSwap(balIn, balOut, amountIn, amp, feeBps)
	if err != nil {
		return 0, err
	}

	spotNum, spotDen, err := spotRate(balIn, balOut, q.D, amp)
	if err != nil {
		return 0, err
	}

	// realized/spot = (out·spotDen) / (in·spotNum)
	w := newWide(fullBits)
	scale := u(ImpactPrecision)
	ratio := w.div(w.mul(w.mul(scale, u(q.AmountOut)), spotDen), w.mul(u(amountIn), spotNum))
	if w.err != nil {
		return 0, w.err
	}
	if !ratio.Lt(scale) {
		return 0, nil
	}
	return ImpactPrecision - ratio.Uint64(), nil
}

// spotRate returns the marginal output-per-input rate num/den at balances
// (x, y) on the curve with invariant d. It is the ratio of the partial
// derivatives of the invariant, multiplied through by 4·x²·y²:
//
//	num = 4·Ann·x²·y² + D³·y
//	den = 4·Ann·x²·y² + D³·x
func spotRate(x, y, d, amp uint64) (num, den *uint256.Int, err error) {
	ann, err := mulU64(amp, nCoinsPow)
	if err != nil {
		return nil, nil, err
	}
	w := newWide(fullBits)
	xy := w.mul(u(x), u(y))
	k := w.mul(w.mul(u(4), u(ann)), w.mul(xy, xy))
	d3 := w.mul(w.mul(u(d), u(d)), u(d))
	num = w.add(k, w.mul(d3, u(y)))
	den = w.add(k, w.mul(d3, u(x)))
	if w.err != nil {
		return nil, nil, w.err
	}
	if den.IsZero() {
		return nil, nil, fmt.Errorf("%w: zero spot denominator", ErrDegenerateState)
	}
	return num, den, nil
}
