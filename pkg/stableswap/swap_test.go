package stableswap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateSwapBalancedPool(t *testing.T) {
	out, err := SimulateSwap(1_000_000, 1_000_000, 1_000, 100, 30)
	require.NoError(t, err)
	require.Greater(t, out, uint64(990))
	require.Less(t, out, uint64(1_000))
	require.Equal(t, uint64(997), out)
}

func TestQuoteSwapBreakdown(t *testing.T) {
	q, err := QuoteSwap(1_000_000_000_000, 1_000_000_000_000, 10_000_000_000, 1_000, 30)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000_000_000), q.D)
	require.Equal(t, uint64(1_010_000_000_000), q.NewBalIn)
	require.Equal(t, uint64(9_999_950_021), q.RawOut)
	require.Equal(t, uint64(29_999_850), q.Fee)
	require.Equal(t, uint64(14_999_925), q.AdminFee)
	require.Equal(t, uint64(9_969_950_171), q.AmountOut)
	require.Equal(t, q.RawOut, q.Fee+q.AmountOut)
}

func TestSimulateSwapImbalancedPool(t *testing.T) {
	// Selling the abundant token yields less than selling the scarce one.
	cheap, err := SimulateSwap(2_000_000, 1_000_000, 1_000, 100, 30)
	require.NoError(t, err)
	require.Equal(t, uint64(994), cheap)

	dear, err := SimulateSwap(1_000_000, 2_000_000, 1_000, 100, 30)
	require.NoError(t, err)
	require.Equal(t, uint64(1_001), dear)
}

func TestSimulateSwapMonotonicInAmount(t *testing.T) {
	var prev uint64
	for amount := uint64(1); amount <= 3_000; amount++ {
		out, err := SimulateSwap(1_000_000, 1_000_000, amount, 100, 30)
		require.NoError(t, err)
		require.GreaterOrEqual(t, out, prev, "amount %d", amount)
		prev = out
	}
}

func TestSimulateSwapMonotonicInFee(t *testing.T) {
	fees := []uint64{0, 1, 5, 30, 100, 10_000}
	want := []uint64{1_000, 1_000, 1_000, 997, 990, 0}

	prev := ^uint64(0)
	for i, fee := range fees {
		out, err := SimulateSwap(1_000_000, 1_000_000, 1_000, 100, fee)
		require.NoError(t, err)
		require.Equal(t, want[i], out, "fee %d", fee)
		require.LessOrEqual(t, out, prev)
		prev = out
	}
}

func TestSimulateSwapRejectsBadInput(t *testing.T) {
	cases := []struct {
		name                              string
		balIn, balOut, amountIn, amp, fee uint64
	}{
		{name: "zero amount", balIn: 1_000, balOut: 1_000, amountIn: 0, amp: 100},
		{name: "empty input reserve", balIn: 0, balOut: 1_000, amountIn: 10, amp: 100},
		{name: "empty output reserve", balIn: 1_000, balOut: 0, amountIn: 10, amp: 100},
		{name: "fee above 100%", balIn: 1_000, balOut: 1_000, amountIn: 10, amp: 100, fee: 10_001},
		{name: "zero amp", balIn: 1_000, balOut: 1_000, amountIn: 10, amp: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SimulateSwap(tc.balIn, tc.balOut, tc.amountIn, tc.amp, tc.fee)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSimulateSwapInputOverflow(t *testing.T) {
	_, err := SimulateSwap(1_000_000, 1_000_000, ^uint64(0), 100, 30)
	require.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestCalcMinOutput(t *testing.T) {
	cases := []struct {
		expected, slippage, want uint64
	}{
		{expected: 997, slippage: 50, want: 992},
		{expected: 10_000, slippage: 0, want: 10_000},
		{expected: 10_000, slippage: 10_000, want: 0},
		{expected: ^uint64(0), slippage: 1, want: 18_444_899_399_302_180_659},
	}
	for _, tc := range cases {
		got, err := CalcMinOutput(tc.expected, tc.slippage)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	_, err := CalcMinOutput(1_000, 10_001)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalcPriceImpact(t *testing.T) {
	cases := []struct {
		name                              string
		balIn, balOut, amountIn, amp, fee uint64
		want                              uint64
	}{
		{name: "fee only", balIn: 1_000_000, balOut: 1_000_000, amountIn: 1_000, amp: 100, fee: 30, want: 3_000_000},
		{name: "no fee small trade", balIn: 1_000_000, balOut: 1_000_000, amountIn: 1_000, amp: 100, fee: 0, want: 0},
		{name: "no fee large trade", balIn: 1_000_000, balOut: 1_000_000, amountIn: 100_000, amp: 100, fee: 0, want: 500_000},
		{name: "fee and curve", balIn: 1_000_000, balOut: 1_000_000, amountIn: 100_000, amp: 100, fee: 30, want: 3_490_000},
		{name: "deep pool", balIn: 1_000_000_000_000, balOut: 1_000_000_000_000, amountIn: 10_000_000_000, amp: 1_000, fee: 30, want: 3_004_983},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalcPriceImpact(tc.balIn, tc.balOut, tc.amountIn, tc.amp, tc.fee)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCalcPriceImpactGrowsWithSize(t *testing.T) {
	small, err := CalcPriceImpact(1_000_000, 1_000_000, 1_000, 100, 0)
	require.NoError(t, err)
	large, err := CalcPriceImpact(1_000_000, 1_000_000, 100_000, 100, 0)
	require.NoError(t, err)
	require.Less(t, small, large)
}

func TestQuoteSwapDrainedReserveIsDegenerate(t *testing.T) {
	// D(1, 1) = 2 and y(11, 2) collapses to 0.
	_, err := QuoteSwap(1, 1, 10, 1, 30)
	require.ErrorIs(t, err, ErrDegenerateState)
	require.NotErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "degenerate_state", ErrorKind(err))

	_, err = SimulateSwap(1, 1, 10, 1, 30)
	require.ErrorIs(t, err, ErrDegenerateState)
}

func TestSimulateSwapExtremeImbalanceDoesNotConverge(t *testing.T) {
	_, err := SimulateSwap(1_000_000_000_000, 1, 1, 100, 30)
	require.ErrorIs(t, err, ErrNonConvergence)
	require.Equal(t, "non_convergence", ErrorKind(err))
}
