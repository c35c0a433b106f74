package stableswap

// Pool parameters enforced by the on-chain program.
const (
	MinAmp          uint64 = 1
	MaxAmp          uint64 = 100_000
	DefaultFeeBps   uint64 = 30
	AdminFeePct     uint64 = 50
	MinSwap         uint64 = 100_000
	MinDeposit      uint64 = 100_000_000
	RampMinDuration int64  = 86_400
)

const (
	// NewtonIterations caps both invariant solvers.
	NewtonIterations = 255

	// BpsDenominator is 100% in basis points.
	BpsDenominator uint64 = 10_000

	// VirtualPricePrecision scales CalcVirtualPrice results (1e18 == 1.0).
	VirtualPricePrecision uint64 = 1_000_000_000_000_000_000

	// ImpactPrecision scales CalcPriceImpact results (1e9 == 100%).
	ImpactPrecision uint64 = 1_000_000_000

	// nCoinsPow is n^n for the two-token pool.
	nCoinsPow uint64 = 4
)
