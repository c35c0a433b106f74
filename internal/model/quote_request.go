package model

// Quote kinds accepted by the quoter.
const (
	KindSwap         = "swap"
	KindDeposit      = "deposit"
	KindWithdraw     = "withdraw"
	KindVirtualPrice = "virtual_price"
	KindAmp          = "amp"
)

// QuoteRequest is one line of a batch request file.
type QuoteRequest struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Pool      PoolState `json:"pool"`
	Now       int64     `json:"now"`
	Direction string    `json:"direction,omitempty"`
	AmountIn  uint64    `json:"amount_in,omitempty"`
	Amount0   uint64    `json:"amount0,omitempty"`
	Amount1   uint64    `json:"amount1,omitempty"`
	LPAmount  uint64    `json:"lp_amount,omitempty"`
	// SlippageBps overrides the quoter default when set.
	SlippageBps *uint64 `json:"slippage_bps,omitempty"`
}
