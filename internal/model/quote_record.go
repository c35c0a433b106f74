package model

// QuoteRecord is the result of a single quote, ready for storage.
type QuoteRecord struct {
	BatchName string `json:"batch_name,omitempty"`
	RequestID string `json:"request_id"`
	Line      uint64 `json:"line,omitempty"`
	Kind      string `json:"kind"`
	Pool      string `json:"pool,omitempty"`
	Now       int64  `json:"now"`
	Amp       uint64 `json:"amp"`
	RampPhase string `json:"ramp_phase,omitempty"`

	Direction      string `json:"direction,omitempty"`
	AmountIn       uint64 `json:"amount_in,omitempty"`
	AmountOut      uint64 `json:"amount_out,omitempty"`
	RawOut         uint64 `json:"raw_out,omitempty"`
	Fee            uint64 `json:"fee,omitempty"`
	AdminFee       uint64 `json:"admin_fee,omitempty"`
	MinOut         uint64 `json:"min_out,omitempty"`
	SlippageBps    uint64 `json:"slippage_bps,omitempty"`
	PriceImpact    uint64 `json:"price_impact,omitempty"`
	PriceImpactPct string `json:"price_impact_pct,omitempty"`
	PriceImpactBps uint64 `json:"price_impact_bps,omitempty"`

	Amount0  uint64 `json:"amount0,omitempty"`
	Amount1  uint64 `json:"amount1,omitempty"`
	LPAmount uint64 `json:"lp_amount,omitempty"`

	// VirtualPrice is the raw 1e18-scaled integer in decimal.
	VirtualPrice        string `json:"virtual_price,omitempty"`
	VirtualPriceDisplay string `json:"virtual_price_display,omitempty"`
	AmountInDisplay     string `json:"amount_in_display,omitempty"`
	AmountOutDisplay    string `json:"amount_out_display,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	QuotedAt string   `json:"quoted_at"`
}
