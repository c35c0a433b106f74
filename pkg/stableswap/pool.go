package stableswap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Direction selects which reserve is sold into the pool.
type Direction int

const (
	ZeroForOne Direction = iota
	OneForZero
)

func (d Direction) String() string {
	if d == OneForZero {
		return "1to0"
	}
	return "0to1"
}

// ParseDirection accepts "0to1" or "1to0".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "0to1", "":
		return ZeroForOne, nil
	case "1to0":
		return OneForZero, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, s)
	}
}

// Pool holds the decoded fields of a pool account. It is a value; nothing
// about amp or D is cached between calls.
type Pool struct {
	Bal0     uint64
	Bal1     uint64
	LPSupply uint64
	FeeBps   uint64
	Ramp     RampSchedule
}

// Amp returns the effective amplification at unix time now.
func (p Pool) Amp(now int64) uint64 {
	return p.Ramp.AmpAt(now)
}

// Orient returns (balIn, balOut) for a swap in direction dir.
func (p Pool) Orient(dir Direction) (uint64, uint64) {
	if dir == OneForZero {
		return p.Bal1, p.Bal0
	}
	return p.Bal0, p.Bal1
}

func (p Pool) Swap(dir Direction, amountIn uint64, now int64) (SwapQuote, error) {
	balIn, balOut := p.Orient(dir)
	return QuoteSwap(balIn, balOut, amountIn, p.Amp(now), p.FeeBps)
}

func (p Pool) PriceImpact(dir Direction, amountIn uint64, now int64) (uint64, error) {
	balIn, balOut := p.Orient(dir)
	return CalcPriceImpact(balIn, balOut, amountIn, p.Amp(now), p.FeeBps)
}

func (p Pool) Deposit(amt0, amt1 uint64, now int64) (uint64, error) {
	return CalcLPTokens(amt0, amt1, p.Bal0, p.Bal1, p.LPSupply, p.Amp(now))
}

func (p Pool) Withdraw(lpAmount uint64) (uint64, uint64, error) {
	return CalcWithdraw(lpAmount, p.Bal0, p.Bal1, p.LPSupply)
}

func (p Pool) VirtualPrice(now int64) (*uint256.Int, error) {
	return CalcVirtualPrice(p.Bal0, p.Bal1, p.LPSupply, p.Amp(now))
}
