package stableswap

import (
	"fmt"

	"github.com/holiman/uint256"
)

// CalcLPTokens returns the LP tokens minted for depositing amt0 and amt1 into
// a pool with balances (bal0, bal1) and supply outstanding shares.
//
// The first deposit mints D of the deposit itself. Later deposits mint
// supply·(D_after - D_before)/D_before. No imbalance fee is applied.
func CalcLPTokens(amt0, amt1, bal0, bal1, supply, amp uint64) (uint64, error) {
	if supply == 0 {
		d, err := CalcD(amt0, amt1, amp)
		if err != nil {
			return 0, fmt.Errorf("calc d of first deposit: %w", err)
		}
		if d == 0 {
			return 0, fmt.Errorf("%w: empty first deposit", ErrInvalidInput)
		}
		return d, nil
	}

	dBefore, err := CalcD(bal0, bal1, amp)
	if err != nil {
		return 0, fmt.Errorf("calc d before deposit: %w", err)
	}
	if dBefore == 0 {
		return 0, fmt.Errorf("%w: %d LP tokens outstanding against empty reserves", ErrDegenerateState, supply)
	}

	newBal0, err := addU64(bal0, amt0)
	if err != nil {
		return 0, err
	}
	newBal1, err := addU64(bal1, amt1)
	if err != nil {
		return 0, err
	}
	dAfter, err := CalcD(newBal0, newBal1, amp)
	if err != nil {
		return 0, fmt.Errorf("calc d after deposit: %w", err)
	}
	if dAfter <= dBefore {
		return 0, fmt.Errorf("%w: deposit does not grow the invariant (%d -> %d)", ErrInvalidInput, dBefore, dAfter)
	}

	w := newWide(programBits)
	minted := w.narrow(w.div(w.mul(u(supply), u(dAfter-dBefore)), u(dBefore)))
	if w.err != nil {
		return 0, w.err
	}
	return minted, nil
}

// CalcWithdraw returns the reserves released by burning lpAmount shares. The
// withdrawal is proportional, so amp plays no part.
func CalcWithdraw(lpAmount, bal0, bal1, supply uint64) (uint64, uint64, error) {
	if supply == 0 {
		return 0, 0, fmt.Errorf("%w: zero LP supply", ErrInvalidInput)
	}
	if lpAmount > supply {
		return 0, 0, fmt.Errorf("%w: burn %d above supply %d", ErrInvalidInput, lpAmount, supply)
	}

	w := newWide(programBits)
	out0 := w.narrow(w.div(w.mul(u(bal0), u(lpAmount)), u(supply)))
	out1 := w.narrow(w.div(w.mul(u(bal1), u(lpAmount)), u(supply)))
	if w.err != nil {
		return 0, 0, w.err
	}
	return out0, out1, nil
}

// CalcVirtualPrice returns D/supply scaled by VirtualPricePrecision. The price
// is undefined for a pool with no shares and reported as ErrInvalidInput.
func CalcVirtualPrice(bal0, bal1, supply, amp uint64) (*uint256.Int, error) {
	if supply == 0 {
		return nil, fmt.Errorf("%w: virtual price undefined for zero LP supply", ErrInvalidInput)
	}
	d, err := CalcD(bal0, bal1, amp)
	if err != nil {
		return nil, fmt.Errorf("calc d: %w", err)
	}

	w := newWide(programBits)
	vp := w.div(w.mul(u(d), u(VirtualPricePrecision)), u(supply))
	if w.err != nil {
		return nil, w.err
	}
	return vp, nil
}
