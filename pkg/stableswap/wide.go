package stableswap

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

const (
	// programBits is the width of the program's intermediate integer (u128).
	programBits = 128
	// fullBits is used for off-chain-only quantities such as the spot price.
	fullBits = 256
)

// wide does checked arithmetic capped at a fixed bit width. The first
// failure sticks: later operations return zero and keep the original error.
type wide struct {
	bits int
	err  error
}

func newWide(bits int) *wide {
	return &wide{bits: bits}
}

func (w *wide) fail(err error) *uint256.Int {
	if w.err == nil {
		w.err = err
	}
	return new(uint256.Int)
}

func (w *wide) fits(z *uint256.Int) bool {
	return z.BitLen() <= w.bits
}

func (w *wide) mul(x, y *uint256.Int) *uint256.Int {
	if w.err != nil {
		return new(uint256.Int)
	}
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow || !w.fits(z) {
		return w.fail(fmt.Errorf("%w: %s * %s exceeds %d bits", ErrArithmeticOverflow, x.Dec(), y.Dec(), w.bits))
	}
	return z
}

func (w *wide) add(x, y *uint256.Int) *uint256.Int {
	if w.err != nil {
		return new(uint256.Int)
	}
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow || !w.fits(z) {
		return w.fail(fmt.Errorf("%w: %s + %s exceeds %d bits", ErrArithmeticOverflow, x.Dec(), y.Dec(), w.bits))
	}
	return z
}

func (w *wide) sub(x, y *uint256.Int) *uint256.Int {
	if w.err != nil {
		return new(uint256.Int)
	}
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return w.fail(fmt.Errorf("%w: %s - %s underflows", ErrArithmeticOverflow, x.Dec(), y.Dec()))
	}
	return z
}

func (w *wide) div(x, y *uint256.Int) *uint256.Int {
	if w.err != nil {
		return new(uint256.Int)
	}
	if y.IsZero() {
		return w.fail(fmt.Errorf("%w: division by zero", ErrDegenerateState))
	}
	return new(uint256.Int).Div(x, y)
}

// narrow converts z back to the u64 balance domain.
func (w *wide) narrow(z *uint256.Int) uint64 {
	if w.err != nil {
		return 0
	}
	if !z.IsUint64() {
		w.fail(fmt.Errorf("%w: %s does not fit in u64", ErrArithmeticOverflow, z.Dec()))
		return 0
	}
	return z.Uint64()
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func addU64(x, y uint64) (uint64, error) {
	z, overflow := math.SafeAdd(x, y)
	if overflow {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, x, y)
	}
	return z, nil
}

func subU64(x, y uint64) (uint64, error) {
	z, underflow := math.SafeSub(x, y)
	if underflow {
		return 0, fmt.Errorf("%w: %d - %d underflows", ErrArithmeticOverflow, x, y)
	}
	return z, nil
}

func mulU64(x, y uint64) (uint64, error) {
	z, overflow := math.SafeMul(x, y)
	if overflow {
		return 0, fmt.Errorf("%w: %d * %d", ErrArithmeticOverflow, x, y)
	}
	return z, nil
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
