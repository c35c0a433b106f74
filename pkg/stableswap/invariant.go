package stableswap

import "fmt"

// CalcD solves the two-token StableSwap invariant
//
//	A·n^n·S + D = A·D·n^n + D^(n+1) / (n^n·P)
//
// for D by Newton's method, starting from D = bal0 + bal1.
//
// Each step evaluates
//
//	D_P = D·D / (2·bal0) · D / (2·bal1)
//	D'  = (Ann·S + 2·D_P)·D / ((Ann - 1)·D + 3·D_P)
//
// in the same operation order and 128-bit width as the program, and stops once
// |D' - D| <= 1. An empty pool yields zero.
func CalcD(bal0, bal1, amp uint64) (uint64, error) {
	if amp == 0 {
		return 0, fmt.Errorf("%w: amp must be positive", ErrInvalidInput)
	}
	s, err := addU64(bal0, bal1)
	if err != nil {
		return 0, err
	}
	if s == 0 {
		return 0, nil
	}
	if bal0 == 0 || bal1 == 0 {
		return 0, fmt.Errorf("%w: one-sided balances (%d, %d)", ErrInvalidInput, bal0, bal1)
	}

	ann, err := mulU64(amp, nCoinsPow)
	if err != nil {
		return 0, err
	}
	x2, err := mulU64(bal0, 2)
	if err != nil {
		return 0, err
	}
	y2, err := mulU64(bal1, 2)
	if err != nil {
		return 0, err
	}

	w := newWide(programBits)
	annS := w.mul(u(ann), u(s))
	annLessOne := u(ann - 1)

	d := s
	for i := 0; i < NewtonIterations; i++ {
		dw := u(d)

		dp := w.div(w.mul(dw, dw), u(x2))
		dp = w.div(w.mul(dp, dw), u(y2))

		num := w.mul(w.add(annS, w.mul(dp, u(2))), dw)
		denom := w.add(w.mul(annLessOne, dw), w.mul(dp, u(3)))

		next := w.narrow(w.div(num, denom))
		if w.err != nil {
			return 0, w.err
		}

		if absDiff(next, d) <= 1 {
			return next, nil
		}
		d = next
	}

	return 0, fmt.Errorf("%w: invariant D for (%d, %d, amp %d) after %d iterations",
		ErrNonConvergence, bal0, bal1, amp, NewtonIterations)
}

// CalcY solves for the balance of the other token given the updated input
// balance newBalIn and an invariant D held constant across the trade:
//
//	c  = D·D / (2·x) · D / (2·Ann)
//	b  = x + D / Ann
//	y' = (y² + c) / (2y + b - D)
//
// starting from y = D, with the same tolerance and iteration cap as CalcD.
func CalcY(newBalIn, d, amp uint64) (uint64, error) {
	if newBalIn == 0 {
		return 0, fmt.Errorf("%w: updated balance is zero", ErrInvalidInput)
	}
	if amp == 0 {
		return 0, fmt.Errorf("%w: amp must be positive", ErrInvalidInput)
	}

	ann, err := mulU64(amp, nCoinsPow)
	if err != nil {
		return 0, err
	}
	x2, err := mulU64(newBalIn, 2)
	if err != nil {
		return 0, err
	}
	ann2, err := mulU64(ann, 2)
	if err != nil {
		return 0, err
	}
	b, err := addU64(newBalIn, d/ann)
	if err != nil {
		return 0, err
	}

	w := newWide(programBits)
	dw := u(d)
	c := w.div(w.mul(dw, dw), u(x2))
	c = w.div(w.mul(c, dw), u(ann2))
	if w.err != nil {
		return 0, w.err
	}

	y := d
	for i := 0; i < NewtonIterations; i++ {
		yw := u(y)
		num := w.add(w.mul(yw, yw), c)

		twoY, err := mulU64(y, 2)
		if err != nil {
			return 0, err
		}
		denom, err := addU64(twoY, b)
		if err != nil {
			return 0, err
		}
		denom, err = subU64(denom, d)
		if err != nil {
			return 0, err
		}

		next := w.narrow(w.div(num, u(denom)))
		if w.err != nil {
			return 0, w.err
		}

		if absDiff(next, y) <= 1 {
			return next, nil
		}
		y = next
	}

	return 0, fmt.Errorf("%w: balance y for (x %d, D %d, amp %d) after %d iterations",
		ErrNonConvergence, newBalIn, d, amp, NewtonIterations)
}
