package stableswap

import "errors"

var (
	// ErrInvalidInput reports arguments that make the computation ill-posed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNonConvergence reports a Newton loop that hit NewtonIterations.
	ErrNonConvergence = errors.New("did not converge")
	// ErrArithmeticOverflow reports an intermediate outside the representable range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	// ErrDegenerateState reports an internally inconsistent result, such as a
	// solved balance that implies a negative output.
	ErrDegenerateState = errors.New("degenerate pool state")
)

// ErrorKind returns a stable label for the sentinel wrapped by err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNonConvergence):
		return "non_convergence"
	case errors.Is(err, ErrArithmeticOverflow):
		return "arithmetic_overflow"
	case errors.Is(err, ErrDegenerateState):
		return "degenerate_state"
	default:
		return "unknown"
	}
}
