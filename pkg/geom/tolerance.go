package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTolerance is returned when constructing a tolerance that is zero,
// negative, or not a finite number.
var ErrInvalidTolerance = errors.New("tolerance must be a finite value greater than zero")

// Tolerance is the scalar epsilon used for all coincidence and parallelism
// comparisons in the kernel. It is always passed explicitly; no algorithm in
// this module defaults it silently.
type Tolerance float64

// NewTolerance constructs a Tolerance, rejecting non-positive or non-finite
// values.
func NewTolerance(s float64) (Tolerance, error) {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidTolerance, s)
	}
	return Tolerance(s), nil
}

// MustTolerance is NewTolerance for constants known to be valid at the call
// site. It panics on invalid input and is intended for tests and fixed
// configuration values.
func MustTolerance(s float64) Tolerance {
	t, err := NewTolerance(s)
	if err != nil {
		panic(err)
	}
	return t
}

// F returns the tolerance as a float64.
func (t Tolerance) F() float64 {
	return float64(t)
}

// Zero reports whether x is zero within the tolerance.
func (t Tolerance) Zero(x float64) bool {
	return math.Abs(x) <= float64(t)
}

// Equal reports whether a and b coincide within the tolerance.
func (t Tolerance) Equal(a, b float64) bool {
	return math.Abs(a-b) <= float64(t)
}
