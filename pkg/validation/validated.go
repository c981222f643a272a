package validation

// Validated wraps a shape that passed validation. The only way to obtain one
// is through this package's validate functions, so holding a Validated[T] is
// proof the checks ran and found nothing. Consumers that require valid input
// take Validated[T] instead of T.
type Validated[T any] struct {
	inner T
}

// Inner returns the certified shape.
func (v Validated[T]) Inner() T {
	return v.inner
}
