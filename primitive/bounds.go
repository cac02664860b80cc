package primitive

import "cmp"

// Bounds is an ordered {lower, upper} pair. Normalized values keep
// Upper >= Lower.
type Bounds[T cmp.Ordered] struct {
	Lower T
	Upper T
}

func (b Bounds[T]) IsNormalized() bool { return b.Upper >= b.Lower }

// Normalized swaps the endpoints if they are out of order.
func (b Bounds[T]) Normalized() Bounds[T] {
	if b.Upper < b.Lower {
		return Bounds[T]{Lower: b.Upper, Upper: b.Lower}
	}
	return b
}

// ClampUpper raises Upper to Lower when it is below it.
func (b Bounds[T]) ClampUpper() Bounds[T] {
	if b.Upper < b.Lower {
		b.Upper = b.Lower
	}
	return b
}

// ClampLower lowers Lower to Upper when it is above it.
func (b Bounds[T]) ClampLower() Bounds[T] {
	if b.Lower > b.Upper {
		b.Lower = b.Upper
	}
	return b
}

func (b Bounds[T]) Contains(v T) bool {
	return v >= b.Lower && v <= b.Upper
}
