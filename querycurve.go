/*
Package querycurve implements one-to-one curves built from connected cubic
Bézier segments, together with the numeric helpers shared by its
sub-packages: pairs, affine transformations, rounding to the encoding
precision, and axis ranges.

A curve is a function x ↦ y. It is stored in an internal, unscaled
coordinate space and mapped to external coordinates by

	external = (internal + offset) ⋅ scale

componentwise. Sub-packages provide the wire encoding (packages base62 and
chain), an invariant-preserving editor (package builder) and the evaluator
answering "which y belongs to this x" (package query).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package querycurve

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

var (
	// ErrZeroScale indicates a scale component of 0.
	ErrZeroScale = errors.New("scale cannot be 0")
	// ErrChainLength indicates a flat chain with an invalid number of values.
	ErrChainLength = errors.New("invalid chain length")
	// ErrIndexOutOfBounds indicates a point index outside of [0, N).
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrPointOrder indicates points out of ascending x-order.
	ErrPointOrder = errors.New("points must be ordered by x-coordinate")
	// ErrEmptyCurve indicates a curve without any points.
	ErrEmptyCurve = errors.New("curve has no points")
	// ErrNoConvergence indicates that no Bézier parameter could be found for an x.
	ErrNoConvergence = errors.New("failed to find y for x on curve")
	// ErrInvalidValue indicates a value which is not a number, or out of range.
	ErrInvalidValue = errors.New("value is not a valid number")
	// ErrInvalidToken indicates a malformed encoded chain.
	ErrInvalidToken = errors.New("curve is not valid")
)

// === Numeric Data Type =====================================================

// Precision is the number of steps per unit retained by the encoding:
// values are kept to 7 decimal digits.
const Precision float64 = 1e7

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 1 / Precision

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Round rounds n to the nearest multiple of 1/Precision, ties away from zero.
func Round(n float64) float64 {
	return math.Round(n*Precision) / Precision
}

// === Pair Data Type ========================================================

// Pair is a 2D-point or 2D-vector.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// F is a quick notation for getting float values from a pair.
func (p Pair) F() (float64, float64) {
	return real(p), imag(p)
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// WithX returns p with its x-part replaced.
func (p Pair) WithX(x float64) Pair {
	return P(x, p.Y())
}

// Mul multiplies componentwise.
func (p Pair) Mul(q Pair) Pair {
	return P(p.X()*q.X(), p.Y()*q.Y())
}

// Div divides componentwise.
func (p Pair) Div(q Pair) Pair {
	return P(p.X()/q.X(), p.Y()/q.Y())
}

// Round rounds both parts to the encoding precision.
func (p Pair) Round() Pair {
	return P(Round(p.X()), Round(p.Y()))
}

// IsNaN is a predicate: does p have a NaN or infinite part?
func (p Pair) IsNaN() bool {
	return cmplx.IsNaN(p.C()) || cmplx.IsInf(p.C())
}

// Equal compares two pairs within ε.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// === Affine Transformations ================================================

// AT is an axis-aligned affine transform, mapping p to p⋅Scale + Shift
// componentwise. Curves never need rotation or shearing.
type AT struct {
	Scale Pair
	Shift Pair
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	return AT{Scale: P(1, 1), Shift: p}
}

// Scaling transform. Scale a point by (sx,sy) relative to the origin.
func Scaling(s Pair) AT {
	return AT{Scale: s}
}

// Combine 2 affine transformations to a new one: m is applied first, then n.
func (m AT) Combine(n AT) AT {
	return AT{Scale: m.Scale.Mul(n.Scale), Shift: m.Shift.Mul(n.Scale) + n.Shift}
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	return p.Mul(m.Scale) + m.Shift
}

func (m AT) String() string {
	return fmt.Sprintf("[×%v +%v]", m.Scale, m.Shift)
}
