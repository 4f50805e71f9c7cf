package chain

import (
	"fmt"

	"github.com/npillmayer/querycurve"
)

// Unscaled converts the points of a curve to an unscaled chain. Every value
// is rounded to 7 decimal digits, so floating point drift does not survive
// into the encoding.
func Unscaled(curve querycurve.Curve) Chain {
	if curve.N() == 0 {
		return Chain{}
	}
	r := querycurve.Round
	c := make(Chain, 0, 2+SegmentLen*(curve.N()-1))
	for i := 0; i < curve.N()-1; i++ {
		pt, next := curve.Points[i], curve.Points[i+1]
		// the end point of a segment is the start point of the next one
		c = append(c, r(pt.At.X()), r(pt.At.Y()),
			r(pt.Right().X()), r(pt.Right().Y()),
			r(next.Left().X()), r(next.Left().Y()))
	}
	last := curve.Points[curve.N()-1]
	return append(c, r(last.At.X()), r(last.At.Y()))
}

// FromCurve converts a curve to a scaled chain: scale and offset, followed by
// the unscaled chain.
func FromCurve(curve querycurve.Curve) (Chain, error) {
	if curve.N() == 0 {
		return nil, querycurve.ErrEmptyCurve
	}
	c := Chain{curve.Scale.X(), curve.Scale.Y(), curve.Offset.X(), curve.Offset.Y()}
	return append(c, Unscaled(curve)...), nil
}

// ToCurve converts a scaled chain to a curve. The handles not stored in the
// chain are set to sentinel values: the left handle of the first point to
// (-1, y0), the right handle of the last point to (2, yN).
func ToCurve(c Chain) (querycurve.Curve, error) {
	if err := ValidateLength(c); err != nil {
		return querycurve.Curve{}, err
	}
	curve := querycurve.Curve{
		Points: make([]querycurve.Point, c.N()),
		Scale:  c.Scale(),
		Offset: c.Offset(),
	}
	at := func(i int) querycurve.Pair {
		return querycurve.P(c[i], c[i+1])
	}
	first := HeaderLen
	curve.Points[0].At = at(first)
	curve.Points[0].Handle[querycurve.LeftHandle] = querycurve.P(querycurve.FirstLeftHandleX, c[first+1])
	for i := 1; i < c.N(); i++ {
		seg := first + 2 + (i-1)*SegmentLen
		curve.Points[i-1].Handle[querycurve.RightHandle] = at(seg)
		curve.Points[i].Handle[querycurve.LeftHandle] = at(seg + 2)
		curve.Points[i].At = at(seg + 4)
	}
	last := &curve.Points[c.N()-1]
	last.Handle[querycurve.RightHandle] = querycurve.P(querycurve.LastRightHandleX, last.At.Y())
	return curve, nil
}

// EncodeCurve converts a curve to a token.
func EncodeCurve(curve querycurve.Curve) (string, error) {
	c, err := FromCurve(curve)
	if err != nil {
		return "", err
	}
	return Encode(c)
}

// DecodeCurve converts a token to a curve.
func DecodeCurve(token string) (querycurve.Curve, error) {
	curve, err := ToCurve(Decode(token))
	if err != nil {
		return curve, fmt.Errorf("decoding %q: %w", token, err)
	}
	return curve, nil
}

// MustDecodeCurve is a compatibility helper which panics on malformed tokens.
func MustDecodeCurve(token string) querycurve.Curve {
	curve, err := DecodeCurve(token)
	if err != nil {
		panic(err)
	}
	return curve
}
