package querycurve

import "fmt"

// Range is an external axis interval [From, To]. Editing surfaces present
// ranges to users, while a curve stores scale and offset only.
type Range struct {
	From, To float64
}

// ScaleOffset derives the scale and (internal, unscaled) offset which map
// the internal interval [0,1] onto r:
//
//	scale = To − From,  offset = From / scale
func (r Range) ScaleOffset() (scale, offset float64, err error) {
	scale = r.To - r.From
	if scale == 0 {
		return 0, 0, fmt.Errorf("%w: empty range [%g,%g]", ErrZeroScale, r.From, r.To)
	}
	offset = r.From / scale
	tracer().Debugf("range [%g,%g] => scale=%g, offset=%g", r.From, r.To, scale, offset)
	return scale, offset, nil
}

// RangeOf recovers the external range from an offset and a scale.
func RangeOf(offset, scale float64) Range {
	from := offset * scale
	return Range{From: from, To: scale + from}
}

// ScaleOffsetOf combines the ranges of both axes into a scale and an offset.
func ScaleOffsetOf(x, y Range) (scale, offset Pair, err error) {
	sx, ox, err := x.ScaleOffset()
	if err != nil {
		return 0, 0, fmt.Errorf("x-axis: %w", err)
	}
	sy, oy, err := y.ScaleOffset()
	if err != nil {
		return 0, 0, fmt.Errorf("y-axis: %w", err)
	}
	return P(sx, sy), P(ox, oy), nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%g,%g]", r.From, r.To)
}
