package querycurve

import (
	"fmt"
	"math"
	"strings"
)

// Handle sides of a point.
const (
	LeftHandle  = 0 // incoming handle, belongs to the segment ending at the point
	RightHandle = 1 // outgoing handle, belongs to the segment starting at the point
)

// Sentinel x-coordinates for the handles which are never stored in a chain:
// the left handle of the first point and the right handle of the last point.
const (
	FirstLeftHandleX = -1.0
	LastRightHandleX = 2.0
)

// DefaultHandleReach is the x-distance of handles created for a point
// added without handles.
const DefaultHandleReach = 0.05

// Point is an anchor of a curve together with its two Bézier handles.
// Handles are expressed in the same (internal) coordinate space as the anchor.
type Point struct {
	At     Pair    // anchor on the curve
	Handle [2]Pair // LeftHandle and RightHandle
}

// NewPoint creates a point with default handles to the left and right of
// the anchor.
func NewPoint(at Pair) Point {
	return Point{
		At: at,
		Handle: [2]Pair{
			P(at.X()-DefaultHandleReach, at.Y()),
			P(at.X()+DefaultHandleReach, at.Y()),
		},
	}
}

// Left returns the incoming handle.
func (pt Point) Left() Pair {
	return pt.Handle[LeftHandle]
}

// Right returns the outgoing handle.
func (pt Point) Right() Pair {
	return pt.Handle[RightHandle]
}

// Translated returns pt with anchor and handles moved by v.
func (pt Point) Translated(v Pair) Point {
	return Point{At: pt.At + v, Handle: [2]Pair{pt.Handle[0] + v, pt.Handle[1] + v}}
}

// Mapped returns pt with anchor and handles transformed by f.
func (pt Point) Mapped(f func(Pair) Pair) Point {
	return Point{At: f(pt.At), Handle: [2]Pair{f(pt.Handle[0]), f(pt.Handle[1])}}
}

func (pt Point) String() string {
	return fmt.Sprintf("%s{%s,%s}", pt.At, pt.Handle[0], pt.Handle[1])
}

// Curve is a one-to-one curve made of cubic Bézier segments between
// consecutive points. Points are ordered by ascending x.
//
// Internal coordinates map to external coordinates by (p + Offset) ⋅ Scale.
type Curve struct {
	Points []Point
	Scale  Pair
	Offset Pair
}

// NewCurve creates an empty curve with unit scale and zero offset.
func NewCurve() Curve {
	return Curve{Scale: P(1, 1)}
}

// N returns the number of points.
func (c Curve) N() int {
	return len(c.Points)
}

// Clone returns a deep copy of c.
func (c Curve) Clone() Curve {
	cc := c
	if c.Points != nil {
		cc.Points = make([]Point, len(c.Points))
		copy(cc.Points, c.Points)
	}
	return cc
}

// CheckScale returns ErrZeroScale if a component of s is 0.
func CheckScale(s Pair) error {
	if s.X() == 0 || s.Y() == 0 {
		return fmt.Errorf("%w: %s", ErrZeroScale, s)
	}
	return nil
}

// Validate checks the scale and the ordering of points by ascending
// x-coordinate. Points may be stacked onto the same x.
func (c Curve) Validate() error {
	if err := CheckScale(c.Scale); err != nil {
		return err
	}
	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].At.X() < c.Points[i-1].At.X() {
			return fmt.Errorf("%w: point %d at x=%g precedes point %d at x=%g", ErrPointOrder,
				i-1, c.Points[i-1].At.X(), i, c.Points[i].At.X())
		}
	}
	return nil
}

// ToExternal maps an internal pair to external coordinates.
func (c Curve) ToExternal(p Pair) Pair {
	return (p + c.Offset).Mul(c.Scale)
}

// ToInternal maps an external pair to internal coordinates.
func (c Curve) ToInternal(p Pair) Pair {
	return p.Div(c.Scale) - c.Offset
}

// ExternalTransform returns the affine transform from internal to external
// coordinates. It equals ToExternal up to floating point rounding.
func (c Curve) ExternalTransform() AT {
	return Translation(c.Offset).Combine(Scaling(c.Scale))
}

// Segment returns the Bézier control points (p0, c1, c2, p3) of the segment
// between points i and i+1.
func (c Curve) Segment(i int) [4]Pair {
	a, b := c.Points[i], c.Points[i+1]
	return [4]Pair{a.At, a.Right(), b.Left(), b.At}
}

// Eval evaluates a cubic Bézier segment at t using the Bernstein basis.
func Eval(seg [4]Pair, t float64) Pair {
	mt := 1 - t
	a := mt * mt * mt
	b := mt * mt * t * 3
	c := mt * t * t * 3
	d := t * t * t
	x := a*seg[0].X() + b*seg[1].X() + c*seg[2].X() + d*seg[3].X()
	y := a*seg[0].Y() + b*seg[1].Y() + c*seg[2].Y() + d*seg[3].Y()
	return P(x, y)
}

// String returns the curve in a MetaPost-like notation:
//
//	(0,0) .. controls (0.5000,0.0000) and (0.5000,1.0000) .. (1,1)
func (c Curve) String() string {
	var b strings.Builder
	for i, pt := range c.Points {
		if i > 0 {
			fmt.Fprintf(&b, " and %s .. ", ptstring(pt.Left(), true))
		}
		b.WriteString(ptstring(pt.At, false))
		if i < len(c.Points)-1 {
			fmt.Fprintf(&b, " .. controls %s", ptstring(pt.Right(), true))
		}
	}
	return b.String()
}

func ptstring(p Pair, iscontrol bool) string {
	if p.IsNaN() {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round4(p.X()), round4(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round4(p.X()), round4(p.Y()))
}

func round4(x float64) float64 {
	return math.Round(x*10000.0) / 10000.0
}
