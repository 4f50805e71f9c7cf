/*
Package polygon approximates curves by polygons and clips them, e.g. to
measure the area between a curve and a baseline within an x-interval.

Polygons are built fluently:

	pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()

Clipping is done by github.com/akavel/polyclip-go.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"errors"
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the graphics tracer.
func L() tracing.Trace {
	return tracing.Select("graphics")
}

// Pair is a 2D point or vector, see querycurve.Pair.
type Pair = querycurve.Pair

// ErrTooFewPoints indicates a curve which does not span an area.
var ErrTooFewPoints = errors.New("curve needs at least 2 points to span a polygon")

// Polygon is a sequence of knots, optionally closed.
type Polygon struct {
	knots []Pair
	cycle bool
}

// NullPolygon creates an empty polygon.
func NullPolygon() *Polygon {
	return &Polygon{knots: make([]Pair, 0, 8)}
}

// Knot appends a knot. A knot equal to the previous one is dropped.
func (pg *Polygon) Knot(p Pair) *Polygon {
	if n := len(pg.knots); n > 0 && pg.knots[n-1].Equal(p) {
		return pg
	}
	pg.knots = append(pg.knots, p)
	return pg
}

// Cycle closes the polygon. A last knot equal to the first one is dropped.
func (pg *Polygon) Cycle() *Polygon {
	if n := len(pg.knots); n > 1 && pg.knots[n-1].Equal(pg.knots[0]) {
		pg.knots = pg.knots[:n-1]
	}
	pg.cycle = true
	return pg
}

// IsCycle is a predicate: is pg closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.knots)
}

// Z returns knot i. For cycles, i wraps around.
func (pg *Polygon) Z(i int) Pair {
	if pg.cycle {
		n := len(pg.knots)
		i = ((i % n) + n) % n
	}
	return pg.knots[i]
}

// Bounds returns the lower left and upper right corners of the bounding box.
func (pg *Polygon) Bounds() (ll, ur Pair) {
	if len(pg.knots) == 0 {
		return querycurve.Origin, querycurve.Origin
	}
	x0, y0 := pg.knots[0].F()
	x1, y1 := x0, y0
	for _, z := range pg.knots[1:] {
		x0, x1 = math.Min(x0, z.X()), math.Max(x1, z.X())
		y0, y1 = math.Min(y0, z.Y()), math.Max(y1, z.Y())
	}
	return querycurve.P(x0, y0), querycurve.P(x1, y1)
}

// Box creates a rectangle from two opposite corners.
func Box(p1, p2 Pair) *Polygon {
	x0, x1 := math.Min(p1.X(), p2.X()), math.Max(p1.X(), p2.X())
	y0, y1 := math.Min(p1.Y(), p2.Y()), math.Max(p1.Y(), p2.Y())
	return NullPolygon().Knot(querycurve.P(x0, y0)).Knot(querycurve.P(x1, y0)).
		Knot(querycurve.P(x1, y1)).Knot(querycurve.P(x0, y1)).Cycle()
}

// AsString returns a polygon in MetaPost-like notation.
func AsString(pg *Polygon) string {
	var b strings.Builder
	for i, z := range pg.knots {
		if i > 0 {
			b.WriteString(" -- ")
		}
		b.WriteString(z.String())
	}
	if pg.cycle {
		b.WriteString(" -- cycle")
	}
	return b.String()
}

// Area returns the (unsigned) area enclosed by a closed polygon, using the
// shoelace formula. Open polygons have area 0.
func (pg *Polygon) Area() float64 {
	if !pg.cycle || len(pg.knots) < 3 {
		return 0
	}
	var a float64
	for i := range pg.knots {
		z, w := pg.Z(i), pg.Z(i+1)
		a += z.X()*w.Y() - w.X()*z.Y()
	}
	return math.Abs(a) / 2
}

// FromCurve samples every segment of curve at steps+1 parameters and returns
// the closed polygon bounded by the curve and the horizontal line
// y = baseline, in external coordinates.
func FromCurve(curve querycurve.Curve, baseline float64, steps int) (*Polygon, error) {
	if curve.N() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, curve.N())
	}
	if steps < 1 {
		steps = 1
	}
	at := curve.ExternalTransform()
	first := at.Transform(curve.Points[0].At)
	last := at.Transform(curve.Points[curve.N()-1].At)
	pg := NullPolygon().Knot(querycurve.P(first.X(), baseline))
	for i := 0; i < curve.N()-1; i++ {
		seg := curve.Segment(i)
		for s := 0; s <= steps; s++ {
			pg.Knot(at.Transform(querycurve.Eval(seg, float64(s)/float64(steps))))
		}
	}
	pg.Knot(querycurve.P(last.X(), baseline)).Cycle()
	L().Debugf("curve polygon with %d knots", pg.N())
	return pg, nil
}

// Clip intersects pg with window. The result may consist of several
// polygons.
func Clip(pg, window *Polygon) []*Polygon {
	result := toPolyclip(pg).Construct(polyclip.INTERSECTION, toPolyclip(window))
	clipped := make([]*Polygon, 0, len(result))
	for _, contour := range result {
		cp := NullPolygon()
		for _, pt := range contour {
			cp.Knot(querycurve.P(pt.X, pt.Y))
		}
		clipped = append(clipped, cp.Cycle())
	}
	L().Debugf("clipping resulted in %d polygon(s)", len(clipped))
	return clipped
}

// TotalArea sums the areas of polygons.
func TotalArea(pgs []*Polygon) float64 {
	var a float64
	for _, pg := range pgs {
		a += pg.Area()
	}
	return a
}

func toPolyclip(pg *Polygon) polyclip.Polygon {
	contour := make(polyclip.Contour, len(pg.knots))
	for i, z := range pg.knots {
		contour[i] = polyclip.Point{X: z.X(), Y: z.Y()}
	}
	return polyclip.Polygon{contour}
}
