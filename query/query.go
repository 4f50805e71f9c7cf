/*
Package query evaluates curves: given a scaled chain (or its token) and an
external x, it returns the external y of the curve at x.

Within the segment containing x, the Bézier parameter t with x(t) = x is found
by Newton-Raphson iteration, with bisection as a fallback. The approach
follows Chromium's ui/gfx/geometry/cubic_bezier.cc.

All functions of this package are pure and safe for concurrent use.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package query

import (
	"fmt"
	"math"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/chain"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

const (
	newtonIterations    = 15
	newtonTolerance     = 1e-6
	minDerivative       = 1e-6
	bisectionIterations = 100
	bisectionTolerance  = 1e-6
	attempts            = 10
	tweakStep           = 0.0001
	zeroY               = 1e-15
)

// segment holds the 8 values x0 y0 x1 y1 x2 y2 x3 y3 of a cubic Bézier segment.
type segment []float64

// Query returns the external y for external x on the curve given by the
// scaled chain c. If x lies outside of the curve's domain, ok is false and
// err is nil. err is non-nil for invalid chains and inputs, and if no
// solution could be found for x.
func Query(c chain.Chain, x float64) (y float64, ok bool, err error) {
	if err = check(c, x); err != nil {
		return 0, false, err
	}
	ix := x/c[0] - c[2]
	first, last := chain.HeaderLen, len(c)-2
	if ix < c[first] || ix > c[last] {
		return 0, false, nil
	}
	// anchors hit exactly are answered without iteration, to make queries at
	// key points, such as the first and the last one, exact
	for i := first; i < len(c); i += chain.SegmentLen {
		if c[i] == ix {
			return external(c, c[i+1]), true, nil
		}
	}
	for i := first; i < len(c)-7; i += chain.SegmentLen {
		if ix >= c[i] && ix <= c[i+6] {
			return solve(c, segment(c[i:i+8]), ix)
		}
	}
	// not reachable for sorted chains
	return 0, false, fmt.Errorf("%w: no segment contains x=%g", querycurve.ErrNoConvergence, x)
}

// QueryEncoded decodes token and queries the curve at x.
func QueryEncoded(token string, x float64) (float64, bool, error) {
	return Query(chain.Decode(token), x)
}

func check(c chain.Chain, x float64) error {
	if err := chain.ValidateLength(c); err != nil {
		return err
	}
	if err := querycurve.CheckScale(c.Scale()); err != nil {
		return err
	}
	if math.IsNaN(x) {
		return querycurve.ErrInvalidValue
	}
	return nil
}

// external maps an internal y to external coordinates, normalizing -0 to 0.
func external(c chain.Chain, y float64) float64 {
	ey := (y + c[3]) * c[1]
	if ey == 0 {
		return 0
	}
	return ey
}

// solve finds y for internal x within seg. Both root finders are retried with
// the target slightly moved towards the curve's inner range, stepping around
// points where the derivative of x(t) vanishes.
func solve(c chain.Chain, seg segment, x float64) (float64, bool, error) {
	for a := 0; a < attempts; a++ {
		tweak := tweakStep * float64(a)
		target := x + tweak
		if x >= 1 {
			target = x - tweak
		}
		t, found := newton(seg, target)
		if !found {
			tracer().Debugf("Newton-Raphson did not converge for x=%g, bisecting", target)
			t, found = bisect(seg, target)
		}
		if !found {
			continue
		}
		if a > 0 {
			tracer().Debugf("found t=%g for x=%g after %d attempts", t, x, a+1)
		}
		_, y := seg.at(t)
		if math.Abs(y) < zeroY {
			y = 0
		}
		return external(c, y), true, nil
	}
	tracer().Errorf("no parameter found for x=%g on segment %v", x, []float64(seg))
	return 0, false, fmt.Errorf("%w: x=%g", querycurve.ErrNoConvergence, x)
}

// at evaluates the segment at t.
func (seg segment) at(t float64) (float64, float64) {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t
	a := mt2 * mt
	b := mt2 * t * 3
	c := mt * t2 * 3
	d := t * t2
	x := a*seg[0] + b*seg[2] + c*seg[4] + d*seg[6]
	y := a*seg[1] + b*seg[3] + c*seg[5] + d*seg[7]
	return x, y
}

// dxdt evaluates the derivative of x(t).
func (seg segment) dxdt(t float64) float64 {
	mt := 1 - t
	a := -3 * mt * mt
	b := 3 * mt * (mt - 2*t)
	c := 3 * t * (2*mt - t)
	d := 3 * t * t
	return a*seg[0] + b*seg[2] + c*seg[4] + d*seg[6]
}

// newton finds t with x(t) = x by Newton-Raphson iteration, starting at 0.5.
func newton(seg segment, x float64) (float64, bool) {
	t := 0.5
	for i := 1; ; i++ {
		xt, _ := seg.at(t)
		dx := seg.dxdt(t)
		diff := x - xt
		if math.Abs(dx) > minDerivative {
			t += diff / dx
		}
		t = math.Max(math.Min(t, 1), 0)
		if i > newtonIterations {
			return 0, false
		}
		if math.Abs(diff) <= newtonTolerance {
			return t, true
		}
	}
}

// bisect finds t with x(t) = x by bisecting [0,1].
func bisect(seg segment, x float64) (float64, bool) {
	a, b := 0.0, 1.0
	for i := 0; i < bisectionIterations; i++ {
		t := (a + b) / 2
		xt, _ := seg.at(t)
		if math.Abs(xt-x) <= bisectionTolerance {
			return t, true
		}
		xa, _ := seg.at(a)
		if (xt > x) != (xa > x) {
			b = t
		} else {
			a = t
		}
	}
	return 0, false
}
