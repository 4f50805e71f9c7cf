// Package jhobby finds smooth Bézier handles for a sequence of anchors. It
// provides an implementation of John Hobby's spline interpolation algorithm
// for open paths.
/*

Spline interpolation by Hobby's algorithm results in aesthetically pleasing
curves superior to "normal" spline interpolation (as used in many graphics
programs). The primary source of information for "Hobby-splines" is:

   Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
   Computer Science Dept. Stanford University
   Report No. STAN-CS-85-1047, Jan 1985
   http://i.stanford.edu/pub/cstr/reports/cs/tr/85/1047/CS-TR-85-1047.pdf

The practical algorithm is explained in

   Computers & Typesetting, Vol. B & D.
   http://www-cs-faculty.stanford.edu/~knuth/abcde.html

Curves edited with package builder are open paths through anchors of
ascending x. This package restricts itself to that case: every knot is a
smooth knot, all tensions are 1 and both ends have curl 1, i.e. MetaFont's

   z0 .. z1 .. z2 .. ... .. zn

FindControls returns, for every knot, the incoming (pre) and outgoing (post)
control point:

   pre, post, err := FindControls([]querycurve.Pair{P(0,0), P(1,1), P(2,0)})

Control points are not clamped; callers keeping a curve a function of x
have to clamp them (see builder.Smooth).

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package jhobby

import (
	"errors"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

const _epsilon = 0.0000001

var (
	// ErrTooFewKnots indicates path knot count is insufficient for solving.
	ErrTooFewKnots = errors.New("path has too few knots")
	// ErrInvalidKnot indicates a knot coordinate contains NaN/Inf.
	ErrInvalidKnot = errors.New("path has invalid knot coordinate")
	// ErrDegenerateSegment indicates two consecutive knots collapse to one point.
	ErrDegenerateSegment = errors.New("path has degenerate segment")
)

type pair = querycurve.Pair
