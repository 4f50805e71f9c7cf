/*
Package builder implements an editor for curves which keeps them valid
functions of x.

A Builder owns exactly one curve. Every mutation either leaves the curve in
a valid state or fails without touching it. Valid means:

  - points are sorted by ascending x and no two points are inserted at the
    same x,
  - the left handle of point i (i > 0) stays within [x.(i-1), x.i],
  - the right handle of point i (i < last) stays within [x.i, x.(i+1)],
  - no scale component is 0.

Positions may be given in internal or in external coordinates. External
positions are divided by the scale only; the offset is not applied to editor
input.

Builders are not safe for concurrent mutation.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package builder

import (
	"fmt"
	"math"
	"sort"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/chain"
	"github.com/npillmayer/querycurve/jhobby"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

// Pair is a 2D point or vector, see querycurve.Pair.
type Pair = querycurve.Pair

// Builder is a stateful editor over a single curve.
type Builder struct {
	curve querycurve.Curve
	conf  config
}

// New creates a builder for a copy of curve. Points of curve need not be
// sorted; they are loaded in ascending x, with handle bounds enforced, without
// notifying observers. Points sharing an x, as left behind by clamping, are
// kept in their given order.
func New(curve querycurve.Curve, opts ...Option) (*Builder, error) {
	if err := querycurve.CheckScale(curve.Scale); err != nil {
		return nil, err
	}
	b := &Builder{
		curve: querycurve.Curve{
			Points: make([]querycurve.Point, 0, len(curve.Points)),
			Scale:  curve.Scale,
			Offset: curve.Offset,
		},
		conf: newConfig(opts...),
	}
	b.load(curve.Points, false)
	return b, nil
}

// Must is a helper which panics if err is non-nil.
func Must(b *Builder, err error) *Builder {
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) checkIndex(i int) error {
	if i < 0 || i >= len(b.curve.Points) {
		return fmt.Errorf("%w: %d not in [0,%d)", querycurve.ErrIndexOutOfBounds, i, len(b.curve.Points))
	}
	return nil
}

func (b *Builder) toInternal(p Pair, external bool) Pair {
	if external {
		return p.Div(b.curve.Scale)
	}
	return p
}

// === Accessors =============================================================

// N returns the number of points.
func (b *Builder) N() int {
	return len(b.curve.Points)
}

// Point returns point i in internal coordinates. Panics if i is out of range.
func (b *Builder) Point(i int) querycurve.Point {
	return b.curve.Points[i]
}

// Points returns a copy of all points in internal coordinates.
func (b *Builder) Points() []querycurve.Point {
	pts := make([]querycurve.Point, len(b.curve.Points))
	copy(pts, b.curve.Points)
	return pts
}

// Scale returns the scale of the curve.
func (b *Builder) Scale() Pair {
	return b.curve.Scale
}

// Offset returns the offset of the curve.
func (b *Builder) Offset() Pair {
	return b.curve.Offset
}

// Curve returns a snapshot of the curve.
func (b *Builder) Curve() querycurve.Curve {
	return b.curve.Clone()
}

// ScaledPoint returns point i multiplied by the scale. The offset is not
// applied; see ExternalPoint. Panics if i is out of range.
func (b *Builder) ScaledPoint(i int) querycurve.Point {
	s := b.curve.Scale
	return b.curve.Points[i].Mapped(func(p Pair) Pair { return p.Mul(s) })
}

// ScaledPoints returns all points multiplied by the scale.
func (b *Builder) ScaledPoints() []querycurve.Point {
	pts := make([]querycurve.Point, len(b.curve.Points))
	for i := range pts {
		pts[i] = b.ScaledPoint(i)
	}
	return pts
}

// ExternalPoint returns point i in external coordinates, (p + offset) ⋅ scale,
// the convention of package query. Panics if i is out of range.
func (b *Builder) ExternalPoint(i int) querycurve.Point {
	return b.curve.Points[i].Mapped(b.curve.ToExternal)
}

// ExternalPoints returns all points in external coordinates.
func (b *Builder) ExternalPoints() []querycurve.Point {
	pts := make([]querycurve.Point, len(b.curve.Points))
	for i := range pts {
		pts[i] = b.ExternalPoint(i)
	}
	return pts
}

// Ranges returns the external ranges covered by internal coordinates [0,1].
func (b *Builder) Ranges() (x, y querycurve.Range) {
	s, o := b.curve.Scale, b.curve.Offset
	return querycurve.RangeOf(o.X(), s.X()), querycurve.RangeOf(o.Y(), s.Y())
}

// ScaledChain returns the curve as a scaled chain.
func (b *Builder) ScaledChain() (chain.Chain, error) {
	return chain.FromCurve(b.curve)
}

// Token returns the curve as an encoded chain. The token is the unit of
// undo history for editing surfaces.
func (b *Builder) Token() (string, error) {
	return chain.EncodeCurve(b.curve)
}

// Clone returns an independent builder with a copy of the curve and the
// same observers.
func (b *Builder) Clone() *Builder {
	return &Builder{curve: b.curve.Clone(), conf: b.conf}
}

// === Mutations =============================================================

// AddPoint inserts a point with default handles at position at. It returns
// the index of the new point, or false if a point with the same x exists.
func (b *Builder) AddPoint(at Pair, external bool) (int, bool) {
	return b.insert(querycurve.NewPoint(b.toInternal(at, external)), true)
}

// AddPointWithHandles inserts pt, including its handles. For external
// coordinates, anchor and handles are divided by the scale.
// It returns the index of the new point, or false if a point with the same x
// exists.
func (b *Builder) AddPointWithHandles(pt querycurve.Point, external bool) (int, bool) {
	if external {
		s := b.curve.Scale
		pt = pt.Mapped(func(p Pair) Pair { return p.Div(s) })
	}
	return b.insert(pt, true)
}

func (b *Builder) insert(pt querycurve.Point, notify bool) (int, bool) {
	x := pt.At.X()
	index := len(b.curve.Points)
	for i, p := range b.curve.Points {
		if p.At.X() == x {
			tracer().Debugf("ignoring point %s: x is already taken by point %d", pt.At, i)
			return 0, false
		}
		if p.At.X() > x {
			index = i
			break
		}
	}
	pts := append(b.curve.Points, querycurve.Point{})
	copy(pts[index+1:], pts[index:])
	pts[index] = pt
	b.curve.Points = pts
	changed := b.enforceBoundsWithNeighbors(index)
	if notify {
		b.pointAdded(index)
		b.pointChanged(index, true)
		b.neighborsChanged(index, changed)
	}
	return index, true
}

// load appends points to the curve in ascending x. Unlike insert, it keeps
// points with an x already present, so tokens of clamped curves load back
// unchanged.
func (b *Builder) load(points []querycurve.Point, notify bool) {
	sorted := make([]querycurve.Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.X() < sorted[j].At.X()
	})
	for _, pt := range sorted {
		b.curve.Points = append(b.curve.Points, pt)
		index := len(b.curve.Points) - 1
		changed := b.enforceBoundsWithNeighbors(index)
		if notify {
			b.pointAdded(index)
			b.pointChanged(index, true)
			b.neighborsChanged(index, changed)
		}
	}
}

// RemovePoint removes point i. Callers wanting to keep a minimum number of
// points have to check N() themselves.
func (b *Builder) RemovePoint(i int) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	b.curve.Points = append(b.curve.Points[:i], b.curve.Points[i+1:]...)
	b.pointRemoved(i)
	return nil
}

// SetPointPosition moves point i to pos. Its handles move along rigidly.
// Afterwards the bounds of the point and of its neighbors are enforced,
// clamping pos.x between the neighbors' x if necessary.
func (b *Builder) SetPointPosition(i int, pos Pair, external bool) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	pos = b.toInternal(pos, external)
	pt := &b.curve.Points[i]
	delta := pos - pt.At
	pt.At = pos
	pt.Handle[0] += delta
	pt.Handle[1] += delta
	changed := b.enforceBoundsWithNeighbors(i)
	b.pointChanged(i, false)
	b.neighborsChanged(i, changed)
	return nil
}

// SetHandlePosition moves the handle side (LeftHandle or RightHandle) of
// point i to pos and clamps it to its bounds.
func (b *Builder) SetHandlePosition(i int, side int, pos Pair, external bool) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	if side != querycurve.LeftHandle && side != querycurve.RightHandle {
		return fmt.Errorf("%w: handle %d", querycurve.ErrIndexOutOfBounds, side)
	}
	b.curve.Points[i].Handle[side] = b.toInternal(pos, external)
	b.enforceBounds(i)
	b.pointChanged(i, false)
	return nil
}

// SetScale sets the scale of the curve. If transformPoints is set, all
// internal coordinates are multiplied by the ratio new/old scale per axis.
// A negative x-ratio mirrors the curve; points are then re-ordered and their
// handles swapped to keep the curve sorted.
func (b *Builder) SetScale(scale Pair, transformPoints bool) error {
	if err := querycurve.CheckScale(scale); err != nil {
		return err
	}
	previous := b.curve.Scale
	b.curve.Scale = scale
	if !transformPoints {
		return nil
	}
	ratio := scale.Div(previous)
	pts := b.curve.Points
	for i := range pts {
		pts[i] = pts[i].Mapped(func(p Pair) Pair { return p.Mul(ratio) })
	}
	if ratio.X() < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
		for i := range pts {
			pts[i].Handle[0], pts[i].Handle[1] = pts[i].Handle[1], pts[i].Handle[0]
		}
	}
	tracer().Debugf("scale %s => %s, points transformed by %s", previous, scale, ratio)
	return nil
}

// SetOffset sets the (internal, unscaled) offset of the curve.
func (b *Builder) SetOffset(offset Pair) {
	b.curve.Offset = offset
}

// SetRanges sets scale and offset such that internal coordinates [0,1] map
// onto the external ranges x and y. Points are not transformed.
func (b *Builder) SetRanges(x, y querycurve.Range) error {
	scale, offset, err := querycurve.ScaleOffsetOf(x, y)
	if err != nil {
		return err
	}
	b.curve.Scale, b.curve.Offset = scale, offset
	return nil
}

// FromScaledChain replaces the curve by the one described by c. Observers
// see a removal for every old point, in order, followed by an insertion for
// every new point. Points sharing an x are kept. On error the builder is left
// unchanged.
func (b *Builder) FromScaledChain(c chain.Chain) error {
	curve, err := chain.ToCurve(c)
	if err != nil {
		return err
	}
	if err = querycurve.CheckScale(curve.Scale); err != nil {
		return err
	}
	previous := len(b.curve.Points)
	b.curve.Points = make([]querycurve.Point, 0, len(curve.Points))
	for i := 0; i < previous; i++ {
		b.pointRemoved(i)
	}
	b.load(curve.Points, true)
	b.curve.Scale, b.curve.Offset = curve.Scale, curve.Offset
	tracer().Debugf("replaced %d points by %d points from chain", previous, len(curve.Points))
	return nil
}

// FromEncodedChain replaces the curve by the one encoded in token.
func (b *Builder) FromEncodedChain(token string) error {
	if err := b.FromScaledChain(chain.Decode(token)); err != nil {
		return fmt.Errorf("decoding %q: %w", token, err)
	}
	return nil
}

// Smooth replaces all handles by the control points of a Hobby spline
// through the anchors, then clamps them to their bounds. Every point is
// reported as changed. Curves with less than 2 points are left unchanged.
func (b *Builder) Smooth() error {
	n := len(b.curve.Points)
	if n < 2 {
		return nil
	}
	knots := make([]Pair, n)
	for i, pt := range b.curve.Points {
		knots[i] = pt.At
	}
	pre, post, err := jhobby.FindControls(knots)
	if err != nil {
		return err
	}
	for i := range b.curve.Points {
		if i > 0 {
			b.curve.Points[i].Handle[querycurve.LeftHandle] = pre[i]
		}
		if i < n-1 {
			b.curve.Points[i].Handle[querycurve.RightHandle] = post[i]
		}
		b.enforceBounds(i)
	}
	for i := range b.curve.Points {
		b.pointChanged(i, false)
	}
	return nil
}

// === Boundary enforcement ==================================================

// enforceBounds clamps point i between its neighbors, moves its handles
// along with it, and clamps the handles to their segments. It reports
// whether anything changed.
func (b *Builder) enforceBounds(i int) bool {
	pts := b.curve.Points
	last := len(pts) - 1
	original := pts[i]
	pt := original
	x := pt.At.X()
	lo, hi := x, x
	if i > 0 {
		lo = pts[i-1].At.X()
	}
	if i < last {
		hi = pts[i+1].At.X()
	}
	pt.At = pt.At.WithX(math.Max(lo, math.Min(hi, x)))
	// handles follow the point before they are clamped themselves
	delta := pt.At - original.At
	pt.Handle[0] += delta
	pt.Handle[1] += delta
	if i > 0 {
		h := pt.Handle[0]
		pt.Handle[0] = h.WithX(math.Min(math.Max(pts[i-1].At.X(), h.X()), pt.At.X()))
	}
	if i < last {
		h := pt.Handle[1]
		pt.Handle[1] = h.WithX(math.Max(math.Min(pts[i+1].At.X(), h.X()), pt.At.X()))
	}
	pts[i] = pt
	if pt != original {
		tracer().Debugf("point %d clamped from %s to %s", i, original, pt)
		return true
	}
	return false
}

// enforceBoundsWithNeighbors enforces the bounds of point i, then of its
// predecessor, then of its successor. The edited point goes first, so its
// neighbors cannot push it away from its intended position.
// Returns whether predecessor and successor changed.
func (b *Builder) enforceBoundsWithNeighbors(i int) (changed [2]bool) {
	b.enforceBounds(i)
	if i-1 >= 0 {
		changed[0] = b.enforceBounds(i - 1)
	}
	if i+1 < len(b.curve.Points) {
		changed[1] = b.enforceBounds(i + 1)
	}
	return changed
}

func (b *Builder) neighborsChanged(i int, changed [2]bool) {
	if changed[0] {
		b.pointChanged(i-1, false)
	}
	if changed[1] {
		b.pointChanged(i+1, false)
	}
}
