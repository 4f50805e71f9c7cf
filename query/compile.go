package query

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/chain"
)

// Func queries a compiled curve. Results are identical to those of Query on
// the chain the Func was compiled from.
type Func func(x float64) (y float64, ok bool, err error)

// Compile decodes token once and returns a Func for repeated queries on it.
// Malformed tokens and zero scales are reported here rather than per query.
func Compile(token string) (Func, error) {
	f, err := CompileChain(chain.Decode(token))
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", token, err)
	}
	return f, nil
}

// CompileChain returns a Func for repeated queries on c. The Func keeps its
// own copy of c. Segments are found via an ordered index of their start
// x-coordinates instead of by a linear scan.
func CompileChain(c chain.Chain) (Func, error) {
	if err := check(c, 0); err != nil {
		return nil, err
	}
	c = append(chain.Chain(nil), c...)
	if !sorted(c) {
		// the index cannot reproduce the linear scan for unsorted anchors
		tracer().Infof("chain is not sorted by x, compiled queries scan linearly")
		return func(x float64) (float64, bool, error) {
			return Query(c, x)
		}, nil
	}
	idx := newIndex(c)
	return idx.query, nil
}

func sorted(c chain.Chain) bool {
	for i := chain.HeaderLen + chain.SegmentLen; i < len(c); i += chain.SegmentLen {
		if c[i] < c[i-chain.SegmentLen] {
			return false
		}
	}
	return true
}

// index holds a compiled chain.
type index struct {
	c        chain.Chain
	anchors  map[float64]float64 // x → y of the first anchor at x
	segments *treemap.Map        // start x → offset of segment in c
}

func newIndex(c chain.Chain) *index {
	idx := &index{
		c:        c,
		anchors:  make(map[float64]float64, c.N()),
		segments: treemap.NewWith(utils.Float64Comparator),
	}
	for i := chain.HeaderLen; i < len(c); i += chain.SegmentLen {
		if _, ok := idx.anchors[c[i]]; !ok {
			idx.anchors[c[i]] = c[i+1]
		}
		if i < len(c)-7 {
			// later segments starting at the same x win, as only they may
			// have a non-empty x-extent
			idx.segments.Put(c[i], i)
		}
	}
	return idx
}

func (idx *index) query(x float64) (float64, bool, error) {
	if math.IsNaN(x) {
		return 0, false, querycurve.ErrInvalidValue
	}
	c := idx.c
	ix := x/c[0] - c[2]
	if ix < c[chain.HeaderLen] || ix > c[len(c)-2] {
		return 0, false, nil
	}
	if y, ok := idx.anchors[ix]; ok {
		return external(c, y), true, nil
	}
	_, v := idx.segments.Floor(ix)
	if v == nil {
		return 0, false, fmt.Errorf("%w: no segment contains x=%g", querycurve.ErrNoConvergence, x)
	}
	i := v.(int)
	return solve(c, segment(c[i:i+8]), ix)
}
