/*
Package chain converts curves to flat numeric chains and chains to compact
ASCII tokens, and back.

A scaled chain lists

	sx sy ox oy  x0 y0  rx0 ry0 lx1 ly1 x1 y1  rx1 ry1 lx2 ly2 x2 y2 ...

i.e. scale and offset, the first anchor, and then six values per segment:
the outgoing handle of the segment's start, the incoming handle of its end,
and its end anchor. The left handle of the first point and the right handle
of the last point are never stored.

A token encodes every value v of a scaled chain as round(v ⋅ 10^7) in base 62,
prefixed by '-' if negative, and joins the fields with '-':

	fxSK-fxSK-0-0-0-0-KyjA-0-KyjA-fxSK-fxSK-fxSK
	-fxSK--fxSK-0-0-0-0-fxSK-fxSK-0-0-fxSK-fxSK     (scale = (-1,-1))

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package chain

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/base62"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

// ScaleFactor is the fixed-point factor applied to chain values before
// base-62 encoding. An earlier revision of the format used 10^6; such tokens
// are not compatible.
const ScaleFactor = querycurve.Precision

// HeaderLen is the number of scale and offset values leading a scaled chain.
const HeaderLen = 4

// SegmentLen is the number of chain values per segment.
const SegmentLen = 6

// Chain is a flat sequence of curve values. Depending on context it is
// either scaled (starting with scale and offset) or unscaled.
type Chain []float64

// Scale returns the scale of a scaled chain.
func (c Chain) Scale() querycurve.Pair {
	return querycurve.P(c[0], c[1])
}

// Offset returns the offset of a scaled chain.
func (c Chain) Offset() querycurve.Pair {
	return querycurve.P(c[2], c[3])
}

// N returns the number of points of a scaled chain, assuming a valid length.
func (c Chain) N() int {
	return (len(c)-HeaderLen-2)/SegmentLen + 1
}

// ValidateLength checks that c is a scaled chain of valid length: after
// removing scale, offset and the first point, the remaining number of values
// must be a multiple of 6.
func ValidateLength(c Chain) error {
	n := len(c) - HeaderLen - 2
	if n < 0 || n%SegmentLen != 0 {
		return fmt.Errorf("%w: %d values", querycurve.ErrChainLength, len(c))
	}
	return nil
}

// FromLegacy converts a scaled chain of the offset-less format (scale
// followed directly by the first point) to the current format, inserting a
// zero offset.
func FromLegacy(c Chain) (Chain, error) {
	n := len(c) - 2 - 2
	if n < 0 || n%SegmentLen != 0 {
		return nil, fmt.Errorf("%w: %d values in legacy chain", querycurve.ErrChainLength, len(c))
	}
	out := make(Chain, 0, len(c)+2)
	out = append(out, c[0], c[1], 0, 0)
	return append(out, c[2:]...), nil
}

// === Token encoding ========================================================

// Fixed-point magnitudes must fit into 64 bits.
const maxMagnitude float64 = 1 << 64

// Encode converts a chain to a token. Values which are not finite, or whose
// fixed-point magnitude does not fit into 64 bits (|v| ≥ 1.8⋅10^12), cannot be
// encoded and result in an error wrapping ErrInvalidValue.
func Encode(c Chain) (string, error) {
	var b strings.Builder
	for i, v := range c {
		n := math.Round(v * ScaleFactor)
		if math.IsNaN(n) || math.Abs(n) >= maxMagnitude {
			return "", fmt.Errorf("%w: chain value %d is %g, out of range for encoding",
				querycurve.ErrInvalidValue, i, v)
		}
		if i > 0 {
			b.WriteByte('-')
		}
		if n < 0 {
			b.WriteByte('-')
			n = -n
		}
		b.WriteString(base62.Encode(uint64(n)))
	}
	return b.String(), nil
}

// MustEncode is like Encode, but panics on values out of range.
func MustEncode(c Chain) string {
	token, err := Encode(c)
	if err != nil {
		panic(err)
	}
	return token
}

// Every field of a token, after prepending a '-' to the token, starts with
// '-' (positive) or '--' (negative).
var fieldPattern = regexp.MustCompile(`--?[0-9A-Za-z]+`)

// Decode converts a token to a chain. Malformed tokens, i.e. tokens containing
// characters other than base-62 digits and '-', or fields exceeding 64 bits,
// result in an empty chain, which will not pass ValidateLength.
func Decode(token string) Chain {
	for i := 0; i < len(token); i++ {
		if token[i] != '-' && !base62.IsDigit(token[i]) {
			tracer().Debugf("token contains invalid character %q at position %d", token[i], i)
			return Chain{}
		}
	}
	fields := fieldPattern.FindAllString("-"+token, -1)
	c := make(Chain, 0, len(fields))
	for _, field := range fields {
		negative := strings.HasPrefix(field, "--")
		n, err := base62.Decode(strings.TrimLeft(field, "-"))
		if err != nil {
			tracer().Debugf("cannot decode token field %q: %v", field, err)
			return Chain{}
		}
		v := float64(n) / ScaleFactor
		if negative {
			v = -v
		}
		c = append(c, v)
	}
	return c
}
