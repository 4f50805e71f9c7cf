/*
Package sheets adapts the curve evaluator to spreadsheet custom functions of
the form

	=QUERYCURVE(value, curve)

Cells deliver loosely typed values: numbers may arrive as strings, tokens as
anything. The adapter parses the input, validates the token and calls
package query.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package sheets

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/query"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

// A token has at least 4 fields (the scale and the offset). As for decoding,
// a '-' is prepended before matching.
var tokenPattern = regexp.MustCompile(`^(?:--?[A-Za-z0-9]+){4,}$`)

// Leading part of a string which is accepted as a number.
var numberPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// Validate checks the shape of a token cell. It does not check the number
// of fields beyond the minimum of 4; see chain.ValidateLength.
func Validate(curve any) (string, error) {
	token, ok := curve.(string)
	if !ok {
		return "", fmt.Errorf("%w: curve must be a string, is %T", querycurve.ErrInvalidToken, curve)
	}
	if len(token) == 0 {
		return "", fmt.Errorf("%w: curve cannot be empty", querycurve.ErrInvalidToken)
	}
	if !tokenPattern.MatchString("-" + token) {
		return "", querycurve.ErrInvalidToken
	}
	return token, nil
}

// ParseValue converts a cell value to a number. Strings are parsed leniently:
// the longest leading part forming a number counts, the rest is ignored,
// i.e. "12.5kg" is 12.5.
func ParseValue(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return parseNumber(v)
	case fmt.Stringer:
		return parseNumber(v.String())
	}
	return math.NaN(), fmt.Errorf("%w: cannot use %T as a number", querycurve.ErrInvalidValue, value)
}

func parseNumber(s string) (float64, error) {
	prefix := numberPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return math.NaN(), fmt.Errorf("%w: %q", querycurve.ErrInvalidValue, s)
	}
	switch prefix {
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// out of range; ParseFloat still returns ±Inf
		tracer().Debugf("number %q out of range", prefix)
	}
	return n, nil
}

// QueryCurve implements =QUERYCURVE(value, curve) with token validation.
// ok is false if value lies outside of the curve's domain; spreadsheets show
// an empty cell then.
func QueryCurve(value, curve any) (y float64, ok bool, err error) {
	token, err := Validate(curve)
	if err != nil {
		return 0, false, err
	}
	return QueryCurveUnchecked(value, token)
}

// QueryCurveUnchecked implements =QUERYCURVE(value, curve) for hosts which
// pass the token to the evaluator without validating its shape. Malformed
// tokens are reported by the evaluator as invalid chains.
func QueryCurveUnchecked(value any, token string) (float64, bool, error) {
	x, err := ParseValue(value)
	if err != nil {
		return 0, false, err
	}
	return query.QueryEncoded(token, x)
}
