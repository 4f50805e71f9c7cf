/*
Package base62 converts non-negative integers to and from big-endian
base-62 digit strings over the alphabet 0-9, A-Z, a-z.

	Encode(0)        = "0"
	Encode(10000000) = "fxSK"

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package base62

import (
	"errors"
	"fmt"
	"math"
)

// Alphabet lists the base-62 digits in ascending order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(Alphabet))

var (
	// ErrInvalidDigit indicates a character outside of Alphabet.
	ErrInvalidDigit = errors.New("invalid base62 digit")
	// ErrOverflow indicates a digit string exceeding 64 bits.
	ErrOverflow = errors.New("base62 value overflows uint64")
	// ErrEmpty indicates an empty digit string.
	ErrEmpty = errors.New("empty base62 string")
)

var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = int8(i)
	}
}

// Encode returns the base-62 representation of n.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}
	var buf [11]byte // 62^11 > 2^64
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}
	return string(buf[i:])
}

// Decode returns the integer represented by the base-62 string s.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmpty
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		d := digitValue[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("%w %q at position %d", ErrInvalidDigit, s[i], i)
		}
		if n > (math.MaxUint64-uint64(d))/base {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		n = n*base + uint64(d)
	}
	return n, nil
}

// IsDigit is a predicate: is c a base-62 digit?
func IsDigit(c byte) bool {
	return digitValue[c] >= 0
}
