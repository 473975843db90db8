// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package math holds the integer/big.Int helpers used for gas accounting,
// fee math and RLP/JSON boundary conversions (U256 itself is
// github.com/holiman/uint256.Int; this package is for the *big.Int edges).
package math

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
)

// HexOrDecimal64 marshals a uint64 as hex but unmarshals from either hex or
// decimal, matching the permissive JSON genesis/config files the engine
// reads (CLI config per SPEC_FULL §2).
type HexOrDecimal64 uint64

func (i HexOrDecimal64) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", uint64(i))), nil
}

func (i *HexOrDecimal64) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err == nil {
		return i.UnmarshalText([]byte(s))
	}
	var v uint64
	if err := json.Unmarshal(input, &v); err != nil {
		return err
	}
	*i = HexOrDecimal64(v)
	return nil
}

func (i *HexOrDecimal64) UnmarshalText(input []byte) error {
	raw := string(input)
	base := 10
	if len(raw) >= 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		raw = raw[2:]
		base = 16
	}
	v, err := strconv.ParseUint(raw, base, 64)
	if err != nil {
		return err
	}
	*i = HexOrDecimal64(v)
	return nil
}

// MustParseUint64 parses s as a decimal uint64 or panics; for constants.
func MustParseUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid unsigned 64 bit integer: %s", s))
	}
	return v
}

// SafeAdd returns x+y and whether the addition overflowed uint64.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carry := bits.Add64(x, y, 0)
	return sum, carry != 0
}

// SafeMul returns x*y and whether the multiplication overflowed uint64.
func SafeMul(x, y uint64) (uint64, bool) {
	if x == 0 || y == 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(x, y)
	return lo, hi != 0
}

// SafeSub returns x-y and whether the subtraction underflowed.
func SafeSub(x, y uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(x, y, 0)
	return diff, borrow != 0
}

// SafeDiv returns x/y, or (0, true) if y is zero.
func SafeDiv(x, y uint64) (uint64, bool) {
	if y == 0 {
		return 0, true
	}
	return x / y, false
}

// SafeMod returns x%y, or (0, true) if y is zero.
func SafeMod(x, y uint64) (uint64, bool) {
	if y == 0 {
		return 0, true
	}
	return x % y, false
}

func MinUint64(x, y uint64) uint64 {
	if x < y {
		return x
	}
	return y
}

func MaxUint64(x, y uint64) uint64 {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp(v, lo, hi uint64) uint64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AbsDiff returns |x-y| without overflow.
func AbsDiff(x, y uint64) uint64 {
	if x > y {
		return x - y
	}
	return y - x
}
