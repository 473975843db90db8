// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package log

import (
	"math/big"
	"strconv"
)

// FormatLogfmtInt64 formats n with thousands separators, the way the
// terminal handler renders large counters (gas used, block number) so a
// human skimming logs doesn't have to count digits.
func FormatLogfmtInt64(n int64) string {
	if n < 0 {
		return "-" + FormatLogfmtUint64(uint64(-n))
	}
	return FormatLogfmtUint64(uint64(n))
}

// FormatLogfmtUint64 formats n with comma thousands separators. Numbers
// below 100,000 are left bare: gas amounts and small counters are common
// enough in logs that grouping a 5-digit number reads as noise.
func FormatLogfmtUint64(n uint64) string {
	if n < 100000 {
		return strconv.FormatUint(n, 10)
	}
	return commaFormat(strconv.FormatUint(n, 10))
}

// commaFormat inserts "," every three digits from the right of a decimal
// digit string with no sign.
func commaFormat(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	extra := (n - 1) / 3
	out := make([]byte, n+extra)
	for i, j, c := n-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = digits[i]
		if i == 0 {
			return string(out[j:])
		}
		c++
		if c == 3 {
			j--
			out[j] = ','
			c = 0
		}
	}
}

func formatLogfmtBigInt(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	if n.Sign() < 0 {
		return "-" + commaFormat(new(big.Int).Neg(n).String())
	}
	return commaFormat(n.String())
}
