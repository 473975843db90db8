// Copyright 2024 The Monad Authors
// This file is part of the monad library.
//
// The monad library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The monad library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the monad library. If not, see <http://www.gnu.org/licenses/>.

// Package hexutil implements the "0x"-prefixed hex encoding used throughout
// the engine's JSON surfaces (CLI output, event payloads).
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

var (
	ErrEmptyString  = errors.New("empty hex string")
	ErrMissingPrefix = errors.New("hex string without 0x prefix")
	ErrOddLength    = errors.New("hex string of odd length")
	ErrEmptyNumber  = errors.New("hex string \"0x\"")
	ErrLeadingZero  = errors.New("hex number with leading zero digits")
	ErrUint64Range  = errors.New("hex number > 64 bits")
	ErrBig256Range  = errors.New("hex number > 256 bits")
)

// Decode decodes a "0x"-prefixed hex string into bytes.
func Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrEmptyString
	}
	if !has0xPrefix(input) {
		return nil, ErrMissingPrefix
	}
	b, err := hex.DecodeString(input[2:])
	if err != nil {
		err = mapHexError(err)
	}
	return b, err
}

// MustDecode decodes a hex string or panics; for fixed program constants.
func MustDecode(input string) []byte {
	dec, err := Decode(input)
	if err != nil {
		panic(err)
	}
	return dec
}

// Encode encodes b as a "0x"-prefixed hex string.
func Encode(b []byte) string {
	enc := make([]byte, len(b)*2+2)
	copy(enc, "0x")
	hex.Encode(enc[2:], b)
	return string(enc)
}

// DecodeUint64 decodes a "0x"-prefixed hex string as a uint64.
func DecodeUint64(input string) (uint64, error) {
	raw, err := checkNumber(input)
	if err != nil {
		return 0, err
	}
	dec, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		err = mapHexError(err)
	}
	return dec, err
}

// EncodeUint64 encodes i as a "0x"-prefixed hex string.
func EncodeUint64(i uint64) string {
	enc := make([]byte, 2, 10)
	copy(enc, "0x")
	return string(strconv.AppendUint(enc, i, 16))
}

// DecodeBig decodes a "0x"-prefixed hex string into a big.Int.
func DecodeBig(input string) (*big.Int, error) {
	raw, err := checkNumber(input)
	if err != nil {
		return nil, err
	}
	if len(raw) > 64 {
		return nil, ErrBig256Range
	}
	dec, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, ErrUint64Range
	}
	return dec, nil
}

// EncodeBig encodes bigint as a "0x"-prefixed hex string.
func EncodeBig(bigint *big.Int) string {
	if bigint.Sign() == 0 {
		return "0x0"
	}
	return fmt.Sprintf("%#x", bigint)
}

func has0xPrefix(input string) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}

func checkNumber(input string) (raw string, err error) {
	if len(input) == 0 {
		return "", ErrEmptyString
	}
	if !has0xPrefix(input) {
		return "", ErrMissingPrefix
	}
	input = input[2:]
	if len(input) == 0 {
		return "", ErrEmptyNumber
	}
	if len(input) > 1 && input[0] == '0' {
		return "", ErrLeadingZero
	}
	return input, nil
}

func mapHexError(err error) error {
	switch {
	case errors.Is(err, hex.ErrLength):
		return ErrOddLength
	default:
		return err
	}
}
