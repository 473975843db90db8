// Copyright 2024 The Monad Authors
// This file is part of the monad library.
//
// The monad library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package hexutil

import (
	"encoding/json"
	"math/big"
)

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(Encode(b)), nil
}

func (b *Bytes) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return errNonString("Bytes")
	}
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	dec, err := Decode(s)
	if err != nil {
		return err
	}
	*b = dec
	return nil
}

func (b Bytes) String() string {
	return Encode(b)
}

// Big marshals/unmarshals a big.Int as a hex string.
type Big big.Int

func (b *Big) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return errNonString("Big")
	}
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	dec, err := DecodeBig(s)
	if err != nil {
		return err
	}
	*b = Big(*dec)
	return nil
}

func (b Big) MarshalText() ([]byte, error) {
	bi := (*big.Int)(&b)
	return []byte(EncodeBig(bi)), nil
}

func (b *Big) ToInt() *big.Int {
	return (*big.Int)(b)
}

// Uint64 marshals/unmarshals as a JSON string with 0x prefix.
type Uint64 uint64

func (u Uint64) MarshalText() ([]byte, error) {
	return []byte(EncodeUint64(uint64(u))), nil
}

func (u *Uint64) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return errNonString("Uint64")
	}
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	dec, err := DecodeUint64(s)
	if err != nil {
		return err
	}
	*u = Uint64(dec)
	return nil
}

// Uint marshals/unmarshals as a JSON string with 0x prefix.
type Uint uint

func (u Uint) MarshalText() ([]byte, error) {
	return []byte(EncodeUint64(uint64(u))), nil
}

func (u *Uint) UnmarshalJSON(input []byte) error {
	var x Uint64
	if err := x.UnmarshalJSON(input); err != nil {
		return err
	}
	*u = Uint(x)
	return nil
}

func isString(input []byte) bool {
	return len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
}

func errNonString(typ string) error {
	return &json.UnmarshalTypeError{Value: "non-string", Type: nil}
}
