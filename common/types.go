// Copyright 2024 The Monad Authors
// This file is part of the monad library.
//
// The monad library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package common holds the fixed-size identifiers (Address, Hash) shared by
// every layer of the engine, plus the small set of generic utilities
// (bit manipulation, monotonic clock, priority queue, fd-limit) that those
// layers build on.
package common

import (
	"encoding/hex"
	"math/big"

	"github.com/category-labs/monad-sub002/common/hexutil"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash represents the 32 byte Keccak256/Blake3 digest of arbitrary data,
// used for state roots, receipt roots, block hashes and code hashes alike.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// BigToHash casts a big integer into a Hash, truncating to the low 32 bytes.
func BigToHash(b *big.Int) Hash { return BytesToHash(b.Bytes()) }

// Big returns the hash's bytes interpreted as a big-endian unsigned integer.
func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte  { return h[:] }
func (h Hash) Hex() string    { return hexutil.Encode(h[:]) }
func (h Hash) String() string { return h.Hex() }
func (h Hash) IsZero() bool   { return h == (Hash{}) }

func (h Hash) Cmp(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (h Hash) Less(other Hash) bool { return h.Cmp(other) < 0 }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

// Address represents the 20 byte account identifier (the low 20 bytes of
// keccak256(pubkey) for EOAs, or keccak256(sender, nonce) / keccak256(0xff,
// sender, salt, keccak256(initcode)) for contracts).
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

func BigToAddress(b *big.Int) Address { return BytesToAddress(b.Bytes()) }

func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) Hex() string    { return hexutil.Encode(a[:]) }
func (a Address) String() string { return a.Hex() }
func (a Address) IsZero() bool   { return a == (Address{}) }

func (a Address) Cmp(other Address) int {
	for i := range a {
		if a[i] != other[i] {
			if a[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (a Address) Less(other Address) bool { return a.Cmp(other) < 0 }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

// IsHexAddress reports whether s is a valid hex-encoded (optionally
// "0x"-prefixed) 20-byte address.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for _, c := range []byte(s) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

// FromHex decodes a hex string (with or without "0x" prefix), padding an odd
// length with a leading zero nibble. Invalid input decodes to nil.
func FromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// CopyBytes returns an independent copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

