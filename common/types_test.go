// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package common

import "testing"

func TestBytesToHash(t *testing.T) {
	hash := BytesToHash([]byte{5})
	var exp Hash
	exp[31] = 5
	if hash != exp {
		t.Errorf("expected %x got %x", exp, hash)
	}
}

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"", false},
		{"0x", false},
		{"00", false},
		{"000000000000000000000000000000000000000000", false}, // too long
		{"0000000000000000000000000000000000000", false},      // too short
		{"0x0000000000000000000000000000000000000000", true},
		{"000000000000000000000000000000000000000a", true},
		{"0x000000000000000000000000000000000000000a", true},
		{"0xabcdefghijklmnopqrstuvwxyz0123456789xxxx", false},
	}
	for i, tt := range tests {
		if valid := IsHexAddress(tt.address); valid != tt.valid {
			t.Errorf("test %d: address validity mismatch: have %v, want %v", i, valid, tt.valid)
		}
	}
}

func TestAddressLess(t *testing.T) {
	a := BytesToAddress([]byte{1})
	b := BytesToAddress([]byte{2})
	if !a.Less(b) || b.Less(a) {
		t.Errorf("Less ordering broken for %x vs %x", a, b)
	}
}
