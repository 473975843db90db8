// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package rlp

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeDecodeUint(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 256, 1 << 40}
	for _, c := range cases {
		b, err := EncodeToBytes(c)
		if err != nil {
			t.Fatal(err)
		}
		var got uint64
		if err := DecodeBytes(b, &got); err != nil {
			t.Fatal(err)
		}
		if got != c {
			t.Fatalf("roundtrip uint64 %d -> %d", c, got)
		}
	}
}

func TestEncodeDecodeBytes(t *testing.T) {
	in := bytes.Repeat([]byte{0xaa}, 200)
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out []byte
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Fatal("roundtrip mismatch")
	}
}

func TestEncodeDecodeStruct(t *testing.T) {
	type inner struct {
		A uint64
		B []byte
	}
	in := inner{A: 42, B: []byte("hello")}
	enc, err := EncodeToBytes(&in)
	if err != nil {
		t.Fatal(err)
	}
	var out inner
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.A != in.A || !bytes.Equal(out.B, in.B) {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", out, in)
	}
}

func TestEncodeDecodeBigInt(t *testing.T) {
	in := new(big.Int).SetBytes(bytes.Repeat([]byte{0x01}, 20))
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out big.Int
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Cmp(in) != 0 {
		t.Fatalf("roundtrip mismatch: %v vs %v", &out, in)
	}
}

func TestEncodeDecodeUint256(t *testing.T) {
	in := uint256.NewInt(123456789)
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out uint256.Int
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.Cmp(in) != 0 {
		t.Fatalf("roundtrip mismatch: %v vs %v", &out, in)
	}
}

func TestDecodeInputTooLong(t *testing.T) {
	enc, _ := EncodeToBytes(uint64(5))
	if err := DecodeBytes(append(enc, 0x00), new(uint64)); err != ErrInputTooLong {
		t.Fatalf("expected ErrInputTooLong, got %v", err)
	}
}
