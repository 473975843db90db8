// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestKeccak256Empty(t *testing.T) {
	want, _ := hex.DecodeString("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	got := Keccak256(nil)
	if !bytes.Equal(got, want) {
		t.Fatalf("Keccak256(nil) = %x, want %x", got, want)
	}
}

func TestSignAndRecover(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	msg := Keccak256([]byte("monad"))
	sig, err := Sign(msg, key)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := SigToPub(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	wantAddr := PubkeyToAddress(key.PublicKey)
	gotAddr := PubkeyToAddress(*pub)
	if wantAddr != gotAddr {
		t.Fatalf("recovered address mismatch: got %s want %s", gotAddr, wantAddr)
	}
}

func TestVerifySignature(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	msg := Keccak256([]byte("verify-me"))
	sig, err := Sign(msg, key)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := Ecrecover(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifySignature(pub, msg, sig[:64]) {
		t.Fatal("expected signature to verify")
	}
}
