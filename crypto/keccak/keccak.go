// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package keccak wraps the Keccak-256 permutation used throughout the
// engine for content addressing: code hashes, trie node hashes and the
// ConsensusBlockHeader's proposed_eth_header linkage all hash with Keccak,
// not the NIST SHA3 variant.
package keccak

import "golang.org/x/crypto/sha3"

// Sum256 returns the Keccak-256 digest of data.
func Sum256(data []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}

// NewState256 returns a resettable Keccak-256 hash.State for streaming
// input, used by the RLP-backed trie node encoder to avoid allocating an
// intermediate byte slice per node.
func NewState256() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// KeccakState extends hash.Hash with Read, letting callers drain bytes
// without an allocating Sum call, mirroring the sponge-construction API
// of golang.org/x/crypto/sha3.
type KeccakState interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Sum(b []byte) []byte
	Reset()
	Size() int
	BlockSize() int
}
