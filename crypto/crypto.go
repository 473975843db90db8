// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package crypto wraps the Keccak-256 hash and secp256k1 signature
// primitives the transaction validator needs: sender recovery for every
// transaction variant and intrinsic-gas / signature-malleability checks
// ahead of the parallel execution scheduler (§4.6).
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto/keccak"
	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"
	decred_ecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// SignatureLength is a 65-byte compact ECDSA signature: R || S || V.
	SignatureLength = 64 + 1
	// RecoveryIDOffset is V's position within a compact signature.
	RecoveryIDOffset = 64
)

var (
	ErrInvalidSignatureLen = errors.New("crypto: invalid signature length")
	ErrInvalidRecoveryID   = errors.New("crypto: invalid recovery id")
	secp256k1N             = dsecp.S256().N
	secp256k1HalfN         = new(big.Int).Rsh(secp256k1N, 1)
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := keccak.NewState256()
	for _, b := range data {
		h.Write(b)
	}
	var out [32]byte
	h.Read(out[:])
	return out[:]
}

// Keccak256Hash returns the Keccak-256 digest of data as a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	state := keccak.NewState256()
	for _, b := range data {
		state.Write(b)
	}
	state.Read(h[:])
	return h
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	k, err := dsecp.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return k.ToECDSA(), nil
}

// Sign produces a 65-byte compact recoverable signature (R || S || V) of a
// 32-byte digest, as required by every transaction variant's signature
// field.
func Sign(digestHash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(digestHash) != 32 {
		return nil, fmt.Errorf("crypto: hash is required to be exactly 32 bytes (%d)", len(digestHash))
	}
	priv := dsecp.PrivKeyFromBytes(prv.D.Bytes())
	sig := decred_ecdsa.SignCompact(priv, digestHash, false)
	// decred's compact format is V || R || S; the engine's wire format is
	// R || S || V, matching Ethereum's historical signature layout.
	out := make([]byte, SignatureLength)
	copy(out[:64], sig[1:])
	out[64] = sig[0] - 27
	return out, nil
}

// Ecrecover recovers the uncompressed public key bytes (65 bytes, 0x04
// prefix) from a signature over digestHash.
func Ecrecover(digestHash, sig []byte) ([]byte, error) {
	pub, err := recoverPubkey(digestHash, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

// SigToPub recovers the full ECDSA public key from a signature.
func SigToPub(digestHash, sig []byte) (*ecdsa.PublicKey, error) {
	pub, err := recoverPubkey(digestHash, sig)
	if err != nil {
		return nil, err
	}
	return pub.ToECDSA(), nil
}

func recoverPubkey(digestHash, sig []byte) (*dsecp.PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, ErrInvalidSignatureLen
	}
	v := sig[RecoveryIDOffset]
	if v > 3 {
		return nil, ErrInvalidRecoveryID
	}
	compact := make([]byte, SignatureLength)
	compact[0] = v + 27
	copy(compact[1:], sig[:64])
	pub, _, err := decred_ecdsa.RecoverCompact(compact, digestHash)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// VerifySignature checks a signature (R || S, no recovery byte) against a
// public key and digest. It rejects the upper half of the curve order to
// enforce the canonical low-S form (EIP-2).
func VerifySignature(pubkey, digestHash, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:64])
	if s.Cmp(secp256k1HalfN) > 0 {
		return false
	}
	pub, err := dsecp.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	var rMod, sMod dsecp.ModNScalar
	rMod.SetByteSlice(signature[:32])
	sMod.SetByteSlice(signature[32:64])
	sig := decred_ecdsa.NewSignature(&rMod, &sMod)
	return sig.Verify(digestHash, pub)
}

// PubkeyToAddress derives the 20-byte account address from an uncompressed
// public key: the low 20 bytes of Keccak256(pubkey.X || pubkey.Y).
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	pubBytes := elliptic.Marshal(dsecp.S256(), p.X, p.Y)
	return common.BytesToAddress(Keccak256(pubBytes[1:])[12:])
}

// ValidateSignatureValues reports whether r, s fall within [1, N-1] and,
// when homestead is true, s is additionally bounded to the curve's lower
// half to reject malleable signatures.
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	if homestead && s.Cmp(secp256k1HalfN) > 0 {
		return false
	}
	return v == 0 || v == 1
}
