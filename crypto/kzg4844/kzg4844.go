// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package kzg4844 wraps the KZG polynomial commitment scheme needed to
// validate EIP-4844 blob transactions: each blob hash embedded in a
// BlobTx must match the versioned commitment hash computed here before
// the transaction validator accepts the transaction (§4.6, TransactionError
// InvalidBlobHash).
package kzg4844

import (
	"errors"
	"sync"

	gokzg4844 "github.com/crate-crypto/go-kzg-4844"
)

const (
	BlobSize       = 131072
	CommitmentSize = 48
	ProofSize      = 48
)

// Blob is a raw 4844 blob: 4096 field elements, not yet verified as canonical.
type Blob [BlobSize]byte

// Commitment is a serialised KZG commitment to a blob's polynomial.
type Commitment [CommitmentSize]byte

// Proof is a serialised KZG opening proof over a blob/commitment pair.
type Proof [ProofSize]byte

var (
	ctx     *gokzg4844.Context
	ctxOnce sync.Once
	ctxErr  error
)

func context() (*gokzg4844.Context, error) {
	ctxOnce.Do(func() {
		ctx, ctxErr = gokzg4844.NewContext4096Secure()
	})
	return ctx, ctxErr
}

// BlobToCommitment computes the KZG commitment of a blob.
func BlobToCommitment(blob *Blob) (Commitment, error) {
	c, err := context()
	if err != nil {
		return Commitment{}, err
	}
	commit, err := c.BlobToKZGCommitment((*gokzg4844.Blob)(blob), numGoRoutines)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment(commit), nil
}

// ComputeBlobProof computes the opening proof for blob at its commitment.
func ComputeBlobProof(blob *Blob, commitment Commitment) (Proof, error) {
	c, err := context()
	if err != nil {
		return Proof{}, err
	}
	proof, err := c.ComputeBlobKZGProof((*gokzg4844.Blob)(blob), gokzg4844.KZGCommitment(commitment), numGoRoutines)
	if err != nil {
		return Proof{}, err
	}
	return Proof(proof), nil
}

// VerifyBlobProof checks that proof is a valid opening of commitment for blob.
func VerifyBlobProof(blob *Blob, commitment Commitment, proof Proof) error {
	c, err := context()
	if err != nil {
		return err
	}
	return c.VerifyBlobKZGProof((*gokzg4844.Blob)(blob), gokzg4844.KZGCommitment(commitment), gokzg4844.KZGProof(proof))
}

// ErrInvalidBlobHashVersion is returned when a blob hash's leading byte does
// not match the expected versioned-hash scheme (0x01 for EIP-4844).
var ErrInvalidBlobHashVersion = errors.New("kzg4844: invalid blob hash version")

const numGoRoutines = 0
