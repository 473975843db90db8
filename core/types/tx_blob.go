// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"crypto/sha256"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto/kzg4844"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

// BlobVersionHashVersion is the leading byte of every EIP-4844 versioned
// hash: sha256(commitment) with the first byte replaced by this marker.
const BlobVersionHashVersion = 0x01

// BlobTxSidecar carries the blobs, commitments and proofs that accompany a
// BlobTx on the wire but are excluded from the signed payload and the
// transaction hash: only the versioned hashes are committed to.
type BlobTxSidecar struct {
	Blobs       []kzg4844.Blob
	Commitments []kzg4844.Commitment
	Proofs      []kzg4844.Proof
}

// BlobHashes computes the versioned hash of every commitment in the sidecar.
func (sc *BlobTxSidecar) BlobHashes() []common.Hash {
	hashes := make([]common.Hash, len(sc.Commitments))
	for i, c := range sc.Commitments {
		hashes[i] = CalcBlobHashV1(c)
	}
	return hashes
}

// CalcBlobHashV1 derives the versioned hash of a KZG commitment: the
// sha256 digest with its first byte replaced by BlobVersionHashVersion.
func CalcBlobHashV1(commitment kzg4844.Commitment) common.Hash {
	sum := sha256.Sum256(commitment[:])
	sum[0] = BlobVersionHashVersion
	return sum
}

// BlobTx is the EIP-4844 transaction: an EIP-1559 transaction plus a
// blob-gas fee cap and the blobs' versioned hashes (the blobs themselves
// travel in the out-of-band BlobTxSidecar).
type BlobTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	BlobFeeCap *uint256.Int
	BlobHashes []common.Hash
	Sidecar    *BlobTxSidecar

	V, R, S *uint256.Int
}

type blobTxRLP struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	BlobFeeCap *uint256.Int
	BlobHashes []common.Hash
	V          *uint256.Int
	R          *uint256.Int
	S          *uint256.Int
}

func (tx *BlobTx) txType() byte { return BlobTxType }

func (tx *BlobTx) copy() TxData {
	cpy := &BlobTx{
		ChainID: cloneU256(tx.ChainID), Nonce: tx.Nonce, GasTipCap: cloneU256(tx.GasTipCap),
		GasFeeCap: cloneU256(tx.GasFeeCap), Gas: tx.Gas, To: tx.To, Value: cloneU256(tx.Value),
		Data: common.CopyBytes(tx.Data), BlobFeeCap: cloneU256(tx.BlobFeeCap),
		V: cloneU256(tx.V), R: cloneU256(tx.R), S: cloneU256(tx.S),
		Sidecar: tx.Sidecar,
	}
	cpy.AccessList = append(AccessList{}, tx.AccessList...)
	cpy.BlobHashes = append([]common.Hash{}, tx.BlobHashes...)
	return cpy
}

func (tx *BlobTx) chainID() *uint256.Int                     { return tx.ChainID }
func (tx *BlobTx) accessList() AccessList                    { return tx.AccessList }
func (tx *BlobTx) authorizationList() []SetCodeAuthorization { return nil }
func (tx *BlobTx) data() []byte                              { return tx.Data }
func (tx *BlobTx) gas() uint64                               { return tx.Gas }
func (tx *BlobTx) gasPrice() *uint256.Int                    { return tx.GasFeeCap }
func (tx *BlobTx) gasTipCap() *uint256.Int                   { return tx.GasTipCap }
func (tx *BlobTx) gasFeeCap() *uint256.Int                   { return tx.GasFeeCap }
func (tx *BlobTx) value() *uint256.Int                       { return tx.Value }
func (tx *BlobTx) nonce() uint64                             { return tx.Nonce }
func (tx *BlobTx) to() *common.Address                       { addr := tx.To; return &addr }
func (tx *BlobTx) rawSignatureValues() (v, r, s *uint256.Int) { return tx.V, tx.R, tx.S }
func (tx *BlobTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *BlobTx) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&blobTxRLP{
		tx.ChainID, tx.Nonce, tx.GasTipCap, tx.GasFeeCap, tx.Gas, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.BlobFeeCap, tx.BlobHashes, tx.V, tx.R, tx.S,
	})
}

func (tx *BlobTx) decode(data []byte) error {
	var dec blobTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return err
	}
	*tx = BlobTx{
		ChainID: dec.ChainID, Nonce: dec.Nonce, GasTipCap: dec.GasTipCap, GasFeeCap: dec.GasFeeCap,
		Gas: dec.Gas, To: dec.To, Value: dec.Value, Data: dec.Data, AccessList: dec.AccessList,
		BlobFeeCap: dec.BlobFeeCap, BlobHashes: dec.BlobHashes, V: dec.V, R: dec.R, S: dec.S,
	}
	return nil
}
