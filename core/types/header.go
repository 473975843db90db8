// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/category-labs/monad-sub002/rlp"
)

// Header is the Ethereum-compatible block header embedded inside a
// ConsensusBlockHeader as ProposedEthHeader: it carries the roots the
// execution layer computed (state, transactions, receipts, withdrawals)
// and the block metadata the EVM execution context needs, but none of the
// BFT consensus fields — those live on the enclosing ConsensusBlockHeader.
type Header struct {
	ParentHash       common.Hash
	UncleHash        common.Hash
	Coinbase         common.Address
	Root             common.Hash
	TxHash           common.Hash
	ReceiptHash      common.Hash
	Bloom            Bloom
	Difficulty       *big.Int
	Number           *big.Int
	GasLimit         uint64
	GasUsed          uint64
	Time             uint64
	Extra            []byte
	MixDigest        common.Hash
	Nonce            [8]byte
	BaseFee          *big.Int
	WithdrawalsHash  *common.Hash
	BlobGasUsed      *uint64
	ExcessBlobGas    *uint64
	ParentBeaconRoot *common.Hash
}

type headerRLP struct {
	ParentHash       common.Hash
	UncleHash        common.Hash
	Coinbase         common.Address
	Root             common.Hash
	TxHash           common.Hash
	ReceiptHash      common.Hash
	Bloom            Bloom
	Difficulty       *big.Int
	Number           *big.Int
	GasLimit         uint64
	GasUsed          uint64
	Time             uint64
	Extra            []byte
	MixDigest        common.Hash
	Nonce            [8]byte
	BaseFee          *big.Int
	WithdrawalsHash  *common.Hash
	BlobGasUsed      *uint64
	ExcessBlobGas    *uint64
	ParentBeaconRoot *common.Hash
}

// Hash returns the block hash: keccak256 of the RLP-encoded header.
func (h *Header) Hash() common.Hash {
	enc, _ := rlp.EncodeToBytes(h.toRLP())
	return crypto.Keccak256Hash(enc)
}

func (h *Header) toRLP() *headerRLP {
	return &headerRLP{
		h.ParentHash, h.UncleHash, h.Coinbase, h.Root, h.TxHash, h.ReceiptHash, h.Bloom,
		h.Difficulty, h.Number, h.GasLimit, h.GasUsed, h.Time, h.Extra, h.MixDigest, h.Nonce,
		h.BaseFee, h.WithdrawalsHash, h.BlobGasUsed, h.ExcessBlobGas, h.ParentBeaconRoot,
	}
}

// EncodeRLP writes h's canonical RLP encoding.
func (h *Header) EncodeRLP() ([]byte, error) {
	return rlp.EncodeToBytes(h.toRLP())
}

// DecodeHeaderRLP parses the encoding produced by Header.EncodeRLP.
func DecodeHeaderRLP(data []byte) (*Header, error) {
	var dec headerRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, err
	}
	return &Header{
		ParentHash: dec.ParentHash, UncleHash: dec.UncleHash, Coinbase: dec.Coinbase,
		Root: dec.Root, TxHash: dec.TxHash, ReceiptHash: dec.ReceiptHash, Bloom: dec.Bloom,
		Difficulty: dec.Difficulty, Number: dec.Number, GasLimit: dec.GasLimit, GasUsed: dec.GasUsed,
		Time: dec.Time, Extra: dec.Extra, MixDigest: dec.MixDigest, Nonce: dec.Nonce,
		BaseFee: dec.BaseFee, WithdrawalsHash: dec.WithdrawalsHash, BlobGasUsed: dec.BlobGasUsed,
		ExcessBlobGas: dec.ExcessBlobGas, ParentBeaconRoot: dec.ParentBeaconRoot,
	}, nil
}

// EmptyBody reports whether the header's roots claim an empty transaction
// list, uncle list and (when present) withdrawal list.
func (h *Header) EmptyBody() bool {
	return h.TxHash == EmptyRootHash && h.UncleHash == EmptyUncleHash &&
		(h.WithdrawalsHash == nil || *h.WithdrawalsHash == EmptyRootHash)
}

// EmptyReceipts reports whether the header's receipt root claims no
// receipts.
func (h *Header) EmptyReceipts() bool { return h.ReceiptHash == EmptyRootHash }
