// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"bytes"
	"math/big"
	"sync/atomic"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

// Withdrawal is an EIP-4895 validator withdrawal, included in a block's
// body alongside transactions and hashed into the withdrawals root.
type Withdrawal struct {
	Index     uint64
	Validator uint64
	Address   common.Address
	Amount    uint64
}

type withdrawalRLP struct {
	Index     uint64
	Validator uint64
	Address   common.Address
	Amount    uint64
}

// Withdrawals is a list of withdrawals belonging to one block, satisfying
// the derivable-list contract used to compute the withdrawals root.
type Withdrawals []*Withdrawal

func (ws Withdrawals) Len() int { return len(ws) }

func (ws Withdrawals) EncodeIndex(i int, w *bytes.Buffer) {
	enc, _ := rlp.EncodeToBytes(&withdrawalRLP{
		Index: ws[i].Index, Validator: ws[i].Validator, Address: ws[i].Address, Amount: ws[i].Amount,
	})
	w.Write(enc)
}

// Body groups the transaction and withdrawal lists carried alongside a
// Header; Monad blocks never have uncles, so Ommers is retained on Block
// only for Ethereum wire compatibility and is always empty.
type Body struct {
	Transactions Transactions
	Withdrawals  Withdrawals
}

// Block pairs an Ethereum-compatible Header with its body: the
// transaction list, the (always-empty) ommer list, and withdrawals
// (§3 DATA MODEL: `Block = { header, transactions, ommers, withdrawals }`).
type Block struct {
	header       *Header
	transactions Transactions
	ommers       []*Header
	withdrawals  Withdrawals

	hash atomic.Pointer[common.Hash]
	size atomic.Pointer[uint64]
}

// NewBlockWithHeader builds a block from header alone, with no body.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: copyHeader(header)}
}

// NewBlock assembles a block from a header template and its body,
// computing and filling in TxHash/ReceiptHash/UncleHash/WithdrawalsHash/
// Bloom on a copy of header rather than mutating the caller's value.
func NewBlock(header *Header, txs Transactions, receipts Receipts, withdrawals Withdrawals) *Block {
	b := &Block{header: copyHeader(header)}

	if len(txs) == 0 {
		b.header.TxHash = EmptyRootHash
	} else {
		b.header.TxHash = DeriveSha(txs)
		b.transactions = make(Transactions, len(txs))
		copy(b.transactions, txs)
	}

	if len(receipts) == 0 {
		b.header.ReceiptHash = EmptyRootHash
	} else {
		b.header.ReceiptHash = DeriveSha(receipts)
		var bloom Bloom
		for _, r := range receipts {
			bloom.OrBloom(r.Bloom)
		}
		b.header.Bloom = bloom
	}

	b.header.UncleHash = EmptyUncleHash

	if withdrawals == nil {
		b.header.WithdrawalsHash = nil
	} else {
		h := EmptyRootHash
		if len(withdrawals) > 0 {
			h = DeriveSha(withdrawals)
		}
		b.header.WithdrawalsHash = &h
		b.withdrawals = make(Withdrawals, len(withdrawals))
		copy(b.withdrawals, withdrawals)
	}

	return b
}

func copyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Difficulty = new(big.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if cpy.Number = new(big.Int); h.Number != nil {
		cpy.Number.Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = common.CopyBytes(h.Extra)
	}
	if h.WithdrawalsHash != nil {
		wh := *h.WithdrawalsHash
		cpy.WithdrawalsHash = &wh
	}
	if h.BlobGasUsed != nil {
		v := *h.BlobGasUsed
		cpy.BlobGasUsed = &v
	}
	if h.ExcessBlobGas != nil {
		v := *h.ExcessBlobGas
		cpy.ExcessBlobGas = &v
	}
	if h.ParentBeaconRoot != nil {
		v := *h.ParentBeaconRoot
		cpy.ParentBeaconRoot = &v
	}
	return &cpy
}

func (b *Block) Header() *Header              { return copyHeader(b.header) }
func (b *Block) Transactions() Transactions    { return b.transactions }
func (b *Block) Withdrawals() Withdrawals      { return b.withdrawals }
func (b *Block) Ommers() []*Header             { return b.ommers }
func (b *Block) Number() *big.Int              { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64             { return b.header.Number.Uint64() }
func (b *Block) GasLimit() uint64              { return b.header.GasLimit }
func (b *Block) GasUsed() uint64               { return b.header.GasUsed }
func (b *Block) Time() uint64                  { return b.header.Time }
func (b *Block) Root() common.Hash             { return b.header.Root }
func (b *Block) ParentHash() common.Hash       { return b.header.ParentHash }
func (b *Block) TxHash() common.Hash           { return b.header.TxHash }
func (b *Block) ReceiptHash() common.Hash      { return b.header.ReceiptHash }
func (b *Block) Bloom() Bloom                  { return b.header.Bloom }
func (b *Block) Coinbase() common.Address      { return b.header.Coinbase }
func (b *Block) BaseFee() *big.Int {
	if b.header.BaseFee == nil {
		return nil
	}
	return new(big.Int).Set(b.header.BaseFee)
}

// Hash returns the block's hash, i.e. its header's hash, caching the
// result.
func (b *Block) Hash() common.Hash {
	if h := b.hash.Load(); h != nil {
		return *h
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

// WithBody returns a new block sharing header with b but carrying the
// given transactions and withdrawals; it does not recompute any root, so
// is only valid when the caller already knows the header's roots match.
func (b *Block) WithBody(transactions Transactions, withdrawals Withdrawals) *Block {
	return &Block{
		header:       copyHeader(b.header),
		transactions: transactions,
		withdrawals:  withdrawals,
		ommers:       b.ommers,
	}
}

// ConsensusBlockHeader is the BFT consensus envelope around an
// Ethereum-compatible proposed block (§3 DATA MODEL): it names the
// parent proposal by BFT id and round, content-addresses the block body,
// and carries the quorum certificate once one forms. An implementation
// need only observe the Execute and Finalize lifecycle edges (§3.3); the
// remaining fields are carried through unopinionated for the consensus
// layer above this module to interpret.
type ConsensusBlockHeader struct {
	ParentBFTID      common.Hash
	Round            uint64
	ParentRound      uint64
	BlockBodyID      common.Hash
	ProposedEthHeader *Header
	QC               []byte
}

// ConsensusBlockBody is the content accompanying a ConsensusBlockHeader,
// addressed by blake3 through header.BlockBodyID (§4.7 "Block input").
// Nothing in this module computes or checks that hash.
type ConsensusBlockBody struct {
	Transactions Transactions
	Withdrawals  Withdrawals
}
