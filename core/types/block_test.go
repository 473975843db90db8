// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"
	"testing"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

func sampleHeader() *Header {
	return &Header{
		ParentHash: common.HexToHash("0x01"),
		Coinbase:   common.HexToAddress("0x02"),
		Difficulty: big.NewInt(0),
		Number:     big.NewInt(42),
		GasLimit:   30_000_000,
		GasUsed:    21_000,
		Time:       1_700_000_000,
		Extra:      []byte("monad"),
		BaseFee:    big.NewInt(7),
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	h := sampleHeader()
	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash() != h.Hash() {
		t.Errorf("decoded header hash = %x, want %x", got.Hash(), h.Hash())
	}
	if got.Number.Cmp(h.Number) != 0 {
		t.Errorf("decoded Number = %v, want %v", got.Number, h.Number)
	}
}

func TestNewBlockComputesRoots(t *testing.T) {
	txs := genTxs(t, 3)
	receipts := Receipts{
		NewReceipt(LegacyTxType, false, 21000),
		NewReceipt(LegacyTxType, false, 42000),
		NewReceipt(LegacyTxType, true, 63000),
	}
	b := NewBlock(sampleHeader(), txs, receipts, nil)

	if b.TxHash() != DeriveSha(txs) {
		t.Errorf("block TxHash = %x, want %x", b.TxHash(), DeriveSha(txs))
	}
	if b.ReceiptHash() != DeriveSha(receipts) {
		t.Errorf("block ReceiptHash = %x, want %x", b.ReceiptHash(), DeriveSha(receipts))
	}
	if len(b.Transactions()) != 3 {
		t.Errorf("len(Transactions) = %d, want 3", len(b.Transactions()))
	}
	if b.Withdrawals() != nil {
		t.Errorf("Withdrawals = %v, want nil (no withdrawals passed)", b.Withdrawals())
	}
}

func TestNewBlockEmptyBodyUsesEmptyRoots(t *testing.T) {
	b := NewBlock(sampleHeader(), nil, nil, nil)
	if b.TxHash() != EmptyRootHash {
		t.Errorf("empty block TxHash = %x, want %x", b.TxHash(), EmptyRootHash)
	}
	if b.ReceiptHash() != EmptyRootHash {
		t.Errorf("empty block ReceiptHash = %x, want %x", b.ReceiptHash(), EmptyRootHash)
	}
	if b.Header().UncleHash != EmptyUncleHash {
		t.Errorf("UncleHash = %x, want %x", b.Header().UncleHash, EmptyUncleHash)
	}
}

func TestNewBlockWithWithdrawals(t *testing.T) {
	withdrawals := Withdrawals{
		{Index: 0, Validator: 1, Address: common.HexToAddress("0x03"), Amount: 100},
	}
	b := NewBlock(sampleHeader(), nil, nil, withdrawals)
	h := b.Header()
	if h.WithdrawalsHash == nil {
		t.Fatal("expected non-nil WithdrawalsHash")
	}
	if *h.WithdrawalsHash != DeriveSha(withdrawals) {
		t.Errorf("WithdrawalsHash = %x, want %x", *h.WithdrawalsHash, DeriveSha(withdrawals))
	}
}

func TestBlockHashCaching(t *testing.T) {
	b := NewBlockWithHeader(sampleHeader())
	a := b.Hash()
	bb := b.Hash()
	if a != bb {
		t.Error("Hash should be stable across calls")
	}
}

func TestHeaderEncodeRLPMatchesGenericEncoding(t *testing.T) {
	h := sampleHeader()
	enc1, err := rlp.EncodeToBytes(h)
	if err != nil {
		t.Fatal(err)
	}
	enc2, err := h.EncodeRLP()
	if err != nil {
		t.Fatal(err)
	}
	if string(enc1) != string(enc2) {
		t.Error("Header.EncodeRLP should match the generic struct encoding of Header's fields")
	}
}
