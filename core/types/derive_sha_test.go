// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"
	"testing"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/category-labs/monad-sub002/ethtrie"
	"github.com/holiman/uint256"
)

func genTxs(t *testing.T, num int) Transactions {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signer := NewCancunSigner(big.NewInt(18))
	txs := make(Transactions, num)
	for i := 0; i < num; i++ {
		inner := &LegacyTx{
			Nonce:    uint64(i),
			GasPrice: uint256.NewInt(1_000_000_000),
			Gas:      21000,
			Value:    uint256.NewInt(0),
		}
		tx := MustSignNewTx(key, signer, inner)
		txs[i] = tx
	}
	return txs
}

func TestDeriveShaDeterministic(t *testing.T) {
	txs := genTxs(t, 37)
	a := DeriveSha(txs)
	b := DeriveSha(txs)
	if a != b {
		t.Errorf("DeriveSha not deterministic across calls: %x vs %x", a, b)
	}
}

func TestDeriveShaEmptyIsEmptyRoot(t *testing.T) {
	got := DeriveSha(Transactions{})
	if got != ethtrie.EmptyRootHash {
		t.Errorf("DeriveSha of empty list = %x, want empty root %x", got, ethtrie.EmptyRootHash)
	}
}

func TestDeriveShaOrderSensitive(t *testing.T) {
	txs := genTxs(t, 5)
	reordered := make(Transactions, len(txs))
	copy(reordered, txs)
	reordered[0], reordered[1] = reordered[1], reordered[0]

	if DeriveSha(txs) == DeriveSha(reordered) {
		t.Error("swapping two transactions' order should change the derived root")
	}
}

func TestDeriveShaReceipts(t *testing.T) {
	rs := Receipts{
		NewReceipt(LegacyTxType, false, 21000),
		NewReceipt(DynamicFeeTxType, true, 42000),
	}
	rs[0].SetLogs(nil)
	rs[1].SetLogs([]*Log{{Address: common.Address{0x01}, Topics: nil, Data: []byte("x")}})

	got := DeriveSha(rs)
	if got.IsZero() {
		t.Error("receipts root should not be zero")
	}
}
