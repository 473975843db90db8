// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"
	"testing"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/holiman/uint256"
)

func TestTransactionSignAndRecoverSender(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	signer := NewCancunSigner(big.NewInt(1))
	to := common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	tx := MustSignNewTx(key, signer, &DynamicFeeTx{
		ChainID:   uint256.NewInt(1),
		Nonce:     7,
		GasTipCap: uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(100),
		Gas:       21000,
		To:        &to,
		Value:     uint256.NewInt(5),
	})

	from, err := signer.Sender(tx)
	if err != nil {
		t.Fatal(err)
	}
	want := crypto.PubkeyToAddress(key.PublicKey)
	if from != want {
		t.Errorf("recovered sender = %s, want %s", from.Hex(), want.Hex())
	}
}

func TestTransactionEIP2718RoundTrip(t *testing.T) {
	key, _ := crypto.GenerateKey()
	signer := NewCancunSigner(big.NewInt(7))
	addr := common.HexToAddress("0x01")
	tx := MustSignNewTx(key, signer, &AccessListTx{
		ChainID:  uint256.NewInt(7),
		Nonce:    1,
		GasPrice: uint256.NewInt(2),
		Gas:      30000,
		To:       &addr,
		Value:    uint256.NewInt(0),
		AccessList: AccessList{
			{Address: addr, StorageKeys: []common.Hash{{0x01}}},
		},
	})

	enc, err := tx.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] != AccessListTxType {
		t.Fatalf("encoded type byte = %#x, want %#x", enc[0], AccessListTxType)
	}

	var got Transaction
	if err := got.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if got.Hash() != tx.Hash() {
		t.Errorf("round-tripped tx hash = %x, want %x", got.Hash(), tx.Hash())
	}
	if got.Nonce() != tx.Nonce() {
		t.Errorf("round-tripped Nonce = %d, want %d", got.Nonce(), tx.Nonce())
	}
}

func TestTransactionHashCachedAcrossCalls(t *testing.T) {
	key, _ := crypto.GenerateKey()
	signer := NewCancunSigner(big.NewInt(1))
	tx := MustSignNewTx(key, signer, &LegacyTx{
		Nonce:    0,
		GasPrice: uint256.NewInt(1),
		Gas:      21000,
		Value:    uint256.NewInt(0),
	})
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Error("Hash() should be stable across repeated calls")
	}
}

func TestTransactionLegacyUnprotectedBeforeSigning(t *testing.T) {
	tx := NewTx(&LegacyTx{Nonce: 0, GasPrice: uint256.NewInt(1), Gas: 21000, Value: uint256.NewInt(0)})
	if tx.Protected() {
		t.Error("unsigned legacy transaction should report Protected() == false")
	}
}

func TestTransactionSizeMatchesEncodedLength(t *testing.T) {
	key, _ := crypto.GenerateKey()
	signer := NewCancunSigner(big.NewInt(1))
	tx := MustSignNewTx(key, signer, &LegacyTx{
		Nonce:    0,
		GasPrice: uint256.NewInt(1),
		Gas:      21000,
		Value:    uint256.NewInt(0),
		Data:     []byte("hello"),
	})
	enc, err := tx.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if tx.Size() != uint64(len(enc)) {
		t.Errorf("Size() = %d, want %d", tx.Size(), len(enc))
	}
}
