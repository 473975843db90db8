// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

// Account is the consensus representation of an Ethereum account plus the
// Monad-specific incarnation counter used to invalidate stale storage reads
// after a SELFDESTRUCT+recreate within the retention window.
type Account struct {
	Nonce       uint64
	Balance     *big.Int
	CodeHash    common.Hash
	StorageRoot common.Hash
	Incarnation uint64
}

// EmptyCodeHash is keccak256(nil), the code hash of an account with no code.
var EmptyCodeHash = common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")

// NewEmptyAccount returns the zero-value account: nonce 0, balance 0, empty
// code, empty storage, incarnation 0.
func NewEmptyAccount() *Account {
	return &Account{
		Balance:     new(big.Int),
		CodeHash:    EmptyCodeHash,
		StorageRoot: EmptyRootHash,
	}
}

// IsEmpty reports whether the account has the EIP-161 "empty" shape: zero
// nonce, zero balance, no code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.Sign() == 0) && a.CodeHash == EmptyCodeHash
}

// Copy returns a deep copy, safe to mutate independently of a.
func (a *Account) Copy() *Account {
	cpy := *a
	if a.Balance != nil {
		cpy.Balance = new(big.Int).Set(a.Balance)
	} else {
		cpy.Balance = new(big.Int)
	}
	return &cpy
}

// slimAccountRLP is the wire-format leaf encoding: the upstream Ethereum
// field order (nonce, balance, root, code hash) with the Monad incarnation
// counter appended, so existing field-order expectations for the first
// four fields are preserved.
type slimAccountRLP struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
	Incarnation uint64
}

func (a *Account) toRLP() *slimAccountRLP {
	bal := a.Balance
	if bal == nil {
		bal = new(big.Int)
	}
	return &slimAccountRLP{
		Nonce:       a.Nonce,
		Balance:     bal,
		StorageRoot: a.StorageRoot,
		CodeHash:    a.CodeHash,
		Incarnation: a.Incarnation,
	}
}

func (a *Account) fromRLP(dec *slimAccountRLP) {
	a.Nonce = dec.Nonce
	a.Balance = dec.Balance
	a.StorageRoot = dec.StorageRoot
	a.CodeHash = dec.CodeHash
	a.Incarnation = dec.Incarnation
}

// EncodeRLP returns the wire-format encoding of the account leaf.
func (a *Account) EncodeRLP() ([]byte, error) {
	return rlp.EncodeToBytes(a.toRLP())
}

// DecodeAccountRLP parses the wire-format encoding produced by EncodeRLP.
func DecodeAccountRLP(data []byte) (*Account, error) {
	var dec slimAccountRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, err
	}
	a := &Account{}
	a.fromRLP(&dec)
	return a, nil
}
