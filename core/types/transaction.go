// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"bytes"
	"errors"
	"sync/atomic"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/holiman/uint256"
)

// Transaction types, matching the EIP-2718 typed-transaction envelope.
// Legacy transactions carry no type prefix on the wire.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01 // EIP-2930
	DynamicFeeTxType = 0x02 // EIP-1559
	BlobTxType       = 0x03 // EIP-4844
	SetCodeTxType    = 0x04 // EIP-7702
)

var (
	ErrTxTypeNotSupported  = errors.New("types: transaction type not supported")
	ErrInvalidTxType       = errors.New("types: invalid transaction type byte")
	ErrEmptyTypedTx        = errors.New("types: empty typed transaction bytes")
	ErrGasFeeCapTooLow     = errors.New("types: fee cap less than tip cap")
	ErrEmptyAuthorizations = errors.New("types: set-code transaction must have at least one authorization")
)

// TxData is the type-specific payload every transaction variant implements;
// Transaction embeds one instance and adds signature/caching behaviour
// common to all of them.
type TxData interface {
	txType() byte
	copy() TxData

	chainID() *uint256.Int
	accessList() AccessList
	authorizationList() []SetCodeAuthorization
	data() []byte
	gas() uint64
	gasPrice() *uint256.Int
	gasTipCap() *uint256.Int
	gasFeeCap() *uint256.Int
	value() *uint256.Int
	nonce() uint64
	to() *common.Address

	rawSignatureValues() (v, r, s *uint256.Int)
	setSignatureValues(chainID, v, r, s *uint256.Int)

	encode() ([]byte, error)
	decode([]byte) error
}

// Transaction is an immutable, signed transaction of any supported type.
type Transaction struct {
	inner TxData

	hash atomic.Pointer[common.Hash]
	size atomic.Pointer[uint64]
	from atomic.Pointer[common.Address]
}

// NewTx wraps inner, copying it so later mutation of the caller's value
// cannot affect the transaction.
func NewTx(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

func (tx *Transaction) Type() byte                 { return tx.inner.txType() }
func (tx *Transaction) ChainId() *uint256.Int       { return tx.inner.chainID() }
func (tx *Transaction) Data() []byte                { return tx.inner.data() }
func (tx *Transaction) AccessList() AccessList      { return tx.inner.accessList() }
func (tx *Transaction) AuthorizationList() []SetCodeAuthorization {
	return tx.inner.authorizationList()
}
func (tx *Transaction) Gas() uint64             { return tx.inner.gas() }
func (tx *Transaction) GasPrice() *uint256.Int  { return tx.inner.gasPrice() }
func (tx *Transaction) GasTipCap() *uint256.Int { return tx.inner.gasTipCap() }
func (tx *Transaction) GasFeeCap() *uint256.Int { return tx.inner.gasFeeCap() }
func (tx *Transaction) Value() *uint256.Int     { return tx.inner.value() }
func (tx *Transaction) Nonce() uint64           { return tx.inner.nonce() }
func (tx *Transaction) To() *common.Address     { return tx.inner.to() }

// RawSignatureValues returns the transaction's raw (v, r, s) fields.
func (tx *Transaction) RawSignatureValues() (v, r, s *uint256.Int) {
	return tx.inner.rawSignatureValues()
}

// Protected reports whether the signature is replay-protected (EIP-155 for
// legacy transactions; always true for typed transactions).
func (tx *Transaction) Protected() bool {
	if tx.Type() != LegacyTxType {
		return true
	}
	v, _, _ := tx.inner.rawSignatureValues()
	if v == nil || v.IsZero() {
		return false
	}
	return v.Uint64() != 27 && v.Uint64() != 28
}

// Hash returns the transaction hash, caching the result.
func (tx *Transaction) Hash() common.Hash {
	if h := tx.hash.Load(); h != nil {
		return *h
	}
	var h common.Hash
	if tx.Type() == LegacyTxType {
		enc, _ := tx.inner.encode()
		h = crypto.Keccak256Hash(enc)
	} else {
		payload, _ := tx.inner.encode()
		h = crypto.Keccak256Hash(append([]byte{tx.Type()}, payload...))
	}
	tx.hash.Store(&h)
	return h
}

// Size returns the EIP-2718 encoded length in bytes, caching the result.
func (tx *Transaction) Size() uint64 {
	if s := tx.size.Load(); s != nil {
		return *s
	}
	enc, _ := tx.MarshalBinary()
	n := uint64(len(enc))
	tx.size.Store(&n)
	return n
}

// MarshalBinary returns the EIP-2718 canonical encoding: the RLP list for
// legacy transactions, or a type byte followed by the RLP-encoded payload
// for every typed transaction.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	payload, err := tx.inner.encode()
	if err != nil {
		return nil, err
	}
	if tx.Type() == LegacyTxType {
		return payload, nil
	}
	return append([]byte{tx.Type()}, payload...), nil
}

// UnmarshalBinary parses the EIP-2718 canonical encoding produced by
// MarshalBinary.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyTypedTx
	}
	var inner TxData
	if data[0] > 0x7f {
		inner = &LegacyTx{}
		if err := inner.decode(data); err != nil {
			return err
		}
	} else {
		switch data[0] {
		case AccessListTxType:
			inner = &AccessListTx{}
		case DynamicFeeTxType:
			inner = &DynamicFeeTx{}
		case BlobTxType:
			inner = &BlobTx{}
		case SetCodeTxType:
			inner = &SetCodeTx{}
		default:
			return ErrInvalidTxType
		}
		if err := inner.decode(data[1:]); err != nil {
			return err
		}
	}
	tx.inner = inner
	tx.hash.Store(nil)
	tx.size.Store(nil)
	return nil
}

// WithoutBlobTxSidecar strips the sidecar from a blob transaction, returning
// tx unchanged for every other type. Hash() is unaffected either way: the
// sidecar never enters the signed payload.
func (tx *Transaction) WithoutBlobTxSidecar() *Transaction {
	blobtx, ok := tx.inner.(*BlobTx)
	if !ok {
		return tx
	}
	cpy := *blobtx
	cpy.Sidecar = nil
	return &Transaction{inner: &cpy}
}

// WithSignature returns a new transaction with the given signature applied,
// as computed by Signer.SignatureValues.
func (tx *Transaction) WithSignature(signer Signer, sig []byte) (*Transaction, error) {
	r, s, v, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	cpy := tx.inner.copy()
	chainID := new(uint256.Int)
	if cid := signer.ChainID(); cid != nil {
		chainID.SetFromBig(cid)
	}
	cpy.setSignatureValues(chainID, v, r, s)
	return &Transaction{inner: cpy}, nil
}

// Transactions is a list of transactions belonging to one block, satisfying
// the derivable-list contract that computes the block's transactions root
// (§4.7, DeriveSha).
type Transactions []*Transaction

func (txs Transactions) Len() int { return len(txs) }

func (txs Transactions) EncodeIndex(i int, w *bytes.Buffer) {
	enc, _ := txs[i].MarshalBinary()
	w.Write(enc)
}
