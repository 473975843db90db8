// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

// AccessListTx is the EIP-2930 transaction: a legacy transaction plus an
// explicit access list, eliminating the cold-access surprise cost for the
// addresses/slots it names.
type AccessListTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *uint256.Int
}

type accessListTxRLP struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasPrice   *uint256.Int
	Gas        uint64
	To         *common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V          *uint256.Int
	R          *uint256.Int
	S          *uint256.Int
}

func (tx *AccessListTx) txType() byte { return AccessListTxType }

func (tx *AccessListTx) copy() TxData {
	cpy := &AccessListTx{
		ChainID: cloneU256(tx.ChainID), Nonce: tx.Nonce, GasPrice: cloneU256(tx.GasPrice),
		Gas: tx.Gas, Value: cloneU256(tx.Value), Data: common.CopyBytes(tx.Data),
		V: cloneU256(tx.V), R: cloneU256(tx.R), S: cloneU256(tx.S),
	}
	if tx.To != nil {
		to := *tx.To
		cpy.To = &to
	}
	cpy.AccessList = append(AccessList{}, tx.AccessList...)
	return cpy
}

func (tx *AccessListTx) chainID() *uint256.Int                     { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList                    { return tx.AccessList }
func (tx *AccessListTx) authorizationList() []SetCodeAuthorization { return nil }
func (tx *AccessListTx) data() []byte                              { return tx.Data }
func (tx *AccessListTx) gas() uint64                               { return tx.Gas }
func (tx *AccessListTx) gasPrice() *uint256.Int                    { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *uint256.Int                   { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *uint256.Int                   { return tx.GasPrice }
func (tx *AccessListTx) value() *uint256.Int                       { return tx.Value }
func (tx *AccessListTx) nonce() uint64                             { return tx.Nonce }
func (tx *AccessListTx) to() *common.Address                       { return tx.To }
func (tx *AccessListTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}
func (tx *AccessListTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *AccessListTx) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&accessListTxRLP{
		tx.ChainID, tx.Nonce, tx.GasPrice, tx.Gas, tx.To, tx.Value, tx.Data, tx.AccessList, tx.V, tx.R, tx.S,
	})
}

func (tx *AccessListTx) decode(data []byte) error {
	var dec accessListTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return err
	}
	*tx = AccessListTx{
		dec.ChainID, dec.Nonce, dec.GasPrice, dec.Gas, dec.To, dec.Value, dec.Data, dec.AccessList, dec.V, dec.R, dec.S,
	}
	return nil
}

// DynamicFeeTx is the EIP-1559 transaction: gas price is replaced by a
// priority-fee cap and a fee cap, with the base fee burned rather than
// paid to the beneficiary.
type DynamicFeeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *uint256.Int
}

type dynamicFeeTxRLP struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	V          *uint256.Int
	R          *uint256.Int
	S          *uint256.Int
}

func (tx *DynamicFeeTx) txType() byte { return DynamicFeeTxType }

func (tx *DynamicFeeTx) copy() TxData {
	cpy := &DynamicFeeTx{
		ChainID: cloneU256(tx.ChainID), Nonce: tx.Nonce, GasTipCap: cloneU256(tx.GasTipCap),
		GasFeeCap: cloneU256(tx.GasFeeCap), Gas: tx.Gas, Value: cloneU256(tx.Value),
		Data: common.CopyBytes(tx.Data), V: cloneU256(tx.V), R: cloneU256(tx.R), S: cloneU256(tx.S),
	}
	if tx.To != nil {
		to := *tx.To
		cpy.To = &to
	}
	cpy.AccessList = append(AccessList{}, tx.AccessList...)
	return cpy
}

func (tx *DynamicFeeTx) chainID() *uint256.Int                     { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList                    { return tx.AccessList }
func (tx *DynamicFeeTx) authorizationList() []SetCodeAuthorization { return nil }
func (tx *DynamicFeeTx) data() []byte                              { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64                               { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *uint256.Int                    { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *uint256.Int                   { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *uint256.Int                   { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *uint256.Int                       { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64                             { return tx.Nonce }
func (tx *DynamicFeeTx) to() *common.Address                       { return tx.To }
func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}
func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *DynamicFeeTx) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&dynamicFeeTxRLP{
		tx.ChainID, tx.Nonce, tx.GasTipCap, tx.GasFeeCap, tx.Gas, tx.To, tx.Value, tx.Data, tx.AccessList, tx.V, tx.R, tx.S,
	})
}

func (tx *DynamicFeeTx) decode(data []byte) error {
	var dec dynamicFeeTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return err
	}
	*tx = DynamicFeeTx{
		dec.ChainID, dec.Nonce, dec.GasTipCap, dec.GasFeeCap, dec.Gas, dec.To, dec.Value, dec.Data, dec.AccessList, dec.V, dec.R, dec.S,
	}
	return nil
}
