// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

// LegacyTx is the original Ethereum transaction format, still accepted
// alongside the typed variants.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *common.Address
	Value    *uint256.Int
	Data     []byte
	V, R, S  *uint256.Int
}

type legacyTxRLP struct {
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *common.Address
	Value    *uint256.Int
	Data     []byte
	V        *uint256.Int
	R        *uint256.Int
	S        *uint256.Int
}

func (tx *LegacyTx) txType() byte { return LegacyTxType }

func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		Nonce: tx.Nonce,
		Gas:   tx.Gas,
		Data:  common.CopyBytes(tx.Data),
	}
	if tx.To != nil {
		to := *tx.To
		cpy.To = &to
	}
	cpy.GasPrice = cloneU256(tx.GasPrice)
	cpy.Value = cloneU256(tx.Value)
	cpy.V = cloneU256(tx.V)
	cpy.R = cloneU256(tx.R)
	cpy.S = cloneU256(tx.S)
	return cpy
}

func (tx *LegacyTx) chainID() *uint256.Int                          { return nil }
func (tx *LegacyTx) accessList() AccessList                         { return nil }
func (tx *LegacyTx) authorizationList() []SetCodeAuthorization      { return nil }
func (tx *LegacyTx) data() []byte                                   { return tx.Data }
func (tx *LegacyTx) gas() uint64                                    { return tx.Gas }
func (tx *LegacyTx) gasPrice() *uint256.Int                         { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *uint256.Int                        { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *uint256.Int                        { return tx.GasPrice }
func (tx *LegacyTx) value() *uint256.Int                            { return tx.Value }
func (tx *LegacyTx) nonce() uint64                                  { return tx.Nonce }
func (tx *LegacyTx) to() *common.Address                            { return tx.To }
func (tx *LegacyTx) rawSignatureValues() (v, r, s *uint256.Int)     { return tx.V, tx.R, tx.S }
func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *LegacyTx) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&legacyTxRLP{
		Nonce: tx.Nonce, GasPrice: tx.GasPrice, Gas: tx.Gas, To: tx.To,
		Value: tx.Value, Data: tx.Data, V: tx.V, R: tx.R, S: tx.S,
	})
}

func (tx *LegacyTx) decode(data []byte) error {
	var dec legacyTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return err
	}
	tx.Nonce, tx.GasPrice, tx.Gas, tx.To = dec.Nonce, dec.GasPrice, dec.Gas, dec.To
	tx.Value, tx.Data, tx.V, tx.R, tx.S = dec.Value, dec.Data, dec.V, dec.R, dec.S
	return nil
}

func cloneU256(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(x)
}
