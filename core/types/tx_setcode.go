// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

// DelegationPrefix marks account code that is itself a delegation
// indicator rather than directly executable bytecode: the code stored at
// an EOA after a SetCodeTx authorization is DelegationPrefix || address.
var DelegationPrefix = []byte{0xef, 0x01, 0x00}

// ParseDelegation extracts the delegate address from account code, if the
// code is a delegation indicator (len 23, DelegationPrefix then 20 bytes).
func ParseDelegation(code []byte) (common.Address, bool) {
	if len(code) != len(DelegationPrefix)+common.AddressLength {
		return common.Address{}, false
	}
	for i, b := range DelegationPrefix {
		if code[i] != b {
			return common.Address{}, false
		}
	}
	return common.BytesToAddress(code[len(DelegationPrefix):]), true
}

// AddressToDelegation builds the delegation-indicator code for addr.
func AddressToDelegation(addr common.Address) []byte {
	return append(append([]byte{}, DelegationPrefix...), addr.Bytes()...)
}

// SetCodeTx is the EIP-7702 transaction: a DynamicFeeTx plus a list of
// authorizations that install or clear a delegation indicator on each
// authority's account for the duration of the block (and beyond, until
// superseded).
type SetCodeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	AuthList   []SetCodeAuthorization
	V, R, S    *uint256.Int
}

type setCodeTxRLP struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	AuthList   []SetCodeAuthorization
	V          *uint256.Int
	R          *uint256.Int
	S          *uint256.Int
}

func (tx *SetCodeTx) txType() byte { return SetCodeTxType }

func (tx *SetCodeTx) copy() TxData {
	cpy := &SetCodeTx{
		ChainID: cloneU256(tx.ChainID), Nonce: tx.Nonce, GasTipCap: cloneU256(tx.GasTipCap),
		GasFeeCap: cloneU256(tx.GasFeeCap), Gas: tx.Gas, To: tx.To, Value: cloneU256(tx.Value),
		Data: common.CopyBytes(tx.Data), V: cloneU256(tx.V), R: cloneU256(tx.R), S: cloneU256(tx.S),
	}
	cpy.AccessList = append(AccessList{}, tx.AccessList...)
	cpy.AuthList = append([]SetCodeAuthorization{}, tx.AuthList...)
	return cpy
}

func (tx *SetCodeTx) chainID() *uint256.Int                     { return tx.ChainID }
func (tx *SetCodeTx) accessList() AccessList                    { return tx.AccessList }
func (tx *SetCodeTx) authorizationList() []SetCodeAuthorization { return tx.AuthList }
func (tx *SetCodeTx) data() []byte                              { return tx.Data }
func (tx *SetCodeTx) gas() uint64                               { return tx.Gas }
func (tx *SetCodeTx) gasPrice() *uint256.Int                    { return tx.GasFeeCap }
func (tx *SetCodeTx) gasTipCap() *uint256.Int                   { return tx.GasTipCap }
func (tx *SetCodeTx) gasFeeCap() *uint256.Int                   { return tx.GasFeeCap }
func (tx *SetCodeTx) value() *uint256.Int                       { return tx.Value }
func (tx *SetCodeTx) nonce() uint64                             { return tx.Nonce }
func (tx *SetCodeTx) to() *common.Address                       { addr := tx.To; return &addr }
func (tx *SetCodeTx) rawSignatureValues() (v, r, s *uint256.Int) { return tx.V, tx.R, tx.S }
func (tx *SetCodeTx) setSignatureValues(chainID, v, r, s *uint256.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

func (tx *SetCodeTx) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&setCodeTxRLP{
		tx.ChainID, tx.Nonce, tx.GasTipCap, tx.GasFeeCap, tx.Gas, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.AuthList, tx.V, tx.R, tx.S,
	})
}

func (tx *SetCodeTx) decode(data []byte) error {
	var dec setCodeTxRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return err
	}
	*tx = SetCodeTx{
		ChainID: dec.ChainID, Nonce: dec.Nonce, GasTipCap: dec.GasTipCap, GasFeeCap: dec.GasFeeCap,
		Gas: dec.Gas, To: dec.To, Value: dec.Value, Data: dec.Data, AccessList: dec.AccessList,
		AuthList: dec.AuthList, V: dec.V, R: dec.R, S: dec.S,
	}
	return nil
}
