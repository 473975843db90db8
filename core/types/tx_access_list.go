// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

// AccessTuple is one (address, storage keys) entry of an EIP-2930 access
// list: the keys are pre-warmed in the account substate before execution.
type AccessTuple struct {
	Address     common.Address
	StorageKeys []common.Hash
}

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// StorageKeys returns the total number of storage keys across all tuples,
// used for intrinsic gas accounting.
func (al AccessList) StorageKeys() int {
	n := 0
	for _, tuple := range al {
		n += len(tuple.StorageKeys)
	}
	return n
}

// WithoutAuthorizations returns a copy of al with any entry removed whose
// address is the authority of a validly-signed, chain-matching
// SetCodeAuthorization that targets an empty storage-key set: EIP-7702
// authorities are warmed implicitly by the authorization itself, so an
// explicit access-list entry for them is redundant and must be dropped
// before intrinsic gas is computed.
func (al AccessList) WithoutAuthorizations(chainID *big.Int, auths []SetCodeAuthorization) AccessList {
	if len(auths) == 0 {
		return al
	}
	redundant := make(map[common.Address]bool)
	for _, auth := range auths {
		if auth.ChainID.Sign() != 0 && auth.ChainID.ToBig().Cmp(chainID) != 0 {
			continue
		}
		if auth.Nonce == ^uint64(0) {
			continue
		}
		addr, err := auth.Authority()
		if err != nil {
			continue
		}
		redundant[addr] = true
	}
	if len(redundant) == 0 {
		return al
	}
	var out AccessList
	for _, tuple := range al {
		if redundant[tuple.Address] && len(tuple.StorageKeys) == 0 {
			continue
		}
		out = append(out, tuple)
	}
	return out
}

// SetCodeAuthorization is one entry of an EIP-7702 authorization_list: a
// signature by an EOA delegating its code to Address for the duration the
// delegation remains installed.
type SetCodeAuthorization struct {
	ChainID uint256.Int
	Address common.Address
	Nonce   uint64
	V       uint8
	R, S    uint256.Int
}

// sigHash is the digest the authority signs: keccak256(MAGIC || rlp([chain_id, address, nonce])).
const setCodeMagic = 0x05

func (a *SetCodeAuthorization) sigHash() common.Hash {
	enc, _ := rlp.EncodeToBytes(&struct {
		ChainID uint256.Int
		Address common.Address
		Nonce   uint64
	}{a.ChainID, a.Address, a.Nonce})
	return crypto.Keccak256Hash(append([]byte{setCodeMagic}, enc...))
}

// Authority recovers the EOA that signed this authorization.
func (a *SetCodeAuthorization) Authority() (common.Address, error) {
	sig := make([]byte, 65)
	rBytes, sBytes := a.R.Bytes32(), a.S.Bytes32()
	copy(sig[0:32], rBytes[:])
	copy(sig[32:64], sBytes[:])
	sig[64] = a.V
	pub, err := crypto.SigToPub(a.sigHash().Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
