// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
	"github.com/category-labs/monad-sub002/rlp"
	"github.com/holiman/uint256"
)

var (
	ErrInvalidChainID = errors.New("types: invalid chain id for signer")
	ErrTxTypeNotSignable = errors.New("types: transaction type not signable by this signer")
)

// Signer encapsulates the hardfork-dependent rules for hashing a
// transaction for signing and recovering its sender (§4.6).
type Signer interface {
	Hash(tx *Transaction) common.Hash
	Sender(tx *Transaction) (common.Address, error)
	SignatureValues(tx *Transaction, sig []byte) (r, s, v *uint256.Int, err error)
	ChainID() *big.Int
}

// cancunSigner accepts every transaction type through SetCodeTx, matching
// the newest hardfork this module targets; EIP-155 replay protection
// always applies to legacy transactions since pre-155 chains are out of
// scope.
type cancunSigner struct {
	chainID, chainIDMul *big.Int
}

// NewCancunSigner returns a Signer valid for the given chain ID.
func NewCancunSigner(chainID *big.Int) Signer {
	return &cancunSigner{chainID: chainID, chainIDMul: new(big.Int).Mul(chainID, big.NewInt(2))}
}

func (s *cancunSigner) ChainID() *big.Int { return s.chainID }

func (s *cancunSigner) Hash(tx *Transaction) common.Hash {
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		return rlpHash([]interface{}{
			inner.Nonce, inner.GasPrice, inner.Gas, inner.To, inner.Value, inner.Data,
			s.chainID, uint(0), uint(0),
		})
	case *AccessListTx:
		return rlpHashTyped(tx.Type(), []interface{}{
			s.chainID, inner.Nonce, inner.GasPrice, inner.Gas, inner.To, inner.Value, inner.Data, inner.AccessList,
		})
	case *DynamicFeeTx:
		return rlpHashTyped(tx.Type(), []interface{}{
			s.chainID, inner.Nonce, inner.GasTipCap, inner.GasFeeCap, inner.Gas, inner.To, inner.Value, inner.Data, inner.AccessList,
		})
	case *BlobTx:
		return rlpHashTyped(tx.Type(), []interface{}{
			s.chainID, inner.Nonce, inner.GasTipCap, inner.GasFeeCap, inner.Gas, inner.To, inner.Value, inner.Data,
			inner.AccessList, inner.BlobFeeCap, inner.BlobHashes,
		})
	case *SetCodeTx:
		return rlpHashTyped(tx.Type(), []interface{}{
			s.chainID, inner.Nonce, inner.GasTipCap, inner.GasFeeCap, inner.Gas, inner.To, inner.Value, inner.Data,
			inner.AccessList, inner.AuthList,
		})
	default:
		return common.Hash{}
	}
}

func (s *cancunSigner) Sender(tx *Transaction) (common.Address, error) {
	if tx.Type() == LegacyTxType {
		v, r, sVal := tx.RawSignatureValues()
		if v == nil {
			return common.Address{}, errors.New("types: unsigned transaction")
		}
		vAdj := new(big.Int).Sub(v.ToBig(), s.chainIDMul)
		vAdj.Sub(vAdj, big.NewInt(35))
		return recoverPlain(s.Hash(tx), r.ToBig(), sVal.ToBig(), vAdj)
	}
	v, r, sVal := tx.RawSignatureValues()
	return recoverPlain(s.Hash(tx), r.ToBig(), sVal.ToBig(), v.ToBig())
}

func (s *cancunSigner) SignatureValues(tx *Transaction, sig []byte) (r, sOut, v *uint256.Int, err error) {
	r, sOut = new(uint256.Int).SetBytes(sig[:32]), new(uint256.Int).SetBytes(sig[32:64])
	if tx.Type() == LegacyTxType {
		vv := new(big.Int).SetBytes([]byte{sig[64]})
		vv.Add(vv, big.NewInt(35))
		vv.Add(vv, s.chainIDMul)
		v = new(uint256.Int)
		v.SetFromBig(vv)
	} else {
		v = new(uint256.Int).SetUint64(uint64(sig[64]))
	}
	return r, sOut, v, nil
}

func recoverPlain(sighash common.Hash, r, s, v *big.Int) (common.Address, error) {
	if !crypto.ValidateSignatureValues(byte(v.Uint64()), r, s, true) {
		return common.Address{}, errors.New("types: invalid signature values")
	}
	sig := make([]byte, 65)
	rBytes, sBytes := r.Bytes(), s.Bytes()
	copy(sig[32-len(rBytes):32], rBytes)
	copy(sig[64-len(sBytes):64], sBytes)
	sig[64] = byte(v.Uint64())
	pub, err := crypto.SigToPub(sighash[:], sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func rlpHash(x interface{}) common.Hash {
	enc, _ := rlp.EncodeToBytes(x)
	return crypto.Keccak256Hash(enc)
}

func rlpHashTyped(txType byte, x interface{}) common.Hash {
	enc, _ := rlp.EncodeToBytes(x)
	return crypto.Keccak256Hash(append([]byte{txType}, enc...))
}

// SignTx signs tx with prv using signer, returning a new signed transaction.
func SignTx(tx *Transaction, signer Signer, prv *ecdsa.PrivateKey) (*Transaction, error) {
	h := signer.Hash(tx)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(signer, sig)
}

// MustSignNewTx wraps inner in a Transaction, signs it and panics on error;
// used by tests that construct many throwaway signed transactions.
func MustSignNewTx(prv *ecdsa.PrivateKey, signer Signer, inner TxData) *Transaction {
	tx, err := SignNewTx(prv, signer, inner)
	if err != nil {
		panic(err)
	}
	return tx
}

// SignNewTx wraps inner in a Transaction and signs it with prv.
func SignNewTx(prv *ecdsa.PrivateKey, signer Signer, inner TxData) (*Transaction, error) {
	tx := NewTx(inner)
	return SignTx(tx, signer, prv)
}
