// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/crypto"
)

// CodeObject is immutable bytecode addressed by keccak256(code) and stored
// once per unique hash regardless of how many accounts reference it.
type CodeObject struct {
	Hash common.Hash
	Code []byte
}

// NewCodeObject hashes code and wraps it.
func NewCodeObject(code []byte) *CodeObject {
	return &CodeObject{Hash: crypto.Keccak256Hash(code), Code: code}
}

// Size returns the code length in bytes, used by EXTCODESIZE and the
// init-code-size limit check (§7 InitCodeLimitExceeded).
func (c *CodeObject) Size() int { return len(c.Code) }
