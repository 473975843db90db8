// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package state implements the layered state store of §4.4: a per-tx
// State sitting atop a per-block BlockState sitting atop a durable Db.
package state

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

// Db is the durable, block-versioned account/storage/code store that
// backs a BlockState. It is implemented by the MPT storage engine; tests
// and early wiring may use an in-memory stand-in.
type Db interface {
	// GetAccount returns the committed account for addr as of the given
	// block number, or nil if none exists.
	GetAccount(blockNumber uint64, addr common.Address) (*types.Account, error)

	// GetStoragePage returns the committed page for (addr, pageKey) as
	// of the given block number, or nil if the page has no persisted
	// form (all-zero).
	GetStoragePage(blockNumber uint64, addr common.Address, pageKey common.Hash) (*types.StoragePage, error)

	// GetCode returns the code object for codeHash, or nil if absent.
	GetCode(codeHash common.Hash) ([]byte, error)
}
