// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package state

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

// memDb is a minimal in-memory Db stand-in for tests, ungated by block
// number (every block number sees the same map) since these tests only
// ever exercise a single block.
type memDb struct {
	accounts map[common.Address]*types.Account
	pages    map[common.Address]map[common.Hash]*types.StoragePage
	code     map[common.Hash][]byte
}

func newMemDb() *memDb {
	return &memDb{
		accounts: make(map[common.Address]*types.Account),
		pages:    make(map[common.Address]map[common.Hash]*types.StoragePage),
		code:     make(map[common.Hash][]byte),
	}
}

func (m *memDb) GetAccount(blockNumber uint64, addr common.Address) (*types.Account, error) {
	if acc, ok := m.accounts[addr]; ok {
		return acc, nil
	}
	return nil, nil
}

func (m *memDb) GetStoragePage(blockNumber uint64, addr common.Address, pageKey common.Hash) (*types.StoragePage, error) {
	if pages, ok := m.pages[addr]; ok {
		if page, ok := pages[pageKey]; ok {
			return page, nil
		}
	}
	return nil, nil
}

func (m *memDb) GetCode(hash common.Hash) ([]byte, error) {
	return m.code[hash], nil
}
