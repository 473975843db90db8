// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package state

import (
	"math/big"
	"sync"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

// BlockState layers the StateDeltas + Code accumulated by a block's
// transactions over the durable Db (§4.4). It is the single shared
// mutable resource fibers touch during parallel execution; callers must
// serialize Merge through their own scheduling discipline (the parallel
// executor calls it from its single commit-ordering path — see §4.5).
//
// The account/slot maps use one RWMutex rather than the sharded-locking
// scheme §5 describes for production fan-out: the fiber scheduler and
// async I/O runtime that would make sharding worth its complexity are a
// separate, not-yet-built layer, and a single lock is the correct
// stand-in until that scheduler exists to exercise contention.
type BlockState struct {
	db          Db
	blockNumber uint64

	mu     sync.RWMutex
	deltas map[common.Address]*types.StateDelta
	code   map[common.Hash][]byte
}

// NewBlockState returns a BlockState for blockNumber, reading through to db for any
// address or page not yet touched within the block.
func NewBlockState(db Db, blockNumber uint64) *BlockState {
	return &BlockState{
		db:          db,
		blockNumber: blockNumber,
		deltas:      make(map[common.Address]*types.StateDelta),
		code:        make(map[common.Hash][]byte),
	}
}

// recentAccount returns BlockState's authoritative current view of addr:
// the after-value of its delta if one of this block's transactions has
// already merged a write, else whatever the committed Db holds at the
// block's parent round.
func (b *BlockState) recentAccount(addr common.Address) *types.Account {
	b.mu.RLock()
	if d, ok := b.deltas[addr]; ok {
		defer b.mu.RUnlock()
		return d.Account.After
	}
	b.mu.RUnlock()

	acc, err := b.db.GetAccount(b.blockNumber, addr)
	if err != nil {
		return nil
	}
	return acc
}

func (b *BlockState) getStoragePage(addr common.Address, pageKey common.Hash) *types.StoragePage {
	b.mu.RLock()
	if d, ok := b.deltas[addr]; ok {
		if pd, ok := d.Storage[pageKey]; ok {
			defer b.mu.RUnlock()
			return pd.After
		}
	}
	b.mu.RUnlock()

	page, err := b.db.GetStoragePage(b.blockNumber, addr, pageKey)
	if err != nil {
		return nil
	}
	return page
}

func (b *BlockState) getStorageSlot(addr common.Address, slot common.Hash) common.Hash {
	pageKey := types.PageKey(slot)
	page := b.getStoragePage(addr, pageKey)
	if page == nil {
		return common.Hash{}
	}
	return page.Slots[types.PageOffset(slot)]
}

func (b *BlockState) getCode(hash common.Hash) []byte {
	b.mu.RLock()
	if code, ok := b.code[hash]; ok {
		defer b.mu.RUnlock()
		return code
	}
	b.mu.RUnlock()

	code, err := b.db.GetCode(hash)
	if err != nil {
		return nil
	}
	return code
}

// CanMerge implements §4.5's optimistic-concurrency check: every address
// and slot the transaction read must still equal BlockState's current
// value. A stale read means the transaction must re-execute against a
// fresh State.
func (b *BlockState) CanMerge(s *State) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for addr, base := range s.readAccounts() {
		if !accountsEqual(base, b.lockedRecentAccount(addr)) {
			return false
		}
	}
	for key, base := range s.readSlots() {
		if base != b.lockedStorageSlot(key.addr, key.slot) {
			return false
		}
	}
	return true
}

// lockedRecentAccount/lockedStorageSlot assume b.mu is already held (by
// CanMerge); they exist so CanMerge reads a single consistent snapshot
// instead of taking the lock once per address/slot.
func (b *BlockState) lockedRecentAccount(addr common.Address) *types.Account {
	if d, ok := b.deltas[addr]; ok {
		return d.Account.After
	}
	acc, err := b.db.GetAccount(b.blockNumber, addr)
	if err != nil {
		return nil
	}
	return acc
}

func (b *BlockState) lockedStorageSlot(addr common.Address, slot common.Hash) common.Hash {
	pageKey := types.PageKey(slot)
	var page *types.StoragePage
	if d, ok := b.deltas[addr]; ok {
		if pd, ok := d.Storage[pageKey]; ok {
			page = pd.After
		}
	}
	if page == nil {
		p, err := b.db.GetStoragePage(b.blockNumber, addr, pageKey)
		if err != nil {
			return common.Hash{}
		}
		page = p
	}
	if page == nil {
		return common.Hash{}
	}
	return page.Slots[types.PageOffset(slot)]
}

func accountsEqual(a, b *types.Account) bool {
	if a == nil || b == nil {
		return a == b
	}
	aBal, bBal := a.Balance, b.Balance
	if aBal == nil {
		aBal = new(big.Int)
	}
	if bBal == nil {
		bBal = new(big.Int)
	}
	return a.Nonce == b.Nonce &&
		aBal.Cmp(bBal) == 0 &&
		a.CodeHash == b.CodeHash &&
		a.StorageRoot == b.StorageRoot &&
		a.Incarnation == b.Incarnation
}

// Merge installs a transaction's writes into BlockState. Before entries
// for first-write addresses/pages are whatever BlockState already held
// (matching §4.4's "before for first-write entries equals what BlockState
// already had"), not the transaction's own read snapshot — a later tx
// may have merged in between the read and this merge under a different
// schedule, and the delta chain must reflect the order merges actually
// happened in.
func (b *BlockState) Merge(s *State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for hash, code := range s.writtenCode() {
		if _, ok := b.code[hash]; !ok {
			b.code[hash] = code
		}
	}

	destructed := make(map[common.Address]bool)
	for _, addr := range s.destructedAccounts() {
		destructed[addr] = true
	}

	for addr, acc := range s.writtenAccounts() {
		delta := b.deltas[addr]
		if delta == nil {
			delta = types.NewStateDelta()
			delta.Account.Before = b.lockedRecentAccountNoDeltaFallback(addr)
			b.deltas[addr] = delta
		}
		if destructed[addr] {
			delta.Account.After = nil
		} else {
			delta.Account.After = acc
		}
	}

	pagesTouched := make(map[common.Address]map[common.Hash]bool)
	for key, val := range s.writtenSlots() {
		pages, ok := pagesTouched[key.addr]
		if !ok {
			pages = make(map[common.Hash]bool)
			pagesTouched[key.addr] = pages
		}
		pages[types.PageKey(key.slot)] = true
		_ = val
	}

	for addr, pages := range pagesTouched {
		delta := b.deltas[addr]
		if delta == nil {
			delta = types.NewStateDelta()
			delta.Account.Before = b.lockedRecentAccountNoDeltaFallback(addr)
			b.deltas[addr] = delta
		}
		for pageKey := range pages {
			before := delta.Storage[pageKey]
			var beforePage *types.StoragePage
			if before != nil {
				beforePage = before.After
			} else {
				p, err := b.db.GetStoragePage(b.blockNumber, addr, pageKey)
				if err == nil {
					beforePage = p
				}
			}
			afterPage := &types.StoragePage{}
			if beforePage != nil {
				afterPage.Slots = beforePage.Slots
			}
			for key, val := range s.writtenSlots() {
				if key.addr == addr && types.PageKey(key.slot) == pageKey {
					afterPage.Slots[types.PageOffset(key.slot)] = val
					delta.SetStorageSlot(key.slot, beforePage, afterPage)
				}
			}
		}
	}
}

// lockedRecentAccountNoDeltaFallback reads straight from Db, used when
// recording a delta's Before the first time an address is merged in this
// block (the delta map entry does not exist yet, so the normal
// delta-aware lookup would just recurse into this same fallback anyway).
func (b *BlockState) lockedRecentAccountNoDeltaFallback(addr common.Address) *types.Account {
	acc, err := b.db.GetAccount(b.blockNumber, addr)
	if err != nil {
		return nil
	}
	return acc
}

// Deltas returns the accumulated per-address StateDeltas, ready for
// Block Commit (§4.7) to convert into MPT updates.
func (b *BlockState) Deltas() map[common.Address]*types.StateDelta {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[common.Address]*types.StateDelta, len(b.deltas))
	for addr, d := range b.deltas {
		out[addr] = d
	}
	return out
}

// Code returns every code object introduced by this block's transactions,
// keyed by hash.
func (b *BlockState) Code() map[common.Hash][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[common.Hash][]byte, len(b.code))
	for h, c := range b.code {
		out[h] = c
	}
	return out
}
