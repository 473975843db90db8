// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
)

// AccountChange is the (before, after) pair recorded for an address touched
// within a block. Before is nil for an address that did not exist prior to
// the block; after is nil if the account was destroyed by block end.
type AccountChange struct {
	Before *Account
	After  *Account
}

// PageDelta is the (before, after) pair for one StoragePage. The original
// per-slot keys touched in the page are kept alongside it in the owning
// StateDelta's SlotKeys, so the page can be re-hashed slot-by-slot into the
// trie on commit without re-deriving keys from the page-grouped
// representation.
type PageDelta struct {
	Before *StoragePage
	After  *StoragePage
}

// StateDelta is the per-block, per-address record of account and
// page-scoped storage changes accumulated by BlockState as transactions
// merge. Storage is page-granular: every slot written within one 16-slot
// page shares a single PageDelta entry, and SlotKeys retains the original
// per-slot keys touched in that page so they can be individually re-hashed
// into the trie on commit.
type StateDelta struct {
	Account AccountChange

	Storage  map[common.Hash]*PageDelta
	SlotKeys map[common.Hash][]common.Hash
}

// NewStateDelta returns an empty delta with before == after == nil, ready
// to be filled in as a BlockState first observes and then mutates addr.
func NewStateDelta() *StateDelta {
	return &StateDelta{
		Storage:  make(map[common.Hash]*PageDelta),
		SlotKeys: make(map[common.Hash][]common.Hash),
	}
}

// touchSlotKey records slotKey as belonging to page, appending it to
// SlotKeys[page] the first time that slot is seen in this delta.
func (d *StateDelta) touchSlotKey(page, slotKey common.Hash) {
	keys := d.SlotKeys[page]
	for _, k := range keys {
		if k == slotKey {
			return
		}
	}
	d.SlotKeys[page] = append(keys, slotKey)
}

// SetStorageSlot records that slotKey's page moved from before to after,
// retaining the slot key for later re-hashing. Before/after refer to the
// whole page's before/after snapshot, since pages are the unit of delta
// storage; callers (BlockState) are responsible for constructing the
// updated page value and passing it here.
func (d *StateDelta) SetStorageSlot(slotKey common.Hash, before, after *StoragePage) {
	page := PageKey(slotKey)
	existing, ok := d.Storage[page]
	if !ok {
		d.Storage[page] = &PageDelta{Before: before, After: after}
	} else {
		existing.After = after
	}
	d.touchSlotKey(page, slotKey)
}

// TouchedPages returns the set of page keys with a recorded delta.
func (d *StateDelta) TouchedPages() []common.Hash {
	pages := make([]common.Hash, 0, len(d.Storage))
	for p := range d.Storage {
		pages = append(pages, p)
	}
	return pages
}

// IsAccountDestroyed reports whether the delta's after-account is absent
// while a before-account existed, i.e. the address was destroyed within
// the block.
func (d *StateDelta) IsAccountDestroyed() bool {
	return d.Account.Before != nil && d.Account.After == nil
}

// IsAccountNew reports whether the address had no prior account.
func (d *StateDelta) IsAccountNew() bool {
	return d.Account.Before == nil && d.Account.After != nil
}

// Merge folds another delta for the same address into d, keeping d's
// original Before (the earliest-known state) and adopting other's After,
// along with other's storage page deltas layered on top of d's. Used when
// a later transaction's merge touches an address this block has already
// recorded a delta for.
func (d *StateDelta) Merge(other *StateDelta) {
	d.Account.After = other.Account.After

	for page, delta := range other.Storage {
		existing, ok := d.Storage[page]
		if !ok {
			cpy := *delta
			d.Storage[page] = &cpy
		} else {
			existing.After = delta.After
		}
		for _, slotKey := range other.SlotKeys[page] {
			d.touchSlotKey(page, slotKey)
		}
	}
}
