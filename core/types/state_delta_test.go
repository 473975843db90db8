// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"math/big"
	"testing"

	"github.com/category-labs/monad-sub002/common"
)

func TestStateDeltaAccountLifecycle(t *testing.T) {
	d := NewStateDelta()
	if !d.IsAccountNew() && d.Account.Before == nil && d.Account.After == nil {
		// neither new nor destroyed when both sides are nil
	}
	before := &Account{Nonce: 0, Balance: big.NewInt(0)}
	after := &Account{Nonce: 1, Balance: big.NewInt(100)}
	d.Account = AccountChange{Before: nil, After: after}
	if !d.IsAccountNew() {
		t.Error("account with nil Before and non-nil After should be new")
	}

	d.Account = AccountChange{Before: before, After: nil}
	if !d.IsAccountDestroyed() {
		t.Error("account with non-nil Before and nil After should be destroyed")
	}
}

func TestStateDeltaSetStorageSlotGroupsByPage(t *testing.T) {
	d := NewStateDelta()
	slotA := common.BigToHash(big.NewInt(0))
	slotB := common.BigToHash(big.NewInt(1))
	if PageKey(slotA) != PageKey(slotB) {
		t.Fatal("test fixture assumption broken: slots 0 and 1 must share a page")
	}

	page := PageKey(slotA)
	beforePage := &StoragePage{}
	afterPage := &StoragePage{}
	afterPage.Slots[0] = common.HexToHash("0x01")

	d.SetStorageSlot(slotA, beforePage, afterPage)
	d.SetStorageSlot(slotB, beforePage, afterPage)

	if len(d.Storage) != 1 {
		t.Fatalf("expected a single page delta, got %d", len(d.Storage))
	}
	keys := d.SlotKeys[page]
	if len(keys) != 2 {
		t.Fatalf("expected 2 distinct slot keys recorded for the page, got %d", len(keys))
	}
}

func TestStateDeltaMergeKeepsEarliestBefore(t *testing.T) {
	d1 := NewStateDelta()
	first := &Account{Nonce: 0, Balance: big.NewInt(0)}
	mid := &Account{Nonce: 1, Balance: big.NewInt(50)}
	d1.Account = AccountChange{Before: nil, After: mid}

	d2 := NewStateDelta()
	final := &Account{Nonce: 2, Balance: big.NewInt(70)}
	d2.Account = AccountChange{Before: mid, After: final}

	d1.Merge(d2)

	if d1.Account.Before != nil {
		t.Error("Merge should preserve d1's original Before (nil: address was new this block)")
	}
	if d1.Account.After != final {
		t.Error("Merge should adopt other's After")
	}
	_ = first
}

func TestStateDeltaMergeUnionsStorage(t *testing.T) {
	d1 := NewStateDelta()
	d2 := NewStateDelta()

	slotA := common.BigToHash(big.NewInt(0))
	pageA := &StoragePage{}
	d1.SetStorageSlot(slotA, pageA, pageA)

	slotB := common.BigToHash(big.NewInt(20)) // different page than slotA
	if PageKey(slotA) == PageKey(slotB) {
		t.Fatal("test fixture assumption broken: slots must be on different pages")
	}
	pageB := &StoragePage{}
	d2.SetStorageSlot(slotB, pageB, pageB)

	d1.Merge(d2)

	if len(d1.Storage) != 2 {
		t.Fatalf("expected 2 page deltas after merge, got %d", len(d1.Storage))
	}
	pages := d1.TouchedPages()
	if len(pages) != 2 {
		t.Fatalf("TouchedPages() = %d entries, want 2", len(pages))
	}
}
