// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"testing"

	"github.com/category-labs/monad-sub002/common"
)

func TestAccountSubstateWarmAccess(t *testing.T) {
	s := NewAccountSubstate()
	addr := common.HexToAddress("0x01")

	if s.AccessAccount(addr) {
		t.Error("first access should report cold (not already warm)")
	}
	if !s.AccessAccount(addr) {
		t.Error("second access should report warm")
	}
	if !s.IsWarmAccount(addr) {
		t.Error("IsWarmAccount should be true after access")
	}
}

func TestAccountSubstateWarmStorage(t *testing.T) {
	s := NewAccountSubstate()
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x02")

	if s.AccessStorage(addr, slot) {
		t.Error("first storage access should report cold")
	}
	if !s.IsWarmStorage(addr, slot) {
		t.Error("slot should be warm after access")
	}
	other := common.HexToHash("0x03")
	if s.IsWarmStorage(addr, other) {
		t.Error("unrelated slot should not be warm")
	}
}

func TestAccountSubstateRefund(t *testing.T) {
	s := NewAccountSubstate()
	s.AddRefund(100)
	s.AddRefund(50)
	if s.Refund() != 150 {
		t.Fatalf("Refund() = %d, want 150", s.Refund())
	}
	s.SubRefund(200)
	if s.Refund() != 0 {
		t.Fatalf("Refund() after over-subtract = %d, want 0 (clamped)", s.Refund())
	}
}

func TestAccountSubstateDestructAndTouchedEmpty(t *testing.T) {
	s := NewAccountSubstate()
	addr := common.HexToAddress("0x01")
	if s.IsDestructed(addr) {
		t.Error("addr should not be destructed initially")
	}
	s.Destruct(addr)
	if !s.IsDestructed(addr) {
		t.Error("addr should be destructed after Destruct")
	}

	other := common.HexToAddress("0x02")
	s.TouchEmpty(other)
	if !s.IsTouchedEmpty(other) {
		t.Error("other should be touched-empty after TouchEmpty")
	}
	if s.IsTouchedEmpty(addr) {
		t.Error("addr should not be touched-empty")
	}
}

func TestAccountSubstateTransientStorage(t *testing.T) {
	s := NewAccountSubstate()
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x02")

	if got := s.GetTransient(addr, slot); got != (common.Hash{}) {
		t.Fatalf("unset transient slot = %x, want zero", got)
	}
	val := common.HexToHash("0xdead")
	s.SetTransient(addr, slot, val)
	if got := s.GetTransient(addr, slot); got != val {
		t.Fatalf("GetTransient = %x, want %x", got, val)
	}
	s.SetTransient(addr, slot, common.Hash{})
	if got := s.GetTransient(addr, slot); got != (common.Hash{}) {
		t.Fatalf("GetTransient after clearing = %x, want zero", got)
	}
}

func TestAccountSubstateSnapshotRestore(t *testing.T) {
	s := NewAccountSubstate()
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x02")

	s.AccessAccount(addr)
	s.AddRefund(10)
	snap := s.snapshot()

	s.AccessStorage(addr, slot)
	s.AddRefund(20)
	s.Destruct(addr)
	s.SetTransient(addr, slot, common.HexToHash("0x99"))

	s.restore(snap)

	if s.IsWarmStorage(addr, slot) {
		t.Error("restore should undo post-snapshot warm-storage access")
	}
	if s.Refund() != 10 {
		t.Errorf("Refund() after restore = %d, want 10", s.Refund())
	}
	if s.IsDestructed(addr) {
		t.Error("restore should undo post-snapshot destruct")
	}
	if got := s.GetTransient(addr, slot); got != (common.Hash{}) {
		t.Errorf("restore should undo post-snapshot transient write, got %x", got)
	}
	if !s.IsWarmAccount(addr) {
		t.Error("restore should keep pre-snapshot warm account")
	}
}
