// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package state

import (
	"math/big"
	"testing"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

func TestStateSetGetBalanceAndNonce(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	s := New(bs)
	addr := common.HexToAddress("0x01")

	if got := s.GetBalance(addr); got.Sign() != 0 {
		t.Fatalf("GetBalance on untouched addr = %s, want 0", got)
	}
	s.SetBalance(addr, big.NewInt(100))
	s.SetNonce(addr, 7)

	if got := s.GetBalance(addr); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("GetBalance = %s, want 100", got)
	}
	if got := s.GetNonce(addr); got != 7 {
		t.Fatalf("GetNonce = %d, want 7", got)
	}
}

func TestStateCheckpointRevert(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	s := New(bs)
	addr := common.HexToAddress("0x01")
	s.SetBalance(addr, big.NewInt(10))

	cp := s.Checkpoint()
	s.SetBalance(addr, big.NewInt(999))
	s.SetNonce(addr, 42)
	s.AddRefund(500)
	slot := common.HexToHash("0x01")
	s.SetStorage(addr, slot, common.HexToHash("0xaa"))

	s.Revert(cp)

	if got := s.GetBalance(addr); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("GetBalance after revert = %s, want 10", got)
	}
	if got := s.GetNonce(addr); got != 0 {
		t.Fatalf("GetNonce after revert = %d, want 0", got)
	}
	if s.Refund() != 0 {
		t.Fatalf("Refund after revert = %d, want 0", s.Refund())
	}
	if got := s.GetStorage(addr, slot); got != (common.Hash{}) {
		t.Fatalf("GetStorage after revert = %x, want zero", got)
	}
}

func TestStateNestedCheckpoints(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	s := New(bs)
	addr := common.HexToAddress("0x01")

	cp1 := s.Checkpoint()
	s.SetBalance(addr, big.NewInt(1))
	cp2 := s.Checkpoint()
	s.SetBalance(addr, big.NewInt(2))

	s.Revert(cp2)
	if got := s.GetBalance(addr); got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("GetBalance after inner revert = %s, want 1", got)
	}

	s.Revert(cp1)
	if got := s.GetBalance(addr); got.Sign() != 0 {
		t.Fatalf("GetBalance after outer revert = %s, want 0", got)
	}
}

func TestStateStorageAndCode(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	s := New(bs)
	addr := common.HexToAddress("0x01")
	slot := common.HexToHash("0x05")
	val := common.HexToHash("0xbeef")

	s.SetStorage(addr, slot, val)
	if got := s.GetStorage(addr, slot); got != val {
		t.Fatalf("GetStorage = %x, want %x", got, val)
	}

	code := []byte{0x60, 0x00, 0x60, 0x00}
	s.SetCode(addr, code)
	if got := s.GetCode(addr); string(got) != string(code) {
		t.Fatalf("GetCode = %x, want %x", got, code)
	}
	if s.GetCodeSize(addr) != len(code) {
		t.Fatalf("GetCodeSize = %d, want %d", s.GetCodeSize(addr), len(code))
	}
}

func TestStateAccessSetWarming(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	s := New(bs)
	addr := common.HexToAddress("0x01")

	if s.AccessAccount(addr) {
		t.Error("first access should be cold")
	}
	if !s.AccessAccount(addr) {
		t.Error("second access should be warm")
	}
}

func TestBlockStateMergeThenReadBack(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	addr := common.HexToAddress("0x01")

	s1 := New(bs)
	s1.SetBalance(addr, big.NewInt(50))
	s1.SetNonce(addr, 1)
	if !bs.CanMerge(s1) {
		t.Fatal("first tx touching a fresh address should always be able to merge")
	}
	bs.Merge(s1)

	s2 := New(bs)
	if got := s2.GetBalance(addr); got.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("second tx should observe first tx's merged balance, got %s", got)
	}
}

func TestBlockStateCanMergeDetectsConflict(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	addr := common.HexToAddress("0x01")

	seed := New(bs)
	seed.SetBalance(addr, big.NewInt(10))
	bs.Merge(seed)

	s1 := New(bs)
	_ = s1.GetBalance(addr) // records a read-set entry

	s2 := New(bs)
	s2.SetBalance(addr, big.NewInt(999))
	if !bs.CanMerge(s2) {
		t.Fatal("s2 has no stale reads and should merge")
	}
	bs.Merge(s2)

	if bs.CanMerge(s1) {
		t.Fatal("s1's read of addr is now stale and CanMerge should report false")
	}
}

func TestBlockStateMergeStorageGroupsIntoPage(t *testing.T) {
	bs := NewBlockState(newMemDb(), 1)
	addr := common.HexToAddress("0x01")

	s := New(bs)
	slotA := common.BigToHash(big.NewInt(0))
	slotB := common.BigToHash(big.NewInt(1))
	s.SetStorage(addr, slotA, common.HexToHash("0x01"))
	s.SetStorage(addr, slotB, common.HexToHash("0x02"))
	bs.Merge(s)

	deltas := bs.Deltas()
	d, ok := deltas[addr]
	if !ok {
		t.Fatal("expected a delta for addr after merge")
	}
	if len(d.Storage) != 1 {
		t.Fatalf("expected both slots to share one page delta, got %d pages", len(d.Storage))
	}
	page := d.Storage[types.PageKey(slotA)]
	if page.After.Slots[0] != common.HexToHash("0x01") || page.After.Slots[1] != common.HexToHash("0x02") {
		t.Fatalf("merged page slots = %+v, want [0]=0x01 [1]=0x02", page.After.Slots[:2])
	}
}
