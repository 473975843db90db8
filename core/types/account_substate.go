// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/category-labs/monad-sub002/common"
)

// StorageKey identifies a single storage slot within a transaction's
// access set: the owning address plus the 32-byte slot key.
type StorageKey struct {
	Address common.Address
	Slot    common.Hash
}

// AccountSubstate is the per-transaction EIP-2929 access-list bookkeeping
// plus the Monad extensions (transient storage, destroyed/touched-empty
// sets) that a State must roll back to exactly on checkpoint revert.
//
// The warm/cold and destroyed/touched-empty sets are golang-set/v2 sets
// rather than plain maps: checkpoint/revert needs cheap membership tests
// and set-difference-free unions far more often than iteration, and the
// generic set type keeps that intent explicit at every call site.
type AccountSubstate struct {
	warmAccounts mapset.Set[common.Address]
	warmStorage  mapset.Set[StorageKey]

	destructs     mapset.Set[common.Address]
	touchedEmpty  mapset.Set[common.Address]

	refund uint64

	transient map[StorageKey]common.Hash

	checkpoints []substateSnapshot
}

// NewAccountSubstate returns an empty substate with no warm entries, zero
// refund, and an empty transient store.
func NewAccountSubstate() *AccountSubstate {
	return &AccountSubstate{
		warmAccounts: mapset.NewThreadUnsafeSet[common.Address](),
		warmStorage:  mapset.NewThreadUnsafeSet[StorageKey](),
		destructs:    mapset.NewThreadUnsafeSet[common.Address](),
		touchedEmpty: mapset.NewThreadUnsafeSet[common.Address](),
		transient:    make(map[StorageKey]common.Hash),
	}
}

// AccessAccount marks addr warm, returning true if it was already warm
// (i.e. the caller owes no additional cold-access gas surcharge).
func (s *AccountSubstate) AccessAccount(addr common.Address) (alreadyWarm bool) {
	alreadyWarm = s.warmAccounts.Contains(addr)
	s.warmAccounts.Add(addr)
	return alreadyWarm
}

// AccessStorage marks (addr, slot) warm, mirroring AccessAccount.
func (s *AccountSubstate) AccessStorage(addr common.Address, slot common.Hash) (alreadyWarm bool) {
	key := StorageKey{Address: addr, Slot: slot}
	alreadyWarm = s.warmStorage.Contains(key)
	s.warmStorage.Add(key)
	return alreadyWarm
}

// IsWarmAccount reports whether addr has been accessed already.
func (s *AccountSubstate) IsWarmAccount(addr common.Address) bool {
	return s.warmAccounts.Contains(addr)
}

// IsWarmStorage reports whether (addr, slot) has been accessed already.
func (s *AccountSubstate) IsWarmStorage(addr common.Address, slot common.Hash) bool {
	return s.warmStorage.Contains(StorageKey{Address: addr, Slot: slot})
}

// Destruct records addr as destroyed by SELFDESTRUCT within this tx.
func (s *AccountSubstate) Destruct(addr common.Address) {
	s.destructs.Add(addr)
}

// IsDestructed reports whether addr was destroyed within this tx.
func (s *AccountSubstate) IsDestructed(addr common.Address) bool {
	return s.destructs.Contains(addr)
}

// TouchEmpty records addr as touched while in the EIP-161 "empty" shape,
// so a post-execution sweep can delete it.
func (s *AccountSubstate) TouchEmpty(addr common.Address) {
	s.touchedEmpty.Add(addr)
}

// IsTouchedEmpty reports whether addr was touched-empty within this tx.
func (s *AccountSubstate) IsTouchedEmpty(addr common.Address) bool {
	return s.touchedEmpty.Contains(addr)
}

// AddRefund increases the gas refund counter by gas.
func (s *AccountSubstate) AddRefund(gas uint64) {
	s.refund += gas
}

// SubRefund decreases the gas refund counter by gas; it never underflows
// below zero (a caller asking to subtract more than is accrued is a bug
// in the calling opcode handler, not a state the substate must tolerate
// silently, but clamping keeps replay deterministic under retry).
func (s *AccountSubstate) SubRefund(gas uint64) {
	if gas > s.refund {
		s.refund = 0
		return
	}
	s.refund -= gas
}

// Refund returns the current accrued gas refund.
func (s *AccountSubstate) Refund() uint64 {
	return s.refund
}

// GetTransient returns the transient-storage value at (addr, slot), or the
// zero hash if unset.
func (s *AccountSubstate) GetTransient(addr common.Address, slot common.Hash) common.Hash {
	return s.transient[StorageKey{Address: addr, Slot: slot}]
}

// SetTransient sets the transient-storage value at (addr, slot).
func (s *AccountSubstate) SetTransient(addr common.Address, slot common.Hash, val common.Hash) {
	key := StorageKey{Address: addr, Slot: slot}
	if val == (common.Hash{}) {
		delete(s.transient, key)
		return
	}
	s.transient[key] = val
}

// snapshot captures the substate's full mutable content so Checkpoint/Revert
// can restore it verbatim; the sets and map are cloned so later mutation of
// the live substate cannot alias into the snapshot.
type substateSnapshot struct {
	warmAccounts mapset.Set[common.Address]
	warmStorage  mapset.Set[StorageKey]
	destructs    mapset.Set[common.Address]
	touchedEmpty mapset.Set[common.Address]
	refund       uint64
	transient    map[StorageKey]common.Hash
}

func (s *AccountSubstate) snapshot() substateSnapshot {
	transient := make(map[StorageKey]common.Hash, len(s.transient))
	for k, v := range s.transient {
		transient[k] = v
	}
	return substateSnapshot{
		warmAccounts: s.warmAccounts.Clone(),
		warmStorage:  s.warmStorage.Clone(),
		destructs:    s.destructs.Clone(),
		touchedEmpty: s.touchedEmpty.Clone(),
		refund:       s.refund,
		transient:    transient,
	}
}

func (s *AccountSubstate) restore(snap substateSnapshot) {
	s.warmAccounts = snap.warmAccounts
	s.warmStorage = snap.warmStorage
	s.destructs = snap.destructs
	s.touchedEmpty = snap.touchedEmpty
	s.refund = snap.refund
	s.transient = snap.transient
}

// Checkpoint pushes the substate's current content onto an internal stack
// and returns a handle that Revert can later roll back to. Checkpoints may
// nest; each must be paired with exactly one Commit or Revert, mirroring
// the State-level checkpoint/revert/commit contract of §4.4.
func (s *AccountSubstate) Checkpoint() int {
	s.checkpoints = append(s.checkpoints, s.snapshot())
	return len(s.checkpoints) - 1
}

// Revert restores the substate to the content recorded at cp and discards
// cp and every checkpoint taken after it.
func (s *AccountSubstate) Revert(cp int) {
	s.restore(s.checkpoints[cp])
	s.checkpoints = s.checkpoints[:cp]
}

// Commit discards cp and every checkpoint after it without restoring,
// keeping the substate's current content.
func (s *AccountSubstate) Commit(cp int) {
	s.checkpoints = s.checkpoints[:cp]
}
