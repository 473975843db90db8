// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package state

import (
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

// journalEntry is one undoable mutation recorded by State so Revert can
// play the journal back in reverse, mirroring the teacher's StateDB
// dirty-journal pattern (core/state/journal_test.go) but scoped to the
// simpler field set §4.4 requires.
type journalEntry interface {
	revert(s *State)
}

type createAccountEntry struct {
	addr common.Address
}

func (e createAccountEntry) revert(s *State) {
	delete(s.accounts, e.addr)
}

type balanceEntry struct {
	addr common.Address
	prev *big.Int
}

func (e balanceEntry) revert(s *State) {
	s.accounts[e.addr].Balance = e.prev
}

type nonceEntry struct {
	addr common.Address
	prev uint64
}

func (e nonceEntry) revert(s *State) {
	s.accounts[e.addr].Nonce = e.prev
}

type codeEntry struct {
	addr     common.Address
	prevHash common.Hash
}

func (e codeEntry) revert(s *State) {
	s.accounts[e.addr].CodeHash = e.prevHash
}

type incarnationEntry struct {
	addr common.Address
	prev uint64
}

func (e incarnationEntry) revert(s *State) {
	s.accounts[e.addr].Incarnation = e.prev
}

type storageEntry struct {
	key     pageSlotKey
	prevVal common.Hash
	existed bool
}

func (e storageEntry) revert(s *State) {
	if !e.existed {
		delete(s.storage, e.key)
		return
	}
	s.storage[e.key] = e.prevVal
}

type logEntry struct{}

func (e logEntry) revert(s *State) {
	s.logs = s.logs[:len(s.logs)-1]
}

type codeObjectEntry struct {
	hash common.Hash
}

func (e codeObjectEntry) revert(s *State) {
	delete(s.code, e.hash)
}

// ensureAccount returns the working copy of addr's account, creating it
// (and journalling the creation) on first touch within this State.
func (s *State) ensureAccount(addr common.Address) *types.Account {
	if acc, ok := s.accounts[addr]; ok {
		return acc
	}
	base := s.readAccount(addr)
	var acc *types.Account
	if base == nil {
		s.journal = append(s.journal, createAccountEntry{addr: addr})
		acc = types.NewEmptyAccount()
	} else {
		acc = base.Copy()
	}
	s.accounts[addr] = acc
	return acc
}
