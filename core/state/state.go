// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package state

import (
	"math/big"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/core/types"
)

// pageSlotKey addresses a single storage slot by its owning account and
// raw slot key; State keeps per-slot working copies and groups them into
// StoragePage deltas only when it merges into BlockState, per §4.4's
// "page-granular... retains the original per-slot keys" description.
type pageSlotKey struct {
	addr common.Address
	slot common.Hash
}

// State is the per-transaction snapshot described in §4.4: a transient
// journal, EIP-2929 access set, and refund counter layered over a
// BlockState. It implements the EVMC host surface plus the Monad
// extensions for page storage and transient storage; it has no
// reserve-balance accounting.
type State struct {
	block *BlockState

	// accounts holds working copies, made on the first write to an
	// address (a clone of BlockState's value, or a fresh empty account);
	// baseAccounts records the BlockState value seen at the first read,
	// for conflict detection at merge time.
	accounts     map[common.Address]*types.Account
	baseAccounts map[common.Address]*types.Account

	storage     map[pageSlotKey]common.Hash
	baseStorage map[pageSlotKey]common.Hash

	code map[common.Hash][]byte

	substate *types.AccountSubstate
	logs     []*types.Log

	journal     []journalEntry
	checkpoints []checkpoint

	// callDepth tracks emit_call_frame nesting for trace assembly;
	// the trace payload itself is a Monad extension point left to the
	// caller (§6 treats call-trace assembly as a thin bookkeeping
	// layer, not a format this package must fix).
	callDepth int
}

type checkpoint struct {
	journalLen int
	substateCP int
	logsLen    int
	callDepth  int
}

// New returns a fresh per-tx State forked from block.
func New(block *BlockState) *State {
	return &State{
		block:        block,
		accounts:     make(map[common.Address]*types.Account),
		baseAccounts: make(map[common.Address]*types.Account),
		storage:      make(map[pageSlotKey]common.Hash),
		baseStorage:  make(map[pageSlotKey]common.Hash),
		code:         make(map[common.Hash][]byte),
		substate:     types.NewAccountSubstate(),
	}
}

func (s *State) readAccount(addr common.Address) *types.Account {
	if base, ok := s.baseAccounts[addr]; ok {
		return base
	}
	base := s.block.recentAccount(addr)
	s.baseAccounts[addr] = base
	return base
}

func (s *State) readStorageSlot(addr common.Address, slot common.Hash) common.Hash {
	key := pageSlotKey{addr: addr, slot: slot}
	if val, ok := s.baseStorage[key]; ok {
		return val
	}
	val := s.block.getStorageSlot(addr, slot)
	s.baseStorage[key] = val
	return val
}

// GetBalance returns addr's current balance (zero for a nonexistent
// account).
func (s *State) GetBalance(addr common.Address) *big.Int {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Balance
	}
	if base := s.readAccount(addr); base != nil {
		return new(big.Int).Set(base.Balance)
	}
	return new(big.Int)
}

// SetBalance overwrites addr's balance.
func (s *State) SetBalance(addr common.Address, balance *big.Int) {
	acc := s.ensureAccount(addr)
	s.journal = append(s.journal, balanceEntry{addr: addr, prev: acc.Balance})
	acc.Balance = new(big.Int).Set(balance)
}

// GetNonce returns addr's current nonce (zero for a nonexistent account).
func (s *State) GetNonce(addr common.Address) uint64 {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Nonce
	}
	if base := s.readAccount(addr); base != nil {
		return base.Nonce
	}
	return 0
}

// SetNonce overwrites addr's nonce.
func (s *State) SetNonce(addr common.Address, nonce uint64) {
	acc := s.ensureAccount(addr)
	s.journal = append(s.journal, nonceEntry{addr: addr, prev: acc.Nonce})
	acc.Nonce = nonce
}

// GetCodeHash returns addr's code hash, or the empty-code hash for a
// nonexistent or codeless account.
func (s *State) GetCodeHash(addr common.Address) common.Hash {
	if acc, ok := s.accounts[addr]; ok {
		return acc.CodeHash
	}
	if base := s.readAccount(addr); base != nil {
		return base.CodeHash
	}
	return types.EmptyCodeHash
}

// GetCode returns addr's code, resolving through BlockState/Db by code
// hash if not already loaded into this tx's working set.
func (s *State) GetCode(addr common.Address) []byte {
	hash := s.GetCodeHash(addr)
	if hash == types.EmptyCodeHash {
		return nil
	}
	if code, ok := s.code[hash]; ok {
		return code
	}
	code := s.block.getCode(hash)
	s.code[hash] = code
	return code
}

// GetCodeSize returns len(GetCode(addr)) without necessarily materialising
// the full code body (a real Db can answer this more cheaply; this layer
// just forwards the length of whatever GetCode resolved).
func (s *State) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

// SetCode installs code for addr, updating its code hash.
func (s *State) SetCode(addr common.Address, code []byte) {
	obj := types.NewCodeObject(code)
	acc := s.ensureAccount(addr)
	s.journal = append(s.journal, codeEntry{addr: addr, prevHash: acc.CodeHash})
	acc.CodeHash = obj.Hash
	if _, ok := s.code[obj.Hash]; !ok {
		s.journal = append(s.journal, codeObjectEntry{hash: obj.Hash})
		s.code[obj.Hash] = code
	}
}

// GetStorage returns the current value at (addr, slot), whether or not it
// has been written within this tx.
func (s *State) GetStorage(addr common.Address, slot common.Hash) common.Hash {
	key := pageSlotKey{addr: addr, slot: slot}
	if val, ok := s.storage[key]; ok {
		return val
	}
	return s.readStorageSlot(addr, slot)
}

// SetStorage writes val at (addr, slot).
func (s *State) SetStorage(addr common.Address, slot common.Hash, val common.Hash) {
	key := pageSlotKey{addr: addr, slot: slot}
	prev, existed := s.storage[key]
	if !existed {
		prev = s.readStorageSlot(addr, slot)
	}
	s.journal = append(s.journal, storageEntry{key: key, prevVal: prev, existed: existed})
	s.storage[key] = val
}

// GetBlockStorage is the page-granular read used when a caller wants an
// entire page rather than a single slot (e.g. prefetch or trie-commit
// preparation).
func (s *State) GetBlockStorage(addr common.Address, pageKey common.Hash) *types.StoragePage {
	return s.block.getStoragePage(addr, pageKey)
}

// SetBlockStorage installs an entire page's worth of slots at once,
// journalling each changed slot individually so Revert composes with
// per-slot SetStorage calls.
func (s *State) SetBlockStorage(addr common.Address, pageKey common.Hash, page *types.StoragePage) {
	for i, val := range page.Slots {
		slot := slotKeyForPage(pageKey, i)
		s.SetStorage(addr, slot, val)
	}
}

// slotKeyForPage reconstructs the full slot key for offset i within the
// page identified by pageKey (the inverse of types.PageKey/PageOffset).
func slotKeyForPage(pageKey common.Hash, offset int) common.Hash {
	var out common.Hash
	const shift = 4
	carry := byte(0)
	for i := len(pageKey) - 1; i >= 0; i-- {
		b := pageKey[i]
		out[i] = (b << shift) | carry
		carry = b >> (8 - shift)
	}
	out[len(out)-1] |= byte(offset) & (types.SlotsPerPage - 1)
	return out
}

// AccessAccount marks addr warm and returns whether it was already warm.
func (s *State) AccessAccount(addr common.Address) bool {
	return s.substate.AccessAccount(addr)
}

// AccessStorage marks (addr, slot) warm and returns whether it was
// already warm.
func (s *State) AccessStorage(addr common.Address, slot common.Hash) bool {
	return s.substate.AccessStorage(addr, slot)
}

// SelfDestruct records addr as destroyed within this tx.
func (s *State) SelfDestruct(addr common.Address) {
	s.substate.Destruct(addr)
}

// HasSelfDestructed reports whether addr was destroyed within this tx.
func (s *State) HasSelfDestructed(addr common.Address) bool {
	return s.substate.IsDestructed(addr)
}

// Touch marks addr as touched, recording it for the empty-account sweep
// if it currently has the EIP-161 empty shape.
func (s *State) Touch(addr common.Address) {
	acc := s.ensureAccount(addr)
	if acc.IsEmpty() {
		s.substate.TouchEmpty(addr)
	}
}

// StoreLog appends a log entry emitted by the executing transaction.
func (s *State) StoreLog(log *types.Log) {
	s.logs = append(s.logs, log)
	s.journal = append(s.journal, logEntry{})
}

// Logs returns every log stored so far in this tx.
func (s *State) Logs() []*types.Log {
	return s.logs
}

// AddRefund/SubRefund/Refund forward to the substate.
func (s *State) AddRefund(gas uint64) { s.substate.AddRefund(gas) }
func (s *State) SubRefund(gas uint64) { s.substate.SubRefund(gas) }
func (s *State) Refund() uint64       { return s.substate.Refund() }

// GetTransientStorage/SetTransientStorage forward to the substate.
func (s *State) GetTransientStorage(addr common.Address, slot common.Hash) common.Hash {
	return s.substate.GetTransient(addr, slot)
}
func (s *State) SetTransientStorage(addr common.Address, slot common.Hash, val common.Hash) {
	s.substate.SetTransient(addr, slot, val)
}

// RecentAccount returns BlockState's authoritative view of addr,
// bypassing this tx's own working copy — used by the validator to
// re-check a sender whose balance may have moved due to an earlier tx's
// fee debit (§4.5 "Tie-breaks").
func (s *State) RecentAccount(addr common.Address) *types.Account {
	return s.block.recentAccount(addr)
}

// EmitCallFrame brackets nested-call trace bookkeeping; Enter/Exit pairs
// must nest correctly with Checkpoint/Commit/Revert.
func (s *State) EmitCallFrame() (enter func(), exit func()) {
	enter = func() { s.callDepth++ }
	exit = func() { s.callDepth-- }
	return enter, exit
}

// Checkpoint snapshots the journal, substate, and log length, returning a
// handle Revert or Commit must later consume exactly once. Checkpoints
// nest.
func (s *State) Checkpoint() int {
	cp := checkpoint{
		journalLen: len(s.journal),
		substateCP: s.substate.Checkpoint(),
		logsLen:    len(s.logs),
		callDepth:  s.callDepth,
	}
	s.checkpoints = append(s.checkpoints, cp)
	return len(s.checkpoints) - 1
}

// Revert rolls storage, transient storage, account fields, logs, and the
// access set back to the state recorded at cp, and discards cp and every
// checkpoint taken after it.
func (s *State) Revert(cp int) {
	mark := s.checkpoints[cp]
	for i := len(s.journal) - 1; i >= mark.journalLen; i-- {
		s.journal[i].revert(s)
	}
	s.journal = s.journal[:mark.journalLen]
	s.substate.Revert(mark.substateCP)
	s.logs = s.logs[:mark.logsLen]
	s.callDepth = mark.callDepth
	s.checkpoints = s.checkpoints[:cp]
}

// Commit discards cp and every later checkpoint without reverting.
func (s *State) Commit(cp int) {
	mark := s.checkpoints[cp]
	s.substate.Commit(mark.substateCP)
	s.checkpoints = s.checkpoints[:cp]
}

// ReadSet/WriteSet support BlockState.CanMerge/Merge (package-internal:
// BlockState lives in the same package, so these are unexported).

func (s *State) readAccounts() map[common.Address]*types.Account { return s.baseAccounts }
func (s *State) readSlots() map[pageSlotKey]common.Hash           { return s.baseStorage }
func (s *State) writtenAccounts() map[common.Address]*types.Account {
	return s.accounts
}
func (s *State) writtenSlots() map[pageSlotKey]common.Hash { return s.storage }
func (s *State) writtenCode() map[common.Hash][]byte       { return s.code }
func (s *State) destructedAccounts() []common.Address {
	out := make([]common.Address, 0)
	for addr := range s.accounts {
		if s.substate.IsDestructed(addr) {
			out = append(out, addr)
		}
	}
	return out
}
func (s *State) touchedEmptyAccounts() []common.Address {
	out := make([]common.Address, 0)
	for addr := range s.accounts {
		if s.substate.IsTouchedEmpty(addr) {
			out = append(out, addr)
		}
	}
	return out
}
