// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package blockstm

import "sort"

// statusManager tracks, for a fixed-size set of transaction indices, which
// are still pending, which are currently being (re-)executed, which have
// settled, and which are blocked waiting on an unresolved dependency. All
// three of pending/inProgress/complete are kept sorted ascending so that
// maxAllComplete and getRevalidationRange can be computed by a single pass.
type statusManager struct {
	pending    []int
	inProgress []int
	complete   []int
	blocked    map[int]struct{}
}

func makeStatusManager(numTx int) *statusManager {
	pending := make([]int, numTx)
	for i := range pending {
		pending[i] = i
	}

	return &statusManager{
		pending: pending,
		blocked: make(map[int]struct{}),
	}
}

// takeNextPending pops the lowest-indexed pending transaction and marks it
// in progress, returning -1 if nothing is pending.
func (s *statusManager) takeNextPending() int {
	if len(s.pending) == 0 {
		return -1
	}

	x := s.pending[0]
	s.pending = s.pending[1:]
	s.inProgress = insertInList(s.inProgress, x)

	return x
}

// revertInProgress moves a transaction back from in-progress to pending,
// used when its execution aborts and it must be retried.
func (s *statusManager) revertInProgress(tx int) {
	s.inProgress = removeFromList(s.inProgress, tx)
	s.pending = insertInList(s.pending, tx)
}

func (s *statusManager) markComplete(tx int) {
	s.inProgress = removeFromList(s.inProgress, tx)
	s.complete = insertInList(s.complete, tx)
}

func (s *statusManager) checkInProgress(tx int) bool { return containsInt(s.inProgress, tx) }
func (s *statusManager) checkComplete(tx int) bool   { return containsInt(s.complete, tx) }
func (s *statusManager) checkPending(tx int) bool    { return containsInt(s.pending, tx) }

func (s *statusManager) setBlocked(tx int)   { s.blocked[tx] = struct{}{} }
func (s *statusManager) clearBlocked(tx int) { delete(s.blocked, tx) }
func (s *statusManager) isBlocked(tx int) bool {
	_, ok := s.blocked[tx]
	return ok
}

func (s *statusManager) countComplete() int { return len(s.complete) }

// maxAllComplete returns the highest transaction index N such that every
// index from 0 to N is complete, or -1 if transaction 0 itself is not yet
// complete. This is the prefix of the block that is safe to finalize.
func (s *statusManager) maxAllComplete() int {
	res := -1
	for _, v := range s.complete {
		if v == res+1 {
			res = v
		} else {
			break
		}
	}

	return res
}

// getRevalidationRange returns the maximal run of already-complete
// transaction indices starting exactly at fromIdx, stopping at the first
// gap. Those are the transactions whose results may need revalidation once
// fromIdx-1 changes.
func (s *statusManager) getRevalidationRange(fromIdx int) []int {
	var res []int

	next := fromIdx
	for _, v := range s.complete {
		if v < fromIdx {
			continue
		}
		if v != next {
			break
		}
		res = append(res, v)
		next++
	}

	return res
}

func containsInt(list []int, v int) bool {
	i := sort.SearchInts(list, v)
	return i < len(list) && list[i] == v
}

// insertInList inserts v into the sorted list, leaving it unchanged if v is
// already present.
func insertInList(list []int, v int) []int {
	i := sort.SearchInts(list, v)
	if i < len(list) && list[i] == v {
		return list
	}

	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = v

	return list
}

func removeFromList(list []int, v int) []int {
	i := sort.SearchInts(list, v)
	if i < len(list) && list[i] == v {
		return append(list[:i], list[i+1:]...)
	}

	return list
}
