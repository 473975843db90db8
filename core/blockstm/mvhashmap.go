// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package blockstm implements the optimistic parallel execution scheduler:
// transactions within a block are speculatively executed out of order
// against a multi-version hash map. A conflict is detected during
// execution, when a task's Execute reports ErrExecAbortError; the task is
// then re-executed at a higher incarnation. Read-sets of settled
// transactions are not revalidated against later writes.
package blockstm

import (
	"sort"
	"sync"
)

// Version identifies a single write to a Key: the index of the transaction
// that produced it within the block, and the incarnation (attempt number)
// of that transaction's execution. Incarnation increases each time a
// transaction is aborted and re-executed.
type Version struct {
	TxnIndex    int
	Incarnation int
}

// Read result status codes. The numeric values are part of the scheduler's
// contract: callers branch on Status() rather than comparing Version
// fields directly.
const (
	// MVReadResultDone means Read found a concrete, non-estimated write
	// from a lower transaction index; DepIdx/Incarnation/Value identify it.
	MVReadResultDone = 0
	// MVReadResultDependency means Read found a write from a lower
	// transaction index, but that transaction is mid-reexecution and the
	// write is only an estimate; the reader must abort and wait for it.
	MVReadResultDependency = 1
	// MVReadResultNone means no prior transaction has written this key;
	// the read must fall through to the underlying state.
	MVReadResultNone = 2
)

// MVReadResult is the outcome of MVHashMap.Read.
type MVReadResult struct {
	depIdx      int
	incarnation int
	value       interface{}
	status      int
}

func (r MVReadResult) DepIdx() int        { return r.depIdx }
func (r MVReadResult) Incarnation() int   { return r.incarnation }
func (r MVReadResult) Value() interface{} { return r.value }
func (r MVReadResult) Status() int        { return r.status }

// Read descriptor kinds, recording whether a read was served from the
// multi-version map or fell through to storage.
const (
	ReadKindMap = iota
	ReadKindStorage
)

// ReadDescriptor records one read a task performed during execution, for
// later validation and for dependency-metadata collection.
type ReadDescriptor struct {
	Path Key
	Kind int
	V    Version
}

// WriteDescriptor records one write a task produced during execution.
type WriteDescriptor struct {
	Path Key
	V    Version
	Val  interface{}
}

type mvVersion struct {
	Version
	value    interface{}
	estimate bool
}

// mvList holds every version written to a single Key, kept sorted
// ascending by TxnIndex so Read can binary-search for the nearest version
// below a given transaction index.
type mvList struct {
	mu       sync.Mutex
	versions []mvVersion
}

func (l *mvList) write(v Version, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := sort.Search(len(l.versions), func(i int) bool { return l.versions[i].TxnIndex >= v.TxnIndex })
	if i < len(l.versions) && l.versions[i].TxnIndex == v.TxnIndex {
		l.versions[i].Incarnation = v.Incarnation
		l.versions[i].value = value
		l.versions[i].estimate = false
		return
	}
	l.versions = append(l.versions, mvVersion{})
	copy(l.versions[i+1:], l.versions[i:])
	l.versions[i] = mvVersion{Version: v, value: value}
}

func (l *mvList) markEstimate(txIdx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := sort.Search(len(l.versions), func(i int) bool { return l.versions[i].TxnIndex >= txIdx })
	if i < len(l.versions) && l.versions[i].TxnIndex == txIdx {
		l.versions[i].estimate = true
	}
}

func (l *mvList) delete(txIdx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := sort.Search(len(l.versions), func(i int) bool { return l.versions[i].TxnIndex >= txIdx })
	if i < len(l.versions) && l.versions[i].TxnIndex == txIdx {
		l.versions = append(l.versions[:i], l.versions[i+1:]...)
	}
}

// closestBelow returns the version with the largest TxnIndex strictly less
// than txIdx, or false if none exists.
func (l *mvList) closestBelow(txIdx int) (mvVersion, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := sort.Search(len(l.versions), func(i int) bool { return l.versions[i].TxnIndex >= txIdx }) - 1
	if i < 0 {
		return mvVersion{}, false
	}
	return l.versions[i], true
}

// MVHashMap is the multi-version state every speculatively-executing
// transaction reads from and writes to. A single MVHashMap is shared by
// every task scheduled within one block; per-key access is serialized by
// a lock on that key's version list, not on the whole map.
type MVHashMap struct {
	mu   sync.RWMutex
	data map[Key]*mvList
}

func MakeMVHashMap() *MVHashMap {
	return &MVHashMap{data: make(map[Key]*mvList)}
}

func (mvh *MVHashMap) getOrCreate(k Key) *mvList {
	mvh.mu.RLock()
	l, ok := mvh.data[k]
	mvh.mu.RUnlock()
	if ok {
		return l
	}

	mvh.mu.Lock()
	defer mvh.mu.Unlock()
	if l, ok = mvh.data[k]; ok {
		return l
	}
	l = &mvList{}
	mvh.data[k] = l
	return l
}

// Write installs a value for the given key at the given version,
// overwriting any prior write at the same TxnIndex (the usual case when a
// re-executed incarnation is settled).
func (mvh *MVHashMap) Write(k Key, v Version, value interface{}) {
	mvh.getOrCreate(k).write(v, value)
}

// Read returns the write from the largest transaction index strictly below
// txIdx. If that write has been marked an estimate (its writer is being
// re-executed), Status() reports MVReadResultDependency and the reader must
// abort. If no lower write exists at all, Status() reports MVReadResultNone
// and the caller should fall through to the underlying state.
func (mvh *MVHashMap) Read(k Key, txIdx int) (res MVReadResult) {
	res.depIdx = -1
	res.incarnation = -1
	res.status = MVReadResultNone

	mvh.mu.RLock()
	l, ok := mvh.data[k]
	mvh.mu.RUnlock()
	if !ok {
		return res
	}

	v, found := l.closestBelow(txIdx)
	if !found {
		return res
	}

	res.depIdx = v.TxnIndex
	if v.estimate {
		res.incarnation = -1
		res.status = MVReadResultDependency
		return res
	}

	res.incarnation = v.Incarnation
	res.value = v.value
	res.status = MVReadResultDone
	return res
}

// MarkEstimate flags the write made by txIdx at key k as an estimate: any
// transaction that already read it must abort, and future reads observe a
// dependency rather than a value, until the write is replaced or deleted.
func (mvh *MVHashMap) MarkEstimate(k Key, txIdx int) {
	mvh.mu.RLock()
	l, ok := mvh.data[k]
	mvh.mu.RUnlock()
	if ok {
		l.markEstimate(txIdx)
	}
}

// Delete removes the write made by txIdx at key k, if any. It is always
// safe to call, including when the key or the specific version is absent.
func (mvh *MVHashMap) Delete(k Key, txIdx int) {
	mvh.mu.RLock()
	l, ok := mvh.data[k]
	mvh.mu.RUnlock()
	if ok {
		l.delete(txIdx)
	}
}

// FlushMVWriteSet installs a batch of writes in one call, used to commit a
// settled transaction's full write-set into the shared map.
func (mvh *MVHashMap) FlushMVWriteSet(writes []WriteDescriptor) {
	for _, w := range writes {
		mvh.Write(w.Path, w.V, w.Val)
	}
}
