// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package prque implements a priority queue used by the parallel execution
// scheduler's worker pool: within a block, work is submitted in transaction
// order (§4.5), but retries and sender-recovery tasks compete for the same
// bounded pool and need a cheap way to prefer lower transaction indices.
package prque

import "container/heap"

const blockSize = 4096

// Prque is a priority queue popping items in decreasing priority order.
type Prque[P ~int | ~int64 | ~float64, V any] struct {
	cont *sstack[P, V]
}

// New creates an empty priority queue. setIndex, if non-nil, is called with
// the queue-internal slot of a value every time it moves (needed only if
// the caller wants to remove an item by identity later); it may be nil.
func New[P ~int | ~int64 | ~float64, V any](setIndex func(data V, index int)) *Prque[P, V] {
	return &Prque[P, V]{cont: newSstack[P, V](setIndex)}
}

// Push adds an item with the given priority.
func (p *Prque[P, V]) Push(data V, priority P) {
	heap.Push(p.cont, &item[P, V]{data, priority})
}

// Peek returns the highest-priority item without removing it.
func (p *Prque[P, V]) Peek() (V, P) {
	it := p.cont.blocks[0][0]
	return it.value, it.priority
}

// Pop removes and returns the highest-priority item.
func (p *Prque[P, V]) Pop() (V, P) {
	it := heap.Pop(p.cont).(*item[P, V])
	return it.value, it.priority
}

// PopItem removes and returns only the value of the highest-priority item.
func (p *Prque[P, V]) PopItem() V {
	v, _ := p.Pop()
	return v
}

func (p *Prque[P, V]) Size() int { return p.cont.Len() }
func (p *Prque[P, V]) Empty() bool { return p.cont.Len() == 0 }
func (p *Prque[P, V]) Reset() { *p = *New[P, V](p.cont.setIndex) }

type item[P ~int | ~int64 | ~float64, V any] struct {
	value    V
	priority P
}

// sstack is a block-allocated heap storage, matching the original
// CookieJar sstack design: fewer, larger allocations than a plain slice
// under heavy Push/Pop churn.
type sstack[P ~int | ~int64 | ~float64, V any] struct {
	setIndex func(data V, index int)
	size     int
	capacity int
	offset   int
	blocks   [][]*item[P, V]
	active   []*item[P, V]
}

func newSstack[P ~int | ~int64 | ~float64, V any](setIndex func(data V, index int)) *sstack[P, V] {
	result := new(sstack[P, V])
	result.setIndex = setIndex
	result.active = make([]*item[P, V], blockSize)
	result.blocks = [][]*item[P, V]{result.active}
	result.capacity = blockSize
	return result
}

func (s *sstack[P, V]) Push(data any) {
	if s.size == s.capacity {
		s.active = make([]*item[P, V], blockSize)
		s.blocks = append(s.blocks, s.active)
		s.capacity += blockSize
		s.offset = 0
	} else if s.offset == blockSize {
		s.active = s.blocks[s.size/blockSize]
		s.offset = 0
	}
	it := data.(*item[P, V])
	s.active[s.offset] = it
	if s.setIndex != nil {
		s.setIndex(it.value, s.size)
	}
	s.size++
	s.offset++
}

func (s *sstack[P, V]) Pop() (res any) {
	s.size--
	s.offset--
	if s.offset < 0 {
		s.offset = blockSize - 1
		s.active = s.blocks[s.size/blockSize]
	}
	res, s.active[s.offset] = s.active[s.offset], nil
	if s.setIndex != nil {
		s.setIndex(res.(*item[P, V]).value, -1)
	}
	if s.size == s.capacity-blockSize && len(s.blocks) > 1 {
		s.blocks = s.blocks[:len(s.blocks)-1]
		s.capacity -= blockSize
	}
	return
}

func (s *sstack[P, V]) Len() int { return s.size }

func (s *sstack[P, V]) Less(i, j int) bool {
	return s.blocks[i/blockSize][i%blockSize].priority > s.blocks[j/blockSize][j%blockSize].priority
}

func (s *sstack[P, V]) Swap(i, j int) {
	ib, io, jb, jo := i/blockSize, i%blockSize, j/blockSize, j%blockSize
	a, b := s.blocks[jb][jo], s.blocks[ib][io]
	if s.setIndex != nil {
		s.setIndex(a.value, i)
		s.setIndex(b.value, j)
	}
	s.blocks[ib][io], s.blocks[jb][jo] = a, b
}
