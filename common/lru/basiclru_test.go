// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package lru

import "testing"

func TestBasicLRUEviction(t *testing.T) {
	cache := NewBasicLRU[int, int](128)
	for i := 0; i < 256; i++ {
		cache.Add(i, i)
	}
	if cache.Len() != 128 {
		t.Fatalf("bad len: %v", cache.Len())
	}
	keys := cache.Keys()
	if len(keys) != 128 || keys[0] != 128 {
		t.Fatalf("wrong eviction order: %v", keys[:4])
	}
}

func TestBasicLRUGetUpdatesRecency(t *testing.T) {
	cache := NewBasicLRU[string, int](2)
	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Get("a")
	cache.Add("c", 3) // should evict "b", not "a"
	if cache.Contains("b") {
		t.Fatal("expected b to be evicted")
	}
	if !cache.Contains("a") || !cache.Contains("c") {
		t.Fatal("expected a and c to remain")
	}
}

func TestBasicLRURemove(t *testing.T) {
	cache := NewBasicLRU[int, int](4)
	cache.Add(1, 1)
	if !cache.Remove(1) {
		t.Fatal("expected removal to report success")
	}
	if cache.Contains(1) {
		t.Fatal("expected key to be gone")
	}
}
