// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import "testing"

func TestTrieGetUpdateDelete(t *testing.T) {
	tr := NewEmpty()
	if err := tr.Update([]byte("cat"), []byte("meow")); err != nil {
		t.Fatal(err)
	}
	if err := tr.Update([]byte("catalog"), []byte("books")); err != nil {
		t.Fatal(err)
	}
	got, err := tr.Get([]byte("cat"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "meow" {
		t.Errorf("Get(cat) = %q, want meow", got)
	}
	if err := tr.Delete([]byte("catalog")); err != nil {
		t.Fatal(err)
	}
	got, err = tr.Get([]byte("catalog"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Get(catalog) after delete = %q, want nil", got)
	}
	got, err = tr.Get([]byte("cat"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "meow" {
		t.Errorf("Get(cat) survives sibling delete = %q, want meow", got)
	}
}

func TestTrieRootDeterministic(t *testing.T) {
	build := func() *Trie {
		tr := NewEmpty()
		tr.Update([]byte("do"), []byte("verb"))
		tr.Update([]byte("dog"), []byte("puppy"))
		tr.Update([]byte("doge"), []byte("coin"))
		tr.Update([]byte("horse"), []byte("stallion"))
		return tr
	}
	a, b := build(), build()
	if a.Hash() != b.Hash() {
		t.Errorf("identical insert sequences produced different roots: %x vs %x", a.Hash(), b.Hash())
	}
}

func TestTrieEmptyRootHash(t *testing.T) {
	tr := NewEmpty()
	if tr.Hash() != EmptyRootHash {
		t.Errorf("empty trie root = %x, want %x", tr.Hash(), EmptyRootHash)
	}
}

func TestTrieDeleteBackToEmpty(t *testing.T) {
	tr := NewEmpty()
	tr.Update([]byte("a"), []byte("1"))
	tr.Delete([]byte("a"))
	if tr.Hash() != EmptyRootHash {
		t.Errorf("trie with all keys deleted root = %x, want %x", tr.Hash(), EmptyRootHash)
	}
}

func TestTrieUpdateOverwrites(t *testing.T) {
	tr := NewEmpty()
	tr.Update([]byte("key"), []byte("v1"))
	tr.Update([]byte("key"), []byte("v2"))
	got, err := tr.Get([]byte("key"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}
}
