// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import "testing"

func TestBloomAddTest(t *testing.T) {
	var b Bloom
	positive := []byte("a positively contained value")
	negative := []byte("a definitely absent value")
	b.Add(positive)
	if !b.Test(positive) {
		t.Error("bloom should report the added value as present")
	}
	if b.Test(negative) {
		t.Error("bloom unexpectedly reports an unadded value as present")
	}
}

func TestCreateBloomCoversAddressAndTopics(t *testing.T) {
	logs := []*Log{
		{Address: [20]byte{0x01}, Topics: [][32]byte{{0x02}, {0x03}}},
	}
	b := CreateBloom(logs)
	if !b.Test(logs[0].Address.Bytes()) {
		t.Error("bloom should cover the log's address")
	}
	for _, topic := range logs[0].Topics {
		if !b.Test(topic.Bytes()) {
			t.Errorf("bloom should cover topic %x", topic)
		}
	}
}

func TestBloomOrBloom(t *testing.T) {
	var a, b Bloom
	a.Add([]byte("left"))
	b.Add([]byte("right"))
	a.OrBloom(b)
	if !a.Test([]byte("left")) || !a.Test([]byte("right")) {
		t.Error("OrBloom should merge both sources' bits")
	}
}
