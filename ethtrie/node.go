// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import (
	"fmt"

	"github.com/category-labs/monad-sub002/crypto"
)

// node is the interface satisfied by every trie node representation:
// the two persistent shapes (fullNode, shortNode) and the two leaf-level
// stand-ins (hashNode, valueNode) that appear only as children.
type node interface {
	fstring(string) string
	cache() (hashNode, bool)
}

type (
	// fullNode is a branch with up to 16 nibble-indexed children plus an
	// optional value occupying the terminator slot.
	fullNode struct {
		Children [17]node
		flags    nodeFlag
	}

	// shortNode is either a leaf (Val is a valueNode) or an extension
	// (Val is another node), distinguished by whether Key carries the
	// hex-prefix terminator.
	shortNode struct {
		Key   []byte
		Val   node
		flags nodeFlag
	}

	// hashNode is a reference to a child stored out-of-line, addressed by
	// its keccak256 digest; it stands in for any child whose RLP encoding
	// is 32 bytes or longer.
	hashNode []byte

	// valueNode is an inlined leaf value.
	valueNode []byte
)

// nodeFlag tracks whether a node's subtree has been modified since it was
// last hashed, and caches that hash once computed.
type nodeFlag struct {
	hash  hashNode
	dirty bool
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

// newFlag returns the flag state for a freshly created or modified node:
// dirty, with no cached hash.
func newFlag() nodeFlag { return nodeFlag{dirty: true} }

func (n *fullNode) copy() *fullNode {
	cpy := *n
	return &cpy
}

func (n *shortNode) copy() *shortNode {
	cpy := *n
	return &cpy
}

func (n *fullNode) fstring(ind string) string {
	resp := fmt.Sprintf("[\n%s  ", ind)
	for i, child := range &n.Children {
		if child == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
			continue
		}
		resp += fmt.Sprintf("%s: %v", indices[i], child.fstring(ind+"  "))
	}
	return resp + fmt.Sprintf("\n%s]", ind)
}

func (n *shortNode) fstring(ind string) string {
	return fmt.Sprintf("{%x: %v}", n.Key, n.Val.fstring(ind+"  "))
}

func (n hashNode) fstring(string) string  { return fmt.Sprintf("<%x>", []byte(n)) }
func (n valueNode) fstring(string) string { return fmt.Sprintf("%x", []byte(n)) }

var indices = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f", "[17]",
}

// mustDecodeNode decodes a node from its RLP-encoded form, addressed by
// hash for error reporting. It panics on malformed input since persistent
// nodes are expected to be well-formed by construction.
func mustDecodeNode(hash, buf []byte) node {
	n, err := decodeNode(hash, buf)
	if err != nil {
		panic(fmt.Sprintf("ethtrie: node %x: %v", hash, err))
	}
	return n
}

func decodeNode(hash, buf []byte) (node, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("ethtrie: empty node")
	}
	items, err := rlpSplitList(buf)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 2:
		return decodeShort(hash, items)
	case 17:
		return decodeFull(hash, items)
	default:
		return nil, fmt.Errorf("ethtrie: invalid node list size %d", len(items))
	}
}

func decodeShort(hash []byte, items [][]byte) (node, error) {
	kbuf, err := rlpStringContent(items[0])
	if err != nil {
		return nil, err
	}
	key := compactToHex(kbuf)
	if hasTerm(key) {
		val, err := rlpStringContent(items[1])
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: key, Val: valueNode(val), flags: nodeFlag{hash: hash}}, nil
	}
	child, err := decodeChild(items[1])
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: child, flags: nodeFlag{hash: hash}}, nil
}

func decodeFull(hash []byte, items [][]byte) (*fullNode, error) {
	n := &fullNode{flags: nodeFlag{hash: hash}}
	for i := 0; i < 16; i++ {
		child, err := decodeChild(items[i])
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	val, err := rlpStringContent(items[16])
	if err != nil {
		return nil, err
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(val)
	}
	return n, nil
}

// decodeChild interprets one entry of a list-encoded node: either an
// inlined sub-list (decoded recursively), a 32-byte string naming a child
// by hash, or an empty string standing for "no child".
func decodeChild(item []byte) (node, error) {
	if rlpIsList(item) {
		if len(item) >= 32 {
			return hashNode(crypto.Keccak256(item)), nil
		}
		return mustDecodeNode(nil, item), nil
	}
	val, err := rlpStringContent(item)
	if err != nil {
		return nil, err
	}
	if len(val) == 0 {
		return nil, nil
	}
	return hashNode(val), nil
}
