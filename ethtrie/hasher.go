// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import "github.com/category-labs/monad-sub002/crypto"

// hasher computes, bottom-up, the collapsed (hash-or-inline) form of a
// trie node. It mirrors go-ethereum's trie/hasher.go: every node's RLP
// encoding shorter than 32 bytes is embedded directly in its parent,
// exactly like the small-blob inlining the MPT storage-page codec applies
// at the leaf level (§4.1).
type hasher struct {
	tmp []byte
}

func newHasher() *hasher { return &hasher{} }

// hash returns the collapsed form of n (a hashNode if n's encoding is
// 32 bytes or more, otherwise n itself with an embedded value) and, when
// force is set, always reduces to a hashNode — used at the trie root,
// which must be addressable by hash even when its encoding is short.
func (h *hasher) hash(n node, force bool) node {
	if n == nil {
		return hashNode(nil)
	}
	hashed, dirty := n.cache()
	if !dirty && hashed != nil {
		return hashed
	}
	collapsed := h.hashChildren(n)
	enc := encodeNode(collapsed)
	if len(enc) < 32 && !force {
		return collapsed
	}
	hn := hashNode(crypto.Keccak256(enc))
	switch cn := n.(type) {
	case *shortNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	case *fullNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	}
	return hn
}

// hashChildren replaces every child of n that is not already a hashNode
// with its hashed (or inlined) form, returning a new node that only
// references already-resolved children.
func (h *hasher) hashChildren(original node) node {
	switch n := original.(type) {
	case *shortNode:
		collapsed := n.copy()
		collapsed.Key = hexToCompact(n.Key)
		if _, ok := n.Val.(valueNode); !ok && n.Val != nil {
			collapsed.Val = h.hash(n.Val, false)
		}
		return collapsed
	case *fullNode:
		collapsed := n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				collapsed.Children[i] = h.hash(n.Children[i], false)
			}
		}
		return collapsed
	default:
		return n
	}
}

// encodeNode returns the canonical RLP encoding of a collapsed node,
// where every child is already either a hashNode or a valueNode.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *shortNode:
		return encodeRLPList(encodeRLPString(nil, n.Key), encodeChildValue(n.Val))
	case *fullNode:
		items := make([][]byte, 17)
		for i := 0; i < 16; i++ {
			items[i] = encodeChildValue(n.Children[i])
		}
		if v, ok := n.Children[16].(valueNode); ok {
			items[16] = encodeRLPString(nil, v)
		} else {
			items[16] = encodeRLPString(nil, nil)
		}
		return encodeRLPList(items...)
	case hashNode:
		return encodeRLPString(nil, n)
	case valueNode:
		return encodeRLPString(nil, n)
	default:
		return encodeRLPString(nil, nil)
	}
}

// encodeChildValue encodes a child reference: a hashNode becomes a
// 32-byte RLP string, an inlined node becomes its raw list encoding, and
// a nil child becomes the empty string.
func encodeChildValue(n node) []byte {
	switch n := n.(type) {
	case nil:
		return encodeRLPString(nil, nil)
	case hashNode:
		return encodeRLPString(nil, n)
	case valueNode:
		return encodeRLPString(nil, n)
	default:
		return encodeNode(n)
	}
}
