// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import (
	"bytes"
	"fmt"

	"github.com/category-labs/monad-sub002/common"
)

// Resolver loads a persisted node by its hash, letting Trie page in
// subtrees on demand instead of holding the whole structure in memory.
// No type in this module implements it; an in-memory NewEmpty trie never
// calls it.
type Resolver interface {
	Node(hash common.Hash) ([]byte, error)
}

// Trie is an in-memory Merkle-Patricia trie. It computes exactly the
// hashing scheme the consensus layer requires for transaction, receipt
// and withdrawal roots (§4.7, DeriveSha) and, generalized over a
// Resolver, for the MPT storage engine's account/storage tries (§4.1).
type Trie struct {
	root     node
	resolver Resolver
}

// New returns an empty trie, or one rooted at root if non-zero, resolving
// unloaded subtries through resolver.
func New(root common.Hash, resolver Resolver) (*Trie, error) {
	t := &Trie{resolver: resolver}
	if root == (common.Hash{}) || root == EmptyRootHash {
		return t, nil
	}
	if resolver == nil {
		return nil, fmt.Errorf("ethtrie: non-empty root %x requires a resolver", root)
	}
	rootnode, err := t.resolveHash(root[:])
	if err != nil {
		return nil, err
	}
	t.root = rootnode
	return t, nil
}

// NewEmpty returns an empty, purely in-memory trie with no backing store;
// suitable for one-shot root computations such as DeriveSha.
func NewEmpty() *Trie { return &Trie{} }

// EmptyRootHash is the keccak256 of the RLP encoding of an empty byte
// string, the canonical "no entries" trie root.
var EmptyRootHash = common.HexToHash("56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

func (t *Trie) resolveHash(n hashNode) (node, error) {
	enc, err := t.resolver.Node(common.BytesToHash(n))
	if err != nil {
		return nil, err
	}
	return mustDecodeNode(n, enc), nil
}

func (t *Trie) resolve(n node) (node, error) {
	if hn, ok := n.(hashNode); ok {
		return t.resolveHash(hn)
	}
	return n, nil
}

// Get returns the value stored for key, or nil if key is absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	value, newroot, didResolve, err := t.get(t.root, keybytesToHex(key), 0)
	if err == nil && didResolve {
		t.root = newroot
	}
	return value, err
}

func (t *Trie) get(origNode node, key []byte, pos int) (value []byte, newnode node, didResolve bool, err error) {
	switch n := origNode.(type) {
	case nil:
		return nil, nil, false, nil
	case valueNode:
		return n, n, false, nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !bytes.Equal(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, n, false, nil
		}
		value, newnode, didResolve, err = t.get(n.Val, key, pos+len(n.Key))
		if err == nil && didResolve {
			n = n.copy()
			n.Val = newnode
		}
		return value, n, didResolve, err
	case *fullNode:
		value, newnode, didResolve, err = t.get(n.Children[key[pos]], key, pos+1)
		if err == nil && didResolve {
			n = n.copy()
			n.Children[key[pos]] = newnode
		}
		return value, n, didResolve, err
	case hashNode:
		child, err := t.resolveHash(n)
		if err != nil {
			return nil, n, true, err
		}
		value, newnode, _, err := t.get(child, key, pos)
		return value, newnode, true, err
	default:
		panic(fmt.Sprintf("ethtrie: invalid node type %T", origNode))
	}
}

// Update associates value with key, or deletes key if value is empty.
func (t *Trie) Update(key, value []byte) error {
	if len(value) == 0 {
		return t.Delete(key)
	}
	k := keybytesToHex(key)
	_, n, err := t.insert(t.root, nil, k, valueNode(value))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) insert(n node, prefix, key []byte, value node) (bool, node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok {
			return !bytes.Equal(v, value.(valueNode)), value, nil
		}
		return true, value, nil
	}
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			dirty, nn, err := t.insert(n.Val, append(prefix, key[:matchlen]...), key[matchlen:], value)
			if !dirty || err != nil {
				return false, n, err
			}
			return true, &shortNode{n.Key, nn, newFlag()}, nil
		}
		branch := &fullNode{flags: newFlag()}
		var err error
		_, branch.Children[n.Key[matchlen]], err = t.insert(nil, append(prefix, n.Key[:matchlen+1]...), n.Key[matchlen+1:], n.Val)
		if err != nil {
			return false, nil, err
		}
		_, branch.Children[key[matchlen]], err = t.insert(nil, append(prefix, key[:matchlen+1]...), key[matchlen+1:], value)
		if err != nil {
			return false, nil, err
		}
		if matchlen == 0 {
			return true, branch, nil
		}
		return true, &shortNode{key[:matchlen], branch, newFlag()}, nil

	case *fullNode:
		dirty, nn, err := t.insert(n.Children[key[0]], append(prefix, key[0]), key[1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = newFlag()
		n.Children[key[0]] = nn
		return true, n, nil

	case nil:
		return true, &shortNode{key, value, newFlag()}, nil

	case hashNode:
		rn, err := t.resolveHash(n)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.insert(rn, prefix, key, value)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("ethtrie: invalid node type %T", n))
	}
}

// Delete removes key from the trie; a missing key is a no-op.
func (t *Trie) Delete(key []byte) error {
	k := keybytesToHex(key)
	_, n, err := t.delete(t.root, nil, k)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) delete(n node, prefix, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil
		}
		if matchlen == len(key) {
			return true, nil, nil
		}
		dirty, child, err := t.delete(n.Val, append(prefix, key[:len(n.Key)]...), key[len(n.Key):])
		if !dirty || err != nil {
			return false, n, err
		}
		switch child := child.(type) {
		case *shortNode:
			return true, &shortNode{concat(n.Key, child.Key...), child.Val, newFlag()}, nil
		default:
			return true, &shortNode{n.Key, child, newFlag()}, nil
		}

	case *fullNode:
		dirty, nn, err := t.delete(n.Children[key[0]], append(prefix, key[0]), key[1:])
		if !dirty || err != nil {
			return false, n, err
		}
		n = n.copy()
		n.flags = newFlag()
		n.Children[key[0]] = nn

		pos := -1
		for i, cld := range &n.Children {
			if cld != nil {
				if pos == -1 {
					pos = i
				} else {
					pos = -2
					break
				}
			}
		}
		if pos >= 0 {
			if pos != 16 {
				cnode, err := t.resolve(n.Children[pos])
				if err != nil {
					return false, nil, err
				}
				if cnode, ok := cnode.(*shortNode); ok {
					k := append([]byte{byte(pos)}, cnode.Key...)
					return true, &shortNode{k, cnode.Val, newFlag()}, nil
				}
			}
			return true, &shortNode{[]byte{byte(pos)}, n.Children[pos], newFlag()}, nil
		}
		return true, n, nil

	case valueNode:
		return true, nil, nil

	case nil:
		return false, nil, nil

	case hashNode:
		rn, err := t.resolveHash(n)
		if err != nil {
			return false, nil, err
		}
		dirty, nn, err := t.delete(rn, prefix, key)
		if !dirty || err != nil {
			return false, rn, err
		}
		return true, nn, nil

	default:
		panic(fmt.Sprintf("ethtrie: invalid node type %T", n))
	}
}

func concat(s1 []byte, s2 ...byte) []byte {
	r := make([]byte, len(s1)+len(s2))
	copy(r, s1)
	copy(r[len(s1):], s2)
	return r
}

// Hash returns the trie's root hash, without persisting any node.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRootHash
	}
	h := newHasher()
	hashed := h.hash(t.root, true)
	hn, ok := hashed.(hashNode)
	if !ok || len(hn) == 0 {
		return EmptyRootHash
	}
	return common.BytesToHash(hn)
}
