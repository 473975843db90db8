// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package blockstm

import (
	"fmt"

	"github.com/category-labs/monad-sub002/common"
)

// Key identifies a single versioned memory location inside a block's
// multi-version state: an account (balance/nonce/code), a single storage
// slot, or a disjoint "subpath" of an account (its nonce, its code, its
// balance) tracked separately so that two transactions touching different
// subpaths of the same account are not treated as conflicting.
//
// Key is a plain string so it can be used directly as a map key; the
// constructors below are the only supported way to build one.
type Key string

// NewAddressKey identifies the whole of an account: used when a task's
// access pattern does not distinguish between the account's fields.
func NewAddressKey(addr common.Address) Key {
	return Key(fmt.Sprintf("a:%x", addr))
}

// NewStateKey identifies a single storage slot of an account.
func NewStateKey(addr common.Address, slot common.Hash) Key {
	return Key(fmt.Sprintf("s:%x:%x", addr, slot))
}

// NewSubpathKey identifies a disjoint sub-component of an account, keyed by
// an integer the caller assigns consistently (e.g. 0 = balance, 1 = code,
// 2 = nonce), so that distinct subpaths never collide with each other or
// with NewStateKey's storage slots.
func NewSubpathKey(addr common.Address, path int) Key {
	return Key(fmt.Sprintf("p:%x:%d", addr, path))
}
