// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/ethtrie"
)

// DerivableList is any ordered collection of RLP-encodable items keyed by
// list index; Transactions, Receipts and Withdrawals all satisfy it.
type DerivableList = ethtrie.DerivableList

// EmptyRootHash is the canonical trie root of an empty transaction,
// receipt or withdrawal list.
var EmptyRootHash = ethtrie.EmptyRootHash

// EmptyUncleHash is keccak256(rlp([])), the canonical ommers-list hash of
// a header with no uncles. Monad blocks carry no uncles (there is no
// ommer-producing consensus above the execution layer), so every header
// this module produces uses this constant, kept only for the field's
// Ethereum-compatible wire presence.
var EmptyUncleHash = common.HexToHash("1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347")

// DeriveSha computes the root of an ephemeral trie over list, the scheme
// used for a block header's transactions root, receipts root and
// withdrawals root (§4.7).
func DeriveSha(list DerivableList) common.Hash {
	return ethtrie.DeriveSha(list)
}
