// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import (
	"bytes"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

// DerivableList is any ordered collection whose members can be RLP-encoded
// and keyed by their list index, satisfied by types.Transactions,
// types.Receipts and types.Withdrawals alike.
type DerivableList interface {
	Len() int
	EncodeIndex(i int, w *bytes.Buffer)
}

// DeriveSha builds an ephemeral trie keyed by the RLP encoding of each
// index (0, 1, 2, ...) and returns its root hash. This is how the
// consensus layer computes the transactions root, receipts root and
// withdrawals root of a block header (§4.7): the trie is discarded
// immediately afterwards, never touching the MPT storage engine.
func DeriveSha(list DerivableList) common.Hash {
	t := NewEmpty()
	valueBuf := new(bytes.Buffer)
	for i := 0; i < list.Len(); i++ {
		keyBuf, err := rlp.EncodeToBytes(uint(i))
		if err != nil {
			panic(err)
		}
		valueBuf.Reset()
		list.EncodeIndex(i, valueBuf)
		if err := t.Update(keyBuf, append([]byte(nil), valueBuf.Bytes()...)); err != nil {
			panic(err)
		}
	}
	return t.Hash()
}
