// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

// Log is a single EVM log entry, emitted by the Host's emit_log operation
// (§6) and rolled up into the owning receipt's bloom filter.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	// Derived fields, populated by the block commit pipeline once the
	// log's position within the block is known; never part of consensus
	// encoding.
	BlockNumber uint64
	TxHash      common.Hash
	TxIndex     uint
	BlockHash   common.Hash
	Index       uint
	Removed     bool
}

type logRLP struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

func (l *Log) encode() ([]byte, error) {
	return rlp.EncodeToBytes(&logRLP{l.Address, l.Topics, l.Data})
}
