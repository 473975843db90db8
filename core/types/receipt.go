// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"bytes"
	"errors"

	"github.com/category-labs/monad-sub002/common"
	"github.com/category-labs/monad-sub002/rlp"
)

// Receipt statuses, per EIP-658: post-Byzantium receipts carry a status
// bit instead of an intermediate state root.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

var ErrReceiptWrongTxType = errors.New("types: receipt type does not match transaction type")

// Receipt is the consensus-relevant outcome of executing one transaction:
// whether it succeeded, how much cumulative gas the block has used through
// it, and the logs it emitted (§3.1).
type Receipt struct {
	Type              byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	// GasUsed is the gas consumed by this transaction alone; not part of
	// the wire encoding (derivable from the previous receipt's
	// CumulativeGasUsed) but convenient to carry alongside it.
	GasUsed uint64

	TxHash          common.Hash
	ContractAddress common.Address
	BlockHash       common.Hash
	BlockNumber     uint64
	TransactionIndex uint
}

type receiptRLP struct {
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*logRLP
}

// NewReceipt builds a receipt for a transaction of the given type with
// cumulativeGasUsed already including this transaction's gas.
func NewReceipt(txType byte, failed bool, cumulativeGasUsed uint64) *Receipt {
	r := &Receipt{Type: txType, CumulativeGasUsed: cumulativeGasUsed}
	if !failed {
		r.Status = ReceiptStatusSuccessful
	}
	return r
}

// SetLogs assigns logs and recomputes the receipt's bloom filter.
func (r *Receipt) SetLogs(logs []*Log) {
	r.Logs = logs
	r.Bloom = CreateBloom(logs)
}

func (r *Receipt) toRLP() *receiptRLP {
	logs := make([]*logRLP, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = &logRLP{l.Address, l.Topics, l.Data}
	}
	return &receiptRLP{r.Status, r.CumulativeGasUsed, r.Bloom, logs}
}

// MarshalBinary returns the EIP-2718 typed-receipt encoding: the bare RLP
// list for legacy receipts, or a type byte followed by the RLP payload.
func (r *Receipt) MarshalBinary() ([]byte, error) {
	payload, err := rlp.EncodeToBytes(r.toRLP())
	if err != nil {
		return nil, err
	}
	if r.Type == LegacyTxType {
		return payload, nil
	}
	return append([]byte{r.Type}, payload...), nil
}

// UnmarshalBinary parses the encoding produced by MarshalBinary.
func (r *Receipt) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyTypedTx
	}
	var (
		payload []byte
		rtype   byte
	)
	if data[0] > 0x7f {
		rtype, payload = LegacyTxType, data
	} else {
		rtype, payload = data[0], data[1:]
	}
	var dec receiptRLP
	if err := rlp.DecodeBytes(payload, &dec); err != nil {
		return err
	}
	logs := make([]*Log, len(dec.Logs))
	for i, l := range dec.Logs {
		logs[i] = &Log{Address: l.Address, Topics: l.Topics, Data: l.Data}
	}
	r.Type, r.Status, r.CumulativeGasUsed, r.Bloom, r.Logs = rtype, dec.Status, dec.CumulativeGasUsed, dec.Bloom, logs
	return nil
}

// Receipts is a list of receipts belonging to one block, satisfying the
// derivable-list contract that computes the block's receipt trie root
// (§4.7, DeriveSha).
type Receipts []*Receipt

func (rs Receipts) Len() int { return len(rs) }

func (rs Receipts) EncodeIndex(i int, w *bytes.Buffer) {
	enc, _ := rs[i].MarshalBinary()
	w.Write(enc)
}
