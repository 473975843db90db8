// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"bytes"
	"testing"

	"github.com/category-labs/monad-sub002/common"
)

func TestReceiptMarshalBinaryRoundTrip(t *testing.T) {
	r := NewReceipt(DynamicFeeTxType, false, 21000)
	r.SetLogs([]*Log{
		{Address: common.HexToAddress("0x01"), Topics: []common.Hash{common.HexToHash("0xdead")}, Data: []byte{1, 2, 3}},
	})

	enc, err := r.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] != DynamicFeeTxType {
		t.Fatalf("encoded type byte = %#x, want %#x", enc[0], DynamicFeeTxType)
	}

	var got Receipt
	if err := got.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if got.Status != ReceiptStatusSuccessful {
		t.Errorf("Status = %d, want %d", got.Status, ReceiptStatusSuccessful)
	}
	if got.CumulativeGasUsed != 21000 {
		t.Errorf("CumulativeGasUsed = %d, want 21000", got.CumulativeGasUsed)
	}
	if len(got.Logs) != 1 || got.Logs[0].Address != r.Logs[0].Address {
		t.Errorf("Logs mismatch after round trip: %+v", got.Logs)
	}
	if got.Bloom != r.Bloom {
		t.Error("Bloom mismatch after round trip")
	}
}

func TestReceiptLegacyHasNoTypeByte(t *testing.T) {
	r := NewReceipt(LegacyTxType, true, 21000)
	enc, err := r.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if enc[0] < 0xc0 {
		t.Errorf("legacy receipt encoding should start with an RLP list header, got %#x", enc[0])
	}
	if r.Status != ReceiptStatusFailed {
		t.Errorf("NewReceipt(failed=true) Status = %d, want %d", r.Status, ReceiptStatusFailed)
	}
}

func TestReceiptsEncodeIndexMatchesMarshalBinary(t *testing.T) {
	rs := Receipts{
		NewReceipt(LegacyTxType, false, 1000),
		NewReceipt(BlobTxType, false, 2000),
	}
	for i, r := range rs {
		var buf bytes.Buffer
		rs.EncodeIndex(i, &buf)
		want, _ := r.MarshalBinary()
		if buf.String() != string(want) {
			t.Errorf("EncodeIndex(%d) = %x, want %x", i, buf.Bytes(), want)
		}
	}
}
