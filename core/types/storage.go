// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"errors"

	"github.com/category-labs/monad-sub002/common"
)

// SlotsPerPage is the number of adjacent 32-byte storage slots grouped into
// one on-disk StoragePage (§3.1, §4.1). Grouping amortises trie-node
// overhead for accounts with dense sequential storage (arrays, mappings
// with small numeric keys).
const SlotsPerPage = 16

// StorageSlot is a single 32-byte key -> 32-byte value pair, scoped by the
// owning account's current incarnation.
type StorageSlot struct {
	Key   common.Hash
	Value common.Hash
}

// PageKey derives the page-grouping key for a slot key: the key's big-endian
// integer value shifted right by log2(SlotsPerPage).
func PageKey(slotKey common.Hash) common.Hash {
	var out common.Hash
	const shift = 4 // log2(16)
	carry := byte(0)
	for i := 0; i < len(slotKey); i++ {
		b := slotKey[i]
		out[i] = (carry << (8 - shift)) | (b >> shift)
		carry = b & ((1 << shift) - 1)
	}
	return out
}

// PageOffset returns the slot's position (0..SlotsPerPage-1) within its page.
func PageOffset(slotKey common.Hash) int {
	return int(slotKey[len(slotKey)-1] & (SlotsPerPage - 1))
}

// StoragePage holds SlotsPerPage 32-byte values, most of which are typically
// zero. A page whose every slot is zero has no persistent form at all: the
// absence of a trie entry for a page key already means "all zero".
type StoragePage struct {
	Slots [SlotsPerPage]common.Hash
}

// IsEmpty reports whether every slot in the page is zero, meaning the page
// has no on-disk representation.
func (p *StoragePage) IsEmpty() bool {
	for _, s := range p.Slots {
		if s != (common.Hash{}) {
			return false
		}
	}
	return true
}

var (
	// ErrPageInputTooShort is returned when a header claims more bytes
	// than remain in the page encoding.
	ErrPageInputTooShort = errors.New("types: storage page input too short")
	// ErrPageInputTooLong is returned when bytes remain after decoding
	// terminates, or when a run would cross SlotsPerPage.
	ErrPageInputTooLong = errors.New("types: storage page input too long")
)

// EncodePage serialises a page using the run-length scheme from §4.1:
// header 0x00 terminates early (every remaining slot, starting here, is
// zero); headers 0x01..0x7F skip that many consecutive zero slots; headers
// 0x80..0xFF each introduce exactly one non-zero slot, whose minimal
// (leading-zero-stripped) big-endian value is `(hdr&0x7F)+1` bytes long and
// follows immediately. The header byte doubles as that slot's length field,
// so there is no separate per-value length prefix: a run never batches more
// than one non-zero slot, which keeps every value's byte span unambiguous
// to a reader without an extra marker.
func EncodePage(p *StoragePage) []byte {
	var out []byte
	i := 0
	for i < SlotsPerPage {
		if p.Slots[i] == (common.Hash{}) {
			run := 0
			for i+run < SlotsPerPage && run < 0x7F && p.Slots[i+run] == (common.Hash{}) {
				run++
			}
			if i+run == SlotsPerPage {
				return append(out, 0x00)
			}
			out = append(out, byte(run))
			i += run
			continue
		}
		stripped := stripLeadingZeros(p.Slots[i][:])
		out = append(out, 0x80+byte(len(stripped)-1))
		out = append(out, stripped...)
		i++
	}
	return append(out, 0x00)
}

// DecodePage reverses EncodePage, rejecting truncated input, value lengths
// that exceed a 32-byte slot, and runs that would read past SlotsPerPage.
func DecodePage(enc []byte) (*StoragePage, error) {
	p := &StoragePage{}
	i, slot := 0, 0
	for {
		if i >= len(enc) {
			return nil, ErrPageInputTooShort
		}
		hdr := enc[i]
		i++
		if hdr == 0x00 {
			break
		}
		if hdr < 0x80 {
			slot += int(hdr)
			if slot > SlotsPerPage {
				return nil, ErrPageInputTooLong
			}
			continue
		}
		if slot >= SlotsPerPage {
			return nil, ErrPageInputTooLong
		}
		l := int(hdr&0x7F) + 1
		if l > 32 {
			return nil, ErrPageInputTooLong
		}
		if i+l > len(enc) {
			return nil, ErrPageInputTooShort
		}
		copy(p.Slots[slot][32-l:], enc[i:i+l])
		i += l
		slot++
	}
	if i != len(enc) {
		return nil, ErrPageInputTooLong
	}
	return p, nil
}

func stripLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}
