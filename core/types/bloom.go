// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package types

import (
	"github.com/category-labs/monad-sub002/crypto"
)

// BloomByteLength is the number of bytes in a receipt log bloom filter.
const BloomByteLength = 256

// BloomBitLength is the number of bits in a Bloom, i.e. 8*BloomByteLength.
const BloomBitLength = 8 * BloomByteLength

// Bloom is a 2048-bit log filter derived from an address and every topic of
// every log emitted in a transaction or block.
type Bloom [BloomByteLength]byte

// Add includes d (an address or topic) in the bloom filter.
func (b *Bloom) Add(d []byte) {
	i1, v1, i2, v2, i3, v3 := bloomValues(d)
	b[i1] |= v1
	b[i2] |= v2
	b[i3] |= v3
}

// Test reports whether d is (probabilistically) present in the bloom.
func (b Bloom) Test(d []byte) bool {
	i1, v1, i2, v2, i3, v3 := bloomValues(d)
	return b[i1]&v1 == v1 && b[i2]&v2 == v2 && b[i3]&v3 == v3
}

// Bytes returns the raw bloom bytes.
func (b Bloom) Bytes() []byte { return b[:] }

// OrBloom merges another bloom into b in place, as required when rolling up
// per-transaction log blooms into a receipt/block bloom.
func (b *Bloom) OrBloom(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// CreateBloom computes the bloom filter covering every log in logs.
func CreateBloom(logs []*Log) Bloom {
	var bin Bloom
	for _, log := range logs {
		bin.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			bin.Add(topic.Bytes())
		}
	}
	return bin
}

// bloomValues returns the three (byte-index, bit-mask) pairs that a value
// sets in a standard Ethereum bloom filter: the low 11 bits of each of the
// first three 16-bit words of keccak256(d) select one of 2048 bit
// positions each.
func bloomValues(data []byte) (uint, byte, uint, byte, uint, byte) {
	sum := crypto.Keccak256(data)
	v1 := byte(1 << (sum[1] & 0x7))
	i1 := BloomByteLength - (((uint(sum[0]) << 8) + uint(sum[1])) & 0x7ff / 8) - 1
	v2 := byte(1 << (sum[3] & 0x7))
	i2 := BloomByteLength - (((uint(sum[2]) << 8) + uint(sum[3])) & 0x7ff / 8) - 1
	v3 := byte(1 << (sum[5] & 0x7))
	i3 := BloomByteLength - (((uint(sum[4]) << 8) + uint(sum[5])) & 0x7ff / 8) - 1
	return i1, v1, i2, v2, i3, v3
}

// BloomLookup reports whether d may be present in bin.
func BloomLookup(bin Bloom, d []byte) bool {
	return bin.Test(d)
}
