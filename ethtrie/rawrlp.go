// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package ethtrie

import "fmt"

// Node encoding is performance-sensitive and produces the exact inlining
// behaviour (children <32 bytes embedded, others referenced by hash) that
// the generic reflect-based rlp package has no reason to special-case, so
// the trie talks RLP directly at the byte level here, the way go-ethereum's
// own trie/node_enc.go and rawdb helpers do.

// rlpSplitList parses a single top-level RLP list and returns each
// element's full encoding (header included) in order.
func rlpSplitList(data []byte) ([][]byte, error) {
	content, _, err := rlpListContent(data)
	if err != nil {
		return nil, err
	}
	var items [][]byte
	for len(content) > 0 {
		itemLen, err := rlpItemLen(content)
		if err != nil {
			return nil, err
		}
		items = append(items, content[:itemLen])
		content = content[itemLen:]
	}
	return items, nil
}

// rlpListContent returns the body of the single top-level list in data,
// along with the total number of bytes the list occupies.
func rlpListContent(data []byte) (content []byte, total int, err error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("ethtrie: empty rlp input")
	}
	b := data[0]
	switch {
	case b >= 0xc0 && b < 0xf8:
		n := int(b - 0xc0)
		if 1+n > len(data) {
			return nil, 0, fmt.Errorf("ethtrie: truncated rlp list")
		}
		return data[1 : 1+n], 1 + n, nil
	case b >= 0xf8:
		lenOfLen := int(b - 0xf7)
		if 1+lenOfLen > len(data) {
			return nil, 0, fmt.Errorf("ethtrie: truncated rlp list length")
		}
		n := 0
		for i := 0; i < lenOfLen; i++ {
			n = n<<8 | int(data[1+i])
		}
		start := 1 + lenOfLen
		if start+n > len(data) {
			return nil, 0, fmt.Errorf("ethtrie: truncated rlp list body")
		}
		return data[start : start+n], start + n, nil
	default:
		return nil, 0, fmt.Errorf("ethtrie: expected rlp list, got string header 0x%02x", b)
	}
}

// rlpItemLen returns the total encoded length (header + payload) of the
// single RLP item at the start of data.
func rlpItemLen(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("ethtrie: empty rlp item")
	}
	b := data[0]
	switch {
	case b < 0x80:
		return 1, nil
	case b < 0xb8:
		n := int(b - 0x80)
		if 1+n > len(data) {
			return 0, fmt.Errorf("ethtrie: truncated rlp string")
		}
		return 1 + n, nil
	case b < 0xc0:
		lenOfLen := int(b - 0xb7)
		if 1+lenOfLen > len(data) {
			return 0, fmt.Errorf("ethtrie: truncated rlp string length")
		}
		n := 0
		for i := 0; i < lenOfLen; i++ {
			n = n<<8 | int(data[1+i])
		}
		return 1 + lenOfLen + n, nil
	case b < 0xf8:
		n := int(b - 0xc0)
		if 1+n > len(data) {
			return 0, fmt.Errorf("ethtrie: truncated rlp list")
		}
		return 1 + n, nil
	default:
		lenOfLen := int(b - 0xf7)
		if 1+lenOfLen > len(data) {
			return 0, fmt.Errorf("ethtrie: truncated rlp list length")
		}
		n := 0
		for i := 0; i < lenOfLen; i++ {
			n = n<<8 | int(data[1+i])
		}
		return 1 + lenOfLen + n, nil
	}
}

// rlpIsList reports whether item (a full single-item encoding) is a list.
func rlpIsList(item []byte) bool {
	return len(item) > 0 && item[0] >= 0xc0
}

// rlpStringContent decodes a string item into its payload bytes.
func rlpStringContent(item []byte) ([]byte, error) {
	if len(item) == 0 {
		return nil, fmt.Errorf("ethtrie: empty rlp string item")
	}
	b := item[0]
	switch {
	case b < 0x80:
		return item[:1], nil
	case b < 0xb8:
		n := int(b - 0x80)
		if 1+n != len(item) {
			return nil, fmt.Errorf("ethtrie: malformed rlp string item")
		}
		return item[1 : 1+n], nil
	case b < 0xc0:
		lenOfLen := int(b - 0xb7)
		n := 0
		for i := 0; i < lenOfLen; i++ {
			n = n<<8 | int(item[1+i])
		}
		start := 1 + lenOfLen
		if start+n != len(item) {
			return nil, fmt.Errorf("ethtrie: malformed rlp long string item")
		}
		return item[start : start+n], nil
	default:
		return nil, fmt.Errorf("ethtrie: expected rlp string, got list header 0x%02x", b)
	}
}

// encodeRLPString appends the RLP string header and content for b to buf.
func encodeRLPString(buf []byte, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append(buf, b[0])
	}
	buf = appendRLPHeader(buf, 0x80, 0xb7, len(b))
	return append(buf, b...)
}

// encodeRLPList wraps the concatenation of already-encoded items in an RLP
// list header.
func encodeRLPList(items ...[]byte) []byte {
	n := 0
	for _, it := range items {
		n += len(it)
	}
	buf := appendRLPHeader(make([]byte, 0, n+9), 0xc0, 0xf7, n)
	for _, it := range items {
		buf = append(buf, it...)
	}
	return buf
}

func appendRLPHeader(buf []byte, short, longBase byte, n int) []byte {
	if n < 56 {
		return append(buf, short+byte(n))
	}
	var lenBytes []byte
	for n > 0 {
		lenBytes = append([]byte{byte(n & 0xff)}, lenBytes...)
		n >>= 8
	}
	buf = append(buf, longBase+byte(len(lenBytes)))
	return append(buf, lenBytes...)
}
