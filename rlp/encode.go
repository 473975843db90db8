// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package rlp implements the Ethereum Recursive Length Prefix wire format
// used to persist account leaves, transactions, blocks and receipts in the
// MPT storage engine (§4.1, §6). The encoding rules mirror the reference
// decode routines in the original C++ implementation (rlp/decode_helpers):
// single bytes below 0x80 encode as themselves, short strings/lists use a
// length-prefixed header below 56 bytes, longer ones add a length-of-length
// byte.
package rlp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

var uint256Type = reflect.TypeOf(uint256.Int{})

// Encoder lets a type control its own RLP representation, matching how
// Account and Transaction variants flatten to the wire format.
type Encoder interface {
	EncodeRLP(w io.Writer) error
}

// EncodeToBytes returns the RLP encoding of val.
func EncodeToBytes(val interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the RLP encoding of val to w.
func Encode(w io.Writer, val interface{}) error {
	b, err := encodeValue(reflect.ValueOf(val))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func encodeValue(v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return []byte{0x80}, nil
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return []byte{0x80}, nil
		}
		return encodeValue(v.Elem())
	}
	if enc, ok := v.Interface().(Encoder); ok {
		var buf bytes.Buffer
		if err := enc.EncodeRLP(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if v.CanAddr() {
		if enc, ok := v.Addr().Interface().(Encoder); ok {
			var buf bytes.Buffer
			if err := enc.EncodeRLP(&buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
	}

	if v.Type() == uint256Type {
		u := v.Interface().(uint256.Int)
		return encodeBytes(u.Bytes()), nil
	}

	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return encodeUint(v.Uint()), nil
	case reflect.Bool:
		if v.Bool() {
			return []byte{0x01}, nil
		}
		return []byte{0x80}, nil
	case reflect.String:
		return encodeBytes([]byte(v.String())), nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeBytes(toBytes(v)), nil
		}
		return encodeList(v)
	case reflect.Struct:
		return encodeStruct(v)
	case reflect.Interface:
		if v.IsNil() {
			return []byte{0x80}, nil
		}
		return encodeValue(v.Elem())
	default:
		return nil, fmt.Errorf("rlp: unsupported kind %s", v.Kind())
	}
}

func toBytes(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}
	out := make([]byte, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = byte(v.Index(i).Uint())
	}
	return out
}

func encodeStruct(v reflect.Value) ([]byte, error) {
	if bi, ok := v.Interface().(big.Int); ok {
		return encodeBigInt(&bi), nil
	}
	t := v.Type()
	var parts [][]byte
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		enc, err := encodeValue(v.Field(i))
		if err != nil {
			return nil, err
		}
		parts = append(parts, enc)
	}
	return wrapList(parts), nil
}

func encodeList(v reflect.Value) ([]byte, error) {
	var parts [][]byte
	for i := 0; i < v.Len(); i++ {
		enc, err := encodeValue(v.Index(i))
		if err != nil {
			return nil, err
		}
		parts = append(parts, enc)
	}
	return wrapList(parts), nil
}

func wrapList(parts [][]byte) []byte {
	var body []byte
	for _, p := range parts {
		body = append(body, p...)
	}
	return append(lengthPrefix(0xc0, len(body)), body...)
}

func encodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(lengthPrefix(0x80, len(b)), b...)
}

func lengthPrefix(offset byte, n int) []byte {
	if n < 56 {
		return []byte{offset + byte(n)}
	}
	var lenBytes []byte
	for n > 0 {
		lenBytes = append([]byte{byte(n & 0xff)}, lenBytes...)
		n >>= 8
	}
	return append([]byte{offset + 55 + byte(len(lenBytes))}, lenBytes...)
}

func encodeUint(u uint64) []byte {
	if u == 0 {
		return []byte{0x80}
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	i := 0
	for i < 8 && buf[i] == 0 {
		i++
	}
	return encodeBytes(buf[i:])
}

func encodeBigInt(b *big.Int) []byte {
	if b == nil || b.Sign() == 0 {
		return []byte{0x80}
	}
	return encodeBytes(b.Bytes())
}
