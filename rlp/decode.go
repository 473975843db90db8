// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package rlp

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

var (
	// ErrInputTooShort is returned when a header claims more bytes than
	// remain in the input, matching the MPT storage engine's failure
	// taxonomy for corrupt on-disk encodings (§4.1).
	ErrInputTooShort = errors.New("rlp: input too short")
	// ErrInputTooLong is returned when trailing bytes remain after a
	// top-level value has been fully decoded.
	ErrInputTooLong = errors.New("rlp: input too long")
	// ErrExpectedList is returned when a list was expected but a string
	// header was found, or vice versa.
	ErrExpectedList = errors.New("rlp: expected list")
)

// Decoder lets a type parse its own RLP representation.
type Decoder interface {
	DecodeRLP(s *Stream) error
}

// Stream provides forward-only, header-at-a-time decoding of an RLP byte
// sequence. It is deliberately close to the original C++ decode_helpers
// walk: read a header byte, branch on its range, recurse into list bodies.
type Stream struct {
	data []byte
	pos  int
}

// NewStream wraps data for streaming decode.
func NewStream(data []byte) *Stream {
	return &Stream{data: data}
}

// DecodeBytes parses data into val, which must be a non-nil pointer, and
// requires the entire input be consumed.
func DecodeBytes(data []byte, val interface{}) error {
	s := NewStream(data)
	if err := s.Decode(val); err != nil {
		return err
	}
	if s.pos != len(s.data) {
		return ErrInputTooLong
	}
	return nil
}

// Decode parses the next RLP value from the stream into val.
func (s *Stream) Decode(val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("rlp: Decode requires non-nil pointer, got %T", val)
	}
	return s.decodeValue(rv.Elem())
}

func (s *Stream) decodeValue(v reflect.Value) error {
	if dec, ok := addrInterface(v).(Decoder); ok {
		return dec.DecodeRLP(s)
	}
	if v.Kind() == reflect.Ptr {
		peekKind, peekSize, err := s.readKind()
		if err != nil {
			return err
		}
		if peekKind == stringHeader && peekSize == 0 {
			if _, err := s.readBytes(peekSize); err != nil {
				return err
			}
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return s.decodeValue(v.Elem())
	}

	kind, size, err := s.readKind()
	if err != nil {
		return err
	}

	if v.Type() == uint256Type {
		if kind == listHeader {
			return ErrExpectedList
		}
		b, err := s.readBytes(size)
		if err != nil {
			return err
		}
		var u uint256.Int
		u.SetBytes(b)
		v.Set(reflect.ValueOf(u))
		return nil
	}

	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if kind == listHeader {
			return ErrExpectedList
		}
		b, err := s.readBytes(size)
		if err != nil {
			return err
		}
		u, err := bytesToUint(b)
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil
	case reflect.Bool:
		b, err := s.readBytes(size)
		if err != nil {
			return err
		}
		v.SetBool(len(b) == 1 && b[0] == 1)
		return nil
	case reflect.String:
		b, err := s.readBytes(size)
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.readBytes(size)
			if err != nil {
				return err
			}
			if v.Kind() == reflect.Array {
				reflect.Copy(v, reflect.ValueOf(b))
				return nil
			}
			v.SetBytes(b)
			return nil
		}
		if kind != listHeader {
			return ErrExpectedList
		}
		return s.decodeList(v, size)
	case reflect.Struct:
		if bi, ok := v.Addr().Interface().(*big.Int); ok {
			b, err := s.readBytes(size)
			if err != nil {
				return err
			}
			bi.SetBytes(b)
			return nil
		}
		if kind != listHeader {
			return ErrExpectedList
		}
		return s.decodeStruct(v, size)
	case reflect.Interface:
		return fmt.Errorf("rlp: cannot decode into interface value")
	default:
		return fmt.Errorf("rlp: unsupported kind %s", v.Kind())
	}
}

func addrInterface(v reflect.Value) interface{} {
	if !v.CanAddr() {
		return nil
	}
	return v.Addr().Interface()
}

type headerKind int

const (
	stringHeader headerKind = iota
	listHeader
)

// readKind inspects the next header without advancing past it, returning
// the payload size; callers that consume it do so via readBytes or the
// list/struct decoders, which re-derive the payload offset themselves.
func (s *Stream) readKind() (headerKind, int, error) {
	if s.pos >= len(s.data) {
		return 0, 0, ErrInputTooShort
	}
	b := s.data[s.pos]
	switch {
	case b < 0x80:
		return stringHeader, 1, nil
	case b < 0xb8:
		return stringHeader, int(b - 0x80), nil
	case b < 0xc0:
		lenOfLen := int(b - 0xb7)
		n, err := s.peekLength(1, lenOfLen)
		if err != nil {
			return 0, 0, err
		}
		return stringHeader, n, nil
	case b < 0xf8:
		return listHeader, int(b - 0xc0), nil
	default:
		lenOfLen := int(b - 0xf7)
		n, err := s.peekLength(1, lenOfLen)
		if err != nil {
			return 0, 0, err
		}
		return listHeader, n, nil
	}
}

func (s *Stream) peekLength(off, lenOfLen int) (int, error) {
	if s.pos+off+lenOfLen > len(s.data) {
		return 0, ErrInputTooShort
	}
	n := 0
	for i := 0; i < lenOfLen; i++ {
		n = n<<8 | int(s.data[s.pos+off+i])
	}
	return n, nil
}

// readBytes consumes one complete string value (header + payload) and
// returns its payload.
func (s *Stream) readBytes(_ int) ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, ErrInputTooShort
	}
	b := s.data[s.pos]
	switch {
	case b < 0x80:
		s.pos++
		return []byte{b}, nil
	case b < 0xb8:
		n := int(b - 0x80)
		start := s.pos + 1
		if start+n > len(s.data) {
			return nil, ErrInputTooShort
		}
		s.pos = start + n
		return s.data[start : start+n], nil
	case b < 0xc0:
		lenOfLen := int(b - 0xb7)
		n, err := s.peekLength(1, lenOfLen)
		if err != nil {
			return nil, err
		}
		start := s.pos + 1 + lenOfLen
		if start+n > len(s.data) {
			return nil, ErrInputTooShort
		}
		s.pos = start + n
		return s.data[start : start+n], nil
	default:
		return nil, ErrExpectedList
	}
}

// listBounds returns the byte range of a list's body and advances pos past
// the entire list.
func (s *Stream) listBounds() (start, end int, err error) {
	if s.pos >= len(s.data) {
		return 0, 0, ErrInputTooShort
	}
	b := s.data[s.pos]
	switch {
	case b >= 0xc0 && b < 0xf8:
		n := int(b - 0xc0)
		start = s.pos + 1
		end = start + n
	case b >= 0xf8:
		lenOfLen := int(b - 0xf7)
		n, lerr := s.peekLength(1, lenOfLen)
		if lerr != nil {
			return 0, 0, lerr
		}
		start = s.pos + 1 + lenOfLen
		end = start + n
	default:
		return 0, 0, ErrExpectedList
	}
	if end > len(s.data) {
		return 0, 0, ErrInputTooShort
	}
	s.pos = end
	return start, end, nil
}

func (s *Stream) decodeStruct(v reflect.Value, _ int) error {
	start, end, err := s.listBounds()
	if err != nil {
		return err
	}
	inner := &Stream{data: s.data[:end], pos: start}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			continue
		}
		if err := inner.decodeValue(v.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) decodeList(v reflect.Value, _ int) error {
	start, end, err := s.listBounds()
	if err != nil {
		return err
	}
	inner := &Stream{data: s.data[:end], pos: start}
	var elems []reflect.Value
	elemType := v.Type().Elem()
	for inner.pos < end {
		ev := reflect.New(elemType).Elem()
		if err := inner.decodeValue(ev); err != nil {
			return err
		}
		elems = append(elems, ev)
	}
	if v.Kind() == reflect.Array {
		for i, e := range elems {
			if i >= v.Len() {
				break
			}
			v.Index(i).Set(e)
		}
		return nil
	}
	out := reflect.MakeSlice(v.Type(), len(elems), len(elems))
	for i, e := range elems {
		out.Index(i).Set(e)
	}
	v.Set(out)
	return nil
}

func bytesToUint(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, fmt.Errorf("rlp: uint overflow, %d bytes", len(b))
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u, nil
}

