// Copyright 2021 github.com/gagliardetto
// This file has been modified by github.com/gagliardetto
//
// Copyright 2020 dfuse Platform Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package encodbin

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
)

// Encoder writes values onto an io.Writer using Solana's wire conventions.
type Encoder struct {
	w               io.Writer
	currentFieldOpt *FieldOption
}

func NewBinEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func NewBorshEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) WriteByte(b byte) error {
	return e.WriteBytes([]byte{b})
}

func (e *Encoder) WriteUint8(v uint8) error {
	return e.WriteByte(byte(v))
}

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.WriteByte(1)
	}
	return e.WriteByte(0)
}

func (e *Encoder) WriteUint16(v uint16, order binary.ByteOrder) error {
	buf := make([]byte, 2)
	order.PutUint16(buf, v)
	return e.WriteBytes(buf)
}

func (e *Encoder) WriteInt16(v int16, order binary.ByteOrder) error {
	return e.WriteUint16(uint16(v), order)
}

func (e *Encoder) WriteUint32(v uint32, order binary.ByteOrder) error {
	buf := make([]byte, 4)
	order.PutUint32(buf, v)
	return e.WriteBytes(buf)
}

func (e *Encoder) WriteInt32(v int32, order binary.ByteOrder) error {
	return e.WriteUint32(uint32(v), order)
}

func (e *Encoder) WriteUint64(v uint64, order binary.ByteOrder) error {
	buf := make([]byte, 8)
	order.PutUint64(buf, v)
	return e.WriteBytes(buf)
}

func (e *Encoder) WriteInt64(v int64, order binary.ByteOrder) error {
	return e.WriteUint64(uint64(v), order)
}

func (e *Encoder) WriteFloat32(v float32, order binary.ByteOrder) error {
	return e.WriteUint32(math.Float32bits(v), order)
}

func (e *Encoder) WriteFloat64(v float64, order binary.ByteOrder) error {
	return e.WriteUint64(math.Float64bits(v), order)
}

func (e *Encoder) WriteUint128(v Uint128, order binary.ByteOrder) error {
	out := Uint128{Lo: v.Lo, Hi: v.Hi, Endianness: order}
	return e.WriteBytes(out.Bytes())
}

func (e *Encoder) WriteInt128(v Int128, order binary.ByteOrder) error {
	return e.WriteUint128(Uint128(v), order)
}

// WriteCompactU16 writes n using Solana's shortvec (compact-u16) encoding.
func (e *Encoder) WriteCompactU16(n int) error {
	var buf []byte
	EncodeCompactU16Length(&buf, n)
	return e.WriteBytes(buf)
}

func (e *Encoder) WriteRustString(s string) error {
	if err := e.WriteUint32(uint32(len(s)), LE); err != nil {
		return err
	}
	return e.WriteBytes([]byte(s))
}

// EncodeCompactU16Length appends the compact-u16 (shortvec) encoding of n to
// *dst. This is the length prefix used ahead of signature and instruction
// vectors on the wire.
func EncodeCompactU16Length(dst *[]byte, n int) {
	v := uint(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			*dst = append(*dst, b|0x80)
			continue
		}
		*dst = append(*dst, b)
		return
	}
}

// Encode serializes v using BinaryMarshaler when implemented, otherwise by
// reflecting over exported fields in declaration order, mirroring Decode.
func (e *Encoder) Encode(v interface{}) error {
	if m, ok := v.(BinaryMarshaler); ok {
		return m.MarshalWithEncoder(e)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	return e.encodeValue(rv)
}

func (e *Encoder) encodeValue(rv reflect.Value) error {
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(BinaryMarshaler); ok {
			return m.MarshalWithEncoder(e)
		}
	} else if m, ok := rv.Interface().(BinaryMarshaler); ok {
		return m.MarshalWithEncoder(e)
	}
	switch rv.Kind() {
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if err := e.encodeValue(rv.Field(i)); err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
		}
		return nil
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := e.encodeValue(rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice:
		if err := e.WriteCompactU16(rv.Len()); err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := e.encodeValue(rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Uint8:
		return e.WriteUint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return e.WriteUint16(uint16(rv.Uint()), LE)
	case reflect.Uint32:
		return e.WriteUint32(uint32(rv.Uint()), LE)
	case reflect.Uint64:
		return e.WriteUint64(rv.Uint(), LE)
	case reflect.Int64:
		return e.WriteInt64(rv.Int(), LE)
	case reflect.Bool:
		return e.WriteBool(rv.Bool())
	case reflect.String:
		return e.WriteRustString(rv.String())
	default:
		return fmt.Errorf("Encode: unsupported kind %s", rv.Kind())
	}
}
