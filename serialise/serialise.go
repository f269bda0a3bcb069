// This file is part of nesdb.
//
// nesdb is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nesdb is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nesdb.  If not, see <https://www.gnu.org/licenses/>.

package serialise

import (
	"errors"
	"io"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jetsetilly/nesdb/curated"
)

// Sentinal error patterns returned by the Decoder and by Unmarshal().
const (
	UnexpectedEnd = "serialise: unexpected end of data reading %s"
	Malformed     = "serialise: malformed %s: %v"
	WrongType     = "serialise: field %d: wrong wire type for %s"
	NoField       = "serialise: no field to read %s from"
	InvalidValue  = "serialise: invalid %s value (%d)"
	InvalidString = "serialise: string is not valid UTF-8"
	TrailingData  = "serialise: %d bytes of trailing data"
)

// Field is the number that identifies a value in an encoded message. Valid
// field numbers start at one.
type Field = protowire.Number

// Serialiser is implemented by types that can be written with an Encoder.
type Serialiser interface {
	Serialise(enc *Encoder) error
}

// Deserialiser is implemented by types that can be read with a Decoder.
type Deserialiser interface {
	Deserialise(dec *Decoder) error
}

// Marshal returns the encoding of v.
func Marshal(v Serialiser) ([]byte, error) {
	enc := NewEncoder()
	if err := v.Serialise(enc); err != nil {
		return nil, err
	}
	return enc.Data(), nil
}

// Unmarshal decodes data into v. All of data must be consumed.
func Unmarshal(data []byte, v Deserialiser) error {
	dec := NewDecoder(data)
	if err := v.Deserialise(dec); err != nil {
		return err
	}
	if err := dec.Err(); err != nil {
		return err
	}
	if dec.Remaining() > 0 {
		return curated.Errorf(TrailingData, dec.Remaining())
	}
	return nil
}

// Encoder appends fields in the protobuf wire format to a buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder is the preferred method of initialisation for the Encoder type.
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0, 256),
	}
}

// Data returns the encoded bytes.
func (enc *Encoder) Data() []byte {
	return enc.buf
}

func (enc *Encoder) varint(num Field, v uint64) {
	enc.buf = protowire.AppendTag(enc.buf, num, protowire.VarintType)
	enc.buf = protowire.AppendVarint(enc.buf, v)
}

func (enc *Encoder) Uint8(num Field, v uint8) {
	enc.varint(num, uint64(v))
}

func (enc *Encoder) Uint16(num Field, v uint16) {
	enc.varint(num, uint64(v))
}

func (enc *Encoder) Uint32(num Field, v uint32) {
	enc.varint(num, uint64(v))
}

func (enc *Encoder) Uint64(num Field, v uint64) {
	enc.varint(num, v)
}

// Fixed32 writes v as four bytes rather than as a varint. Preferred for
// values such as checksums that are rarely small.
func (enc *Encoder) Fixed32(num Field, v uint32) {
	enc.buf = protowire.AppendTag(enc.buf, num, protowire.Fixed32Type)
	enc.buf = protowire.AppendFixed32(enc.buf, v)
}

func (enc *Encoder) Bool(num Field, v bool) {
	enc.varint(num, protowire.EncodeBool(v))
}

// Variant writes the index of an enum value.
func (enc *Encoder) Variant(num Field, v uint32) {
	enc.varint(num, uint64(v))
}

func (enc *Encoder) Bytes(num Field, v []byte) {
	enc.buf = protowire.AppendTag(enc.buf, num, protowire.BytesType)
	enc.buf = protowire.AppendBytes(enc.buf, v)
}

func (enc *Encoder) Str(num Field, v string) {
	enc.buf = protowire.AppendTag(enc.buf, num, protowire.BytesType)
	enc.buf = protowire.AppendString(enc.buf, v)
}

// Message writes v as an embedded message. Repeated calls with the same field
// number make a list.
func (enc *Encoder) Message(num Field, v Serialiser) error {
	sub := NewEncoder()
	if err := v.Serialise(sub); err != nil {
		return err
	}
	enc.Bytes(num, sub.Data())
	return nil
}

// Decoder reads the fields of an encoded message. Fields are visited in the
// order they were written with Next(). The value of the current field is read
// with the method matching the Encoder method that wrote it, or skipped with
// Skip().
//
// The first error encountered is remembered and returned by Err(). After an
// error Next() returns false and all reads return the zero value.
type Decoder struct {
	data []byte
	err  error

	// current field. pending is true until the value has been read
	num     Field
	typ     protowire.Type
	pending bool
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		data: data,
	}
}

// Err returns the first error encountered by the Decoder.
func (dec *Decoder) Err() error {
	return dec.err
}

// Remaining returns the number of bytes not yet read.
func (dec *Decoder) Remaining() int {
	return len(dec.data)
}

// Fail sets the error for the decoder if it has not already been set. Used by
// Deserialise() implementations to reject values that decode correctly but
// are not valid for the type.
func (dec *Decoder) Fail(err error) {
	if dec.err == nil {
		dec.err = err
	}
}

// parseError converts a negative length returned by the protowire package
func (dec *Decoder) parseError(n int, what string) {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		dec.Fail(curated.Errorf(UnexpectedEnd, what))
		return
	}
	dec.Fail(curated.Errorf(Malformed, what, err))
}

// Next advances to the next field. Returns false at the end of the message or
// if an error has occurred. The value of a field that has not been read is
// skipped.
func (dec *Decoder) Next() bool {
	if dec.pending {
		dec.Skip()
	}
	if dec.err != nil || len(dec.data) == 0 {
		return false
	}

	num, typ, n := protowire.ConsumeTag(dec.data)
	if n < 0 {
		dec.parseError(n, "field tag")
		return false
	}
	dec.data = dec.data[n:]
	dec.num = num
	dec.typ = typ
	dec.pending = true

	return true
}

// Field returns the number of the current field.
func (dec *Decoder) Field() Field {
	return dec.num
}

// Skip the value of the current field. Used for fields that are not known to
// the Deserialise() implementation.
func (dec *Decoder) Skip() {
	if dec.err != nil || !dec.pending {
		return
	}
	dec.pending = false
	n := protowire.ConsumeFieldValue(dec.num, dec.typ, dec.data)
	if n < 0 {
		dec.parseError(n, "field value")
		return
	}
	dec.data = dec.data[n:]
}

// value checks that the current field can be read as the wire type
func (dec *Decoder) value(typ protowire.Type, what string) bool {
	if dec.err != nil {
		return false
	}
	if !dec.pending {
		dec.Fail(curated.Errorf(NoField, what))
		return false
	}
	if dec.typ != typ {
		dec.Fail(curated.Errorf(WrongType, dec.num, what))
		return false
	}
	dec.pending = false
	return true
}

func (dec *Decoder) varint(what string, limit uint64) uint64 {
	if !dec.value(protowire.VarintType, what) {
		return 0
	}
	v, n := protowire.ConsumeVarint(dec.data)
	if n < 0 {
		dec.parseError(n, what)
		return 0
	}
	dec.data = dec.data[n:]
	if v > limit {
		dec.Fail(curated.Errorf(InvalidValue, what, v))
		return 0
	}
	return v
}

func (dec *Decoder) Uint8() uint8 {
	return uint8(dec.varint("uint8", math.MaxUint8))
}

func (dec *Decoder) Uint16() uint16 {
	return uint16(dec.varint("uint16", math.MaxUint16))
}

func (dec *Decoder) Uint32() uint32 {
	return uint32(dec.varint("uint32", math.MaxUint32))
}

func (dec *Decoder) Uint64() uint64 {
	return dec.varint("uint64", math.MaxUint64)
}

func (dec *Decoder) Fixed32() uint32 {
	if !dec.value(protowire.Fixed32Type, "fixed32") {
		return 0
	}
	v, n := protowire.ConsumeFixed32(dec.data)
	if n < 0 {
		dec.parseError(n, "fixed32")
		return 0
	}
	dec.data = dec.data[n:]
	return v
}

func (dec *Decoder) Bool() bool {
	return dec.varint("bool", 1) == 1
}

// Variant reads the index of an enum value. An index equal to or greater than
// the number of variants is an error.
func (dec *Decoder) Variant(numVariants uint32) uint32 {
	v := dec.varint("variant", math.MaxUint32)
	if dec.err == nil && v >= uint64(numVariants) {
		dec.Fail(curated.Errorf(InvalidValue, "variant", v))
		return 0
	}
	return uint32(v)
}

// bytes returns the value of a length delimited field. the result refers to
// the underlying data
func (dec *Decoder) bytes(what string) []byte {
	if !dec.value(protowire.BytesType, what) {
		return nil
	}
	b, n := protowire.ConsumeBytes(dec.data)
	if n < 0 {
		dec.parseError(n, what)
		return nil
	}
	dec.data = dec.data[n:]
	return b
}

func (dec *Decoder) Bytes() []byte {
	b := dec.bytes("bytes")
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

func (dec *Decoder) Str() string {
	b := dec.bytes("string")
	if !utf8.Valid(b) {
		dec.Fail(curated.Errorf(InvalidString))
		return ""
	}
	return string(b)
}

// Message reads the current field as an embedded message into v. An error
// in the embedded message becomes the error of the Decoder.
func (dec *Decoder) Message(v Deserialiser) {
	b := dec.bytes("message")
	if dec.err != nil {
		return
	}
	if err := Unmarshal(b, v); err != nil {
		dec.Fail(err)
	}
}
