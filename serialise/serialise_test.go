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

package serialise_test

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/serialise"
	"github.com/jetsetilly/nesdb/test"
)

type record struct {
	a uint8
	b uint16
	c uint32
	d uint64
	e bool
	f uint32
	g string
	h []byte
	i uint32
}

func (r *record) Serialise(enc *serialise.Encoder) error {
	enc.Uint8(1, r.a)
	enc.Uint16(2, r.b)
	enc.Uint32(3, r.c)
	enc.Uint64(4, r.d)
	enc.Bool(5, r.e)
	enc.Variant(6, r.f)
	enc.Str(7, r.g)
	enc.Bytes(8, r.h)
	enc.Fixed32(9, r.i)
	return nil
}

func (r *record) Deserialise(dec *serialise.Decoder) error {
	for dec.Next() {
		switch dec.Field() {
		case 1:
			r.a = dec.Uint8()
		case 2:
			r.b = dec.Uint16()
		case 3:
			r.c = dec.Uint32()
		case 4:
			r.d = dec.Uint64()
		case 5:
			r.e = dec.Bool()
		case 6:
			r.f = dec.Variant(3)
		case 7:
			r.g = dec.Str()
		case 8:
			r.h = dec.Bytes()
		case 9:
			r.i = dec.Fixed32()
		default:
			dec.Skip()
		}
	}
	return dec.Err()
}

// list is a sequence of embedded records
type list []record

func (l list) Serialise(enc *serialise.Encoder) error {
	for i := range l {
		if err := enc.Message(1, &l[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *list) Deserialise(dec *serialise.Decoder) error {
	for dec.Next() {
		switch dec.Field() {
		case 1:
			var r record
			dec.Message(&r)
			*l = append(*l, r)
		default:
			dec.Skip()
		}
	}
	return dec.Err()
}

var testRecord = record{a: 1, b: 0x0203, c: 0x04050607, d: 0x08090a0b0c0d0e0f, e: true, f: 2,
	g: "Famista '91", h: []byte{0xff, 0x00}, i: 0xb9b4cbd5}

func TestRoundTrip(t *testing.T) {
	r := testRecord

	data, err := serialise.Marshal(&r)
	test.DemandSuccess(t, err)

	var s record
	test.DemandSuccess(t, serialise.Unmarshal(data, &s))
	test.ExpectEquality(t, s.a, r.a)
	test.ExpectEquality(t, s.b, r.b)
	test.ExpectEquality(t, s.c, r.c)
	test.ExpectEquality(t, s.d, r.d)
	test.ExpectEquality(t, s.e, r.e)
	test.ExpectEquality(t, s.f, r.f)
	test.ExpectEquality(t, s.g, r.g)
	test.ExpectEquality(t, string(s.h), string(r.h))
	test.ExpectEquality(t, s.i, r.i)
}

func TestList(t *testing.T) {
	l := list{testRecord, {g: "second"}, {}}

	data, err := serialise.Marshal(l)
	test.DemandSuccess(t, err)

	var m list
	test.DemandSuccess(t, serialise.Unmarshal(data, &m))
	test.DemandEquality(t, len(m), 3)
	test.ExpectEquality(t, m[0].i, testRecord.i)
	test.ExpectEquality(t, m[1].g, "second")
	test.ExpectEquality(t, m[2].g, "")

	var empty list
	data, err = serialise.Marshal(empty)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), 0)
	test.DemandSuccess(t, serialise.Unmarshal(data, &m))
}

func TestLayout(t *testing.T) {
	enc := serialise.NewEncoder()
	enc.Fixed32(1, 0xb9b4cbd5)
	enc.Variant(2, 1)
	enc.Uint16(3, 210)
	enc.Uint8(4, 2)
	enc.Str(5, "ab")

	expected := []byte{
		0x0d, 0xd5, 0xcb, 0xb4, 0xb9,
		0x10, 0x01,
		0x18, 0xd2, 0x01,
		0x20, 0x02,
		0x2a, 0x02, 'a', 'b',
	}
	test.ExpectEquality(t, string(enc.Data()), string(expected))
}

func TestUnknownFields(t *testing.T) {
	enc := serialise.NewEncoder()
	enc.Str(7, "known")
	enc.Uint64(100, 12345)
	enc.Str(101, "unknown")
	enc.Fixed32(102, 1)
	enc.Uint8(1, 9)

	var r record
	test.DemandSuccess(t, serialise.Unmarshal(enc.Data(), &r))
	test.ExpectEquality(t, r.g, "known")
	test.ExpectEquality(t, r.a, uint8(9))
	test.ExpectEquality(t, r.c, uint32(0))
}

// boundaries returns the offsets in data at which a field ends
func boundaries(data []byte) map[int]bool {
	b := map[int]bool{0: true}
	for o := 0; o < len(data); {
		_, _, n := protowire.ConsumeField(data[o:])
		if n < 0 {
			break
		}
		o += n
		b[o] = true
	}
	return b
}

func TestTruncation(t *testing.T) {
	r := testRecord
	data, err := serialise.Marshal(&r)
	test.DemandSuccess(t, err)

	// a cut at a field boundary leaves a shorter valid message. a cut
	// anywhere else must fail
	b := boundaries(data)
	for i := 0; i < len(data); i++ {
		var s record
		err := serialise.Unmarshal(data[:i], &s)
		if b[i] {
			test.ExpectSuccess(t, err, i)
			continue
		}
		test.ExpectFailure(t, err, i)
		test.ExpectSuccess(t, curated.Is(err, serialise.UnexpectedEnd), i)
	}
}

func TestInvalidValues(t *testing.T) {
	var s record

	// bool greater than one
	enc := serialise.NewEncoder()
	enc.Uint8(5, 2)
	err := serialise.Unmarshal(enc.Data(), &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.InvalidValue))

	// variant out of range
	enc = serialise.NewEncoder()
	enc.Variant(6, 3)
	err = serialise.Unmarshal(enc.Data(), &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.InvalidValue))

	// value too large for the field
	enc = serialise.NewEncoder()
	enc.Uint32(1, 256)
	err = serialise.Unmarshal(enc.Data(), &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.InvalidValue))

	// string that is not valid UTF-8
	enc = serialise.NewEncoder()
	enc.Bytes(7, []byte{0xff, 0xfe})
	err = serialise.Unmarshal(enc.Data(), &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.InvalidString))
}

func TestWrongType(t *testing.T) {
	enc := serialise.NewEncoder()
	enc.Str(1, "not a number")

	var s record
	err := serialise.Unmarshal(enc.Data(), &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.WrongType))
}

func TestMalformed(t *testing.T) {
	var s record

	// field number zero is not valid
	err := serialise.Unmarshal([]byte{0x00, 0x01}, &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.Malformed))

	// embedded message errors are passed up
	enc := serialise.NewEncoder()
	enc.Bytes(1, []byte{0x28, 0x02})
	var l list
	err = serialise.Unmarshal(enc.Data(), &l)
	test.ExpectSuccess(t, curated.Is(err, serialise.InvalidValue))
}

func TestHugeLength(t *testing.T) {
	// length delimited field claiming far more data than there is
	data := protowire.AppendTag(nil, 7, protowire.BytesType)
	data = protowire.AppendVarint(data, 0xffffffffffff)

	var s record
	err := serialise.Unmarshal(data, &s)
	test.ExpectSuccess(t, curated.Is(err, serialise.UnexpectedEnd))
	test.ExpectEquality(t, s.g, "")
}

func TestReadWithoutField(t *testing.T) {
	dec := serialise.NewDecoder(nil)
	test.ExpectEquality(t, dec.Uint32(), uint32(0))
	test.ExpectSuccess(t, curated.Is(dec.Err(), serialise.NoField))
}
