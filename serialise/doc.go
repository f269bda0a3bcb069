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

// Package serialise converts values to and from the protobuf wire format
// without generated code.
//
// The layout of a value is decided by its Serialise() and Deserialise()
// methods and not by reflection over its Go type. Every value is written as a
// numbered field:
//
//	func (g *Game) Serialise(enc *serialise.Encoder) error {
//		enc.Fixed32(1, g.Checksum)
//		enc.Str(2, g.Title)
//		return nil
//	}
//
//	func (g *Game) Deserialise(dec *serialise.Decoder) error {
//		for dec.Next() {
//			switch dec.Field() {
//			case 1:
//				g.Checksum = dec.Fixed32()
//			case 2:
//				g.Title = dec.Str()
//			default:
//				dec.Skip()
//			}
//		}
//		return dec.Err()
//	}
//
// Fields that are not known to the Deserialise() method are skipped and fields
// that are missing keep their zero value, so a field can be added to a type
// without invalidating existing files. Field numbers must never be reused for
// a value of a different kind.
//
// Unsigned integers, booleans and enum variants are varints. Byte slices,
// strings and embedded messages are length delimited. A list is an embedded
// message written once per element with the same field number.
package serialise
