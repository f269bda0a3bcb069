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

package database

import (
	"fmt"

	"github.com/jetsetilly/nesdb/serialise"
)

// Region is the television system a game was released for.
type Region uint32

// List of valid Region values.
const (
	NTSC Region = iota
	PAL
	numRegions
)

func (r Region) String() string {
	switch r {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	}
	return "unknown"
}

// GameInfo is a single entry in the database.
type GameInfo struct {
	Checksum  uint32
	Region    Region
	Mapper    uint16
	Submapper uint8
	Title     string
}

// field numbers of the GameInfo fields in the serialised form
const (
	fieldChecksum serialise.Field = iota + 1
	fieldRegion
	fieldMapper
	fieldSubmapper
	fieldTitle
)

func (g GameInfo) String() string {
	return fmt.Sprintf("%08X %s mapper %d.%d %q", g.Checksum, g.Region, g.Mapper, g.Submapper, g.Title)
}

// Serialise implements the serialise.Serialiser interface.
func (g *GameInfo) Serialise(enc *serialise.Encoder) error {
	enc.Fixed32(fieldChecksum, g.Checksum)
	enc.Variant(fieldRegion, uint32(g.Region))
	enc.Uint16(fieldMapper, g.Mapper)
	enc.Uint8(fieldSubmapper, g.Submapper)
	enc.Str(fieldTitle, g.Title)
	return nil
}

// Deserialise implements the serialise.Deserialiser interface. Missing fields
// keep their zero value.
func (g *GameInfo) Deserialise(dec *serialise.Decoder) error {
	for dec.Next() {
		switch dec.Field() {
		case fieldChecksum:
			g.Checksum = dec.Fixed32()
		case fieldRegion:
			g.Region = Region(dec.Variant(uint32(numRegions)))
		case fieldMapper:
			g.Mapper = dec.Uint16()
		case fieldSubmapper:
			g.Submapper = dec.Uint8()
		case fieldTitle:
			g.Title = dec.Str()
		default:
			dec.Skip()
		}
	}
	return dec.Err()
}
