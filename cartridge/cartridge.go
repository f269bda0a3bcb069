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

package cartridge

import (
	"bytes"
	"fmt"

	"github.com/jetsetilly/nesdb/curated"
)

// Sentinal errors. The first value is the name of the cartridge image.
const (
	InvalidImage   = "cartridge: %s: %v"
	TruncatedImage = "cartridge: %s: truncated (need %d bytes, have %d)"
)

const (
	headerLen  = 16
	trainerLen = 512
)

// Bank sizes in bytes.
const (
	PrgROMBank = 16384
	ChrROMBank = 8192
	PrgRAMBank = 8192
)

var magic = []byte{'N', 'E', 'S', 0x1a}

// Format of the cartridge header.
type Format int

// List of valid Format values.
const (
	INES Format = iota
	NES2
)

func (f Format) String() string {
	switch f {
	case INES:
		return "iNES"
	case NES2:
		return "NES 2.0"
	}
	return "unknown"
}

// Mirroring describes how the nametables are arranged.
type Mirroring int

// List of valid Mirroring values. The single screen values are never set by
// the header but are used by mapper-controlled boards.
const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenA
	SingleScreenB
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	case SingleScreenA:
		return "SingleScreenA"
	case SingleScreenB:
		return "SingleScreenB"
	case FourScreen:
		return "FourScreen"
	}
	return "unknown"
}

// Cartridge is the result of parsing a cartridge image.
type Cartridge struct {
	Name   string
	Format Format

	Mapper    uint16
	Submapper uint8

	Mirroring Mirroring
	Battery   bool

	// trainer is nil if the image does not have one
	Trainer []byte

	PRG []byte

	// CHR is empty if the board uses CHR-RAM
	CHR []byte

	// sizes in bytes. PrgRAMSize includes any battery backed PRG-NVRAM
	PrgRAMSize int
	ChrRAMSize int
}

// HasChrROM returns true if the cartridge has CHR-ROM rather than CHR-RAM.
func (c *Cartridge) HasChrROM() bool {
	return len(c.CHR) > 0
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("%s [%s] mapper %d.%d, PRG %dK, CHR %dK, %s", c.Name, c.Format,
		c.Mapper, c.Submapper, len(c.PRG)/1024, len(c.CHR)/1024, c.Mirroring)
}

// Parse the cartridge image in data. The name is used only in error messages
// and is copied to the Name field of the result.
//
// The PRG and CHR fields of the returned cartridge are sub-slices of data.
// Any data following the CHR-ROM (for example, PlayChoice-10 hint screens) is
// ignored.
func Parse(name string, data []byte) (*Cartridge, error) {
	if len(data) < headerLen {
		return nil, curated.Errorf(TruncatedImage, name, headerLen, len(data))
	}

	h := data[:headerLen]
	if !bytes.Equal(h[:len(magic)], magic) {
		return nil, curated.Errorf(InvalidImage, name, "not an iNES image")
	}

	c := &Cartridge{Name: name}

	if h[7]&0x0c == 0x08 {
		c.Format = NES2
	}

	if h[6]&0x08 == 0x08 {
		c.Mirroring = FourScreen
	} else if h[6]&0x01 == 0x01 {
		c.Mirroring = Vertical
	}
	c.Battery = h[6]&0x02 == 0x02

	var prgSize, chrSize int

	switch c.Format {
	case NES2:
		c.Mapper = uint16(h[6]>>4) | uint16(h[7]&0xf0) | uint16(h[8]&0x0f)<<8
		c.Submapper = h[8] >> 4
		prgSize = romSize(h[4], h[9]&0x0f, PrgROMBank)
		chrSize = romSize(h[5], h[9]>>4, ChrROMBank)
		c.PrgRAMSize = ramSize(h[10]&0x0f) + ramSize(h[10]>>4)
		c.ChrRAMSize = ramSize(h[11]&0x0f) + ramSize(h[11]>>4)

	default:
		c.Mapper = uint16(h[6] >> 4)
		if !diskDude(h) {
			c.Mapper |= uint16(h[7] & 0xf0)
		}
		prgSize = int(h[4]) * PrgROMBank
		chrSize = int(h[5]) * ChrROMBank

		// a zero value in byte 8 means 8K of PRG-RAM for compatibility
		c.PrgRAMSize = int(max(h[8], 1)) * PrgRAMBank
		if chrSize == 0 {
			c.ChrRAMSize = ChrROMBank
		}
	}

	if prgSize == 0 {
		return nil, curated.Errorf(InvalidImage, name, "no PRG-ROM")
	}

	offset := headerLen
	if h[6]&0x04 == 0x04 {
		if len(data) < offset+trainerLen {
			return nil, curated.Errorf(TruncatedImage, name, offset+trainerLen, len(data))
		}
		c.Trainer = data[offset : offset+trainerLen]
		offset += trainerLen
	}

	// the sizes are compared against the remaining data before slicing so
	// that a large exponent in a NES 2.0 header can't overflow the end
	// calculation
	if prgSize > len(data)-offset || chrSize > len(data)-offset-prgSize {
		return nil, curated.Errorf(TruncatedImage, name, offset+prgSize+chrSize, len(data))
	}

	c.PRG = data[offset : offset+prgSize]
	offset += prgSize
	c.CHR = data[offset : offset+chrSize]

	return c, nil
}

// diskDude returns true if the last four bytes of the header are not zero. Old
// ripping tools wrote their signature across bytes 7 to 15, in which case the
// upper nibble of the mapper number in byte 7 is not trustworthy.
func diskDude(h []byte) bool {
	for _, b := range h[12:headerLen] {
		if b != 0x00 {
			return true
		}
	}
	return false
}

// romSize decodes a NES 2.0 ROM size. When the most significant nibble is 0xf
// the least significant byte is in exponent-multiplier notation.
func romSize(lsb uint8, msb uint8, unit int) int {
	if msb == 0x0f {
		exp := lsb >> 2
		mul := int(lsb&0x03)*2 + 1

		// exponents this large describe sizes no real cartridge has. return
		// a size that can't be satisfied so that the image is reported as
		// truncated
		if exp > 30 {
			return 1 << 31
		}
		return (1 << exp) * mul
	}
	return (int(msb)<<8 | int(lsb)) * unit
}

// ramSize decodes a NES 2.0 RAM shift count.
func ramSize(shift uint8) int {
	if shift == 0 {
		return 0
	}
	return 64 << shift
}
