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

package compiler

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jetsetilly/nesdb/cartridge"
	"github.com/jetsetilly/nesdb/crc"
	"github.com/jetsetilly/nesdb/database"
)

// Parser turns the data of a cartridge image into a Cartridge. The name is the
// file name of the image.
type Parser func(name string, data []byte) (*cartridge.Cartridge, error)

// Game is everything that is learned about a cartridge image.
type Game struct {
	Checksum  uint32
	Region    database.Region
	Mapper    uint16
	Submapper uint8

	// number of banks. CHR-ROM and PRG-RAM banks are 8K and PRG-ROM banks
	// are 16K
	ChrBanks    int
	PrgROMBanks int
	PrgRAMBanks int

	Battery   bool
	Mirroring cartridge.Mirroring
	Title     string
}

// ListingHeader is the first line of the text listing.
const ListingHeader = "# CRC, Region, Mapper, SubMapper, ChrBanks, PrgRomBanks, PrgRamBanks, Battery, Mirroring, Title"

// String returns the game as a line in the text listing.
func (g Game) String() string {
	return fmt.Sprintf("%08X, %s, %d, %d, %d, %d, %d, %t, %s, %q",
		g.Checksum, g.Region, g.Mapper, g.Submapper,
		g.ChrBanks, g.PrgROMBanks, g.PrgRAMBanks,
		g.Battery, g.Mirroring, g.Title)
}

// Info returns the part of the game that is stored in the database.
func (g Game) Info() database.GameInfo {
	return database.GameInfo{
		Checksum:  g.Checksum,
		Region:    g.Region,
		Mapper:    g.Mapper,
		Submapper: g.Submapper,
		Title:     g.Title,
	}
}

// Identify the cartridge image. The name is the file name of the image and is
// used to decide the region and title of the game.
//
// Corrections are not applied.
func Identify(name string, data []byte, parse Parser) (Game, error) {
	cart, err := parse(name, data)
	if err != nil {
		return Game{}, err
	}

	checksum := crc.Checksum(cart.PRG)
	if cart.HasChrROM() {
		checksum = crc.Combine(checksum, cart.CHR)
	}

	return Game{
		Checksum:    checksum,
		Region:      RegionFromName(name),
		Mapper:      cart.Mapper,
		Submapper:   cart.Submapper,
		ChrBanks:    len(cart.CHR) / cartridge.ChrROMBank,
		PrgROMBanks: len(cart.PRG) / cartridge.PrgROMBank,
		PrgRAMBanks: cart.PrgRAMSize / cartridge.PrgRAMBank,
		Battery:     cart.Battery,
		Mirroring:   cart.Mirroring,
		Title:       TitleFromName(name),
	}, nil
}

// RegionFromName returns PAL if the name contains "Europe" or "PAL". A name
// that is not valid UTF-8 is always NTSC.
func RegionFromName(name string) database.Region {
	if !utf8.ValidString(name) {
		return database.NTSC
	}
	if strings.Contains(name, "Europe") || strings.Contains(name, "PAL") {
		return database.PAL
	}
	return database.NTSC
}

// TitleFromName returns the name with any trailing ".nes" removed. Invalid
// UTF-8 sequences are replaced with the unicode replacement character.
func TitleFromName(name string) string {
	return strings.TrimSuffix(strings.ToValidUTF8(name, string(utf8.RuneError)), ".nes")
}

// WriteListing writes the header line and a line for every game.
func WriteListing(w io.Writer, games []Game) error {
	if _, err := io.WriteString(w, ListingHeader+"\n"); err != nil {
		return err
	}
	for _, g := range games {
		if _, err := io.WriteString(w, g.String()+"\n"); err != nil {
			return err
		}
	}
	return nil
}
