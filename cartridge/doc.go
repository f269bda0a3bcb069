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

// Package cartridge parses NES cartridge images in the iNES and NES 2.0
// formats. It extracts the PRG and CHR data and the header fields needed to
// identify a game. It does not validate the program data in any way.
//
// The parser follows the rules described at:
//
//	https://www.nesdev.org/wiki/INES
//	https://www.nesdev.org/wiki/NES_2.0
//
// Including the "DiskDude!" rule: when an iNES header has garbage in bytes
// 12 to 15 the upper nibble of the mapper number is ignored.
package cartridge
