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

// Package compiler builds the game database from a directory of cartridge
// images.
//
// Each image is parsed and identified by the CRC-32 checksum of its PRG-ROM
// followed by its CHR-ROM (if present). The region is taken from the file
// name: names containing "Europe" or "PAL" are PAL games and everything else
// is NTSC. Known errors in the mapper numbers found in cartridge headers are
// corrected from a built-in table.
//
// Problems with individual files, including panics while reading archives,
// parsing images or applying corrections, do not stop
// the compilation. The file is skipped and the problem is logged and added to
// the Skipped report of the Result.
//
// The output of Compile() is a text listing of every game and the database
// file:
//
//	c := compiler.Compiler{
//		ROMs:         roms,
//		Output:       out,
//		ListingPath:  "game_database.txt",
//		DatabasePath: "game_db.dat",
//	}
//	res, err := c.Compile(ctx, "")
package compiler
