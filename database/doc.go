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

// Package database is the compiled database of NES games. Each entry
// identifies a game by the CRC-32 checksum of its PRG-ROM and CHR-ROM data.
//
// Entries are kept in checksum order and a checksum appears no more than once.
// The New() function enforces this for a list of entries created by the
// compiler package, and Load() rejects a file that breaks the rule:
//
//	db, dups := database.New(entries)
//	err := db.Save(ctx, st, "games.db")
//
// A loaded database is queried with Lookup(). SelectAll() and List() visit the
// entries in checksum order.
//
// The file format is described by the savefile package. The payload is the
// EntriesField repeated once per entry, each holding an embedded GameInfo
// message. Fields added in later versions are skipped by older readers.
package database
