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

// Package savefile reads and writes the framed, compressed files used for
// save states and for the compiled game database.
//
// A file starts with an eight byte magic token and a single version byte. The
// rest of the file is a deflate stream. The decompressed stream is the
// serialised value followed by the CRC-32 of the serialised value, stored
// little-endian.
//
//	offset 0..8   magic "NESDB\x00\x00\x1a"
//	offset 8      version '1'
//	offset 9..    deflate(payload ++ crc32(payload))
//
// Both header fields must match exactly when loading. There is no
// compatibility between versions. A change to the version byte needs a new
// reader.
//
// The Save() and Load() functions work with a storage.Backend. SaveOut() and
// LoadBytes() work with a byte slice in memory. SaveRaw() and LoadRaw() move
// bytes to and from a storage.Backend without any framing at all.
//
// Errors are curated errors. The kind of error can be tested for with the
// curated.Is() function and one of the patterns exported by this package.
package savefile
