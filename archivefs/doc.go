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

// Package archivefs gives access to the members of archive files held in
// memory. Zip and 7z archives are supported.
//
// Archives are opened from a byte slice rather than from the filesystem so
// that they can be read from any storage backend:
//
//	arc, err := archivefs.Open("roms.7z", data)
//	for _, e := range arc.Find(".nes") {
//		rom, err := arc.Read(e.Path)
//		...
//	}
package archivefs
