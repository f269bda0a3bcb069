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

// Package cartridgeloader is used to specify and load the cartridge images
// that are to be identified.
//
// Cartridge images are read through a storage.Backend. An image can be a
// plain file or a member of an archive supported by the archivefs package.
//
// The simplest instance of the Loader type:
//
//	cl := cartridgeloader.Loader{
//		Filename: "roms/Elite (Europe).nes",
//	}
//
// An image inside an archive is specified with the Member field:
//
//	cl := cartridgeloader.NewLoader("roms/collection.7z", "Elite (Europe).nes")
//
// The Expand() function creates a Loader for every cartridge image in an
// archive, reading the archive only once.
package cartridgeloader
