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

// Package storage is the byte store used for cartridge images, save files and
// compiled databases. Data is addressed by a slash separated key relative to
// the root of the store.
//
// The Bucket type is an implementation of the Backend interface built on the
// Go CDK blob package. A Bucket can be opened over a local directory, over
// memory or over any URL the blob package has a driver for:
//
//	st, _ := storage.OpenDir("roms")
//	st := storage.NewMemory()
//	st, _ := storage.Open(ctx, "file:///home/user/roms")
//
// Keys are cleaned before use and keys escaping the root of the store are
// refused.
package storage
