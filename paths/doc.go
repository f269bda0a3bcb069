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

// Package paths contains functions to prepare paths for nesdb resources.
//
// The ResourcePath() function returns the path to a resource in the nesdb
// configuration directory. For example, on a Linux system:
//
//	p, _ := paths.ResourcePath("nesdb.yaml")
//
// would return:
//
//	/home/user/.config/nesdb/nesdb.yaml
//
// If a directory named ".nesdb" exists in the current working directory then
// that is used as the base path instead. This is useful during development.
package paths
