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

package archivefs

import (
	"path"
	"strings"
)

// list of file extensions for the supported archive types
var ArchiveExtensions = [...]string{".ZIP", ".7Z"}

// IsArchive returns true if the filename has the extension of a supported
// archive type.
func IsArchive(filename string) bool {
	sext := strings.ToUpper(path.Ext(filename))
	for _, ext := range ArchiveExtensions {
		if sext == ext {
			return true
		}
	}
	return false
}
