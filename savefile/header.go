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

package savefile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jetsetilly/nesdb/curated"
)

const magicLen = 8

var magic = [magicLen]byte{'N', 'E', 'S', 'D', 'B', 0x00, 0x00, 0x1a}

// the format version is independent of the application version. a new
// release does not necessarily change the format
const formatVersion = '1'

// HeaderLen is the number of bytes occupied by the header.
const HeaderLen = magicLen + 1

// WriteHeader writes the magic token and the format version.
func WriteHeader(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return curated.Errorf(HeaderWriteFailed, err)
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return curated.Errorf(HeaderWriteFailed, err)
	}
	return nil
}

// ValidateHeader reads the header from r and checks that it is correct. Exactly
// HeaderLen bytes are read from r if they are available.
func ValidateHeader(r io.Reader) error {
	var m [magicLen]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return curated.Errorf(InvalidHeader, err)
	}
	if !bytes.Equal(m[:], magic[:]) {
		return curated.Errorf(InvalidHeader, fmt.Sprintf("invalid magic (expected %q, found %q)", magic[:], m[:]))
	}

	var v [1]byte
	if _, err := io.ReadFull(r, v[:]); err != nil {
		return curated.Errorf(InvalidHeader, err)
	}
	if v[0] != formatVersion {
		return curated.Errorf(InvalidHeader, fmt.Sprintf("invalid version (expected %q, found %q)", formatVersion, v[0]))
	}

	return nil
}
