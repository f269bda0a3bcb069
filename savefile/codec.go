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
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/jetsetilly/nesdb/curated"
)

// Encode compresses data to w. The compressed stream is complete when Encode()
// returns and can be decoded without any further data.
func Encode(w io.Writer, data []byte) error {
	enc, err := flate.NewWriter(w, flate.DefaultCompression)
	if err != nil {
		return curated.Errorf(EncodingFailed, err)
	}
	if _, err := enc.Write(data); err != nil {
		return curated.Errorf(EncodingFailed, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(EncodingFailed, err)
	}
	return nil
}

// Decode decompresses the stream in r until the end of the compressed data.
// The size of the decompressed data is not limited. Callers should limit the
// size of the input if that is a concern.
func Decode(r io.Reader) ([]byte, error) {
	dec := flate.NewReader(r)
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, curated.Errorf(DecodingFailed, err)
	}
	return data, nil
}
