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
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/jetsetilly/nesdb/crc"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/logger"
	"github.com/jetsetilly/nesdb/serialise"
	"github.com/jetsetilly/nesdb/storage"
)

// length of the checksum that follows the serialised payload
const trailerLen = 4

// Save serialises v and writes it to path in the storage backend. The file is
// only committed if every stage succeeds.
func Save(ctx context.Context, st storage.Backend, path string, v serialise.Serialiser) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}

	return write(ctx, st, path, func(w io.Writer) error {
		if err := WriteHeader(w); err != nil {
			return err
		}
		return Encode(w, data)
	})
}

// SaveOut is the same as Save() except that the result is returned as a byte
// slice rather than written to storage.
func SaveOut(v serialise.Serialiser) ([]byte, error) {
	data, err := marshal(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteHeader(&buf); err != nil {
		return nil, err
	}
	if err := Encode(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SaveRaw writes data to path in the storage backend exactly as it is.
func SaveRaw(ctx context.Context, st storage.Backend, path string, data []byte) error {
	return write(ctx, st, path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return curated.Errorf(IO, "failed to save data", err)
		}
		return nil
	})
}

// Load reads the file at path in the storage backend and deserialises it
// into v.
func Load(ctx context.Context, st storage.Backend, path string, v serialise.Deserialiser) error {
	r, err := open(ctx, st, path)
	if err != nil {
		return err
	}
	defer r.Close()

	return load(r, v)
}

// LoadBytes is the same as Load() except that the file has already been read
// into memory. Usually, the data will have been created by SaveOut().
func LoadBytes(data []byte, v serialise.Deserialiser) error {
	return load(bytes.NewReader(data), v)
}

// LoadRaw reads the entirety of the file at path in the storage backend.
func LoadRaw(ctx context.Context, st storage.Backend, path string) ([]byte, error) {
	r, err := open(ctx, st, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, curated.Errorf(IO, "failed to load data", err)
	}
	return data, nil
}

// ClearDir removes everything under dir in the storage backend.
func ClearDir(ctx context.Context, st storage.Backend, dir string) error {
	if err := st.ClearDir(ctx, dir); err != nil {
		if curated.Is(err, storage.InvalidKey) {
			return curated.Errorf(InvalidPath, dir)
		}
		return curated.Errorf(IO, "failed to clear directory", err)
	}
	return nil
}

// Exists returns true if path exists in the storage backend. Errors are logged
// and reported as the path not existing.
func Exists(ctx context.Context, st storage.Backend, path string) bool {
	ok, err := st.Exists(ctx, path)
	if err != nil {
		logger.Logf(logger.Allow, "savefile", "exists: %v", err)
		return false
	}
	return ok
}

// Filename returns the last element of the path. If the path does not have a
// final element the placeholder string "??" is returned.
func Filename(pth string) string {
	f := path.Base(filepath.ToSlash(pth))
	switch f {
	case ".", "/", "..":
		logger.Logf(logger.Allow, "savefile", "invalid path without file name: %q", pth)
		return "??"
	}
	return f
}

func marshal(v serialise.Serialiser) ([]byte, error) {
	data, err := serialise.Marshal(v)
	if err != nil {
		return nil, curated.Errorf(SerialisationFailed, err)
	}
	return binary.LittleEndian.AppendUint32(data, crc.Checksum(data)), nil
}

func unmarshal(data []byte, v serialise.Deserialiser) error {
	if len(data) < trailerLen {
		return curated.Errorf(DeserialisationFailed,
			curated.Errorf(Custom, fmt.Sprintf("payload too short (%d bytes)", len(data))))
	}

	payload := data[:len(data)-trailerLen]
	expected := binary.LittleEndian.Uint32(data[len(data)-trailerLen:])
	if found := crc.Checksum(payload); found != expected {
		return curated.Errorf(DeserialisationFailed,
			curated.Errorf(Custom, fmt.Sprintf("payload checksum mismatch (expected %08X, found %08X)", expected, found)))
	}

	if err := serialise.Unmarshal(payload, v); err != nil {
		return curated.Errorf(DeserialisationFailed, err)
	}
	return nil
}

func load(r io.Reader, v serialise.Deserialiser) error {
	if err := ValidateHeader(r); err != nil {
		return err
	}
	data, err := Decode(r)
	if err != nil {
		return err
	}
	return unmarshal(data, v)
}

// write opens a writer for path and calls fn with it. the writer is aborted
// rather than committed if fn returns an error
func write(ctx context.Context, st storage.Backend, path string, fn func(w io.Writer) error) error {
	if _, err := storage.CleanKey(path); err != nil {
		return curated.Errorf(InvalidPath, path)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := st.Writer(ctx, path)
	if err != nil {
		return curated.Errorf(IO, fmt.Sprintf("failed to open %s for writing", path), err)
	}

	if err := fn(w); err != nil {
		cancel()
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return curated.Errorf(IO, "failed to save data", err)
	}

	return nil
}

func open(ctx context.Context, st storage.Backend, path string) (io.ReadCloser, error) {
	if _, err := storage.CleanKey(path); err != nil {
		return nil, curated.Errorf(InvalidPath, path)
	}

	r, err := st.Reader(ctx, path)
	if err != nil {
		return nil, curated.Errorf(IO, fmt.Sprintf("failed to open %s for reading", path), err)
	}
	return r, nil
}
