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

package cartridgeloader

import (
	"context"
	"crypto/sha1"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/nesdb/archivefs"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/savefile"
	"github.com/jetsetilly/nesdb/storage"
)

// Sentinal errors.
const (
	LoaderError    = "cartridgeloader: %v"
	UnexpectedHash = "cartridgeloader: %s: unexpected hash value"
)

// Loader is used to specify the cartridge image to load.
type Loader struct {
	// filename of the cartridge image, or of the archive containing it, in
	// the storage backend
	Filename string

	// path of the cartridge image inside the archive. empty if Filename does
	// not refer to an archive
	Member string

	// expected hash of the loaded cartridge. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the SHA1 hash of the loaded data
	Hash string

	// copy of the loaded data. subsequent calls to Load() will not reload the
	// data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
// The member argument should be empty unless the filename refers to an
// archive.
func NewLoader(filename string, member string) Loader {
	return Loader{
		Filename: filepath.ToSlash(filename),
		Member:   member,
	}
}

func (cl Loader) String() string {
	if cl.Member != "" {
		return fmt.Sprintf("%s:%s", cl.Filename, cl.Member)
	}
	return cl.Filename
}

// Name returns the file name of the cartridge image. For an image in an
// archive this is the last element of the member path.
func (cl Loader) Name() string {
	if cl.Member != "" {
		return path.Base(cl.Member)
	}
	return savefile.Filename(cl.Filename)
}

// ShortName returns a shortened version of the cartridge name.
func (cl Loader) ShortName() string {
	n := cl.Name()
	return strings.TrimSuffix(n, path.Ext(n))
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the cartridge data from the storage backend. If the Filename refers to
// an archive then the Member is extracted from it.
func (cl *Loader) Load(ctx context.Context, st storage.Backend) error {
	if len(cl.Data) > 0 {
		return nil
	}

	data, err := savefile.LoadRaw(ctx, st, cl.Filename)
	if err != nil {
		return curated.Errorf(LoaderError, err)
	}

	if archivefs.IsArchive(cl.Filename) {
		if cl.Member == "" {
			return curated.Errorf(LoaderError, fmt.Sprintf("%s: archive member not specified", cl.Filename))
		}

		arc, err := archivefs.Open(cl.Filename, data)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}

		data, err = arc.Read(cl.Member)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}
	}

	return cl.setData(data)
}

func (cl *Loader) setData(data []byte) error {
	hash := fmt.Sprintf("%x", sha1.Sum(data))

	// check for hash consistency
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(UnexpectedHash, cl)
	}

	cl.Hash = hash
	cl.Data = data

	return nil
}

// Expand returns a Loader for every cartridge image in the archive at filename.
// The returned loaders have already been loaded. Members are cartridge images
// if they have one of the extensions, compared case insensitively. If no
// extensions are given then FileExtensions is used.
//
// If filename is not an archive then a single, unloaded, Loader is returned.
func Expand(ctx context.Context, st storage.Backend, filename string, extensions ...string) ([]Loader, error) {
	if !archivefs.IsArchive(filename) {
		return []Loader{NewLoader(filename, "")}, nil
	}

	data, err := savefile.LoadRaw(ctx, st, filename)
	if err != nil {
		return nil, curated.Errorf(LoaderError, err)
	}

	arc, err := archivefs.Open(filename, data)
	if err != nil {
		return nil, curated.Errorf(LoaderError, err)
	}

	if len(extensions) == 0 {
		extensions = FileExtensions[:]
	}

	var ldrs []Loader
	for _, e := range arc.Find(extensions...) {
		d, err := arc.Read(e.Path)
		if err != nil {
			return ldrs, curated.Errorf(LoaderError, err)
		}
		cl := NewLoader(filename, e.Path)
		if err := cl.setData(d); err != nil {
			return ldrs, err
		}
		ldrs = append(ldrs, cl)
	}

	return ldrs, nil
}
