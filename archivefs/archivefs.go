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
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"

	"github.com/jetsetilly/nesdb/curated"
)

// Sentinal errors.
const (
	UnsupportedArchive = "archivefs: unsupported archive type (%s)"
	ArchiveError       = "archivefs: %s: %v"
	NoSuchMember       = "archivefs: %s: no such member (%s)"
)

// Entry is a single member of an archive.
type Entry struct {
	// the last element of the member's path
	Name string

	// the full path of the member within the archive
	Path string

	Size  int64
	IsDir bool
}

func (e Entry) String() string {
	return e.Name
}

// member abstracts over the file types of the supported archive packages
type member struct {
	Entry
	open func() (io.ReadCloser, error)
}

// Archive is an archive that has been read into memory.
type Archive struct {
	name    string
	members []member
}

// Open the archive contained in data. The archive type is decided by the
// extension of name.
func Open(name string, data []byte) (*Archive, error) {
	arc := &Archive{name: name}

	r := bytes.NewReader(data)

	switch strings.ToUpper(path.Ext(name)) {
	case ".ZIP":
		zr, err := zip.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, curated.Errorf(ArchiveError, name, err)
		}
		for _, f := range zr.File {
			arc.add(f.Name, f.FileInfo().Size(), f.FileInfo().IsDir(), f.Open)
		}

	case ".7Z":
		sr, err := sevenzip.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, curated.Errorf(ArchiveError, name, err)
		}
		for _, f := range sr.File {
			arc.add(f.Name, f.FileInfo().Size(), f.FileInfo().IsDir(), f.Open)
		}

	default:
		return nil, curated.Errorf(UnsupportedArchive, path.Base(name))
	}

	return arc, nil
}

func (arc *Archive) add(name string, size int64, isDir bool, open func() (io.ReadCloser, error)) {
	p := strings.TrimSuffix(path.Clean("/"+strings.ReplaceAll(name, `\`, "/")), "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return
	}
	arc.members = append(arc.members, member{
		Entry: Entry{
			Name:  path.Base(p),
			Path:  p,
			Size:  size,
			IsDir: isDir,
		},
		open: open,
	})
}

func (arc *Archive) String() string {
	return arc.name
}

// List returns every member of the archive, including those in
// sub-directories, in the order defined by Sort().
func (arc *Archive) List() []Entry {
	ent := make([]Entry, 0, len(arc.members))
	for _, m := range arc.members {
		ent = append(ent, m.Entry)
	}
	Sort(ent)
	return ent
}

// Find returns the files in the archive that have one of the listed
// extensions. Extensions are compared case insensitively.
func (arc *Archive) Find(extensions ...string) []Entry {
	var ent []Entry
	for _, m := range arc.members {
		if m.IsDir {
			continue
		}
		ext := path.Ext(m.Name)
		for _, e := range extensions {
			if strings.EqualFold(ext, e) {
				ent = append(ent, m.Entry)
				break
			}
		}
	}
	Sort(ent)
	return ent
}

// Read the contents of the member at path.
func (arc *Archive) Read(pth string) ([]byte, error) {
	for _, m := range arc.members {
		if m.Path != pth || m.IsDir {
			continue
		}

		r, err := m.open()
		if err != nil {
			return nil, curated.Errorf(ArchiveError, arc.name, err)
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, curated.Errorf(ArchiveError, arc.name, fmt.Errorf("%s: %w", pth, err))
		}
		return data, nil
	}

	return nil, curated.Errorf(NoSuchMember, arc.name, pth)
}
