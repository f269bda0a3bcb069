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

package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/jetsetilly/nesdb/curated"
)

// Sentinal error patterns.
const (
	InvalidKey   = "storage: invalid key (%s)"
	NotDirectory = "storage: not a directory (%s)"
	Failed       = "storage: %s: %v"
)

// Entry is a single item found by Backend.List().
type Entry struct {
	// the last element of the key
	Name string

	// the full key, suitable for passing to Reader()
	Key string

	Size  int64
	IsDir bool
}

func (e Entry) String() string {
	return e.Name
}

// Backend is the interface for a byte store. Each Writer() and Reader() call
// opens a single handle which should be closed by the caller. For writers,
// the data is not committed until Close() returns without error.
type Backend interface {
	Writer(ctx context.Context, key string) (io.WriteCloser, error)
	Reader(ctx context.Context, key string) (io.ReadCloser, error)

	// List the entries immediately under dir. An empty dir is the root of the
	// store. Entries are sorted by key.
	List(ctx context.Context, dir string) ([]Entry, error)

	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error

	// ClearDir deletes every item with a key under dir.
	ClearDir(ctx context.Context, dir string) error
}

// CleanKey normalises a key. Operating system separators are converted to
// forward slashes and redundant elements are removed. An empty key, or a key
// that refers to a location outside of the store, is an error.
func CleanKey(key string) (string, error) {
	k := path.Clean(strings.TrimLeft(filepath.ToSlash(key), "/"))
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", curated.Errorf(InvalidKey, key)
	}
	return k, nil
}

// cleanDir is the same as CleanKey() except that the empty key refers to the
// root of the store. the result is suitable for use as a listing prefix
func cleanDir(dir string) (string, error) {
	d := path.Clean(strings.TrimLeft(filepath.ToSlash(dir), "/"))
	if d == "." {
		return "", nil
	}
	if d == ".." || strings.HasPrefix(d, "../") {
		return "", curated.Errorf(InvalidKey, dir)
	}
	return d + "/", nil
}

// IsNotExist returns true if the error indicates that a key does not exist in
// the store.
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	return gcerrors.Code(err) == gcerrors.NotFound
}

// Bucket implements the Backend interface.
type Bucket struct {
	bkt *blob.Bucket
}

// NewBucket creates a Bucket from an already opened blob.Bucket.
func NewBucket(bkt *blob.Bucket) *Bucket {
	return &Bucket{bkt: bkt}
}

// OpenDir opens a Bucket over a directory in the local filesystem. The
// directory is created if it does not exist.
func OpenDir(dir string) (*Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, curated.Errorf(Failed, "open dir", err)
	}
	return openDir(dir)
}

// OpenExistingDir is the same as OpenDir() except that the directory must
// already exist. Used for locations that are only read from.
func OpenExistingDir(dir string) (*Bucket, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, curated.Errorf(Failed, "open dir", err)
	}
	if !fi.IsDir() {
		return nil, curated.Errorf(NotDirectory, dir)
	}
	return openDir(dir)
}

func openDir(dir string) (*Bucket, error) {
	// temporary files are kept in the bucket directory so that the final
	// rename never crosses a filesystem boundary
	bkt, err := fileblob.OpenBucket(dir, &fileblob.Options{NoTempDir: true})
	if err != nil {
		return nil, curated.Errorf(Failed, "open dir", err)
	}
	return NewBucket(bkt), nil
}

// NewMemory creates an empty Bucket held in memory.
func NewMemory() *Bucket {
	return NewBucket(memblob.OpenBucket(nil))
}

// Open a Bucket by URL. The file:// and mem:// schemes are always available.
func Open(ctx context.Context, url string) (*Bucket, error) {
	bkt, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, curated.Errorf(Failed, "open", err)
	}
	return NewBucket(bkt), nil
}

// Close releases the resources held by the Bucket.
func (b *Bucket) Close() error {
	return b.bkt.Close()
}

// Writer implements the Backend interface.
func (b *Bucket) Writer(ctx context.Context, key string) (io.WriteCloser, error) {
	k, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	w, err := b.bkt.NewWriter(ctx, k, nil)
	if err != nil {
		return nil, curated.Errorf(Failed, "writer", err)
	}
	return w, nil
}

// Reader implements the Backend interface.
func (b *Bucket) Reader(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	r, err := b.bkt.NewReader(ctx, k, nil)
	if err != nil {
		return nil, curated.Errorf(Failed, "reader", err)
	}
	return r, nil
}

// List implements the Backend interface.
func (b *Bucket) List(ctx context.Context, dir string) ([]Entry, error) {
	prefix, err := cleanDir(dir)
	if err != nil {
		return nil, err
	}

	var ent []Entry

	it := b.bkt.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return ent, curated.Errorf(Failed, "list", err)
		}
		ent = append(ent, Entry{
			Name:  path.Base(strings.TrimSuffix(obj.Key, "/")),
			Key:   strings.TrimSuffix(obj.Key, "/"),
			Size:  obj.Size,
			IsDir: obj.IsDir,
		})
	}

	return ent, nil
}

// Exists implements the Backend interface.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	k, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	ok, err := b.bkt.Exists(ctx, k)
	if err != nil {
		return false, curated.Errorf(Failed, "exists", err)
	}
	return ok, nil
}

// Delete implements the Backend interface.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	k, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := b.bkt.Delete(ctx, k); err != nil {
		return curated.Errorf(Failed, "delete", err)
	}
	return nil
}

// ClearDir implements the Backend interface.
func (b *Bucket) ClearDir(ctx context.Context, dir string) error {
	prefix, err := cleanDir(dir)
	if err != nil {
		return err
	}

	// collect keys before deleting so that the listing is not disturbed
	var keys []string
	it := b.bkt.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return curated.Errorf(Failed, "clear dir", err)
		}
		keys = append(keys, obj.Key)
	}

	for _, k := range keys {
		if err := b.bkt.Delete(ctx, k); err != nil {
			return curated.Errorf(Failed, "clear dir", err)
		}
	}

	return nil
}
