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

package database

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/savefile"
	"github.com/jetsetilly/nesdb/serialise"
	"github.com/jetsetilly/nesdb/storage"
)

// Sentinal errors.
const (
	UnsortedEntries = "database: entries not in checksum order (%08X follows %08X)"
	DuplicateEntry  = "database: duplicate checksum (%08X)"
)

// Database is a list of GameInfo entries sorted by checksum.
type Database struct {
	entries []GameInfo
}

// New creates a database from the list of entries. The entries are sorted by
// checksum, with entries with the same checksum sorted by title. Only the
// first of any entries with the same checksum is kept. The entries that have
// been dropped are returned alongside the database.
//
// The entries argument is not modified.
func New(entries []GameInfo) (*Database, []GameInfo) {
	srt := make([]GameInfo, len(entries))
	copy(srt, entries)
	SortEntries(srt)

	db := &Database{
		entries: make([]GameInfo, 0, len(srt)),
	}

	var dups []GameInfo
	for _, g := range srt {
		if n := len(db.entries); n > 0 && db.entries[n-1].Checksum == g.Checksum {
			dups = append(dups, g)
			continue
		}
		db.entries = append(db.entries, g)
	}

	return db, dups
}

// SortEntries sorts entries into checksum order. Entries with the same
// checksum are sorted by title.
func SortEntries(entries []GameInfo) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Checksum != entries[j].Checksum {
			return entries[i].Checksum < entries[j].Checksum
		}
		return entries[i].Title < entries[j].Title
	})
}

// NumEntries returns the number of entries in the database.
func (db *Database) NumEntries() int {
	return len(db.entries)
}

// Entries returns a copy of the entries in checksum order.
func (db *Database) Entries() []GameInfo {
	c := make([]GameInfo, len(db.entries))
	copy(c, db.entries)
	return c
}

// Lookup the entry with the checksum.
func (db *Database) Lookup(checksum uint32) (GameInfo, bool) {
	i := sort.Search(len(db.entries), func(i int) bool {
		return db.entries[i].Checksum >= checksum
	})
	if i < len(db.entries) && db.entries[i].Checksum == checksum {
		return db.entries[i], true
	}
	return GameInfo{}, false
}

// SelectAll entries in the database in checksum order. onSelect can be nil.
//
// The select process stops at the first error returned by onSelect(). The
// error is returned by SelectAll().
func (db *Database) SelectAll(onSelect func(GameInfo) error) error {
	if onSelect == nil {
		return nil
	}

	for _, g := range db.entries {
		if err := onSelect(g); err != nil {
			return err
		}
	}

	return nil
}

// List the entries in checksum order.
func (db *Database) List(output io.Writer) error {
	if db.NumEntries() == 0 {
		if _, err := output.Write([]byte("database is empty\n")); err != nil {
			return err
		}
		return nil
	}

	err := db.SelectAll(func(g GameInfo) error {
		_, err := output.Write([]byte(fmt.Sprintf("%s\n", g)))
		return err
	})
	if err != nil {
		return err
	}

	if _, err := output.Write([]byte(fmt.Sprintf("Total: %d\n", db.NumEntries()))); err != nil {
		return err
	}

	return nil
}

// EntriesField is the field number of the list of entries in the serialised
// form of the database.
const EntriesField serialise.Field = 1

// Serialise implements the serialise.Serialiser interface.
func (db *Database) Serialise(enc *serialise.Encoder) error {
	for i := range db.entries {
		if err := enc.Message(EntriesField, &db.entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// Deserialise implements the serialise.Deserialiser interface. Entries that
// are not in strict checksum order are rejected.
func (db *Database) Deserialise(dec *serialise.Decoder) error {
	var entries []GameInfo

	for dec.Next() {
		if dec.Field() != EntriesField {
			dec.Skip()
			continue
		}

		var g GameInfo
		dec.Message(&g)
		if dec.Err() != nil {
			break
		}

		if n := len(entries); n > 0 {
			prev := entries[n-1].Checksum
			switch {
			case g.Checksum == prev:
				dec.Fail(curated.Errorf(DuplicateEntry, prev))
			case g.Checksum < prev:
				dec.Fail(curated.Errorf(UnsortedEntries, g.Checksum, prev))
			}
		}

		entries = append(entries, g)
	}

	if err := dec.Err(); err != nil {
		return err
	}

	db.entries = entries
	return nil
}

// Save the database to path in the storage backend.
func (db *Database) Save(ctx context.Context, st storage.Backend, path string) error {
	return savefile.Save(ctx, st, path, db)
}

// SaveOut returns the saved form of the database.
func (db *Database) SaveOut() ([]byte, error) {
	return savefile.SaveOut(db)
}

// Load the database at path in the storage backend.
func Load(ctx context.Context, st storage.Backend, path string) (*Database, error) {
	db := &Database{}
	if err := savefile.Load(ctx, st, path, db); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadBytes loads a database from data created by SaveOut().
func LoadBytes(data []byte) (*Database, error) {
	db := &Database{}
	if err := savefile.LoadBytes(data, db); err != nil {
		return nil, err
	}
	return db, nil
}
