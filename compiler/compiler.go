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

package compiler

import (
	"bytes"
	"context"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/jetsetilly/nesdb/archivefs"
	"github.com/jetsetilly/nesdb/cartridge"
	"github.com/jetsetilly/nesdb/cartridgeloader"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/database"
	"github.com/jetsetilly/nesdb/logger"
	"github.com/jetsetilly/nesdb/savefile"
	"github.com/jetsetilly/nesdb/storage"
)

// Sentinal errors.
const (
	ListFailed    = "compiler: failed to list directory: %v"
	SkippedFile   = "compiler: skipping %s: %v"
	Panicked      = "compiler: panicked while %s: %v"
	ListingFailed = "compiler: failed to write listing: %v"
	NothingToSave = "compiler: no output paths specified"
)

// Compiler identifies the cartridge images in a storage backend.
type Compiler struct {
	// storage containing the cartridge images
	ROMs storage.Backend

	// storage for the listing and the database. if nil then the ROMs storage
	// is used
	Output storage.Backend

	// paths in the Output storage. an empty path means that the file is not
	// written
	ListingPath  string
	DatabasePath string

	// parser for cartridge images. if nil then cartridge.Parse() is used
	Parser Parser

	// expander for archives. if nil then cartridgeloader.Expand() is used
	Expander Expander

	// corrections applied to every game. if nil then ApplyCorrections() is
	// used
	Corrector func(*Game)

	// extensions of the files to identify. compared case insensitively. if
	// empty then cartridgeloader.FileExtensions is used
	Extensions []string

	// look for cartridge images inside archives
	Archives bool
}

// Result of a compilation.
type Result struct {
	// games in checksum order with corrections applied. no two games have the
	// same checksum
	Games []Game

	// games removed because an earlier game has the same checksum
	Duplicates []Game

	// the database created from Games
	Database *database.Database

	// a report of every file that was skipped. nil if no files were skipped
	Skipped *multierror.Error
}

// NumSkipped returns the number of files that were skipped.
func (r *Result) NumSkipped() int {
	if r.Skipped == nil {
		return 0
	}
	return len(r.Skipped.Errors)
}

// Expander returns a loaded Loader for every cartridge image in an archive
// that has one of the extensions.
type Expander func(ctx context.Context, st storage.Backend, filename string, extensions ...string) ([]cartridgeloader.Loader, error)

func (c *Compiler) parser() Parser {
	if c.Parser == nil {
		return cartridge.Parse
	}
	return c.Parser
}

func (c *Compiler) output() storage.Backend {
	if c.Output == nil {
		return c.ROMs
	}
	return c.Output
}

func (c *Compiler) expander() Expander {
	if c.Expander == nil {
		return cartridgeloader.Expand
	}
	return c.Expander
}

func (c *Compiler) corrector() func(*Game) {
	if c.Corrector == nil {
		return ApplyCorrections
	}
	return c.Corrector
}

// extensions of cartridge images. used for files in the directory and for
// members of archives
func (c *Compiler) extensions() []string {
	if len(c.Extensions) == 0 {
		return cartridgeloader.FileExtensions[:]
	}
	return c.Extensions
}

func (c *Compiler) accept(name string) bool {
	ext := path.Ext(name)
	for _, e := range c.extensions() {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// safely runs f and converts any panic into an error
func safely(activity string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = curated.Errorf(Panicked, activity, r)
		}
	}()
	return f()
}

// Scan the directory and identify every cartridge image in it.
// Sub-directories are not scanned. Corrections are applied to each game.
//
// A failure to list the directory is returned as an error. Any other problem
// causes the file to be skipped. Skipped files are logged and added to the
// returned report.
func (c *Compiler) Scan(ctx context.Context, dir string) ([]Game, *multierror.Error, error) {
	entries, err := c.ROMs.List(ctx, dir)
	if err != nil {
		return nil, nil, curated.Errorf(ListFailed, err)
	}

	var games []Game
	var report *multierror.Error

	skip := func(name string, err error) {
		logger.Logf(logger.Allow, "compiler", "skipping %s: %v", name, err)
		report = multierror.Append(report, curated.Errorf(SkippedFile, name, err))
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return games, report, err
		}

		if e.IsDir {
			continue
		}

		var archive bool

		switch {
		case c.accept(e.Name):
		case c.Archives && archivefs.IsArchive(e.Name):
			archive = true
		default:
			continue
		}

		// every stage of loading the entry is contained so that a fault in
		// one archive or image does not end the scan
		var found []Game
		err := safely("loading", func() error {
			ldrs := []cartridgeloader.Loader{cartridgeloader.NewLoader(e.Key, "")}
			if archive {
				var err error
				ldrs, err = c.expander()(ctx, c.ROMs, e.Key, c.extensions()...)
				if err != nil {
					return err
				}
			}

			for i := range ldrs {
				g, err := c.identify(ctx, &ldrs[i])
				if err != nil {
					skip(ldrs[i].String(), err)
					continue
				}
				found = append(found, g)
			}
			return nil
		})
		if err != nil {
			skip(e.Key, err)
			continue
		}

		games = append(games, found...)
	}

	return games, report, nil
}

func (c *Compiler) identify(ctx context.Context, cl *cartridgeloader.Loader) (Game, error) {
	if err := cl.Load(ctx, c.ROMs); err != nil {
		return Game{}, err
	}

	var g Game

	err := safely("parsing", func() error {
		var err error
		g, err = Identify(cl.Name(), cl.Data, c.parser())
		return err
	})
	if err != nil {
		return Game{}, err
	}

	err = safely("applying corrections", func() error {
		c.corrector()(&g)
		return nil
	})
	if err != nil {
		return Game{}, err
	}

	return g, nil
}

// Collate sorts the games into checksum order, with games with the same
// checksum sorted by title, and removes all but the first of any games with
// the same checksum. Corrections are applied to every game. A game for which
// the corrections fail is skipped and added to the Skipped report.
//
// The games slice is sorted in place.
func (c *Compiler) Collate(games []Game) *Result {
	sortGames(games)

	res := &Result{
		Games: make([]Game, 0, len(games)),
	}

	for _, g := range games {
		err := safely("applying corrections", func() error {
			c.corrector()(&g)
			return nil
		})
		if err != nil {
			logger.Logf(logger.Allow, "compiler", "skipping %s: %v", g.Title, err)
			res.Skipped = multierror.Append(res.Skipped, curated.Errorf(SkippedFile, g.Title, err))
			continue
		}

		if n := len(res.Games); n > 0 && res.Games[n-1].Checksum == g.Checksum {
			logger.Logf(logger.Allow, "compiler", "duplicate checksum %08X: dropping %q (keeping %q)",
				g.Checksum, g.Title, res.Games[n-1].Title)
			res.Duplicates = append(res.Duplicates, g)
			continue
		}

		res.Games = append(res.Games, g)
	}

	info := make([]database.GameInfo, 0, len(res.Games))
	for _, g := range res.Games {
		info = append(info, g.Info())
	}
	res.Database, _ = database.New(info)

	return res
}

func sortGames(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Checksum != games[j].Checksum {
			return games[i].Checksum < games[j].Checksum
		}
		return games[i].Title < games[j].Title
	})
}

// Compile scans the directory, collates the games and writes the listing and
// the database to the Output storage.
func (c *Compiler) Compile(ctx context.Context, dir string) (*Result, error) {
	if c.ListingPath == "" && c.DatabasePath == "" {
		return nil, curated.Errorf(NothingToSave)
	}

	games, report, err := c.Scan(ctx, dir)
	if err != nil {
		return nil, err
	}

	res := c.Collate(games)
	if res.Skipped != nil {
		report = multierror.Append(report, res.Skipped.Errors...)
	}
	res.Skipped = report

	logger.Logf(logger.Allow, "compiler", "identified %d games (%d skipped, %d duplicates)",
		len(res.Games), res.NumSkipped(), len(res.Duplicates))

	if c.ListingPath != "" {
		var b bytes.Buffer
		if err := WriteListing(&b, res.Games); err != nil {
			return res, curated.Errorf(ListingFailed, err)
		}
		if err := savefile.SaveRaw(ctx, c.output(), c.ListingPath, b.Bytes()); err != nil {
			return res, curated.Errorf(ListingFailed, err)
		}
	}

	if c.DatabasePath != "" {
		if err := res.Database.Save(ctx, c.output(), c.DatabasePath); err != nil {
			return res, err
		}
	}

	return res, nil
}
