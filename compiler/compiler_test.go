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

package compiler_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/nesdb/cartridge"
	"github.com/jetsetilly/nesdb/cartridgeloader"
	"github.com/jetsetilly/nesdb/compiler"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/database"
	"github.com/jetsetilly/nesdb/savefile"
	"github.com/jetsetilly/nesdb/storage"
	"github.com/jetsetilly/nesdb/test"
)

// image creates an iNES image with one bank of PRG-ROM and, optionally, one
// bank of CHR-ROM. the seed changes the contents of the banks
func image(seed byte, mapper uint8, chr bool) ([]byte, []byte, []byte) {
	h := []byte{'N', 'E', 'S', 0x1a, 0x01, 0x00, mapper << 4, mapper & 0xf0, 0, 0, 0, 0, 0, 0, 0, 0}

	prg := make([]byte, cartridge.PrgROMBank)
	for i := range prg {
		prg[i] = byte(i) ^ seed
	}

	var c []byte
	if chr {
		h[5] = 0x01
		c = make([]byte, cartridge.ChrROMBank)
		for i := range c {
			c[i] = byte(i*3) + seed
		}
	}

	var b bytes.Buffer
	b.Write(h)
	b.Write(prg)
	b.Write(c)
	return b.Bytes(), prg, c
}

func TestIdentify(t *testing.T) {
	data, prg, chr := image(0x55, 4, true)

	g, err := compiler.Identify("Elite (Europe).nes", data, cartridge.Parse)
	test.DemandSuccess(t, err)

	// the checksum is of the PRG-ROM followed by the CHR-ROM
	test.ExpectEquality(t, g.Checksum, crc32.ChecksumIEEE(append(append([]byte{}, prg...), chr...)))
	test.ExpectEquality(t, g.Region, database.PAL)
	test.ExpectEquality(t, g.Mapper, uint16(4))
	test.ExpectEquality(t, g.ChrBanks, 1)
	test.ExpectEquality(t, g.PrgROMBanks, 1)
	test.ExpectEquality(t, g.PrgRAMBanks, 1)
	test.ExpectEquality(t, g.Title, "Elite (Europe)")

	// CHR-RAM games have a checksum of just the PRG-ROM
	data, prg, _ = image(0x55, 2, false)
	g, err = compiler.Identify("Elite.nes", data, cartridge.Parse)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, g.Checksum, crc32.ChecksumIEEE(prg))
	test.ExpectEquality(t, g.Region, database.NTSC)
	test.ExpectEquality(t, g.ChrBanks, 0)

	_, err = compiler.Identify("bad.nes", []byte("bad"), cartridge.Parse)
	test.ExpectFailure(t, err)
}

func TestRegion(t *testing.T) {
	test.ExpectEquality(t, compiler.RegionFromName("Elite (Europe).nes"), database.PAL)
	test.ExpectEquality(t, compiler.RegionFromName("Elite (PAL).nes"), database.PAL)
	test.ExpectEquality(t, compiler.RegionFromName("Elite (USA).nes"), database.NTSC)
	test.ExpectEquality(t, compiler.RegionFromName("Elite (europe).nes"), database.NTSC)
	test.ExpectEquality(t, compiler.RegionFromName("Elite (Europe)\xff.nes"), database.NTSC)
}

func TestTitle(t *testing.T) {
	test.ExpectEquality(t, compiler.TitleFromName("Elite (Europe).nes"), "Elite (Europe)")
	test.ExpectEquality(t, compiler.TitleFromName("Elite.NES"), "Elite.NES")
	test.ExpectEquality(t, compiler.TitleFromName("Elite\xff.nes"), "Elite\uFFFD")
}

func TestCorrections(t *testing.T) {
	g := compiler.Game{Checksum: 0x808606F0, Mapper: 19}
	compiler.ApplyCorrections(&g)
	test.ExpectEquality(t, g.Mapper, uint16(210))
	test.ExpectEquality(t, g.Submapper, uint8(1))

	// applying the corrections again makes no difference
	h := g
	compiler.ApplyCorrections(&h)
	test.ExpectEquality(t, h, g)

	g = compiler.Game{Checksum: 0xD323B806, Mapper: 19}
	compiler.ApplyCorrections(&g)
	test.ExpectEquality(t, g.Mapper, uint16(210))
	test.ExpectEquality(t, g.Submapper, uint8(2))

	g = compiler.Game{Checksum: 0x12345678, Mapper: 19, Submapper: 0}
	compiler.ApplyCorrections(&g)
	test.ExpectEquality(t, g.Mapper, uint16(19))
}

func TestCollate(t *testing.T) {
	games := []compiler.Game{
		{Checksum: 0x30000000, Title: "C"},
		{Checksum: 0x10000000, Title: "A"},
		{Checksum: 0x0C47946D, Mapper: 19, Title: "Chibi Maruko-chan"},
		{Checksum: 0x10000000, Title: "A duplicate"},
	}

	var c compiler.Compiler
	res := c.Collate(games)
	test.DemandEquality(t, len(res.Games), 3)
	test.ExpectEquality(t, res.Games[0].Checksum, uint32(0x0C47946D))
	test.ExpectEquality(t, res.Games[0].Mapper, uint16(210))
	test.ExpectEquality(t, res.Games[1].Title, "A")
	test.ExpectEquality(t, res.Games[2].Title, "C")

	test.DemandEquality(t, len(res.Duplicates), 1)
	test.ExpectEquality(t, res.Duplicates[0].Title, "A duplicate")

	test.ExpectEquality(t, res.Database.NumEntries(), 3)
	info, ok := res.Database.Lookup(0x0C47946D)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, info.Submapper, uint8(1))
}

func TestCollateCorrectionPanic(t *testing.T) {
	games := []compiler.Game{
		{Checksum: 0x30000000, Title: "C"},
		{Checksum: 0x10000000, Title: "A"},
		{Checksum: 0x20000000, Title: "B"},
	}

	c := compiler.Compiler{
		Corrector: func(g *compiler.Game) {
			if g.Title == "B" {
				var m map[string]int
				m["B"]++
			}
			g.Submapper = 7
		},
	}

	res := c.Collate(games)
	test.DemandEquality(t, len(res.Games), 2)
	test.ExpectEquality(t, res.Games[0].Title, "A")
	test.ExpectEquality(t, res.Games[0].Submapper, uint8(7))
	test.ExpectEquality(t, res.Games[1].Title, "C")
	test.ExpectEquality(t, res.Database.NumEntries(), 2)

	test.ExpectEquality(t, res.NumSkipped(), 1)
	test.ExpectSuccess(t, curated.Is(res.Skipped.Errors[0], compiler.SkippedFile))
	test.ExpectSuccess(t, curated.Has(res.Skipped.Errors[0], compiler.Panicked))
}

func TestListing(t *testing.T) {
	g := compiler.Game{
		Checksum:    0x0000ABCD,
		Region:      database.PAL,
		Mapper:      1,
		ChrBanks:    2,
		PrgROMBanks: 8,
		PrgRAMBanks: 1,
		Battery:     true,
		Mirroring:   cartridge.Vertical,
		Title:       `Say "Hello" (Europe)`,
	}

	w := &test.CompareWriter{}
	test.DemandSuccess(t, compiler.WriteListing(w, []compiler.Game{g}))
	test.ExpectEquality(t, w.String(), compiler.ListingHeader+"\n"+
		`0000ABCD, PAL, 1, 0, 2, 8, 1, true, Vertical, "Say \"Hello\" (Europe)"`+"\n")
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	a, _, _ := image(0x01, 0, true)
	b, _, _ := image(0x02, 1, false)
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms/Alpha (Europe).nes", a))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms/Beta.NES", b))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms/Broken.nes", []byte("not a cartridge")))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms/readme.txt", []byte("readme")))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms/sub/Gamma.nes", a))

	c := compiler.Compiler{ROMs: mem}
	games, report, err := c.Scan(ctx, "roms")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(games), 2)
	test.ExpectEquality(t, games[0].Title, "Alpha (Europe)")
	test.ExpectEquality(t, games[0].Region, database.PAL)
	test.ExpectEquality(t, games[1].Title, "Beta.NES")

	if report == nil {
		t.Fatalf("expected a report of skipped files")
	}
	test.DemandEquality(t, len(report.Errors), 1)
	test.ExpectSuccess(t, curated.Is(report.Errors[0], compiler.SkippedFile))
	test.ExpectSuccess(t, strings.Contains(report.Error(), "roms/Broken.nes"))

	// only the listed extensions are accepted
	c.Extensions = []string{".txt"}
	games, report, err = c.Scan(ctx, "roms")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(games), 0)
	test.ExpectEquality(t, len(report.Errors), 1)
}

func TestScanPanic(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	for _, n := range []string{"a.nes", "panic.nes", "nil.nes", "z.nes"} {
		d, _, _ := image(byte(len(n)), 0, true)
		test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, n, d))
	}

	c := compiler.Compiler{
		ROMs: mem,
		Parser: func(name string, data []byte) (*cartridge.Cartridge, error) {
			switch name {
			case "panic.nes":
				panic("unexpected mapper")
			case "nil.nes":
				return nil, nil
			}
			return cartridge.Parse(name, data)
		},
	}

	games, report, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(games), 2)
	test.DemandEquality(t, len(report.Errors), 2)
	for _, err := range report.Errors {
		test.ExpectSuccess(t, curated.Has(err, compiler.Panicked))
	}
}

func TestScanArchive(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	data, err := os.ReadFile(filepath.Join("testdata", "roms.7z"))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms.7z", data))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "broken.zip", []byte("not a zip file")))

	c := compiler.Compiler{ROMs: mem}
	games, _, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(games), 0)

	c.Archives = true
	games, report, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(games), 1)
	test.ExpectEquality(t, games[0].String(), `D08CACFC, PAL, 0, 0, 1, 1, 1, false, Vertical, "Test Game (Europe)"`)
	test.DemandEquality(t, len(report.Errors), 1)
	test.ExpectSuccess(t, strings.Contains(report.Error(), "broken.zip"))
}

func TestScanArchivePanic(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	a, _, _ := image(0x01, 0, true)
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "Alpha.nes", a))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "bad.7z", []byte("7z")))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "Zulu.nes", a))

	c := compiler.Compiler{
		ROMs:     mem,
		Archives: true,
		Expander: func(ctx context.Context, st storage.Backend, filename string, extensions ...string) ([]cartridgeloader.Loader, error) {
			panic("index out of range in archive header")
		},
	}

	games, report, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(games), 2)
	test.DemandEquality(t, len(report.Errors), 1)
	test.ExpectSuccess(t, curated.Has(report.Errors[0], compiler.Panicked))
	test.ExpectSuccess(t, strings.Contains(report.Error(), "bad.7z"))
}

func TestScanCorrectionPanic(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	a, _, _ := image(0x01, 0, true)
	b, _, _ := image(0x02, 0, true)
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "Alpha.nes", a))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "Bravo.nes", b))

	c := compiler.Compiler{
		ROMs: mem,
		Corrector: func(g *compiler.Game) {
			if g.Title == "Bravo" {
				panic("bad correction")
			}
		},
	}

	games, report, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(games), 1)
	test.ExpectEquality(t, games[0].Title, "Alpha")
	test.DemandEquality(t, len(report.Errors), 1)
	test.ExpectSuccess(t, curated.Has(report.Errors[0], compiler.Panicked))
}

func TestScanArchiveExtensions(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	defer mem.Close()

	a, _, _ := image(0x01, 0, true)
	b, _, _ := image(0x02, 0, true)
	d, _, _ := image(0x03, 0, true)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for n, data := range map[string][]byte{"Kid.unf": b, "Other.nes": d} {
		w, err := zw.Create(n)
		test.DemandSuccess(t, err)
		_, err = w.Write(data)
		test.DemandSuccess(t, err)
	}
	test.DemandSuccess(t, zw.Close())

	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "loose.UNF", a))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "loose.nes", d))
	test.DemandSuccess(t, savefile.SaveRaw(ctx, mem, "roms.zip", buf.Bytes()))

	// the same extensions apply to files in the directory and to members
	// of archives
	c := compiler.Compiler{
		ROMs:       mem,
		Archives:   true,
		Extensions: []string{".unf"},
	}

	games, report, err := c.Scan(ctx, "")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, report.ErrorOrNil())
	test.DemandEquality(t, len(games), 2)
	test.ExpectEquality(t, games[0].Title, "loose.UNF")
	test.ExpectEquality(t, games[1].Title, "Kid.unf")
}

func TestScanMissingDirectory(t *testing.T) {
	dir, err := storage.OpenDir(t.TempDir())
	test.DemandSuccess(t, err)
	defer dir.Close()

	c := compiler.Compiler{ROMs: dir}
	_, _, err = c.Scan(context.Background(), "../outside")
	test.ExpectSuccess(t, curated.Is(err, compiler.ListFailed))
}

func TestCompile(t *testing.T) {
	ctx := context.Background()

	roms := storage.NewMemory()
	defer roms.Close()

	out, err := storage.OpenDir(t.TempDir())
	test.DemandSuccess(t, err)
	defer out.Close()

	var expected []uint32
	for i, n := range []string{"Zulu.nes", "Yankee (PAL).nes", "X-Ray.nes", "Whiskey.nes"} {
		d, prg, chr := image(byte(i*17), uint8(i), true)
		test.DemandSuccess(t, savefile.SaveRaw(ctx, roms, n, d))
		expected = append(expected, crc32.ChecksumIEEE(append(append([]byte{}, prg...), chr...)))
	}

	// a copy of a game under another name
	d, _, _ := image(0, 0, true)
	test.DemandSuccess(t, savefile.SaveRaw(ctx, roms, "Zulu (copy).nes", d))

	c := compiler.Compiler{
		ROMs:         roms,
		Output:       out,
		ListingPath:  "game_database.txt",
		DatabasePath: "game_db.dat",
	}
	res, err := c.Compile(ctx, "")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, res.NumSkipped(), 0)
	test.ExpectEquality(t, len(res.Games), 4)
	test.DemandEquality(t, len(res.Duplicates), 1)
	test.ExpectEquality(t, res.Duplicates[0].Title, "Zulu (copy)")

	// the listing is in checksum order
	listing, err := savefile.LoadRaw(ctx, out, "game_database.txt")
	test.DemandSuccess(t, err)
	lines := strings.Split(strings.TrimSuffix(string(listing), "\n"), "\n")
	test.DemandEquality(t, len(lines), 5)
	test.ExpectEquality(t, lines[0], compiler.ListingHeader)
	for i := 2; i < len(lines); i++ {
		test.ExpectSuccess(t, lines[i-1][:8] < lines[i][:8], lines[i-1], lines[i])
	}

	// every game is in the database
	db, err := database.Load(ctx, out, "game_db.dat")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, db.NumEntries(), 4)
	for _, e := range expected {
		_, ok := db.Lookup(e)
		test.ExpectSuccess(t, ok, fmt.Sprintf("%08X", e))
	}

	g, ok := db.Lookup(expected[1])
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, g.Title, "Yankee (PAL)")
	test.ExpectEquality(t, g.Region, database.PAL)
	test.ExpectEquality(t, g.Mapper, uint16(1))

	c.ListingPath = ""
	c.DatabasePath = ""
	_, err = c.Compile(ctx, "")
	test.ExpectSuccess(t, curated.Is(err, compiler.NothingToSave))
}
