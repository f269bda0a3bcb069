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

package archivefs_test

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/nesdb/archivefs"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/test"
)

func createZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for name, contents := range files {
		w, err := zw.Create(name)
		test.DemandSuccess(t, err)
		_, err = w.Write([]byte(contents))
		test.DemandSuccess(t, err)
	}
	test.DemandSuccess(t, zw.Close())
	return b.Bytes()
}

func TestZip(t *testing.T) {
	data := createZip(t, map[string]string{
		"Zelda (Europe).nes":     "zelda",
		"archivedir/":            "",
		"archivedir/Metroid.NES": "metroid",
		"archivedir/readme.txt":  "readme",
		"archivedir/sub/Kid.nes": "kid",
		"escape/Elite.nes":       "elite",
	})

	arc, err := archivefs.Open("testarchive.zip", data)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, arc.String(), "testarchive.zip")

	entries := arc.List()
	test.ExpectEquality(t, fmt.Sprintf("%s", entries), "[archivedir Metroid.NES readme.txt Kid.nes Elite.nes Zelda (Europe).nes]")
	test.ExpectSuccess(t, entries[0].IsDir)

	roms := arc.Find(".nes")
	test.DemandEquality(t, len(roms), 4)
	test.ExpectEquality(t, roms[0].Path, "archivedir/Metroid.NES")
	test.ExpectEquality(t, roms[1].Path, "archivedir/sub/Kid.nes")
	test.ExpectEquality(t, roms[2].Path, "escape/Elite.nes")
	test.ExpectEquality(t, roms[3].Path, "Zelda (Europe).nes")

	d, err := arc.Read("archivedir/Metroid.NES")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), "metroid")

	_, err = arc.Read("archivedir/missing.nes")
	test.ExpectSuccess(t, curated.Is(err, archivefs.NoSuchMember))

	// directories can't be read
	_, err = arc.Read("archivedir")
	test.ExpectSuccess(t, curated.Is(err, archivefs.NoSuchMember))
}

func TestSevenZip(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "roms.7z"))
	test.DemandSuccess(t, err)

	arc, err := archivefs.Open("roms.7z", data)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, fmt.Sprintf("%s", arc.List()), "[readme.txt Test Game (Europe).nes]")

	roms := arc.Find(".nes")
	test.DemandEquality(t, len(roms), 1)
	test.ExpectEquality(t, roms[0].Size, int64(24592))

	d, err := arc.Read(roms[0].Path)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(d), 24592)
	test.ExpectEquality(t, string(d[:4]), "NES\x1a")

	d, err = arc.Read("readme.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(d), "test archive\n")
}

func TestInvalidArchive(t *testing.T) {
	_, err := archivefs.Open("roms.rar", []byte{0x00})
	test.ExpectSuccess(t, curated.Is(err, archivefs.UnsupportedArchive))

	_, err = archivefs.Open("roms.zip", []byte("not a zip file"))
	test.ExpectSuccess(t, curated.Is(err, archivefs.ArchiveError))

	_, err = archivefs.Open("roms.7z", []byte("not a 7z file"))
	test.ExpectSuccess(t, curated.Is(err, archivefs.ArchiveError))
}

func TestExtensions(t *testing.T) {
	test.ExpectSuccess(t, archivefs.IsArchive("roms.zip"))
	test.ExpectSuccess(t, archivefs.IsArchive("roms/ROMS.ZIP"))
	test.ExpectSuccess(t, archivefs.IsArchive("roms.7z"))
	test.ExpectFailure(t, archivefs.IsArchive("roms.nes"))
	test.ExpectFailure(t, archivefs.IsArchive("zip"))
}

func TestSort(t *testing.T) {
	entries := []archivefs.Entry{
		{Name: "b", Path: "b"},
		{Name: "dir", Path: "dir", IsDir: true},
		{Name: "A", Path: "A"},
		{Name: "Another", Path: "Another", IsDir: true},
	}
	archivefs.Sort(entries)
	test.ExpectEquality(t, fmt.Sprintf("%s", entries), "[Another dir A b]")
}
