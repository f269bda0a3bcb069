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

type correction struct {
	mapper    uint16
	submapper uint8
}

// corrections is keyed by game checksum
var corrections = map[uint32]correction{
	// mapper 210 games with headers that say mapper 19
	0x808606F0: {mapper: 210, submapper: 1}, // Famista '91
	0x81B7F1A8: {mapper: 210, submapper: 1}, // Heisei Tensai Bakabon
	0xC247CC80: {mapper: 210, submapper: 1}, // Family Circuit '91
	0x0C47946D: {mapper: 210, submapper: 1}, // Chibi Maruko-chan: Uki Uki Shopping

	0x1DC0F740: {mapper: 210, submapper: 2}, // Famista '92
	0x429103C9: {mapper: 210, submapper: 2}, // Famista '93
	0x46FD7843: {mapper: 210, submapper: 2}, // Famista '94
	0x47232739: {mapper: 210, submapper: 2}, // Splatterhouse: Wanpaku Graffiti
	0x6EC51DE5: {mapper: 210, submapper: 2}, // Top Striker
	0xADFFD64F: {mapper: 210, submapper: 2}, // Wagyan Land 2
	0xD323B806: {mapper: 210, submapper: 2}, // Wagyan Land 3

	// TODO: Dream Master is also a mapper 210 game but the checksum is not known
}

// ApplyCorrections replaces the mapper and submapper of the game if the
// checksum is in the corrections table. Applying the corrections more than
// once has no further effect.
func ApplyCorrections(g *Game) {
	if c, ok := corrections[g.Checksum]; ok {
		g.Mapper = c.mapper
		g.Submapper = c.submapper
	}
}
