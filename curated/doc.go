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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. Packages export the patterns they
// use so that callers can test for a kind of error with the Is() function:
//
//	err := savefile.Load(ctx, st, "game_db.dat", &db)
//	if curated.Is(err, savefile.InvalidHeader) {
//		fmt.Println("not a database file")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf("crc: value = %08x", 0x1234)
//	f := curated.Errorf("compiler: %v", e)
//
//	curated.Has(f, "crc: value = %08x") // true
//	curated.Is(f, "crc: value = %08x")  // false
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. This means that a package can prefix its errors
// with its own name without worrying about whether the error it is wrapping
// already has that prefix.
//
//	a := curated.Errorf("savefile: %v", "no such file")
//	b := curated.Errorf("savefile: %v", a)
//
//	fmt.Println(b) // savefile: no such file
//
// Any plain error among the values of a curated error is reachable with the
// errors.Is() and errors.As() functions of the standard library.
package curated
