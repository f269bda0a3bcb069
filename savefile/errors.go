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

// Error patterns for the errors returned by the savefile package.
const (
	InvalidHeader         = "savefile: invalid header: %v"
	HeaderWriteFailed     = "savefile: failed to write header: %v"
	EncodingFailed        = "savefile: failed to encode data: %v"
	DecodingFailed        = "savefile: failed to decode data: %v"
	SerialisationFailed   = "savefile: failed to serialise data: %v"
	DeserialisationFailed = "savefile: failed to deserialise data: %v"
	InvalidPath           = "savefile: invalid path: %v"

	// the first value is a description of the operation that failed. the
	// second value is the underlying error
	IO = "savefile: %s: %v"

	Custom = "%s"
)
