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

package prefs

import (
	"fmt"
	"sort"
	"strings"
)

// CommandLine is a group of preference values taken from the command line.
type CommandLine map[string]string

// ParseCommandLine parses a string of "key::value" pairs separated by
// semicolons. Pairs without the "::" separator are ignored.
func ParseCommandLine(prefs string) CommandLine {
	cl := make(CommandLine)

	for _, p := range strings.Split(prefs, ";") {
		kv := strings.Split(p, "::")
		if len(kv) == 2 {
			cl[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return cl
}

// String returns the group in the same format as accepted by
// ParseCommandLine(). Keys are sorted.
func (cl CommandLine) String() string {
	keys := make([]string, 0, len(cl))
	for key := range cl {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, key := range keys {
		s.WriteString(fmt.Sprintf("%s::%s; ", key, cl[key]))
	}

	return strings.TrimSuffix(s.String(), "; ")
}
