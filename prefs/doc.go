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

// Package prefs holds the preferences for nesdb.
//
// Preferences come from, in order of precedence: the command line, the
// environment, the preferences file and finally the built-in defaults.
// Environment variables are the preference key in upper case, with dots
// replaced by underscores and with the NESDB_ prefix. For example:
//
//	NESDB_ROMS_DIR=~/roms
//
// The preferences file is YAML. If no file is specified then the file
// nesdb.yaml in the resource path is used, if it exists (see the paths
// package).
//
// Values can also be given on the command line as a single string of
// key::value pairs, separated by semicolons:
//
//	roms.archives::true; output.dir::build
package prefs
