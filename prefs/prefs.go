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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/logger"
	"github.com/jetsetilly/nesdb/paths"
)

// List of preference keys.
const (
	ROMsDir        = "roms.dir"
	ROMsExtensions = "roms.extensions"
	ROMsArchives   = "roms.archives"
	OutputDir      = "output.dir"
	OutputDatabase = "output.database"
	OutputListing  = "output.listing"
	LogEcho        = "log.echo"
	LogFile        = "log.file"
)

// Sentinal errors.
const (
	LoadFailed = "prefs: failed to load preferences: %v"
	SaveFailed = "prefs: failed to save preferences: %v"
	UnknownKey = "prefs: unknown preference (%s)"
)

const envPrefix = "NESDB"

// DefaultFile is the name of the preferences file in the resource path.
const DefaultFile = "nesdb.yaml"

var defaults = map[string]any{
	ROMsDir:        ".",
	ROMsExtensions: []string{".nes"},
	ROMsArchives:   false,
	OutputDir:      ".",
	OutputDatabase: "game_db.dat",
	OutputListing:  "game_database.txt",
	LogEcho:        false,
	LogFile:        "",
}

// Keys returns the sorted list of preference keys.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Prefs is the set of preference values.
type Prefs struct {
	v *viper.Viper
}

// NewPrefs is the preferred method of initialisation for the Prefs type. The
// returned instance holds the default values, overridden by any environment
// variables.
func NewPrefs() *Prefs {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return &Prefs{v: v}
}

// Load the preferences file. If file is empty then the DefaultFile in the
// resource path is loaded, if it exists. A file that is named explicitly
// must exist.
func (p *Prefs) Load(file string) error {
	if file == "" {
		pth, err := paths.ResourcePath(DefaultFile)
		if err != nil {
			return curated.Errorf(LoadFailed, err)
		}
		if _, err := os.Stat(pth); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		file = pth
	}

	p.v.SetConfigFile(file)
	if err := p.v.ReadInConfig(); err != nil {
		return curated.Errorf(LoadFailed, err)
	}

	for _, k := range p.v.AllKeys() {
		if !isKey(k) {
			logger.Logf(logger.Allow, "prefs", "%s: ignoring unknown preference (%s)", file, k)
		}
	}

	logger.Logf(logger.Allow, "prefs", "loaded %s", p.v.ConfigFileUsed())

	return nil
}

// Save the current preference values to file. The format of the file is
// decided by the file extension.
func (p *Prefs) Save(file string) error {
	if err := p.v.WriteConfigAs(file); err != nil {
		return curated.Errorf(SaveFailed, err)
	}
	return nil
}

// ConfigFile returns the name of the preferences file that was loaded. Empty
// if no file has been loaded.
func (p *Prefs) ConfigFile() string {
	return p.v.ConfigFileUsed()
}

// BindFlag makes the command line flag the source of the preference value,
// if the flag has been set.
func (p *Prefs) BindFlag(key string, flag *pflag.Flag) error {
	if !isKey(key) {
		return curated.Errorf(UnknownKey, key)
	}
	if flag == nil {
		return curated.Errorf(UnknownKey, fmt.Sprintf("no flag for %s", key))
	}
	return p.v.BindPFlag(key, flag)
}

// Apply the values in the command line group. Values with unknown keys are
// returned.
func (p *Prefs) Apply(cl CommandLine) CommandLine {
	unused := make(CommandLine)
	for k, v := range cl {
		if !isKey(k) {
			logger.Logf(logger.Allow, "prefs", "command line: ignoring unknown preference (%s)", k)
			unused[k] = v
			continue
		}
		p.v.Set(k, v)
	}
	return unused
}

// Set the preference value.
func (p *Prefs) Set(key string, value any) error {
	if !isKey(key) {
		return curated.Errorf(UnknownKey, key)
	}
	p.v.Set(key, value)
	return nil
}

// String returns the preference value as a string.
func (p *Prefs) String(key string) string {
	return p.v.GetString(key)
}

// Bool returns the preference value as a boolean.
func (p *Prefs) Bool(key string) bool {
	return p.v.GetBool(key)
}

// StringSlice returns the preference value as a list of strings. A string
// value is split on white space.
func (p *Prefs) StringSlice(key string) []string {
	return p.v.GetStringSlice(key)
}

// Write every preference value to output in key order.
func (p *Prefs) Write(output io.Writer) error {
	for _, k := range Keys() {
		if _, err := io.WriteString(output, fmt.Sprintf("%s: %v\n", k, p.v.Get(k))); err != nil {
			return err
		}
	}
	return nil
}
