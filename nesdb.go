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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jetsetilly/nesdb/cartridge"
	"github.com/jetsetilly/nesdb/cartridgeloader"
	"github.com/jetsetilly/nesdb/compiler"
	"github.com/jetsetilly/nesdb/curated"
	"github.com/jetsetilly/nesdb/database"
	"github.com/jetsetilly/nesdb/logger"
	"github.com/jetsetilly/nesdb/prefs"
	"github.com/jetsetilly/nesdb/storage"
	"github.com/jetsetilly/nesdb/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	err := app.root.ExecuteContext(ctx)
	app.close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		os.Exit(10)
	}
}

// app holds the state shared by the commands.
type app struct {
	root *cobra.Command

	output    io.Writer
	errOutput io.Writer

	prefs *prefs.Prefs

	// value of the --config and --prefs flags
	configFile  string
	commandLine string

	// rotating log file. nil if log.file is not set
	logFile *lumberjack.Logger
}

func newApp(output io.Writer, errOutput io.Writer) *app {
	a := &app{
		output:    output,
		errOutput: errOutput,
		prefs:     prefs.NewPrefs(),
	}

	a.root = &cobra.Command{
		Use:           version.ApplicationName,
		Short:         "Identify NES cartridge images and compile the game database",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	a.root.SetOut(output)
	a.root.SetErr(errOutput)

	flags := a.root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", fmt.Sprintf("preferences file (default: %s in the resource path)", prefs.DefaultFile))
	flags.StringVar(&a.commandLine, "prefs", "", "preference values as key::value pairs separated by semicolons")
	flags.Bool("log", false, "echo log to stderr")
	flags.String("logfile", "", "echo log to a rotating log file")

	a.root.AddCommand(
		a.compileCmd(),
		a.identifyCmd(),
		a.listCmd(),
		a.lookupCmd(),
		a.prefsCmd(),
		a.versionCmd(),
	)

	return a
}

// setup preferences and logging. called before any command is run
func (a *app) setup() error {
	if err := a.prefs.Load(a.configFile); err != nil {
		return err
	}

	if unused := a.prefs.Apply(prefs.ParseCommandLine(a.commandLine)); len(unused) > 0 {
		return curated.Errorf(prefs.UnknownKey, unused)
	}

	if err := a.prefs.BindFlag(prefs.LogEcho, a.root.PersistentFlags().Lookup("log")); err != nil {
		return err
	}
	if err := a.prefs.BindFlag(prefs.LogFile, a.root.PersistentFlags().Lookup("logfile")); err != nil {
		return err
	}

	var echo []io.Writer
	if a.prefs.Bool(prefs.LogEcho) {
		echo = append(echo, a.errOutput)
	}
	if f := a.prefs.String(prefs.LogFile); f != "" {
		a.logFile = &lumberjack.Logger{
			Filename:   f,
			MaxSize:    10,
			MaxBackups: 3,
		}
		echo = append(echo, a.logFile)
	}
	logger.SetEcho(true, echo...)

	return nil
}

func (a *app) close() {
	logger.SetEcho(false)
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// openStorage opens a storage location. locations containing "://" are opened
// as a URL and anything else as a directory. the directory is only created if
// create is true
func openStorage(ctx context.Context, loc string, create bool) (*storage.Bucket, error) {
	if strings.Contains(loc, "://") {
		return storage.Open(ctx, loc)
	}
	if create {
		return storage.OpenDir(loc)
	}
	return storage.OpenExistingDir(loc)
}

// openFile opens the directory containing the named file and returns the key
// for the file in it
func openFile(filename string) (*storage.Bucket, string, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, "", err
	}
	st, err := storage.OpenDir(filepath.Dir(filename))
	if err != nil {
		return nil, "", err
	}
	return st, filepath.Base(filename), nil
}

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [dir]",
		Short: "Compile the game database from a directory of cartridge images",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for key, flag := range map[string]string{
				prefs.OutputDir:      "output",
				prefs.ROMsArchives:   "archives",
				prefs.ROMsExtensions: "ext",
			} {
				if err := a.prefs.BindFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}

			dir := a.prefs.String(prefs.ROMsDir)
			if len(args) > 0 {
				dir = args[0]
			}

			return a.compile(cmd.Context(), dir)
		},
	}

	cmd.Flags().String("output", "", "directory or storage URL for the listing and database")
	cmd.Flags().Bool("archives", false, "identify cartridge images inside zip and 7z archives")
	cmd.Flags().StringSlice("ext", nil, "file extensions of cartridge images")

	return cmd
}

func (a *app) compile(ctx context.Context, dir string) error {
	// a ROM directory that does not exist must not produce an empty database
	roms, err := openStorage(ctx, dir, false)
	if err != nil {
		return curated.Errorf(compiler.ListFailed, err)
	}
	defer roms.Close()

	out, err := openStorage(ctx, a.prefs.String(prefs.OutputDir), true)
	if err != nil {
		return err
	}
	defer out.Close()

	c := compiler.Compiler{
		ROMs:         roms,
		Output:       out,
		ListingPath:  a.prefs.String(prefs.OutputListing),
		DatabasePath: a.prefs.String(prefs.OutputDatabase),
		Extensions:   a.prefs.StringSlice(prefs.ROMsExtensions),
		Archives:     a.prefs.Bool(prefs.ROMsArchives),
	}

	res, err := c.Compile(ctx, "")
	if err != nil {
		return err
	}

	if res.Skipped != nil {
		fmt.Fprintln(a.errOutput, res.Skipped.Error())
	}

	fmt.Fprintf(a.output, "%d games written to %s (%d skipped, %d duplicates)\n",
		len(res.Games), c.DatabasePath, res.NumSkipped(), len(res.Duplicates))

	return nil
}

func (a *app) identifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify <file>",
		Short: "Identify a single cartridge image or the cartridge images in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.identify(cmd.Context(), args[0])
		},
	}
}

func (a *app) identify(ctx context.Context, filename string) error {
	st, key, err := openFile(filename)
	if err != nil {
		return err
	}
	defer st.Close()

	ldrs, err := cartridgeloader.Expand(ctx, st, key, a.prefs.StringSlice(prefs.ROMsExtensions)...)
	if err != nil {
		return err
	}
	if len(ldrs) == 0 {
		return curated.Errorf("identify: %s: no cartridge images found", filename)
	}

	fmt.Fprintln(a.output, compiler.ListingHeader)

	for _, cl := range ldrs {
		if err := cl.Load(ctx, st); err != nil {
			return err
		}
		g, err := compiler.Identify(cl.Name(), cl.Data, cartridge.Parse)
		if err != nil {
			return err
		}
		compiler.ApplyCorrections(&g)
		fmt.Fprintln(a.output, g.String())
	}

	return nil
}

func (a *app) loadDatabase(ctx context.Context, filename string) (*database.Database, error) {
	st, key, err := openFile(filename)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return database.Load(ctx, st, key)
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <database>",
		Short: "List the entries in a database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.loadDatabase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return db.List(a.output)
		},
	}
}

func (a *app) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <database> <crc>",
		Short: "Find the entry with the checksum in a database file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checksum, err := parseChecksum(args[1])
			if err != nil {
				return err
			}

			db, err := a.loadDatabase(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			g, ok := db.Lookup(checksum)
			if !ok {
				return curated.Errorf("lookup: %08X not in database", checksum)
			}
			fmt.Fprintln(a.output, g.String())

			return nil
		},
	}
}

// parseChecksum parses a hexadecimal checksum with an optional 0x prefix
func parseChecksum(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, curated.Errorf("lookup: invalid checksum (%s)", s)
	}
	return uint32(v), nil
}

func (a *app) prefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefs",
		Short: "Print the preference values in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := a.prefs.ConfigFile(); f != "" {
				fmt.Fprintf(a.output, "# %s\n", f)
			}
			return a.prefs.Write(a.output)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.output, "%s %s\n", version.ApplicationName, version.String())
		},
	}
}
