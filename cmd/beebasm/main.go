// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/discimage"
)

var outvar string
var discinvar string
var discoutvar string
var bootvar string
var titlevar string
var optvar int
var cyclevar int
var verbosevar bool
var vcvar bool
var dumpvar bool
var dumpallvar bool
var labelsvar string
var distinctvar bool
var debugvar bool
var seedvar uint32
var definevars []string
var stringvars []string

var colorvar = term.IsTerminal(int(os.Stderr.Fd()))

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "beebasm [flags] filename",
	Short: "Assembles 6502 source for the BBC Micro",
	Long: "Assembles 6502 source in two passes, writing SAVEd files to the " +
		"host or to a DFS disc image.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		status = beebasm(args[0])
	},
}

var status int

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(
		&outvar, "out", "o", "",
		"Output file for a SAVE with no filename",
	)
	flags.StringVar(&discinvar, "di", "", "Disc image to add files to")
	flags.StringVar(&discoutvar, "do", "", "Disc image to write")
	flags.StringVar(
		&bootvar, "boot", "",
		"Creates a !Boot file which runs this file, for a new disc image",
	)
	flags.StringVar(&titlevar, "title", "", "Title of a new disc image")
	flags.IntVar(&optvar, "opt", 0, "*OPT 4 value of a new disc image")
	flags.IntVar(&cyclevar, "cycle", 0, "Cycle number of a new disc image")
	flags.BoolVarP(
		&verbosevar, "verbose", "v", false,
		"Lists the assembled code, overriding the VERBOSE symbol",
	)
	flags.BoolVar(&vcvar, "vc", false, "Reports errors in Visual C style")
	flags.BoolVarP(&dumpvar, "dump", "d", false, "Dumps top-level labels")
	flags.BoolVar(
		&dumpallvar, "dump-all", false, "Pretty-prints every label",
	)
	flags.StringVar(&labelsvar, "labels", "", "Writes the label dump to a file")
	flags.BoolVarP(
		&distinctvar, "distinct", "w", false,
		"Requires a space or statement end after each mnemonic",
	)
	flags.BoolVar(
		&debugvar, "debug", false,
		"Writes a debug table for beebmon next to the output file, with "+
			"extension '.dbg'",
	)
	flags.Uint32Var(&seedvar, "seed", 0, "Seed for RND")
	flags.StringArrayVarP(
		&definevars, "define", "D", nil, "Defines a number as name=value",
	)
	flags.StringArrayVarP(
		&stringvars, "string", "S", nil, "Defines a string as name=text",
	)

	// glog's -v would collide with --verbose
	flag.Set("logtostderr", "true")
	flag.CommandLine.VisitAll(func(goflag *flag.Flag) {
		pf := pflag.PFlagFromGoFlag(goflag)
		pf.Shorthand = ""
		rootCmd.PersistentFlags().AddFlag(pf)
	})
}

func bold(s string) string {
	if !colorvar {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func newDisc() (*discimage.Image, error) {
	if discinvar == "" {
		return discimage.New(discoutvar, discimage.Options{
			Title:    titlevar,
			Cycle:    cyclevar,
			Option:   optvar,
			BootFile: bootvar,
		})
	}

	file, err := os.Open(discinvar)

	if err != nil {
		return nil, errors.Wrap(err, "opening input disc image")
	}

	defer file.Close()

	return discimage.Load(discinvar, file)
}

func writeDisc(disc *discimage.Image) error {
	file, err := os.Create(discoutvar)

	if err != nil {
		return errors.Wrap(err, "creating output disc image")
	}

	if _, err := disc.WriteTo(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func debugFilename(filename string) string {
	name := outvar

	if name == "" {
		name = filename
	}

	return strings.TrimSuffix(name, filepath.Ext(name)) + ".dbg"
}

func writeLabels(asm *assembler.Assembler) error {
	file, err := os.Create(labelsvar)

	if err != nil {
		return errors.Wrap(err, "creating label file")
	}

	if err := asm.DumpSymbols(file, false); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func beebasm(filename string) int {
	defer glog.Flush()

	log.SetPrefix(bold(filepath.Base(filename)+":") + " ")

	if discinvar != "" && discoutvar == "" {
		log.Println("--di needs --do")
		return 1
	}

	options := assembler.Options{
		OutputFile:             outvar,
		Verbose:                verbosevar,
		VerboseSet:             verbosevar,
		RequireDistinctOpcodes: distinctvar,
		VisualC:                vcvar,
		Defines:                definevars,
		StringDefines:          stringvars,
		RandomSeed:             seedvar,
	}

	var disc *discimage.Image

	if discoutvar != "" {
		var err error

		if disc, err = newDisc(); err != nil {
			report(err)
			return 1
		}

		options.Disc = disc
	}

	if debugvar {
		options.Debug = assembler.NewSymTable()
	}

	asm, err := assembler.New(options)

	if err != nil {
		log.Println(err)
		return 1
	}

	if err := asm.Assemble(filename); err != nil {
		report(err)
		return 1
	}

	if !asm.Saved() {
		log.Println("warning: no SAVE command in source file.")
	}

	if disc != nil {
		if err := writeDisc(disc); err != nil {
			report(err)
			return 1
		}
	}

	if dumpvar {
		if err := asm.DumpSymbols(os.Stdout, false); err != nil {
			log.Println(err)
			return 1
		}
	}

	if dumpallvar {
		printer := pp.New()
		printer.SetColoringEnabled(term.IsTerminal(int(os.Stdout.Fd())))
		printer.Println(asm.Symbols().Labels(true))
	}

	if labelsvar != "" {
		if err := writeLabels(asm); err != nil {
			log.Println(err)
			return 1
		}
	}

	if debugvar {
		if err := writeDebugTable(debugFilename(filename), options.Debug); err != nil {
			log.Println("Error writing debug table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		fmt.Fprintln(os.Stderr, rootCmd.UsageString())
		os.Exit(1)
	}

	os.Exit(status)
}
