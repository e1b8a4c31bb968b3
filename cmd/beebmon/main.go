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
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/debugger"
	"github.com/lassandro/gobeebasm/pkg/encoding"
)

var loadvar string
var debugvar string
var cpuvar int
var commandvars []string

var status int

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

var rootCmd = &cobra.Command{
	Use:   "beebmon [flags] filename",
	Short: "Inspects and patches an image assembled by beebasm",
	Long: "Loads an assembled image with the debug table written by " +
		"beebasm --debug, and opens a monitor over it.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		status = beebmon(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(
		&loadvar, "load", "",
		"Load address of the image. Defaults to the lowest address in the "+
			"debug table",
	)
	flags.StringVar(
		&debugvar, "debug", "",
		"Debug table to use. Defaults to the image filename with extension "+
			"'.dbg'",
	)
	flags.IntVar(&cpuvar, "cpu", 1, "Instruction set to disassemble: 0 for 6502, 1 for 65C02")
	flags.StringArrayVarP(
		&commandvars, "command", "c", nil,
		"Runs a monitor command instead of the interactive prompt",
	)

	flag.Set("logtostderr", "true")
	flag.CommandLine.VisitAll(func(goflag *flag.Flag) {
		pf := pflag.PFlagFromGoFlag(goflag)
		pf.Shorthand = ""
		rootCmd.PersistentFlags().AddFlag(pf)
	})
}

func loadDebugTable(filename string) (*assembler.SymTable, error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var table assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&table); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filename)
	}

	return &table, nil
}

// Where the debug table says code starts, when --load is not given.
func lowestAddress(table *assembler.SymTable) (uint16, bool) {
	found := false
	var lowest uint16

	for addr := range table.Lines {
		if !found || addr < lowest {
			lowest = addr
			found = true
		}
	}

	return lowest, found
}

func beebmon(filename string) int {
	defer glog.Flush()

	if debugvar == "" {
		debugvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".dbg"
	}

	table, err := loadDebugTable(debugvar)

	if err != nil {
		log.Println("Error loading debug table")
		log.Println(err)
		table = nil
	}

	var load uint16

	switch {
	case loadvar != "":
		if load, err = encoding.DecodeHex(loadvar); err != nil {
			log.Println(err)
			return 1
		}
	case table != nil:
		if addr, found := lowestAddress(table); found {
			load = addr
		}
	}

	file, err := os.Open(filename)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	dbg := debugger.New(nil, table)
	dbg.CPU = cpuvar
	dbg.Color = term.IsTerminal(int(os.Stdout.Fd()))

	if err := dbg.Load(file, load); err != nil {
		log.Println(err)
		return 1
	}

	cursor = load
	width = termWidth()

	if len(commandvars) > 0 {
		for _, command := range commandvars {
			if execute(dbg, command) {
				break
			}
		}

		return 0
	}

	fmt.Fprintf(out, "Loaded &%04X-&%04X\n", dbg.Start, dbg.End)
	debugREPL(dbg)

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
