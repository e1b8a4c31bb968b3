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
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/debugger"
	"github.com/lassandro/gobeebasm/pkg/encoding"
)

var out io.Writer = os.Stdout

var lastcmd []string

// Where source, memory and disasm start when given no address
var cursor uint16

// Bytes per row of a memory dump
var width = 8

// Reads "[addr|label] [#]", where a lone number is a count from the cursor.
func addressAndCount(dbg *debugger.Debugger, args []string, count int) (uint16, int, error) {
	addr := cursor

	if len(args) > 0 {
		resolved, err := dbg.Resolve(args[0])

		if err == nil {
			addr = resolved
		} else if value, convErr := encoding.DecodeInt(args[0]); convErr == nil && len(args) == 1 {
			count = value
		} else {
			return 0, 0, err
		}
	}

	if len(args) > 1 {
		value, err := encoding.DecodeInt(args[1])

		if err != nil {
			return 0, 0, err
		}

		count = value
	}

	return addr, count, nil
}

func debugSource(dbg *debugger.Debugger, args []string) {
	const usage = "source [&####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr, count, err := addressAndCount(dbg, args, 3)

	if err != nil {
		log.Println(err)
		return
	}

	if err := dbg.PrintSource(out, addr, count); err != nil {
		log.Println(err)
	}
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		log.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(out, "No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Fprintf(out, "[&%04X] %s\n", addr, dbg.SymTable.Labels[addr])
	}
}

func debugSymbols(dbg *debugger.Debugger, args []string) {
	const usage = "symbols [name]"

	if len(args) > 1 {
		log.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(out, "No symbol table loaded")
		return
	}

	printer := pp.New()
	printer.SetOutput(out)
	printer.SetColoringEnabled(dbg.Color)

	if len(args) == 0 {
		printer.Println(dbg.SymTable.Symbols)
		return
	}

	for _, symbol := range dbg.SymTable.Symbols {
		if symbol.Name == args[0] {
			printer.Println(symbol)
			return
		}
	}

	fmt.Fprintf(out, "Unable to find '%s'\n", args[0])
}

func debugFind(dbg *debugger.Debugger, args []string) {
	const usage = "find [label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := dbg.Resolve(args[0])

	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	cursor = addr
	fmt.Fprintf(out, "%s: &%04X\n", args[0], addr)
}

func debugMemory(dbg *debugger.Debugger, args []string) {
	const usage = "memory [&####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr, count, err := addressAndCount(dbg, args, width)

	if err != nil {
		log.Println(err)
		return
	}

	dbg.PrintMem(out, addr, count, width)
	cursor = addr + uint16(count)
}

func debugDisasm(dbg *debugger.Debugger, args []string) {
	const usage = "disasm [&####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	addr, count, err := addressAndCount(dbg, args, 8)

	if err != nil {
		log.Println(err)
		return
	}

	cursor = dbg.PrintDisasm(out, addr, count)
}

func debugSet(dbg *debugger.Debugger, args []string) {
	const usage = "set [&####|label] [&##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := dbg.Resolve(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if value > 0xFF {
		log.Println("Value does not fit in a byte")
		return
	}

	dbg.Set(addr, byte(value))
	dbg.PrintMem(out, addr, 1, width)
}

func debugPatch(dbg *debugger.Debugger, args []string) {
	const usage = "patch [list|rm|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "l", "ls", "list":
		if len(args) != 0 {
			log.Println("patch list")
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Patches) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: &%%04X %%02x -> %%02x\n", int64(digits)+1)
		}

		for i, patch := range dbg.Patches {
			fmt.Fprintf(out, fmtstring, i, patch.Addr, patch.Old, patch.New)
		}

	case "r", "rm", "remove":
		const usage = "patch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if err := dbg.Revert(int(i)); err != nil {
			log.Println(err)
			return
		}

		fmt.Fprintf(out, "Patch reverted [%d]\n", i)

	case "clear":
		dbg.Reset()
		fmt.Fprintln(out, "Patches reverted")

	default:
		log.Printf("patch: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugWrite(dbg *debugger.Debugger, args []string) {
	const usage = "write [filename]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	file, err := os.Create(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	_, err = dbg.WriteTo(file)

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		log.Println(errors.Wrapf(err, "writing %s", args[0]))
		return
	}

	fmt.Fprintf(out, "Wrote &%04X-&%04X to %s\n", dbg.Start, dbg.End, args[0])
}

// Runs one command line and reports whether the monitor should exit.
func execute(dbg *debugger.Debugger, line string) bool {
	args := strings.Fields(line)

	if len(args) == 0 {
		if len(lastcmd) == 0 {
			return false
		}
		args = lastcmd
	} else {
		lastcmd = make([]string, len(args))
		copy(lastcmd, args)
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "s", "src", "source":
		debugSource(dbg, args)

	case "l", "label", "labels":
		debugLabels(dbg, args)

	case "sym", "symbols":
		debugSymbols(dbg, args)

	case "f", "find":
		debugFind(dbg, args)

	case "m", "mem", "memory":
		debugMemory(dbg, args)

	case "d", "dis", "disasm":
		debugDisasm(dbg, args)

	case "set":
		debugSet(dbg, args)

	case "p", "patch", "patches":
		debugPatch(dbg, args)

	case "w", "write":
		debugWrite(dbg, args)

	case "clear":
		fmt.Fprint(out, "\033[H\033[2J")

	case "q", "quit", "exit":
		return true

	default:
		fmt.Fprintf(out, "error: '%s' is not a valid command\n", cmd)
	}

	return false
}

func debugREPL(dbg *debugger.Debugger) {
	state := liner.NewLiner()
	defer state.Close()

	state.SetCtrlCAborts(true)

	for {
		line, err := state.Prompt("(mon) ")

		if err == liner.ErrPromptAborted {
			continue
		} else if err != nil {
			fmt.Fprintln(out)
			return
		}

		if strings.TrimSpace(line) != "" {
			state.AppendHistory(line)
		}

		if execute(dbg, line) {
			return
		}
	}
}
