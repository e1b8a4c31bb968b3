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

// Package debugger inspects and patches an assembled image, mapping its
// addresses back to labels and source lines through an assembler.SymTable.
package debugger

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/encoding"
	"github.com/lassandro/gobeebasm/pkg/objectcode"
)

type hostFS struct{}

func (hostFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// New returns a debugger with an empty image. A nil files reads sources
// from the host file system.
func New(files fs.FS, table *assembler.SymTable) *Debugger {
	if files == nil {
		files = hostFS{}
	}

	return &Debugger{
		Files:    files,
		SymTable: table,
		CPU:      objectcode.CPU_65C02,
		sources:  make(map[string][]string),
	}
}

// Load places the image read from r at address load.
func (dbg *Debugger) Load(r io.Reader, load uint16) error {
	data, err := io.ReadAll(r)

	if err != nil {
		return errors.Wrap(err, "reading image")
	}

	if int(load)+len(data) > objectcode.MEMORY_SIZE {
		return errors.Errorf(
			"image of %d bytes does not fit at %#04x", len(data), load,
		)
	}

	dbg.Memory = [objectcode.MEMORY_SIZE]byte{}
	copy(dbg.Memory[load:], data)

	dbg.Start = load
	dbg.End = int(load) + len(data)
	dbg.Patches = nil

	glog.V(1).Infof("loaded %d bytes at %#04x", len(data), load)
	return nil
}

// Image returns a copy of the loaded image, patches included.
func (dbg *Debugger) Image() []byte {
	data := make([]byte, dbg.End-int(dbg.Start))
	copy(data, dbg.Memory[dbg.Start:dbg.End])
	return data
}

func (dbg *Debugger) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(dbg.Memory[dbg.Start:dbg.End])
	return int64(n), errors.Wrap(err, "writing image")
}

// Resolve turns a hex address or a label into an address.
func (dbg *Debugger) Resolve(arg string) (uint16, error) {
	if addr, err := encoding.DecodeHex(arg); err == nil {
		return addr, nil
	}

	if dbg.SymTable == nil {
		return 0, errors.Errorf("'%s' is not an address", arg)
	}

	for addr, label := range dbg.SymTable.Labels {
		if label == arg {
			return addr, nil
		}
	}

	for _, symbol := range dbg.SymTable.Symbols {
		if symbol.Name == arg {
			if symbol.Value < 0 || symbol.Value >= objectcode.MEMORY_SIZE {
				return 0, errors.Errorf("'%s' is not an address", arg)
			}

			return uint16(symbol.Value), nil
		}
	}

	return 0, errors.Errorf("unable to find '%s'", arg)
}

func (dbg *Debugger) Label(addr uint16) (string, bool) {
	if dbg.SymTable == nil {
		return "", false
	}

	label, exists := dbg.SymTable.Labels[addr]
	return label, exists
}

// Set changes one byte of the image and records the change.
func (dbg *Debugger) Set(addr uint16, value byte) {
	dbg.Patches = append(dbg.Patches, Patch{addr, dbg.Memory[addr], value})
	dbg.Memory[addr] = value
}

// Revert undoes patch i. Later patches to the same address are undone
// with it.
func (dbg *Debugger) Revert(i int) error {
	if i < 0 || i >= len(dbg.Patches) {
		return errors.Errorf("invalid patch number %d", i)
	}

	addr := dbg.Patches[i].Addr
	kept := dbg.Patches[:i]

	for _, patch := range dbg.Patches[i+1:] {
		if patch.Addr != addr {
			kept = append(kept, patch)
		}
	}

	dbg.Memory[addr] = dbg.Patches[i].Old
	dbg.Patches = kept
	return nil
}

// Reset undoes every patch.
func (dbg *Debugger) Reset() {
	for i := len(dbg.Patches) - 1; i >= 0; i-- {
		dbg.Memory[dbg.Patches[i].Addr] = dbg.Patches[i].Old
	}

	dbg.Patches = nil
}

func (dbg *Debugger) style(code, s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[" + code + "m" + s + "\033[0m"
}

func (dbg *Debugger) address(addr uint16) string {
	return dbg.style("1", fmt.Sprintf("[&%04X]", addr))
}

// PrintMem dumps count bytes from addr, width bytes to a row.
func (dbg *Debugger) PrintMem(w io.Writer, addr uint16, count, width int) {
	if width < 1 {
		width = 8
	}

	for i := 0; i < count; i++ {
		at := addr + uint16(i)

		if i%width == 0 {
			if i > 0 {
				fmt.Fprintln(w)
			}

			fmt.Fprintf(w, "%s", dbg.address(at))
		}

		value := dbg.Memory[at]

		if value == 0 {
			fmt.Fprintf(w, " %s", dbg.style("1;30", "00"))
		} else {
			fmt.Fprintf(w, " %02x", value)
		}
	}

	fmt.Fprintln(w)
}

// PrintDisasm disassembles count instructions from addr and returns the
// address that follows them.
func (dbg *Debugger) PrintDisasm(w io.Writer, addr uint16, count int) uint16 {
	for i := 0; i < count; i++ {
		if label, exists := dbg.Label(addr); exists {
			fmt.Fprintln(w, dbg.style("1", "."+label))
		}

		code := []byte{dbg.Memory[addr], dbg.Memory[addr+1], dbg.Memory[addr+2]}
		text, size := assembler.Disassemble(code, addr, dbg.CPU)

		hex := make([]string, size)

		for j := range hex {
			hex[j] = fmt.Sprintf("%02x", code[j])
		}

		fmt.Fprintf(
			w, "%s %-9s %s\n", dbg.address(addr), strings.Join(hex, " "), text,
		)

		addr += uint16(size)
	}

	return addr
}

func (dbg *Debugger) source(filename string) ([]string, error) {
	if lines, exists := dbg.sources[filename]; exists {
		return lines, nil
	}

	text, err := fs.ReadFile(dbg.Files, filename)

	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	lines := strings.Split(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n")
	dbg.sources[filename] = lines
	return lines, nil
}

// First address assembled from each source line.
func (dbg *Debugger) lineAddress(line assembler.SourceLine) (uint16, bool) {
	if dbg.lines == nil {
		dbg.lines = make(map[assembler.SourceLine]uint16)

		for addr, l := range dbg.SymTable.Lines {
			if prev, exists := dbg.lines[l]; !exists || addr < prev {
				dbg.lines[l] = addr
			}
		}
	}

	addr, exists := dbg.lines[line]
	return addr, exists
}

// PrintSource prints count source lines, starting with the one that
// assembled the instruction at addr.
func (dbg *Debugger) PrintSource(w io.Writer, addr uint16, count int) error {
	if dbg.SymTable == nil {
		return errors.New("no symbol table loaded")
	}

	filename, number, exists := dbg.SymTable.Lookup(addr)

	if !exists {
		return errors.Errorf("no instruction found at %#04x", addr)
	}

	lines, err := dbg.source(filename)

	if err != nil {
		return err
	}

	file := dbg.SymTable.Lines[addr].File

	for i := number; i < number+count && i <= len(lines); i++ {
		if at, exists := dbg.lineAddress(assembler.SourceLine{File: file, Line: i}); exists {
			fmt.Fprintf(w, "%s ", dbg.address(at))
		} else {
			fmt.Fprintf(w, "%s ", dbg.style("1;30", "~~~~~~~"))
		}

		fmt.Fprintln(w, lines[i-1])
	}

	return nil
}
