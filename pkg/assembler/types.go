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

package assembler

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/lassandro/gobeebasm/pkg/symbols"
)

type DirectiveType uint
type AddressingMode uint

// DiscVolume receives the files written by SAVE, PUTFILE, PUTTEXT and
// PUTBASIC when assembling to a disc image.
type DiscVolume interface {
	AddFile(name string, data []byte, load, exec, length int) error
}

// FileWriter receives the files written by SAVE when there is no disc
// image.
type FileWriter interface {
	WriteFile(path string, data []byte) error
}

// BasicTokenizer turns BBC BASIC source text into a tokenized program.
type BasicTokenizer interface {
	Tokenize(text []byte) ([]byte, error)
}

type Options struct {
	// Source, INCLUDE, INCBIN and PUT* files. Defaults to the host file
	// system.
	Files fs.FS

	// Used by SAVE when no filename is given
	OutputFile string

	Disc      DiscVolume
	Writer    FileWriter
	Tokenizer BasicTokenizer

	// When VerboseSet is false the VERBOSE symbol decides
	Verbose    bool
	VerboseSet bool

	// Mnemonics must be followed by a space or a statement end
	RequireDistinctOpcodes bool

	// Locations printed by PRINT FILELINE$ use file(line)
	VisualC bool

	// -D name=value and -S name=text definitions
	Defines       []string
	StringDefines []string

	// Zero keeps the fixed default seed
	RandomSeed uint32
	Time       time.Time

	// PRINT output and the verbose listing. Both default to stdout.
	Output  io.Writer
	Listing io.Writer

	// When non-nil, filled with the source location of every instruction
	Debug *SymTable
}

// SymTable maps the assembled image back to its source. It is written by
// beebasm --debug and read by beebmon.
type SymTable struct {
	Source  []string
	Lines   map[uint16]SourceLine
	Labels  map[uint16]string
	Symbols []symbols.Label
}

type SourceLine struct {
	File int
	Line int
}

func NewSymTable() *SymTable {
	return &SymTable{
		Lines:  make(map[uint16]SourceLine),
		Labels: make(map[uint16]string),
	}
}

func (table *SymTable) fileIndex(filename string) int {
	for i, name := range table.Source {
		if name == filename {
			return i
		}
	}

	table.Source = append(table.Source, filename)
	return len(table.Source) - 1
}

// Lookup finds the source line of the instruction at addr.
func (table *SymTable) Lookup(addr uint16) (string, int, bool) {
	line, exists := table.Lines[addr]

	if !exists || line.File >= len(table.Source) {
		return "", 0, false
	}

	return table.Source[line.File], line.Line, true
}

// The file system of the host, relative to the working directory.
type hostFS struct{}

func (hostFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// Writes SAVEd files to the host file system.
type hostWriter struct{}

func (hostWriter) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
