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

// Package assembler drives the two pass assembly of 6502 source: it owns the
// symbol table, object code buffer and macro table of a run, and dispatches
// every statement of every source line to its handler.
package assembler

import (
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/expression"
	"github.com/lassandro/gobeebasm/pkg/macro"
	"github.com/lassandro/gobeebasm/pkg/objectcode"
	"github.com/lassandro/gobeebasm/pkg/source"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

// Assembler is the state of one assembly run.
type Assembler struct {
	options Options

	symbols *symbols.Table
	code    *objectcode.Buffer
	macros  *macro.Table
	rand    *expression.Rand

	pass      int
	nextForID int
	anonymous anonymousLabels

	saved     bool
	anonSaves int
}

// New prepares a run. The -D and -S definitions in options are made here,
// before any source is read.
func New(options Options) (*Assembler, error) {
	if options.Files == nil {
		options.Files = hostFS{}
	}

	if options.Writer == nil {
		options.Writer = hostWriter{}
	}

	if options.Output == nil {
		options.Output = os.Stdout
	}

	if options.Listing == nil {
		options.Listing = os.Stdout
	}

	if options.Time.IsZero() {
		options.Time = time.Now()
	}

	asm := &Assembler{
		options: options,
		symbols: symbols.NewTable(),
		macros:  macro.NewTable(),
		rand:    expression.NewRand(),
	}

	asm.code = objectcode.NewBuffer(asm.symbols)
	asm.anonymous.Clear()

	for _, define := range options.Defines {
		if err := asm.symbols.DefineCommandLine(define); err != nil {
			return nil, errors.Wrapf(err, "invalid -D expression '%s'", define)
		}
	}

	for _, define := range options.StringDefines {
		if err := asm.symbols.DefineCommandLineString(define); err != nil {
			return nil, errors.Wrapf(err, "invalid -S expression '%s'", define)
		}
	}

	return asm, nil
}

// Assemble runs both passes over filename. The first error ends the run.
func (asm *Assembler) Assemble(filename string) error {
	text, err := fs.ReadFile(asm.options.Files, filename)

	if err != nil {
		return asmerr.NewFileError(asmerr.ERR_OPEN_SOURCE, filename, err)
	}

	return asm.AssembleSource(filename, string(text))
}

// AssembleSource runs both passes over text, which is reported as coming
// from filename.
func (asm *Assembler) AssembleSource(filename, text string) error {
	for asm.pass = 0; asm.pass < PASS_COUNT; asm.pass++ {
		glog.V(1).Infof("pass %d: %s", asm.pass+1, filename)

		asm.code.BeginPass(asm.pass > 0)
		asm.nextForID = 0
		asm.anonymous.Clear()
		asm.rand = expression.NewRand()

		if asm.options.RandomSeed != 0 {
			asm.rand.Seed(asm.options.RandomSeed)
		}

		unit := source.New(filename, text, 1, nil, asm)

		if err := unit.Process(asm); err != nil {
			return err
		}
	}

	asm.pass = PASS_COUNT - 1

	if asm.options.Debug != nil {
		for _, label := range asm.symbols.Labels(false) {
			if label.Value >= 0 && label.Value < objectcode.MEMORY_SIZE {
				asm.options.Debug.Labels[uint16(label.Value)] = label.Name
			}
		}

		asm.options.Debug.Symbols = asm.symbols.Labels(true)
	}

	return nil
}

// ProcessLine dispatches the statements of one source line.
func (asm *Assembler) ProcessLine(unit *source.Unit, text string, column int) error {
	parser := lineParser{asm: asm, unit: unit, line: text, column: column}
	return parser.process()
}

func (asm *Assembler) Symbols() *symbols.Table {
	return asm.symbols
}

func (asm *Assembler) Macros() *macro.Table {
	return asm.macros
}

func (asm *Assembler) Code() *objectcode.Buffer {
	return asm.code
}

func (asm *Assembler) FirstPass() bool {
	return asm.pass == 0
}

func (asm *Assembler) FinalPass() bool {
	return asm.pass == PASS_COUNT-1
}

func (asm *Assembler) NextForID() int {
	id := asm.nextForID
	asm.nextForID++
	return id
}

// Anonymous labels never refer across a scope or condition boundary.
func (asm *Assembler) ScopeChanged() {
	asm.anonymous.Clear()
}

// Saved reports whether any SAVE was executed.
func (asm *Assembler) Saved() bool {
	return asm.saved
}

// DumpSymbols writes the label dump, top-level labels only unless all is
// set.
func (asm *Assembler) DumpSymbols(w io.Writer, all bool) error {
	return asm.symbols.Dump(w, all)
}

// Verbose listing happens on the final pass only.
func (asm *Assembler) listing(unit *source.Unit) bool {
	if !asm.FinalPass() {
		return false
	}

	if asm.options.VerboseSet {
		return asm.options.Verbose
	}

	value, exists := unit.Lookup("VERBOSE")
	return exists && value.IsNumber() && value.Number != 0
}

// Records where the instruction about to be assembled came from.
func (asm *Assembler) trace(unit *source.Unit) {
	table := asm.options.Debug

	if table == nil || !asm.FinalPass() || asm.code.PC() >= objectcode.MEMORY_SIZE {
		return
	}

	table.Lines[uint16(asm.code.PC())] = SourceLine{
		File: table.fileIndex(unit.Filename),
		Line: unit.LineNumber(),
	}
}
