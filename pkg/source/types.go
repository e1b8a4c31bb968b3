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

package source

import (
	"github.com/lassandro/gobeebasm/pkg/macro"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

const (
	MAX_FOR_LEVELS = 256
	MAX_IF_LEVELS  = 256
)

// Cursor is a resumable read position: a line index into the unit and the
// column to continue that line from.
type Cursor struct {
	Line   int
	Column int
}

// ForFrame is one FOR loop, or with a Step of zero, one brace scope.
type ForFrame struct {
	Var     symbols.ScopedName
	Current float64
	End     float64
	Step    float64
	Resume  Cursor
	ID      int
	Count   int

	Text       string
	Column     int
	LineNumber int
}

func (frame *ForFrame) IsBrace() bool {
	return frame.Step == 0
}

type IfFrame struct {
	Condition         bool
	Passed            bool
	HadElse           bool
	IsMacroDefinition bool

	Text       string
	Column     int
	LineNumber int
}

// Context is the state of the assembly run that source units share.
type Context interface {
	Symbols() *symbols.Table
	Macros() *macro.Table
	FirstPass() bool
	FinalPass() bool
	NextForID() int
	// Called whenever a scope or condition opens or closes
	ScopeChanged()
}

// LineProcessor handles one line of a unit, starting at column.
type LineProcessor interface {
	ProcessLine(unit *Unit, text string, column int) error
}
