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

package debugger

import (
	"io/fs"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/objectcode"
)

// A byte changed by Set, kept so that it can be reverted.
type Patch struct {
	Addr uint16
	Old  byte
	New  byte
}

// Debugger inspects an assembled image through the debug table written by
// beebasm --debug.
type Debugger struct {
	Memory [objectcode.MEMORY_SIZE]byte

	// The loaded image occupies [Start, End)
	Start uint16
	End   int

	CPU   int
	Color bool

	Patches []Patch

	// Where the source files named in SymTable are read from
	Files    fs.FS
	SymTable *assembler.SymTable

	sources map[string][]string
	lines   map[assembler.SourceLine]uint16
}
