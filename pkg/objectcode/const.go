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

package objectcode

const MEMORY_SIZE = 0x10000

// Per byte flags
const (
	// Written during this pass
	USED byte = 1 << iota
	// Protected by GUARD for the rest of the run
	GUARD
	// Holds an opcode which the second pass must reproduce
	CHECK
	// Opcode check suppressed by CLEAR
	DONT_CHECK
)

const (
	CPU_6502  = 0
	CPU_65C02 = 1
)

// MAPCHAR covers the printable ASCII range
const (
	MAP_FIRST = 0x20
	MAP_LAST  = 0x7E
)
