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
	"github.com/lassandro/gobeebasm/pkg/objectcode"
)

const PASS_COUNT = 2

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_LABEL
	DIRECTIVE_COMMENT
	DIRECTIVE_SEPARATOR
	DIRECTIVE_PRINT
	DIRECTIVE_CPU
	DIRECTIVE_ORG
	DIRECTIVE_INCLUDE
	DIRECTIVE_EQUB
	DIRECTIVE_EQUD
	DIRECTIVE_EQUS
	DIRECTIVE_EQUW
	DIRECTIVE_ASSERT
	DIRECTIVE_SAVE
	DIRECTIVE_FOR
	DIRECTIVE_NEXT
	DIRECTIVE_IF
	DIRECTIVE_ELIF
	DIRECTIVE_ELSE
	DIRECTIVE_ENDIF
	DIRECTIVE_ALIGN
	DIRECTIVE_SKIPTO
	DIRECTIVE_SKIP
	DIRECTIVE_GUARD
	DIRECTIVE_CLEAR
	DIRECTIVE_INCBIN
	DIRECTIVE_OPEN_BRACE
	DIRECTIVE_CLOSE_BRACE
	DIRECTIVE_MAPCHAR
	DIRECTIVE_PUTFILE
	DIRECTIVE_PUTTEXT
	DIRECTIVE_PUTBASIC
	DIRECTIVE_MACRO
	DIRECTIVE_ENDMACRO
	DIRECTIVE_ERROR
	DIRECTIVE_COPYBLOCK
	DIRECTIVE_RANDOMIZE
	DIRECTIVE_ASM
	DIRECTIVE_DEFINE
	DIRECTIVE_ASSIGN
)

// Directive keywords in match order. A keyword matches as a prefix, so
// SKIPTO must come before SKIP.
var directives = [...]struct {
	Token string
	Type  DirectiveType
}{
	{".", DIRECTIVE_LABEL},
	{"\\", DIRECTIVE_COMMENT},
	{";", DIRECTIVE_COMMENT},
	{":", DIRECTIVE_SEPARATOR},
	{"PRINT", DIRECTIVE_PRINT},
	{"CPU", DIRECTIVE_CPU},
	{"ORG", DIRECTIVE_ORG},
	{"INCLUDE", DIRECTIVE_INCLUDE},
	{"EQUB", DIRECTIVE_EQUB},
	{"EQUD", DIRECTIVE_EQUD},
	{"EQUS", DIRECTIVE_EQUS},
	{"EQUW", DIRECTIVE_EQUW},
	{"ASSERT", DIRECTIVE_ASSERT},
	{"SAVE", DIRECTIVE_SAVE},
	{"FOR", DIRECTIVE_FOR},
	{"NEXT", DIRECTIVE_NEXT},
	{"IF", DIRECTIVE_IF},
	{"ELIF", DIRECTIVE_ELIF},
	{"ELSE", DIRECTIVE_ELSE},
	{"ENDIF", DIRECTIVE_ENDIF},
	{"ALIGN", DIRECTIVE_ALIGN},
	{"SKIPTO", DIRECTIVE_SKIPTO},
	{"SKIP", DIRECTIVE_SKIP},
	{"GUARD", DIRECTIVE_GUARD},
	{"CLEAR", DIRECTIVE_CLEAR},
	{"INCBIN", DIRECTIVE_INCBIN},
	{"{", DIRECTIVE_OPEN_BRACE},
	{"}", DIRECTIVE_CLOSE_BRACE},
	{"MAPCHAR", DIRECTIVE_MAPCHAR},
	{"PUTFILE", DIRECTIVE_PUTFILE},
	{"PUTTEXT", DIRECTIVE_PUTTEXT},
	{"PUTBASIC", DIRECTIVE_PUTBASIC},
	{"MACRO", DIRECTIVE_MACRO},
	{"ENDMACRO", DIRECTIVE_ENDMACRO},
	{"ERROR", DIRECTIVE_ERROR},
	{"COPYBLOCK", DIRECTIVE_COPYBLOCK},
	{"RANDOMIZE", DIRECTIVE_RANDOMIZE},
	{"ASM", DIRECTIVE_ASM},
	{"DEFINE", DIRECTIVE_DEFINE},
	{"ASSIGN", DIRECTIVE_ASSIGN},
}

const (
	MODE_IMP AddressingMode = iota
	MODE_ACC
	MODE_IMM
	MODE_ZP
	MODE_ZPX
	MODE_ZPY
	MODE_ABS
	MODE_ABSX
	MODE_ABSY
	MODE_IND
	MODE_INDX
	MODE_INDY
	MODE_IND16
	MODE_IND16X
	MODE_REL
	MODE_COUNT
)

// Mode not available
const __ = -1

// Opcodes for each addressing mode. Bit 8 marks a mode which only exists on
// the 65C02.
var opcodes = [...]struct {
	Name    string
	CPU     int
	Opcodes [MODE_COUNT]int
}{
	{"ADC", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0x69, 0x65, 0x75, __, 0x6D, 0x7D, 0x79, 0x172, 0x61, 0x71, __, __, __}},
	{"AND", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0x29, 0x25, 0x35, __, 0x2D, 0x3D, 0x39, 0x132, 0x21, 0x31, __, __, __}},
	{"ASL", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x0A, __, 0x06, 0x16, __, 0x0E, 0x1E, __, __, __, __, __, __, __}},
	{"BCC", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x90}},
	{"BCS", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0xB0}},
	{"BEQ", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0xF0}},
	{"BIT", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0x189, 0x24, 0x134, __, 0x2C, 0x13C, __, __, __, __, __, __, __}},
	{"BMI", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x30}},
	{"BNE", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0xD0}},
	{"BPL", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x10}},
	{"BRA", objectcode.CPU_65C02, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x180}},
	{"BRK", objectcode.CPU_6502, [MODE_COUNT]int{0x00, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"BVC", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x50}},
	{"BVS", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, __, __, __, __, __, __, __, __, 0x70}},
	{"CLC", objectcode.CPU_6502, [MODE_COUNT]int{0x18, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"CLD", objectcode.CPU_6502, [MODE_COUNT]int{0xD8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"CLI", objectcode.CPU_6502, [MODE_COUNT]int{0x58, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"CLR", objectcode.CPU_65C02, [MODE_COUNT]int{__, __, __, 0x164, 0x174, __, 0x19C, 0x19E, __, __, __, __, __, __, __}},
	{"CLV", objectcode.CPU_6502, [MODE_COUNT]int{0xB8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"CMP", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xC9, 0xC5, 0xD5, __, 0xCD, 0xDD, 0xD9, 0x1D2, 0xC1, 0xD1, __, __, __}},
	{"CPX", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xE0, 0xE4, __, __, 0xEC, __, __, __, __, __, __, __, __}},
	{"CPY", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xC0, 0xC4, __, __, 0xCC, __, __, __, __, __, __, __, __}},
	{"DEA", objectcode.CPU_65C02, [MODE_COUNT]int{0x13A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"DEC", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x13A, __, 0xC6, 0xD6, __, 0xCE, 0xDE, __, __, __, __, __, __, __}},
	{"DEX", objectcode.CPU_6502, [MODE_COUNT]int{0xCA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"DEY", objectcode.CPU_6502, [MODE_COUNT]int{0x88, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"EOR", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0x49, 0x45, 0x55, __, 0x4D, 0x5D, 0x59, 0x152, 0x41, 0x51, __, __, __}},
	{"INA", objectcode.CPU_65C02, [MODE_COUNT]int{0x11A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"INC", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x11A, __, 0xE6, 0xF6, __, 0xEE, 0xFE, __, __, __, __, __, __, __}},
	{"INX", objectcode.CPU_6502, [MODE_COUNT]int{0xE8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"INY", objectcode.CPU_6502, [MODE_COUNT]int{0xC8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"JMP", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, 0x4C, __, __, __, __, __, 0x6C, 0x17C, __}},
	{"JSR", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, __, __, __, 0x20, __, __, __, __, __, __, __, __}},
	{"LDA", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xA9, 0xA5, 0xB5, __, 0xAD, 0xBD, 0xB9, 0x1B2, 0xA1, 0xB1, __, __, __}},
	{"LDX", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xA2, 0xA6, __, 0xB6, 0xAE, __, 0xBE, __, __, __, __, __, __}},
	{"LDY", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xA0, 0xA4, 0xB4, __, 0xAC, 0xBC, __, __, __, __, __, __, __}},
	{"LSR", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x4A, __, 0x46, 0x56, __, 0x4E, 0x5E, __, __, __, __, __, __, __}},
	{"NOP", objectcode.CPU_6502, [MODE_COUNT]int{0xEA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"ORA", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0x09, 0x05, 0x15, __, 0x0D, 0x1D, 0x19, 0x112, 0x01, 0x11, __, __, __}},
	{"PHA", objectcode.CPU_6502, [MODE_COUNT]int{0x48, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PHP", objectcode.CPU_6502, [MODE_COUNT]int{0x08, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PHX", objectcode.CPU_65C02, [MODE_COUNT]int{0x1DA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PHY", objectcode.CPU_65C02, [MODE_COUNT]int{0x15A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PLA", objectcode.CPU_6502, [MODE_COUNT]int{0x68, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PLP", objectcode.CPU_6502, [MODE_COUNT]int{0x28, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PLX", objectcode.CPU_65C02, [MODE_COUNT]int{0x1FA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"PLY", objectcode.CPU_65C02, [MODE_COUNT]int{0x17A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"ROL", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x2A, __, 0x26, 0x36, __, 0x2E, 0x3E, __, __, __, __, __, __, __}},
	{"ROR", objectcode.CPU_6502, [MODE_COUNT]int{__, 0x6A, __, 0x66, 0x76, __, 0x6E, 0x7E, __, __, __, __, __, __, __}},
	{"RTI", objectcode.CPU_6502, [MODE_COUNT]int{0x40, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"RTS", objectcode.CPU_6502, [MODE_COUNT]int{0x60, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"SBC", objectcode.CPU_6502, [MODE_COUNT]int{__, __, 0xE9, 0xE5, 0xF5, __, 0xED, 0xFD, 0xF9, 0x1F2, 0xE1, 0xF1, __, __, __}},
	{"SEC", objectcode.CPU_6502, [MODE_COUNT]int{0x38, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"SED", objectcode.CPU_6502, [MODE_COUNT]int{0xF8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"SEI", objectcode.CPU_6502, [MODE_COUNT]int{0x78, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"STA", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, 0x85, 0x95, __, 0x8D, 0x9D, 0x99, 0x192, 0x81, 0x91, __, __, __}},
	{"STX", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, 0x86, __, 0x96, 0x8E, __, __, __, __, __, __, __, __}},
	{"STY", objectcode.CPU_6502, [MODE_COUNT]int{__, __, __, 0x84, 0x94, __, 0x8C, __, __, __, __, __, __, __, __}},
	{"STZ", objectcode.CPU_65C02, [MODE_COUNT]int{__, __, __, 0x164, 0x174, __, 0x19C, 0x19E, __, __, __, __, __, __, __}},
	{"TAX", objectcode.CPU_6502, [MODE_COUNT]int{0xAA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"TAY", objectcode.CPU_6502, [MODE_COUNT]int{0xA8, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"TRB", objectcode.CPU_65C02, [MODE_COUNT]int{__, __, __, 0x114, __, __, 0x11C, __, __, __, __, __, __, __, __}},
	{"TSB", objectcode.CPU_65C02, [MODE_COUNT]int{__, __, __, 0x104, __, __, 0x10C, __, __, __, __, __, __, __, __}},
	{"TSX", objectcode.CPU_6502, [MODE_COUNT]int{0xBA, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"TXA", objectcode.CPU_6502, [MODE_COUNT]int{0x8A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"TXS", objectcode.CPU_6502, [MODE_COUNT]int{0x9A, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
	{"TYA", objectcode.CPU_6502, [MODE_COUNT]int{0x98, __, __, __, __, __, __, __, __, __, __, __, __, __, __}},
}
