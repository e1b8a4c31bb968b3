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

package assembler_test

import (
	"testing"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/objectcode"
)

type disasmCase struct {
	Name string
	Code []byte
	PC   uint16
	CPU  int
	Text string
	Size int
}

func TestDisassemble(t *testing.T) {
	cases := []disasmCase{
		{"Implied", []byte{0x60}, 0x1000, objectcode.CPU_6502, "RTS", 1},
		{"Accumulator", []byte{0x0A}, 0x1000, objectcode.CPU_6502, "ASL A", 1},
		{"Immediate", []byte{0xA9, 0x2A}, 0x1000, objectcode.CPU_6502, "LDA #&2A", 2},
		{"Zero page", []byte{0x85, 0x70}, 0x1000, objectcode.CPU_6502, "STA &70", 2},
		{"Zero page Y", []byte{0xB6, 0x70}, 0x1000, objectcode.CPU_6502, "LDX &70,Y", 2},
		{"Absolute X", []byte{0xBD, 0x00, 0x30}, 0x1000, objectcode.CPU_6502, "LDA &3000,X", 3},
		{"Indirect Y", []byte{0xB1, 0x70}, 0x1000, objectcode.CPU_6502, "LDA (&70),Y", 2},
		{"Indirect X", []byte{0xA1, 0x70}, 0x1000, objectcode.CPU_6502, "LDA (&70,X)", 2},
		{"Indirect jump", []byte{0x6C, 0x34, 0x12}, 0x1000, objectcode.CPU_6502, "JMP (&1234)", 3},
		{"Branch back", []byte{0xD0, 0xFD}, 0x1001, objectcode.CPU_6502, "BNE &1000", 2},
		{"Branch forward", []byte{0xF0, 0x01}, 0x1003, objectcode.CPU_6502, "BEQ &1006", 2},
		{"65C02 on 6502", []byte{0x64, 0x70}, 0x1000, objectcode.CPU_6502, "EQUB &64", 1},
		{"65C02", []byte{0x64, 0x70}, 0x1000, objectcode.CPU_65C02, "STZ &70", 2},
		{"65C02 indirect", []byte{0xB2, 0x70}, 0x1000, objectcode.CPU_65C02, "LDA (&70)", 2},
		{"Truncated", []byte{0x20, 0x00}, 0x1000, objectcode.CPU_6502, "EQUB &20", 1},
		{"Unknown", []byte{0x02}, 0x1000, objectcode.CPU_6502, "EQUB &02", 1},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			text, size := assembler.Disassemble(test.Code, test.PC, test.CPU)

			if text != test.Text || size != test.Size {
				t.Fatalf(
					"\nwant: %q (%d)\nhave: %q (%d)\n",
					test.Text, test.Size, text, size,
				)
			}
		})
	}
}

func TestDisassembleAssembled(t *testing.T) {
	const input = "ORG &2000\n" +
		".start LDX #0\n" +
		".loop LDA &3000,X\nSTA (&70),Y\nINX\nBNE loop\nJMP start\n"

	want := []string{
		"LDX #&00",
		"LDA &3000,X",
		"STA (&70),Y",
		"INX",
		"BNE &2002",
		"JMP &2000",
	}

	asm := newAssembler(t, assembler.Options{})

	if err := asm.AssembleSource("test.6502", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	code := asm.Code().Bytes(0x2000, asm.Code().PC())
	pc := 0x2000

	for i, line := range want {
		text, size := assembler.Disassemble(
			code[pc-0x2000:], uint16(pc), objectcode.CPU_6502,
		)

		if text != line {
			t.Fatalf("line %d\nwant: %s\nhave: %s\n", i, line, text)
		}

		pc += size
	}

	if pc != asm.Code().PC() {
		t.Fatalf("\nwant: %#04x\nhave: %#04x\n", asm.Code().PC(), pc)
	}
}
