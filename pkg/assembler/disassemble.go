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
	"fmt"

	"github.com/lassandro/gobeebasm/pkg/objectcode"
)

type decoded struct {
	name string
	mode AddressingMode
	cpu  int
}

var decodeTable [0x100]*decoded

func init() {
	for _, op := range opcodes {
		for mode, code := range op.Opcodes {
			if code == __ {
				continue
			}

			cpu := code >> 8

			if op.CPU > cpu {
				cpu = op.CPU
			}

			if decodeTable[code&0xFF] == nil {
				decodeTable[code&0xFF] = &decoded{
					op.Name, AddressingMode(mode), cpu,
				}
			}
		}
	}
}

func operandSize(mode AddressingMode) int {
	switch mode {
	case MODE_IMP, MODE_ACC:
		return 0
	case MODE_ABS, MODE_ABSX, MODE_ABSY, MODE_IND16, MODE_IND16X:
		return 2
	default:
		return 1
	}
}

// Disassemble decodes the instruction at the start of code, which was
// assembled at pc. It returns the instruction text and its length in bytes.
// Bytes that do not start an instruction of cpu come back as EQUB.
func Disassemble(code []byte, pc uint16, cpu int) (string, int) {
	if len(code) == 0 {
		return "", 0
	}

	op := decodeTable[code[0]]

	if op == nil || op.cpu > cpu || len(code) < operandSize(op.mode)+1 {
		return fmt.Sprintf("EQUB &%02X", code[0]), 1
	}

	var word uint16
	var zp byte

	switch operandSize(op.mode) {
	case 1:
		zp = code[1]
	case 2:
		word = uint16(code[1]) | uint16(code[2])<<8
	}

	var operand string

	switch op.mode {
	case MODE_IMP:
		return op.name, 1
	case MODE_ACC:
		operand = "A"
	case MODE_IMM:
		operand = fmt.Sprintf("#&%02X", zp)
	case MODE_ZP:
		operand = fmt.Sprintf("&%02X", zp)
	case MODE_ZPX:
		operand = fmt.Sprintf("&%02X,X", zp)
	case MODE_ZPY:
		operand = fmt.Sprintf("&%02X,Y", zp)
	case MODE_ABS:
		operand = fmt.Sprintf("&%04X", word)
	case MODE_ABSX:
		operand = fmt.Sprintf("&%04X,X", word)
	case MODE_ABSY:
		operand = fmt.Sprintf("&%04X,Y", word)
	case MODE_IND:
		operand = fmt.Sprintf("(&%02X)", zp)
	case MODE_INDX:
		operand = fmt.Sprintf("(&%02X,X)", zp)
	case MODE_INDY:
		operand = fmt.Sprintf("(&%02X),Y", zp)
	case MODE_IND16:
		operand = fmt.Sprintf("(&%04X)", word)
	case MODE_IND16X:
		operand = fmt.Sprintf("(&%04X,X)", word)
	case MODE_REL:
		target := int(pc) + 2 + int(int8(zp))
		operand = fmt.Sprintf("&%04X", target&(objectcode.MEMORY_SIZE-1))
	}

	return op.name + " " + operand, operandSize(op.mode) + 1
}
