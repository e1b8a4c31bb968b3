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
	"strings"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
)

func (p *lineParser) hasMode(instruction int, mode AddressingMode) bool {
	op := opcodes[instruction].Opcodes[mode]
	return op != __ && op>>8 <= p.asm.code.CPU()
}

func (p *lineParser) opcode(instruction int, mode AddressingMode) byte {
	return byte(opcodes[instruction].Opcodes[mode])
}

// Reports whether the statement ends once spaces are skipped.
func (p *lineParser) atEnd() bool {
	return !p.advance()
}

func (p *lineParser) peekUpper(c byte) bool {
	return p.column < len(p.line) && p.line[p.column]&^0x20 == c
}

// Finds the addressing mode from the operand and assembles the instruction.
func (p *lineParser) handleInstruction(instruction int) error {
	start := p.column

	if p.atEnd() {
		if !p.hasMode(instruction, MODE_IMP) {
			return p.errorAt(asmerr.ERR_NO_IMPLIED, start)
		}

		return p.assemble1(instruction, MODE_IMP)
	}

	if p.peek('#') {
		return p.handleImmediate(instruction)
	}

	if p.peekUpper('A') && p.hasMode(instruction, MODE_ACC) {
		// Otherwise A starts a symbol name
		accumulator := p.column
		p.column++

		if p.atEnd() {
			return p.assemble1(instruction, MODE_ACC)
		}

		p.column = accumulator
	}

	if p.peek('(') {
		return p.handleIndirect(instruction)
	}

	return p.handleAbsolute(instruction)
}

func (p *lineParser) handleImmediate(instruction int) error {
	if !p.hasMode(instruction, MODE_IMM) {
		return p.errorAt(asmerr.ERR_NO_IMMEDIATE, p.column)
	}

	p.column++
	start := p.column
	value, _, err := p.integerOrUndefined(false)

	if err != nil {
		return err
	}

	if value > 0xFF {
		return p.errorAt(asmerr.ERR_IMM_TOO_LARGE, start)
	}

	if value < 0 {
		return p.errorAt(asmerr.ERR_IMM_NEGATIVE, start)
	}

	if err := p.rejectComma(); err != nil {
		return err
	}

	return p.assemble2(instruction, MODE_IMM, value)
}

// Checks an indirect operand is a zero page address.
func (p *lineParser) zeroPage(value, start int) error {
	if value > 0xFF {
		return p.errorAt(asmerr.ERR_NOT_ZERO_PAGE, start+1)
	}

	if value < 0 {
		return p.errorAt(asmerr.ERR_BAD_ADDRESS, start+1)
	}

	return nil
}

// Handles (zp), (zp),Y, (zp,X), (abs) and (abs,X).
func (p *lineParser) handleIndirect(instruction int) error {
	start := p.column
	p.column++

	// The closing bracket belongs to the operand, not the expression
	value, _, err := p.integerOrUndefined(true)

	if err != nil {
		return err
	}

	switch {
	case p.peek(')'):
		p.column++

		if p.atEnd() {
			if p.hasMode(instruction, MODE_IND16) {
				if value&0xFF == 0xFF {
					return p.errorAt(asmerr.ERR_6502_BUG, start+1)
				}

				return p.assemble3(instruction, MODE_IND16, value)
			}

			if !p.hasMode(instruction, MODE_IND) {
				return p.errorAt(asmerr.ERR_NO_INDIRECT, start)
			}

			if err := p.zeroPage(value, start); err != nil {
				return err
			}

			return p.assemble2(instruction, MODE_IND, value)
		}

		if !p.peek(',') {
			return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
		}

		p.column++

		if p.atEnd() || !p.peekUpper('Y') {
			return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
		}

		p.column++

		if !p.atEnd() {
			return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
		}

		if !p.hasMode(instruction, MODE_INDY) {
			return p.errorAt(asmerr.ERR_NO_INDIRECT, start)
		}

		if err := p.zeroPage(value, start); err != nil {
			return err
		}

		return p.assemble2(instruction, MODE_INDY, value)

	case p.peek(','):
		p.column++

		if p.atEnd() || !p.peekUpper('X') {
			return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
		}

		p.column++

		if p.atEnd() || !p.peek(')') {
			return p.errorAt(asmerr.ERR_MISMATCHED_PARENTHESES, p.column)
		}

		p.column++

		if !p.atEnd() {
			return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
		}

		if p.hasMode(instruction, MODE_IND16X) {
			return p.assemble3(instruction, MODE_IND16X, value)
		}

		if !p.hasMode(instruction, MODE_INDX) {
			return p.errorAt(asmerr.ERR_NO_INDIRECT, start)
		}

		if err := p.zeroPage(value, start); err != nil {
			return err
		}

		return p.assemble2(instruction, MODE_INDX, value)
	}

	return p.errorAt(asmerr.ERR_BAD_INDIRECT, p.column)
}

// Handles zp, abs and their indexed forms, and branches.
func (p *lineParser) handleAbsolute(instruction int) error {
	start := p.column
	pc := p.asm.code.PC()

	value, anonymous, err := p.anonymousReference()

	if err != nil {
		return err
	}

	if !anonymous {
		var undefined bool

		if value, undefined, err = p.integerOrUndefined(false); err != nil {
			return err
		}

		if undefined {
			value = pc
		}
	}

	// A forward reference may resolve to an outer label of the same name
	// on the first pass, so branches assume they are in range until the
	// second.
	if p.hasMode(instruction, MODE_REL) && p.asm.FirstPass() {
		value = pc
	}

	if p.atEnd() {
		if p.hasMode(instruction, MODE_REL) {
			return p.branch(instruction, value, start)
		}

		if value < 0 || value > 0xFFFF {
			return p.errorAt(asmerr.ERR_BAD_ADDRESS, start)
		}

		if value < 0x100 && p.hasMode(instruction, MODE_ZP) {
			return p.assemble2(instruction, MODE_ZP, value)
		}

		if !p.hasMode(instruction, MODE_ABS) {
			return p.errorAt(asmerr.ERR_NO_ABSOLUTE, start)
		}

		return p.assemble3(instruction, MODE_ABS, value)
	}

	if !p.peek(',') {
		return p.errorAt(asmerr.ERR_BAD_ABSOLUTE, p.column)
	}

	p.column++

	if p.atEnd() {
		return p.errorAt(asmerr.ERR_BAD_ABSOLUTE, p.column)
	}

	zp, abs, missing := MODE_ZPX, MODE_ABSX, asmerr.ERR_NO_INDEXED_X

	switch {
	case p.peekUpper('X'):
	case p.peekUpper('Y'):
		zp, abs, missing = MODE_ZPY, MODE_ABSY, asmerr.ERR_NO_INDEXED_Y
	default:
		return p.errorAt(asmerr.ERR_BAD_INDEXED, p.column)
	}

	p.column++

	if !p.atEnd() {
		return p.errorAt(asmerr.ERR_BAD_INDEXED, p.column)
	}

	if value < 0 || value > 0xFFFF {
		return p.errorAt(asmerr.ERR_BAD_ADDRESS, start)
	}

	if value < 0x100 && p.hasMode(instruction, zp) {
		return p.assemble2(instruction, zp, value)
	}

	if !p.hasMode(instruction, abs) {
		return p.errorAt(missing, start)
	}

	return p.assemble3(instruction, abs, value)
}

func (p *lineParser) branch(instruction, target, start int) error {
	distance := target - (p.asm.code.PC() + 2)

	if distance < -128 || distance > 127 {
		err := p.errorAt(asmerr.ERR_BRANCH_OUT_OF_RANGE, start).(*asmerr.SyntaxError)

		if distance < 0 {
			err.Extra = fmt.Sprintf(" (Branch distance is %d bytes; %d more than the maximum -128.)", distance, -distance-128)
		} else {
			err.Extra = fmt.Sprintf(" (Branch distance is %d bytes; %d more than the maximum 127.)", distance, distance-127)
		}

		return err
	}

	return p.assemble2(instruction, MODE_REL, distance&0xFF)
}

func (p *lineParser) assemble1(instruction int, mode AddressingMode) error {
	op := p.opcode(instruction, mode)

	if p.listing() {
		accumulator := ""

		if mode == MODE_ACC {
			accumulator = " A"
		}

		p.listf("     %04X   %02X         %s%s\n", p.asm.code.PC(), op, opcodes[instruction].Name, accumulator)
	}

	p.asm.trace(p.unit)
	return p.locate(p.asm.code.Assemble1(op))
}

func (p *lineParser) assemble2(instruction int, mode AddressingMode, value int) error {
	op := p.opcode(instruction, mode)
	pc := p.asm.code.PC()

	if p.listing() {
		var operand strings.Builder

		switch mode {
		case MODE_IMM:
			operand.WriteString("#")
		case MODE_IND, MODE_INDX, MODE_INDY:
			operand.WriteString("(")
		}

		if mode == MODE_REL {
			fmt.Fprintf(&operand, "&%04X", pc+2+int(int8(value)))
		} else {
			fmt.Fprintf(&operand, "&%02X", value)
		}

		switch mode {
		case MODE_ZPX:
			operand.WriteString(",X")
		case MODE_ZPY:
			operand.WriteString(",Y")
		case MODE_IND:
			operand.WriteString(")")
		case MODE_INDX:
			operand.WriteString(",X)")
		case MODE_INDY:
			operand.WriteString("),Y")
		}

		p.listf("     %04X   %02X %02X      %s %s\n", pc, op, value, opcodes[instruction].Name, operand.String())
	}

	p.asm.trace(p.unit)
	return p.locate(p.asm.code.Assemble2(op, byte(value)))
}

func (p *lineParser) assemble3(instruction int, mode AddressingMode, value int) error {
	op := p.opcode(instruction, mode)

	if p.listing() {
		operand := fmt.Sprintf("&%04X", value)

		switch mode {
		case MODE_ABSX:
			operand += ",X"
		case MODE_ABSY:
			operand += ",Y"
		case MODE_IND16:
			operand = "(" + operand + ")"
		case MODE_IND16X:
			operand = "(" + operand + ",X)"
		}

		p.listf("     %04X   %02X %02X %02X   %s %s\n",
			p.asm.code.PC(), op, value&0xFF, (value>>8)&0xFF, opcodes[instruction].Name, operand)
	}

	p.asm.trace(p.unit)
	return p.locate(p.asm.code.Assemble3(op, uint16(value)))
}
