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

// Package objectcode holds the 64K memory image that assembled code is
// written into, with the flags that police overlapping writes, guarded
// addresses and code that changes between passes.
package objectcode

import (
	"io"

	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
)

// PCPublisher is told the program counter after every write, so that P%
// stays current.
type PCPublisher interface {
	SetPC(pc int)
}

type Buffer struct {
	memory     [MEMORY_SIZE]byte
	flags      [MEMORY_SIZE]byte
	mapping    [MAP_LAST - MAP_FIRST + 1]byte
	pc         int
	cpu        int
	secondPass bool
	publisher  PCPublisher
}

func NewBuffer(publisher PCPublisher) *Buffer {
	buffer := &Buffer{publisher: publisher}
	buffer.resetMapping()
	return buffer
}

func (buffer *Buffer) resetMapping() {
	for i := range buffer.mapping {
		buffer.mapping[i] = byte(MAP_FIRST + i)
	}
}

// BeginPass prepares the buffer for a new pass. The memory image and the
// CHECK flags of the previous pass are kept for the consistency check, as
// are guard points.
func (buffer *Buffer) BeginPass(secondPass bool) {
	buffer.Clear(0, MEMORY_SIZE, false)
	buffer.resetMapping()
	buffer.secondPass = secondPass
	buffer.pc = 0
	buffer.cpu = CPU_6502
	buffer.publish()
}

func (buffer *Buffer) publish() {
	if buffer.publisher != nil {
		buffer.publisher.SetPC(buffer.pc)
	}
}

func (buffer *Buffer) PC() int {
	return buffer.pc
}

func (buffer *Buffer) SetPC(pc int) {
	buffer.pc = pc
	buffer.publish()
}

func (buffer *Buffer) CPU() int {
	return buffer.cpu
}

func (buffer *Buffer) SetCPU(cpu int) {
	buffer.cpu = cpu
}

func (buffer *Buffer) IsUsed(addr int) bool {
	return buffer.flags[addr]&USED != 0
}

func (buffer *Buffer) IsGuarded(addr int) bool {
	return buffer.flags[addr]&GUARD != 0
}

// Checks that count bytes can be written at the program counter. An opcode
// is the first byte of the run.
func (buffer *Buffer) check(count int, opcode bool, first byte) error {
	if buffer.pc > MEMORY_SIZE-count {
		return asmerr.Raise(asmerr.ERR_OUT_OF_MEMORY)
	}

	flags := buffer.flags[buffer.pc]

	if opcode && buffer.secondPass && flags&CHECK != 0 && flags&DONT_CHECK == 0 &&
		buffer.memory[buffer.pc] != first {
		return asmerr.Raise(asmerr.ERR_INCONSISTENT_CODE)
	}

	for i := 0; i < count; i++ {
		if buffer.flags[buffer.pc+i]&GUARD != 0 {
			return asmerr.Raise(asmerr.ERR_GUARD_HIT)
		}
	}

	for i := 0; i < count; i++ {
		if buffer.flags[buffer.pc+i]&USED != 0 {
			return asmerr.Raise(asmerr.ERR_OVERLAP)
		}
	}

	return nil
}

func (buffer *Buffer) put(b byte, flags byte) {
	buffer.flags[buffer.pc] |= flags
	buffer.memory[buffer.pc] = b
	buffer.pc++
}

// PutByte writes a data byte. Data is never checked against the previous
// pass.
func (buffer *Buffer) PutByte(b byte) error {
	if err := buffer.check(1, false, 0); err != nil {
		return err
	}

	buffer.put(b, USED)
	buffer.publish()
	return nil
}

func (buffer *Buffer) Assemble1(opcode byte) error {
	if err := buffer.check(1, true, opcode); err != nil {
		return err
	}

	buffer.put(opcode, USED|CHECK)
	buffer.publish()
	return nil
}

func (buffer *Buffer) Assemble2(opcode, value byte) error {
	if err := buffer.check(2, true, opcode); err != nil {
		return err
	}

	buffer.put(opcode, USED|CHECK)
	buffer.put(value, USED)
	buffer.publish()
	return nil
}

func (buffer *Buffer) Assemble3(opcode byte, addr uint16) error {
	if err := buffer.check(3, true, opcode); err != nil {
		return err
	}

	buffer.put(opcode, USED|CHECK)
	buffer.put(byte(addr), USED)
	buffer.put(byte(addr>>8), USED)
	buffer.publish()
	return nil
}

func (buffer *Buffer) SetGuard(addr int) {
	buffer.flags[addr] |= GUARD
}

// Clear releases the range [start, end). With all set, as the CLEAR
// directive does, the memory is also zeroed and no longer checked against
// the previous pass.
func (buffer *Buffer) Clear(start, end int, all bool) {
	if all {
		for i := start; i < end; i++ {
			buffer.memory[i] = 0
			buffer.flags[i] = DONT_CHECK
		}
		return
	}

	for i := start; i < end; i++ {
		buffer.flags[i] &= CHECK | DONT_CHECK | GUARD
	}
}

// CopyBlock moves the assembled bytes in [start, end) to dest, along with
// their flags.
func (buffer *Buffer) CopyBlock(start, end, dest int) error {
	length := end - start

	if length < 0 {
		return asmerr.Raise(asmerr.ERR_OUT_OF_RANGE)
	}

	if dest+length > MEMORY_SIZE {
		return asmerr.Raise(asmerr.ERR_OUT_OF_MEMORY)
	}

	for i := dest; i < dest+length; i++ {
		if buffer.flags[i]&GUARD != 0 {
			return asmerr.Raise(asmerr.ERR_GUARD_HIT)
		}
	}

	copy(buffer.memory[dest:dest+length], buffer.memory[start:end])

	for i := 0; i < length; i++ {
		buffer.flags[dest+i] |= buffer.flags[start+i] &^ GUARD
	}

	return nil
}

// IncBin assembles the whole of r at the program counter.
func (buffer *Buffer) IncBin(r io.Reader) error {
	data, err := io.ReadAll(r)

	if err != nil {
		return errors.WithMessage(asmerr.Raise(asmerr.ERR_FILE_READ), err.Error())
	}

	for _, b := range data {
		if err := buffer.Assemble1(b); err != nil {
			return err
		}
	}

	return nil
}

// SetMapping makes ascii, a printable character, assemble as mapped in
// strings.
func (buffer *Buffer) SetMapping(ascii int, mapped byte) {
	buffer.mapping[ascii-MAP_FIRST] = mapped
}

// Mapping translates a string byte. Bytes outside the printable range are
// never remapped.
func (buffer *Buffer) Mapping(b byte) byte {
	if b < MAP_FIRST || b > MAP_LAST {
		return b
	}

	return buffer.mapping[b-MAP_FIRST]
}

// Bytes returns a copy of the image in [start, end).
func (buffer *Buffer) Bytes(start, end int) []byte {
	data := make([]byte, end-start)
	copy(data, buffer.memory[start:end])
	return data
}
