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

package debugger_test

import (
	"bytes"
	"io"
	"testing"
	"testing/fstest"

	"github.com/lassandro/gobeebasm/pkg/assembler"
	"github.com/lassandro/gobeebasm/pkg/debugger"
)

const program = "ORG &2000\n" +
	".start\n" +
	"  LDX #0\n" +
	".loop\n" +
	"  INX\n" +
	"  BNE loop\n" +
	"  RTS\n"

func newDebugger(t *testing.T) *debugger.Debugger {
	t.Helper()

	files := fstest.MapFS{"prog.6502": {Data: []byte(program)}}
	table := assembler.NewSymTable()

	asm, err := assembler.New(assembler.Options{
		Files:   files,
		Debug:   table,
		Output:  io.Discard,
		Listing: io.Discard,
	})

	if err != nil {
		t.Fatal(err)
	}

	if err := asm.Assemble("prog.6502"); err != nil {
		t.Fatal(err)
	}

	dbg := debugger.New(files, table)
	image := asm.Code().Bytes(0x2000, asm.Code().PC())

	if err := dbg.Load(bytes.NewReader(image), 0x2000); err != nil {
		t.Fatal(err)
	}

	return dbg
}

func TestResolve(t *testing.T) {
	dbg := newDebugger(t)

	cases := []struct {
		Arg  string
		Addr uint16
	}{
		{"&2003", 0x2003},
		{"0x2003", 0x2003},
		{"start", 0x2000},
		{"loop", 0x2002},
	}

	for _, test := range cases {
		t.Run(test.Arg, func(t *testing.T) {
			addr, err := dbg.Resolve(test.Arg)

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if addr != test.Addr {
				t.Fatalf("\nwant: %#04x\nhave: %#04x\n", test.Addr, addr)
			}
		})
	}

	if _, err := dbg.Resolve("missing"); err == nil {
		t.Fatal("expected an error resolving 'missing'")
	}
}

func TestPrintDisasm(t *testing.T) {
	const want = ".start\n" +
		"[&2000] a2 00     LDX #&00\n" +
		".loop\n" +
		"[&2002] e8        INX\n" +
		"[&2003] d0 fd     BNE &2002\n" +
		"[&2005] 60        RTS\n"

	dbg := newDebugger(t)

	var out bytes.Buffer
	next := dbg.PrintDisasm(&out, 0x2000, 4)

	if have := out.String(); have != want {
		t.Fatalf("\nwant:\n%s\nhave:\n%s\n", want, have)
	}

	if next != 0x2006 {
		t.Fatalf("\nwant: %#04x\nhave: %#04x\n", 0x2006, next)
	}
}

func TestPrintSource(t *testing.T) {
	cases := []struct {
		Name  string
		Addr  uint16
		Count int
		Want  string
	}{
		{
			"Instructions", 0x2002, 3,
			"[&2002]   INX\n[&2003]   BNE loop\n[&2005]   RTS\n",
		},
		{
			"Label line", 0x2000, 2,
			"[&2000]   LDX #0\n~~~~~~~ .loop\n",
		},
	}

	dbg := newDebugger(t)

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer

			if err := dbg.PrintSource(&out, test.Addr, test.Count); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if have := out.String(); have != test.Want {
				t.Fatalf("\nwant:\n%s\nhave:\n%s\n", test.Want, have)
			}
		})
	}

	var out bytes.Buffer

	if err := dbg.PrintSource(&out, 0x2001, 1); err == nil {
		t.Fatal("expected an error for an operand address")
	}
}

func TestPrintSourceMissingFile(t *testing.T) {
	dbg := newDebugger(t)
	dbg.Files = fstest.MapFS{}

	var out bytes.Buffer

	if err := dbg.PrintSource(&out, 0x2000, 1); err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}

func TestPrintMem(t *testing.T) {
	const want = "[&2000] a2 00 e8 d0\n[&2004] fd 60\n"

	dbg := newDebugger(t)

	var out bytes.Buffer
	dbg.PrintMem(&out, 0x2000, 6, 4)

	if have := out.String(); have != want {
		t.Fatalf("\nwant:\n%s\nhave:\n%s\n", want, have)
	}
}

func TestPatches(t *testing.T) {
	dbg := newDebugger(t)

	dbg.Set(0x2002, 0xEA)
	dbg.Set(0x2005, 0x00)

	if have := dbg.Image()[2]; have != 0xEA {
		t.Fatalf("\nwant: %#02x\nhave: %#02x\n", 0xEA, have)
	}

	if err := dbg.Revert(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if have := dbg.Memory[0x2002]; have != 0xE8 {
		t.Fatalf("\nwant: %#02x\nhave: %#02x\n", 0xE8, have)
	}

	if len(dbg.Patches) != 1 {
		t.Fatalf("\nwant: 1 patch\nhave: %d patches\n", len(dbg.Patches))
	}

	dbg.Reset()

	if have := dbg.Memory[0x2005]; have != 0x60 {
		t.Fatalf("\nwant: %#02x\nhave: %#02x\n", 0x60, have)
	}

	if err := dbg.Revert(0); err == nil {
		t.Fatal("expected an error reverting with no patches")
	}
}

func TestLoadTooLarge(t *testing.T) {
	dbg := debugger.New(fstest.MapFS{}, nil)

	if err := dbg.Load(bytes.NewReader(make([]byte, 0x20)), 0xFFF0); err == nil {
		t.Fatal("expected an error loading past the end of memory")
	}
}
