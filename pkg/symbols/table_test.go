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

package symbols_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

// A fixed stack of (id, count) frames standing in for a source unit
type frames [][2]int

func (f frames) ForLevel() int {
	return len(f)
}

func (f frames) ScopedName(name string, level int) symbols.ScopedName {
	if level == 0 {
		return symbols.TopLevel(name)
	}

	return symbols.ScopedName{Name: name, ID: f[level-1][0], Count: f[level-1][1]}
}

func TestBuiltins(t *testing.T) {
	table := symbols.NewTable()

	tests := []struct {
		Name  string
		Value float64
	}{
		{"PI", math.Pi},
		{"P%", 0},
		{"TRUE", -1},
		{"FALSE", 0},
	}

	for _, test := range tests {
		value, exists := table.Get(symbols.TopLevel(test.Name))

		if !exists {
			t.Fatalf("Missing builtin '%s'", test.Name)
		}

		if value.Number != test.Value {
			t.Fatalf("Builtin mismatch\nwant:%v\nhave:%v", test.Value, value.Number)
		}
	}

	table.SetPC(0x1900)

	if value, _ := table.Get(symbols.TopLevel("P%")); value.Number != 0x1900 {
		t.Fatalf("P%% mismatch\nwant:%#04x\nhave:%v", 0x1900, value.Number)
	}
}

func TestDefine(t *testing.T) {
	table := symbols.NewTable()
	name := symbols.ScopedName{Name: "loop", ID: 3, Count: 1}

	if err := table.Define(name, symbols.Number(1), true); err != nil {
		t.Fatal(err)
	}

	err := table.Define(name, symbols.Number(2), true)

	if !asmerr.Is(err, asmerr.ERR_LABEL_ALREADY_DEFINED) {
		t.Fatalf("Redefinition error mismatch\nwant:%v\nhave:%v",
			asmerr.ERR_LABEL_ALREADY_DEFINED, err)
	}

	// The same name in another iteration is a distinct binding
	other := symbols.ScopedName{Name: "loop", ID: 3, Count: 2}

	if err := table.Define(other, symbols.Number(2), true); err != nil {
		t.Fatal(err)
	}

	if err := table.Rebind(symbols.TopLevel("nothing"), symbols.Number(0)); !asmerr.Is(err, asmerr.ERR_SYMBOL_NOT_DEFINED) {
		t.Fatalf("Rebind error mismatch\nwant:%v\nhave:%v",
			asmerr.ERR_SYMBOL_NOT_DEFINED, err)
	}

	table.RemoveScope(3)

	if table.IsDefined(name) || table.IsDefined(other) {
		t.Fatal("Scope was not removed")
	}
}

func TestLookup(t *testing.T) {
	table := symbols.NewTable()
	scope := frames{{0, 0}, {1, 2}}

	table.Define(symbols.TopLevel("x"), symbols.Number(1), false)
	table.Define(scope.ScopedName("x", 1), symbols.Number(2), false)
	table.Define(scope.ScopedName("y", 0), symbols.Number(3), false)

	tests := []struct {
		Name  string
		Scope frames
		Want  float64
	}{
		{"x", scope, 2},
		{"x", scope[:1], 2},
		{"x", frames{}, 1},
		{"y", scope, 3},
		{"x", frames{{0, 1}}, 1},
	}

	for _, test := range tests {
		value, exists := table.Lookup(test.Name, test.Scope)

		if !exists {
			t.Fatalf("Lookup of '%s' failed", test.Name)
		}

		if value.Number != test.Want {
			t.Fatalf("Lookup mismatch for '%s'\nwant:%v\nhave:%v",
				test.Name, test.Want, value.Number)
		}
	}

	if _, exists := table.Lookup("z", scope); exists {
		t.Fatal("Lookup of undefined symbol succeeded")
	}
}

func TestCommandLine(t *testing.T) {
	table := symbols.NewTable()

	if err := table.DefineCommandLine("DEBUG=&10"); err != nil {
		t.Fatal(err)
	}

	if err := table.DefineCommandLine("RELEASE"); err != nil {
		t.Fatal(err)
	}

	if err := table.DefineCommandLineString("NAME=Elite"); err != nil {
		t.Fatal(err)
	}

	if value, _ := table.Get(symbols.TopLevel("DEBUG")); value.Number != 16 {
		t.Fatalf("Value mismatch\nwant:16\nhave:%v", value.Number)
	}

	if value, _ := table.Get(symbols.TopLevel("RELEASE")); value.Number != -1 {
		t.Fatalf("Value mismatch\nwant:-1\nhave:%v", value.Number)
	}

	if value, _ := table.Get(symbols.TopLevel("NAME")); value.Text != "Elite" {
		t.Fatalf("Value mismatch\nwant:Elite\nhave:%v", value.Text)
	}

	for _, bad := range []string{"1X=2", "X=abc", "=3", "X Y=1"} {
		if err := table.DefineCommandLine(bad); err == nil {
			t.Fatalf("Invalid definition accepted: %q", bad)
		}
	}
}

func TestDump(t *testing.T) {
	table := symbols.NewTable()

	table.Define(symbols.TopLevel("start"), symbols.Number(0x1900), true)
	table.Define(symbols.TopLevel("end"), symbols.Number(0x1A00), true)
	table.Define(symbols.TopLevel("size"), symbols.Number(256), false)
	table.Define(symbols.ScopedName{Name: "loop", ID: 0, Count: 0}, symbols.Number(0x1905), true)

	var buffer bytes.Buffer

	if err := table.Dump(&buffer, false); err != nil {
		t.Fatal(err)
	}

	want := "[{'end':6656L,'start':6400L}]\n"

	if have := buffer.String(); have != want {
		t.Fatalf("Dump mismatch\nwant:%s\nhave:%s", want, have)
	}

	buffer.Reset()
	table.Dump(&buffer, true)

	want = "[{'end':6656L,'loop@0_0':6405L,'start':6400L}]\n"

	if have := buffer.String(); have != want {
		t.Fatalf("Dump mismatch\nwant:%s\nhave:%s", want, have)
	}
	// A removed scope keeps its labels in the full dump only
	table.RemoveScope(0)
	buffer.Reset()
	table.Dump(&buffer, true)

	if have := buffer.String(); have != want {
		t.Fatalf("Dump mismatch\nwant:%s\nhave:%s", want, have)
	}

	buffer.Reset()
	table.Dump(&buffer, false)

	if have, want := buffer.String(), "[{'end':6656L,'start':6400L}]\n"; have != want {
		t.Fatalf("Dump mismatch\nwant:%s\nhave:%s", want, have)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		Value float64
		Want  string
	}{
		{0, "0"},
		{-1, "-1"},
		{4294967295, "4294967295"},
		{0.5, "0.5"},
		{math.Pi, "3.14159"},
		{1e10, "1e+10"},
	}

	for _, test := range tests {
		if have := symbols.FormatNumber(test.Value); have != test.Want {
			t.Fatalf("Format mismatch\nwant:%s\nhave:%s", test.Want, have)
		}
	}
}

func TestCompare(t *testing.T) {
	if symbols.Compare(symbols.Number(1), symbols.Number(2)) != -1 {
		t.Fatal("1 should order before 2")
	}

	if symbols.Compare(symbols.Text("abc"), symbols.Text("ab")) != 1 {
		t.Fatal("abc should order after ab")
	}

	if symbols.Compare(symbols.Text("x"), symbols.Text("x")) != 0 {
		t.Fatal("Equal strings should compare equal")
	}
}
