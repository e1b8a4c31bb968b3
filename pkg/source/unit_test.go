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

package source_test

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/macro"
	"github.com/lassandro/gobeebasm/pkg/source"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

type context struct {
	table     *symbols.Table
	macros    *macro.Table
	firstPass bool
	finalPass bool
	nextID    int
}

func (ctx *context) Symbols() *symbols.Table { return ctx.table }
func (ctx *context) Macros() *macro.Table { return ctx.macros }
func (ctx *context) FirstPass() bool { return ctx.firstPass }
func (ctx *context) FinalPass() bool { return ctx.finalPass }
func (ctx *context) ScopeChanged() {}

func (ctx *context) NextForID() int {
	id := ctx.nextID
	ctx.nextID++
	return id
}

func (ctx *context) beginPass(first, final bool) {
	ctx.firstPass = first
	ctx.finalPass = final
	ctx.nextID = 0
}

func newContext() *context {
	return &context{
		table:     symbols.NewTable(),
		macros:    macro.NewTable(),
		firstPass: true,
	}
}

// A miniature statement language over the control engine. Statements are
// separated by colons:
//
//	FOR v start end [step], NEXT, {, }, IF n, ELIF n, ELSE, ENDIF,
//	MACRO name [param], ENDMACRO, CALL name [arg], DEF name, EMIT name
type recorder struct {
	output []string
}

func (r *recorder) ProcessLine(unit *source.Unit, text string, column int) error {
	for column < len(text) {
		for column < len(text) && text[column] == ' ' {
			column++
		}

		end := strings.IndexByte(text[column:], ':')

		if end < 0 {
			end = len(text)
		} else {
			end += column
		}

		next := end + 1

		if err := r.statement(unit, text, column, end, next); err != nil {
			return err
		}

		if unit.Jumped() {
			return nil
		}

		column = next
	}

	return nil
}

func number(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func (r *recorder) statement(unit *source.Unit, text string, column, end, next int) error {
	fields := strings.Fields(text[column:end])

	if len(fields) == 0 {
		return nil
	}

	ctx := unit.Context()
	active := unit.IsIfConditionTrue()

	switch fields[0] {
	case "IF":
		if err := unit.PushIf(text, column); err != nil {
			return err
		}

		if active {
			unit.SetCondition(number(fields[1]) != 0)
		}
		return nil

	case "ELIF":
		if err := unit.StartElif(text, column); err != nil {
			return err
		}

		if unit.IsIfConditionTrue() {
			unit.SetCondition(number(fields[1]) != 0)
		}
		return nil

	case "ELSE":
		return unit.StartElse(text, column)

	case "ENDIF":
		return unit.PopIf(text, column)

	case "MACRO":
		if err := unit.StartMacro(text, column); err != nil {
			return err
		}

		if m := unit.CurrentMacro(); m != nil {
			m.Name = fields[1]

			for _, param := range fields[2:] {
				m.AddParameter(param)
			}

			if end == len(text) {
				m.AddLine("\n")
			}
		}

		unit.SetCondition(false)
		return nil

	case "ENDMACRO":
		return unit.EndMacro(text, column)
	}

	if !active {
		if end == len(text) {
			unit.Capture(text[column:end] + "\n")
		} else {
			unit.Capture(text[column:next])
		}
		return nil
	}

	switch fields[0] {
	case "FOR":
		step := 1.0

		if len(fields) > 4 {
			step = number(fields[4])
		}

		return unit.OpenFor(
			fields[1],
			number(fields[2]),
			number(fields[3]),
			step,
			unit.Here(next),
			text,
			column,
		)

	case "NEXT":
		_, err := unit.CloseFor(text, column)
		return err

	case "{":
		return unit.OpenBrace(text, column)

	case "}":
		return unit.CloseBrace(text, column)

	case "DEF":
		if !ctx.FirstPass() {
			return nil
		}

		name := unit.ScopedName(fields[1], unit.ForLevel())
		value := symbols.Number(float64(len(r.output)))
		return ctx.Symbols().Define(name, value, true)

	case "EMIT":
		if value, ok := unit.Lookup(fields[1]); ok {
			r.output = append(r.output, value.String())
		} else {
			r.output = append(r.output, "?"+fields[1])
		}
		return nil

	case "CALL":
		m, _ := ctx.Macros().Get(fields[1])

		if err := unit.OpenBrace(text, column); err != nil {
			return err
		}

		for i, param := range m.Params {
			name := unit.ScopedName(param, unit.ForLevel())
			ctx.Symbols().Assign(name, symbols.Number(number(fields[2+i])))
		}

		if err := source.NewMacroUnit(m, unit).Process(r); err != nil {
			return err
		}

		return unit.CloseBrace(text, column)
	}

	return asmerr.New(asmerr.ERR_UNRECOGNISED_TOKEN, text, column)
}

func run(ctx *context, input string) ([]string, error) {
	r := &recorder{}
	err := source.New("test.asm", input, 1, nil, ctx).Process(r)
	return r.output, err
}

type testCase struct {
	Name   string
	Input  string
	Output []string
}

type failCase struct {
	Name   string
	Input  string
	Error  asmerr.Kind
	Line   int
	Column int
}

func testSuccess(t *testing.T, test *testCase) {
	output, err := run(newContext(), test.Input)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(output, test.Output) {
		t.Fatalf("Output mismatch\nwant:%q\nhave:%q", test.Output, output)
	}
}

func testFail(t *testing.T, test *failCase) {
	_, err := run(newContext(), test.Input)

	syntaxErr, ok := err.(*asmerr.SyntaxError)

	if !ok {
		t.Fatalf("Expected %q\nhave:%v", test.Error, err)
	}

	if syntaxErr.Kind != test.Error {
		t.Fatalf("Error mismatch\nwant:%q\nhave:%q", test.Error, syntaxErr.Kind)
	}

	pos := syntaxErr.GetPosition()

	if pos.Filename != "test.asm" || pos.Line != test.Line || pos.Column != test.Column {
		t.Fatalf(
			"Position mismatch\nwant:test.asm:%d col %d\nhave:%s:%d col %d",
			test.Line,
			test.Column,
			pos.Filename,
			pos.Line,
			pos.Column,
		)
	}
}

func TestProcess(t *testing.T) {
	tests := []testCase{
		{"Single line loop", "FOR n 0 2:EMIT n:NEXT", []string{"0", "1", "2"}},
		{"Multi line loop", "FOR n 1 3\nEMIT n\nNEXT\nEMIT n", []string{"1", "2", "3", "?n"}},
		{"Negative step", "FOR n 3 1 -1:EMIT n:NEXT", []string{"3", "2", "1"}},
		{"Fractional step", "FOR n 0 1 0.5:EMIT n:NEXT", []string{"0", "0.5", "1"}},
		{"Empty range runs once", "FOR n 5 0:EMIT n:NEXT", []string{"5"}},
		{
			"Nested loops",
			"FOR a 1 2\nFOR b 1 2:EMIT a:EMIT b:NEXT\nNEXT",
			[]string{"1", "1", "1", "2", "2", "1", "2", "2"},
		},
		{
			"Loop variable shadows",
			"DEF n\n{:FOR n 7 7:EMIT n:NEXT:}\nEMIT n",
			[]string{"7", "0"},
		},
		{"Brace scope", "{\nDEF a\nEMIT a\n}\nEMIT a", []string{"0", "?a"}},
		{"Outer scope visible", "DEF a\n{:EMIT a:}", []string{"0"}},
		{"IF true", "IF 1:EMIT TRUE:ENDIF", []string{"-1"}},
		{"IF false", "IF 0\nEMIT TRUE\nENDIF\nEMIT FALSE", []string{"0"}},
		{
			"ELIF",
			"IF 0\nEMIT a\nELIF 1\nEMIT TRUE\nELIF 1\nEMIT b\nELSE\nEMIT c\nENDIF",
			[]string{"-1"},
		},
		{"ELSE", "IF 0:EMIT a:ELSE:EMIT TRUE:ENDIF", []string{"-1"}},
		{
			"Nested IF under false",
			"IF 0\nIF 1\nEMIT a\nELSE\nEMIT b\nENDIF\nENDIF\nEMIT FALSE",
			[]string{"0"},
		},
		{
			"Macro",
			"MACRO twice x\nEMIT x\nEMIT x\nENDMACRO\nCALL twice 5\nEMIT x",
			[]string{"5", "5", "?x"},
		},
		{
			"Macro sees loop variable",
			"MACRO show\nEMIT n\nENDMACRO\nFOR n 1 2:CALL show:NEXT",
			[]string{"1", "2"},
		},
	}

	for i := range tests {
		t.Run(tests[i].Name, func(t *testing.T) { testSuccess(t, &tests[i]) })
	}
}

func TestProcessFail(t *testing.T) {
	tests := []failCase{
		{"NEXT without FOR", "EMIT a\nNEXT", asmerr.ERR_NEXT_WITHOUT_FOR, 2, 0},
		{"NEXT closing brace", "{:NEXT", asmerr.ERR_NEXT_WITHOUT_FOR, 1, 2},
		{"Close without open", "}", asmerr.ERR_MISMATCHED_BRACES, 1, 0},
		{"Brace closing FOR", "FOR n 0 1:}", asmerr.ERR_MISMATCHED_BRACES, 1, 10},
		{"Unclosed FOR", "EMIT a\n  FOR n 0 1\nEMIT n", asmerr.ERR_FOR_WITHOUT_NEXT, 2, 2},
		{"Unclosed brace", "{\nEMIT a", asmerr.ERR_MISMATCHED_BRACES, 1, 0},
		{"Zero step", "FOR n 0 1 0", asmerr.ERR_BAD_STEP, 1, 0},
		{"Loop variable exists", "DEF n:FOR n 0 1:NEXT", asmerr.ERR_LABEL_ALREADY_DEFINED, 1, 6},
		{"Unclosed IF", "IF 1\nEMIT a", asmerr.ERR_IF_WITHOUT_ENDIF, 1, 0},
		{"ELSE without IF", "ELSE", asmerr.ERR_ELSE_WITHOUT_IF, 1, 0},
		{"Second ELSE", "IF 1:ELSE:ELSE:ENDIF", asmerr.ERR_ELSE_WITHOUT_IF, 1, 10},
		{"ELIF after ELSE", "IF 1:ELSE:ELIF 1:ENDIF", asmerr.ERR_ELIF_WITHOUT_IF, 1, 10},
		{"ENDIF without IF", "ENDIF", asmerr.ERR_ENDIF_WITHOUT_IF, 1, 0},
		{"Unclosed macro", "MACRO m\nEMIT a", asmerr.ERR_NO_END_MACRO, 1, 0},
		{"Nested macro", "MACRO a\nMACRO b", asmerr.ERR_NO_NESTED_MACROS, 2, 0},
		{"ENDMACRO alone", "\nENDMACRO", asmerr.ERR_END_MACRO_UNEXPECTED, 2, 0},
		{"Too many braces", strings.Repeat("{\n", source.MAX_FOR_LEVELS+1), asmerr.ERR_TOO_MANY_FORS, source.MAX_FOR_LEVELS + 1, 0},
		{"Too many IFs", strings.Repeat("IF 1\n", source.MAX_IF_LEVELS+1), asmerr.ERR_TOO_MANY_IFS, source.MAX_IF_LEVELS + 1, 0},
	}

	for i := range tests {
		t.Run(tests[i].Name, func(t *testing.T) { testFail(t, &tests[i]) })
	}
}

// Errors inside a macro report where the macro was called from
func TestMacroCallStack(t *testing.T) {
	_, err := run(newContext(), "MACRO bad\nNEXT\nENDMACRO\n\nCALL bad")

	syntaxErr, ok := err.(*asmerr.SyntaxError)

	if !ok || syntaxErr.Kind != asmerr.ERR_NEXT_WITHOUT_FOR {
		t.Fatalf("Error mismatch\nwant:%q\nhave:%v", asmerr.ERR_NEXT_WITHOUT_FOR, err)
	}

	if syntaxErr.Position.Line != 2 {
		t.Fatalf("Line mismatch\nwant:2\nhave:%d", syntaxErr.Position.Line)
	}

	if len(syntaxErr.Stack) != 1 || syntaxErr.Stack[0].Line != 5 {
		t.Fatalf("Call stack mismatch\nhave:%+v", syntaxErr.Stack)
	}
}

// Each iteration of a loop gets its own scope. On the final pass the scopes
// are dropped once the loop is done.
func TestForScoping(t *testing.T) {
	ctx := newContext()
	input := "FOR i 1 3\nDEF L\nNEXT"

	scoped := func() []symbols.ScopedName {
		var names []symbols.ScopedName

		for name := range ctx.table.Snapshot() {
			if name.Name == "L" {
				names = append(names, name)
			}
		}

		return names
	}

	ctx.beginPass(true, false)

	if _, err := run(ctx, input); err != nil {
		t.Fatal(err)
	}

	names := scoped()

	if len(names) != 3 {
		t.Fatalf("Binding count mismatch\nwant:3\nhave:%d (%v)", len(names), names)
	}

	counts := map[int]bool{}

	for _, name := range names {
		if name.IsTopLevel() || name.ID != names[0].ID {
			t.Fatalf("Unexpected scope for %v", name)
		}

		counts[name.Count] = true
	}

	if len(counts) != 3 {
		t.Fatalf("Bindings collide: %v", names)
	}

	if ctx.table.IsDefined(symbols.TopLevel("i")) {
		t.Fatal("Loop variable survived the loop")
	}

	ctx.beginPass(false, true)

	if _, err := run(ctx, input); err != nil {
		t.Fatal(err)
	}

	if names := scoped(); len(names) != 0 {
		t.Fatalf("Scoped bindings survived the final pass: %v", names)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		Input string
		Want  []string
	}{
		{"", nil},
		{"a\n", []string{"a"}},
		{"a\r\n\tb\n\n", []string{"a", " b", ""}},
		{"a\nb", []string{"a", "b"}},
	}

	for _, test := range tests {
		if have := source.SplitLines(test.Input); !reflect.DeepEqual(have, test.Want) {
			t.Fatalf("Lines mismatch for %q\nwant:%q\nhave:%q", test.Input, test.Want, have)
		}
	}
}
