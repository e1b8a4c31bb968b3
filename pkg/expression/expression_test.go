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

package expression_test

import (
	"math"
	"testing"
	"time"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/expression"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

type environment struct {
	symbols   map[string]symbols.Value
	pc        int
	firstPass bool
	rand      *expression.Rand
}

func (env *environment) Lookup(name string) (symbols.Value, bool) {
	value, ok := env.symbols[name]
	return value, ok
}

func (env *environment) PC() int {
	return env.pc
}

func (env *environment) FirstPass() bool {
	return env.firstPass
}

func (env *environment) Random() float64 {
	return env.rand.Float()
}

func (env *environment) AssemblyTime() time.Time {
	return time.Date(2021, time.March, 4, 13, 5, 9, 0, time.Local)
}

func newEnvironment(firstPass bool) *environment {
	return &environment{
		symbols: map[string]symbols.Value{
			"addr":  symbols.Number(0x1234),
			"PI":    symbols.Number(math.Pi),
			"name":  symbols.Text("beeb"),
			"TRUE":  symbols.Number(-1),
			"FALSE": symbols.Number(0),
		},
		pc:        0x1900,
		firstPass: firstPass,
		rand:      expression.NewRand(),
	}
}

type testCase struct {
	Name   string
	Input  string
	Output symbols.Value
}

type failCase struct {
	Name   string
	Input  string
	Error  asmerr.Kind
	Column int
}

func testSuccess(t *testing.T, test *testCase) {
	result, err := expression.New(newEnvironment(false)).Evaluate(test.Input, 0, false)

	if err != nil {
		t.Fatal(err)
	}

	if result.Undefined {
		t.Fatal("Result unexpectedly undefined")
	}

	if result.Value != test.Output {
		t.Fatalf(
			"Value mismatch\nwant:%#v\nhave:%#v", test.Output, result.Value,
		)
	}
}

func testFail(t *testing.T, test *failCase) {
	_, err := expression.New(newEnvironment(false)).Evaluate(test.Input, 0, false)

	if err == nil {
		t.Fatalf("Expected %q but evaluation succeeded", test.Error)
	}

	syntaxErr, ok := err.(*asmerr.SyntaxError)

	if !ok {
		t.Fatalf("Unexpected error type %T", err)
	}

	if syntaxErr.Kind != test.Error {
		t.Fatalf("Error mismatch\nwant:%q\nhave:%q", test.Error, syntaxErr.Kind)
	}

	if syntaxErr.Position.Column != test.Column {
		t.Fatalf(
			"Column mismatch\nwant:%d\nhave:%d",
			test.Column,
			syntaxErr.Position.Column,
		)
	}
}

func num(n float64) symbols.Value {
	return symbols.Number(n)
}

func str(s string) symbols.Value {
	return symbols.Text(s)
}

// Operator precedence, associativity and the integer operators
func TestOperators(t *testing.T) {
	tests := []testCase{
		{"Precedence", "2+3*4", num(14)},
		{"Brackets", "(2+3)*4", num(20)},
		{"Square brackets", "[2+3]*4", num(20)},
		{"Left associative", "10-4-3", num(3)},
		{"Power", "2^10", num(1024)},
		{"Negate before power", "-2^2", num(4)},
		{"Divide", "7/2", num(3.5)},
		{"DIV", "7 DIV 2", num(3)},
		{"DIV negative", "-7 DIV 2", num(-3)},
		{"MOD", "7 MOD 3", num(1)},
		{"Percent MOD", "-7%3", num(-1)},
		{"Shift left", "1<<4", num(16)},
		{"Shift right", "&80>>3", num(16)},
		{"Shift right arithmetic", "-16>>2", num(-4)},
		{"Shift negative", "1<<-1", num(0)},
		{"Shift clamped", "1<<32", num(0)},
		{"Shift right clamped", "-1>>40", num(0)},
		{"AND", "&F0 AND &3C", num(0x30)},
		{"OR", "&F0 OR &0F", num(0xFF)},
		{"EOR", "&FF EOR &0F", num(0xF0)},
		{"Lower case keyword", "&FF eor &0F", num(0xF0)},
		{"Equal", "1=1", num(-1)},
		{"Double equal", "1==2", num(0)},
		{"Not equal", "1<>2", num(-1)},
		{"Bang equal", "2!=2", num(0)},
		{"Less equal", "2<=2", num(-1)},
		{"Greater", "3>2", num(-1)},
		{"String compare", "\"abc\"<\"abd\"", num(-1)},
		{"Comparison before AND", "1=1 AND 2=2", num(-1)},
		{"Low byte", "<&1234", num(0x34)},
		{"High byte", ">&1234", num(0x12)},
		{"HI function", "HI(addr)", num(0x12)},
		{"LO function", "lo(addr+1)", num(0x35)},
		{"Unary plus", "+5", num(5)},
		{"Double negate", "--5", num(5)},
		{"Program counter", "*+2", num(0x1902)},
		{"Program counter times", "**2", num(0x3200)},
		{"Character", "'A'+1", num(66)},
		{"Stops at comma", "1+2,X", num(3)},
		{"Stops at colon", "4:NOP", num(4)},
		{"Stops at comment", "4 ; four", num(4)},
	}

	for i := range tests {
		t.Run(tests[i].Name, func(t *testing.T) { testSuccess(t, &tests[i]) })
	}
}

// Built in functions and string handling
func TestFunctions(t *testing.T) {
	tests := []testCase{
		{"SIN", "SIN(0)", num(0)},
		{"COS", "COS(0)", num(1)},
		{"SQR", "SQR(16)", num(4)},
		{"DEG", "INT(DEG(PI)+0.5)", num(180)},
		{"INT", "INT(-3.7)", num(-3)},
		{"ABS", "ABS(-2.5)", num(2.5)},
		{"SGN", "SGN(-2)", num(-1)},
		{"NOT", "NOT(0)", num(-1)},
		{"LOG", "INT(LOG(1000)+0.5)", num(3)},
		{"LN", "LN(1)", num(0)},
		{"EXP", "EXP(0)", num(1)},
		{"Concatenate", "\"bbc\"+\"micro\"", str("bbcmicro")},
		{"Escaped quote", "\"say \"\"hi\"\"\"", str("say \"hi\"")},
		{"STR$", "STR$(255)", str("255")},
		{"STR$ fraction", "STR$(1/4)", str("0.25")},
		{"VAL", "VAL(\"12.5abc\")", num(12.5)},
		{"VAL empty", "VAL(\"x\")", num(0)},
		{"EVAL", "EVAL(\"addr+1\")", num(0x1235)},
		{"LEN", "LEN(name)", num(4)},
		{"CHR$", "CHR$(65)", str("A")},
		{"ASC", "ASC(\"A\")", num(65)},
		{"MID$", "MID$(\"bbc micro\",5,3)", str("mic")},
		{"MID$ clamped", "MID$(\"bbc\",2,10)", str("bc")},
		{"MID$ end", "MID$(\"bbc\",4,1)", str("")},
		{"STRING$", "STRING$(3,\"ab\")", str("ababab")},
		{"UPPER", "UPPER(\"Beeb\")", str("BEEB")},
		{"LOWER", "LOWER(\"Beeb\")", str("beeb")},
		{"TIME$", "TIME$", str("Thu,04 Mar 2021.13:05:09")},
		{"TIME$ format", "TIME$(\"%Y-%m-%d\")", str("2021-03-04")},
		{"Nested calls", "LEN(STRING$(2,MID$(name,1,2)))", num(4)},
	}

	for i := range tests {
		t.Run(tests[i].Name, func(t *testing.T) { testSuccess(t, &tests[i]) })
	}
}

func TestEvaluateFail(t *testing.T) {
	tests := []failCase{
		{"Empty", "", asmerr.ERR_EMPTY_EXPRESSION, 0},
		{"Empty statement", "  :", asmerr.ERR_EMPTY_EXPRESSION, 2},
		{"Missing value", "1+", asmerr.ERR_MISSING_VALUE, 2},
		{"Unknown symbol", "1+missing", asmerr.ERR_SYMBOL_NOT_DEFINED, 2},
		{"Unclosed bracket", "(1+2", asmerr.ERR_MISMATCHED_PARENTHESES, 4},
		{"Extra bracket", "1+2)", asmerr.ERR_MISMATCHED_PARENTHESES, 3},
		{"Divide by zero", "1/0", asmerr.ERR_DIVISION_BY_ZERO, 2},
		{"DIV by zero", "1 DIV 0", asmerr.ERR_DIVISION_BY_ZERO, 6},
		{"Bad hex", "&G", asmerr.ERR_BAD_HEX, 1},
		{"Bad binary", "%2", asmerr.ERR_BAD_BIN, 1},
		{"Unterminated string", "\"abc", asmerr.ERR_MISSING_QUOTE, 4},
		{"Bad character literal", "'ab'", asmerr.ERR_INVALID_CHARACTER, 0},
		{"Junk after value", "1 2", asmerr.ERR_INVALID_CHARACTER, 2},
		{"Type mismatch", "1+\"a\"", asmerr.ERR_TYPE_MISMATCH, 5},
		{"Too many parameters", "SIN(1,2)", asmerr.ERR_PARAMETER_COUNT, 5},
		{"Too few parameters", "MID$(\"abc\",1)", asmerr.ERR_PARAMETER_COUNT, 12},
		{"Square root domain", "SQR(-1)", asmerr.ERR_ILLEGAL_OPERATION, 6},
		{"Arcsine domain", "ASN(2)", asmerr.ERR_ILLEGAL_OPERATION, 5},
		{"Log of zero", "LN(0)", asmerr.ERR_ILLEGAL_OPERATION, 4},
		{"Power overflow", "10^400", asmerr.ERR_NUMBER_TOO_BIG, 5},
		{"CHR$ range", "CHR$(256)", asmerr.ERR_ILLEGAL_OPERATION, 8},
		{"ASC empty", "ASC(\"\")", asmerr.ERR_ILLEGAL_OPERATION, 6},
		{"MID$ index", "MID$(\"abc\",0,1)", asmerr.ERR_ILLEGAL_OPERATION, 14},
		{"STRING$ too long", "STRING$(&8000,\"ab\")", asmerr.ERR_ILLEGAL_OPERATION, 18},
		{"RND range", "RND(0)", asmerr.ERR_ILLEGAL_OPERATION, 5},
		{"Empty TIME$", "TIME$(\"\")", asmerr.ERR_TIME_RESULT_TOO_BIG, 8},
	}

	for i := range tests {
		t.Run(tests[i].Name, func(t *testing.T) { testFail(t, &tests[i]) })
	}
}

func TestExpressionTooComplex(t *testing.T) {
	input := ""

	for i := 0; i < expression.MAX_OPERATORS+1; i++ {
		input += "("
	}

	_, err := expression.New(newEnvironment(false)).Evaluate(input+"1", 0, false)

	if !asmerr.Is(err, asmerr.ERR_EXPRESSION_TOO_COMPLEX) {
		t.Fatalf("Error mismatch\nwant:%q\nhave:%v", asmerr.ERR_EXPRESSION_TOO_COMPLEX, err)
	}
}

// A first pass tolerates forward references: the rest of the expression is
// skipped and the result flagged so that the caller can substitute a default.
func TestFirstPassUndefined(t *testing.T) {
	tests := []struct {
		Name   string
		Input  string
		Column int
		Close  bool
	}{
		{"Plain", "later+1", 7, false},
		{"Stops at comma", "later+1,X", 7, false},
		{"Brackets hide comma", "SIN(later,1)+2,Y", 14, false},
		{"Stops at close", "later),Y", 5, true},
		{"Square brackets hide comma", "[later AND 0],2", 13, false},
		{"Stops at square close", "later],Y", 5, true},
		{"Inside EVAL", "EVAL(\"later\")*2", 15, false},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, err := expression.New(newEnvironment(true)).Evaluate(
				test.Input, 0, test.Close,
			)

			if err != nil {
				t.Fatal(err)
			}

			if !result.Undefined {
				t.Fatal("Result not flagged undefined")
			}

			if result.Column != test.Column {
				t.Fatalf("Column mismatch\nwant:%d\nhave:%d", test.Column, result.Column)
			}
		})
	}
}

func TestMismatchedClose(t *testing.T) {
	result, err := expression.New(newEnvironment(false)).Evaluate("addr),Y", 0, true)

	if err != nil {
		t.Fatal(err)
	}

	if result.Value != num(0x1234) || result.Column != 4 {
		t.Fatalf(
			"Result mismatch\nwant:%v at 4\nhave:%v at %d",
			num(0x1234),
			result.Value,
			result.Column,
		)
	}
}

func TestRand(t *testing.T) {
	a, b := expression.NewRand(), expression.NewRand()
	a.Seed(42)
	b.Seed(42)

	for i := 0; i < 100; i++ {
		x, y := a.Next(), b.Next()

		if x != y {
			t.Fatalf("Sequence mismatch at %d\nwant:%d\nhave:%d", i, x, y)
		}

		if x > expression.RAND_MAX {
			t.Fatalf("Value %d above RAND_MAX", x)
		}
	}

	zero := expression.NewRand()
	zero.Seed(0)
	one := expression.NewRand()
	one.Seed(1)

	if zero.Next() != one.Next() {
		t.Fatal("Seed 0 should behave as seed 1")
	}

	for i := 0; i < 1000; i++ {
		if f := a.Float(); f < 0 || f >= 1 || math.IsNaN(f) {
			t.Fatalf("Float %v out of range", f)
		}
	}
}

func TestRND(t *testing.T) {
	env := newEnvironment(false)
	ev := expression.New(env)

	for i := 0; i < 100; i++ {
		result, err := ev.Evaluate("RND(6)", 0, false)

		if err != nil {
			t.Fatal(err)
		}

		n := result.Value.Number

		if n < 0 || n >= 6 || n != math.Trunc(n) {
			t.Fatalf("RND(6) gave %v", n)
		}
	}
}
