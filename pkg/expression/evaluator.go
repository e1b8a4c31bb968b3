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

// Package expression evaluates the operand expressions of assembler
// statements: numbers, strings, symbols, the usual BBC BASIC operators and
// its built in functions.
package expression

import (
	"errors"
	"strings"
	"time"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/encoding"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

// Environment supplies everything an expression can refer to.
type Environment interface {
	Lookup(name string) (symbols.Value, bool)
	PC() int
	FirstPass() bool
	Random() float64
	AssemblyTime() time.Time
}

type Evaluator struct {
	Env Environment
}

// Result is the value of an expression and the column just past it.
//
// Undefined is set when the first pass met a symbol not yet defined. The rest
// of the expression has then been skipped and Value is meaningless; callers
// substitute whatever default their statement allows. UndefinedAt is the
// column of the offending symbol.
type Result struct {
	Value       symbols.Value
	Column      int
	Undefined   bool
	UndefinedAt int
}

func (r Result) Int() int {
	return int(toInt(r.Value.Number))
}

// Raised internally when a nested evaluation meets an undefined symbol on the
// first pass.
var errUndefined = errors.New("undefined symbol")

func New(env Environment) *Evaluator {
	return &Evaluator{Env: env}
}

// Evaluate reads one expression from line starting at column. It ends at the
// end of the line, a statement separator, or a comma outside brackets.
//
// With allowMismatchedClose an unmatched ')' or ']' also ends the expression
// and is left unconsumed, for operands such as (zp),Y.
func (ev *Evaluator) Evaluate(line string, column int, allowMismatchedClose bool) (Result, error) {
	e := evaluation{env: ev.Env, line: line, column: column}
	return e.run(allowMismatchedClose)
}

type frame struct {
	op     operator
	params int
}

type evaluation struct {
	env         Environment
	line        string
	column      int
	values      []symbols.Value
	operators   []frame
	undefinedAt int
}

func isTerminator(c byte) bool {
	return c == ';' || c == ':' || c == '\\' || c == '{' || c == '}'
}

// Skips spaces and reports whether anything of the current expression
// remains.
func (e *evaluation) advance(commaEnds bool) bool {
	for e.column < len(e.line) && e.line[e.column] == ' ' {
		e.column++
	}

	if e.column >= len(e.line) {
		return false
	}

	c := e.line[e.column]

	return !isTerminator(c) && !(commaEnds && c == ',')
}

func (e *evaluation) fail(kind asmerr.Kind, column int) (Result, error) {
	return Result{}, asmerr.New(kind, e.line, column)
}

func (e *evaluation) errorAt(kind asmerr.Kind, column int) error {
	return asmerr.New(kind, e.line, column)
}

func matchToken(line string, column int, token string) bool {
	if column+len(token) > len(line) {
		return false
	}

	for i := 0; i < len(token); i++ {
		c := line[column+i]

		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}

		if c != token[i] {
			return false
		}
	}

	return true
}

func (e *evaluation) top() frame {
	return e.operators[len(e.operators)-1]
}

func (e *evaluation) pop() frame {
	f := e.top()
	e.operators = e.operators[:len(e.operators)-1]
	return f
}

func (e *evaluation) push(f frame) error {
	if len(e.operators) == MAX_OPERATORS {
		return e.errorAt(asmerr.ERR_EXPRESSION_TOO_COMPLEX, e.column)
	}

	e.operators = append(e.operators, f)
	return nil
}

func (e *evaluation) run(allowMismatchedClose bool) (Result, error) {
	bracketCount := 0
	pendingCommas := 0
	expectValue := true

	for e.advance(bracketCount == 0) {
		if expectValue {
			var matched *operator

			for i := range unaryOperators {
				if matchToken(e.line, e.column, unaryOperators[i].Token) {
					matched = &unaryOperators[i]
					break
				}
			}

			if matched == nil {
				if len(e.values) == MAX_VALUES {
					return e.fail(asmerr.ERR_EXPRESSION_TOO_COMPLEX, e.column)
				}

				value, err := e.value()

				if err == errUndefined {
					return e.skip(bracketCount, allowMismatchedClose), nil
				} else if err != nil {
					return Result{}, err
				}

				e.values = append(e.values, value)
				expectValue = false
				continue
			}

			e.column += len(matched.Token)
			f := frame{op: *matched}

			if len(matched.Token) > 1 && strings.HasSuffix(matched.Token, "(") {
				// Leave the bracket to be matched on its own
				pendingCommas = matched.Parameters - 1
				e.column--
			}

			if matched.Kind != OP_NONE {
				for len(e.operators) > 0 && matched.Precedence < e.top().op.Precedence {
					if err := e.apply(e.pop()); err == errUndefined {
						return e.skip(bracketCount, allowMismatchedClose), nil
					} else if err != nil {
						return Result{}, err
					}
				}
			} else {
				f.params = pendingCommas
				pendingCommas = 0
				bracketCount++
			}

			if err := e.push(f); err != nil {
				return Result{}, err
			}

			continue
		}

		var matched *operator

		for i := range binaryOperators {
			if matchToken(e.line, e.column, binaryOperators[i].Token) {
				matched = &binaryOperators[i]
				break
			}
		}

		if matched == nil {
			return e.fail(asmerr.ERR_INVALID_CHARACTER, e.column)
		}

		e.column += len(matched.Token)

		if matched.Kind != OP_NONE {
			for len(e.operators) > 0 && matched.Precedence <= e.top().op.Precedence {
				if err := e.apply(e.pop()); err == errUndefined {
					return e.skip(bracketCount, allowMismatchedClose), nil
				} else if err != nil {
					return Result{}, err
				}
			}

			if err := e.push(frame{op: *matched}); err != nil {
				return Result{}, err
			}

			expectValue = true
			continue
		}

		separator := matched.Token == ","

		if !separator {
			bracketCount--
		}

		var bracket *frame

		for len(e.operators) > 0 {
			f := e.pop()

			if f.op.Kind == OP_NONE {
				bracket = &f
				break
			}

			if err := e.apply(f); err == errUndefined {
				return e.skip(bracketCount, allowMismatchedClose), nil
			} else if err != nil {
				return Result{}, err
			}
		}

		if bracket == nil {
			if allowMismatchedClose {
				e.column--
				break
			}

			return e.fail(asmerr.ERR_MISMATCHED_PARENTHESES, e.column-1)
		}

		if separator {
			if bracket.params == 0 {
				return e.fail(asmerr.ERR_PARAMETER_COUNT, e.column-1)
			}

			bracket.params--
			e.operators = append(e.operators, *bracket)
			expectValue = true
		} else if bracket.params != 0 {
			return e.fail(asmerr.ERR_PARAMETER_COUNT, e.column-1)
		}
	}

	for len(e.operators) > 0 {
		f := e.pop()

		if f.op.Kind == OP_NONE {
			return e.fail(asmerr.ERR_MISMATCHED_PARENTHESES, e.column)
		}

		if err := e.apply(f); err == errUndefined {
			return Result{Column: e.column, Undefined: true, UndefinedAt: e.undefinedAt}, nil
		} else if err != nil {
			return Result{}, err
		}
	}

	if len(e.values) == 0 {
		return e.fail(asmerr.ERR_EMPTY_EXPRESSION, e.column)
	}

	return Result{Value: e.values[0], Column: e.column}, nil
}

// Moves past the rest of the expression after an undefined symbol, honouring
// brackets so that a comma or close bracket inside them does not end it.
func (e *evaluation) skip(bracketCount int, allowMismatchedClose bool) Result {
loop:
	for e.advance(bracketCount == 0) {
		switch e.line[e.column] {
		case '(', '[':
			bracketCount++
		case ')', ']':
			bracketCount--

			if allowMismatchedClose && bracketCount < 0 {
				break loop
			}
		}

		e.column++
	}

	return Result{Column: e.column, Undefined: true, UndefinedAt: e.undefinedAt}
}

// Reads a single value: a numeric literal, '*' for the program counter, a
// character or string literal, or a symbol.
func (e *evaluation) value() (symbols.Value, error) {
	c := e.line[e.column]

	switch {
	case encoding.IsDigit(c) || c == '.' || c == '&' || c == '$' || c == '%':
		number, next, _, err := encoding.ParseNumeric(e.line, e.column)

		switch err {
		case nil:
			e.column = next
			return symbols.Number(number), nil
		case encoding.ErrBadHex:
			return symbols.Value{}, e.errorAt(asmerr.ERR_BAD_HEX, next)
		case encoding.ErrBadBinary:
			return symbols.Value{}, e.errorAt(asmerr.ERR_BAD_BIN, next)
		default:
			return symbols.Value{}, e.errorAt(asmerr.ERR_INVALID_CHARACTER, next)
		}

	case c == '*':
		e.column++
		return symbols.Number(float64(e.env.PC())), nil

	case c == '\'':
		if e.column+2 >= len(e.line) || e.line[e.column+2] != '\'' {
			return symbols.Value{}, e.errorAt(asmerr.ERR_INVALID_CHARACTER, e.column)
		}

		value := symbols.Number(float64(e.line[e.column+1]))
		e.column += 3
		return value, nil

	case c == '"':
		var text strings.Builder

		for i := e.column + 1; i < len(e.line); i++ {
			if e.line[i] != '"' {
				text.WriteByte(e.line[i])
				continue
			}

			if i+1 < len(e.line) && e.line[i+1] == '"' {
				text.WriteByte('"')
				i++
				continue
			}

			e.column = i + 1
			return symbols.Text(text.String()), nil
		}

		return symbols.Value{}, e.errorAt(asmerr.ERR_MISSING_QUOTE, len(e.line))

	case encoding.IsSymbolStart(c):
		start := e.column
		e.column = encoding.ScanSymbolName(e.line, e.column)
		name := e.line[start:e.column]

		if name == "TIME$" {
			text, err := formatTime(DEFAULT_TIME_FORMAT, e.env.AssemblyTime())

			if err != nil {
				return symbols.Value{}, e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, start)
			}

			return symbols.Text(text), nil
		}

		if value, ok := e.env.Lookup(name); ok {
			return value, nil
		}

		if e.env.FirstPass() {
			e.undefinedAt = start
			return symbols.Value{}, errUndefined
		}

		return symbols.Value{}, e.errorAt(asmerr.ERR_SYMBOL_NOT_DEFINED, start)
	}

	return symbols.Value{}, e.errorAt(asmerr.ERR_INVALID_CHARACTER, e.column)
}
