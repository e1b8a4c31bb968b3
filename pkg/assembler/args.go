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
	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

type argState uint

const (
	ARG_FOUND argState = iota
	ARG_TYPE_MISMATCH
	ARG_UNDEFINED
	ARG_MISSING
)

// argList reads a comma separated argument list. The first error met is
// kept and every later read becomes a no-op; Complete reports it.
type argList struct {
	parser *lineParser
	first  bool
	err    error

	// An argument read but not yet consumed, because it had the wrong type
	// for the last request
	pending   bool
	undefined bool
	value     symbols.Value
	column    int
}

// commaFirst is set when the list follows something else, as in FOR.
func newArgList(parser *lineParser, commaFirst bool) *argList {
	return &argList{parser: parser, first: !commaFirst}
}

func (args *argList) fail(err error) {
	if args.err == nil {
		args.err = err
	}
}

// Moves to the next argument, if there is one.
func (args *argList) next() (bool, error) {
	p := args.parser

	if args.first {
		args.first = false
		return p.advance(), nil
	}

	if !p.advance() {
		return false, nil
	}

	if !p.peek(',') {
		return false, p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
	}

	p.column++
	p.skipSpaces()
	return true, nil
}

func (args *argList) read() bool {
	if args.err != nil {
		return false
	}

	if args.pending {
		return true
	}

	found, err := args.next()
	args.column = args.parser.column

	if err != nil {
		args.fail(err)
		return false
	} else if !found {
		return false
	}

	result, err := args.parser.evaluate(false)

	if err != nil {
		args.fail(err)
		return false
	}

	args.pending = true
	args.undefined = result.Undefined
	args.value = result.Value

	if result.Undefined {
		args.value = symbols.Number(0)
	}

	return true
}

func (args *argList) parseNumber(integer bool) numberArg {
	arg := numberArg{args: args}

	switch {
	case !args.read():
		arg.state = ARG_MISSING
	case args.undefined:
		args.pending = false
		arg.state = ARG_UNDEFINED
	case !args.value.IsNumber():
		arg.state = ARG_TYPE_MISMATCH
	default:
		args.pending = false
		arg.state = ARG_FOUND
		arg.value = args.value.Number

		if integer {
			arg.value = float64(toInt(arg.value))
		}
	}

	arg.column = args.column
	return arg
}

func (args *argList) parseInt() numberArg {
	return args.parseNumber(true)
}

func (args *argList) parseDouble() numberArg {
	return args.parseNumber(false)
}

func (args *argList) parseString() stringArg {
	arg := stringArg{args: args}

	switch {
	case !args.read():
		arg.state = ARG_MISSING
	case args.undefined:
		arg.state = ARG_UNDEFINED
	case !args.value.IsString():
		arg.state = ARG_TYPE_MISMATCH
	default:
		args.pending = false
		arg.state = ARG_FOUND
		arg.value = args.value.Text
	}

	arg.column = args.column
	return arg
}

func (args *argList) parseValue() valueArg {
	arg := valueArg{args: args}

	switch {
	case !args.read():
		arg.state = ARG_MISSING
	case args.undefined:
		args.pending = false
		arg.state = ARG_UNDEFINED
	default:
		args.pending = false
		arg.state = ARG_FOUND
		arg.value = args.value
	}

	arg.column = args.column
	return arg
}

// Complete checks that every argument was consumed and nothing follows.
func (args *argList) Complete() error {
	p := args.parser

	if args.err != nil {
		return args.err
	}

	if args.pending {
		return p.errorAt(asmerr.ERR_TYPE_MISMATCH, p.column)
	}

	if p.advance() {
		return p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
	}

	return nil
}

// Records the error for an argument which is required but was not found.
func (args *argList) require(state argState, column int) {
	p := args.parser

	switch state {
	case ARG_FOUND:
	case ARG_TYPE_MISMATCH:
		args.fail(p.errorAt(asmerr.ERR_TYPE_MISMATCH, column))
	case ARG_UNDEFINED:
		args.fail(p.errorAt(asmerr.ERR_SYMBOL_NOT_DEFINED, column))
	default:
		args.fail(p.errorAt(asmerr.ERR_EMPTY_EXPRESSION, column))
	}
}

type numberArg struct {
	args   *argList
	state  argState
	column int
	value  float64
}

func (arg numberArg) Found() bool {
	return arg.state == ARG_FOUND
}

func (arg numberArg) Range(low, high float64) numberArg {
	if arg.Found() && (arg.value < low || arg.value > high) {
		arg.args.fail(arg.args.parser.errorAt(asmerr.ERR_OUT_OF_RANGE, arg.column))
	}

	return arg
}

func (arg numberArg) Maximum(high float64) numberArg {
	if arg.Found() && arg.value > high {
		arg.args.fail(arg.args.parser.errorAt(asmerr.ERR_NUMBER_TOO_BIG, arg.column))
	}

	return arg
}

// Default supplies the value of an optional argument. An argument which was
// given but is undefined is still an error.
func (arg numberArg) Default(value float64) numberArg {
	if arg.Found() {
		return arg
	}

	if arg.state == ARG_UNDEFINED {
		arg.args.require(arg.state, arg.column)
		return arg
	}

	arg.state = ARG_FOUND
	arg.value = value
	return arg
}

// AcceptUndef lets a first pass forward reference through as zero.
func (arg numberArg) AcceptUndef() numberArg {
	if arg.state == ARG_UNDEFINED {
		arg.state = ARG_FOUND
		arg.value = 0
	}

	return arg
}

func (arg numberArg) Float() float64 {
	arg.args.require(arg.state, arg.column)
	return arg.value
}

func (arg numberArg) Int() int {
	return int(arg.Float())
}

type stringArg struct {
	args   *argList
	state  argState
	column int
	value  string
}

func (arg stringArg) Found() bool {
	return arg.state == ARG_FOUND
}

func (arg stringArg) Default(value string) stringArg {
	if !arg.Found() {
		arg.state = ARG_FOUND
		arg.value = value
	}

	return arg
}

func (arg stringArg) String() string {
	arg.args.require(arg.state, arg.column)
	return arg.value
}

type valueArg struct {
	args   *argList
	state  argState
	column int
	value  symbols.Value
}

func (arg valueArg) Found() bool {
	return arg.state == ARG_FOUND
}

func (arg valueArg) AcceptUndef() valueArg {
	if arg.state == ARG_UNDEFINED {
		arg.state = ARG_FOUND
		arg.value = symbols.Number(0)
	}

	return arg
}

func (arg valueArg) Require() valueArg {
	arg.args.require(arg.state, arg.column)
	return arg
}

func (arg valueArg) Value() symbols.Value {
	return arg.value
}
