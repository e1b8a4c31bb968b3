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

package expression

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

// Integer operators work on the low 32 bits of the truncated value.
func toInt(f float64) int32 {
	return int32(int64(f))
}

func formatTime(format string, t time.Time) (string, error) {
	return strftime.Format(format, t.Local())
}

// Parses the longest decimal number at the start of s, as BASIC's VAL does.
func parseLeadingNumber(s string) float64 {
	s = strings.TrimLeft(s, " ")
	end := 0

	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := 0

	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}

	if end < len(s) && s[end] == '.' {
		end++

		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}

	if digits == 0 {
		return 0
	}

	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1

		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}

		if exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
				exp++
			}

			end = exp
		}
	}

	value, _ := strconv.ParseFloat(s[:end], 64)
	return value
}

func mapASCII(s string, from, to byte) string {
	b := []byte(s)

	for i, c := range b {
		if c >= from && c <= from+25 {
			b[i] = c - from + to
		}
	}

	return string(b)
}

func (e *evaluation) operands(n int) ([]symbols.Value, error) {
	if len(e.values) < n {
		return nil, e.errorAt(asmerr.ERR_MISSING_VALUE, e.column)
	}

	return e.values[len(e.values)-n:], nil
}

func (e *evaluation) numbers(n int) ([]float64, error) {
	args, err := e.operands(n)

	if err != nil {
		return nil, err
	}

	numbers := make([]float64, n)

	for i, arg := range args {
		if !arg.IsNumber() {
			return nil, e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
		}

		numbers[i] = arg.Number
	}

	return numbers, nil
}

func (e *evaluation) text() (string, error) {
	args, err := e.operands(1)

	if err != nil {
		return "", err
	}

	if !args[0].IsString() {
		return "", e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
	}

	return args[0].Text, nil
}

// Replaces the top n values with v.
func (e *evaluation) result(n int, v symbols.Value) {
	e.values = append(e.values[:len(e.values)-n], v)
}

func (e *evaluation) apply(f frame) error {
	switch f.op.Kind {
	case OP_ADD:
		args, err := e.operands(2)

		if err != nil {
			return err
		}

		a, b := args[0], args[1]

		if a.Type != b.Type {
			return e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
		}

		if a.IsString() {
			e.result(2, symbols.Text(a.Text+b.Text))
		} else {
			e.result(2, symbols.Number(a.Number+b.Number))
		}

	case OP_EQUAL, OP_NOT_EQUAL, OP_LESS_EQUAL, OP_MORE_EQUAL, OP_LESS, OP_MORE:
		args, err := e.operands(2)

		if err != nil {
			return err
		}

		if args[0].Type != args[1].Type {
			return e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
		}

		cmp := symbols.Compare(args[0], args[1])
		var result bool

		switch f.op.Kind {
		case OP_EQUAL:
			result = cmp == 0
		case OP_NOT_EQUAL:
			result = cmp != 0
		case OP_LESS_EQUAL:
			result = cmp <= 0
		case OP_MORE_EQUAL:
			result = cmp >= 0
		case OP_LESS:
			result = cmp < 0
		case OP_MORE:
			result = cmp > 0
		}

		e.result(2, symbols.Bool(result))

	case OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_POWER:
		args, err := e.numbers(2)

		if err != nil {
			return err
		}

		a, b := args[0], args[1]
		var value float64

		switch f.op.Kind {
		case OP_SUBTRACT:
			value = a - b
		case OP_MULTIPLY:
			value = a * b
		case OP_DIVIDE:
			if b == 0 {
				return e.errorAt(asmerr.ERR_DIVISION_BY_ZERO, e.column-1)
			}
			value = a / b
		case OP_POWER:
			value = math.Pow(a, b)

			if math.IsNaN(value) {
				return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
			} else if math.IsInf(value, 0) {
				return e.errorAt(asmerr.ERR_NUMBER_TOO_BIG, e.column-1)
			}
		}

		e.result(2, symbols.Number(value))

	case OP_DIV, OP_MOD, OP_AND, OP_OR, OP_EOR, OP_SHIFT_LEFT, OP_SHIFT_RIGHT:
		args, err := e.numbers(2)

		if err != nil {
			return err
		}

		a, b := toInt(args[0]), toInt(args[1])
		var value int32

		switch f.op.Kind {
		case OP_DIV, OP_MOD:
			if b == 0 {
				return e.errorAt(asmerr.ERR_DIVISION_BY_ZERO, e.column-1)
			}

			if f.op.Kind == OP_DIV {
				value = a / b
			} else {
				value = a % b
			}
		case OP_AND:
			value = a & b
		case OP_OR:
			value = a | b
		case OP_EOR:
			value = a ^ b
		case OP_SHIFT_LEFT, OP_SHIFT_RIGHT:
			if f.op.Kind == OP_SHIFT_RIGHT {
				b = -b
			}

			switch {
			case b > 31 || b < -31:
				value = 0
			case b >= 0:
				value = a << uint(b)
			default:
				value = a >> uint(-b)
			}
		}

		e.result(2, symbols.Number(float64(value)))

	case OP_NEGATE, OP_POSATE, OP_HI, OP_LO, OP_NOT, OP_INT, OP_ABS, OP_SGN,
		OP_SIN, OP_COS, OP_TAN, OP_ARCTAN, OP_DEG_TO_RAD, OP_RAD_TO_DEG:
		args, err := e.numbers(1)

		if err != nil {
			return err
		}

		a := args[0]
		var value float64

		switch f.op.Kind {
		case OP_NEGATE:
			value = -a
		case OP_POSATE:
			value = a
		case OP_HI:
			value = float64((toInt(a) & 0xffff) >> 8)
		case OP_LO:
			value = float64(toInt(a) & 0xff)
		case OP_NOT:
			value = float64(^toInt(a))
		case OP_INT:
			value = float64(toInt(a))
		case OP_ABS:
			value = math.Abs(a)
		case OP_SGN:
			switch {
			case a < 0:
				value = -1
			case a > 0:
				value = 1
			}
		case OP_SIN:
			value = math.Sin(a)
		case OP_COS:
			value = math.Cos(a)
		case OP_TAN:
			value = math.Tan(a)
		case OP_ARCTAN:
			value = math.Atan(a)
		case OP_DEG_TO_RAD:
			value = a * math.Pi / 180
		case OP_RAD_TO_DEG:
			value = a * 180 / math.Pi
		}

		e.result(1, symbols.Number(value))

	case OP_ARCSIN, OP_ARCCOS, OP_SQRT, OP_LOG, OP_LN, OP_EXP:
		args, err := e.numbers(1)

		if err != nil {
			return err
		}

		a := args[0]
		var value float64

		switch f.op.Kind {
		case OP_ARCSIN:
			value = math.Asin(a)
		case OP_ARCCOS:
			value = math.Acos(a)
		case OP_SQRT:
			value = math.Sqrt(a)
		case OP_LOG:
			value = math.Log10(a)
		case OP_LN:
			value = math.Log(a)
		case OP_EXP:
			value = math.Exp(a)
		}

		if math.IsNaN(value) || math.IsInf(value, 0) {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		}

		e.result(1, symbols.Number(value))

	case OP_RND:
		args, err := e.numbers(1)

		if err != nil {
			return err
		}

		n := args[0]

		if n < 1 {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		}

		value := e.env.Random()

		if n != 1 {
			value = float64(toInt(value * n))
		}

		e.result(1, symbols.Number(value))

	case OP_TIME:
		format, err := e.text()

		if err != nil {
			return err
		}

		text, err := formatTime(format, e.env.AssemblyTime())

		if err != nil {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		} else if text == "" || len(text) >= 256 {
			return e.errorAt(asmerr.ERR_TIME_RESULT_TOO_BIG, e.column-1)
		}

		e.result(1, symbols.Text(text))

	case OP_STR:
		args, err := e.numbers(1)

		if err != nil {
			return err
		}

		e.result(1, symbols.Text(strconv.FormatFloat(args[0], 'g', 6, 64)))

	case OP_VAL, OP_EVAL, OP_LEN, OP_ASC, OP_UPPER, OP_LOWER:
		text, err := e.text()

		if err != nil {
			return err
		}

		var value symbols.Value

		switch f.op.Kind {
		case OP_VAL:
			value = symbols.Number(parseLeadingNumber(text))
		case OP_EVAL:
			nested := evaluation{env: e.env, line: text}
			result, err := nested.run(false)

			if err != nil {
				return err
			} else if result.Undefined {
				e.undefinedAt = e.column - 1
				return errUndefined
			}

			value = result.Value
		case OP_LEN:
			value = symbols.Number(float64(len(text)))
		case OP_ASC:
			if text == "" {
				return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
			}
			value = symbols.Number(float64(text[0]))
		case OP_UPPER:
			value = symbols.Text(mapASCII(text, 'a', 'A'))
		case OP_LOWER:
			value = symbols.Text(mapASCII(text, 'A', 'a'))
		}

		e.result(1, value)

	case OP_CHR:
		args, err := e.numbers(1)

		if err != nil {
			return err
		}

		code := toInt(args[0])

		if code < 0 || code > 255 {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		}

		e.result(1, symbols.Text(string([]byte{byte(code)})))

	case OP_MID:
		args, err := e.operands(3)

		if err != nil {
			return err
		}

		if !args[0].IsString() || !args[1].IsNumber() || !args[2].IsNumber() {
			return e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
		}

		text := args[0].Text
		index := int(toInt(args[1].Number)) - 1
		length := int(toInt(args[2].Number))

		if index < 0 || index > len(text) || length < 0 {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		}

		end := min(index+length, len(text))

		e.result(3, symbols.Text(text[index:end]))

	case OP_STRING:
		args, err := e.operands(2)

		if err != nil {
			return err
		}

		if !args[0].IsNumber() || !args[1].IsString() {
			return e.errorAt(asmerr.ERR_TYPE_MISMATCH, e.column)
		}

		count := int(toInt(args[0].Number))
		text := args[1].Text

		if count < 0 || count >= 0x10000 || len(text) >= 0x10000 ||
			count*len(text) >= 0x10000 {
			return e.errorAt(asmerr.ERR_ILLEGAL_OPERATION, e.column-1)
		}

		e.result(2, symbols.Text(strings.Repeat(text, count)))
	}

	return nil
}
