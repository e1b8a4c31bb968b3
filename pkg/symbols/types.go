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

package symbols

import (
	"strconv"
	"strings"
)

type ValueType uint

const (
	VALUE_NUMBER ValueType = iota
	VALUE_STRING
)

// Value is either a number or a string. Booleans are numbers: -1 for true
// and 0 for false.
type Value struct {
	Type   ValueType
	Number float64
	Text   string
}

func Number(n float64) Value {
	return Value{Type: VALUE_NUMBER, Number: n}
}

func Text(s string) Value {
	return Value{Type: VALUE_STRING, Text: s}
}

func Bool(b bool) Value {
	if b {
		return Number(-1)
	}

	return Number(0)
}

func (v Value) IsNumber() bool {
	return v.Type == VALUE_NUMBER
}

func (v Value) IsString() bool {
	return v.Type == VALUE_STRING
}

func (v Value) String() string {
	if v.Type == VALUE_STRING {
		return v.Text
	}

	return FormatNumber(v.Number)
}

// Compare orders numbers numerically and strings bytewise. Numbers sort
// before strings.
func Compare(a, b Value) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}

	if a.Type == VALUE_STRING {
		return strings.Compare(a.Text, b.Text)
	}

	switch {
	case a.Number == b.Number:
		return 0
	case a.Number < b.Number:
		return -1
	}

	return 1
}

// FormatNumber prints whole numbers in the 32-bit range without an
// exponent, and anything else with six significant digits.
func FormatNumber(n float64) string {
	if n > -4294967296.0 && n < 4294967296.0 && n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}

	return strconv.FormatFloat(n, 'g', 6, 64)
}

// ScopedName identifies a symbol within one FOR or brace instance. Symbols
// outside any scope have an ID and Count of -1.
type ScopedName struct {
	Name  string
	ID    int
	Count int
}

func TopLevel(name string) ScopedName {
	return ScopedName{name, -1, -1}
}

func (name ScopedName) IsTopLevel() bool {
	return name.ID == -1
}

func (name ScopedName) String() string {
	if name.IsTopLevel() {
		return name.Name
	}

	return name.Name + "@" + strconv.Itoa(name.ID) + "_" + strconv.Itoa(name.Count)
}

type Symbol struct {
	Value   Value
	IsLabel bool
}

type Label struct {
	Name  string
	Value float64
}
