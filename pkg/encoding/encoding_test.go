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

package encoding_test

import (
	"testing"

	"github.com/lassandro/gobeebasm/pkg/encoding"
)

type literalCase struct {
	Name  string
	Input string
	Value float64
	Next  int
}

type literalFailCase struct {
	Name  string
	Input string
	Error error
}

func TestParseNumeric(t *testing.T) {
	tests := []literalCase{
		{"Decimal", "123", 123, 3},
		{"Decimal fraction", "1.5+", 1.5, 3},
		{"Decimal leading point", ".25", 0.25, 3},
		{"Decimal exponent", "2e3", 2000, 3},
		{"Decimal signed exponent", "25E-1)", 2.5, 5},
		{"Decimal separators", "1_000_000", 1000000, 9},
		{"Decimal no exponent", "2EOR3", 2, 1},
		{"Hex ampersand", "&FF", 255, 3},
		{"Hex dollar", "$1234,X", 0x1234, 5},
		{"Hex lowercase", "&beeb", 0xBEEB, 5},
		{"Hex separators", "&12_34", 0x1234, 6},
		{"Hex leading zeroes", "&000000000001", 1, 13},
		{"Binary", "%1010", 10, 5},
		{"Binary separators", "%1111_0000", 0xF0, 10},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			value, next, found, err := encoding.ParseNumeric(test.Input, 0)

			if err != nil {
				t.Fatal(err)
			}

			if !found {
				t.Fatalf("Literal not found in %q", test.Input)
			}

			if value != test.Value {
				t.Fatalf("Value mismatch\nwant:%v\nhave:%v", test.Value, value)
			}

			if next != test.Next {
				t.Fatalf("Column mismatch\nwant:%d\nhave:%d", test.Next, next)
			}
		})
	}

	fails := []literalFailCase{
		{"Hex empty", "&", encoding.ErrBadHex},
		{"Hex too long", "&123456789", encoding.ErrBadHex},
		{"Hex leading separator", "&_1", encoding.ErrBadHex},
		{"Hex trailing separator", "&1_", encoding.ErrBadHex},
		{"Binary empty", "%", encoding.ErrBadBinary},
		{"Binary too long", "%1_0000_0000_0000_0000_0000_0000_0000_0000", encoding.ErrBadBinary},
		{"Decimal double separator", "1__0", encoding.ErrInvalidCharacter},
		{"Decimal trailing separator", "10_", encoding.ErrInvalidCharacter},
		{"Decimal lone point", ".", encoding.ErrInvalidCharacter},
		{"Decimal empty exponent", "1e+", encoding.ErrInvalidCharacter},
	}

	for _, test := range fails {
		t.Run(test.Name, func(t *testing.T) {
			_, _, _, err := encoding.ParseNumeric(test.Input, 0)

			if err != test.Error {
				t.Fatalf("Error mismatch\nwant:%v\nhave:%v", test.Error, err)
			}
		})
	}

	if _, _, found, _ := encoding.ParseNumeric("LABEL", 0); found {
		t.Fatal("Symbol parsed as a literal")
	}
}

func TestScanSymbolName(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{"label", "label"},
		{"_loop1 LDA", "_loop1"},
		{"P%", "P%"},
		{"TIME$(", "TIME$"},
		{"a$b", "a$"},
		{"1abc", ""},
	}

	for _, test := range tests {
		if have := test.Input[:encoding.ScanSymbolName(test.Input, 0)]; have != test.Want {
			t.Fatalf("Symbol mismatch\nwant:%q\nhave:%q", test.Want, have)
		}
	}
}

func TestDecodeHex(t *testing.T) {
	for _, input := range []string{"0x1900", "&1900", "$1900", "x1900"} {
		value, err := encoding.DecodeHex(input)

		if err != nil {
			t.Fatal(err)
		}

		if value != 0x1900 {
			t.Fatalf("Value mismatch\nwant:%#04x\nhave:%#04x", 0x1900, value)
		}
	}

	if _, err := encoding.DecodeHex("1900"); err == nil {
		t.Fatal("Unprefixed hex decoded")
	}
}
