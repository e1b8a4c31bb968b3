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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrBadHex           = errors.New("Invalid hex literal")
	ErrBadBinary        = errors.New("Invalid binary literal")
	ErrInvalidCharacter = errors.New("Invalid character in numeric literal")
)

// Decodes a hexidecimal string in the formats: 0xFFFF, &FFFF, $FFFF, xFF
func DecodeHex(s string) (uint16, error) {
	switch {
	case strings.HasPrefix(s, "&"), strings.HasPrefix(s, "$"):
		s = "0x" + s[1:]
	case strings.HasPrefix(s, "x"), strings.HasPrefix(s, "X"):
		s = "0" + s
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
	default:
		return 0, ErrBadHex
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func IsSymbolStart(c byte) bool {
	return IsAlpha(c) || c == '_'
}

// ScanSymbolName returns the index one past the symbol name starting at
// index. A '%' or '$' is allowed as the final character of a name.
func ScanSymbolName(line string, index int) int {
	if index >= len(line) || !IsSymbolStart(line[index]) {
		return index
	}

	for index++; index < len(line); index++ {
		if last := line[index-1]; last == '%' || last == '$' {
			break
		}

		c := line[index]

		if !IsAlpha(c) && !IsDigit(c) && c != '_' && c != '%' && c != '$' {
			break
		}
	}

	return index
}

func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	}

	return -1
}

// Parses a hex or binary integer of at most maxDigits significant digits.
// Returns false if it is malformed or too long.
func parseInteger(line string, index, base, maxDigits int) (float64, int, bool) {
	start := index

	if index == len(line) || line[index] == '_' {
		return 0, index, false
	}

	for index < len(line) && (line[index] == '0' || line[index] == '_') {
		index++
	}

	var value uint32
	digits := 0

	for ; index < len(line); index++ {
		if line[index] == '_' {
			if line[index-1] == '_' {
				return 0, index, false
			}
			continue
		}

		digit := hexDigit(line[index])

		if digit < 0 || digit >= base {
			break
		}

		value = value*uint32(base) + uint32(digit)
		digits++
	}

	if index == start || digits > maxDigits || line[index-1] == '_' {
		return 0, index, false
	}

	return float64(value), index, true
}

// Copies decimal digits into buffer, dropping single underscores between
// digits. Reports whether any digits were found.
func copyDigits(line string, index int, buffer *strings.Builder) (int, bool, error) {
	if index < len(line) && line[index] == '_' {
		return index, false, ErrInvalidCharacter
	}

	start := index

	for ; index < len(line); index++ {
		c := line[index]

		if c == '_' {
			if line[index-1] == '_' {
				return index, false, ErrInvalidCharacter
			}
		} else if IsDigit(c) {
			buffer.WriteByte(c)
		} else {
			break
		}
	}

	if index > start && line[index-1] == '_' {
		return index, false, ErrInvalidCharacter
	}

	return index, index != start, nil
}

// ParseNumeric parses the numeric literal at index: decimal (with optional
// fraction and exponent), '&' or '$' prefixed hex, or '%' prefixed binary.
// Any two digits may be separated by a single underscore.
//
// found is false if there is no literal at index. On error, next holds the
// column the problem was detected at.
func ParseNumeric(line string, index int) (value float64, next int, found bool, err error) {
	if index >= len(line) {
		return 0, index, false, nil
	}

	switch c := line[index]; {
	case IsDigit(c) || c == '.':
		var buffer strings.Builder
		var haveDigits, haveFraction bool

		if index, haveDigits, err = copyDigits(line, index, &buffer); err != nil {
			return 0, index, true, err
		}

		if index < len(line) && line[index] == '.' {
			buffer.WriteByte('.')
			index++

			if index, haveFraction, err = copyDigits(line, index, &buffer); err != nil {
				return 0, index, true, err
			}

			haveDigits = haveDigits || haveFraction
		}

		if !haveDigits {
			return 0, index, true, ErrInvalidCharacter
		}

		if index+1 < len(line) && (line[index] == 'e' || line[index] == 'E') &&
			(line[index+1] == '+' || line[index+1] == '-' || IsDigit(line[index+1])) {
			buffer.WriteByte('e')
			index++

			if line[index] == '+' || line[index] == '-' {
				buffer.WriteByte(line[index])
				index++
			}

			var haveExponent bool

			if index, haveExponent, err = copyDigits(line, index, &buffer); err != nil {
				return 0, index, true, err
			} else if !haveExponent {
				return 0, index, true, ErrInvalidCharacter
			}
		}

		// Out of range literals saturate to ±Inf
		value, _ = strconv.ParseFloat(buffer.String(), 64)

		return value, index, true, nil

	case c == '&' || c == '$':
		value, next, ok := parseInteger(line, index+1, 16, 8)

		if !ok {
			return 0, next, true, ErrBadHex
		}

		return value, next, true, nil

	case c == '%':
		value, next, ok := parseInteger(line, index+1, 2, 32)

		if !ok {
			return 0, next, true, ErrBadBinary
		}

		return value, next, true, nil
	}

	return 0, index, false, nil
}
