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

package source

import (
	"strings"
)

// SplitLines breaks text into lines, dropping carriage returns and turning
// tabs into single spaces.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")

	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = strings.ReplaceAll(line, "\t", " ")
	}

	return lines
}
