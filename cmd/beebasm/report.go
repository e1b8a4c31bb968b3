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

package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/assembler"
)

// Points at column of text, keeping its tabs so the caret lines up.
func caret(text string, column int) string {
	var builder strings.Builder

	for i := 0; i < column && i < len(text); i++ {
		if text[i] == '\t' {
			builder.WriteByte('\t')
		} else {
			builder.WriteByte(' ')
		}
	}

	for i := len(text); i < column; i++ {
		builder.WriteByte(' ')
	}

	builder.WriteByte('^')
	return builder.String()
}

// Renders err the way beebasm reports it: the location and message, then
// the offending line with a caret under the column, then the macro call
// stack.
func describe(err error, vc, color bool) string {
	var syntaxErr *asmerr.SyntaxError

	if !errors.As(err, &syntaxErr) || syntaxErr.Position.Filename == "" {
		return err.Error()
	}

	pos := syntaxErr.GetPosition()

	var builder strings.Builder
	fmt.Fprintf(
		&builder, "%s: error: %s", pos.Location(vc), syntaxErr.Message(),
	)

	if syntaxErr.Located() {
		pointer := caret(pos.Text, pos.Column)

		if color {
			pointer = "\033[31m" + pointer + "\033[0m"
		}

		fmt.Fprintf(&builder, "\n%s\n%s", pos.Text, pointer)
	}

	if len(syntaxErr.Stack) > 0 {
		builder.WriteString("\nCall stack:")

		for _, frame := range syntaxErr.Stack {
			fmt.Fprintf(&builder, "\n%s", frame.Location(vc))
		}
	}

	return builder.String()
}

func report(err error) {
	log.Println(describe(err, vcvar, colorvar))

	var fileErr *asmerr.FileError

	if errors.As(err, &fileErr) && fileErr.Err != nil {
		log.Println(errors.Cause(fileErr.Err))
	}
}

func writeDebugTable(filename string, table *assembler.SymTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return errors.Wrap(err, "creating debug table")
	}

	if err := gob.NewEncoder(file).Encode(table); err != nil {
		file.Close()
		return errors.Wrap(err, "encoding debug table")
	}

	return file.Close()
}
