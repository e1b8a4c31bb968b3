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

// Package asmerr holds the error families raised while assembling: file
// errors, which carry the offending filename, and syntax errors, which carry
// the offending source line, column and call stack.
package asmerr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind uint

func (kind Kind) String() string {
	if int(kind) < len(messages) {
		return messages[kind]
	}

	return "<invalid>"
}

func (kind Kind) IsFileError() bool {
	return kind >= ERR_OPEN_SOURCE && kind <= ERR_FILE_EXISTS
}

// Column value of a syntax error which has not yet been given a position in
// the source line. Raised by the object code buffer, which knows nothing of
// source text.
const Unlocated = -1

type Position struct {
	Filename string
	Line     int
	Column   int
	Text     string
}

// Location renders the file and line of pos in gcc style, or in Visual C
// style when vc is set.
func (pos Position) Location(vc bool) string {
	if vc {
		return fmt.Sprintf("%s(%d)", pos.Filename, pos.Line)
	}

	return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
}

type TokenError interface {
	error
	GetPosition() Position
}

type SyntaxError struct {
	Kind     Kind
	Position Position
	Extra    string
	Stack    []Position
}

func New(kind Kind, text string, column int) *SyntaxError {
	return &SyntaxError{Kind: kind, Position: Position{Column: column, Text: text}}
}

func Raise(kind Kind) *SyntaxError {
	return &SyntaxError{Kind: kind, Position: Position{Column: Unlocated}}
}

func UserError(message, text string, column int) *SyntaxError {
	err := New(ERR_USER, text, column)
	err.Extra = message
	return err
}

func (err *SyntaxError) GetPosition() Position {
	return err.Position
}

func (err *SyntaxError) Located() bool {
	return err.Position.Column != Unlocated
}

func (err *SyntaxError) Message() string {
	if err.Kind == ERR_USER {
		return err.Extra
	}

	return err.Kind.String() + err.Extra
}

func (err *SyntaxError) Error() string {
	if err.Position.Filename == "" {
		return err.Message()
	}

	return fmt.Sprintf(
		"%s: error: %s", err.Position.Location(false), err.Message(),
	)
}

type FileError struct {
	Kind     Kind
	Filename string
	Err      error
}

func (err *FileError) Error() string {
	return fmt.Sprintf("Error: %s: %s", err.Filename, err.Kind)
}

func (err *FileError) Cause() error {
	return err.Err
}

func (err *FileError) Unwrap() error {
	return err.Err
}

func NewFileError(kind Kind, filename string, cause error) *FileError {
	return &FileError{kind, filename, cause}
}

// Locate gives an unlocated syntax error the line and column it was raised
// from. Any other error is returned untouched.
func Locate(err error, text string, column int) error {
	var syntaxErr *SyntaxError

	if errors.As(err, &syntaxErr) && !syntaxErr.Located() {
		syntaxErr.Position.Text = text
		syntaxErr.Position.Column = column
	}

	return err
}

// KindOf reports the kind of the first asmerr error in err's chain.
func KindOf(err error) Kind {
	var syntaxErr *SyntaxError
	var fileErr *FileError

	if errors.As(err, &syntaxErr) {
		return syntaxErr.Kind
	} else if errors.As(err, &fileErr) {
		return fileErr.Kind
	}

	return ERR_NONE
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
