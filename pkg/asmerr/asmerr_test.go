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

package asmerr_test

import (
	"os"
	"testing"

	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
)

func TestSyntaxErrorMessage(t *testing.T) {
	err := asmerr.New(asmerr.ERR_SYMBOL_NOT_DEFINED, "LDA foo", 4)
	err.Position.Filename = "main.6502"
	err.Position.Line = 12

	want := "main.6502:12: error: Symbol not defined."

	if have := err.Error(); have != want {
		t.Fatalf("Error message mismatch\nwant:%s\nhave:%s", want, have)
	}

	if have := err.Position.Location(true); have != "main.6502(12)" {
		t.Fatalf("Location mismatch\nwant:main.6502(12)\nhave:%s", have)
	}
}

func TestUserError(t *testing.T) {
	err := asmerr.UserError("Too big", `ERROR "Too big"`, 0)

	if have := err.Error(); have != "Too big" {
		t.Fatalf("Error message mismatch\nwant:Too big\nhave:%s", have)
	}
}

func TestLocate(t *testing.T) {
	err := error(asmerr.Raise(asmerr.ERR_GUARD_HIT))
	err = errors.WithMessage(err, "EQUB")

	asmerr.Locate(err, "EQUB 1", 0)

	var syntaxErr *asmerr.SyntaxError

	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Wrapped error lost its type\nhave:%T", err)
	}

	if !syntaxErr.Located() || syntaxErr.Position.Text != "EQUB 1" {
		t.Fatalf("Error was not located\nhave:%+v", syntaxErr.Position)
	}

	// A located error keeps its original position
	asmerr.Locate(err, "EQUB 2", 3)

	if syntaxErr.Position.Text != "EQUB 1" || syntaxErr.Position.Column != 0 {
		t.Fatalf("Located error was moved\nhave:%+v", syntaxErr.Position)
	}
}

func TestKindOf(t *testing.T) {
	fileErr := asmerr.NewFileError(
		asmerr.ERR_OPEN_SOURCE, "missing.6502", os.ErrNotExist,
	)

	if !asmerr.Is(errors.Wrap(fileErr, "include"), asmerr.ERR_OPEN_SOURCE) {
		t.Fatalf("Kind mismatch\nwant:%d\nhave:%d",
			asmerr.ERR_OPEN_SOURCE, asmerr.KindOf(fileErr))
	}

	if errors.Cause(fileErr) != os.ErrNotExist {
		t.Fatal("File error does not expose its cause")
	}

	if !asmerr.ERR_BAD_NAME.IsFileError() || asmerr.ERR_GUARD_HIT.IsFileError() {
		t.Fatal("File error classification mismatch")
	}

	want := "Error: missing.6502: Could not open source file for reading."

	if have := fileErr.Error(); have != want {
		t.Fatalf("Error message mismatch\nwant:%s\nhave:%s", want, have)
	}
}
