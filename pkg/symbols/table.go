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
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/encoding"
)

// Scoper maps an unqualified name onto the scoped name visible at each
// nesting level of the current source unit, innermost level first.
type Scoper interface {
	ForLevel() int
	ScopedName(name string, level int) ScopedName
}

// Table is the symbol table for one assembly run. It lives across both
// passes: labels are defined on the first pass and verified on the second.
type Table struct {
	symbols map[ScopedName]*Symbol

	// Labels of scopes removed by RemoveScope
	retired []Label
}

func NewTable() *Table {
	table := &Table{symbols: make(map[ScopedName]*Symbol)}

	table.symbols[TopLevel("PI")] = &Symbol{Value: Number(math.Pi)}
	table.symbols[TopLevel("P%")] = &Symbol{Value: Number(0)}
	table.symbols[TopLevel("TRUE")] = &Symbol{Value: Number(-1)}
	table.symbols[TopLevel("FALSE")] = &Symbol{Value: Number(0)}

	return table
}

func (table *Table) IsDefined(name ScopedName) bool {
	_, exists := table.symbols[name]
	return exists
}

func (table *Table) Get(name ScopedName) (Value, bool) {
	if symbol, exists := table.symbols[name]; exists {
		return symbol.Value, true
	}

	return Value{}, false
}

func (table *Table) Define(name ScopedName, value Value, isLabel bool) error {
	if table.IsDefined(name) {
		return asmerr.Raise(asmerr.ERR_LABEL_ALREADY_DEFINED)
	}

	table.symbols[name] = &Symbol{value, isLabel}
	return nil
}

// Assign binds name regardless of whether it is already defined.
func (table *Table) Assign(name ScopedName, value Value) {
	if symbol, exists := table.symbols[name]; exists {
		symbol.Value = value
		return
	}

	table.symbols[name] = &Symbol{Value: value}
}

func (table *Table) Rebind(name ScopedName, value Value) error {
	symbol, exists := table.symbols[name]

	if !exists {
		return asmerr.Raise(asmerr.ERR_SYMBOL_NOT_DEFINED)
	}

	symbol.Value = value
	return nil
}

func (table *Table) Undefine(name ScopedName) {
	delete(table.symbols, name)
}

// RemoveScope drops every binding made inside any instance of the FOR or
// brace block with the given id. Its labels are kept for Labels(true).
func (table *Table) RemoveScope(id int) {
	for name, symbol := range table.symbols {
		if name.ID != id {
			continue
		}

		if symbol.IsLabel && symbol.Value.IsNumber() {
			table.retired = append(table.retired, Label{name.String(), symbol.Value.Number})
		}

		delete(table.symbols, name)
	}
}

// Lookup resolves name dynamically: each level from the innermost active
// scope out to the top level is tried in turn.
func (table *Table) Lookup(name string, scope Scoper) (Value, bool) {
	for level := scope.ForLevel(); level >= 0; level-- {
		if value, exists := table.Get(scope.ScopedName(name, level)); exists {
			return value, true
		}
	}

	return Value{}, false
}

func (table *Table) SetPC(pc int) {
	table.symbols[TopLevel("P%")].Value = Number(float64(pc))
}

func splitDefinition(expr string) (string, string, bool, error) {
	name, value, hasValue := strings.Cut(expr, "=")

	if end := encoding.ScanSymbolName(name, 0); end == 0 || end != len(name) {
		return "", "", false, errors.Errorf("invalid symbol name '%s'", name)
	}

	return name, value, hasValue, nil
}

// DefineCommandLine defines a numeric top-level symbol from "name=value".
// A bare "name" is defined as TRUE.
func (table *Table) DefineCommandLine(expr string) error {
	name, text, hasValue, err := splitDefinition(expr)

	if err != nil {
		return err
	}

	value := -1.0

	if hasValue {
		number, next, found, err := encoding.ParseNumeric(text, 0)

		if err != nil || !found || next != len(text) {
			return errors.Errorf("invalid numeric value '%s'", text)
		}

		value = number
	}

	table.Assign(TopLevel(name), Number(value))
	return nil
}

// DefineCommandLineString defines a string top-level symbol from
// "name=text".
func (table *Table) DefineCommandLineString(expr string) error {
	name, text, hasValue, err := splitDefinition(expr)

	if err != nil {
		return err
	}

	if !hasValue {
		return errors.Errorf("missing value for '%s'", name)
	}

	table.Assign(TopLevel(name), Text(text))
	return nil
}

// Labels returns the numeric labels sorted by name, top-level only unless
// all is set. All includes the labels of scopes that have been removed.
func (table *Table) Labels(all bool) []Label {
	labels := make([]Label, 0)

	if all {
		labels = append(labels, table.retired...)
	}

	for name, symbol := range table.symbols {
		if !symbol.IsLabel || !symbol.Value.IsNumber() {
			continue
		}

		if !name.IsTopLevel() && !all {
			continue
		}

		labels = append(labels, Label{name.String(), symbol.Value.Number})
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

	return labels
}

// Dump writes the labels as [{'name':valueL,...}]
func (table *Table) Dump(w io.Writer, all bool) error {
	var builder strings.Builder

	builder.WriteString("[{")

	for i, label := range table.Labels(all) {
		if i > 0 {
			builder.WriteByte(',')
		}

		fmt.Fprintf(&builder, "'%s':%sL", label.Name, FormatNumber(label.Value))
	}

	builder.WriteString("}]\n")

	_, err := io.WriteString(w, builder.String())
	return errors.Wrap(err, "writing symbol dump")
}

// Snapshot copies every binding, for diagnostics.
func (table *Table) Snapshot() map[ScopedName]Symbol {
	result := make(map[ScopedName]Symbol, len(table.symbols))

	for name, symbol := range table.symbols {
		result[name] = *symbol
	}

	return result
}
