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

// Package macro stores macro definitions: a name, its parameters and the
// source text of its body.
package macro

import (
	"sort"
	"strings"
)

type Macro struct {
	Name     string
	Params   []string
	Filename string
	Line     int

	body strings.Builder
}

// New starts a definition found on line of filename. The body begins on the
// following line.
func New(filename string, line int) *Macro {
	return &Macro{Filename: filename, Line: line}
}

func (macro *Macro) AddParameter(name string) {
	macro.Params = append(macro.Params, name)
}

// AddLine appends raw source text to the body. Line endings are the
// caller's.
func (macro *Macro) AddLine(text string) {
	macro.body.WriteString(text)
}

func (macro *Macro) Body() string {
	return macro.body.String()
}

type Table struct {
	macros map[string]*Macro
}

func NewTable() *Table {
	return &Table{macros: make(map[string]*Macro)}
}

// Add registers macro under its name. A nil macro is ignored and an existing
// definition is kept.
func (table *Table) Add(macro *Macro) {
	if macro == nil {
		return
	}

	if _, exists := table.macros[macro.Name]; !exists {
		table.macros[macro.Name] = macro
	}
}

func (table *Table) Exists(name string) bool {
	_, exists := table.macros[name]
	return exists
}

func (table *Table) Get(name string) (*Macro, bool) {
	macro, exists := table.macros[name]
	return macro, exists
}

func (table *Table) Names() []string {
	names := make([]string, 0, len(table.macros))

	for name := range table.macros {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
