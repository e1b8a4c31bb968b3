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

// Package source drives the line by line processing of one unit of source
// text, a file or a macro expansion, and keeps the FOR, brace and IF state
// that decides which statements run and in which scope.
package source

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/macro"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

type Unit struct {
	Filename string

	lines   []string
	first   int
	cursor  Cursor
	current Cursor
	jumped  bool

	parent *Unit
	ctx    Context

	forStack   []ForFrame
	ifStack    []IfFrame
	initialFor int
	initialIf  int

	currentMacro *macro.Macro
}

// New creates a unit over text whose first line is numbered first. parent is
// the unit that included or expanded it, if any.
func New(filename, text string, first int, parent *Unit, ctx Context) *Unit {
	return &Unit{
		Filename: filename,
		lines:    SplitLines(text),
		first:    first,
		parent:   parent,
		ctx:      ctx,
	}
}

// NewMacroUnit creates the unit expanding m. It sees the FOR and brace
// scopes of parent but starts with no IF levels of its own.
func NewMacroUnit(m *macro.Macro, parent *Unit) *Unit {
	unit := New(m.Filename, m.Body(), m.Line, parent, parent.ctx)
	unit.forStack = append([]ForFrame(nil), parent.forStack...)
	return unit
}

func (unit *Unit) Parent() *Unit {
	return unit.parent
}

func (unit *Unit) Context() Context {
	return unit.ctx
}

// LineNumber is the number of the line being processed.
func (unit *Unit) LineNumber() int {
	return unit.first + unit.current.Line
}

// Here is the position of column on the line being processed.
func (unit *Unit) Here(column int) Cursor {
	return Cursor{unit.current.Line, column}
}

// Jumped reports whether the cursor was rewound while processing the
// current line, in which case the rest of it must not be processed.
func (unit *Unit) Jumped() bool {
	return unit.jumped
}

func (unit *Unit) Position(column int) asmerr.Position {
	text := ""

	if unit.current.Line < len(unit.lines) {
		text = unit.lines[unit.current.Line]
	}

	return asmerr.Position{
		Filename: unit.Filename,
		Line:     unit.LineNumber(),
		Column:   column,
		Text:     text,
	}
}

// CallStack lists the positions of the units which led to this one,
// innermost first.
func (unit *Unit) CallStack() []asmerr.Position {
	var stack []asmerr.Position

	for parent := unit.parent; parent != nil; parent = parent.parent {
		stack = append(stack, parent.Position(0))
	}

	return stack
}

// Gives a syntax error raised by this unit its file, line and call stack.
func (unit *Unit) annotate(err error, text string, column int) error {
	var syntaxErr *asmerr.SyntaxError

	if !errors.As(err, &syntaxErr) || syntaxErr.Position.Filename != "" {
		return err
	}

	if !syntaxErr.Located() {
		syntaxErr.Position.Text = text
		syntaxErr.Position.Column = column
	}

	syntaxErr.Position.Filename = unit.Filename
	syntaxErr.Position.Line = unit.LineNumber()
	syntaxErr.Stack = unit.CallStack()

	return err
}

// Raises kind at the opening construct of a frame left unclosed.
func (unit *Unit) unclosed(kind asmerr.Kind, text string, column, line int) error {
	err := asmerr.New(kind, text, column)
	err.Position.Filename = unit.Filename
	err.Position.Line = line
	err.Stack = unit.CallStack()
	return err
}

// Process hands every line of the unit to proc, following the cursor as FOR
// loops rewind it. Once the text is exhausted, every FOR, brace, IF and
// macro definition opened by the unit must have been closed.
func (unit *Unit) Process(proc LineProcessor) error {
	unit.initialFor = len(unit.forStack)
	unit.initialIf = len(unit.ifStack)

	glog.V(2).Infof("processing %s from line %d", unit.Filename, unit.first)

	for unit.cursor.Line < len(unit.lines) {
		unit.current = unit.cursor
		unit.cursor = Cursor{unit.current.Line + 1, 0}
		unit.jumped = false

		text := unit.lines[unit.current.Line]

		if err := proc.ProcessLine(unit, text, unit.current.Column); err != nil {
			return unit.annotate(err, text, unit.current.Column)
		}
	}

	if len(unit.forStack) != unit.initialFor {
		frame := &unit.forStack[len(unit.forStack)-1]
		kind := asmerr.ERR_FOR_WITHOUT_NEXT

		if frame.IsBrace() {
			kind = asmerr.ERR_MISMATCHED_BRACES
		}

		return unit.unclosed(kind, frame.Text, frame.Column, frame.LineNumber)
	}

	if len(unit.ifStack) != unit.initialIf {
		frame := &unit.ifStack[len(unit.ifStack)-1]
		kind := asmerr.ERR_IF_WITHOUT_ENDIF

		if frame.IsMacroDefinition {
			kind = asmerr.ERR_NO_END_MACRO
		}

		return unit.unclosed(kind, frame.Text, frame.Column, frame.LineNumber)
	}

	return nil
}

// ForLevel is the depth of the FOR and brace stack.
func (unit *Unit) ForLevel() int {
	return len(unit.forStack)
}

// InitialForLevel is the depth inherited from the parent, which this unit
// may not close.
func (unit *Unit) InitialForLevel() int {
	return unit.initialFor
}

// IsRealForLevel reports whether level, counted from 1, is a FOR rather than
// a brace.
func (unit *Unit) IsRealForLevel(level int) bool {
	return !unit.forStack[level-1].IsBrace()
}

// ScopedName qualifies name with the scope instance at level. Level 0 is the
// top level.
func (unit *Unit) ScopedName(name string, level int) symbols.ScopedName {
	if level <= 0 {
		return symbols.TopLevel(name)
	}

	frame := &unit.forStack[level-1]
	return symbols.ScopedName{Name: name, ID: frame.ID, Count: frame.Count}
}

// Lookup finds name in the innermost scope defining it.
func (unit *Unit) Lookup(name string) (symbols.Value, bool) {
	return unit.ctx.Symbols().Lookup(name, unit)
}

func (unit *Unit) pushFor(frame ForFrame, text string, column int) error {
	if len(unit.forStack) == MAX_FOR_LEVELS {
		return asmerr.New(asmerr.ERR_TOO_MANY_FORS, text, column)
	}

	frame.ID = unit.ctx.NextForID()
	frame.Text = text
	frame.Column = column
	frame.LineNumber = unit.LineNumber()

	unit.forStack = append(unit.forStack, frame)
	unit.ctx.ScopeChanged()
	return nil
}

// Finishes the scope on top of the stack. Symbols created inside it can no
// longer be reached, so on the final pass they are dropped.
func (unit *Unit) popFor() {
	frame := unit.forStack[len(unit.forStack)-1]
	unit.forStack = unit.forStack[:len(unit.forStack)-1]

	if unit.ctx.FinalPass() {
		unit.ctx.Symbols().RemoveScope(frame.ID)
	}
}

// OpenFor defines name as the loop variable in the current scope and starts
// a loop whose body begins at resume.
func (unit *Unit) OpenFor(
	name string,
	start, end, step float64,
	resume Cursor,
	text string,
	column int,
) error {
	if step == 0 {
		return asmerr.New(asmerr.ERR_BAD_STEP, text, column)
	}

	if len(unit.forStack) == MAX_FOR_LEVELS {
		return asmerr.New(asmerr.ERR_TOO_MANY_FORS, text, column)
	}

	variable := unit.ScopedName(name, unit.ForLevel())
	err := unit.ctx.Symbols().Define(variable, symbols.Number(start), false)

	if err != nil {
		return asmerr.Locate(err, text, column)
	}

	return unit.pushFor(ForFrame{
		Var:     variable,
		Current: start,
		End:     end,
		Step:    step,
		Resume:  resume,
	}, text, column)
}

func (unit *Unit) OpenBrace(text string, column int) error {
	return unit.pushFor(ForFrame{Current: 1}, text, column)
}

// CloseFor steps the innermost loop. It either finishes the loop or rewinds
// the cursor to the start of its body, reporting which.
func (unit *Unit) CloseFor(text string, column int) (bool, error) {
	if len(unit.forStack) == unit.initialFor {
		return false, asmerr.New(asmerr.ERR_NEXT_WITHOUT_FOR, text, column)
	}

	frame := &unit.forStack[len(unit.forStack)-1]

	if frame.IsBrace() {
		return false, asmerr.New(asmerr.ERR_NEXT_WITHOUT_FOR, text, column)
	}

	frame.Current += frame.Step
	defer unit.ctx.ScopeChanged()

	if (frame.Step > 0 && frame.Current > frame.End) ||
		(frame.Step < 0 && frame.Current < frame.End) {
		unit.ctx.Symbols().Undefine(frame.Var)
		unit.popFor()
		return false, nil
	}

	err := unit.ctx.Symbols().Rebind(frame.Var, symbols.Number(frame.Current))

	if err != nil {
		return false, asmerr.Locate(err, text, column)
	}

	frame.Count++
	unit.cursor = frame.Resume
	unit.jumped = true
	return true, nil
}

func (unit *Unit) CloseBrace(text string, column int) error {
	if len(unit.forStack) == unit.initialFor ||
		!unit.forStack[len(unit.forStack)-1].IsBrace() {
		return asmerr.New(asmerr.ERR_MISMATCHED_BRACES, text, column)
	}

	unit.popFor()
	unit.ctx.ScopeChanged()
	return nil
}

// IsIfConditionTrue reports whether statements currently execute: every
// open IF level must hold.
func (unit *Unit) IsIfConditionTrue() bool {
	for i := range unit.ifStack {
		if !unit.ifStack[i].Condition {
			return false
		}
	}

	return true
}

func (unit *Unit) PushIf(text string, column int) error {
	if len(unit.ifStack) == MAX_IF_LEVELS {
		return asmerr.New(asmerr.ERR_TOO_MANY_IFS, text, column)
	}

	unit.ifStack = append(unit.ifStack, IfFrame{
		Condition:  true,
		Text:       text,
		Column:     column,
		LineNumber: unit.LineNumber(),
	})

	unit.ctx.ScopeChanged()
	return nil
}

func (unit *Unit) topIf() *IfFrame {
	return &unit.ifStack[len(unit.ifStack)-1]
}

func (unit *Unit) SetCondition(condition bool) {
	frame := unit.topIf()
	frame.Condition = condition

	if condition {
		frame.Passed = true
	}
}

func (unit *Unit) StartElse(text string, column int) error {
	if len(unit.ifStack) == unit.initialIf || unit.topIf().HadElse {
		return asmerr.New(asmerr.ERR_ELSE_WITHOUT_IF, text, column)
	}

	frame := unit.topIf()
	frame.HadElse = true
	frame.Condition = !frame.Passed

	unit.ctx.ScopeChanged()
	return nil
}

// StartElif makes the level hold if no earlier branch did. The caller then
// narrows it with SetCondition.
func (unit *Unit) StartElif(text string, column int) error {
	if len(unit.ifStack) == unit.initialIf || unit.topIf().HadElse {
		return asmerr.New(asmerr.ERR_ELIF_WITHOUT_IF, text, column)
	}

	frame := unit.topIf()
	frame.Condition = !frame.Passed

	unit.ctx.ScopeChanged()
	return nil
}

func (unit *Unit) PopIf(text string, column int) error {
	if len(unit.ifStack) == unit.initialIf {
		return asmerr.New(asmerr.ERR_ENDIF_WITHOUT_IF, text, column)
	}

	unit.ifStack = unit.ifStack[:len(unit.ifStack)-1]
	unit.ctx.ScopeChanged()
	return nil
}

// StartMacro opens a macro definition. Its body is captured on the first
// pass only; later passes just skip it.
func (unit *Unit) StartMacro(text string, column int) error {
	if unit.ctx.FirstPass() {
		if unit.currentMacro != nil {
			return asmerr.New(asmerr.ERR_NO_NESTED_MACROS, text, column)
		}

		unit.currentMacro = macro.New(unit.Filename, unit.LineNumber())
	}

	if err := unit.PushIf(text, column); err != nil {
		return err
	}

	unit.topIf().IsMacroDefinition = true
	return nil
}

func (unit *Unit) EndMacro(text string, column int) error {
	if unit.ctx.FirstPass() && unit.currentMacro == nil {
		return asmerr.New(asmerr.ERR_END_MACRO_UNEXPECTED, text, column)
	}

	if err := unit.PopIf(text, column); err != nil {
		return err
	}

	if unit.ctx.FirstPass() {
		// A definition inside a false condition is never named
		if unit.currentMacro.Name != "" {
			glog.V(1).Infof("defined macro %s", unit.currentMacro.Name)
			unit.ctx.Macros().Add(unit.currentMacro)
		}

		unit.currentMacro = nil
	}

	return nil
}

// CurrentMacro is the macro being defined, or nil outside a definition and
// on later passes.
func (unit *Unit) CurrentMacro() *macro.Macro {
	return unit.currentMacro
}

// Capture adds skipped source text to the macro being defined.
func (unit *Unit) Capture(text string) {
	if unit.currentMacro != nil {
		unit.currentMacro.AddLine(text)
	}
}
