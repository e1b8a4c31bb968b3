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

package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/encoding"
	"github.com/lassandro/gobeebasm/pkg/expression"
	"github.com/lassandro/gobeebasm/pkg/macro"
	"github.com/lassandro/gobeebasm/pkg/source"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

// lineParser works through the statements of one line. It is also the
// environment expressions on that line are evaluated in.
type lineParser struct {
	asm    *Assembler
	unit   *source.Unit
	line   string
	column int
}

func (p *lineParser) Lookup(name string) (symbols.Value, bool) {
	return p.unit.Lookup(name)
}

func (p *lineParser) PC() int {
	return p.asm.code.PC()
}

func (p *lineParser) FirstPass() bool {
	return p.asm.FirstPass()
}

func (p *lineParser) Random() float64 {
	return p.asm.rand.Float()
}

func (p *lineParser) AssemblyTime() time.Time {
	return p.asm.options.Time
}

func toInt(f float64) int {
	return int(int32(int64(f)))
}

func matchToken(line string, column int, token string) bool {
	if column+len(token) > len(line) {
		return false
	}

	return strings.EqualFold(line[column:column+len(token)], token)
}

func (p *lineParser) errorAt(kind asmerr.Kind, column int) error {
	return asmerr.New(kind, p.line, column)
}

// Gives errors raised by the object code buffer the current column.
func (p *lineParser) locate(err error) error {
	return asmerr.Locate(err, p.line, p.column)
}

func (p *lineParser) skipSpaces() {
	for p.column < len(p.line) && p.line[p.column] == ' ' {
		p.column++
	}
}

// Skips spaces and reports whether the cursor is on something other than
// one of terminators or the end of the line.
func (p *lineParser) moveToNextAtom(terminators string) bool {
	p.skipSpaces()

	if p.column >= len(p.line) {
		return false
	}

	return strings.IndexByte(terminators, p.line[p.column]) < 0
}

// advance reports whether anything of the current statement remains.
func (p *lineParser) advance() bool {
	return p.moveToNextAtom(";:\\{}")
}

func (p *lineParser) peek(c byte) bool {
	return p.column < len(p.line) && p.line[p.column] == c
}

func (p *lineParser) symbolName() string {
	start := p.column
	p.column = encoding.ScanSymbolName(p.line, p.column)
	return p.line[start:p.column]
}

func (p *lineParser) listing() bool {
	return p.asm.listing(p.unit)
}

func (p *lineParser) listf(format string, args ...interface{}) {
	fmt.Fprintf(p.asm.options.Listing, format, args...)
}

// Evaluates the expression at the cursor and moves past it.
func (p *lineParser) evaluate(allowMismatchedClose bool) (expression.Result, error) {
	result, err := expression.New(p).Evaluate(p.line, p.column, allowMismatchedClose)

	if err != nil {
		return result, err
	}

	p.column = result.Column
	return result, nil
}

// Like evaluate, but a symbol that is not yet defined is an error on the
// first pass too.
func (p *lineParser) evaluateDefined() (symbols.Value, error) {
	result, err := p.evaluate(false)

	if err != nil {
		return symbols.Value{}, err
	}

	if result.Undefined {
		return symbols.Value{}, p.errorAt(asmerr.ERR_SYMBOL_NOT_DEFINED, result.UndefinedAt)
	}

	return result.Value, nil
}

// Evaluates a number, reporting a first pass forward reference as
// undefined rather than failing.
func (p *lineParser) numberOrUndefined(allowMismatchedClose bool) (float64, bool, error) {
	result, err := p.evaluate(allowMismatchedClose)

	if err != nil {
		return 0, false, err
	}

	if result.Undefined {
		return 0, true, nil
	}

	if !result.Value.IsNumber() {
		return 0, false, p.errorAt(asmerr.ERR_TYPE_MISMATCH, p.column)
	}

	return result.Value.Number, false, nil
}

func (p *lineParser) integerOrUndefined(allowMismatchedClose bool) (int, bool, error) {
	number, undefined, err := p.numberOrUndefined(allowMismatchedClose)
	return toInt(number), undefined, err
}

func (p *lineParser) integer() (int, error) {
	value, err := p.evaluateDefined()

	if err != nil {
		return 0, err
	}

	if !value.IsNumber() {
		return 0, p.errorAt(asmerr.ERR_TYPE_MISMATCH, p.column)
	}

	return toInt(value.Number), nil
}

func (p *lineParser) text() (string, error) {
	value, err := p.evaluateDefined()

	if err != nil {
		return "", err
	}

	if !value.IsString() {
		return "", p.errorAt(asmerr.ERR_TYPE_MISMATCH, p.column)
	}

	return value.Text, nil
}

func (p *lineParser) process() error {
	processed := false

	for p.moveToNextAtom("") {
		processed = true
		start := p.column

		// An assignment takes priority over keywords, so "player = 1"
		// is not PLA
		assignment := p.isAssignment()

		if !assignment && p.isAnonymousLabel() {
			p.handleAnonymousLabel(start)
			continue
		}

		if !assignment {
			if directive, ok := p.matchDirective(); ok {
				if err := p.handleDirective(directive, start); err != nil {
					return err
				}

				if p.unit.Jumped() {
					return nil
				}

				continue
			}
		}

		if !p.unit.IsIfConditionTrue() {
			p.column = start
			p.skipStatement()
			continue
		}

		if !assignment {
			if instruction, ok := p.matchInstruction(p.asm.options.RequireDistinctOpcodes); ok {
				if err := p.handleInstruction(instruction); err != nil {
					return err
				}

				continue
			}
		}

		if assignment {
			if err := p.handleAssignment(start); err != nil {
				return err
			}

			continue
		}

		if encoding.IsSymbolStart(p.line[p.column]) {
			if m, exists := p.asm.macros.Get(p.symbolName()); exists {
				if err := p.handleMacroCall(m); err != nil {
					return err
				}

				continue
			}
		}

		return p.errorAt(asmerr.ERR_UNRECOGNISED_TOKEN, start)
	}

	if !processed && !p.unit.IsIfConditionTrue() {
		p.column = 0
		p.skipStatement()
	}

	return nil
}

func (p *lineParser) isAssignment() bool {
	start := p.column
	defer func() { p.column = start }()

	if !encoding.IsSymbolStart(p.line[p.column]) {
		return false
	}

	p.column = encoding.ScanSymbolName(p.line, p.column)
	return p.advance() && p.line[p.column] == '='
}

// A lone + or - declares an anonymous label.
func (p *lineParser) isAnonymousLabel() bool {
	c := p.line[p.column]

	if c != '+' && c != '-' {
		return false
	}

	return p.column+1 == len(p.line) || p.line[p.column+1] == ' '
}

// Moves past the current statement. Inside a macro definition the text
// passed over becomes part of the macro body.
func (p *lineParser) skipStatement() {
	start := p.column
	inQuotes := false
	inSingleQuotes := false

	if p.column < len(p.line) && strings.IndexByte("{}:", p.line[p.column]) >= 0 {
		p.column++
	} else if p.column < len(p.line) && (p.line[p.column] == '\\' || p.line[p.column] == ';') {
		p.column = len(p.line)
	} else {
		for p.column < len(p.line) && (inQuotes || inSingleQuotes || p.moveToNextAtom(":;\\{}")) {
			switch c := p.line[p.column]; {
			case c == '"' && !inSingleQuotes:
				inQuotes = !inQuotes
			case c == '\'':
				if inSingleQuotes {
					inSingleQuotes = false
				} else if p.column+2 < len(p.line) && p.line[p.column+2] == '\'' && !inQuotes {
					inSingleQuotes = true
					p.column++
				}
			}

			p.column++
		}
	}

	if p.unit.CurrentMacro() != nil {
		text := p.line[start:p.column]

		if p.column == len(p.line) {
			text += "\n"
		}

		p.unit.Capture(text)
	}
}

func (p *lineParser) matchDirective() (DirectiveType, bool) {
	for _, directive := range directives {
		if matchToken(p.line, p.column, directive.Token) {
			p.column += len(directive.Token)
			return directive.Type, true
		}
	}

	return DIRECTIVE_INVALID, false
}

func (p *lineParser) matchInstruction(requireDistinct bool) (int, bool) {
	for i := range opcodes {
		name := opcodes[i].Name

		if opcodes[i].CPU > p.asm.code.CPU() || !matchToken(p.line, p.column, name) {
			continue
		}

		if next := p.column + len(name); requireDistinct && next < len(p.line) {
			if p.line[next] != ' ' && p.line[next] != ':' {
				continue
			}
		}

		p.column += len(name)
		return i, true
	}

	return 0, false
}

func (p *lineParser) handleAssignment(start int) error {
	conditional := false
	name := p.unit.ScopedName(p.symbolName(), p.unit.ForLevel())

	if !p.advance() || p.line[p.column] != '=' {
		return p.errorAt(asmerr.ERR_UNRECOGNISED_TOKEN, start)
	}

	p.column++

	if p.peek('?') {
		conditional = true
		p.column++
	}

	value, err := p.evaluateDefined()

	if err != nil {
		return err
	}

	if p.asm.FirstPass() {
		if p.asm.symbols.IsDefined(name) {
			if !conditional {
				return p.errorAt(asmerr.ERR_LABEL_ALREADY_DEFINED, start)
			}
		} else if err := p.asm.symbols.Define(name, value, false); err != nil {
			return asmerr.Locate(err, p.line, start)
		}
	}

	if p.peek(',') {
		return p.errorAt(asmerr.ERR_UNEXPECTED_COMMA, p.column)
	}

	return nil
}

// Binds the arguments of a macro call in a new brace scope and runs the
// macro body in it.
func (p *lineParser) handleMacroCall(m *macro.Macro) error {
	if p.listing() {
		p.listf("Macro %s:\n", m.Name)
	}

	if err := p.unit.OpenBrace(p.line, p.column-1); err != nil {
		return err
	}

	for i, param := range m.Params {
		name := p.unit.ScopedName(param, p.unit.ForLevel())

		if !p.asm.symbols.IsDefined(name) || !p.asm.FirstPass() {
			p.asm.symbols.Undefine(name)
			result, err := p.evaluate(false)

			if err != nil {
				return err
			}

			if !result.Undefined {
				if err := p.asm.symbols.Define(name, result.Value, false); err != nil {
					return asmerr.Locate(err, p.line, p.column)
				}
			}
		}

		if i != len(m.Params)-1 {
			if !p.peek(',') {
				return p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
			}

			p.column++
		}
	}

	if p.advance() {
		return p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
	}

	glog.V(1).Infof("expanding macro %s at %s:%d", m.Name, p.unit.Filename, p.unit.LineNumber())

	if err := source.NewMacroUnit(m, p.unit).Process(p.asm); err != nil {
		return err
	}

	if err := p.unit.CloseBrace(p.line, p.column-1); err != nil {
		return err
	}

	if p.listing() {
		p.listf("End macro %s\n", m.Name)
	}

	return nil
}

type anonymousLabels struct {
	// PC of the last '-' label, or -1
	back int
	// References waiting for the next '+' label
	forward []symbols.ScopedName
}

func (labels *anonymousLabels) Clear() {
	labels.back = -1
	labels.forward = nil
}

func (p *lineParser) handleAnonymousLabel(start int) {
	if !p.unit.IsIfConditionTrue() {
		p.column = start
		p.skipStatement()
		return
	}

	labels := &p.asm.anonymous
	pc := p.asm.code.PC()

	if p.line[p.column] == '-' {
		labels.back = pc
	} else {
		for _, name := range labels.forward {
			p.asm.symbols.Assign(name, symbols.Number(float64(pc)))
		}

		labels.forward = nil
	}

	p.column++
}

func anonymousName(pc int) string {
	return fmt.Sprintf("+_%04X", pc)
}

// Reads a lone + or - operand as a reference to the next or previous
// anonymous label.
func (p *lineParser) anonymousReference() (int, bool, error) {
	if p.column >= len(p.line) {
		return 0, false, nil
	}

	c := p.line[p.column]

	if c != '+' && c != '-' {
		return 0, false, nil
	}

	start := p.column
	p.column++

	if p.advance() {
		p.column = start
		return 0, false, nil
	}

	pc := p.asm.code.PC()

	if c == '-' {
		if p.asm.anonymous.back == -1 {
			return 0, false, p.errorAt(asmerr.ERR_SYMBOL_NOT_DEFINED, p.column)
		}

		return p.asm.anonymous.back, true, nil
	}

	name := anonymousName(pc)

	if p.asm.FirstPass() {
		labels := &p.asm.anonymous
		labels.forward = append(labels.forward, p.unit.ScopedName(name, p.unit.ForLevel()))
		return pc, true, nil
	}

	value, exists := p.unit.Lookup(name)

	if !exists {
		return 0, false, p.errorAt(asmerr.ERR_SYMBOL_NOT_DEFINED, start)
	}

	return toInt(value.Number), true, nil
}
