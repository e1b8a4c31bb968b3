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
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang/glog"

	"github.com/lassandro/gobeebasm/pkg/asmerr"
	"github.com/lassandro/gobeebasm/pkg/encoding"
	"github.com/lassandro/gobeebasm/pkg/source"
	"github.com/lassandro/gobeebasm/pkg/symbols"
)

func (p *lineParser) handleDirective(directive DirectiveType, start int) error {
	var err error

	// Conditional structure is tracked even where statements are skipped
	switch directive {
	case DIRECTIVE_IF:
		err = p.unit.PushIf(p.line, start)
	case DIRECTIVE_ELIF:
		err = p.unit.StartElif(p.line, start)
	case DIRECTIVE_ELSE:
		err = p.unit.StartElse(p.line, start)
	case DIRECTIVE_ENDIF:
		err = p.unit.PopIf(p.line, start)
	case DIRECTIVE_MACRO:
		err = p.unit.StartMacro(p.line, start)
	case DIRECTIVE_ENDMACRO:
		err = p.unit.EndMacro(p.line, start)
	}

	if err != nil {
		return err
	}

	if !p.unit.IsIfConditionTrue() {
		p.column = start
		p.skipStatement()
		return nil
	}

	switch directive {
	case DIRECTIVE_LABEL:
		return p.handleLabel()
	case DIRECTIVE_COMMENT:
		p.column = len(p.line)
	case DIRECTIVE_SEPARATOR:
	case DIRECTIVE_PRINT:
		return p.handlePrint()
	case DIRECTIVE_CPU:
		return p.handleCPU()
	case DIRECTIVE_ORG:
		return p.handleOrg()
	case DIRECTIVE_INCLUDE:
		return p.handleInclude()
	case DIRECTIVE_EQUB, DIRECTIVE_EQUS:
		return p.handleEqub()
	case DIRECTIVE_EQUW:
		return p.handleEquw()
	case DIRECTIVE_EQUD:
		return p.handleEqud()
	case DIRECTIVE_ASSERT:
		return p.handleAssert()
	case DIRECTIVE_SAVE:
		return p.handleSave()
	case DIRECTIVE_FOR:
		return p.handleFor(start)
	case DIRECTIVE_NEXT:
		return p.handleNext(start)
	case DIRECTIVE_IF, DIRECTIVE_ELIF:
		return p.handleIf()
	case DIRECTIVE_ELSE, DIRECTIVE_ENDIF, DIRECTIVE_ENDMACRO:
		return p.expectEnd()
	case DIRECTIVE_ALIGN:
		return p.handleAlign(start)
	case DIRECTIVE_SKIPTO:
		return p.handleSkipTo()
	case DIRECTIVE_SKIP:
		return p.handleSkip()
	case DIRECTIVE_GUARD:
		return p.handleGuard()
	case DIRECTIVE_CLEAR:
		return p.handleClear()
	case DIRECTIVE_INCBIN:
		return p.handleIncBin()
	case DIRECTIVE_OPEN_BRACE:
		return p.unit.OpenBrace(p.line, p.column-1)
	case DIRECTIVE_CLOSE_BRACE:
		return p.unit.CloseBrace(p.line, p.column-1)
	case DIRECTIVE_MAPCHAR:
		return p.handleMapChar()
	case DIRECTIVE_PUTFILE:
		return p.handlePutFile(false)
	case DIRECTIVE_PUTTEXT:
		return p.handlePutFile(true)
	case DIRECTIVE_PUTBASIC:
		return p.handlePutBasic()
	case DIRECTIVE_MACRO:
		return p.handleMacro()
	case DIRECTIVE_ERROR:
		return p.handleError(start)
	case DIRECTIVE_COPYBLOCK:
		return p.handleCopyBlock()
	case DIRECTIVE_RANDOMIZE:
		return p.handleRandomize()
	case DIRECTIVE_ASM:
		return p.handleAsm()
	case DIRECTIVE_DEFINE:
		return p.handleDefine(false)
	case DIRECTIVE_ASSIGN:
		return p.handleDefine(true)
	}

	return nil
}

// Fails unless the statement has ended.
func (p *lineParser) expectEnd() error {
	if p.advance() {
		return p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
	}

	return nil
}

// An expression may end at a comma, which single valued statements reject.
func (p *lineParser) rejectComma() error {
	if p.peek(',') {
		return p.errorAt(asmerr.ERR_UNEXPECTED_COMMA, p.column)
	}

	return nil
}

func (p *lineParser) handleLabel() error {
	if p.column >= len(p.line) {
		return p.errorAt(asmerr.ERR_INVALID_SYMBOL_NAME, p.column)
	}

	start := p.column
	level := p.unit.ForLevel()

	switch p.line[p.column] {
	case '*':
		p.column++
		level = 0
	case '^':
		p.column++
		level = max(level-1, 0)
	}

	if level < p.unit.InitialForLevel() {
		return p.errorAt(asmerr.ERR_SYMBOL_SCOPE_OUTSIDE_MACRO, start)
	}

	for l := p.unit.ForLevel(); l > level; l-- {
		if p.unit.IsRealForLevel(l) {
			return p.errorAt(asmerr.ERR_SYMBOL_SCOPE_OUTSIDE_FOR, start)
		}
	}

	if p.column >= len(p.line) || !encoding.IsSymbolStart(p.line[p.column]) {
		return p.errorAt(asmerr.ERR_INVALID_SYMBOL_NAME, p.column)
	}

	nameColumn := p.column
	label := p.symbolName()
	name := p.unit.ScopedName(label, level)
	pc := float64(p.asm.code.PC())

	if p.asm.FirstPass() {
		if err := p.asm.symbols.Define(name, symbols.Number(pc), true); err != nil {
			return asmerr.Locate(err, p.line, nameColumn)
		}
	} else {
		value, _ := p.asm.symbols.Get(name)

		if !value.IsNumber() || value.Number != pc {
			return p.errorAt(asmerr.ERR_SECOND_PASS_PROBLEM, nameColumn)
		}
	}

	if p.listing() {
		p.listf(".%s\n", label)
	}

	return nil
}

func (p *lineParser) handleOrg() error {
	args := newArgList(p, false)
	addr := args.parseInt().Range(0, 0xFFFF).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	p.asm.code.SetPC(addr)
	return nil
}

func (p *lineParser) handleCPU() error {
	args := newArgList(p, false)
	cpu := args.parseInt().Range(0, 1).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	p.asm.code.SetCPU(cpu)
	return nil
}

func (p *lineParser) handleGuard() error {
	args := newArgList(p, false)
	addr := args.parseInt().Range(0, 0xFFFF).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	p.asm.code.SetGuard(addr)
	return nil
}

func (p *lineParser) handleClear() error {
	args := newArgList(p, false)
	start := args.parseInt().Range(0, 0xFFFF).Int()
	end := args.parseInt().Range(0, 0x10000).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	p.asm.code.Clear(start, end, true)
	return nil
}

func (p *lineParser) handleMapChar() error {
	args := newArgList(p, false)
	first := args.parseInt().Range(0x20, 0x7E).Int()
	second := args.parseInt().Range(0, 0xFF).Int()
	third := args.parseInt().Range(0, 0xFF)

	if err := args.Complete(); err != nil {
		return err
	}

	if !third.Found() {
		p.asm.code.SetMapping(first, byte(second))
		return nil
	}

	if second < 0x20 || second > 0x7E || second < first {
		return p.errorAt(asmerr.ERR_OUT_OF_RANGE, p.column)
	}

	mapped := third.Int()

	for i := first; i <= second; i++ {
		p.asm.code.SetMapping(i, byte(mapped+i-first))
	}

	return nil
}

func (p *lineParser) handleAlign(start int) error {
	alignment, err := p.integer()

	if err != nil {
		return err
	}

	if alignment < 1 || alignment&(alignment-1) != 0 {
		return p.errorAt(asmerr.ERR_BAD_ALIGNMENT, start)
	}

	for p.asm.code.PC()&(alignment-1) != 0 {
		if err := p.asm.code.PutByte(0); err != nil {
			return p.locate(err)
		}
	}

	return p.rejectComma()
}

func (p *lineParser) handleSkip() error {
	start := p.column
	count, err := p.integer()

	if err != nil {
		return err
	}

	if count < 0 {
		return p.errorAt(asmerr.ERR_IMM_NEGATIVE, start)
	}

	if p.listing() {
		p.listf("     %04X\n", p.asm.code.PC())
	}

	for i := 0; i < count; i++ {
		if err := p.asm.code.PutByte(0); err != nil {
			return p.locate(err)
		}
	}

	return p.rejectComma()
}

func (p *lineParser) handleSkipTo() error {
	args := newArgList(p, false)
	arg := args.parseInt().Range(0, 0x10000)
	addr := arg.Int()

	if err := args.Complete(); err != nil {
		return err
	}

	if p.asm.code.PC() > addr {
		return p.errorAt(asmerr.ERR_BACKWARDS_SKIP, arg.column)
	}

	for p.asm.code.PC() < addr {
		if err := p.asm.code.PutByte(0); err != nil {
			return p.locate(err)
		}
	}

	return nil
}

func (p *lineParser) handleInclude() error {
	if p.unit.ForLevel() > 0 {
		return p.errorAt(asmerr.ERR_CANT_INCLUDE, p.column)
	}

	filename, err := p.text()

	if err != nil {
		return err
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	text, err := fs.ReadFile(p.asm.options.Files, filename)

	if err != nil {
		return asmerr.NewFileError(asmerr.ERR_OPEN_SOURCE, filename, err)
	}

	glog.V(1).Infof("including %s", filename)
	return source.New(filename, string(text), 1, p.unit, p.asm).Process(p.asm)
}

func (p *lineParser) handleIncBin() error {
	filename, err := p.text()

	if err != nil {
		return err
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	file, err := p.asm.options.Files.Open(filename)

	if err != nil {
		glog.Warningf("INCBIN %s: %v", filename, err)
		return p.errorAt(asmerr.ERR_FILE_OPEN, p.column)
	}

	defer file.Close()
	return p.locate(p.asm.code.IncBin(file))
}

// EQUB and EQUS take any mix of bytes and strings.
func (p *lineParser) handleEqub() error {
	args := newArgList(p, false)
	code := p.asm.code

	for value := args.parseValue().AcceptUndef().Require(); value.Found(); value = args.parseValue().AcceptUndef() {
		if value.Value().IsString() {
			text := value.Value().Text
			mapped := make([]byte, len(text))

			for i := range mapped {
				mapped[i] = code.Mapping(text[i])
			}

			if p.listing() {
				p.listBytes(mapped)
			}

			for _, b := range mapped {
				if err := code.PutByte(b); err != nil {
					return p.locate(err)
				}
			}

			continue
		}

		number := toInt(value.Value().Number)

		if number > 0xFF {
			return p.errorAt(asmerr.ERR_NUMBER_TOO_BIG, p.column)
		}

		if p.listing() {
			p.listBytes([]byte{byte(number)})
		}

		if err := code.PutByte(byte(number)); err != nil {
			return p.locate(err)
		}
	}

	return args.Complete()
}

// Lists the first three bytes of data at the current address.
func (p *lineParser) listBytes(data []byte) {
	var line strings.Builder

	fmt.Fprintf(&line, "     %04X  ", p.asm.code.PC())

	for i, b := range data {
		if i == 3 {
			line.WriteString(" ...")
			break
		}

		fmt.Fprintf(&line, " %02X", b)
	}

	p.listf("%s\n", line.String())
}

// Writes size bytes of each value, least significant first.
func (p *lineParser) putWords(size int, high float64) error {
	args := newArgList(p, false)

	// The first value is required
	number := args.parseInt().AcceptUndef().Maximum(high).Int()

	for args.err == nil {
		data := make([]byte, size)

		for i := range data {
			data[i] = byte(number >> (8 * i))
		}

		if p.listing() {
			p.listBytes(data)
		}

		for _, b := range data {
			if err := p.asm.code.PutByte(b); err != nil {
				return p.locate(err)
			}
		}

		value := args.parseInt().AcceptUndef().Maximum(high)

		if !value.Found() {
			break
		}

		number = value.Int()
	}

	return args.Complete()
}

func (p *lineParser) handleEquw() error {
	return p.putWords(2, 0xFFFF)
}

func (p *lineParser) handleEqud() error {
	return p.putWords(4, 0xFFFFFFFF)
}

func (p *lineParser) handleAssert() error {
	for {
		start := p.column
		value, undefined, err := p.integerOrUndefined(false)

		if err != nil {
			return err
		}

		if !undefined && !p.asm.FirstPass() && value == 0 {
			for start < len(p.line) && p.line[start] == ' ' {
				start++
			}

			return p.errorAt(asmerr.ERR_ASSERTION_FAILED, start)
		}

		if !p.advance() {
			return nil
		}

		if !p.peek(',') {
			return p.errorAt(asmerr.ERR_INVALID_CHARACTER, p.column)
		}

		p.column++

		if !p.advance() {
			return p.errorAt(asmerr.ERR_EMPTY_EXPRESSION, p.column)
		}
	}
}

func (p *lineParser) handleSave() error {
	args := newArgList(p, false)
	filename := args.parseString()
	start := args.parseInt().Range(0, 0xFFFF).Int()
	endArg := args.parseInt().Range(0, 0x10000)
	end := endArg.Int()
	exec := args.parseInt().AcceptUndef().Default(float64(start)).Range(0, 0xFFFFFF).Int()
	reload := args.parseInt().Default(float64(start)).Range(0, 0xFFFFFF).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	if end < start {
		return p.errorAt(asmerr.ERR_OUT_OF_RANGE, endArg.column)
	}

	name := ""

	if filename.Found() {
		name = filename.value
	}

	if name == "" {
		if p.asm.options.OutputFile == "" {
			return p.errorAt(asmerr.ERR_NO_ANON_SAVE, filename.column)
		}

		name = p.asm.options.OutputFile

		if p.asm.FinalPass() {
			if p.asm.anonSaves > 0 {
				return p.errorAt(asmerr.ERR_ONLY_ONE_ANON_SAVE, filename.column)
			}

			p.asm.anonSaves++
		}
	}

	if p.listing() {
		p.listf("Saving file '%s'\n", name)
	}

	if !p.asm.FinalPass() {
		return nil
	}

	data := p.asm.code.Bytes(start, end)

	if disc := p.asm.options.Disc; disc != nil {
		if err := disc.AddFile(name, data, reload, exec, len(data)); err != nil {
			return p.locate(err)
		}
	} else if err := p.asm.options.Writer.WriteFile(name, data); err != nil {
		return asmerr.NewFileError(asmerr.ERR_OPEN_OBJECT, name, err)
	}

	glog.V(1).Infof("saved %s: &%04X-&%04X", name, start, end)
	p.asm.saved = true
	return nil
}

func (p *lineParser) handleFor(start int) error {
	if !p.advance() {
		return p.errorAt(asmerr.ERR_EMPTY_EXPRESSION, p.column)
	}

	if !encoding.IsSymbolStart(p.line[p.column]) {
		return p.errorAt(asmerr.ERR_INVALID_SYMBOL_NAME, p.column)
	}

	nameColumn := p.column
	name := p.symbolName()

	if p.asm.symbols.IsDefined(p.unit.ScopedName(name, p.unit.ForLevel())) {
		return p.errorAt(asmerr.ERR_LABEL_ALREADY_DEFINED, nameColumn)
	}

	args := newArgList(p, true)
	from := args.parseDouble().Float()
	to := args.parseDouble().Float()
	step := args.parseDouble().Default(1).Float()

	if err := args.Complete(); err != nil {
		return err
	}

	if step == 0 {
		return p.errorAt(asmerr.ERR_BAD_STEP, p.column)
	}

	return p.unit.OpenFor(name, from, to, step, p.unit.Here(p.column), p.line, start)
}

func (p *lineParser) handleNext(start int) error {
	if err := p.expectEnd(); err != nil {
		return err
	}

	_, err := p.unit.CloseFor(p.line, start)
	return err
}

func (p *lineParser) handleIf() error {
	condition, err := p.integer()

	if err != nil {
		return err
	}

	p.unit.SetCondition(condition != 0)
	return p.rejectComma()
}

func (p *lineParser) handlePrint() error {
	var output strings.Builder
	final := p.asm.FinalPass()

	for p.advance() {
		switch {
		case p.peek(','):
			p.column++

		case p.peek('~'):
			p.column++
			value, undefined, err := p.integerOrUndefined(false)

			if err != nil {
				return err
			}

			if undefined {
				value = 0
			}

			fmt.Fprintf(&output, "&%X ", uint32(value))

		case strings.HasPrefix(p.line[p.column:], "FILELINE$"):
			p.column += len("FILELINE$")
			output.WriteString(p.unit.Position(0).Location(p.asm.options.VisualC))

		case strings.HasPrefix(p.line[p.column:], "CALLSTACK$"):
			p.column += len("CALLSTACK$")
			output.WriteString(p.unit.Position(0).Location(p.asm.options.VisualC))

			for _, position := range p.unit.CallStack() {
				output.WriteString("\n" + position.Location(p.asm.options.VisualC))
			}

		default:
			result, err := p.evaluate(false)

			if err != nil {
				return err
			}

			if result.Undefined {
				continue
			}

			if result.Value.IsNumber() {
				output.WriteString(symbols.FormatNumber(result.Value.Number) + " ")
			} else {
				output.WriteString(result.Value.Text)
			}
		}
	}

	if final {
		output.WriteString("\n")
		_, err := p.asm.options.Output.Write([]byte(output.String()))
		return err
	}

	return nil
}

func (p *lineParser) handlePutFile(text bool) error {
	args := newArgList(p, false)
	host := args.parseString().String()
	beeb := args.parseString().Default(host).String()
	load := args.parseInt().AcceptUndef().Range(0, 0xFFFFFF).Int()
	exec := args.parseInt().AcceptUndef().Default(float64(load)).Range(0, 0xFFFFFF).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	if !p.asm.FinalPass() {
		return nil
	}

	data, err := fs.ReadFile(p.asm.options.Files, host)

	if err != nil {
		glog.Warningf("PUTFILE %s: %v", host, err)
		return p.errorAt(asmerr.ERR_FILE_OPEN, p.column)
	}

	if text {
		data = toBBCLineEndings(data)
	}

	if disc := p.asm.options.Disc; disc != nil {
		return p.locate(disc.AddFile(beeb, data, load, exec, len(data)))
	}

	return nil
}

// Turns every LF, CR, CRLF or LFCR into a single CR.
func toBBCLineEndings(data []byte) []byte {
	var out bytes.Buffer

	for i := 0; i < len(data); i++ {
		c := data[i]

		if c != '\n' && c != '\r' {
			out.WriteByte(c)
			continue
		}

		if i+1 < len(data) && (data[i+1] == '\n' || data[i+1] == '\r') && data[i+1] != c {
			i++
		}

		out.WriteByte('\r')
	}

	return out.Bytes()
}

func (p *lineParser) handlePutBasic() error {
	host, err := p.text()

	if err != nil {
		return err
	}

	beeb := host

	if p.advance() {
		if !p.peek(',') {
			return p.errorAt(asmerr.ERR_MISSING_COMMA, p.column)
		}

		p.column++

		if beeb, err = p.text(); err != nil {
			return err
		}
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	disc := p.asm.options.Disc

	if !p.asm.FinalPass() || disc == nil {
		return nil
	}

	text, err := fs.ReadFile(p.asm.options.Files, host)

	if err != nil {
		glog.Warningf("PUTBASIC %s: %v", host, err)
		return p.errorAt(asmerr.ERR_FILE_OPEN, p.column)
	}

	if p.asm.options.Tokenizer == nil {
		return asmerr.UserError(host+": no BASIC tokenizer", p.line, p.column)
	}

	program, err := p.asm.options.Tokenizer.Tokenize(text)

	if err != nil {
		return asmerr.UserError(host+": "+err.Error(), p.line, p.column)
	}

	return p.locate(disc.AddFile(beeb, program, 0xFFFF1900, 0xFFFF8023, len(program)))
}

// Names the macro being defined and lists its parameters. The body that
// follows is captured rather than assembled.
func (p *lineParser) handleMacro() error {
	if !p.advance() {
		return p.errorAt(asmerr.ERR_EMPTY_EXPRESSION, p.column)
	}

	if !encoding.IsSymbolStart(p.line[p.column]) {
		return p.errorAt(asmerr.ERR_INVALID_MACRO_NAME, p.column)
	}

	name := p.symbolName()
	m := p.unit.CurrentMacro()

	if p.asm.FirstPass() {
		if p.asm.macros.Exists(name) {
			return p.errorAt(asmerr.ERR_DUPLICATE_MACRO_NAME, p.column)
		}

		m.Name = name
	}

	expectComma := false
	hasParams := false

	for p.advance() {
		switch {
		case expectComma:
			if !p.peek(',') {
				return p.errorAt(asmerr.ERR_MISSING_COMMA, p.column)
			}

			p.column++
			expectComma = false

		case encoding.IsSymbolStart(p.line[p.column]):
			param := p.symbolName()

			if p.asm.FirstPass() {
				m.AddParameter(param)
			}

			expectComma = true
			hasParams = true

		default:
			return p.errorAt(asmerr.ERR_INVALID_SYMBOL_NAME, p.column)
		}
	}

	if hasParams && !expectComma {
		return p.errorAt(asmerr.ERR_UNEXPECTED_COMMA, p.column-1)
	}

	// Keeps the line numbers of the body right
	if p.column == len(p.line) && p.asm.FirstPass() {
		m.AddLine("\n")
	}

	p.unit.SetCondition(false)
	return nil
}

func (p *lineParser) handleError(start int) error {
	message, err := p.text()

	if err != nil {
		return err
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	return asmerr.UserError(message, p.line, start)
}

func (p *lineParser) handleCopyBlock() error {
	args := newArgList(p, false)
	start := args.parseInt().Range(0, 0xFFFF).Int()
	end := args.parseInt().Range(0, 0xFFFF).Int()
	dest := args.parseInt().Range(0, 0xFFFF).Int()

	if err := args.Complete(); err != nil {
		return err
	}

	return p.locate(p.asm.code.CopyBlock(start, end, dest))
}

func (p *lineParser) handleRandomize() error {
	seed, undefined, err := p.integerOrUndefined(false)

	if err != nil {
		return err
	}

	if undefined {
		seed = 0
	}

	p.asm.rand.Seed(uint32(seed))
	return p.rejectComma()
}

// Assembles an instruction held in a string.
func (p *lineParser) handleAsm() error {
	text, err := p.text()

	if err != nil {
		return err
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	parser := lineParser{asm: p.asm, unit: p.unit, line: text}
	instruction, ok := parser.matchInstruction(false)

	if !ok {
		return parser.errorAt(asmerr.ERR_MISSING_ASSEMBLY_INSTRUCTION, parser.column)
	}

	return parser.handleInstruction(instruction)
}

// DEFINE and ASSIGN bind a top level symbol whose name is computed.
// ASSIGN may replace an existing binding.
func (p *lineParser) handleDefine(redefine bool) error {
	name, err := p.text()

	if err != nil {
		return err
	}

	if name == "" || encoding.ScanSymbolName(name, 0) != len(name) {
		return p.errorAt(asmerr.ERR_INVALID_SYMBOL_NAME, p.column)
	}

	if !p.advance() || !p.peek(',') {
		return p.errorAt(asmerr.ERR_MISSING_COMMA, p.column)
	}

	p.column++

	if !p.advance() {
		return p.errorAt(asmerr.ERR_MISSING_VALUE, p.column)
	}

	value, err := p.evaluateDefined()

	if err != nil {
		return err
	}

	if err := p.expectEnd(); err != nil {
		return err
	}

	if !p.asm.FirstPass() {
		return nil
	}

	symbol := symbols.TopLevel(name)

	if p.asm.symbols.IsDefined(symbol) {
		if !redefine {
			return p.errorAt(asmerr.ERR_LABEL_ALREADY_DEFINED, p.column)
		}

		p.asm.symbols.Undefine(symbol)
	}

	return asmerr.Locate(p.asm.symbols.Define(symbol, value, false), p.line, p.column)
}
