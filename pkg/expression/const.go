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

package expression

type OperatorKind uint

const (
	OP_NONE OperatorKind = iota

	// Binary
	OP_POWER
	OP_MULTIPLY
	OP_DIVIDE
	OP_MOD
	OP_DIV
	OP_SHIFT_LEFT
	OP_SHIFT_RIGHT
	OP_ADD
	OP_SUBTRACT
	OP_EQUAL
	OP_NOT_EQUAL
	OP_LESS_EQUAL
	OP_MORE_EQUAL
	OP_LESS
	OP_MORE
	OP_AND
	OP_OR
	OP_EOR

	// Unary
	OP_NEGATE
	OP_POSATE
	OP_HI
	OP_LO
	OP_SIN
	OP_COS
	OP_TAN
	OP_ARCSIN
	OP_ARCCOS
	OP_ARCTAN
	OP_SQRT
	OP_DEG_TO_RAD
	OP_RAD_TO_DEG
	OP_INT
	OP_ABS
	OP_SGN
	OP_RND
	OP_NOT
	OP_LOG
	OP_LN
	OP_EXP
	OP_TIME
	OP_STR
	OP_VAL
	OP_EVAL
	OP_LEN
	OP_CHR
	OP_ASC
	OP_MID
	OP_STRING
	OP_UPPER
	OP_LOWER
)

const (
	MAX_VALUES    = 128
	MAX_OPERATORS = 32
)

// Default format of TIME$ and TIME$("").
const DEFAULT_TIME_FORMAT = "%a,%d %b %Y.%H:%M:%S"

type operator struct {
	Token      string
	Precedence int
	Parameters int
	Kind       OperatorKind
}

// Tokens are matched in table order, so longer tokens sharing a prefix with
// a shorter one must come first. Brackets and the comma have no kind.
var binaryOperators = [...]operator{
	{")", -1, 0, OP_NONE},
	{"]", -1, 0, OP_NONE},
	{",", -1, 0, OP_NONE},

	{"^", 7, 0, OP_POWER},

	{"*", 6, 0, OP_MULTIPLY},
	{"/", 6, 0, OP_DIVIDE},
	{"%", 6, 0, OP_MOD},
	{"DIV", 6, 0, OP_DIV},
	{"MOD", 6, 0, OP_MOD},
	{"<<", 6, 0, OP_SHIFT_LEFT},
	{">>", 6, 0, OP_SHIFT_RIGHT},

	{"+", 5, 0, OP_ADD},
	{"-", 5, 0, OP_SUBTRACT},

	{"==", 4, 0, OP_EQUAL},
	{"=", 4, 0, OP_EQUAL},
	{"<>", 4, 0, OP_NOT_EQUAL},
	{"!=", 4, 0, OP_NOT_EQUAL},
	{"<=", 4, 0, OP_LESS_EQUAL},
	{">=", 4, 0, OP_MORE_EQUAL},
	{"<", 4, 0, OP_LESS},
	{">", 4, 0, OP_MORE},

	{"AND", 3, 0, OP_AND},
	{"OR", 2, 0, OP_OR},
	{"EOR", 2, 0, OP_EOR},
}

// Function tokens end in an open bracket, which is left for the next match
// so that it opens a bracket expecting Parameters arguments.
var unaryOperators = [...]operator{
	{"(", -1, 0, OP_NONE},
	{"[", -1, 0, OP_NONE},

	{"-", 8, 0, OP_NEGATE},
	{"+", 8, 0, OP_POSATE},

	{"HI(", 10, 1, OP_HI},
	{"LO(", 10, 1, OP_LO},
	{">", 10, 0, OP_HI},
	{"<", 10, 0, OP_LO},

	{"SIN(", 10, 1, OP_SIN},
	{"COS(", 10, 1, OP_COS},
	{"TAN(", 10, 1, OP_TAN},
	{"ASN(", 10, 1, OP_ARCSIN},
	{"ACS(", 10, 1, OP_ARCCOS},
	{"ATN(", 10, 1, OP_ARCTAN},
	{"SQR(", 10, 1, OP_SQRT},
	{"RAD(", 10, 1, OP_DEG_TO_RAD},
	{"DEG(", 10, 1, OP_RAD_TO_DEG},
	{"INT(", 10, 1, OP_INT},
	{"ABS(", 10, 1, OP_ABS},
	{"SGN(", 10, 1, OP_SGN},
	{"RND(", 10, 1, OP_RND},
	{"NOT(", 10, 1, OP_NOT},
	{"LOG(", 10, 1, OP_LOG},
	{"LN(", 10, 1, OP_LN},
	{"EXP(", 10, 1, OP_EXP},
	{"TIME$(", 10, 1, OP_TIME},
	{"STR$(", 10, 1, OP_STR},
	{"VAL(", 10, 1, OP_VAL},
	{"EVAL(", 10, 1, OP_EVAL},
	{"LEN(", 10, 1, OP_LEN},
	{"CHR$(", 10, 1, OP_CHR},
	{"ASC(", 10, 1, OP_ASC},
	{"MID$(", 10, 3, OP_MID},
	{"STRING$(", 10, 2, OP_STRING},
	{"UPPER(", 10, 1, OP_UPPER},
	{"LOWER(", 10, 1, OP_LOWER},
}
