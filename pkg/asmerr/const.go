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

package asmerr

const (
	ERR_NONE Kind = iota

	// File errors
	ERR_OPEN_SOURCE
	ERR_READ_SOURCE
	ERR_OPEN_DISC
	ERR_READ_DISC
	ERR_CREATE_DISC
	ERR_WRITE_DISC
	ERR_OPEN_OBJECT
	ERR_WRITE_OBJECT
	ERR_DISC_FULL
	ERR_BAD_NAME
	ERR_TOO_MANY_FILES
	ERR_FILE_EXISTS

	// Syntax errors
	ERR_UNRECOGNISED_TOKEN
	ERR_NUMBER_TOO_BIG
	ERR_SYMBOL_NOT_DEFINED
	ERR_BAD_HEX
	ERR_BAD_BIN
	ERR_MISSING_VALUE
	ERR_INVALID_CHARACTER
	ERR_EXPRESSION_TOO_COMPLEX
	ERR_MISMATCHED_PARENTHESES
	ERR_EMPTY_EXPRESSION
	ERR_DIVISION_BY_ZERO
	ERR_MISSING_QUOTE
	ERR_MISSING_COMMA
	ERR_ILLEGAL_OPERATION
	ERR_TYPE_MISMATCH
	ERR_PARAMETER_COUNT
	ERR_TIME_RESULT_TOO_BIG
	ERR_NO_IMPLIED
	ERR_IMM_TOO_LARGE
	ERR_IMM_NEGATIVE
	ERR_UNEXPECTED_COMMA
	ERR_NO_IMMEDIATE
	ERR_NO_INDIRECT
	ERR_6502_BUG
	ERR_BAD_INDIRECT
	ERR_NOT_ZERO_PAGE
	ERR_BRANCH_OUT_OF_RANGE
	ERR_NO_ABSOLUTE
	ERR_BAD_ABSOLUTE
	ERR_BAD_ADDRESS
	ERR_BAD_INDEXED
	ERR_NO_INDEXED_X
	ERR_NO_INDEXED_Y
	ERR_LABEL_ALREADY_DEFINED
	ERR_INVALID_SYMBOL_NAME
	ERR_SECOND_PASS_PROBLEM
	ERR_SYMBOL_SCOPE_OUTSIDE_MACRO
	ERR_SYMBOL_SCOPE_OUTSIDE_FOR
	ERR_INVALID_MACRO_NAME
	ERR_NO_NESTED_MACROS
	ERR_END_MACRO_UNEXPECTED
	ERR_NO_END_MACRO
	ERR_DUPLICATE_MACRO_NAME
	ERR_NEXT_WITHOUT_FOR
	ERR_FOR_WITHOUT_NEXT
	ERR_BAD_STEP
	ERR_TOO_MANY_FORS
	ERR_MISMATCHED_BRACES
	ERR_CANT_INCLUDE
	ERR_ELSE_WITHOUT_IF
	ERR_ELIF_WITHOUT_IF
	ERR_ENDIF_WITHOUT_IF
	ERR_IF_WITHOUT_ENDIF
	ERR_TOO_MANY_IFS
	ERR_BAD_ALIGNMENT
	ERR_OUT_OF_RANGE
	ERR_BACKWARDS_SKIP
	ERR_NO_ANON_SAVE
	ERR_ONLY_ONE_ANON_SAVE
	ERR_ASSERTION_FAILED
	ERR_MISSING_ASSEMBLY_INSTRUCTION
	ERR_USER

	// Assemble errors
	ERR_OUT_OF_MEMORY
	ERR_GUARD_HIT
	ERR_OVERLAP
	ERR_INCONSISTENT_CODE
	ERR_FILE_OPEN
	ERR_FILE_READ
)

var messages = [...]string{
	ERR_NONE: "",

	ERR_OPEN_SOURCE:    "Could not open source file for reading.",
	ERR_READ_SOURCE:    "Problem reading from source file.",
	ERR_OPEN_DISC:      "Could not open disc image for reading.",
	ERR_READ_DISC:      "Problem reading from disc image.",
	ERR_CREATE_DISC:    "Could not create new disc image.",
	ERR_WRITE_DISC:     "Could not write to disc image.",
	ERR_OPEN_OBJECT:    "Could not open object file for writing.",
	ERR_WRITE_OBJECT:   "Problem writing to object file.",
	ERR_DISC_FULL:      "No room on DFS disc image full.",
	ERR_BAD_NAME:       "Bad DFS filename.",
	ERR_TOO_MANY_FILES: "Too many files on DFS disc image (max 31).",
	ERR_FILE_EXISTS:    "File already exists on DFS disc image.",

	ERR_UNRECOGNISED_TOKEN:           "Unrecognised token.",
	ERR_NUMBER_TOO_BIG:               "Number too big.",
	ERR_SYMBOL_NOT_DEFINED:           "Symbol not defined.",
	ERR_BAD_HEX:                      "Bad hex.",
	ERR_BAD_BIN:                      "Bad binary expression.",
	ERR_MISSING_VALUE:                "Missing value in expression.",
	ERR_INVALID_CHARACTER:            "Bad expression.",
	ERR_EXPRESSION_TOO_COMPLEX:       "Expression too complex.",
	ERR_MISMATCHED_PARENTHESES:       "Mismatched parentheses.",
	ERR_EMPTY_EXPRESSION:             "Expression not found.",
	ERR_DIVISION_BY_ZERO:             "Division by zero.",
	ERR_MISSING_QUOTE:                "Unterminated string.",
	ERR_MISSING_COMMA:                "Missing comma.",
	ERR_ILLEGAL_OPERATION:            "Operation attempted with invalid or out of range values.",
	ERR_TYPE_MISMATCH:                "Type mismatch.",
	ERR_PARAMETER_COUNT:              "Wrong number of parameters.",
	ERR_TIME_RESULT_TOO_BIG:          "Time result is too big.",
	ERR_NO_IMPLIED:                   "Implied mode not allowed for this instruction.",
	ERR_IMM_TOO_LARGE:                "Immediate constants cannot be greater than 255.",
	ERR_IMM_NEGATIVE:                 "Constant cannot be negative.",
	ERR_UNEXPECTED_COMMA:             "Unexpected comma enountered.",
	ERR_NO_IMMEDIATE:                 "Immediate mode not allowed for this instruction.",
	ERR_NO_INDIRECT:                  "Indirect mode not allowed for this instruction.",
	ERR_6502_BUG:                     "JMP (addr) will not execute as intended due to the 6502 bug (addr = &xxFF).",
	ERR_BAD_INDIRECT:                 "Incorrectly formed indirect instruction.",
	ERR_NOT_ZERO_PAGE:                "Address is not in zero-page.",
	ERR_BRANCH_OUT_OF_RANGE:          "Branch out of range.",
	ERR_NO_ABSOLUTE:                  "Absolute addressing mode not allowed for this instruction.",
	ERR_BAD_ABSOLUTE:                 "Syntax error in absolute instruction.",
	ERR_BAD_ADDRESS:                  "Out of range address.",
	ERR_BAD_INDEXED:                  "Syntax error in indexed instruction.",
	ERR_NO_INDEXED_X:                 "X indexed mode does not exist for this instruction.",
	ERR_NO_INDEXED_Y:                 "Y indexed mode does not exist for this instruction.",
	ERR_LABEL_ALREADY_DEFINED:        "Symbol already defined.",
	ERR_INVALID_SYMBOL_NAME:          "Invalid symbol name; must start with a letter and contain only letters, numbers and underscore.",
	ERR_SECOND_PASS_PROBLEM:          "Fatal error: the second assembler pass has generated different code to the first.",
	ERR_SYMBOL_SCOPE_OUTSIDE_MACRO:   "Symbol scope cannot be promoted outside current macro.",
	ERR_SYMBOL_SCOPE_OUTSIDE_FOR:     "Symbol scope cannot be promoted outside current FOR loop.",
	ERR_INVALID_MACRO_NAME:           "Invalid macro name; must start with a letter and contain only letters, numbers and underscore.",
	ERR_NO_NESTED_MACROS:             "Cannot define one macro inside another.",
	ERR_END_MACRO_UNEXPECTED:         "ENDMACRO encountered without a matching MACRO directive.",
	ERR_NO_END_MACRO:                 "Unterminated macro (ENDMACRO not found).",
	ERR_DUPLICATE_MACRO_NAME:         "Macro name already defined.",
	ERR_NEXT_WITHOUT_FOR:             "NEXT without FOR.",
	ERR_FOR_WITHOUT_NEXT:             "FOR without NEXT.",
	ERR_BAD_STEP:                     "Step value cannot be zero.",
	ERR_TOO_MANY_FORS:                "Too many nested FORs or braces.",
	ERR_MISMATCHED_BRACES:            "Mismatched braces.",
	ERR_CANT_INCLUDE:                 "Cannot include a source file within a FOR loop or braced block.",
	ERR_ELSE_WITHOUT_IF:              "ELSE without IF.",
	ERR_ELIF_WITHOUT_IF:              "ELIF without IF.",
	ERR_ENDIF_WITHOUT_IF:             "ENDIF without IF.",
	ERR_IF_WITHOUT_ENDIF:             "IF without ENDIF.",
	ERR_TOO_MANY_IFS:                 "Too many nested IFs.",
	ERR_BAD_ALIGNMENT:                "Bad alignment.",
	ERR_OUT_OF_RANGE:                 "Out of range.",
	ERR_BACKWARDS_SKIP:               "Attempted to skip backwards to an address.",
	ERR_NO_ANON_SAVE:                 "Cannot specify SAVE without a filename if no default output filename has been specified.",
	ERR_ONLY_ONE_ANON_SAVE:           "Can only use SAVE without a filename once per project.",
	ERR_ASSERTION_FAILED:             "Assertion failed.",
	ERR_MISSING_ASSEMBLY_INSTRUCTION: "Expected an assembly instruction.",
	ERR_USER:                         "",

	ERR_OUT_OF_MEMORY:     "Out of memory.",
	ERR_GUARD_HIT:         "Guard point hit.",
	ERR_OVERLAP:           "Trying to assemble over existing code.",
	ERR_INCONSISTENT_CODE: "Assembled object code has changed between 1st and 2nd pass. Has a zero-page symbol been forward-declared?",
	ERR_FILE_OPEN:         "Error opening file.",
	ERR_FILE_READ:         "Error reading file.",
}
