package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error is a syntax error with the byte position where parsing failed.
type Error struct {
	Pos      int
	Expected string // what the parser wanted, e.g. "expression"
	Found    string // what it saw instead
	Message  string // set instead of Expected/Found for lexical errors
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
	}
	return fmt.Sprintf("expected %s, found %s at position %d", e.Expected, e.Found, e.Pos)
}

// Caret renders the input with a marker under the failing position.
func (e *Error) Caret(input string) string {
	pos := e.Pos
	if pos > len(input) {
		pos = len(input)
	}
	col := utf8.RuneCountInString(input[:pos])
	return input + "\n" + strings.Repeat(" ", col) + "^"
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", tok.Value)
	case TokenString:
		return fmt.Sprintf("string %q", tok.Value)
	default:
		return tok.Type.String()
	}
}
