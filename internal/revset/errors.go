package revset

import (
	"fmt"
	"strings"

	"github.com/scott2000/jj-analyze/internal/syntax"
)

// UnknownFunctionError reports a call to a function that is neither
// built in nor an alias.
type UnknownFunctionError struct {
	Name        string
	Suggestions []string
	Pos         syntax.Span
}

func (e *UnknownFunctionError) Error() string {
	msg := fmt.Sprintf("function %q doesn't exist", e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

// ArgumentError reports a function or operator applied to arguments of the
// wrong number or shape.
type ArgumentError struct {
	Function string // empty for errors outside a call
	Message  string
	Pos      syntax.Span
}

func (e *ArgumentError) Error() string {
	if e.Function == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid arguments to %s(): %s", e.Function, e.Message)
}
