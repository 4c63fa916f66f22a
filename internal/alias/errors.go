package alias

import (
	"fmt"
	"strings"

	"github.com/scott2000/jj-analyze/internal/syntax"
)

// DeclarationError reports an alias whose declaration or body does not parse.
type DeclarationError struct {
	Declaration string
	Body        bool // the body failed to parse, not the declaration
	Err         error
}

func (e *DeclarationError) Error() string {
	if e.Body {
		return fmt.Sprintf("failed to parse body of alias %q: %v", e.Declaration, e.Err)
	}
	return fmt.Sprintf("invalid alias declaration %q: %v", e.Declaration, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

// ArityError reports a function alias called with the wrong arguments.
type ArityError struct {
	Name     string
	Want     int
	Got      int
	Keywords bool // keyword arguments were passed
	Pos      syntax.Span
}

func (e *ArityError) Error() string {
	if e.Keywords {
		return fmt.Sprintf("alias %s() does not accept keyword arguments", e.Name)
	}
	return fmt.Sprintf("alias %s() expects %d argument%s, got %d", e.Name, e.Want, plural(e.Want), e.Got)
}

// CycleError reports an alias that expands to itself.
type CycleError struct {
	Chain []string // call texts from the outermost alias to the repeat
	Pos   syntax.Span
}

func (e *CycleError) Error() string {
	return "alias expansion cycle: " + strings.Join(e.Chain, " -> ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
