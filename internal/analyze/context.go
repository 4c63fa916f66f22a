// Package analyze classifies each node of a plan by the evaluation strategy
// the engine uses for it and flags eager scans likely to be expensive.
package analyze

import "fmt"

// Context is an evaluation strategy, both as inherited by a node from its
// parent and as chosen by the node itself.
type Context int

const (
	Eager Context = iota
	Lazy
	Predicate
	// Resolved marks leaves needing no evaluation: references, counts and
	// ranges.
	Resolved
	// Neutral replaces every strategy but Resolved when analysis is off.
	Neutral
)

var contextNames = [...]string{
	Eager:     "eager",
	Lazy:      "lazy",
	Predicate: "predicate",
	Resolved:  "resolved",
	Neutral:   "neutral",
}

func (c Context) String() string {
	if c < 0 || int(c) >= len(contextNames) {
		return fmt.Sprintf("Context(%d)", int(c))
	}
	return contextNames[c]
}

// ParseContext parses a context name as accepted on the command line.
func ParseContext(s string) (Context, error) {
	for c, name := range contextNames {
		if name == s {
			return Context(c), nil
		}
	}
	return 0, fmt.Errorf("invalid context %q (want eager, lazy or predicate)", s)
}

func (c Context) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Context) UnmarshalText(text []byte) error {
	parsed, err := ParseContext(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Context) predicateToLazy() Context {
	if c == Predicate {
		return Lazy
	}
	return c
}

func (c Context) eagerToLazy() Context {
	if c == Eager {
		return Lazy
	}
	return c
}
