package pipeline

import (
	"sort"
	"strings"

	"github.com/scott2000/jj-analyze/internal/alias"
	"github.com/scott2000/jj-analyze/internal/syntax"
)

// collapse is the set of aliases shown by name, keyed by aliasKey.
type collapse struct {
	keys  map[string]bool
	input string // trimmed input; an alias whose call is the whole input stays expanded
}

// aliasKey identifies an alias independent of its parameter names:
// "name" for symbols, "name()" for functions.
func aliasKey(name string, function bool) string {
	if function {
		return name + "()"
	}
	return name
}

// collapseSet starts from the built-ins unless disabled, drops any alias
// redefined with --define, then adds every --collapse alias.
func collapseSet(input string, opts Options) (*collapse, error) {
	c := &collapse{keys: make(map[string]bool), input: strings.TrimSpace(input)}

	if !opts.NoCollapseBuiltin {
		for _, decl := range alias.DefaultCollapsed {
			if err := c.add(decl); err != nil {
				return nil, err
			}
		}
	}
	for _, def := range opts.Defines {
		name, _, err := splitDefine(def)
		if err != nil {
			return nil, err
		}
		decl, err := syntax.ParseDeclaration(name)
		if err != nil {
			return nil, &alias.DeclarationError{Declaration: name, Err: err}
		}
		delete(c.keys, aliasKey(decl.Name, decl.Function))
	}
	for _, name := range opts.Collapse {
		if err := c.add(strings.TrimSpace(name)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *collapse) add(declaration string) error {
	decl, err := syntax.ParseDeclaration(declaration)
	if err != nil {
		return &alias.DeclarationError{Declaration: declaration, Err: err}
	}
	c.keys[aliasKey(decl.Name, decl.Function)] = true
	return nil
}

func (c *collapse) contains(name string, function bool, call string) bool {
	if call == c.input {
		return false
	}
	return c.keys[aliasKey(name, function)]
}

func (c *collapse) names() []string {
	out := make([]string, 0, len(c.keys))
	for key := range c.keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
