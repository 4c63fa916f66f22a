// Package alias holds revset alias definitions and expands alias references
// in parsed revsets.
package alias

import (
	"sort"

	"github.com/scott2000/jj-analyze/internal/syntax"
)

// Definition is a parsed alias.
type Definition struct {
	Decl    *syntax.Declaration
	Body    syntax.Node
	Source  string // body text as written
	Builtin bool
}

// Table maps alias names to definitions. Symbol aliases and function
// aliases live in separate namespaces, so "x" and "x()" may coexist.
type Table struct {
	symbols   map[string]*Definition
	functions map[string]*Definition
}

// NewTable creates an empty alias table.
func NewTable() *Table {
	return &Table{
		symbols:   make(map[string]*Definition),
		functions: make(map[string]*Definition),
	}
}

// Define parses and inserts an alias, replacing any existing definition of
// the same name and kind.
func (t *Table) Define(declaration, body string) error {
	return t.define(declaration, body, false)
}

func (t *Table) define(declaration, body string, builtin bool) error {
	decl, err := syntax.ParseDeclaration(declaration)
	if err != nil {
		return &DeclarationError{Declaration: declaration, Err: err}
	}
	node, err := syntax.ParseExpression(body)
	if err != nil {
		return &DeclarationError{Declaration: declaration, Body: true, Err: err}
	}

	def := &Definition{Decl: decl, Body: node, Source: body, Builtin: builtin}
	if decl.Function {
		t.functions[decl.Name] = def
	} else {
		t.symbols[decl.Name] = def
	}
	return nil
}

// Symbol looks up a symbol alias.
func (t *Table) Symbol(name string) (*Definition, bool) {
	def, ok := t.symbols[name]
	return def, ok
}

// Function looks up a function alias.
func (t *Table) Function(name string) (*Definition, bool) {
	def, ok := t.functions[name]
	return def, ok
}

// Lookup finds the definition matching a declaration's name and kind.
func (t *Table) Lookup(decl *syntax.Declaration) (*Definition, bool) {
	if decl.Function {
		return t.Function(decl.Name)
	}
	return t.Symbol(decl.Name)
}

// Declarations returns every defined alias declaration, sorted by text.
func (t *Table) Declarations() []string {
	out := make([]string, 0, len(t.symbols)+len(t.functions))
	for _, def := range t.symbols {
		out = append(out, def.Decl.String())
	}
	for _, def := range t.functions {
		out = append(out, def.Decl.String())
	}
	sort.Strings(out)
	return out
}

// FunctionNames returns the names of every function alias, sorted.
func (t *Table) FunctionNames() []string {
	out := make([]string, 0, len(t.functions))
	for name := range t.functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SymbolNames returns the names of every symbol alias, sorted.
func (t *Table) SymbolNames() []string {
	out := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
