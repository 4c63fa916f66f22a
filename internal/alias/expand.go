package alias

import (
	"go.uber.org/zap"

	"github.com/scott2000/jj-analyze/internal/syntax"
)

// CollapseFunc reports whether a reference to the named alias is shown by
// name instead of expanded. call is the canonical text of the reference.
type CollapseFunc func(name string, function bool, call string) bool

// Expander replaces alias references with their definitions.
type Expander struct {
	table    *Table
	collapse CollapseFunc
	logger   *zap.Logger
}

// NewExpander creates an expander over table. A nil logger discards output.
func NewExpander(table *Table, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{table: table, logger: logger}
}

// WithCollapse sets the aliases left unexpanded. A collapsed reference
// needs no definition, and its body is never parsed for cycles or errors.
func (e *Expander) WithCollapse(collapse CollapseFunc) *Expander {
	e.collapse = collapse
	return e
}

// scope is the state threaded through one expansion: the parameters bound
// by the innermost function alias and the aliases currently being expanded.
type scope struct {
	params    map[string]syntax.Node
	expanding []string
}

func (s scope) enter(key string, params map[string]syntax.Node) scope {
	expanding := make([]string, len(s.expanding), len(s.expanding)+1)
	copy(expanding, s.expanding)
	return scope{params: params, expanding: append(expanding, key)}
}

func (s scope) cycle(key string) []string {
	for i, k := range s.expanding {
		if k == key {
			chain := append([]string{}, s.expanding[i:]...)
			return append(chain, key)
		}
	}
	return nil
}

// Expand returns a copy of node with every alias reference replaced by an
// AliasExpanded marker wrapping the expanded body.
func (e *Expander) Expand(node syntax.Node) (syntax.Node, error) {
	return e.expand(node, scope{})
}

func (e *Expander) expand(node syntax.Node, sc scope) (syntax.Node, error) {
	switch n := node.(type) {
	case *syntax.Identifier:
		if arg, ok := sc.params[n.Name]; ok {
			return arg, nil
		}
		def, ok := e.table.Symbol(n.Name)
		if e.collapse != nil && e.collapse(n.Name, false, n.Name) {
			return e.collapsed(n.Name, false, n.Name, ok && def.Builtin, n.Pos), nil
		}
		if !ok {
			return n, nil
		}
		return e.apply(def, n.Name, n.Pos, nil, sc)

	case *syntax.FunctionCall:
		def, ok := e.table.Function(n.Name)
		if e.collapse != nil {
			if text := syntax.Format(n); e.collapse(n.Name, true, text) {
				if ok {
					if err := checkArity(def, n); err != nil {
						return nil, err
					}
				}
				return e.collapsed(n.Name, true, text, ok && def.Builtin, n.Pos), nil
			}
		}
		if !ok {
			call := *n
			call.Args = make([]syntax.Node, len(n.Args))
			for i, arg := range n.Args {
				expanded, err := e.expand(arg, sc)
				if err != nil {
					return nil, err
				}
				call.Args[i] = expanded
			}
			call.Keywords = make([]syntax.KeywordArg, len(n.Keywords))
			for i, kw := range n.Keywords {
				expanded, err := e.expand(kw.Value, sc)
				if err != nil {
					return nil, err
				}
				kw.Value = expanded
				call.Keywords[i] = kw
			}
			return &call, nil
		}

		if err := checkArity(def, n); err != nil {
			return nil, err
		}
		args := make([]syntax.Node, len(n.Args))
		for i, arg := range n.Args {
			expanded, err := e.expand(arg, sc)
			if err != nil {
				return nil, err
			}
			args[i] = expanded
		}
		return e.apply(def, syntax.Format(n), n.Pos, args, sc)

	case *syntax.Unary:
		operand, err := e.expand(n.Operand, sc)
		if err != nil {
			return nil, err
		}
		return &syntax.Unary{Op: n.Op, Operand: operand, Pos: n.Pos}, nil

	case *syntax.Binary:
		left, err := e.expand(n.Left, sc)
		if err != nil {
			return nil, err
		}
		right, err := e.expand(n.Right, sc)
		if err != nil {
			return nil, err
		}
		return &syntax.Binary{Op: n.Op, Left: left, Right: right, Pos: n.Pos}, nil

	case *syntax.Modifier:
		body, err := e.expand(n.Body, sc)
		if err != nil {
			return nil, err
		}
		return &syntax.Modifier{Name: n.Name, Body: body, Pos: n.Pos}, nil

	case *syntax.AliasExpanded:
		body, err := e.expand(n.Body, sc)
		if err != nil {
			return nil, err
		}
		expanded := *n
		expanded.Body = body
		return &expanded, nil

	default:
		// Strings, patterns, remote symbols, working copies and bare ranges
		// never name an alias.
		return node, nil
	}
}

func checkArity(def *Definition, n *syntax.FunctionCall) error {
	if len(n.Keywords) > 0 {
		return &ArityError{Name: n.Name, Want: len(def.Decl.Params), Got: len(n.Args), Keywords: true, Pos: n.Pos}
	}
	if len(n.Args) != len(def.Decl.Params) {
		return &ArityError{Name: n.Name, Want: len(def.Decl.Params), Got: len(n.Args), Pos: n.Pos}
	}
	return nil
}

// collapsed marks a reference shown by name. Its body is the call text as a
// string, which is what the reference means where a string is expected.
func (e *Expander) collapsed(name string, function bool, call string, builtin bool, pos syntax.Span) syntax.Node {
	e.logger.Debug("collapsed alias", zap.String("alias", call))
	return &syntax.AliasExpanded{
		Name:      name,
		Function:  function,
		Call:      call,
		Builtin:   builtin,
		Collapsed: true,
		Body:      &syntax.String{Value: call, Pos: pos},
		Pos:       pos,
	}
}

func (e *Expander) apply(def *Definition, call string, pos syntax.Span, args []syntax.Node, sc scope) (syntax.Node, error) {
	key := def.Decl.Name
	if def.Decl.Function {
		key += "()"
	}
	if chain := sc.cycle(key); chain != nil {
		return nil, &CycleError{Chain: chain, Pos: pos}
	}

	var params map[string]syntax.Node
	if len(args) > 0 {
		params = make(map[string]syntax.Node, len(args))
		for i, name := range def.Decl.Params {
			params[name] = args[i]
		}
	}

	body, err := e.expand(def.Body, sc.enter(key, params))
	if err != nil {
		return nil, err
	}

	e.logger.Debug("expanded alias",
		zap.String("alias", call),
		zap.Bool("builtin", def.Builtin),
		zap.Int("depth", len(sc.expanding)+1),
	)
	return &syntax.AliasExpanded{
		Name:     def.Decl.Name,
		Function: def.Decl.Function,
		Call:     call,
		Builtin:  def.Builtin,
		Body:     body,
		Pos:      pos,
	}, nil
}
