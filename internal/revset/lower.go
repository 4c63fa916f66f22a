package revset

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/scott2000/jj-analyze/internal/syntax"
)

// PlaceholderEmail stands in for the user's email in mine() when none is
// configured.
const PlaceholderEmail = "<user-email>"

// LowerOptions supplies the context lowering needs from outside the query.
type LowerOptions struct {
	UserEmail string    // matched by mine()
	Now       time.Time // anchor for relative dates; zero means time.Now()
	// AliasNames are offered alongside built-in functions when suggesting
	// a replacement for an unknown function.
	AliasNames []string
}

type lowerer struct {
	opts      LowerOptions
	operation string // set inside at_operation()
}

type functionLowerer func(l *lowerer, call *syntax.FunctionCall) (Expression, error)

var functions map[string]functionLowerer

func init() {
	functions = map[string]functionLowerer{
		"parents":                    lowerParents,
		"children":                   lowerChildren,
		"ancestors":                  lowerAncestors,
		"descendants":                lowerDescendants,
		"first_parent":               lowerFirstParent,
		"first_ancestors":            lowerFirstAncestors,
		"reachable":                  lowerReachable,
		"connected":                  lowerConnected,
		"none":                       constant(func() Expression { return &None{} }),
		"all":                        constant(func() Expression { return &All{} }),
		"visible_heads":              constant(func() Expression { return &VisibleHeads{} }),
		"root":                       constant(func() Expression { return &Root{} }),
		"merges":                     constant(func() Expression { return &Filter{Predicate: &ParentCount{Range: MergeParents}} }),
		"conflicts":                  constant(func() Expression { return &Filter{Predicate: &HasConflict{}} }),
		"signed":                     constant(func() Expression { return &Filter{Predicate: &Signed{}} }),
		"divergent":                  constant(func() Expression { return &Filter{Predicate: &Divergent{}} }),
		"empty":                      constant(emptyCommits),
		"working_copies":             lowerNamedReference,
		"git_refs":                   lowerNamedReference,
		"git_head":                   lowerNamedReference,
		"heads":                      unary(func(x Expression) Expression { return &Heads{Candidates: x} }),
		"roots":                      unary(func(x Expression) Expression { return &Roots{Candidates: x} }),
		"fork_point":                 unary(func(x Expression) Expression { return &ForkPoint{Candidates: x} }),
		"bisect":                     unary(func(x Expression) Expression { return &Bisect{Candidates: x} }),
		"present":                    unary(func(x Expression) Expression { return &Present{Candidates: x} }),
		"latest":                     lowerLatest,
		"exactly":                    lowerExactly,
		"coalesce":                   lowerCoalesce,
		"description":                textFilter(FieldDescription),
		"subject":                    textFilter(FieldSubject),
		"author_name":                textFilter(FieldAuthorName),
		"author_email":               textFilter(FieldAuthorEmail),
		"committer_name":             textFilter(FieldCommitterName),
		"committer_email":            textFilter(FieldCommitterEmail),
		"author":                     personFilter(FieldAuthorName, FieldAuthorEmail),
		"committer":                  personFilter(FieldCommitterName, FieldCommitterEmail),
		"author_date":                dateFilter(FieldAuthorDate),
		"committer_date":             dateFilter(FieldCommitterDate),
		"mine":                       lowerMine,
		"files":                      lowerFiles,
		"diff_lines":                 lowerDiffLines,
		"diff_contains":              lowerDiffLines,
		"bookmarks":                  lowerPatternReference,
		"tags":                       lowerPatternReference,
		"remote_bookmarks":           lowerRemoteBookmarks,
		"tracked_remote_bookmarks":   lowerRemoteBookmarks,
		"untracked_remote_bookmarks": lowerRemoteBookmarks,
		"change_id":                  lowerIDPrefix,
		"commit_id":                  lowerIDPrefix,
		"at_operation":               lowerAtOperation,
	}
}

// FunctionNames lists the built-in revset functions in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lower converts an alias-expanded syntax tree into the logical model.
func Lower(node syntax.Node, opts LowerOptions) (Expression, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	l := &lowerer{opts: opts}
	return l.lower(node)
}

func (l *lowerer) lower(node syntax.Node) (Expression, error) {
	switch n := node.(type) {
	case *syntax.Identifier:
		return l.reference(n.Name), nil
	case *syntax.String:
		return l.reference(n.Value), nil
	case *syntax.RemoteSymbol:
		return l.reference(syntax.QuoteSymbol(n.Name) + "@" + syntax.QuoteSymbol(n.Remote)), nil
	case *syntax.WorkingCopy:
		if n.Workspace == "" {
			return l.reference("@"), nil
		}
		return l.reference(syntax.QuoteSymbol(n.Workspace) + "@"), nil
	case *syntax.Pattern:
		return nil, &ArgumentError{
			Message: fmt.Sprintf("string pattern %s is only valid as a function argument", syntax.Format(n)),
			Pos:     n.Pos,
		}
	case *syntax.RangeAll:
		if n.Op == syntax.OpRange {
			return &Range{Roots: &Root{}, Heads: &VisibleHeads{}, Generation: FullGeneration, ParentsRange: FullParents}, nil
		}
		return &All{}, nil
	case *syntax.Unary:
		return l.lowerUnary(n)
	case *syntax.Binary:
		return l.lowerBinary(n)
	case *syntax.FunctionCall:
		fn, ok := functions[n.Name]
		if !ok {
			return nil, l.unknownFunction(n)
		}
		return fn(l, n)
	case *syntax.Modifier:
		if n.Name != "all" {
			return nil, &ArgumentError{Message: fmt.Sprintf("modifier %q doesn't exist", n.Name), Pos: n.Pos}
		}
		return l.lower(n.Body)
	case *syntax.AliasExpanded:
		if n.Collapsed {
			return &CollapsedAlias{Call: n.Call, Operation: l.operation}, nil
		}
		body, err := l.lower(n.Body)
		if err != nil {
			return nil, err
		}
		return &AliasExpanded{
			Name:      n.Name,
			Function:  n.Function,
			Call:      n.Call,
			Builtin:   n.Builtin,
			Operation: l.operation,
			Body:      body,
		}, nil
	default:
		panic(fmt.Sprintf("revset: unexpected syntax node %T", node))
	}
}

func (l *lowerer) lowerUnary(n *syntax.Unary) (Expression, error) {
	x, err := l.lower(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case syntax.OpNegate:
		return &NotIn{Complement: x}, nil
	case syntax.OpAncestors:
		return &Ancestors{Heads: x, Generation: FullGeneration, ParentsRange: FullParents}, nil
	case syntax.OpDescendants:
		return &Descendants{Roots: x, Generation: FullGeneration}, nil
	case syntax.OpRangeTo:
		return &Range{Roots: &Root{}, Heads: x, Generation: FullGeneration, ParentsRange: FullParents}, nil
	case syntax.OpRangeFrom:
		return &Range{Roots: x, Heads: &VisibleHeads{}, Generation: FullGeneration, ParentsRange: FullParents}, nil
	case syntax.OpParents:
		return &Ancestors{Heads: x, Generation: GenerationAt(1), ParentsRange: FullParents}, nil
	case syntax.OpChildren:
		return &Descendants{Roots: x, Generation: GenerationAt(1)}, nil
	default:
		panic(fmt.Sprintf("revset: unexpected unary operator %d", n.Op))
	}
}

func (l *lowerer) lowerBinary(n *syntax.Binary) (Expression, error) {
	left, err := l.lower(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := l.lower(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case syntax.OpUnion:
		return &Union{Terms: []Expression{left, right}}, nil
	case syntax.OpIntersection:
		return &Intersection{Terms: []Expression{left, right}}, nil
	case syntax.OpDifference:
		return &Difference{Left: left, Right: right}, nil
	case syntax.OpDagRange:
		return &DagRange{Roots: left, Heads: right}, nil
	case syntax.OpRange:
		return &Range{Roots: left, Heads: right, Generation: FullGeneration, ParentsRange: FullParents}, nil
	default:
		panic(fmt.Sprintf("revset: unexpected binary operator %d", n.Op))
	}
}

func (l *lowerer) reference(label string) Expression {
	if l.operation != "" {
		label += " at operation " + l.operation
	}
	return &Reference{Label: label}
}

func (l *lowerer) unknownFunction(call *syntax.FunctionCall) error {
	candidates := append(FunctionNames(), l.opts.AliasNames...)
	return &UnknownFunctionError{Name: call.Name, Suggestions: suggest(call.Name, candidates), Pos: call.NamePos}
}

func emptyCommits() Expression {
	return &NotIn{Complement: &Filter{Predicate: &FilesFilter{Files: &FilesetAll{}}}}
}

func constant(build func() Expression) functionLowerer {
	return func(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
		if _, err := l.args(call, nil, 0); err != nil {
			return nil, err
		}
		return build(), nil
	}
}

func unary(build func(Expression) Expression) functionLowerer {
	return func(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
		args, err := l.args(call, []string{""}, 1)
		if err != nil {
			return nil, err
		}
		x, err := l.lower(args[0])
		if err != nil {
			return nil, err
		}
		return build(x), nil
	}
}

// setAndDepth lowers "f(x[, depth])". depth is nil when omitted.
func (l *lowerer) setAndDepth(call *syntax.FunctionCall) (Expression, *uint64, error) {
	args, err := l.args(call, []string{"", ""}, 1)
	if err != nil {
		return nil, nil, err
	}
	x, err := l.lower(args[0])
	if err != nil {
		return nil, nil, err
	}
	if args[1] == nil {
		return x, nil, nil
	}
	depth, err := l.expectUint(call, args[1])
	if err != nil {
		return nil, nil, err
	}
	return x, &depth, nil
}

func lowerParents(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := GenerationAt(1)
	if depth != nil {
		gen = GenerationAt(*depth)
	}
	return &Ancestors{Heads: x, Generation: gen, ParentsRange: FullParents}, nil
}

func lowerChildren(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := GenerationAt(1)
	if depth != nil {
		gen = GenerationAt(*depth)
	}
	return &Descendants{Roots: x, Generation: gen}, nil
}

func lowerAncestors(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := FullGeneration
	if depth != nil {
		gen = GenerationRange{0, *depth}
	}
	return &Ancestors{Heads: x, Generation: gen, ParentsRange: FullParents}, nil
}

func lowerDescendants(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := FullGeneration
	if depth != nil {
		gen = GenerationRange{0, *depth}
	}
	return &Descendants{Roots: x, Generation: gen}, nil
}

func lowerFirstParent(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := GenerationAt(1)
	if depth != nil {
		gen = GenerationAt(*depth)
	}
	return &Ancestors{Heads: x, Generation: gen, ParentsRange: ParentsRange{0, 1}}, nil
}

func lowerFirstAncestors(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, depth, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	gen := FullGeneration
	if depth != nil {
		gen = GenerationRange{0, *depth}
	}
	return &Ancestors{Heads: x, Generation: gen, ParentsRange: ParentsRange{0, 1}}, nil
}

func lowerReachable(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{"", ""}, 2)
	if err != nil {
		return nil, err
	}
	sources, err := l.lower(args[0])
	if err != nil {
		return nil, err
	}
	domain, err := l.lower(args[1])
	if err != nil {
		return nil, err
	}
	return &Reachable{Sources: sources, Domain: domain}, nil
}

func lowerConnected(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{""}, 1)
	if err != nil {
		return nil, err
	}
	x, err := l.lower(args[0])
	if err != nil {
		return nil, err
	}
	return &DagRange{Roots: x, Heads: x}, nil
}

func lowerLatest(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	x, count, err := l.setAndDepth(call)
	if err != nil {
		return nil, err
	}
	n := 1
	if count != nil {
		n = int(*count)
	}
	return &Latest{Candidates: x, Count: n}, nil
}

func lowerExactly(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{"", ""}, 2)
	if err != nil {
		return nil, err
	}
	x, err := l.lower(args[0])
	if err != nil {
		return nil, err
	}
	count, err := l.expectUint(call, args[1])
	if err != nil {
		return nil, err
	}
	return &HasSize{Candidates: x, Count: int(count)}, nil
}

func lowerCoalesce(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	if len(call.Keywords) > 0 {
		return nil, &ArgumentError{Function: call.Name, Message: "unexpected keyword arguments", Pos: call.Pos}
	}
	terms := make([]Expression, 0, len(call.Args))
	for _, arg := range call.Args {
		x, err := l.lower(arg)
		if err != nil {
			return nil, err
		}
		terms = append(terms, x)
	}
	if len(terms) == 0 {
		return &None{}, nil
	}
	return &Coalesce{Terms: terms}, nil
}

func textFilter(field TextField) functionLowerer {
	return func(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
		args, err := l.args(call, []string{""}, 1)
		if err != nil {
			return nil, err
		}
		pattern, err := l.expectStringExpression(call, args[0])
		if err != nil {
			return nil, err
		}
		return &Filter{Predicate: &TextFilter{Field: field, Pattern: pattern}}, nil
	}
}

func personFilter(name, email TextField) functionLowerer {
	return func(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
		args, err := l.args(call, []string{""}, 1)
		if err != nil {
			return nil, err
		}
		pattern, err := l.expectStringExpression(call, args[0])
		if err != nil {
			return nil, err
		}
		return &Union{Terms: []Expression{
			&Filter{Predicate: &TextFilter{Field: name, Pattern: pattern}},
			&Filter{Predicate: &TextFilter{Field: email, Pattern: pattern}},
		}}, nil
	}
}

func dateFilter(field DateField) functionLowerer {
	return func(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
		args, err := l.args(call, []string{""}, 1)
		if err != nil {
			return nil, err
		}
		pattern, err := l.expectDatePattern(call, args[0])
		if err != nil {
			return nil, err
		}
		return &Filter{Predicate: &DateFilter{Field: field, Pattern: pattern}}, nil
	}
}

func lowerMine(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	if _, err := l.args(call, nil, 0); err != nil {
		return nil, err
	}
	email := l.opts.UserEmail
	if email == "" {
		email = PlaceholderEmail
	}
	pattern := &StringMatch{Pattern: StringPattern{Kind: PatternExactI, Value: email}}
	return &Filter{Predicate: &TextFilter{Field: FieldAuthorEmail, Pattern: pattern}}, nil
}

func lowerFiles(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{""}, 1)
	if err != nil {
		return nil, err
	}
	files, err := l.expectFileset(call, args[0])
	if err != nil {
		return nil, err
	}
	return &Filter{Predicate: &FilesFilter{Files: files}}, nil
}

func lowerDiffLines(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{"", ""}, 1)
	if err != nil {
		return nil, err
	}
	text, err := l.expectStringExpression(call, args[0])
	if err != nil {
		return nil, err
	}
	var files Fileset = &FilesetAll{}
	if args[1] != nil {
		if files, err = l.expectFileset(call, args[1]); err != nil {
			return nil, err
		}
	}
	return &Filter{Predicate: &DiffLines{Text: text, Files: files}}, nil
}

func lowerNamedReference(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	if _, err := l.args(call, nil, 0); err != nil {
		return nil, err
	}
	return l.reference(call.Name + "()"), nil
}

// lowerPatternReference handles bookmarks([pattern]) and tags([pattern]).
func lowerPatternReference(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{""}, 0)
	if err != nil {
		return nil, err
	}
	if args[0] == nil {
		return l.reference(call.Name + "()"), nil
	}
	pattern, err := l.expectStringExpression(call, args[0])
	if err != nil {
		return nil, err
	}
	if matchesAll(pattern) {
		return l.reference(call.Name + "()"), nil
	}
	return l.reference(call.Name + "(" + pattern.String() + ")"), nil
}

func lowerRemoteBookmarks(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{"", "remote"}, 0)
	if err != nil {
		return nil, err
	}
	var patterns [2]StringExpression
	for i, arg := range args {
		if arg == nil {
			patterns[i] = &StringMatch{Pattern: StringPattern{Kind: PatternSubstring}}
			continue
		}
		if patterns[i], err = l.expectStringExpression(call, arg); err != nil {
			return nil, err
		}
	}
	if matchesAll(patterns[0]) && matchesAll(patterns[1]) {
		return l.reference(call.Name + "()"), nil
	}
	return l.reference(fmt.Sprintf("%s(%s, remote=%s)", call.Name, patterns[0], patterns[1])), nil
}

func lowerIDPrefix(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{""}, 1)
	if err != nil {
		return nil, err
	}
	prefix, err := l.expectString(call, args[0])
	if err != nil {
		return nil, err
	}
	digits := "0123456789abcdef"
	if call.Name == "change_id" {
		digits = "zyxwvutsrqponmlk"
	}
	if prefix == "" || !onlyRunes(prefix, digits) {
		return nil, &ArgumentError{Function: call.Name, Message: fmt.Sprintf("invalid id prefix %q", prefix), Pos: args[0].Position()}
	}
	return l.reference(call.Name + "(" + prefix + ")"), nil
}

func lowerAtOperation(l *lowerer, call *syntax.FunctionCall) (Expression, error) {
	args, err := l.args(call, []string{"", ""}, 2)
	if err != nil {
		return nil, err
	}
	op := syntax.Format(args[0])
	inner := &lowerer{opts: l.opts, operation: op}
	x, err := inner.lower(args[1])
	if err != nil {
		return nil, err
	}
	return &AtOperation{Operation: op, Candidates: x}, nil
}

// args matches call arguments against params. An empty param name is
// positional-only; a named one may also be passed as name=value. The
// result has one slot per param, nil when omitted.
func (l *lowerer) args(call *syntax.FunctionCall, params []string, required int) ([]syntax.Node, error) {
	if len(call.Args) > len(params) {
		return nil, &ArgumentError{
			Function: call.Name,
			Message:  fmt.Sprintf("expected at most %d argument%s, got %d", len(params), plural(len(params)), len(call.Args)),
			Pos:      call.Pos,
		}
	}
	out := make([]syntax.Node, len(params))
	copy(out, call.Args)
	for _, kw := range call.Keywords {
		idx := -1
		for i, name := range params {
			if name != "" && name == kw.Name {
				idx = i
			}
		}
		if idx < 0 {
			return nil, &ArgumentError{Function: call.Name, Message: fmt.Sprintf("unexpected keyword argument %q", kw.Name), Pos: kw.Pos}
		}
		if out[idx] != nil {
			return nil, &ArgumentError{Function: call.Name, Message: fmt.Sprintf("got multiple values for argument %q", kw.Name), Pos: kw.Pos}
		}
		out[idx] = kw.Value
	}
	for i := 0; i < required; i++ {
		if out[i] == nil {
			return nil, &ArgumentError{
				Function: call.Name,
				Message:  fmt.Sprintf("expected %d argument%s, got %d", required, plural(required), len(call.Args)+len(call.Keywords)),
				Pos:      call.Pos,
			}
		}
	}
	return out, nil
}

func unwrapAlias(node syntax.Node) syntax.Node {
	for {
		alias, ok := node.(*syntax.AliasExpanded)
		if !ok {
			return node
		}
		node = alias.Body
	}
}

func (l *lowerer) expectString(call *syntax.FunctionCall, node syntax.Node) (string, error) {
	switch n := unwrapAlias(node).(type) {
	case *syntax.Identifier:
		return n.Name, nil
	case *syntax.String:
		return n.Value, nil
	}
	return "", &ArgumentError{Function: call.Name, Message: "expected a string literal", Pos: node.Position()}
}

func (l *lowerer) expectUint(call *syntax.FunctionCall, node syntax.Node) (uint64, error) {
	s, err := l.expectString(call, node)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &ArgumentError{Function: call.Name, Message: fmt.Sprintf("expected a non-negative integer, got %q", s), Pos: node.Position()}
	}
	return n, nil
}

func (l *lowerer) expectStringExpression(call *syntax.FunctionCall, node syntax.Node) (StringExpression, error) {
	switch n := unwrapAlias(node).(type) {
	case *syntax.Unary:
		if n.Op == syntax.OpNegate {
			inner, err := l.expectStringExpression(call, n.Operand)
			if err != nil {
				return nil, err
			}
			return &StringNot{Inner: inner}, nil
		}
	case *syntax.Binary:
		if n.Op == syntax.OpUnion || n.Op == syntax.OpIntersection || n.Op == syntax.OpDifference {
			left, err := l.expectStringExpression(call, n.Left)
			if err != nil {
				return nil, err
			}
			right, err := l.expectStringExpression(call, n.Right)
			if err != nil {
				return nil, err
			}
			switch n.Op {
			case syntax.OpUnion:
				return &StringUnion{Left: left, Right: right}, nil
			case syntax.OpIntersection:
				return &StringIntersection{Left: left, Right: right}, nil
			default:
				return &StringIntersection{Left: left, Right: &StringNot{Inner: right}}, nil
			}
		}
	case *syntax.Pattern:
		pattern, err := NewStringPattern(n.Kind, n.Value)
		if err != nil {
			return nil, &ArgumentError{Function: call.Name, Message: err.Error(), Pos: n.Pos}
		}
		return &StringMatch{Pattern: pattern}, nil
	case *syntax.Identifier, *syntax.String:
		value, _ := l.expectString(call, n)
		pattern, err := NewStringPattern("", value)
		if err != nil {
			return nil, &ArgumentError{Function: call.Name, Message: err.Error(), Pos: n.Position()}
		}
		return &StringMatch{Pattern: pattern}, nil
	}
	return nil, &ArgumentError{Function: call.Name, Message: "expected a string pattern", Pos: node.Position()}
}

func (l *lowerer) expectDatePattern(call *syntax.FunctionCall, node syntax.Node) (DatePattern, error) {
	n, ok := unwrapAlias(node).(*syntax.Pattern)
	if !ok {
		return DatePattern{}, &ArgumentError{Function: call.Name, Message: `expected a date pattern such as after:"2024-01-01"`, Pos: node.Position()}
	}
	pattern, err := NewDatePattern(n.Kind, n.Value, l.opts.Now)
	if err != nil {
		return DatePattern{}, &ArgumentError{Function: call.Name, Message: err.Error(), Pos: n.Pos}
	}
	return pattern, nil
}

func (l *lowerer) expectFileset(call *syntax.FunctionCall, node syntax.Node) (Fileset, error) {
	switch n := unwrapAlias(node).(type) {
	case *syntax.Identifier, *syntax.String:
		value, _ := l.expectString(call, n)
		return l.filePattern(call, "", value, n.Position())
	case *syntax.Pattern:
		return l.filePattern(call, n.Kind, n.Value, n.Pos)
	case *syntax.FunctionCall:
		if len(n.Args) == 0 && len(n.Keywords) == 0 {
			switch n.Name {
			case "all":
				return &FilesetAll{}, nil
			case "none":
				return &FilesetNone{}, nil
			}
		}
	case *syntax.Unary:
		if n.Op == syntax.OpNegate {
			inner, err := l.expectFileset(call, n.Operand)
			if err != nil {
				return nil, err
			}
			return &FilesetDifference{Left: &FilesetAll{}, Right: inner}, nil
		}
	case *syntax.Binary:
		if n.Op == syntax.OpUnion || n.Op == syntax.OpIntersection || n.Op == syntax.OpDifference {
			left, err := l.expectFileset(call, n.Left)
			if err != nil {
				return nil, err
			}
			right, err := l.expectFileset(call, n.Right)
			if err != nil {
				return nil, err
			}
			switch n.Op {
			case syntax.OpUnion:
				var terms []Fileset
				for _, side := range []Fileset{left, right} {
					if u, ok := side.(*FilesetUnion); ok {
						terms = append(terms, u.Terms...)
					} else {
						terms = append(terms, side)
					}
				}
				return &FilesetUnion{Terms: terms}, nil
			case syntax.OpIntersection:
				return &FilesetIntersection{Left: left, Right: right}, nil
			default:
				return &FilesetDifference{Left: left, Right: right}, nil
			}
		}
	}
	return nil, &ArgumentError{Function: call.Name, Message: "expected a fileset", Pos: node.Position()}
}

func (l *lowerer) filePattern(call *syntax.FunctionCall, kind, value string, pos syntax.Span) (Fileset, error) {
	pattern, err := NewFilePattern(kind, value)
	if err != nil {
		return nil, &ArgumentError{Function: call.Name, Message: err.Error(), Pos: pos}
	}
	return pattern, nil
}

func onlyRunes(s, allowed string) bool {
	for _, r := range s {
		found := false
		for _, a := range allowed {
			if r == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
