package syntax

// Span is a half-open byte range [Start, End) into the parsed input.
type Span struct {
	Start int
	End   int
}

// Node is a node in a revset syntax tree.
type Node interface {
	Position() Span
	syntaxNode()
}

// UnaryOp identifies a prefix or postfix operator.
type UnaryOp int

const (
	OpNegate      UnaryOp = iota // ~x
	OpAncestors                  // ::x
	OpRangeTo                    // ..x
	OpDescendants                // x::
	OpRangeFrom                  // x..
	OpParents                    // x-
	OpChildren                   // x+
)

var unaryOpText = map[UnaryOp]string{
	OpNegate:      "~",
	OpAncestors:   "::",
	OpRangeTo:     "..",
	OpDescendants: "::",
	OpRangeFrom:   "..",
	OpParents:     "-",
	OpChildren:    "+",
}

// Postfix reports whether the operator follows its operand.
func (op UnaryOp) Postfix() bool {
	return op == OpDescendants || op == OpRangeFrom || op == OpParents || op == OpChildren
}

func (op UnaryOp) String() string { return unaryOpText[op] }

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	OpUnion        BinaryOp = iota // x | y
	OpIntersection                 // x & y
	OpDifference                   // x ~ y
	OpDagRange                     // x::y
	OpRange                        // x..y
)

var binaryOpText = map[BinaryOp]string{
	OpUnion:        " | ",
	OpIntersection: " & ",
	OpDifference:   " ~ ",
	OpDagRange:     "::",
	OpRange:        "..",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

// Identifier is a bare symbol such as a bookmark name or commit id prefix.
type Identifier struct {
	Name string
	Pos  Span
}

// String is a quoted symbol.
type String struct {
	Value string
	Pos   Span
}

// Pattern is a kind-prefixed literal such as glob:"feat/*".
type Pattern struct {
	Kind  string
	Value string
	Pos   Span
}

// RemoteSymbol is name@remote.
type RemoteSymbol struct {
	Name   string
	Remote string
	Pos    Span
}

// WorkingCopy is "@" or "workspace@".
type WorkingCopy struct {
	Workspace string
	Pos       Span
}

// RangeAll is a bare "::" or "..".
type RangeAll struct {
	Op  BinaryOp // OpDagRange or OpRange
	Pos Span
}

// Unary is a prefix or postfix operator applied to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Node
	Pos     Span
}

// Binary is an infix operator.
type Binary struct {
	Op    BinaryOp
	Left  Node
	Right Node
	Pos   Span
}

// KeywordArg is a name=value function argument.
type KeywordArg struct {
	Name  string
	Value Node
	Pos   Span
}

// FunctionCall is name(args...).
type FunctionCall struct {
	Name     string
	NamePos  Span
	Args     []Node
	Keywords []KeywordArg
	Pos      Span
}

// Modifier is a top-level "name:" prefix applied to the whole expression.
type Modifier struct {
	Name string
	Body Node
	Pos  Span
}

// AliasExpanded marks a subtree produced by expanding an alias.
type AliasExpanded struct {
	Name     string // alias name
	Function bool   // true for function aliases
	Call     string // canonical text of the call site, e.g. "trunk()"
	Builtin  bool
	// Collapsed references were left unexpanded; Body is then Call as a
	// string literal.
	Collapsed bool
	Body      Node
	Pos       Span
}

func (n *Identifier) Position() Span    { return n.Pos }
func (n *String) Position() Span        { return n.Pos }
func (n *Pattern) Position() Span       { return n.Pos }
func (n *RemoteSymbol) Position() Span  { return n.Pos }
func (n *WorkingCopy) Position() Span   { return n.Pos }
func (n *RangeAll) Position() Span      { return n.Pos }
func (n *Unary) Position() Span         { return n.Pos }
func (n *Binary) Position() Span        { return n.Pos }
func (n *FunctionCall) Position() Span  { return n.Pos }
func (n *Modifier) Position() Span      { return n.Pos }
func (n *AliasExpanded) Position() Span { return n.Pos }

func (*Identifier) syntaxNode()    {}
func (*String) syntaxNode()        {}
func (*Pattern) syntaxNode()       {}
func (*RemoteSymbol) syntaxNode()  {}
func (*WorkingCopy) syntaxNode()   {}
func (*RangeAll) syntaxNode()      {}
func (*Unary) syntaxNode()         {}
func (*Binary) syntaxNode()        {}
func (*FunctionCall) syntaxNode()  {}
func (*Modifier) syntaxNode()      {}
func (*AliasExpanded) syntaxNode() {}
