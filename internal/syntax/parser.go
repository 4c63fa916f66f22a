package syntax

// Parser parses revset strings into syntax trees.
//
// Precedence, loosest first:
//
//	x | y
//	x & y, x ~ y
//	~x
//	x::y, x..y, ::x, x::, ..x, x.., ::, ..
//	x-, x+
//	primary
type Parser struct {
	lexer *Lexer
	curr  Token
	peek  Token
}

// Parse parses a complete revset expression, including an optional
// leading modifier such as "all:".
func Parse(input string) (Node, error) {
	p := newParser(input)

	var node Node
	var err error
	if p.curr.Type == TokenIdent && p.peek.Type == TokenColon && IsStrictIdentifier(p.curr.Value) {
		start := p.curr.Pos
		name := p.curr.Value
		p.advance()
		p.advance()
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node = &Modifier{Name: name, Body: body, Pos: Span{start, body.Position().End}}
	} else {
		node, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if p.curr.Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return node, nil
}

// ParseExpression parses a revset expression without a leading modifier,
// as used for alias bodies.
func ParseExpression(input string) (Node, error) {
	p := newParser(input)
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curr.Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return node, nil
}

func newParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.curr = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) expect(t TokenType) error {
	if p.curr.Type != t {
		return p.unexpected(t.String())
	}
	p.advance()
	return nil
}

func (p *Parser) unexpected(expected string) error {
	if p.curr.Type == TokenError {
		return &Error{Pos: p.curr.Pos, Message: p.curr.Value}
	}
	return &Error{Pos: p.curr.Pos, Expected: expected, Found: describe(p.curr)}
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseUnion()
}

func (p *Parser) parseUnion() (Node, error) {
	left, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenPipe {
		p.advance()
		right, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: OpUnion, Left: left, Right: right, Pos: spanOf(left, right)}
	}
	return left, nil
}

func (p *Parser) parseIntersection() (Node, error) {
	left, err := p.parseNegate()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenAmp || p.curr.Type == TokenTilde {
		op := OpIntersection
		if p.curr.Type == TokenTilde {
			op = OpDifference
		}
		p.advance()
		right, err := p.parseNegate()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, Pos: spanOf(left, right)}
	}
	return left, nil
}

func (p *Parser) parseNegate() (Node, error) {
	if p.curr.Type == TokenTilde {
		start := p.curr.Pos
		p.advance()
		operand, err := p.parseNegate()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNegate, Operand: operand, Pos: Span{start, operand.Position().End}}, nil
	}
	return p.parseRange()
}

func (p *Parser) parseRange() (Node, error) {
	if isRangeOp(p.curr.Type) {
		tok := p.curr
		p.advance()
		if !p.startsPrimary() {
			return &RangeAll{Op: rangeBinaryOp(tok.Type), Pos: Span{tok.Pos, tok.End}}, nil
		}
		operand, err := p.parseNeighbors()
		if err != nil {
			return nil, err
		}
		op := OpAncestors
		if tok.Type == TokenDotDot {
			op = OpRangeTo
		}
		node := &Unary{Op: op, Operand: operand, Pos: Span{tok.Pos, operand.Position().End}}
		return node, p.rejectChainedRange()
	}

	left, err := p.parseNeighbors()
	if err != nil {
		return nil, err
	}
	if !isRangeOp(p.curr.Type) {
		return left, nil
	}

	tok := p.curr
	p.advance()
	if !p.startsPrimary() {
		op := OpDescendants
		if tok.Type == TokenDotDot {
			op = OpRangeFrom
		}
		node := &Unary{Op: op, Operand: left, Pos: Span{left.Position().Start, tok.End}}
		return node, p.rejectChainedRange()
	}
	right, err := p.parseNeighbors()
	if err != nil {
		return nil, err
	}
	node := &Binary{Op: rangeBinaryOp(tok.Type), Left: left, Right: right, Pos: spanOf(left, right)}
	return node, p.rejectChainedRange()
}

func (p *Parser) rejectChainedRange() error {
	if isRangeOp(p.curr.Type) {
		return &Error{Pos: p.curr.Pos, Message: "range operators cannot be chained; add parentheses"}
	}
	return nil
}

func (p *Parser) parseNeighbors() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenMinus || p.curr.Type == TokenPlus {
		op := OpParents
		if p.curr.Type == TokenPlus {
			op = OpChildren
		}
		node = &Unary{Op: op, Operand: node, Pos: Span{node.Position().Start, p.curr.End}}
		p.advance()
	}
	return node, nil
}

func (p *Parser) startsPrimary() bool {
	switch p.curr.Type {
	case TokenIdent, TokenString, TokenLParen, TokenAt:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() (Node, error) {
	switch p.curr.Type {
	case TokenLParen:
		p.advance()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	case TokenAt:
		tok := p.curr
		p.advance()
		return &WorkingCopy{Pos: Span{tok.Pos, tok.End}}, nil
	case TokenIdent:
		if p.peek.Type == TokenLParen {
			return p.parseFunctionCall()
		}
		if p.peek.Type == TokenColon {
			return p.parsePattern()
		}
		return p.parseSymbol()
	case TokenString:
		return p.parseSymbol()
	default:
		return nil, p.unexpected("expression")
	}
}

// parseSymbol parses a bare or quoted symbol, including the adjacent
// name@remote and workspace@ forms.
func (p *Parser) parseSymbol() (Node, error) {
	tok := p.curr
	p.advance()

	if p.curr.Type != TokenAt || p.curr.Pos != tok.End {
		if tok.Type == TokenString {
			return &String{Value: tok.Value, Pos: Span{tok.Pos, tok.End}}, nil
		}
		return &Identifier{Name: tok.Value, Pos: Span{tok.Pos, tok.End}}, nil
	}

	at := p.curr
	p.advance()
	if (p.curr.Type == TokenIdent || p.curr.Type == TokenString) && p.curr.Pos == at.End {
		remote := p.curr
		p.advance()
		return &RemoteSymbol{Name: tok.Value, Remote: remote.Value, Pos: Span{tok.Pos, remote.End}}, nil
	}
	return &WorkingCopy{Workspace: tok.Value, Pos: Span{tok.Pos, at.End}}, nil
}

func (p *Parser) parsePattern() (Node, error) {
	kind := p.curr
	if !IsStrictIdentifier(kind.Value) {
		return nil, &Error{Pos: kind.Pos, Message: "invalid pattern kind " + kind.Value}
	}
	p.advance()
	p.advance() // ':'
	if p.curr.Type != TokenIdent && p.curr.Type != TokenString {
		return nil, p.unexpected("pattern value")
	}
	value := p.curr
	p.advance()
	return &Pattern{Kind: kind.Value, Value: value.Value, Pos: Span{kind.Pos, value.End}}, nil
}

func (p *Parser) parseFunctionCall() (Node, error) {
	name := p.curr
	if !IsStrictIdentifier(name.Value) {
		return nil, &Error{Pos: name.Pos, Message: "invalid function name " + name.Value}
	}
	p.advance()
	p.advance() // '('

	call := &FunctionCall{Name: name.Value, NamePos: Span{name.Pos, name.End}}
	for p.curr.Type != TokenRParen {
		if p.curr.Type == TokenIdent && p.peek.Type == TokenEq {
			kw := p.curr
			if !IsStrictIdentifier(kw.Value) {
				return nil, &Error{Pos: kw.Pos, Message: "invalid keyword argument name " + kw.Value}
			}
			p.advance()
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, KeywordArg{
				Name:  kw.Value,
				Value: value,
				Pos:   Span{kw.Pos, value.Position().End},
			})
		} else {
			start := p.curr.Pos
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if len(call.Keywords) > 0 {
				return nil, &Error{Pos: start, Message: "positional argument follows keyword argument"}
			}
			call.Args = append(call.Args, arg)
		}

		if p.curr.Type != TokenComma {
			break
		}
		p.advance()
	}

	end := p.curr.End
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	call.Pos = Span{name.Pos, end}
	return call, nil
}

func isRangeOp(t TokenType) bool {
	return t == TokenColonColon || t == TokenDotDot
}

func rangeBinaryOp(t TokenType) BinaryOp {
	if t == TokenDotDot {
		return OpRange
	}
	return OpDagRange
}

func spanOf(left, right Node) Span {
	return Span{left.Position().Start, right.Position().End}
}
