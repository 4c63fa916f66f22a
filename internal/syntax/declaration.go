package syntax

import "fmt"

// Declaration is the left-hand side of an alias definition: either a
// symbol name or a function name with its parameter list.
type Declaration struct {
	Name     string
	Params   []string
	Function bool
}

func (d *Declaration) String() string {
	if !d.Function {
		return d.Name
	}
	s := d.Name + "("
	for i, param := range d.Params {
		if i > 0 {
			s += ", "
		}
		s += param
	}
	return s + ")"
}

// ParseDeclaration parses an alias declaration such as "trunk()",
// "author_or(a, b)" or "mine_default".
func ParseDeclaration(input string) (*Declaration, error) {
	p := newParser(input)
	if p.curr.Type != TokenIdent {
		return nil, p.unexpected("alias name")
	}
	decl := &Declaration{Name: p.curr.Value}
	p.advance()

	if p.curr.Type == TokenLParen {
		if !IsStrictIdentifier(decl.Name) {
			return nil, &Error{Pos: 0, Message: "invalid function name " + decl.Name}
		}
		decl.Function = true
		p.advance()
		seen := make(map[string]bool)
		for p.curr.Type == TokenIdent {
			param := p.curr
			if !IsStrictIdentifier(param.Value) {
				return nil, &Error{Pos: param.Pos, Message: "invalid parameter name " + param.Value}
			}
			if seen[param.Value] {
				return nil, &Error{Pos: param.Pos, Message: fmt.Sprintf("redefinition of parameter %q", param.Value)}
			}
			seen[param.Value] = true
			decl.Params = append(decl.Params, param.Value)
			p.advance()
			if p.curr.Type != TokenComma {
				break
			}
			p.advance()
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
	}

	if p.curr.Type != TokenEOF {
		return nil, p.unexpected("end of input")
	}
	return decl, nil
}
