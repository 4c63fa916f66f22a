package syntax

import (
	"strconv"
	"strings"
)

const (
	precUnion = iota + 1
	precIntersection
	precNegate
	precRange
	precNeighbors
	precPrimary
)

// Format renders a syntax tree back to canonical revset text, adding
// parentheses only where precedence requires them.
func Format(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func precedence(n Node) int {
	switch n := n.(type) {
	case *Binary:
		switch n.Op {
		case OpUnion:
			return precUnion
		case OpIntersection, OpDifference:
			return precIntersection
		default:
			return precRange
		}
	case *Unary:
		switch n.Op {
		case OpNegate:
			return precNegate
		case OpParents, OpChildren:
			return precNeighbors
		default:
			return precRange
		}
	case *RangeAll:
		return precRange
	case *Modifier:
		return 0
	default:
		return precPrimary
	}
}

func writeNode(sb *strings.Builder, n Node, min int) {
	if precedence(n) < min {
		sb.WriteByte('(')
		writeNode(sb, n, 0)
		sb.WriteByte(')')
		return
	}

	switch n := n.(type) {
	case *Identifier:
		sb.WriteString(n.Name)
	case *String:
		sb.WriteString(strconv.Quote(n.Value))
	case *Pattern:
		sb.WriteString(n.Kind)
		sb.WriteByte(':')
		sb.WriteString(QuoteSymbol(n.Value))
	case *RemoteSymbol:
		sb.WriteString(QuoteSymbol(n.Name))
		sb.WriteByte('@')
		sb.WriteString(QuoteSymbol(n.Remote))
	case *WorkingCopy:
		if n.Workspace != "" {
			sb.WriteString(QuoteSymbol(n.Workspace))
		}
		sb.WriteByte('@')
	case *RangeAll:
		sb.WriteString(n.Op.String())
	case *Unary:
		if n.Op.Postfix() {
			writeNode(sb, n.Operand, precNeighbors)
			sb.WriteString(n.Op.String())
		} else {
			sb.WriteString(n.Op.String())
			operandPrec := precNeighbors
			if n.Op == OpNegate {
				operandPrec = precNegate
			}
			writeNode(sb, n.Operand, operandPrec)
		}
	case *Binary:
		left, right := precNeighbors, precNeighbors
		switch n.Op {
		case OpUnion:
			left, right = precUnion, precIntersection
		case OpIntersection, OpDifference:
			left, right = precIntersection, precNegate
		}
		writeNode(sb, n.Left, left)
		sb.WriteString(n.Op.String())
		writeNode(sb, n.Right, right)
	case *FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, arg, 0)
		}
		for i, kw := range n.Keywords {
			if i > 0 || len(n.Args) > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(kw.Name)
			sb.WriteByte('=')
			writeNode(sb, kw.Value, 0)
		}
		sb.WriteByte(')')
	case *Modifier:
		sb.WriteString(n.Name)
		sb.WriteByte(':')
		writeNode(sb, n.Body, 0)
	case *AliasExpanded:
		sb.WriteString(n.Call)
	}
}

// QuoteSymbol returns s unchanged when it lexes as a single identifier,
// and as a quoted string literal otherwise.
func QuoteSymbol(s string) string {
	if s != "" {
		tok := NewLexer(s).NextToken()
		if tok.Type == TokenIdent && tok.Pos == 0 && tok.End == len(s) {
			return s
		}
	}
	return strconv.Quote(s)
}
