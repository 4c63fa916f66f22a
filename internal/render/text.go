package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/ui"
)

type printer struct {
	out    *strings.Builder
	styles ui.Styles
}

func (p *printer) node(t *analyze.Tree, depth int) {
	if t.Expensive {
		p.out.WriteString(p.styles.Expensive.Render("(EXPENSIVE)"))
		p.out.WriteByte(' ')
	}

	name := p.strategyStyle(t.Strategy)
	if len(t.Children) > 0 {
		name = name.Bold(true)
	}
	p.out.WriteString(name.Render(t.Name))

	if len(t.Children) == 0 {
		p.out.WriteByte('\n')
		return
	}

	open, end := brackets(t.Children)
	p.out.WriteString(p.styles.Faint.Render(open))
	p.out.WriteByte('\n')
	for _, child := range t.Children {
		p.indent(depth + 1)
		if child.Label != "" {
			p.out.WriteString(p.styles.Faint.Render(child.Label + ":"))
			p.out.WriteByte(' ')
		}
		p.node(child, depth+1)
	}
	p.indent(depth)
	p.out.WriteString(p.styles.Faint.Render(end))
	p.out.WriteByte('\n')
}

func (p *printer) strategyStyle(c analyze.Context) lipgloss.Style {
	switch c {
	case analyze.Eager:
		return p.styles.Eager
	case analyze.Lazy:
		return p.styles.Lazy
	case analyze.Predicate:
		return p.styles.Predicate
	case analyze.Neutral:
		return p.styles.Neutral
	default:
		return p.styles.Resolved
	}
}

func (p *printer) indent(depth int) {
	p.out.WriteString(strings.Repeat("  ", depth))
}

// brackets picks braces when any child is labeled, parentheses around a
// single operand, and square brackets around a list of operands.
func brackets(children []*analyze.Tree) (string, string) {
	for _, child := range children {
		if child.Label != "" {
			return " {", "}"
		}
	}
	if len(children) == 1 {
		return "(", ")"
	}
	return " [", "]"
}
