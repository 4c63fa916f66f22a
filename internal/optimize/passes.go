package optimize

import (
	"sort"

	"github.com/scott2000/jj-analyze/internal/revset"
)

// unfoldDifference rewrites x ~ y as x & ~y so that negations can be
// sorted together with the other intersection terms.
func unfoldDifference(e revset.Expression) revset.Expression {
	d, ok := e.(*revset.Difference)
	if !ok {
		return e
	}
	return &revset.Intersection{Terms: []revset.Expression{d.Left, &revset.NotIn{Complement: d.Right}}}
}

func foldRedundant(e revset.Expression) revset.Expression {
	switch e := e.(type) {
	case *revset.NotIn:
		switch c := e.Complement.(type) {
		case *revset.NotIn:
			return c.Complement
		case *revset.None:
			return &revset.All{}
		case *revset.All:
			return &revset.None{}
		}
	case *revset.Union:
		var terms []revset.Expression
		for _, term := range flatten(e.Terms, unionTerms) {
			switch term.(type) {
			case *revset.None:
				continue
			case *revset.All:
				return term
			}
			terms = append(terms, term)
		}
		switch len(terms) {
		case 0:
			return &revset.None{}
		case 1:
			return terms[0]
		}
		return &revset.Union{Terms: terms}
	case *revset.Intersection:
		var terms []revset.Expression
		for _, term := range flatten(e.Terms, intersectionTerms) {
			switch term.(type) {
			case *revset.None:
				return term
			case *revset.All:
				continue
			}
			terms = append(terms, term)
		}
		switch len(terms) {
		case 0:
			return &revset.All{}
		case 1:
			return terms[0]
		}
		return &revset.Intersection{Terms: terms}
	case *revset.Coalesce:
		terms := flatten(e.Terms, coalesceTerms)
		if len(terms) == 1 {
			return terms[0]
		}
		return &revset.Coalesce{Terms: terms}
	}
	return e
}

func unionTerms(e revset.Expression) []revset.Expression {
	if u, ok := e.(*revset.Union); ok {
		return u.Terms
	}
	return nil
}

func intersectionTerms(e revset.Expression) []revset.Expression {
	if i, ok := e.(*revset.Intersection); ok {
		return i.Terms
	}
	return nil
}

func coalesceTerms(e revset.Expression) []revset.Expression {
	if c, ok := e.(*revset.Coalesce); ok {
		return c.Terms
	}
	return nil
}

// flatten splices nested terms of the same operator in place, keeping
// left-to-right order.
func flatten(terms []revset.Expression, nested func(revset.Expression) []revset.Expression) []revset.Expression {
	out := make([]revset.Expression, 0, len(terms))
	for _, term := range terms {
		if inner := nested(term); inner != nil {
			out = append(out, flatten(inner, nested)...)
			continue
		}
		out = append(out, term)
	}
	return out
}

func foldGeneration(e revset.Expression) revset.Expression {
	switch e := e.(type) {
	case *revset.Ancestors:
		inner, ok := e.Heads.(*revset.Ancestors)
		if !ok || inner.ParentsRange != e.ParentsRange {
			return e
		}
		return &revset.Ancestors{
			Heads:        inner.Heads,
			Generation:   e.Generation.Add(inner.Generation),
			ParentsRange: e.ParentsRange,
		}
	case *revset.Descendants:
		inner, ok := e.Roots.(*revset.Descendants)
		if !ok {
			return e
		}
		return &revset.Descendants{Roots: inner.Roots, Generation: e.Generation.Add(inner.Generation)}
	}
	return e
}

// internalizeFilter marks subtrees that must be evaluated as predicates
// with AsFilter and moves filter terms to the end of intersections.
func internalizeFilter(e revset.Expression) revset.Expression {
	switch e := e.(type) {
	case *revset.AsFilter:
		if inner, ok := e.Candidates.(*revset.AsFilter); ok {
			return inner
		}
	case *revset.Present:
		if revset.IsFilter(e.Candidates) {
			return &revset.AsFilter{Candidates: &revset.Present{Candidates: filterBody(e.Candidates)}}
		}
	case *revset.NotIn:
		if revset.IsFilter(e.Complement) {
			return &revset.AsFilter{Candidates: &revset.NotIn{Complement: filterBody(e.Complement)}}
		}
	case *revset.Union:
		if !anyFilter(e.Terms) {
			return e
		}
		terms := make([]revset.Expression, len(e.Terms))
		for i, term := range e.Terms {
			terms[i] = filterBody(term)
		}
		return &revset.AsFilter{Candidates: &revset.Union{Terms: terms}}
	case *revset.Intersection:
		var sets, filters []revset.Expression
		for _, term := range e.Terms {
			if revset.IsFilter(term) {
				filters = append(filters, term)
			} else {
				sets = append(sets, term)
			}
		}
		if len(filters) == 0 {
			return e
		}
		if len(sets) == 0 {
			bodies := make([]revset.Expression, len(filters))
			for i, f := range filters {
				bodies[i] = filterBody(f)
			}
			return &revset.AsFilter{Candidates: &revset.Intersection{Terms: bodies}}
		}
		return &revset.Intersection{Terms: append(sets, filters...)}
	}
	return e
}

// filterBody strips an AsFilter marker; the caller re-marks the parent.
func filterBody(e revset.Expression) revset.Expression {
	if f, ok := e.(*revset.AsFilter); ok {
		return f.Candidates
	}
	return e
}

func anyFilter(terms []revset.Expression) bool {
	for _, term := range terms {
		if revset.IsFilter(term) {
			return true
		}
	}
	return false
}

// Sort keys for intersection terms.
const (
	keyAncestors = iota
	keySet
	keyNegation
	keyFilter
)

func termKey(e revset.Expression) int {
	switch e := e.(type) {
	case *revset.Ancestors:
		if e.ParentsRange.IsFull() {
			return keyAncestors
		}
	case *revset.NotIn:
		return keyNegation
	case *revset.Filter, *revset.AsFilter:
		return keyFilter
	}
	return keySet
}

// normalizeIntersection unfolds ranges into ::heads & ~::roots, orders the
// terms, merges negated ancestors and fuses them back into a single range
// with the first positive ancestors term.
func normalizeIntersection(e revset.Expression) revset.Expression {
	inter, ok := e.(*revset.Intersection)
	if !ok {
		return e
	}

	var unfolded []revset.Expression
	for _, term := range inter.Terms {
		if r, ok := term.(*revset.Range); ok && r.ParentsRange.IsFull() {
			unfolded = append(unfolded,
				&revset.Ancestors{Heads: r.Heads, Generation: r.Generation, ParentsRange: revset.FullParents},
				&revset.NotIn{Complement: fullAncestors(r.Roots)})
			continue
		}
		unfolded = append(unfolded, term)
	}

	var terms []revset.Expression
	for _, term := range unfolded {
		if !isAllCommits(term) {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return &revset.All{}
	}

	sort.SliceStable(terms, func(i, j int) bool { return termKey(terms[i]) < termKey(terms[j]) })

	terms = mergeNegatedAncestors(terms)

	positive := -1
	for i, term := range terms {
		if termKey(term) == keyAncestors {
			positive = i
			break
		}
	}
	if positive >= 0 {
		for i, term := range terms {
			roots, ok := negatedAncestorRoots(term)
			if !ok {
				continue
			}
			heads := terms[positive].(*revset.Ancestors)
			terms[positive] = &revset.Range{
				Roots:        roots,
				Heads:        heads.Heads,
				Generation:   heads.Generation,
				ParentsRange: revset.FullParents,
			}
			terms = append(terms[:i], terms[i+1:]...)
			break
		}
	} else {
		terms = mergeNegations(terms)
	}

	if len(terms) == 1 {
		return terms[0]
	}
	return &revset.Intersection{Terms: terms}
}

// mergeNegatedAncestors replaces every ~::r term with one ~::(r1 | r2 ...)
// at the position of the first.
func mergeNegatedAncestors(terms []revset.Expression) []revset.Expression {
	var roots []revset.Expression
	first := -1
	for i, term := range terms {
		if r, ok := negatedAncestorRoots(term); ok {
			if first < 0 {
				first = i
			}
			roots = append(roots, r)
		}
	}
	if len(roots) < 2 {
		return terms
	}
	out := make([]revset.Expression, 0, len(terms)-len(roots)+1)
	for i, term := range terms {
		if i == first {
			out = append(out, &revset.NotIn{Complement: fullAncestors(unionOf(roots))})
			continue
		}
		if _, ok := negatedAncestorRoots(term); !ok {
			out = append(out, term)
		}
	}
	return out
}

// mergeNegations folds ~a & ~b into ~(a | b) when nothing positive is left
// to subtract from.
func mergeNegations(terms []revset.Expression) []revset.Expression {
	var complements []revset.Expression
	first := -1
	for i, term := range terms {
		if n, ok := term.(*revset.NotIn); ok {
			if first < 0 {
				first = i
			}
			complements = append(complements, n.Complement)
		}
	}
	if len(complements) < 2 {
		return terms
	}
	for _, term := range terms {
		if termKey(term) == keySet {
			return terms
		}
	}
	out := make([]revset.Expression, 0, len(terms)-len(complements)+1)
	for i, term := range terms {
		if i == first {
			out = append(out, &revset.NotIn{Complement: unionOf(complements)})
			continue
		}
		if _, ok := term.(*revset.NotIn); !ok {
			out = append(out, term)
		}
	}
	return out
}

func negatedAncestorRoots(e revset.Expression) (revset.Expression, bool) {
	n, ok := e.(*revset.NotIn)
	if !ok {
		return nil, false
	}
	a, ok := n.Complement.(*revset.Ancestors)
	if !ok || !a.Generation.IsFull() || !a.ParentsRange.IsFull() {
		return nil, false
	}
	return a.Heads, true
}

func fullAncestors(heads revset.Expression) *revset.Ancestors {
	return &revset.Ancestors{Heads: heads, Generation: revset.FullGeneration, ParentsRange: revset.FullParents}
}

// isAllCommits matches all() and ::visible_heads().
func isAllCommits(e revset.Expression) bool {
	switch e := e.(type) {
	case *revset.All:
		return true
	case *revset.Ancestors:
		_, ok := e.Heads.(*revset.VisibleHeads)
		return ok && e.Generation.IsFull() && e.ParentsRange.IsFull()
	}
	return false
}

func unionOf(terms []revset.Expression) revset.Expression {
	terms = flatten(terms, unionTerms)
	if len(terms) == 1 {
		return terms[0]
	}
	return &revset.Union{Terms: terms}
}

// foldDifference turns the negated terms of an intersection into a chain
// of differences from the positive terms. Filters stay at the end.
func foldDifference(e revset.Expression) revset.Expression {
	inter, ok := e.(*revset.Intersection)
	if !ok {
		return e
	}
	var positives, negated, filters []revset.Expression
	for _, term := range inter.Terms {
		switch t := term.(type) {
		case *revset.NotIn:
			negated = append(negated, t.Complement)
		default:
			if revset.IsFilter(term) {
				filters = append(filters, term)
			} else {
				positives = append(positives, term)
			}
		}
	}
	if len(positives) == 0 || len(negated) == 0 {
		return e
	}

	var chain revset.Expression = &revset.Intersection{Terms: positives}
	if len(positives) == 1 {
		chain = positives[0]
	}
	for _, n := range negated {
		chain = &revset.Difference{Left: chain, Right: n}
	}
	if len(filters) == 0 {
		return chain
	}
	return &revset.Intersection{Terms: append([]revset.Expression{chain}, filters...)}
}

// foldNotInAncestors rewrites ~::r as r..visible_heads().
func foldNotInAncestors(e revset.Expression) revset.Expression {
	roots, ok := negatedAncestorRoots(e)
	if !ok {
		return e
	}
	return &revset.Range{
		Roots:        roots,
		Heads:        &revset.VisibleHeads{},
		Generation:   revset.FullGeneration,
		ParentsRange: revset.FullParents,
	}
}

// filteredRange accumulates heads(roots..heads & filter) while walking an
// intersection or difference from the left.
type filteredRange struct {
	roots        revset.Expression
	heads        revset.Expression // nil until an ancestors term is seen
	parentsRange revset.ParentsRange
	filters      []revset.Expression
}

func (r *filteredRange) add(e revset.Expression) {
	if r.heads == nil {
		if a, ok := e.(*revset.Ancestors); ok && a.Generation.IsFull() {
			r.heads = a.Heads
			r.parentsRange = a.ParentsRange
			return
		}
	}
	r.filters = append(r.filters, e)
}

func toFilteredRange(e revset.Expression) (*filteredRange, bool) {
	switch e := e.(type) {
	case *revset.Ancestors:
		if e.Generation.IsFull() {
			return &filteredRange{roots: &revset.None{}, heads: e.Heads, parentsRange: e.ParentsRange}, true
		}
	case *revset.Range:
		if e.Generation.IsFull() {
			return &filteredRange{roots: e.Roots, heads: e.Heads, parentsRange: e.ParentsRange}, true
		}
	case *revset.Filter, *revset.AsFilter:
		return &filteredRange{roots: &revset.None{}, parentsRange: revset.FullParents, filters: []revset.Expression{e}}, true
	case *revset.Intersection:
		r, ok := toFilteredRange(e.Terms[0])
		if !ok {
			return nil, false
		}
		for _, term := range e.Terms[1:] {
			r.add(term)
		}
		return r, true
	case *revset.Difference:
		r, ok := toFilteredRange(e.Left)
		if !ok {
			return nil, false
		}
		r.add(&revset.NotIn{Complement: e.Right})
		return r, true
	}
	return nil, false
}

// foldHeadsRange fuses heads() over a range, optionally filtered, into a
// single HeadsRange traversal.
func foldHeadsRange(e revset.Expression) revset.Expression {
	h, ok := e.(*revset.Heads)
	if !ok {
		return e
	}
	r, ok := toFilteredRange(h.Candidates)
	if !ok {
		return e
	}
	heads := r.heads
	if heads == nil {
		heads = &revset.VisibleHeads{}
	}
	fused := &revset.HeadsRange{Roots: r.roots, Heads: heads, ParentsRange: r.parentsRange}
	switch len(r.filters) {
	case 0:
	case 1:
		fused.Filter = r.filters[0]
	default:
		fused.Filter = &revset.Intersection{Terms: r.filters}
	}
	return fused
}
