package revset

import (
	"math"
	"strconv"
)

// GenerationRange is a half-open range of generations counted from the
// starting commits, e.g. [1, 2) selects direct parents.
type GenerationRange struct {
	Start uint64
	End   uint64
}

// ParentsRange is a half-open range of parent indices that traversal may
// follow, e.g. [0, 1) follows first parents only.
type ParentsRange struct {
	Start uint32
	End   uint32
}

var (
	// FullGeneration places no bound on traversal depth.
	FullGeneration = GenerationRange{0, math.MaxUint64}
	// EmptyGeneration selects nothing.
	EmptyGeneration = GenerationRange{0, 0}
	// FullParents follows every parent.
	FullParents = ParentsRange{0, math.MaxUint32}
	// MergeParents is the parent-count range matched by merges().
	MergeParents = ParentsRange{2, math.MaxUint32}
)

// GenerationAt selects exactly one generation.
func GenerationAt(depth uint64) GenerationRange {
	return GenerationRange{depth, saturatingAdd(depth, 1)}
}

// IsFull reports whether the range places no bound.
func (g GenerationRange) IsFull() bool { return g == FullGeneration }

// IsEmpty reports whether the range selects nothing.
func (g GenerationRange) IsEmpty() bool { return g.Start >= g.End }

// Span is the number of generations the range covers.
func (g GenerationRange) Span() uint64 {
	if g.IsEmpty() {
		return 0
	}
	return g.End - g.Start
}

// Add composes two traversals: walking g2 generations then g1 more.
// Unbounded ends stay unbounded.
func (g GenerationRange) Add(other GenerationRange) GenerationRange {
	if g.IsEmpty() || other.IsEmpty() {
		return EmptyGeneration
	}
	start := saturatingAdd(g.Start, other.Start)
	end := uint64(math.MaxUint64)
	if g.End != math.MaxUint64 && other.End != math.MaxUint64 {
		end = saturatingAdd(g.End, other.End) - 1
	}
	return GenerationRange{start, end}
}

func (g GenerationRange) String() string {
	return formatRange(g.Start, g.End, 0, math.MaxUint64)
}

// IsFull reports whether every parent is followed.
func (p ParentsRange) IsFull() bool { return p == FullParents }

func (p ParentsRange) String() string {
	return formatRange(uint64(p.Start), uint64(p.End), 0, math.MaxUint32)
}

// formatRange renders a half-open range compactly: a single value as
// "n", an unbounded range as "n..", otherwise "start..end". The full range
// renders as "" since it is never shown.
func formatRange(start, end, fullStart, fullEnd uint64) string {
	switch {
	case start == fullStart && end == fullEnd:
		return ""
	case start >= end:
		return "empty range"
	case end-start == 1:
		return strconv.FormatUint(start, 10)
	case end == fullEnd:
		return strconv.FormatUint(start, 10) + ".."
	default:
		return strconv.FormatUint(start, 10) + ".." + strconv.FormatUint(end, 10)
	}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
