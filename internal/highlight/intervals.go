package highlight

import (
	"slices"
	"sort"

	"codeview/internal/token"
)

// intervalSet is a sorted list of disjoint, non-adjacent half-open ranges.
type intervalSet []token.Range

func newIntervalSet(ranges []token.Range) intervalSet {
	if len(ranges) == 0 {
		return nil
	}

	clean := make([]token.Range, 0, len(ranges))
	for _, r := range ranges {
		r.Start = max(r.Start, 0)
		if r.End <= r.Start {
			continue
		}
		clean = append(clean, r)
	}
	slices.SortFunc(clean, func(a, b token.Range) int { return a.Start - b.Start })

	merged := clean[:0]
	for _, r := range clean {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return intervalSet(merged)
}

func (s intervalSet) empty() bool { return len(s) == 0 }

// find returns the index of the first interval ending after p.
func (s intervalSet) find(p int) int {
	return sort.Search(len(s), func(i int) bool { return s[i].End > p })
}

func (s intervalSet) contains(p int) bool {
	i := s.find(p)
	return i < len(s) && s[i].Start <= p
}

// uniform reports whether every byte of [start, end) has the same membership,
// and what it is.
func (s intervalSet) uniform(start int, end int) (bool, bool) {
	if end <= start {
		return false, true
	}
	i := s.find(start)
	if i == len(s) || s[i].Start >= end {
		return false, true
	}
	if s[i].Start <= start && s[i].End >= end {
		return true, true
	}
	return false, false
}
