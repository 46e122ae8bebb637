package geometry

import "github.com/gogpu/mapview/decoded"

// Range is a draw range built from one or more consecutive groups.
type Range struct {
	Technique         int
	Start             int
	Count             int
	RenderOrderOffset float64
	// First and Last are the indices of the merged groups, inclusive.
	First, Last int
}

// CompressGroups merges consecutive groups that use the same technique and
// render order offset and whose index ranges touch. Groups for which skip
// returns true are left out and end any merge in progress. skip may be nil.
func CompressGroups(groups []decoded.Group, skip func(i int) bool) []Range {
	var out []Range
	for i := 0; i < len(groups); i++ {
		if skip != nil && skip(i) {
			continue
		}
		g := groups[i]
		r := Range{
			Technique:         g.Technique,
			Start:             g.Start,
			Count:             g.Count,
			RenderOrderOffset: g.RenderOrderOffset,
			First:             i,
			Last:              i,
		}
		for i+1 < len(groups) {
			next := groups[i+1]
			if next.Technique != r.Technique || next.Start != r.Start+r.Count ||
				next.RenderOrderOffset != r.RenderOrderOffset || (skip != nil && skip(i+1)) {
				break
			}
			r.Count += next.Count
			i++
			r.Last = i
		}
		out = append(out, r)
	}
	return out
}
