package technique

import (
	"slices"
	"sort"
)

// GeometryKindSet is a set of geometry kinds ("road", "building", ...).
// Techniques tag their geometry with it; views enable and disable
// techniques by it.
type GeometryKindSet map[string]struct{}

// NewKindSet returns a set holding kinds.
func NewKindSet(kinds ...string) GeometryKindSet {
	s := make(GeometryKindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// ParseKindSet normalizes a technique's "kind" attribute, which may be a
// string, a list of strings or a set, into a GeometryKindSet. Other inputs
// yield an empty set.
func ParseKindSet(v any) GeometryKindSet {
	switch v := v.(type) {
	case GeometryKindSet:
		return v
	case string:
		if v == "" {
			return nil
		}
		return NewKindSet(v)
	case []string:
		return NewKindSet(v...)
	case []any:
		s := make(GeometryKindSet, len(v))
		for _, e := range v {
			if k, ok := e.(string); ok {
				s[k] = struct{}{}
			}
		}
		return s
	}
	return nil
}

// Has reports whether kind is in the set.
func (s GeometryKindSet) Has(kind string) bool {
	_, ok := s[kind]
	return ok
}

// Intersects reports whether the sets share a kind.
func (s GeometryKindSet) Intersects(other GeometryKindSet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for k := range small {
		if large.Has(k) {
			return true
		}
	}
	return false
}

// Slice returns the kinds in sorted order.
func (s GeometryKindSet) Slice() []string {
	ks := make([]string, 0, len(s))
	for k := range s {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Equal reports whether both sets hold the same kinds.
func (s GeometryKindSet) Equal(other GeometryKindSet) bool {
	return slices.Equal(s.Slice(), other.Slice())
}
