package technique

// EnableState is the memoized enabled state of a technique within one
// decoded tile.
type EnableState uint8

const (
	Unevaluated EnableState = iota
	Enabled
	Disabled
)

func (s EnableState) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unevaluated"
	}
}

// EnableTable records, per technique index, whether a technique renders.
// It lives beside the techniques of one decoded tile instead of on the
// shared technique values.
type EnableTable struct {
	states []EnableState
}

// NewEnableTable returns a table for n techniques, all unevaluated.
func NewEnableTable(n int) *EnableTable {
	return &EnableTable{states: make([]EnableState, n)}
}

// Evaluate computes the state of every unevaluated technique. States set
// by an earlier call are kept, so evaluating twice is a no-op.
//
// A technique without geometry kinds is always enabled. Otherwise it is
// enabled unless disabledKinds matches it, and enabledKinds matching it
// overrides a disable.
func (e *EnableTable) Evaluate(techniques []*Technique, enabledKinds, disabledKinds GeometryKindSet) {
	if len(e.states) < len(techniques) {
		e.states = append(e.states, make([]EnableState, len(techniques)-len(e.states))...)
	}
	for i, t := range techniques {
		if e.states[i] != Unevaluated || t == nil {
			continue
		}
		if isEnabled(t.GeometryKind, enabledKinds, disabledKinds) {
			e.states[i] = Enabled
		} else {
			e.states[i] = Disabled
		}
	}
}

func isEnabled(kind, enabledKinds, disabledKinds GeometryKindSet) bool {
	if len(kind) == 0 {
		return true
	}
	return !kind.Intersects(disabledKinds) || kind.Intersects(enabledKinds)
}

// State returns the state of technique i.
func (e *EnableTable) State(i int) EnableState {
	if i < 0 || i >= len(e.states) {
		return Unevaluated
	}
	return e.states[i]
}

// Enabled reports whether technique i was evaluated as enabled.
func (e *EnableTable) Enabled(i int) bool {
	return e.State(i) == Enabled
}

// Len returns the number of techniques the table covers.
func (e *EnableTable) Len() int { return len(e.states) }
