package theme

import "context"

// refKey is the object key that marks a reference to a definition.
const refKey = "$ref"

// ExpandReferences resolves t's base themes and returns a copy of t in which
// every "$ref" is expanded:
//
//   - a style that is a "$ref" to a style definition becomes a deep copy of
//     the definition with the style's own fields laid over it;
//   - an attribute that is a "$ref" to a value definition becomes the
//     definition's value.
//
// A style referencing a missing or value definition is left unexpanded in
// its slot, which compiles to an inert technique; an attribute referencing
// a missing or style definition is deleted. In strict mode both cases fail
// with a *ReferenceError instead.
func (l *Loader) ExpandReferences(ctx context.Context, t *Theme) (*Theme, error) {
	t, err := l.resolveBaseTheme(ctx, t, l.opts.maxDepth)
	if err != nil {
		return nil, err
	}
	return l.expandReferences(t)
}

func (l *Loader) expandReferences(t *Theme) (*Theme, error) {
	out := t.shallowClone()
	for _, name := range sortedKeys(t.Styles) {
		set, err := l.expandStyleSet(name, t.Styles[name], t.Definitions)
		if err != nil {
			return nil, err
		}
		out.Styles[name] = set
	}
	return out, nil
}

func (l *Loader) expandStyleSet(name string, set StyleSet, defs map[string]Definition) (StyleSet, error) {
	out := make(StyleSet, 0, len(set))
	for i, s := range set {
		if s.Ref != "" {
			def, ok := defs[s.Ref]
			reason := ""
			switch {
			case !ok:
				reason = "definition not found"
			case def.Kind != StyleDefinition || def.Style == nil:
				reason = "expected a style definition"
			}
			if reason != "" {
				if err := l.badRef(name, i, "", s.Ref, reason); err != nil {
					return nil, err
				}
				// The entry keeps its slot so later style indices stay put.
				out = append(out, s.Clone())
				continue
			}
			s = overlayStyle(def.Style.Clone(), s)
		} else {
			s = s.Clone()
		}

		for key, v := range s.Attr {
			ref, ok := refName(v)
			if !ok {
				continue
			}
			value, reason := resolveValue(ref, defs)
			if reason != "" {
				if err := l.badRef(name, i, key, ref, reason); err != nil {
					return nil, err
				}
				delete(s.Attr, key)
				continue
			}
			s.Attr[key] = value
		}
		out = append(out, s)
	}
	return out, nil
}

// badRef reports a malformed reference: an error in strict mode, a debug log
// line otherwise.
func (l *Loader) badRef(set string, index int, attr, ref, reason string) error {
	if l.opts.strict {
		return &ReferenceError{StyleSet: set, Index: index, Attr: attr, Ref: ref, Reason: reason}
	}
	l.logger().Debug("theme: dropped reference", "styleSet", set, "index", index, "attr", attr, "ref", ref, "reason", reason)
	return nil
}

// overlayStyle lays the fields set on entry over base. The entry's "$ref"
// is consumed.
func overlayStyle(base, entry Style) Style {
	out := base
	out.Ref = ""
	if entry.ID != "" {
		out.ID = entry.ID
	}
	if entry.Description != "" {
		out.Description = entry.Description
	}
	if entry.Technique != "" {
		out.Technique = entry.Technique
	}
	if entry.When != nil {
		out.When = cloneValue(entry.When)
	}
	if entry.Layer != "" {
		out.Layer = entry.Layer
	}
	if entry.RenderOrder != nil {
		ro := *entry.RenderOrder
		out.RenderOrder = &ro
	}
	if entry.Attr != nil {
		out.Attr = cloneValue(entry.Attr).(map[string]any)
	}
	if entry.Extra != nil {
		out.Extra = mergeMaps(out.Extra, cloneRaw(entry.Extra))
	}
	return out
}

// refName reports whether v is a {"$ref": name} object.
func refName(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := m[refKey].(string)
	return name, ok
}

// resolveValue follows a chain of value definitions to a concrete value. It
// returns a non-empty reason when the chain is broken.
func resolveValue(ref string, defs map[string]Definition) (any, string) {
	seen := make(map[string]bool)
	for {
		if seen[ref] {
			return nil, "reference cycle"
		}
		seen[ref] = true

		def, ok := defs[ref]
		if !ok {
			return nil, "definition not found"
		}
		if def.Kind != ValueDefinition {
			return nil, "expected a value definition"
		}
		next, isRef := refName(def.Value)
		if !isRef {
			return cloneValue(def.Value), ""
		}
		ref = next
	}
}
