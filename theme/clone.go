package theme

import (
	"encoding/json"
	"maps"
)

// cloneValue deep-copies JSON-shaped values (maps, slices, scalars).
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// Clone returns a deep copy of the style.
func (s Style) Clone() Style {
	c := s
	c.When = cloneValue(s.When)
	if s.Attr != nil {
		c.Attr = cloneValue(s.Attr).(map[string]any)
	}
	if s.RenderOrder != nil {
		ro := *s.RenderOrder
		c.RenderOrder = &ro
	}
	c.Extra = cloneRaw(s.Extra)
	return c
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	c := d
	c.Value = cloneValue(d.Value)
	if d.Style != nil {
		s := d.Style.Clone()
		c.Style = &s
	}
	return c
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	c := make(map[string]json.RawMessage, len(m))
	for k, raw := range m {
		c[k] = append(json.RawMessage(nil), raw...)
	}
	return c
}

// shallowClone copies the theme's top-level containers so that replacing
// entries in the copy never touches t. Entries themselves are shared.
func (t *Theme) shallowClone() *Theme {
	c := *t
	c.Definitions = maps.Clone(t.Definitions)
	c.Styles = maps.Clone(t.Styles)
	c.Images = maps.Clone(t.Images)
	c.FontCatalogs = append([]FontCatalog(nil), t.FontCatalogs...)
	c.PoiTables = append([]PoiTable(nil), t.PoiTables...)
	c.TextStyles = append([]TextStyle(nil), t.TextStyles...)
	c.Extra = maps.Clone(t.Extra)
	if t.Sky != nil {
		sky := *t.Sky
		c.Sky = &sky
	}
	if t.Extends != nil {
		ext := *t.Extends
		c.Extends = &ext
	}
	return &c
}
