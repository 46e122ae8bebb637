package theme

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

type (
	themeAlias Theme
	styleAlias Style
	skyAlias   Sky
)

// UnmarshalJSON decodes a theme document, keeping unknown fields in Extra.
func (t *Theme) UnmarshalJSON(data []byte) error {
	var a themeAlias
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.URL = t.URL
	a.Extra = extra
	*t = Theme(a)
	return nil
}

// MarshalJSON encodes the theme with its unknown fields.
func (t Theme) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(themeAlias(t), t.Extra)
}

// UnmarshalJSON decodes a style, keeping unknown fields in Extra.
func (s *Style) UnmarshalJSON(data []byte) error {
	var a styleAlias
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.Extra = extra
	*s = Style(a)
	return nil
}

// MarshalJSON encodes the style with its unknown fields.
func (s Style) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(styleAlias(s), s.Extra)
}

// UnmarshalJSON decodes a sky description, keeping unknown fields in Extra.
func (s *Sky) UnmarshalJSON(data []byte) error {
	var a skyAlias
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	a.Extra = extra
	*s = Sky(a)
	return nil
}

// MarshalJSON encodes the sky with its unknown fields.
func (s Sky) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(skyAlias(s), s.Extra)
}

// UnmarshalJSON accepts a URL string or an embedded theme object.
func (e *Extends) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*e = Extends{}
		return json.Unmarshal(data, &e.URL)
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*e = Extends{Theme: &t}
	return nil
}

// MarshalJSON writes the URL or the embedded theme.
func (e Extends) MarshalJSON() ([]byte, error) {
	if e.Theme != nil {
		return json.Marshal(e.Theme)
	}
	return json.Marshal(e.URL)
}

type boxedDefinition struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Value       any    `json:"value"`
}

// UnmarshalJSON classifies a definition as a style, boxed value or literal.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil && fields != nil {
		if _, ok := fields["technique"]; ok {
			var s Style
			if err := json.Unmarshal(data, &s); err != nil {
				return err
			}
			*d = Definition{Kind: StyleDefinition, Style: &s, Description: s.Description}
			return nil
		}
		if raw, ok := fields["value"]; ok {
			if isStyleObject(raw) {
				var s Style
				if err := json.Unmarshal(raw, &s); err != nil {
					return err
				}
				var desc string
				_ = json.Unmarshal(fields["description"], &desc)
				*d = Definition{Kind: StyleDefinition, Style: &s, Description: desc, boxed: true}
				return nil
			}
			var b boxedDefinition
			if err := json.Unmarshal(data, &b); err != nil {
				return err
			}
			*d = Definition{Kind: ValueDefinition, Type: b.Type, Description: b.Description, Value: b.Value, boxed: true}
			return nil
		}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Literal(v)
	return nil
}

// MarshalJSON writes the definition in the form it was read.
func (d Definition) MarshalJSON() ([]byte, error) {
	switch {
	case d.Kind == StyleDefinition && d.Style != nil:
		if d.boxed {
			return json.Marshal(struct {
				Description string `json:"description,omitempty"`
				Value       *Style `json:"value"`
			}{d.Description, d.Style})
		}
		return json.Marshal(d.Style)
	case d.boxed:
		return json.Marshal(boxedDefinition{Type: d.Type, Description: d.Description, Value: d.Value})
	default:
		return json.Marshal(d.Value)
	}
}

func isStyleObject(raw json.RawMessage) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return false
	}
	_, ok := m["technique"]
	return ok
}

// decodeWithExtra unmarshals data into v (a pointer to a struct) and returns
// the top-level object keys that none of v's json tags name.
func decodeWithExtra(data []byte, v any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, name := range jsonFieldNames(reflect.TypeOf(v).Elem()) {
		delete(all, name)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// encodeWithExtra marshals v and adds the extra keys it does not already set.
func encodeWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := all[k]; !ok {
			all[k] = raw
		}
	}
	return json.Marshal(all)
}

func jsonFieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
