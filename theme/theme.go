// Package theme loads map themes and resolves them into flat style sets.
//
// A theme is a JSON document with named style sets, reusable definitions,
// resources (images, font catalogs, POI tables, sky) and an optional parent
// theme named by "extends". Loading a theme
//
//  1. fetches and parses the document,
//  2. rewrites relative resource URLs against the theme's own URL,
//  3. merges the chain of base themes (child keys override parent keys),
//  4. expands "$ref" references to definitions.
//
// Resolution is pure: every step returns a new Theme and leaves its input
// untouched, so one base theme may back several children at once.
package theme

import "encoding/json"

// DefaultMaxInheritanceDepth is the number of "extends" links a theme chain
// may have before loading fails with a DepthExceededError.
const DefaultMaxInheritanceDepth = 4

// Theme is a map theme document.
//
// Fields the package does not interpret are kept in Extra and written back
// unchanged by MarshalJSON.
type Theme struct {
	// URL is the absolute URL the theme was loaded from. It is not part of
	// the document; relative resources resolve against it.
	URL string `json:"-"`

	Extends          *Extends              `json:"extends,omitempty"`
	Definitions      map[string]Definition `json:"definitions,omitempty"`
	Styles           map[string]StyleSet   `json:"styles,omitempty"`
	Images           map[string]Image      `json:"images,omitempty"`
	FontCatalogs     []FontCatalog         `json:"fontCatalogs,omitempty"`
	PoiTables        []PoiTable            `json:"poiTables,omitempty"`
	Sky              *Sky                  `json:"sky,omitempty"`
	Clear            string                `json:"clearColor,omitempty"`
	DefaultTextStyle TextStyle             `json:"defaultTextStyle,omitempty"`
	TextStyles       []TextStyle           `json:"textStyles,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Extends names the parent of a theme: a URL or an embedded theme.
type Extends struct {
	URL   string
	Theme *Theme
}

// StyleSet is an ordered list of styles. A style's index is its technique
// style index.
type StyleSet []Style

// Style selects features and names the technique that renders them.
type Style struct {
	ID          string         `json:"id,omitempty"`
	Description string         `json:"description,omitempty"`
	Technique   string         `json:"technique,omitempty"`
	When        any            `json:"when,omitempty"`
	Layer       string         `json:"layer,omitempty"`
	RenderOrder *float64       `json:"renderOrder,omitempty"`
	Ref         string         `json:"$ref,omitempty"`
	Attr        map[string]any `json:"attr,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// DefinitionKind tells value definitions from style definitions.
type DefinitionKind uint8

const (
	// ValueDefinition is a primitive, expression or interpolated value.
	ValueDefinition DefinitionKind = iota
	// StyleDefinition is a reusable style fragment.
	StyleDefinition
)

func (k DefinitionKind) String() string {
	if k == StyleDefinition {
		return "style"
	}
	return "value"
}

// Definition is a named entry of a theme's "definitions" table.
//
// Value definitions are written either as a literal ("#f00", 12, an
// interpolation object) or boxed as {"type": ..., "value": ...}. Style
// definitions are objects with a "technique" key.
type Definition struct {
	Kind        DefinitionKind
	Type        string // boxed value type, e.g. "color" or "number"
	Description string
	Value       any    // value definitions
	Style       *Style // style definitions

	boxed bool
}

// Literal returns a literal value definition.
func Literal(v any) Definition {
	return Definition{Kind: ValueDefinition, Value: v}
}

// Boxed returns a value definition written as {"type": typ, "value": v}.
func Boxed(typ string, v any) Definition {
	return Definition{Kind: ValueDefinition, Type: typ, Value: v, boxed: true}
}

// StyleDef returns a style definition.
func StyleDef(s Style) Definition {
	return Definition{Kind: StyleDefinition, Style: &s}
}

// Image is an image resource. Atlas optionally points to a sprite atlas
// description.
type Image struct {
	URL     string `json:"url"`
	Preload bool   `json:"preload,omitempty"`
	Atlas   string `json:"atlas,omitempty"`
}

// FontCatalog references a font catalog description.
type FontCatalog struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PoiTable references a POI table.
type PoiTable struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	UseAsDefault bool   `json:"useAsDefault,omitempty"`
}

// SkyCubemap is the sky type whose faces are image URLs.
const SkyCubemap = "cubemap"

// Sky describes the sky box. Face URLs are used when Type is "cubemap".
type Sky struct {
	Type      string `json:"type"`
	PositiveX string `json:"positiveX,omitempty"`
	NegativeX string `json:"negativeX,omitempty"`
	PositiveY string `json:"positiveY,omitempty"`
	NegativeY string `json:"negativeY,omitempty"`
	PositiveZ string `json:"positiveZ,omitempty"`
	NegativeZ string `json:"negativeZ,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// faces returns pointers to the cubemap face URLs.
func (s *Sky) faces() []*string {
	return []*string{&s.PositiveX, &s.NegativeX, &s.PositiveY, &s.NegativeY, &s.PositiveZ, &s.NegativeZ}
}

// TextStyle is a named set of text style attributes ("color", "size",
// "fontName", ...). The default text style has no name.
type TextStyle map[string]any

// Name returns the style's "name" attribute.
func (s TextStyle) Name() string {
	n, _ := s["name"].(string)
	return n
}

// TextStyle returns the text style with the given name.
func (t *Theme) TextStyle(name string) (TextStyle, bool) {
	for _, s := range t.TextStyles {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// StyleSetNames returns the names of the theme's style sets in sorted order.
func (t *Theme) StyleSetNames() []string {
	return sortedKeys(t.Styles)
}
