package decoded

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gogpu/mapview/technique"
)

// Decode reads a decoded tile from its JSON form. Buffers are either
// base64 strings under "buffer" or plain number arrays under "values".
func Decode(r io.Reader) (*Tile, error) {
	var t Tile
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoded: %w", err)
	}
	return &t, nil
}

type jsonTile struct {
	Techniques         []map[string]any   `json:"techniques"`
	Geometries         []jsonGeometry     `json:"geometries"`
	TextPathGeometries []TextPathGeometry `json:"textPathGeometries"`
	TextGeometries     []TextGeometry     `json:"textGeometries"`
	PoiGeometries      []PoiGeometry      `json:"poiGeometries"`
}

type jsonGeometry struct {
	Type             string            `json:"type"`
	VertexAttributes []BufferAttribute `json:"vertexAttributes"`
	Index            *BufferAttribute  `json:"index"`
	EdgeIndex        *BufferAttribute  `json:"edgeIndex"`
	Groups           []Group           `json:"groups"`
	FeatureIDs       []uint64          `json:"featureIds"`
	FeatureStarts    []int             `json:"featureStarts"`
}

// UnmarshalJSON decodes a tile and parses its techniques. Technique
// indices are their positions in the list.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var j jsonTile
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	t.Techniques = make([]*technique.Technique, len(j.Techniques))
	for i, m := range j.Techniques {
		tech, err := technique.Parse(m)
		if err != nil {
			return fmt.Errorf("technique %d: %w", i, err)
		}
		tech.Index = i
		t.Techniques[i] = tech
	}
	t.Geometries = make([]Geometry, len(j.Geometries))
	for i, g := range j.Geometries {
		typ, ok := geometryTypeNames[g.Type]
		if !ok && g.Type != "" {
			return fmt.Errorf("geometry %d: unknown type %q", i, g.Type)
		}
		t.Geometries[i] = Geometry{
			Type:             typ,
			VertexAttributes: g.VertexAttributes,
			Index:            g.Index,
			EdgeIndex:        g.EdgeIndex,
			Groups:           g.Groups,
			FeatureIDs:       g.FeatureIDs,
			FeatureStarts:    g.FeatureStarts,
		}
	}
	t.TextPathGeometries = j.TextPathGeometries
	t.TextGeometries = j.TextGeometries
	t.PoiGeometries = j.PoiGeometries
	return nil
}

type jsonGroup struct {
	Technique         int     `json:"technique"`
	Start             int     `json:"start"`
	Count             int     `json:"count"`
	RenderOrderOffset float64 `json:"renderOrderOffset"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var j jsonGroup
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.Start < 0 || j.Count < 0 {
		return fmt.Errorf("group range [%d,+%d) is negative", j.Start, j.Count)
	}
	*g = Group(j)
	return nil
}

type jsonBuffer struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	ItemCount  int       `json:"itemCount"`
	Normalized bool      `json:"normalized"`
	Buffer     []byte    `json:"buffer"`
	Values     []float64 `json:"values"`
}

func (b *BufferAttribute) UnmarshalJSON(data []byte) error {
	var j jsonBuffer
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	typ := Float32
	if j.Type != "" {
		var ok bool
		if typ, ok = elementTypeNames[j.Type]; !ok {
			return fmt.Errorf("%w: element type %q", ErrUnsupportedBuffer, j.Type)
		}
	}
	buf := j.Buffer
	if buf == nil && j.Values != nil {
		buf = encodeValues(typ, j.Values)
	}
	if len(buf)%typ.Size() != 0 {
		return fmt.Errorf("%w: %q length %d not a multiple of %d", ErrUnsupportedBuffer, j.Name, len(buf), typ.Size())
	}
	*b = BufferAttribute{
		Name:       j.Name,
		Type:       typ,
		ItemCount:  j.ItemCount,
		Normalized: j.Normalized,
		Buffer:     buf,
	}
	return nil
}

type jsonTextPath struct {
	Technique int       `json:"technique"`
	Path      []float64 `json:"path"`
	Text      string    `json:"text"`
	FeatureID uint64    `json:"featureId"`
}

func (g *TextPathGeometry) UnmarshalJSON(data []byte) error {
	var j jsonTextPath
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if len(j.Path)%3 != 0 {
		return fmt.Errorf("text path %q: %d coordinates is not a multiple of 3", j.Text, len(j.Path))
	}
	*g = TextPathGeometry(j)
	return nil
}

type jsonText struct {
	Technique     int             `json:"technique"`
	Positions     BufferAttribute `json:"positions"`
	Texts         []int           `json:"texts"`
	StringCatalog []string        `json:"stringCatalog"`
	FeatureIDs    []uint64        `json:"featureIds"`
	ImageTextures []int           `json:"imageTextures"`
	ImageCatalog  []string        `json:"imageCatalog"`
}

func (g *TextGeometry) UnmarshalJSON(data []byte) error {
	var j jsonText
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*g = j.text()
	return nil
}

func (g *PoiGeometry) UnmarshalJSON(data []byte) error {
	var j jsonText
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*g = PoiGeometry{TextGeometry: j.text(), ImageTextures: j.ImageTextures, ImageCatalog: j.ImageCatalog}
	return nil
}

func (j *jsonText) text() TextGeometry {
	return TextGeometry{
		Technique:     j.Technique,
		Positions:     j.Positions,
		Texts:         j.Texts,
		StringCatalog: j.StringCatalog,
		FeatureIDs:    j.FeatureIDs,
	}
}
