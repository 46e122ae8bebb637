package theme

import "net/url"

// textureAttrs are style attributes holding texture URLs.
var textureAttrs = [...]string{"map", "normalMap", "displacementMap", "roughnessMap"}

// ResolveURLs returns a copy of t whose relative resource URLs are resolved
// against t.URL: sky cubemap faces, images and their atlases, font catalogs,
// POI tables and the texture attributes of every style.
//
// Without a recorded URL, t is returned as is: its URLs are taken to be
// absolute or relative to the embedding page.
func ResolveURLs(t *Theme) *Theme {
	if t == nil || t.URL == "" {
		return t
	}
	base, err := url.Parse(t.URL)
	if err != nil {
		return t
	}
	resolve := func(ref string) string {
		if ref == "" {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return base.ResolveReference(r).String()
	}

	out := t.shallowClone()

	if out.Sky != nil && out.Sky.Type == SkyCubemap {
		for _, face := range out.Sky.faces() {
			*face = resolve(*face)
		}
	}
	for name, img := range out.Images {
		img.URL = resolve(img.URL)
		img.Atlas = resolve(img.Atlas)
		out.Images[name] = img
	}
	for i := range out.FontCatalogs {
		out.FontCatalogs[i].URL = resolve(out.FontCatalogs[i].URL)
	}
	for i := range out.PoiTables {
		out.PoiTables[i].URL = resolve(out.PoiTables[i].URL)
	}
	for name, set := range out.Styles {
		out.Styles[name] = resolveStyleSetURLs(set, resolve)
	}
	return out
}

// resolveStyleSetURLs copies set only when a texture attribute changes.
func resolveStyleSetURLs(set StyleSet, resolve func(string) string) StyleSet {
	var out StyleSet
	for i, s := range set {
		var attr map[string]any
		for _, key := range textureAttrs {
			ref, ok := s.Attr[key].(string)
			if !ok {
				continue
			}
			abs := resolve(ref)
			if abs == ref {
				continue
			}
			if attr == nil {
				attr = make(map[string]any, len(s.Attr))
				for k, v := range s.Attr {
					attr[k] = v
				}
			}
			attr[key] = abs
		}
		if attr == nil {
			continue
		}
		if out == nil {
			out = append(StyleSet(nil), set...)
		}
		out[i].Attr = attr
	}
	if out == nil {
		return set
	}
	return out
}
