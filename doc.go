// Package mapview is the core of a 3D map renderer: it resolves map themes
// and turns decoded vector tiles into renderable objects and labels.
//
// # Overview
//
// A View owns the resolved theme and everything derived from it: compiled
// techniques, text style caches, the shader cache and the geometry creator.
// Tiles are built one at a time on the caller's goroutine.
//
//	v := mapview.New(mapview.WithBackground())
//	if _, err := v.LoadTheme(ctx, theme.FromURL("themes/day.json")); err != nil {
//	    log.Fatal(err)
//	}
//
//	t := v.NewTile("osm", maptile.New(4823, 6160, 14))
//	v.BuildTile(t, decodedTile)
//	for _, o := range t.Objects() {
//	    // hand o to the rendering backend
//	}
//
// # Packages
//
//   - theme: theme documents, loading, inheritance and reference expansion
//   - technique: technique kinds, zoom-dependent attributes, enable states
//   - decoded: the decoded tile input
//   - geometry: object creation from decoded tiles
//   - label: text elements, path splitting and measurement
//   - style: text style caches
//   - render: objects, materials and animations handed to the backend
//   - tile: per-tile state
//
// # Logging
//
// Nothing is logged by default. SetLogger enables structured logging for
// every package.
package mapview
