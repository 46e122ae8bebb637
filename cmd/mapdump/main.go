// Command mapdump builds one tile against a theme and prints the render
// objects and labels it produces.
//
// Decoded tiles are read from a JSON file or from an MBTiles database:
//
//	mapdump -theme day.json -tile 14_8529_5975.json -key 14/8529/5975
//	mapdump -theme day.json -mbtiles osm.mbtiles -key 14/8529/5975
//	mapdump -mbtiles osm.mbtiles -tile 14_8529_5975.json -key 14/8529/5975 -put
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview"
	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/theme"
	"github.com/gogpu/mapview/tilestore"
)

func main() {
	var (
		themePath  = flag.String("theme", "", "theme file")
		tilePath   = flag.String("tile", "", "decoded tile JSON file")
		storePath  = flag.String("mbtiles", "", "MBTiles database of decoded tiles")
		keyFlag    = flag.String("key", "0/0/0", "tile key as z/x/y")
		dataSource = flag.String("datasource", "osm", "data source name")
		styleSet   = flag.String("styleset", "", "style set providing techniques for tiles without them")
		disabled   = flag.String("disable", "", "comma-separated geometry kinds to hide")
		background = flag.Bool("background", false, "add a background plane")
		put        = flag.Bool("put", false, "store -tile in -mbtiles under -key and exit")
		verbose    = flag.Bool("v", false, "log skipped geometry and theme warnings")
	)
	flag.Parse()

	if *verbose {
		mapview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	key, err := parseKey(*keyFlag)
	if err != nil {
		log.Fatalf("Invalid key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *put {
		if err := putTile(ctx, *storePath, *tilePath, key); err != nil {
			log.Fatalf("Failed to store tile: %v", err)
		}
		log.Printf("Stored %s as %s in %s\n", *tilePath, *keyFlag, *storePath)
		return
	}

	var opts []mapview.Option
	if *disabled != "" {
		opts = append(opts, mapview.WithDisabledKinds(strings.Split(*disabled, ",")...))
	}
	if *background {
		opts = append(opts, mapview.WithBackground())
	}
	v := mapview.New(opts...)
	defer v.Close()

	if *themePath != "" {
		abs, err := filepath.Abs(*themePath)
		if err != nil {
			log.Fatalf("Invalid theme path: %v", err)
		}
		if _, err := v.LoadTheme(ctx, theme.FromURL("file://"+filepath.ToSlash(abs))); err != nil {
			log.Fatalf("Failed to load theme: %v", err)
		}
	}

	d, err := readTile(ctx, *storePath, *tilePath, key)
	if err != nil {
		log.Fatalf("Failed to read tile: %v", err)
	}
	if len(d.Techniques) == 0 && *styleSet != "" {
		techs, err := v.Techniques(*styleSet)
		if err != nil {
			log.Printf("Style set %s: %v\n", *styleSet, err)
		}
		d.Techniques = techs
	}

	t := v.NewTile(*dataSource, key)
	if err := v.BuildTiles(ctx, mapview.Build{Tile: t, Data: d}); err != nil {
		log.Fatalf("Failed to build tile: %v", err)
	}

	fmt.Printf("tile %s/%d/%d/%d: %d objects, %d labels\n",
		t.DataSource(), key.Z, key.X, key.Y, len(t.Objects()), len(t.TextElements()))
	for _, o := range t.Objects() {
		c := o.Material.ShaderColor()
		fmt.Printf("  %-40s order=%-8g range=%d+%d color=%.3f\n",
			o, o.RenderOrder, o.Start, o.Count, c)
	}
	for _, e := range t.TextElements() {
		kind := "point"
		if e.IsPath() {
			kind = "path"
		}
		fmt.Printf("  label %-5s %q priority=%g width=%g zoom=[%g,%g]\n",
			kind, e.Text, e.Priority, e.Width, e.MinZoomLevel, e.MaxZoomLevel)
	}
	if t.Animating() {
		fmt.Println("  extrusion animation pending")
	}
}

func parseKey(s string) (maptile.Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return maptile.Tile{}, fmt.Errorf("%q is not z/x/y", s)
	}
	var n [3]uint32
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return maptile.Tile{}, fmt.Errorf("%q: %w", s, err)
		}
		n[i] = uint32(v)
	}
	if n[0] > 32 || uint64(n[1]) >= 1<<n[0] || uint64(n[2]) >= 1<<n[0] {
		return maptile.Tile{}, fmt.Errorf("%q is outside the tile pyramid", s)
	}
	return maptile.New(n[1], n[2], maptile.Zoom(n[0])), nil
}

func readTile(ctx context.Context, storePath, tilePath string, key maptile.Tile) (*decoded.Tile, error) {
	if tilePath != "" {
		data, err := os.ReadFile(tilePath)
		if err != nil {
			return nil, err
		}
		return decoded.Decode(bytes.NewReader(data))
	}
	if storePath == "" {
		return nil, fmt.Errorf("need -tile or -mbtiles")
	}
	s, err := tilestore.Open(ctx, storePath)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Get(ctx, key)
}

func putTile(ctx context.Context, storePath, tilePath string, key maptile.Tile) error {
	if storePath == "" || tilePath == "" {
		return fmt.Errorf("-put needs -tile and -mbtiles")
	}
	data, err := os.ReadFile(tilePath)
	if err != nil {
		return err
	}
	if _, err := decoded.Decode(bytes.NewReader(data)); err != nil {
		return err
	}
	s, err := tilestore.Open(ctx, storePath)
	if err != nil {
		return err
	}
	if err := s.Put(ctx, key, data); err != nil {
		_ = s.Close()
		return err
	}
	return s.Close()
}
