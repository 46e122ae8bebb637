// Package tilestore persists decoded tile payloads in an MBTiles-layout
// SQLite database.
//
// Tiles are stored gzip-compressed in the tiles table, addressed by zoom
// level, column and TMS row. The metadata table holds free-form name/value
// pairs such as the data source name.
package tilestore

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/mapview/decoded"
	"github.com/gogpu/mapview/internal/logging"
)

// ErrNotFound is returned for tiles and metadata the store does not hold.
var ErrNotFound = errors.New("tilestore: not found")

var schema = []string{
	"PRAGMA synchronous=0",
	"PRAGMA journal_mode=DELETE",
	"create table if not exists tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob)",
	"create table if not exists metadata (name text, value text)",
	"create unique index if not exists name on metadata (name)",
	"create unique index if not exists tile_index on tiles (zoom_level, tile_column, tile_row)",
}

// Store is an open tile database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("tilestore: open %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("tilestore: init %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

// tmsRow flips an XYZ row into the bottom-up row numbering of MBTiles.
func tmsRow(key maptile.Tile) int64 {
	return int64(1)<<uint(key.Z) - 1 - int64(key.Y)
}

// Put stores the JSON payload of a decoded tile, replacing any previous
// payload of key.
func (s *Store) Put(ctx context.Context, key maptile.Tile, payload []byte) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return fmt.Errorf("tilestore: compress %v: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("tilestore: compress %v: %w", key, err)
	}
	_, err := s.db.ExecContext(ctx,
		"insert or replace into tiles (zoom_level, tile_column, tile_row, tile_data) values (?, ?, ?, ?)",
		int64(key.Z), int64(key.X), tmsRow(key), buf.Bytes())
	if err != nil {
		return fmt.Errorf("tilestore: put %v: %w", key, err)
	}
	return nil
}

// Raw returns the uncompressed payload of key.
func (s *Store) Raw(ctx context.Context, key maptile.Tile) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"select tile_data from tiles where zoom_level = ? and tile_column = ? and tile_row = ?",
		int64(key.Z), int64(key.X), tmsRow(key)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tilestore: tile %v: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tilestore: get %v: %w", key, err)
	}
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tilestore: decompress %v: %w", key, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("tilestore: decompress %v: %w", key, err)
	}
	return out, nil
}

// Get decodes the tile stored under key.
func (s *Store) Get(ctx context.Context, key maptile.Tile) (*decoded.Tile, error) {
	raw, err := s.Raw(ctx, key)
	if err != nil {
		return nil, err
	}
	d, err := decoded.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tilestore: tile %v: %w", key, err)
	}
	return d, nil
}

// Keys returns the keys of all stored tiles at zoom level z.
func (s *Store) Keys(ctx context.Context, z maptile.Zoom) ([]maptile.Tile, error) {
	rows, err := s.db.QueryContext(ctx,
		"select tile_column, tile_row from tiles where zoom_level = ? order by tile_column, tile_row",
		int64(z))
	if err != nil {
		return nil, fmt.Errorf("tilestore: keys: %w", err)
	}
	defer rows.Close()

	var keys []maptile.Tile
	for rows.Next() {
		var x, row int64
		if err := rows.Scan(&x, &row); err != nil {
			return nil, fmt.Errorf("tilestore: keys: %w", err)
		}
		y := int64(1)<<uint(z) - 1 - row
		keys = append(keys, maptile.New(uint32(x), uint32(y), z))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tilestore: keys: %w", err)
	}
	return keys, nil
}

// SetMetadata stores a metadata value.
func (s *Store) SetMetadata(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, "insert or replace into metadata (name, value) values (?, ?)", name, value)
	if err != nil {
		return fmt.Errorf("tilestore: metadata %q: %w", name, err)
	}
	return nil
}

// Metadata returns a metadata value.
func (s *Store) Metadata(ctx context.Context, name string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, "select value from metadata where name = ?", name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("tilestore: metadata %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("tilestore: metadata %q: %w", name, err)
	}
	return v, nil
}

// Close analyzes and closes the database.
func (s *Store) Close() error {
	if _, err := s.db.Exec("ANALYZE"); err != nil {
		logging.Logger().Warn("tilestore: analyze failed", "err", err)
	}
	return s.db.Close()
}
