package theme

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"path/filepath"

	"github.com/gogpu/mapview/internal/logging"
)

// Source is the input of Loader.Load: a theme URL or an in-memory theme.
type Source struct {
	url   string
	theme *Theme
}

// FromURL returns a source that fetches the theme at u. Relative URLs resolve
// against the loader's base URL, or the working directory without one.
func FromURL(u string) Source { return Source{url: u} }

// FromTheme returns a source for an in-memory theme. The theme is not
// modified by loading.
func FromTheme(t *Theme) Source { return Source{theme: t} }

// String returns the URL of the source, or the recorded URL of its theme.
func (s Source) String() string {
	if s.theme != nil {
		if s.theme.URL != "" {
			return s.theme.URL
		}
		return "<embedded theme>"
	}
	return s.url
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	fetcher  Fetcher
	baseURL  *url.URL
	maxDepth int
	strict   bool
	expand   bool
	logger   *slog.Logger
}

func defaultLoaderOptions() loaderOptions {
	return loaderOptions{
		fetcher:  HTTPFetcher{},
		maxDepth: DefaultMaxInheritanceDepth,
		expand:   true,
	}
}

// WithFetcher sets the Fetcher used for theme URLs.
// The default is an HTTPFetcher with http.DefaultClient.
func WithFetcher(f Fetcher) LoaderOption {
	return func(o *loaderOptions) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// WithBaseURL sets the URL that relative theme URLs resolve against.
func WithBaseURL(u *url.URL) LoaderOption {
	return func(o *loaderOptions) {
		o.baseURL = u
	}
}

// WithMaxInheritanceDepth sets the maximum number of "extends" links.
func WithMaxInheritanceDepth(depth int) LoaderOption {
	return func(o *loaderOptions) {
		o.maxDepth = depth
	}
}

// WithStrictReferences makes malformed "$ref"s fail the load with a
// *ReferenceError instead of being dropped.
func WithStrictReferences() LoaderOption {
	return func(o *loaderOptions) {
		o.strict = true
	}
}

// WithoutExpansion makes Load stop after base theme resolution, leaving
// "$ref"s in place.
func WithoutExpansion() LoaderOption {
	return func(o *loaderOptions) {
		o.expand = false
	}
}

// WithLogger sets the loader's logger. The default is the package-wide
// logger configured with mapview.SetLogger.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(o *loaderOptions) {
		o.logger = l
	}
}

// Loader loads and resolves themes. A Loader holds no per-load state and is
// safe for concurrent use.
type Loader struct {
	opts loaderOptions
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	o := defaultLoaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{opts: o}
}

func (l *Loader) logger() *slog.Logger {
	return logging.Or(l.opts.logger)
}

// Load loads the theme named by src, resolves its base themes and, unless
// the loader was created WithoutExpansion, expands its references.
//
// Fetch and parse failures are reported as *LoadError, overly deep
// inheritance as *DepthExceededError.
func (l *Loader) Load(ctx context.Context, src Source) (*Theme, error) {
	t, err := l.load(ctx, src, l.opts.expand, l.opts.maxDepth, nil)
	if err != nil {
		return nil, err
	}
	l.logger().Info("theme loaded", "source", src.String(), "styleSets", len(t.Styles), "definitions", len(t.Definitions))
	return t, nil
}

// load implements Load; parent is the URL of the theme that extends src, or
// nil at the top of the chain.
func (l *Loader) load(ctx context.Context, src Source, expand bool, maxDepth int, parent *url.URL) (*Theme, error) {
	var t *Theme
	if src.theme != nil {
		t = src.theme
	} else {
		u, err := l.resolveThemeURL(src.url, parent)
		if err != nil {
			return nil, &LoadError{URL: src.url, Err: err}
		}
		if t, err = l.fetch(ctx, u); err != nil {
			return nil, err
		}
	}
	t = ResolveURLs(t)

	t, err := l.resolveBaseTheme(ctx, t, maxDepth)
	if err != nil {
		return nil, err
	}
	if expand {
		return l.expandReferences(t)
	}
	return t, nil
}

// resolveThemeURL makes a theme URL absolute: against parent, then the
// loader's base URL, then the working directory.
func (l *Loader) resolveThemeURL(raw string, parent *url.URL) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch {
	case u.IsAbs():
		return u, nil
	case parent != nil:
		return parent.ResolveReference(u), nil
	case l.opts.baseURL != nil:
		return l.opts.baseURL.ResolveReference(u), nil
	}
	abs, err := filepath.Abs(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

func (l *Loader) fetch(ctx context.Context, u *url.URL) (*Theme, error) {
	data, err := l.opts.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, &LoadError{URL: u.String(), Err: fmt.Errorf("empty theme document")}
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &LoadError{URL: u.String(), Err: err}
	}
	t.URL = u.String()
	return &t, nil
}

// ResolveBaseTheme merges the chain of themes named by t.Extends into a
// single theme. Definitions and style sets merge key-wise with the child's
// entries winning; the remaining fields are taken from the child when it sets
// them. Base themes are loaded without reference expansion.
//
// A theme without Extends is returned unchanged. When maxDepth links have
// been followed and another "extends" remains, a *DepthExceededError is
// returned.
func (l *Loader) ResolveBaseTheme(ctx context.Context, t *Theme, maxDepth int) (*Theme, error) {
	return l.resolveBaseTheme(ctx, t, maxDepth)
}

func (l *Loader) resolveBaseTheme(ctx context.Context, t *Theme, maxDepth int) (*Theme, error) {
	if t.Extends == nil {
		return t, nil
	}
	if maxDepth <= 0 {
		return nil, &DepthExceededError{URL: t.URL, MaxDepth: l.opts.maxDepth}
	}

	var parent *url.URL
	if t.URL != "" {
		parent, _ = url.Parse(t.URL)
	}

	var src Source
	if t.Extends.Theme != nil {
		base := t.Extends.Theme
		if base.URL == "" && t.URL != "" {
			// Embedded bases resolve their resources against the child.
			b := *base
			b.URL = t.URL
			base = &b
		}
		src = FromTheme(base)
	} else {
		src = FromURL(t.Extends.URL)
	}

	base, err := l.load(ctx, src, false, maxDepth-1, parent)
	if err != nil {
		return nil, err
	}
	return mergeThemes(base, t), nil
}

// mergeThemes returns base overridden by child. Neither input is modified.
func mergeThemes(base, child *Theme) *Theme {
	out := base.shallowClone()
	out.URL = child.URL
	out.Extends = nil

	out.Definitions = mergeMaps(base.Definitions, child.Definitions)
	out.Styles = mergeMaps(base.Styles, child.Styles)
	out.Extra = mergeMaps(base.Extra, child.Extra)

	if child.Images != nil {
		out.Images = maps.Clone(child.Images)
	}
	if child.FontCatalogs != nil {
		out.FontCatalogs = append([]FontCatalog(nil), child.FontCatalogs...)
	}
	if child.PoiTables != nil {
		out.PoiTables = append([]PoiTable(nil), child.PoiTables...)
	}
	if child.Sky != nil {
		sky := *child.Sky
		out.Sky = &sky
	}
	if child.Clear != "" {
		out.Clear = child.Clear
	}
	if child.DefaultTextStyle != nil {
		out.DefaultTextStyle = child.DefaultTextStyle
	}
	if child.TextStyles != nil {
		out.TextStyles = append([]TextStyle(nil), child.TextStyles...)
	}
	return out
}

func mergeMaps[V any](base, child map[string]V) map[string]V {
	if base == nil && child == nil {
		return nil
	}
	out := make(map[string]V, len(base)+len(child))
	maps.Copy(out, base)
	maps.Copy(out, child)
	return out
}
