package mapview

import (
	"github.com/gogpu/mapview/geometry"
	"github.com/gogpu/mapview/label"
	"github.com/gogpu/mapview/technique"
	"github.com/gogpu/mapview/theme"
)

// Option configures a View during creation.
//
// Example:
//
//	v := mapview.New(
//	    mapview.WithDisabledKinds("building"),
//	    mapview.WithBackground("osm"),
//	)
type Option func(*options)

// options holds optional configuration for View creation.
type options struct {
	loader            []theme.LoaderOption
	enabledKinds      technique.GeometryKindSet
	disabledKinds     technique.GeometryKindSet
	filter            geometry.Filter
	background        bool
	backgroundSources []string
	measurer          label.Measurer
	measurerSet       bool
	maxPathSplits     int
	shaderCapacity    int
	workers           int
}

// defaultOptions returns the default view options.
func defaultOptions() options {
	return options{
		maxPathSplits: label.DefaultMaxPathSplits,
	}
}

// WithLoaderOptions passes options to the view's theme loader.
func WithLoaderOptions(opts ...theme.LoaderOption) Option {
	return func(o *options) {
		o.loader = append(o.loader, opts...)
	}
}

// WithEnabledKinds enables techniques of these geometry kinds, overriding
// WithDisabledKinds.
func WithEnabledKinds(kinds ...string) Option {
	return func(o *options) {
		o.enabledKinds = technique.NewKindSet(kinds...)
	}
}

// WithDisabledKinds hides techniques of these geometry kinds.
func WithDisabledKinds(kinds ...string) Option {
	return func(o *options) {
		o.disabledKinds = technique.NewKindSet(kinds...)
	}
}

// WithTechniqueFilter builds only techniques accepted by f.
func WithTechniqueFilter(f geometry.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithBackground draws a background plane in the theme's clear color under
// tiles of the listed data sources, or of all data sources when none are
// listed.
func WithBackground(dataSources ...string) Option {
	return func(o *options) {
		o.background = true
		o.backgroundSources = dataSources
	}
}

// WithMeasurer sets the label measurer. Nil disables measurement; the
// default shapes text with the Go Regular font.
func WithMeasurer(m label.Measurer) Option {
	return func(o *options) {
		o.measurer = m
		o.measurerSet = true
	}
}

// WithMaxPathSplits bounds the number of corner splits of text paths per
// tile.
func WithMaxPathSplits(n int) Option {
	return func(o *options) {
		o.maxPathSplits = n
	}
}

// WithShaderCacheCapacity sets the per-shard capacity of the shader cache.
func WithShaderCacheCapacity(n int) Option {
	return func(o *options) {
		o.shaderCapacity = n
	}
}

// WithWorkers sets the number of goroutines BuildTiles uses. The default
// is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
