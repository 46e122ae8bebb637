package theme

import (
	"errors"
	"fmt"
)

// Sentinel errors for the theme package.
var (
	// ErrLoad is matched by every *LoadError.
	ErrLoad = errors.New("theme: load failed")

	// ErrDepthExceeded is matched by every *DepthExceededError.
	ErrDepthExceeded = errors.New("theme: inheritance depth exceeded")

	// ErrInvalidReference is matched by every *ReferenceError.
	ErrInvalidReference = errors.New("theme: invalid reference")
)

// LoadError is returned when a theme cannot be fetched or parsed.
type LoadError struct {
	URL string
	// StatusCode is the HTTP status of a non-OK response, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("theme: load %s: status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("theme: load %s: %v", e.URL, e.Err)
	default:
		return "theme: load " + e.URL
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// DepthExceededError is returned when a chain of "extends" is longer than the
// loader's maximum inheritance depth.
type DepthExceededError struct {
	// URL of the theme whose "extends" could not be followed.
	URL      string
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("theme: inheritance depth %d exceeded at %q", e.MaxDepth, e.URL)
}

// Is reports whether target is ErrDepthExceeded.
func (e *DepthExceededError) Is(target error) bool { return target == ErrDepthExceeded }

// ReferenceError describes a "$ref" that could not be expanded. It is only
// returned in strict mode; lenient loading drops the reference instead.
type ReferenceError struct {
	StyleSet string
	Index    int
	// Attr is empty for style-level references.
	Attr   string
	Ref    string
	Reason string
}

func (e *ReferenceError) Error() string {
	if e.Attr == "" {
		return fmt.Sprintf("theme: styles[%q][%d]: $ref %q: %s", e.StyleSet, e.Index, e.Ref, e.Reason)
	}
	return fmt.Sprintf("theme: styles[%q][%d].attr.%s: $ref %q: %s", e.StyleSet, e.Index, e.Attr, e.Ref, e.Reason)
}

// Is reports whether target is ErrInvalidReference.
func (e *ReferenceError) Is(target error) bool { return target == ErrInvalidReference }
