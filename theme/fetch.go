package theme

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the bytes behind a theme URL.
//
// Implementations report non-OK responses as *LoadError with the status code.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// maxThemeSize bounds the size of a fetched theme document.
const maxThemeSize = 64 << 20

// HTTPFetcher fetches http(s) URLs with an http.Client and file URLs from the
// local filesystem.
type HTTPFetcher struct {
	// Client is used for http(s) URLs. Nil means http.DefaultClient.
	Client *http.Client
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	switch u.Scheme {
	case "file", "":
		data, err := os.ReadFile(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, &LoadError{URL: u.String(), Err: err}
		}
		return data, nil
	case "http", "https":
	default:
		return nil, &LoadError{URL: u.String(), Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, &LoadError{URL: u.String(), Err: err}
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{URL: u.String(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{URL: u.String(), StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThemeSize))
	if err != nil {
		return nil, &LoadError{URL: u.String(), Err: err}
	}
	return data, nil
}

// FSFetcher serves URL paths from a file system, ignoring scheme and host.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(_ context.Context, u *url.URL) ([]byte, error) {
	name := strings.TrimPrefix(u.Path, "/")
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, &LoadError{URL: u.String(), Err: err}
	}
	return data, nil
}
