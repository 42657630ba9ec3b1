// Package source abstracts where repository documents are fetched from. A
// repository is addressed by its index document; set files are resolved
// relative to it, whether the repository lives on disk or behind HTTP.
package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source fetches repository documents by their index-relative path.
type Source interface {
	// Fetch returns the raw bytes of the document at the given
	// slash-separated path relative to the repository root.
	Fetch(ctx context.Context, name string) ([]byte, error)

	// ListJSON enumerates the JSON documents visible under the repository
	// root. Used to detect files the index never references.
	ListJSON(ctx context.Context) ([]string, error)

	// Location describes the repository root for logs and errors.
	Location() string
}

// Open resolves an index URI into a source rooted at the index's directory
// plus the index document's name within it.
func Open(uri string, opts Options) (Source, string, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse source URL: %w", err)
		}
		dir, name := path.Split(u.Path)
		if name == "" {
			return nil, "", fmt.Errorf("source URL %q does not name an index document", uri)
		}
		base := *u
		base.Path = dir
		base.RawQuery = ""
		base.Fragment = ""
		return NewHTTPSource(&base, opts), name, nil
	}

	dir, name := filepath.Split(uri)
	if name == "" {
		return nil, "", fmt.Errorf("source path %q does not name an index document", uri)
	}
	if dir == "" {
		dir = "."
	}
	return NewFileSource(dir), name, nil
}
