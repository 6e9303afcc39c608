package lsp

import (
	"net/url"
	"path/filepath"
)

// canonicalURI re-encodes a document URI so the same document always maps to
// one store key, whatever percent-escaping the client picked. Documents are
// otherwise opaque; the server never touches the filesystem for them.
func canonicalURI(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return parsed.String()
}

// uriToPath extracts a filesystem path from a file: URI, "" when the URI
// does not name a local file. Bare paths are tolerated for clients that put
// one in rootUri.
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	switch {
	case err != nil:
		return ""
	case parsed.Scheme == "":
		return absolute(filepath.FromSlash(uri))
	case parsed.Scheme != "file":
		return ""
	}
	path := parsed.Path
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return absolute(filepath.FromSlash(path))
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
