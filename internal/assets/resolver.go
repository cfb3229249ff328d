package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound signals that the requested path resolves to no file under the
// assets root. The server maps it to HTTP 404; every other read failure is an
// internal fault.
var ErrNotFound = errors.New("asset not found")

// contentTypes is the fixed extension lookup table. Anything else is served
// as application/octet-stream; there is no content negotiation.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
}

const defaultContentType = "application/octet-stream"

// Resolver serves files from a single on-disk assets root.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{root: dir}
}

// Resolve maps a URL path to file bytes and a content type. "/" resolves to
// index.html. The path is normalized so traversal sequences can never escape
// the root: cleaning a rooted path strips every leading "..".
func (r *Resolver) Resolve(urlPath string) ([]byte, string, error) {
	rel := path.Clean("/" + urlPath)
	if rel == "/" {
		rel = "/index.html"
	}

	full := filepath.Join(r.root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		// A directory hit and a missing file both read as "not found";
		// anything else (permissions, I/O) is a real fault.
		if errors.Is(err, fs.ErrNotExist) || isDirError(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return nil, "", err
	}

	return data, ContentTypeFor(rel), nil
}

// ContentTypeFor returns the content type for a file path from the fixed
// extension table.
func ContentTypeFor(p string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return defaultContentType
}

func isDirError(err error) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		// Reading a directory fails with EISDIR on Linux; treat as missing.
		return strings.Contains(pathErr.Err.Error(), "is a directory")
	}
	return false
}
