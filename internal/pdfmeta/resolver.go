package pdfmeta

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver maps attachment paths from the export (relative, e.g.
// "files/123/paper.pdf") to absolute paths on disk.
type Resolver struct {
	baseDir string
}

// NewResolver creates a resolver rooted at baseDir, normally the
// directory containing the RDF export.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: baseDir}
}

// Resolve returns the absolute path for an attachment, verifying the
// file exists.
func (r *Resolver) Resolve(relativePath string) (string, error) {
	if r.baseDir == "" {
		return "", fmt.Errorf("attachment base directory not configured")
	}
	if relativePath == "" {
		return "", fmt.Errorf("no attachment path specified")
	}

	fullPath := relativePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(r.baseDir, relativePath)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("attachment not found: %s", fullPath)
		}
		return "", fmt.Errorf("checking attachment: %w", err)
	}

	return fullPath, nil
}
