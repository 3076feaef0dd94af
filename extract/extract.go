// Package extract turns files into scannable text. Each format is served by
// a Backend; formats without a registered backend fail with a typed
// UnsupportedFormatError so callers can distinguish "cannot read this" from
// extraction bugs. Heavyweight formats (PDF, DOCX, OCR) are not bundled;
// they plug in through Register.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// UnsupportedFormatError reports a file whose format has no registered
// backend.
type UnsupportedFormatError struct {
	// Ext is the lowercased file extension, including the dot.
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported format: file has no extension"
	}
	return fmt.Sprintf("unsupported format %q", e.Ext)
}

// Backend extracts text from one family of formats.
type Backend interface {
	// Extensions lists the lowercased extensions this backend serves,
	// including the dot.
	Extensions() []string

	// Extract converts raw file bytes into scannable text.
	Extract(ctx context.Context, data []byte) (string, error)
}

// Registry routes files to backends by extension.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	fallback Backend
}

// NewRegistry creates a registry with the built-in backends: plain text for
// common textual formats and JSON with re-indentation. The plain-text
// backend also serves as the fallback for unknown extensions that hold
// valid UTF-8.
func NewRegistry() *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	plain := &PlainText{}
	r.Register(plain)
	r.Register(&JSON{})
	r.fallback = plain
	return r
}

// Register adds a backend for each extension it claims, replacing any
// previous backend for the same extension.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range b.Extensions() {
		r.backends[strings.ToLower(ext)] = b
	}
}

// Extract routes data to the backend registered for the file's extension.
// Unknown extensions fall back to plain text when the bytes look textual;
// otherwise the error is an *UnsupportedFormatError.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	r.mu.RLock()
	backend, ok := r.backends[ext]
	fallback := r.fallback
	r.mu.RUnlock()

	if ok {
		text, err := backend.Extract(ctx, data)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", filename, err)
		}
		return text, nil
	}

	if fallback != nil && looksTextual(data) {
		text, err := fallback.Extract(ctx, data)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", filename, err)
		}
		return text, nil
	}

	return "", &UnsupportedFormatError{Ext: ext}
}

// Supported lists every registered extension, sorted.
func (r *Registry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.backends))
	for ext := range r.backends {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// looksTextual applies a cheap binary sniff: a NUL byte in the first 8 KiB
// disqualifies the content from the plain-text fallback.
func looksTextual(data []byte) bool {
	limit := len(data)
	if limit > 8192 {
		limit = 8192
	}
	for _, b := range data[:limit] {
		if b == 0 {
			return false
		}
	}
	return true
}
