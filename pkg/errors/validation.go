package errors

import (
	"math"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Viewport bounds accepted at the outer boundaries. The layout engine itself
// accepts any size; these limits only protect the CLI and the server from
// absurd allocations in the raster sinks.
const (
	MaxViewportSide = 16384
	maxPathLength   = 1024
)

// ValidateViewport checks that a width/height pair is finite, positive and
// below [MaxViewportSide].
func ValidateViewport(width, height float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return New(ErrCodeInvalidViewport, "%s must be a finite number", v.name)
		}
		if v.value <= 0 {
			return New(ErrCodeInvalidViewport, "%s must be positive, got %g", v.name, v.value)
		}
		if v.value > MaxViewportSide {
			return New(ErrCodeInvalidViewport, "%s too large (max %d)", v.name, MaxViewportSide)
		}
	}
	return nil
}

// ValidateDataPath validates a data file path or http(s) URL given on the
// command line or in an API request. Only the extension set and basic safety
// are checked.
func ValidateDataPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	switch DataExt(path) {
	case ".csv", ".json", ".xlsx":
		return nil
	default:
		return New(ErrCodeUnsupported, "unsupported data file %q (want .csv, .json or .xlsx)", filepath.Base(path))
	}
}

// DataExt returns the lower-cased extension of a data path. For http(s)
// URLs the extension of the URL path is used, ignoring query and fragment.
func DataExt(p string) string {
	if u, err := url.Parse(p); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(filepath.Ext(p))
}
