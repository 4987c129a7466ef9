// Package fonts provides the font used for measuring and rasterising chart
// text.
//
// The Go Regular face ships inside golang.org/x/image, so the binary carries
// the exact outlines the measurer uses and the PNG sink draws with. The SVG
// sink embeds the same face as base64 so browsers lay text out the way the
// layout engine measured it.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go Regular"

// FallbackFontFamily is the CSS font stack used when the face is not embedded.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the TrueType data of the embedded face.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	regularOnce sync.Once
	regular     *sfnt.Font
	regularErr  error
)

// Regular returns the parsed embedded face. The result is cached after the
// first call.
func Regular() (*sfnt.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = sfnt.Parse(goregular.TTF)
	})
	return regular, regularErr
}

var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularBase64 returns the TrueType data as a base64 string for CSS
// @font-face embedding. The result is cached after first computation.
func RegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}
