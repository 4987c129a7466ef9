// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for multi-instance servers
//
// Keys are produced by a [Keyer] so that the same inputs always address the
// same entry. A layout key covers the data hash, the viewport and the
// settings hash; an artifact key adds the output format and render options.
// [ScopedKeyer] prefixes every key for tenant isolation, and [Instrument]
// reports hits and misses to the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLSession  = 24 * time.Hour
	TTLFetch    = time.Hour
)

// Key namespaces. The namespace is the part of a key before the first ':'
// and is what the observability hooks receive as keyType.
const (
	KindLayout   = "layout"
	KindArtifact = "artifact"
	KindSession  = "session"
	KindFetch    = "fetch"
)

// LayoutKeyOpts are the inputs besides the data that change a layout.
type LayoutKeyOpts struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	SettingsHash string  `json:"settings_hash"`
	Measurer     string  `json:"measurer"`
	Selected     int     `json:"selected"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Interactive bool    `json:"interactive,omitempty"`
	Tooltips    bool    `json:"tooltips,omitempty"`
	EmbedFont   bool    `json:"embed_font,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Rasterizer  string  `json:"rasterizer,omitempty"`
}

// Keyer produces cache keys.
type Keyer interface {
	LayoutKey(dataHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	SessionKey(id string) string
	FetchKey(url string) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>" over the data hash and opts.
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, dataHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the layout hash and opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}

// SessionKey returns "session:<id>". Session ids are already unique.
func (DefaultKeyer) SessionKey(id string) string {
	return KindSession + ":" + id
}

// FetchKey returns "fetch:<sha256>" over the remote data URL.
func (DefaultKeyer) FetchKey(url string) string {
	return KindFetch + ":" + Hash([]byte(url))
}
