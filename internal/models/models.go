// package models defines the data model for captured library songs
package models

import (
	"fmt"
	"strings"
)

// Song is a single captured library entry.
type Song struct {
	ID      string  `json:"-"`       // Identifier used as the deduplication key
	Title   string  `json:"title"`   // Cleaned display title
	URL     string  `json:"url"`     // Canonical song page URL
	Version *string `json:"version"` // Model version label, nil when unknown
}

// NewSong builds a Song, treating an empty version as unknown.
func NewSong(id, title, url, version string) Song {
	s := Song{ID: id, Title: title, URL: url}
	if version != "" {
		s.Version = &version
	}
	return s
}

// VersionString returns the version label or an empty string.
func (s Song) VersionString() string {
	if s.Version == nil {
		return ""
	}
	return *s.Version
}

// Validate checks that the song can be deduplicated and linked.
func (s Song) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("song has no identifier")
	}
	if s.URL == "" {
		return fmt.Errorf("song %s has no url", s.ID)
	}
	return nil
}

// SongURL joins a base URL and an identifier, tolerating a missing trailing slash.
func SongURL(base, id string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id
}
