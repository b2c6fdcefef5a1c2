package capture

import (
	"sync"

	"github.com/desertthunder/songcap/internal/models"
)

// Collection is an append-only, identifier-deduplicated list of songs in discovery order.
//
// It is safe for concurrent use; the membership check and the append happen under one lock.
type Collection struct {
	mu    sync.Mutex
	songs []models.Song
	seen  map[string]struct{}
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{seen: make(map[string]struct{})}
}

// Add appends song unless its identifier was already seen. Reports whether it was added.
func (c *Collection) Add(song models.Song) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[song.ID]; ok {
		return false
	}
	c.seen[song.ID] = struct{}{}
	c.songs = append(c.songs, song)
	return true
}

// Seen reports whether id is already in the collection.
func (c *Collection) Seen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[id]
	return ok
}

// Len returns the number of songs collected.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.songs)
}

// Snapshot returns a copy of the songs in discovery order.
func (c *Collection) Snapshot() []models.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Song, len(c.songs))
	copy(out, c.songs)
	return out
}
