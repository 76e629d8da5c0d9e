package client

import (
	"sync"

	"github.com/command-deck/command-deck-backend/app/models"
)

// PageKey identifies one cached slice of the mission collection. Entries
// for different keys never interfere, so a mutation on one page cannot
// corrupt another.
type PageKey struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

// DefaultPageKey uses the server's default ordering, newest first.
func DefaultPageKey(page, size int) PageKey {
	return PageKey{Page: page, Size: size, SortBy: "createdAt", Direction: "desc"}
}

// Cache mirrors server pages keyed by query parameters. Each key carries a
// generation counter; a fetch started before the latest invalidation commits
// nothing, so the most recent refetch always wins.
type Cache struct {
	mu    sync.Mutex
	pages map[PageKey]models.MissionPage
	gens  map[PageKey]uint64
	ready bool
}

func NewCache() *Cache {
	return &Cache{
		pages: make(map[PageKey]models.MissionPage),
		gens:  make(map[PageKey]uint64),
	}
}

// Ready reports whether at least one list fetch has succeeded.
func (c *Cache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Cache) Get(key PageKey) (models.MissionPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pages[key]
	return p, ok
}

// Invalidate marks any in-flight fetch for the key as stale.
func (c *Cache) Invalidate(key PageKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
}

// begin returns the generation token a fetch must present to commit.
func (c *Cache) begin(key PageKey) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// commit stores the fetched page unless the key was invalidated after the
// fetch began.
func (c *Cache) commit(key PageKey, gen uint64, page models.MissionPage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		return false
	}
	c.pages[key] = page
	c.ready = true
	return true
}

// mutateMission applies fn to the cached copy of one mission, if present in
// the page for key. Returns false when the mission is not cached there.
func (c *Cache) mutateMission(key PageKey, missionID int64, fn func(*models.Mission)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.pages[key]
	if !ok {
		return false
	}
	for i := range page.Content {
		if page.Content[i].ID == missionID {
			fn(&page.Content[i])
			c.pages[key] = page
			return true
		}
	}
	return false
}
