package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/models"
	"golang.org/x/sync/singleflight"
)

// listingTTL bounds staleness for edits made outside this process.
const listingTTL = 30 * time.Second

type listingEntry struct {
	projects []models.Project
	loadedAt time.Time
}

// listingCache holds admin listings per token. Every mutation bumps the
// generation, and a load only stores its result if the generation it started
// under is still current.
type listingCache struct {
	mu         sync.Mutex
	generation uint64
	entries    map[string]listingEntry
	group      singleflight.Group
	now        func() time.Time
}

func newListingCache() *listingCache {
	return &listingCache{
		entries: make(map[string]listingEntry),
		now:     time.Now,
	}
}

func (c *listingCache) load(ctx context.Context, token string, fetch func(context.Context) ([]models.Project, error)) ([]models.Project, error) {
	c.mu.Lock()
	entry, ok := c.entries[token]
	generation := c.generation
	if ok && c.now().Sub(entry.loadedAt) < listingTTL {
		c.mu.Unlock()
		return cloneProjects(entry.projects), nil
	}
	c.mu.Unlock()

	key := fmt.Sprintf("%d/%s", generation, token)
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Shared by every waiter, so one caller giving up must not fail the others.
		projects, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == generation {
			c.entries[token] = listingEntry{projects: projects, loadedAt: c.now()}
		}
		c.mu.Unlock()
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneProjects(v.([]models.Project)), nil
}

func (c *listingCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	clear(c.entries)
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	copy(out, in)
	return out
}
