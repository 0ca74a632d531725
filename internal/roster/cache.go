// Package roster caches the externally-owned team budget and roster data the
// room needs to validate bids. Staleness between sales is tolerated because
// every bid re-checks against the latest pulled snapshot; a cache that cannot
// refresh flags itself stale and bid validation fails closed.
package roster

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/store"
)

type Cache struct {
	store store.TeamStore
	clock clockwork.Clock
	log   *zap.Logger

	mu        sync.RWMutex
	teams     []engine.TeamSnapshot
	fetchedAt time.Time
	stale     bool
}

func NewCache(ts store.TeamStore, clock clockwork.Clock, log *zap.Logger) *Cache {
	return &Cache{store: ts, clock: clock, log: log, stale: true}
}

// Refresh pulls fresh snapshots. On failure the last-known values are kept
// and the cache is flagged stale.
func (c *Cache) Refresh(ctx context.Context) error {
	teams, err := c.store.GetTeamSnapshots(ctx)
	if err != nil {
		c.mu.Lock()
		c.stale = true
		c.mu.Unlock()
		c.log.Warn("team snapshot refresh failed, serving last-known values", zap.Error(err))
		return err
	}
	c.mu.Lock()
	c.teams = teams
	c.fetchedAt = c.clock.Now()
	c.stale = false
	c.mu.Unlock()
	return nil
}

// All returns a copy of the cached snapshots.
func (c *Cache) All() []engine.TeamSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]engine.TeamSnapshot, len(c.teams))
	copy(out, c.teams)
	return out
}

func (c *Cache) Get(teamID string) (engine.TeamSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.teams {
		if t.TeamID == teamID {
			return t, true
		}
	}
	return engine.TeamSnapshot{}, false
}

func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
