package roster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"auction-draft-server/internal/engine"
)

type flakyStore struct {
	mu    sync.Mutex
	teams []engine.TeamSnapshot
	fail  bool
}

func (f *flakyStore) GetTeamSnapshots(context.Context) ([]engine.TeamSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("store unreachable")
	}
	out := make([]engine.TeamSnapshot, len(f.teams))
	copy(out, f.teams)
	return out, nil
}

func (f *flakyStore) CommitSale(context.Context, string, string, int) error { return nil }

func (f *flakyStore) GetRosterFullness(context.Context, string) (int, error) { return 0, nil }

func TestCache_RefreshClearsStaleness(t *testing.T) {
	fs := &flakyStore{teams: []engine.TeamSnapshot{{TeamID: "A", DraftOrder: 1, TotalBudget: 200, RosterSize: 14}}}
	c := NewCache(fs, clockwork.NewFakeClock(), zap.NewNop())

	assert.True(t, c.Stale(), "cache starts stale until first refresh")

	require.NoError(t, c.Refresh(context.Background()))
	assert.False(t, c.Stale())

	team, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, 200, team.TotalBudget)
}

func TestCache_FailedRefreshKeepsLastKnownAndFlagsStale(t *testing.T) {
	fs := &flakyStore{teams: []engine.TeamSnapshot{{TeamID: "A", DraftOrder: 1, TotalBudget: 200, RosterSize: 14}}}
	c := NewCache(fs, clockwork.NewFakeClock(), zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	fs.mu.Lock()
	fs.fail = true
	fs.mu.Unlock()

	require.Error(t, c.Refresh(context.Background()))
	assert.True(t, c.Stale(), "failed refresh must flag staleness")

	// Last-known values still served for display; validation fails closed
	// upstream on the stale flag.
	team, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, 200, team.TotalBudget)
	assert.Len(t, c.All(), 1)
}

func TestCache_AllReturnsACopy(t *testing.T) {
	fs := &flakyStore{teams: []engine.TeamSnapshot{{TeamID: "A", DraftOrder: 1, TotalBudget: 200, RosterSize: 14}}}
	c := NewCache(fs, clockwork.NewFakeClock(), zap.NewNop())
	require.NoError(t, c.Refresh(context.Background()))

	all := c.All()
	all[0].TotalBudget = 0

	team, _ := c.Get("A")
	assert.Equal(t, 200, team.TotalBudget, "mutating the copy must not touch the cache")
}
