package hub

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/room"
)

type stubStore struct{}

func (stubStore) GetTeamSnapshots(context.Context) ([]engine.TeamSnapshot, error) {
	return []engine.TeamSnapshot{
		{TeamID: "A", DraftOrder: 1, TotalBudget: 200, RosterSize: 14},
		{TeamID: "B", DraftOrder: 2, TotalBudget: 200, RosterSize: 14},
	}, nil
}

func (stubStore) CommitSale(context.Context, string, string, int) error { return nil }

func (stubStore) GetRosterFullness(context.Context, string) (int, error) { return 0, nil }

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, Options{Store: stubStore{}, Clock: clockwork.NewFakeClock()})
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- CreateRoom{Code: "ZED123", Reply: reply}
	rm1 := <-reply

	h.Inbox() <- GetRoom{Code: "ZED123", Reply: reply}
	rm2 := <-reply

	if rm1 == nil || rm2 == nil || rm1 != rm2 {
		t.Fatalf("expected same room pointer")
	}
}

func TestHub_GetUnknownCodeIsNil(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{Code: "NOPE42", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("expected nil for unknown code")
	}
}

func TestHub_RoomEmptyDisposes(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{Code: "ZED123", Reply: reply}
	if rm := <-reply; rm == nil {
		t.Fatalf("expected room")
	}

	h.Inbox() <- RoomEmpty{Code: "ZED123"}

	// The hub processes messages in order, so a follow-up Get observes the
	// disposal.
	deadline := time.After(time.Second)
	h.Inbox() <- GetRoom{Code: "ZED123", Reply: reply}
	select {
	case rm := <-reply:
		if rm != nil {
			t.Fatalf("expected room to be disposed")
		}
	case <-deadline:
		t.Fatalf("timed out waiting for hub")
	}
}
