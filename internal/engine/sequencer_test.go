package engine

import (
	"errors"
	"testing"
)

func TestSnakeOrder_TenTeams(t *testing.T) {
	teams := testTeams(10)
	s := NewState()

	var got []int
	var rounds []int
	got = append(got, s.NominatorOrder)
	rounds = append(rounds, s.Round)
	for i := 0; i < 29; i++ {
		var err error
		s, err = AdvanceNominator(s, teams)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		got = append(got, s.NominatorOrder)
		rounds = append(rounds, s.Round)
	}

	// Round 1 runs 1..10, round 2 starts at 10 again and runs back to 1,
	// round 3 starts at 1 again.
	want := []int{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
		10, 9, 8, 7, 6, 5, 4, 3, 2, 1,
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: want order %d, got %d (full: %v)", i, want[i], got[i], got)
		}
		wantRound := i/10 + 1
		if rounds[i] != wantRound {
			t.Fatalf("position %d: want round %d, got %d", i, wantRound, rounds[i])
		}
	}
}

func TestAdvance_SkipsFullTeams(t *testing.T) {
	teams := testTeams(3)
	teams[1].FilledSlots = teams[1].RosterSize // B is full

	s := NewState()
	s, err := AdvanceNominator(s, teams)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.NominatorOrder != 3 || s.Round != 1 {
		t.Fatalf("want order 3 round 1 (B skipped), got order=%d round=%d", s.NominatorOrder, s.Round)
	}
}

func TestAdvance_SkipAcrossRoundBoundary(t *testing.T) {
	teams := testTeams(3)
	teams[2].FilledSlots = teams[2].RosterSize // C is full

	s := NewState()
	s.Round = 1
	s.NominatorOrder = 2

	// C would pick twice at the boundary; skipping it lands on B in round 2.
	s, err := AdvanceNominator(s, teams)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.NominatorOrder != 2 || s.Round != 2 {
		t.Fatalf("want order 2 round 2, got order=%d round=%d", s.NominatorOrder, s.Round)
	}
}

func TestAdvance_AllFullIsDraftComplete(t *testing.T) {
	teams := testTeams(3)
	for i := range teams {
		teams[i].FilledSlots = teams[i].RosterSize
	}

	_, err := AdvanceNominator(NewState(), teams)
	if !errors.Is(err, ErrDraftComplete) {
		t.Fatalf("want ErrDraftComplete, got %v", err)
	}
}

func TestCurrentNominator_NeverReturnsFullTeam(t *testing.T) {
	teams := testTeams(4)
	for i := range teams {
		teams[i].RosterSize = 2
	}
	s := NewState()

	// Fill each team as it nominates; the cursor must always land on a team
	// with open slots, until every roster is full.
	completed := false
	for i := 0; i < 20; i++ {
		team, err := CurrentNominator(s, teams)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if team.RemainingSlots() == 0 {
			t.Fatalf("step %d: full team %s returned as nominator", i, team.TeamID)
		}
		teams[team.DraftOrder-1].FilledSlots++
		next, err := AdvanceNominator(s, teams)
		if errors.Is(err, ErrDraftComplete) {
			completed = true
			break
		}
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		s = next
	}
	if !completed {
		t.Fatalf("draft never completed")
	}
}

func TestDuplicateDraftOrderRejected(t *testing.T) {
	teams := testTeams(3)
	teams[2].DraftOrder = 2

	if _, err := CurrentNominator(NewState(), teams); !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("want ErrDuplicateOrder, got %v", err)
	}
	if _, err := AdvanceNominator(NewState(), teams); !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("want ErrDuplicateOrder, got %v", err)
	}
}

func TestAlignNominator_SkipsFullStartingTeam(t *testing.T) {
	teams := testTeams(3)
	teams[0].FilledSlots = teams[0].RosterSize

	s, err := AlignNominator(NewState(), teams)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	if s.NominatorOrder != 2 || s.Round != 1 {
		t.Fatalf("want order 2 round 1, got order=%d round=%d", s.NominatorOrder, s.Round)
	}
}
