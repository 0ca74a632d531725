package engine

// TeamSnapshot is the externally-owned view of one franchise that the engine
// needs to validate bids and compute nomination order. DraftOrder is 1..N and
// unique; 0 means not yet assigned and the team is ignored by the sequencer.
type TeamSnapshot struct {
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	DraftOrder  int    `json:"draft_order"`
	TotalBudget int    `json:"total_budget"`
	SpentAmount int    `json:"spent_amount"`
	FilledSlots int    `json:"filled_slots"`
	RosterSize  int    `json:"roster_size"`
}

func (t TeamSnapshot) RemainingBudget() int {
	return t.TotalBudget - t.SpentAmount
}

func (t TeamSnapshot) RemainingSlots() int {
	if t.FilledSlots >= t.RosterSize {
		return 0
	}
	return t.RosterSize - t.FilledSlots
}

// MaxBid reserves the minimum bid for every other open slot, so a team can
// never spend itself out of completing its roster.
func (t TeamSnapshot) MaxBid() int {
	reserve := t.RemainingSlots() - 1
	if reserve < 0 {
		reserve = 0
	}
	max := t.RemainingBudget() - reserve
	if max < 0 {
		return 0
	}
	return max
}
