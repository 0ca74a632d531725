package engine

// Nomination order is a snake: odd rounds run draft order 1..N, even rounds
// N..1, and the last picker of a round is also the first picker of the next
// round. That doubled boundary matches the league rules, it is not a glitch.

// byOrder indexes teams by draft order, rejecting duplicates. Teams with no
// assigned order are left out.
func byOrder(teams []TeamSnapshot) (map[int]TeamSnapshot, int, error) {
	index := make(map[int]TeamSnapshot, len(teams))
	max := 0
	for _, t := range teams {
		if t.DraftOrder == 0 {
			continue
		}
		if _, dup := index[t.DraftOrder]; dup {
			return nil, 0, ErrDuplicateOrder
		}
		index[t.DraftOrder] = t
		if t.DraftOrder > max {
			max = t.DraftOrder
		}
	}
	return index, max, nil
}

// CurrentNominator resolves the state's cursor to a team.
func CurrentNominator(s State, teams []TeamSnapshot) (TeamSnapshot, error) {
	index, _, err := byOrder(teams)
	if err != nil {
		return TeamSnapshot{}, err
	}
	team, ok := index[s.NominatorOrder]
	if !ok {
		return TeamSnapshot{}, ErrUnknownTeam
	}
	return team, nil
}

// step moves the cursor one position along the snake. At a round boundary
// only the round increments; the order stays put so the boundary team picks
// twice in a row.
func step(round, order, n int) (int, int) {
	if round%2 == 1 {
		if order < n {
			return round, order + 1
		}
		return round + 1, order
	}
	if order > 1 {
		return round, order - 1
	}
	return round + 1, order
}

// AdvanceNominator moves the cursor to the next team with an open roster
// slot, skipping full teams without disturbing round boundaries. Returns
// ErrDraftComplete when every team is full.
func AdvanceNominator(s State, teams []TeamSnapshot) (State, error) {
	index, n, err := byOrder(teams)
	if err != nil {
		return s, err
	}
	if n == 0 {
		return s, ErrUnknownTeam
	}
	if allFull(index) {
		return s, ErrDraftComplete
	}

	round, order := s.Round, s.NominatorOrder
	for {
		round, order = step(round, order, n)
		team, ok := index[order]
		if ok && team.RemainingSlots() > 0 {
			s.Round = round
			s.NominatorOrder = order
			return s, nil
		}
	}
}

// AlignNominator ensures the cursor references an eligible team, advancing
// past full teams if needed. Used at room start and after snapshot refresh.
func AlignNominator(s State, teams []TeamSnapshot) (State, error) {
	index, n, err := byOrder(teams)
	if err != nil {
		return s, err
	}
	if n == 0 {
		return s, ErrUnknownTeam
	}
	if team, ok := index[s.NominatorOrder]; ok && team.RemainingSlots() > 0 {
		return s, nil
	}
	if allFull(index) {
		return s, ErrDraftComplete
	}
	return AdvanceNominator(s, teams)
}

func allFull(index map[int]TeamSnapshot) bool {
	for _, t := range index {
		if t.RemainingSlots() > 0 {
			return false
		}
	}
	return true
}
