package engine

// ValidateBid enforces the bidding rules in order: phase gate, team exists
// with an open slot, strictly-greater amount, and the per-team max bid. It
// never mutates anything; a non-nil error maps to one wire reason code.
func ValidateBid(s State, teams []TeamSnapshot, teamID string, amount int) error {
	switch s.Phase {
	case PhaseNominated, PhaseBiddingOpen, PhaseCountdownOnce, PhaseCountdownTwice:
	case PhaseIdle:
		return ErrNoSelectedPlayer
	default:
		return ErrBadPhase
	}

	team, ok := findTeam(teams, teamID)
	if !ok {
		return ErrUnknownTeam
	}
	if team.RemainingSlots() == 0 {
		return ErrRosterFull
	}

	minBid := s.Rules.MinBid
	if minBid < 1 {
		minBid = 1
	}
	if s.CurrentBid != nil {
		if amount <= s.CurrentBid.Amount {
			return ErrInvalidBid
		}
	} else if amount < minBid {
		return ErrInvalidBid
	}

	if amount > team.MaxBid() {
		return ErrOverBudget
	}
	return nil
}

func findTeam(teams []TeamSnapshot, teamID string) (TeamSnapshot, bool) {
	for _, t := range teams {
		if t.TeamID == teamID {
			return t, true
		}
	}
	return TeamSnapshot{}, false
}
