// Package store defines the narrow interfaces the draft room consumes from
// the league database. The room never owns this data; it only reads snapshots
// and reports sales.
package store

import (
	"context"

	"auction-draft-server/internal/engine"
)

type TeamStore interface {
	// GetTeamSnapshots returns the current budget/roster view of every team
	// in the league.
	GetTeamSnapshots(ctx context.Context) ([]engine.TeamSnapshot, error)

	// CommitSale permanently assigns a player to a roster and records the
	// spend. The room treats any error as a failed commit and does not
	// advance the draft.
	CommitSale(ctx context.Context, playerID, teamID string, amount int) error

	// GetRosterFullness returns the number of filled roster slots for one team.
	GetRosterFullness(ctx context.Context, teamID string) (int, error)
}
