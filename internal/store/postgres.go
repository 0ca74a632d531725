package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auction-draft-server/internal/engine"
)

var ErrTeamNotFound = errors.New("team not found")

// Postgres implements TeamStore against the league database. The schema is
// owned by the league service; this adapter only touches teams and
// roster_slots.
type Postgres struct {
	pool       *pgxpool.Pool
	rosterSize int
}

func NewPostgres(pool *pgxpool.Pool, rosterSize int) *Postgres {
	if rosterSize <= 0 {
		rosterSize = engine.DefaultRosterSize
	}
	return &Postgres{pool: pool, rosterSize: rosterSize}
}

func (p *Postgres) GetTeamSnapshots(ctx context.Context) ([]engine.TeamSnapshot, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.id, t.name, COALESCE(t.draft_order, 0), t.total_budget, t.spent_amount,
		       (SELECT COUNT(*) FROM roster_slots rs WHERE rs.team_id = t.id)
		FROM teams t
		ORDER BY COALESCE(t.draft_order, 0)`)
	if err != nil {
		return nil, fmt.Errorf("query team snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []engine.TeamSnapshot
	for rows.Next() {
		s := engine.TeamSnapshot{RosterSize: p.rosterSize}
		if err := rows.Scan(&s.TeamID, &s.Name, &s.DraftOrder, &s.TotalBudget, &s.SpentAmount, &s.FilledSlots); err != nil {
			return nil, fmt.Errorf("scan team snapshot: %w", err)
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read team snapshots: %w", err)
	}
	return snaps, nil
}

func (p *Postgres) CommitSale(ctx context.Context, playerID, teamID string, amount int) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO roster_slots (team_id, player_id, price)
		VALUES ($1, $2, $3)`, teamID, playerID, amount); err != nil {
		return fmt.Errorf("insert roster slot: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE teams SET spent_amount = spent_amount + $1 WHERE id = $2`, amount, teamID)
	if err != nil {
		return fmt.Errorf("record spend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sale tx: %w", err)
	}
	return nil
}

func (p *Postgres) GetRosterFullness(ctx context.Context, teamID string) (int, error) {
	var filled int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM roster_slots WHERE team_id = $1`, teamID).Scan(&filled)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrTeamNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query roster fullness: %w", err)
	}
	return filled, nil
}
