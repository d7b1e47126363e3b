package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mew/database"
	"mew/models"

	"github.com/jackc/pgx/v5"
)

// FactionBallRepository stores the singleton faction ball of the day row
type FactionBallRepository struct {
	q queryable
}

// NewFactionBallRepository creates a new faction ball repository
func NewFactionBallRepository(db *database.DB) *FactionBallRepository {
	return &FactionBallRepository{q: db.Pool}
}

func factionBallColumns() string {
	names := make([]string, 0, len(models.Factions)+1)
	for _, f := range models.Factions {
		names = append(names, string(f))
	}
	return strings.Join(append(names, "updated_at"), ", ")
}

// Set overwrites the supplied factions
func (r *FactionBallRepository) Set(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	return r.upsert(ctx, patch, mergeOverwrite)
}

// Fill writes the supplied factions whose ball is still unknown today and
// leaves recorded ones alone
func (r *FactionBallRepository) Fill(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	return r.upsert(ctx, patch, mergeKeepExisting)
}

func (r *FactionBallRepository) upsert(ctx context.Context, patch models.FactionBallPatch, merge mergePolicy) (*models.FactionBalls, error) {
	u := upsert{
		table:     "faction_balls",
		keys:      []column{{name: "id", value: 1}},
		touch:     true,
		returning: factionBallColumns(),
	}
	for f := range patch {
		if _, err := models.ParseFaction(string(f)); err != nil {
			return nil, err
		}
	}
	// Column names come from the enumerated factions, never from input
	for _, f := range models.Factions {
		if field, ok := patch[f]; ok {
			if err := mergedField(&u, string(f), field, true, merge); err != nil {
				return nil, err
			}
		}
	}

	query, args := u.sql()
	balls, err := scanFactionBalls(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert faction balls: %w", err)
	}
	if balls == nil {
		return nil, fmt.Errorf("failed to upsert faction balls: no row returned")
	}
	return balls, nil
}

// Get retrieves today's balls, nil when none has been recorded since the last reset
func (r *FactionBallRepository) Get(ctx context.Context) (*models.FactionBalls, error) {
	balls, err := scanFactionBalls(r.q.QueryRow(ctx, `SELECT `+factionBallColumns()+` FROM faction_balls WHERE id = 1`))
	if err != nil {
		return nil, fmt.Errorf("failed to get faction balls: %w", err)
	}
	return balls, nil
}

// Clear removes the row for the daily reset and reports whether one existed
func (r *FactionBallRepository) Clear(ctx context.Context) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM faction_balls`)
	if err != nil {
		return false, fmt.Errorf("failed to clear faction balls: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanFactionBalls(row pgx.Row) (*models.FactionBalls, error) {
	balls := models.FactionBalls{Balls: make(map[models.Faction]*string, len(models.Factions))}
	values := make([]*string, len(models.Factions))
	targets := make([]any, 0, len(models.Factions)+1)
	for i := range values {
		targets = append(targets, &values[i])
	}
	targets = append(targets, &balls.UpdatedAt)

	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	for i, f := range models.Factions {
		balls.Balls[f] = values[i]
	}
	return &balls, nil
}
