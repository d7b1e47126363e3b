package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const spookyHourColumns = `starts_on, ends_on, channel_id`

// SpookyHourRepository stores the single spooky hour window
type SpookyHourRepository struct {
	q queryable
}

// NewSpookyHourRepository creates a new spooky hour repository
func NewSpookyHourRepository(db *database.DB) *SpookyHourRepository {
	return &SpookyHourRepository{q: db.Pool}
}

// Set stores the window, replacing any previous one
func (r *SpookyHourRepository) Set(ctx context.Context, window models.SpookyHour) (*models.SpookyHour, error) {
	u := upsert{
		table:     "spooky_hour",
		keys:      []column{{name: "id", value: 1}},
		returning: spookyHourColumns,
	}
	u.value("starts_on", window.StartsOn)
	u.value("ends_on", window.EndsOn)
	u.value("channel_id", window.ChannelID)

	query, args := u.sql()
	stored, err := collectOne[models.SpookyHour](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to set spooky hour: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("failed to set spooky hour: no row returned")
	}
	return stored, nil
}

// Get retrieves the current window, nil when none is stored
func (r *SpookyHourRepository) Get(ctx context.Context) (*models.SpookyHour, error) {
	window, err := collectOne[models.SpookyHour](r.q.Query(ctx, `SELECT `+spookyHourColumns+` FROM spooky_hour WHERE id = 1`))
	if err != nil {
		return nil, fmt.Errorf("failed to get spooky hour: %w", err)
	}
	return window, nil
}

// Clear removes the window and reports whether one was stored
func (r *SpookyHourRepository) Clear(ctx context.Context) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM spooky_hour`)
	if err != nil {
		return false, fmt.Errorf("failed to clear spooky hour: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
