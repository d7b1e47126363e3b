package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const scheduleColumns = `user_id, type, scheduled_on, channel_id`

// ScheduleRepository stores the pending game cooldown notifications
type ScheduleRepository struct {
	q queryable
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{q: db.Pool}
}

// Upsert stores the schedule, replacing the pending one of the same type
func (r *ScheduleRepository) Upsert(ctx context.Context, s models.Schedule) (*models.Schedule, error) {
	u := upsert{
		table: "schedules",
		keys: []column{
			{name: "user_id", value: s.UserID},
			{name: "type", value: string(s.Type)},
		},
		returning: scheduleColumns,
	}
	u.value("scheduled_on", s.ScheduledOn)
	u.value("channel_id", s.ChannelID)

	query, args := u.sql()
	schedule, err := collectOne[models.Schedule](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert schedule %s: %w", s.Key(), err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("failed to upsert schedule %s: no row returned", s.Key())
	}
	return schedule, nil
}

// Get retrieves a schedule by natural key
func (r *ScheduleRepository) Get(ctx context.Context, key models.ScheduleKey) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE user_id = $1 AND type = $2`

	schedule, err := collectOne[models.Schedule](r.q.Query(ctx, query, key.UserID, string(key.Type)))
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule %s: %w", key, err)
	}
	return schedule, nil
}

// ListAll returns every pending schedule
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY scheduled_on`

	schedules, err := collectAll[models.Schedule](r.q.Query(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// Delete removes a schedule and reports whether a row went away
func (r *ScheduleRepository) Delete(ctx context.Context, key models.ScheduleKey) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM schedules WHERE user_id = $1 AND type = $2`, key.UserID, string(key.Type))
	if err != nil {
		return false, fmt.Errorf("failed to delete schedule %s: %w", key, err)
	}
	return result.RowsAffected() > 0, nil
}
