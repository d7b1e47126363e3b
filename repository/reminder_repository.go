package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"

	"github.com/jackc/pgx/v5"
)

const reminderColumns = `user_id, user_reminder_id, message, remind_on, repeat_interval, channel_id, created_at`

// ReminderRepository stores user reminders
type ReminderRepository struct {
	db *database.DB
	q  queryable
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db, q: db.Pool}
}

// Create inserts a reminder, assigning the next per-user ID (highest existing + 1).
// Inserts for one user hold that user's advisory lock, so two of them never
// compute the same ID.
func (r *ReminderRepository) Create(ctx context.Context, n models.NewReminder) (*models.Reminder, error) {
	query := `
		INSERT INTO reminders (user_id, user_reminder_id, message, remind_on, repeat_interval, channel_id)
		SELECT $1, COALESCE(MAX(user_reminder_id), 0) + 1, $2, $3, $4, $5
		FROM reminders
		WHERE user_id = $1
		RETURNING ` + reminderColumns

	var reminder *models.Reminder
	err := r.db.WithUserLock(ctx, n.UserID, func(tx pgx.Tx) error {
		var err error
		reminder, err = collectOne[models.Reminder](tx.Query(ctx, query,
			n.UserID, n.Message, n.RemindOn, n.RepeatInterval, n.ChannelID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder for user %d: %w", n.UserID, err)
	}
	if reminder == nil {
		return nil, fmt.Errorf("failed to create reminder for user %d: no row returned", n.UserID)
	}
	return reminder, nil
}

// Update changes the supplied columns of an existing reminder. A missing
// reminder returns nil without error.
func (r *ReminderRepository) Update(ctx context.Context, key models.ReminderKey, patch models.ReminderPatch) (*models.Reminder, error) {
	u := upsert{table: "reminders"}
	if err := firstErr(
		field(&u, "message", patch.Message, false),
		field(&u, "remind_on", patch.RemindOn, false),
		field(&u, "repeat_interval", patch.RepeatInterval, true),
		field(&u, "channel_id", patch.ChannelID, true),
	); err != nil {
		return nil, err
	}
	if len(u.set) == 0 {
		return r.Get(ctx, key)
	}

	args := []any{key.UserID, key.UserReminderID}
	assignments := ""
	for i, c := range u.set {
		if i > 0 {
			assignments += ", "
		}
		args = append(args, c.value)
		assignments += fmt.Sprintf("%s = $%d", c.name, len(args))
	}
	query := `UPDATE reminders SET ` + assignments + `
		WHERE user_id = $1 AND user_reminder_id = $2
		RETURNING ` + reminderColumns

	reminder, err := collectOne[models.Reminder](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder %s: %w", key, err)
	}
	return reminder, nil
}

// Get retrieves a reminder by natural key
func (r *ReminderRepository) Get(ctx context.Context, key models.ReminderKey) (*models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = $1 AND user_reminder_id = $2`

	reminder, err := collectOne[models.Reminder](r.q.Query(ctx, query, key.UserID, key.UserReminderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder %s: %w", key, err)
	}
	return reminder, nil
}

// ListAll returns every reminder
func (r *ReminderRepository) ListAll(ctx context.Context) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders ORDER BY user_id, user_reminder_id`

	reminders, err := collectAll[models.Reminder](r.q.Query(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// Delete removes a reminder and reports whether a row went away
func (r *ReminderRepository) Delete(ctx context.Context, key models.ReminderKey) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM reminders WHERE user_id = $1 AND user_reminder_id = $2`, key.UserID, key.UserReminderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder %s: %w", key, err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteByUser removes every reminder of a user and returns how many went away
func (r *ReminderRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM reminders WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reminders for user %d: %w", userID, err)
	}
	return result.RowsAffected(), nil
}
