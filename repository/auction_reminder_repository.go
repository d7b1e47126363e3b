package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const auctionReminderColumns = `auction_id, user_id, pokemon, ends_on, channel_id`

// AuctionReminderRepository stores auction end reminders
type AuctionReminderRepository struct {
	q queryable
}

// NewAuctionReminderRepository creates a new auction reminder repository
func NewAuctionReminderRepository(db *database.DB) *AuctionReminderRepository {
	return &AuctionReminderRepository{q: db.Pool}
}

// Upsert stores the reminder, replacing the details of an existing one
func (r *AuctionReminderRepository) Upsert(ctx context.Context, a models.AuctionReminder) (*models.AuctionReminder, error) {
	u := upsert{
		table: "auction_reminders",
		keys: []column{
			{name: "auction_id", value: a.AuctionID},
			{name: "user_id", value: a.UserID},
		},
		returning: auctionReminderColumns,
	}
	u.value("pokemon", a.Pokemon)
	u.value("ends_on", a.EndsOn)
	u.value("channel_id", a.ChannelID)

	query, args := u.sql()
	reminder, err := collectOne[models.AuctionReminder](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert auction reminder %s: %w", a.Key(), err)
	}
	if reminder == nil {
		return nil, fmt.Errorf("failed to upsert auction reminder %s: no row returned", a.Key())
	}
	return reminder, nil
}

// Get retrieves an auction reminder by natural key
func (r *AuctionReminderRepository) Get(ctx context.Context, key models.AuctionKey) (*models.AuctionReminder, error) {
	reminder, err := collectOne[models.AuctionReminder](r.q.Query(ctx,
		`SELECT `+auctionReminderColumns+` FROM auction_reminders WHERE auction_id = $1 AND user_id = $2`,
		key.AuctionID, key.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to get auction reminder %s: %w", key, err)
	}
	return reminder, nil
}

// ListAll returns every auction reminder
func (r *AuctionReminderRepository) ListAll(ctx context.Context) ([]models.AuctionReminder, error) {
	reminders, err := collectAll[models.AuctionReminder](r.q.Query(ctx,
		`SELECT `+auctionReminderColumns+` FROM auction_reminders ORDER BY ends_on`))
	if err != nil {
		return nil, fmt.Errorf("failed to list auction reminders: %w", err)
	}
	return reminders, nil
}

// Delete removes an auction reminder and reports whether a row went away
func (r *AuctionReminderRepository) Delete(ctx context.Context, key models.AuctionKey) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM auction_reminders WHERE auction_id = $1 AND user_id = $2`,
		key.AuctionID, key.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete auction reminder %s: %w", key, err)
	}
	return result.RowsAffected() > 0, nil
}
