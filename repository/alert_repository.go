package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const alertColumns = `user_id, pokemon_key, dex_number, max_price, channel_id, role_id, notify, created_at, updated_at`

// AlertRepository stores market alerts
type AlertRepository struct {
	q queryable
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{q: db.Pool}
}

// Upsert inserts the alert or updates only the supplied columns of an existing one
func (r *AlertRepository) Upsert(ctx context.Context, key models.AlertKey, patch models.AlertPatch) (*models.Alert, error) {
	u := upsert{
		table: "market_alerts",
		keys: []column{
			{name: "pokemon_key", value: key.PokemonKey},
			{name: "channel_id", value: key.ChannelID},
			{name: "user_id", value: key.UserID},
		},
		touch:     true,
		returning: alertColumns,
	}
	if err := firstErr(
		field(&u, "dex_number", patch.DexNumber, false),
		field(&u, "max_price", patch.MaxPrice, false),
		field(&u, "role_id", patch.RoleID, true),
		field(&u, "notify", patch.Notify, false),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	alert, err := collectOne[models.Alert](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert %s: %w", key, err)
	}
	if alert == nil {
		return nil, fmt.Errorf("failed to upsert alert %s: no row returned", key)
	}
	return alert, nil
}

// Get retrieves an alert by natural key
func (r *AlertRepository) Get(ctx context.Context, key models.AlertKey) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM market_alerts
		WHERE pokemon_key = $1 AND channel_id = $2 AND user_id = $3`

	alert, err := collectOne[models.Alert](r.q.Query(ctx, query, key.PokemonKey, key.ChannelID, key.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to get alert %s: %w", key, err)
	}
	return alert, nil
}

// ListAll returns every alert
func (r *AlertRepository) ListAll(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM market_alerts ORDER BY created_at, user_id`

	alerts, err := collectAll[models.Alert](r.q.Query(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// Delete removes an alert and reports whether a row went away
func (r *AlertRepository) Delete(ctx context.Context, key models.AlertKey) (bool, error) {
	query := `DELETE FROM market_alerts WHERE pokemon_key = $1 AND channel_id = $2 AND user_id = $3`

	result, err := r.q.Exec(ctx, query, key.PokemonKey, key.ChannelID, key.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert %s: %w", key, err)
	}
	return result.RowsAffected() > 0, nil
}
