package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const battleTowerColumns = `user_id, channel_id, registered_at`

// BattleTowerRepository stores battle tower reset registrations
type BattleTowerRepository struct {
	q queryable
}

// NewBattleTowerRepository creates a new battle tower repository
func NewBattleTowerRepository(db *database.DB) *BattleTowerRepository {
	return &BattleTowerRepository{q: db.Pool}
}

// Register stores a registration, moving an existing one to the new channel
func (r *BattleTowerRepository) Register(ctx context.Context, userID, channelID int64) (*models.BattleTowerRegistration, error) {
	u := upsert{
		table:     "battle_tower_registrations",
		keys:      []column{{name: "user_id", value: userID}},
		returning: battleTowerColumns,
	}
	u.value("channel_id", channelID)

	query, args := u.sql()
	reg, err := collectOne[models.BattleTowerRegistration](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to register user %d for battle tower: %w", userID, err)
	}
	if reg == nil {
		return nil, fmt.Errorf("failed to register user %d for battle tower: no row returned", userID)
	}
	return reg, nil
}

// Get retrieves a user's registration
func (r *BattleTowerRepository) Get(ctx context.Context, userID int64) (*models.BattleTowerRegistration, error) {
	reg, err := collectOne[models.BattleTowerRegistration](r.q.Query(ctx,
		`SELECT `+battleTowerColumns+` FROM battle_tower_registrations WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get battle tower registration for user %d: %w", userID, err)
	}
	return reg, nil
}

// ListAll returns every registration
func (r *BattleTowerRepository) ListAll(ctx context.Context) ([]models.BattleTowerRegistration, error) {
	regs, err := collectAll[models.BattleTowerRegistration](r.q.Query(ctx,
		`SELECT `+battleTowerColumns+` FROM battle_tower_registrations ORDER BY registered_at`))
	if err != nil {
		return nil, fmt.Errorf("failed to list battle tower registrations: %w", err)
	}
	return regs, nil
}

// Delete removes a registration and reports whether a row went away
func (r *BattleTowerRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM battle_tower_registrations WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete battle tower registration for user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}
