package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const (
	timerSettingsColumns   = `user_id, pokemon, fish, battle, explore, react_type, updated_at`
	utilitySettingsColumns = `user_id, catchbot_remind, quest_remind, spooky_ping, timezone, updated_at`
	userInfoColumns        = `user_id, username, faction, updated_at`
)

// TimerSettingsRepository stores per-user cooldown timer toggles
type TimerSettingsRepository struct {
	q queryable
}

// NewTimerSettingsRepository creates a new timer settings repository
func NewTimerSettingsRepository(db *database.DB) *TimerSettingsRepository {
	return &TimerSettingsRepository{q: db.Pool}
}

// Upsert creates the user's row or updates only the supplied toggles
func (r *TimerSettingsRepository) Upsert(ctx context.Context, userID int64, patch models.TimerPatch) (*models.TimerSettings, error) {
	u := upsert{
		table:     "timer_settings",
		keys:      []column{{name: "user_id", value: userID}},
		touch:     true,
		returning: timerSettingsColumns,
	}
	if err := firstErr(
		field(&u, "pokemon", patch.Pokemon, false),
		field(&u, "fish", patch.Fish, false),
		field(&u, "battle", patch.Battle, false),
		field(&u, "explore", patch.Explore, false),
		field(&u, "react_type", patch.ReactType, false),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	settings, err := collectOne[models.TimerSettings](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert timer settings for user %d: %w", userID, err)
	}
	if settings == nil {
		return nil, fmt.Errorf("failed to upsert timer settings for user %d: no row returned", userID)
	}
	return settings, nil
}

// Get retrieves a user's timer settings
func (r *TimerSettingsRepository) Get(ctx context.Context, userID int64) (*models.TimerSettings, error) {
	settings, err := collectOne[models.TimerSettings](r.q.Query(ctx,
		`SELECT `+timerSettingsColumns+` FROM timer_settings WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get timer settings for user %d: %w", userID, err)
	}
	return settings, nil
}

// ListAll returns every user's timer settings
func (r *TimerSettingsRepository) ListAll(ctx context.Context) ([]models.TimerSettings, error) {
	settings, err := collectAll[models.TimerSettings](r.q.Query(ctx,
		`SELECT `+timerSettingsColumns+` FROM timer_settings`))
	if err != nil {
		return nil, fmt.Errorf("failed to list timer settings: %w", err)
	}
	return settings, nil
}

// Delete removes a user's timer settings and reports whether a row went away
func (r *TimerSettingsRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM timer_settings WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete timer settings for user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}

// UtilitySettingsRepository stores per-user reminder toggles
type UtilitySettingsRepository struct {
	q queryable
}

// NewUtilitySettingsRepository creates a new utility settings repository
func NewUtilitySettingsRepository(db *database.DB) *UtilitySettingsRepository {
	return &UtilitySettingsRepository{q: db.Pool}
}

// Upsert creates the user's row or updates only the supplied toggles
func (r *UtilitySettingsRepository) Upsert(ctx context.Context, userID int64, patch models.UtilityPatch) (*models.UtilitySettings, error) {
	u := upsert{
		table:     "utility_settings",
		keys:      []column{{name: "user_id", value: userID}},
		touch:     true,
		returning: utilitySettingsColumns,
	}
	if err := firstErr(
		field(&u, "catchbot_remind", patch.CatchbotRemind, false),
		field(&u, "quest_remind", patch.QuestRemind, false),
		field(&u, "spooky_ping", patch.SpookyPing, false),
		field(&u, "timezone", patch.Timezone, true),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	settings, err := collectOne[models.UtilitySettings](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert utility settings for user %d: %w", userID, err)
	}
	if settings == nil {
		return nil, fmt.Errorf("failed to upsert utility settings for user %d: no row returned", userID)
	}
	return settings, nil
}

// Get retrieves a user's utility settings
func (r *UtilitySettingsRepository) Get(ctx context.Context, userID int64) (*models.UtilitySettings, error) {
	settings, err := collectOne[models.UtilitySettings](r.q.Query(ctx,
		`SELECT `+utilitySettingsColumns+` FROM utility_settings WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get utility settings for user %d: %w", userID, err)
	}
	return settings, nil
}

// ListAll returns every user's utility settings
func (r *UtilitySettingsRepository) ListAll(ctx context.Context) ([]models.UtilitySettings, error) {
	settings, err := collectAll[models.UtilitySettings](r.q.Query(ctx,
		`SELECT `+utilitySettingsColumns+` FROM utility_settings`))
	if err != nil {
		return nil, fmt.Errorf("failed to list utility settings: %w", err)
	}
	return settings, nil
}

// Delete removes a user's utility settings and reports whether a row went away
func (r *UtilitySettingsRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM utility_settings WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete utility settings for user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}

// UserInfoRepository stores what is known about a trainer
type UserInfoRepository struct {
	q queryable
}

// NewUserInfoRepository creates a new user info repository
func NewUserInfoRepository(db *database.DB) *UserInfoRepository {
	return &UserInfoRepository{q: db.Pool}
}

// Upsert creates the user's row or updates only the supplied columns
func (r *UserInfoRepository) Upsert(ctx context.Context, userID int64, patch models.UserInfoPatch) (*models.UserInfo, error) {
	u := upsert{
		table:     "user_info",
		keys:      []column{{name: "user_id", value: userID}},
		touch:     true,
		returning: userInfoColumns,
	}
	if err := firstErr(
		field(&u, "username", patch.Username, true),
		field(&u, "faction", patch.Faction, true),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	info, err := collectOne[models.UserInfo](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user info for user %d: %w", userID, err)
	}
	if info == nil {
		return nil, fmt.Errorf("failed to upsert user info for user %d: no row returned", userID)
	}
	return info, nil
}

// Get retrieves a user's info
func (r *UserInfoRepository) Get(ctx context.Context, userID int64) (*models.UserInfo, error) {
	info, err := collectOne[models.UserInfo](r.q.Query(ctx,
		`SELECT `+userInfoColumns+` FROM user_info WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user info for user %d: %w", userID, err)
	}
	return info, nil
}

// ListAll returns every user's info
func (r *UserInfoRepository) ListAll(ctx context.Context) ([]models.UserInfo, error) {
	infos, err := collectAll[models.UserInfo](r.q.Query(ctx, `SELECT `+userInfoColumns+` FROM user_info`))
	if err != nil {
		return nil, fmt.Errorf("failed to list user info: %w", err)
	}
	return infos, nil
}

// Delete removes a user's info and reports whether a row went away
func (r *UserInfoRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM user_info WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user info for user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}
