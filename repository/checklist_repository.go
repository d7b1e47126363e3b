package repository

import (
	"context"
	"fmt"

	"mew/database"
	"mew/models"
)

const checklistColumns = `user_id, dex_number, pokemon_name, channel_id, role_id`

// ChecklistRepository stores missing-pokemon checklist entries
type ChecklistRepository struct {
	q queryable
}

// NewChecklistRepository creates a new checklist repository
func NewChecklistRepository(db *database.DB) *ChecklistRepository {
	return &ChecklistRepository{q: db.Pool}
}

// Upsert inserts the entry or updates only the supplied columns of an existing one
func (r *ChecklistRepository) Upsert(ctx context.Context, key models.ChecklistKey, patch models.ChecklistPatch) (*models.ChecklistEntry, error) {
	u := upsert{
		table: "missing_pokemon",
		keys: []column{
			{name: "user_id", value: key.UserID},
			{name: "dex_number", value: key.DexNumber},
		},
		returning: checklistColumns,
	}
	if err := firstErr(
		field(&u, "pokemon_name", patch.PokemonName, false),
		field(&u, "channel_id", patch.ChannelID, true),
		field(&u, "role_id", patch.RoleID, true),
	); err != nil {
		return nil, err
	}

	query, args := u.sql()
	entry, err := collectOne[models.ChecklistEntry](r.q.Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert checklist entry %s: %w", key, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("failed to upsert checklist entry %s: no row returned", key)
	}
	return entry, nil
}

// Get retrieves a checklist entry by natural key
func (r *ChecklistRepository) Get(ctx context.Context, key models.ChecklistKey) (*models.ChecklistEntry, error) {
	query := `SELECT ` + checklistColumns + ` FROM missing_pokemon WHERE user_id = $1 AND dex_number = $2`

	entry, err := collectOne[models.ChecklistEntry](r.q.Query(ctx, query, key.UserID, key.DexNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist entry %s: %w", key, err)
	}
	return entry, nil
}

// ListAll returns every checklist entry
func (r *ChecklistRepository) ListAll(ctx context.Context) ([]models.ChecklistEntry, error) {
	query := `SELECT ` + checklistColumns + ` FROM missing_pokemon ORDER BY user_id, dex_number`

	entries, err := collectAll[models.ChecklistEntry](r.q.Query(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist entries: %w", err)
	}
	return entries, nil
}

// Delete removes a checklist entry and reports whether a row went away
func (r *ChecklistRepository) Delete(ctx context.Context, key models.ChecklistKey) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM missing_pokemon WHERE user_id = $1 AND dex_number = $2`, key.UserID, key.DexNumber)
	if err != nil {
		return false, fmt.Errorf("failed to delete checklist entry %s: %w", key, err)
	}
	return result.RowsAffected() > 0, nil
}
