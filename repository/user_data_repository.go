package repository

import (
	"context"
	"fmt"
)

// userScopedTables lists every table holding rows owned by a single user
var userScopedTables = []string{
	"market_alerts",
	"missing_pokemon",
	"reminders",
	"schedules",
	"timer_settings",
	"utility_settings",
	"user_info",
	"battle_tower_registrations",
	"auction_reminders",
}

// UserDataRepository removes everything stored about a user. It is only
// handed out by a unit of work so the deletes share one transaction.
type UserDataRepository struct {
	q queryable
}

// newUserDataRepositoryWithTx creates a new user data repository with a transaction
func newUserDataRepositoryWithTx(tx queryable) *UserDataRepository {
	return &UserDataRepository{q: tx}
}

// DeleteUser removes the user's rows from every user-scoped table and returns the count per table
func (r *UserDataRepository) DeleteUser(ctx context.Context, userID int64) (map[string]int64, error) {
	removed := make(map[string]int64, len(userScopedTables))
	for _, table := range userScopedTables {
		result, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete %s rows for user %d: %w", table, userID, err)
		}
		removed[table] = result.RowsAffected()
	}
	return removed, nil
}
