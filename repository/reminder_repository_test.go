package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mew/models"
	"mew/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderRepository_IDsAreMaxPlusOne(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewReminderRepository(testDB.DB)
	ctx := context.Background()

	for i, msg := range []string{"one", "two", "three"} {
		r, err := repo.Create(ctx, testutil.CreateTestReminder(7, msg))
		require.NoError(t, err)
		assert.Equal(t, i+1, r.UserReminderID)
		assert.Equal(t, msg, r.Message)
	}

	deleted, err := repo.Delete(ctx, models.ReminderKey{UserID: 7, UserReminderID: 2})
	require.NoError(t, err)
	assert.True(t, deleted)

	r, err := repo.Create(ctx, testutil.CreateTestReminder(7, "four"))
	require.NoError(t, err)
	assert.Equal(t, 4, r.UserReminderID)

	other, err := repo.Create(ctx, testutil.CreateTestReminder(8, "other"))
	require.NoError(t, err)
	assert.Equal(t, 1, other.UserReminderID)
}

func TestReminderRepository_ConcurrentCreates(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewReminderRepository(testDB.DB)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, testutil.CreateTestReminder(9, "race"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	ids := map[int]bool{}
	for _, r := range all {
		ids[r.UserReminderID] = true
	}
	want := map[int]bool{}
	for id := 1; id <= writers; id++ {
		want[id] = true
	}
	assert.Equal(t, want, ids)
}

func TestWithUserLock_RollsBackOnError(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewReminderRepository(testDB.DB)
	ctx := context.Background()

	failed := errors.New("delivery refused")
	err := testDB.DB.WithUserLock(ctx, 11, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO reminders (user_id, user_reminder_id, message, remind_on) VALUES (11, 1, 'lost', NOW())`)
		require.NoError(t, err)
		return failed
	})
	assert.ErrorIs(t, err, failed)

	got, err := repo.Get(ctx, models.ReminderKey{UserID: 11, UserReminderID: 1})
	require.NoError(t, err)
	assert.Nil(t, got, "the insert must roll back with the failed transaction")

	r, err := repo.Create(ctx, testutil.CreateTestReminder(11, "kept"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.UserReminderID)
}

func TestReminderRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewReminderRepository(testDB.DB)
	ctx := context.Background()

	r, err := repo.Create(ctx, testutil.CreateTestReminder(7, "water plants"))
	require.NoError(t, err)

	next := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, r.Key(), models.ReminderPatch{RemindOn: models.Set(next), ChannelID: models.Set[int64](55)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, next.Equal(updated.RemindOn))
	assert.Equal(t, "water plants", updated.Message)
	assert.Equal(t, int64(55), *updated.ChannelID)

	unchanged, err := repo.Update(ctx, r.Key(), models.ReminderPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	missing, err := repo.Update(ctx, models.ReminderKey{UserID: 7, UserReminderID: 99}, models.ReminderPatch{Message: models.Set("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := repo.DeleteByUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
