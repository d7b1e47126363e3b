package repository

import (
	"context"
	"sync"
	"testing"

	"mew/models"
	"mew/repository/testutil"
	"mew/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run the caching services against PostgreSQL
func TestWriteThrough_AlertsMatchStore(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAlertRepository(testDB.DB)
	alerts := service.NewAlertService(repo)
	key := testutil.AlertKey("pikachu", 10, 5)

	_, err := alerts.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](100)})
	require.NoError(t, err)
	_, err = alerts.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](50)})
	require.NoError(t, err)

	cached, ok := alerts.Cached(key)
	require.True(t, ok)
	stored, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, *stored, cached)
	assert.True(t, cached.Notify)

	// A rejected write leaves the cache as it was
	_, err = alerts.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](-5)})
	assert.Error(t, err)
	after, _ := alerts.Cached(key)
	assert.Equal(t, cached, after)

	deleted, err := alerts.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, ok = alerts.Cached(key)
	assert.False(t, ok)
}

func TestWriteThrough_ReloadMatchesStore(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAlertRepository(testDB.DB)
	alerts := service.NewAlertService(repo)
	market := service.NewMarketService(NewMarketValueRepository(testDB.DB), nil)
	loader := service.NewLoader(nil, alerts, market)

	for user := int64(1); user <= 3; user++ {
		_, err := repo.Upsert(ctx, testutil.AlertKey("eevee", 10, user), testutil.AlertPatch(133, user*10))
		require.NoError(t, err)
	}
	_, err := market.RecordListing(ctx, service.Listing{ID: "x1", PokemonKey: "eevee", DexNumber: 133, Price: 400})
	require.NoError(t, err)

	_, err = loader.LoadAll(ctx)
	require.NoError(t, err)
	res, err := loader.LoadAll(ctx)
	require.NoError(t, err)
	for name, r := range res.Domains {
		assert.True(t, r.Drift.Empty(), "drift in %s", name)
	}
	assert.Equal(t, 3, res.Domains["market_alerts"].Rows)

	drift, err := loader.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, drift["market_values"].Empty())
}

func TestWriteThrough_ConcurrentUpsertsOnOneKey(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewAlertRepository(testDB.DB)
	alerts := service.NewAlertService(repo)
	key := testutil.AlertKey("mew", 10, 5)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(i int64) {
			defer wg.Done()
			_, err := alerts.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set(i), DexNumber: models.Set(int(i))})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	cached, ok := alerts.Cached(key)
	require.True(t, ok)
	stored, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, *stored, cached)
	assert.Equal(t, cached.MaxPrice, int64(cached.DexNumber))
}

func TestWriteThrough_ReminderIDs(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	reminders := service.NewReminderService(NewReminderRepository(testDB.DB))

	for i := 1; i <= 3; i++ {
		r, err := reminders.Add(ctx, testutil.CreateTestReminder(7, "hi"))
		require.NoError(t, err)
		assert.Equal(t, i, r.UserReminderID)
	}
	_, err := reminders.Delete(ctx, models.ReminderKey{UserID: 7, UserReminderID: 2})
	require.NoError(t, err)
	r, err := reminders.Add(ctx, testutil.CreateTestReminder(7, "again"))
	require.NoError(t, err)
	assert.Equal(t, 4, r.UserReminderID)
}
