package service

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"mew/models"
	"mew/service/servicetest"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pikachu = models.AlertKey{PokemonKey: "pikachu", ChannelID: 10, UserID: 5}

func TestAlertService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	_, err := svc.Upsert(ctx, pikachu, models.AlertPatch{MaxPrice: models.Set[int64](100)})
	require.NoError(t, err)

	cached, ok := svc.Cached(pikachu)
	require.True(t, ok)
	assert.Equal(t, int64(100), cached.MaxPrice)
	assert.True(t, cached.Notify)

	_, err = svc.Upsert(ctx, pikachu, models.AlertPatch{MaxPrice: models.Set[int64](50)})
	require.NoError(t, err)

	cached, ok = svc.Cached(pikachu)
	require.True(t, ok)
	assert.Equal(t, int64(50), cached.MaxPrice)
	assert.True(t, cached.Notify)
	assert.Equal(t, 0, cached.DexNumber)
	assert.Nil(t, cached.RoleID)

	deleted, err := svc.Delete(ctx, pikachu)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok = svc.Cached(pikachu)
	assert.False(t, ok)
	stored, err := store.Get(ctx, pikachu)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAlertService_PartialUpdatePreservesOmittedFields(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	_, err := svc.Upsert(ctx, pikachu, models.AlertPatch{
		DexNumber: models.Set(25),
		MaxPrice:  models.Set[int64](1),
		RoleID:    models.Set[int64](2),
	})
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, pikachu, models.AlertPatch{MaxPrice: models.Set[int64](5)})
	require.NoError(t, err)

	cached, _ := svc.Cached(pikachu)
	stored, _ := store.Row(pikachu)
	assert.Equal(t, stored, cached)
	assert.Equal(t, int64(5), cached.MaxPrice)
	assert.Equal(t, 25, cached.DexNumber)
	require.NotNil(t, cached.RoleID)
	assert.Equal(t, int64(2), *cached.RoleID)

	// An explicit null clears the nullable column
	_, err = svc.Upsert(ctx, pikachu, models.AlertPatch{RoleID: models.Null[int64]()})
	require.NoError(t, err)
	cached, _ = svc.Cached(pikachu)
	assert.Nil(t, cached.RoleID)
	assert.Equal(t, int64(5), cached.MaxPrice)
}

func TestAlertService_CallersCannotWriteThroughPointerFields(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	returned, err := svc.Upsert(ctx, pikachu, models.AlertPatch{RoleID: models.Set[int64](2)})
	require.NoError(t, err)
	*returned.RoleID = 111

	cached, ok := svc.Cached(pikachu)
	require.True(t, ok)
	*cached.RoleID = 999
	for _, a := range svc.ForUser(pikachu.UserID) {
		*a.RoleID = 999
	}
	for _, a := range svc.Matching(pikachu.PokemonKey, 0) {
		*a.RoleID = 999
	}

	again, _ := svc.Cached(pikachu)
	assert.Equal(t, int64(2), *again.RoleID)
	stored, _ := store.Row(pikachu)
	assert.Equal(t, int64(2), *stored.RoleID)

	drift, err := svc.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, drift.Empty())

	// The store itself drifting is still detected
	role := int64(3)
	changed := stored.Clone()
	changed.RoleID = &role
	store.Seed(pikachu, changed)
	drift, err = svc.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{pikachu.String()}, drift.Stale)
}

func TestAlertService_Validation(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	tests := []struct {
		name  string
		key   models.AlertKey
		patch models.AlertPatch
		want  error
	}{
		{"missing pokemon", models.AlertKey{ChannelID: 1, UserID: 1}, models.AlertPatch{}, models.ErrInvalidKey},
		{"missing channel", models.AlertKey{PokemonKey: "eevee", UserID: 1}, models.AlertPatch{}, models.ErrInvalidKey},
		{"negative price", pikachu, models.AlertPatch{MaxPrice: models.Set[int64](-1)}, ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tt.key, tt.patch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, store.Calls())
	assert.Equal(t, 0, svc.cache.Len())
}

func TestAlertService_StoreFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := new(MockAlertStore)
	svc := NewAlertService(store)

	existing := models.NewAlert(pikachu)
	existing.MaxPrice = 100
	store.On("ListAll", ctx).Return([]models.Alert{existing}, nil).Once()
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	before := svc.cache.All()

	store.On("Upsert", ctx, pikachu, mock.Anything).Return(nil, servicetest.ErrStoreDown).Once()
	store.On("Delete", ctx, pikachu).Return(false, servicetest.ErrStoreDown).Once()

	other := models.AlertKey{PokemonKey: "eevee", ChannelID: 10, UserID: 5}
	store.On("Upsert", ctx, other, mock.Anything).Return(nil, servicetest.ErrStoreDown).Once()

	_, err = svc.Upsert(ctx, pikachu, models.AlertPatch{MaxPrice: models.Set[int64](1)})
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)
	_, err = svc.Delete(ctx, pikachu)
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)
	_, err = svc.Upsert(ctx, other, models.AlertPatch{MaxPrice: models.Set[int64](1)})
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)

	assert.Equal(t, before, svc.cache.All())
	_, ok := svc.Cached(other)
	assert.False(t, ok)
	store.AssertExpectations(t)
}

func TestAlertService_GetFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	row := models.NewAlert(pikachu)
	row.MaxPrice = 70
	store.Seed(pikachu, row)

	_, ok := svc.Cached(pikachu)
	require.False(t, ok)

	got, err := svc.Get(ctx, pikachu)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(70), got.MaxPrice)

	cached, ok := svc.Cached(pikachu)
	assert.True(t, ok)
	assert.Equal(t, row, cached)

	missing, err := svc.Get(ctx, models.AlertKey{PokemonKey: "mew", ChannelID: 1, UserID: 1})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAlertService_Matching(t *testing.T) {
	ctx := context.Background()
	svc := NewAlertService(servicetest.NewAlertStore())

	upsert := func(user int64, price int64, notify bool) {
		_, err := svc.Upsert(ctx, models.AlertKey{PokemonKey: "pikachu", ChannelID: 10, UserID: user},
			models.AlertPatch{MaxPrice: models.Set(price), Notify: models.Set(notify)})
		require.NoError(t, err)
	}
	upsert(1, 500, true)
	upsert(2, 90, true)
	upsert(3, 1000, false)
	upsert(4, 100, true)
	_, err := svc.Upsert(ctx, models.AlertKey{PokemonKey: "eevee", ChannelID: 10, UserID: 1},
		models.AlertPatch{MaxPrice: models.Set[int64](1000)})
	require.NoError(t, err)

	matches := svc.Matching("pikachu", 100)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(4), matches[0].UserID)
	assert.Equal(t, int64(1), matches[1].UserID)

	assert.Len(t, svc.ForUser(1), 2)
}

func TestAlertService_ConcurrentUpsertsOnOneKey(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewAlertStore()
	svc := NewAlertService(store)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			patch := models.AlertPatch{MaxPrice: models.Set(int64(i))}
			if i%2 == 0 {
				patch.RoleID = models.Set(int64(i))
			} else {
				patch.RoleID = models.Null[int64]()
			}
			_, err := svc.Upsert(ctx, pikachu, patch)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, ok := store.Row(pikachu)
	require.True(t, ok)
	cached, ok := svc.Cached(pikachu)
	require.True(t, ok)
	assert.Equal(t, stored, cached)

	// Both fields must come from the same write
	if cached.MaxPrice%2 == 0 {
		require.NotNil(t, cached.RoleID)
		assert.Equal(t, cached.MaxPrice, *cached.RoleID)
	} else {
		assert.Nil(t, cached.RoleID)
	}
}

func TestAlertService_WriteThroughEquivalenceProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	keys := []models.AlertKey{
		pikachu,
		{PokemonKey: "pikachu", ChannelID: 11, UserID: 5},
		{PokemonKey: "eevee", ChannelID: 10, UserID: 5},
		{PokemonKey: "eevee", ChannelID: 10, UserID: 6},
	}

	properties.Property("cache lookups equal store reads after every op", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			store := servicetest.NewAlertStore()
			svc := NewAlertService(store)

			for _, op := range ops {
				key := keys[(op/3)%len(keys)]
				value := int64(op / 12)
				failing := value%7 == 3
				if failing {
					store.Fail(servicetest.ErrStoreDown)
				}
				before, hadBefore := svc.Cached(key)

				var err error
				switch op % 3 {
				case 0:
					_, err = svc.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set(value)})
				case 1:
					_, err = svc.Upsert(ctx, key, models.AlertPatch{Notify: models.Set(value%2 == 0), RoleID: models.Set(value)})
				case 2:
					_, err = svc.Delete(ctx, key)
				}
				store.Fail(nil)

				if failing {
					after, hasAfter := svc.Cached(key)
					if err == nil || hasAfter != hadBefore || after != before {
						return false
					}
					continue
				}
				if err != nil {
					return false
				}

				for _, k := range keys {
					cached, inCache := svc.Cached(k)
					stored, inStore := store.Row(k)
					if inCache != inStore {
						return false
					}
					if inCache && !reflect.DeepEqual(cached, stored) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
