package repository

import (
	"context"
	"testing"

	"mew/models"
	"mew/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertRepository_EndToEnd(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAlertRepository(testDB.DB)
	ctx := context.Background()
	key := testutil.AlertKey("pikachu", 10, 5)

	alert, err := repo.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](100)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), alert.MaxPrice)
	assert.True(t, alert.Notify)
	assert.Equal(t, 0, alert.DexNumber)
	assert.Nil(t, alert.RoleID)

	alert, err = repo.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](50)})
	require.NoError(t, err)
	assert.Equal(t, int64(50), alert.MaxPrice)
	assert.True(t, alert.Notify)

	fresh, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, alert, fresh)

	deleted, err := repo.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)

	gone, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAlertRepository_PartialUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAlertRepository(testDB.DB)
	ctx := context.Background()
	key := testutil.AlertKey("eevee", 10, 5)

	patch := testutil.AlertPatch(133, 1)
	patch.RoleID = models.Set[int64](2)
	_, err := repo.Upsert(ctx, key, patch)
	require.NoError(t, err)

	alert, err := repo.Upsert(ctx, key, models.AlertPatch{MaxPrice: models.Set[int64](5)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), alert.MaxPrice)
	assert.Equal(t, 133, alert.DexNumber)
	require.NotNil(t, alert.RoleID)
	assert.Equal(t, int64(2), *alert.RoleID)

	alert, err = repo.Upsert(ctx, key, models.AlertPatch{RoleID: models.Null[int64]()})
	require.NoError(t, err)
	assert.Nil(t, alert.RoleID)
	assert.Equal(t, int64(5), alert.MaxPrice)

	_, err = repo.Upsert(ctx, key, models.AlertPatch{Notify: models.Null[bool]()})
	assert.ErrorIs(t, err, models.ErrNullNotAllowed)

	// The empty patch returns the row unchanged
	same, err := repo.Upsert(ctx, key, models.AlertPatch{})
	require.NoError(t, err)
	assert.Equal(t, alert.MaxPrice, same.MaxPrice)
	assert.Equal(t, alert.DexNumber, same.DexNumber)
}

func TestAlertRepository_ListAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAlertRepository(testDB.DB)
	ctx := context.Background()

	for _, key := range []models.AlertKey{
		testutil.AlertKey("pikachu", 10, 1),
		testutil.AlertKey("pikachu", 11, 1),
		testutil.AlertKey("eevee", 10, 2),
	} {
		_, err := repo.Upsert(ctx, key, testutil.AlertPatch(25, 100))
		require.NoError(t, err)
	}

	alerts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}
