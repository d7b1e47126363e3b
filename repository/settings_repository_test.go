package repository

import (
	"context"
	"testing"

	"mew/models"
	"mew/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSettingsRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTimerSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.Upsert(ctx, 1, models.TimerPatch{Pokemon: models.Set(true)})
	require.NoError(t, err)
	assert.True(t, settings.Pokemon)
	assert.False(t, settings.Fish)
	assert.Equal(t, models.ReactTypeMessage, settings.ReactType)

	settings, err = repo.Upsert(ctx, 1, models.TimerPatch{Fish: models.Set(true), ReactType: models.Set(models.ReactTypeReaction)})
	require.NoError(t, err)
	assert.True(t, settings.Pokemon)
	assert.True(t, settings.Fish)
	assert.Equal(t, models.ReactTypeReaction, settings.ReactType)

	deleted, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUtilitySettingsRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUtilitySettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.Upsert(ctx, 1, models.UtilityPatch{Timezone: models.Set("Asia/Tokyo")})
	require.NoError(t, err)
	assert.True(t, settings.CatchbotRemind)
	assert.True(t, settings.QuestRemind)
	assert.False(t, settings.SpookyPing)
	assert.Equal(t, "Asia/Tokyo", *settings.Timezone)

	settings, err = repo.Upsert(ctx, 1, models.UtilityPatch{QuestRemind: models.Set(false)})
	require.NoError(t, err)
	assert.False(t, settings.QuestRemind)
	assert.Equal(t, "Asia/Tokyo", *settings.Timezone)

	settings, err = repo.Upsert(ctx, 1, models.UtilityPatch{Timezone: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, settings.Timezone)
	assert.False(t, settings.QuestRemind)
}

func TestUserInfoRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserInfoRepository(testDB.DB)
	ctx := context.Background()

	info, err := repo.Upsert(ctx, 1, models.UserInfoPatch{Username: models.Set("ash")})
	require.NoError(t, err)
	assert.Nil(t, info.Faction)

	info, err = repo.Upsert(ctx, 1, models.UserInfoPatch{Faction: models.Set(models.FactionMagma)})
	require.NoError(t, err)
	assert.Equal(t, "ash", *info.Username)
	assert.Equal(t, models.FactionMagma, *info.Faction)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
