package service

import (
	"context"
	"testing"
	"time"

	"mew/events"
	"mew/models"
	"mew/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFactionBallService_FirstSightingWins(t *testing.T) {
	ctx := context.Background()
	svc := NewFactionBallService(&servicetest.FactionBallStore{}, nil)

	recorded, err := svc.Record(ctx, models.FactionRocket, "Great Ball")
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = svc.Record(ctx, models.FactionRocket, "Ultra Ball")
	require.NoError(t, err)
	assert.False(t, recorded)

	recorded, err = svc.Record(ctx, models.FactionAqua, "Net Ball")
	require.NoError(t, err)
	assert.True(t, recorded)

	ball, ok := svc.Ball(models.FactionRocket)
	assert.True(t, ok)
	assert.Equal(t, "Great Ball", ball)

	_, err = svc.Set(ctx, models.FactionRocket, "Ultra Ball")
	require.NoError(t, err)
	ball, _ = svc.Ball(models.FactionRocket)
	assert.Equal(t, "Ultra Ball", ball)

	_, err = svc.Unset(ctx, models.FactionAqua)
	require.NoError(t, err)
	_, ok = svc.Ball(models.FactionAqua)
	assert.False(t, ok)

	_, err = svc.Record(ctx, models.Faction("valor"), "Poke Ball")
	assert.ErrorIs(t, err, ErrUnknownFaction)
}

func TestFactionBallService_Reset(t *testing.T) {
	ctx := context.Background()
	emitter := new(MockEventEmitter)
	store := &servicetest.FactionBallStore{}
	svc := NewFactionBallService(store, emitter)
	now := time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)

	_, err := svc.Record(ctx, models.FactionSkull, "Dusk Ball")
	require.NoError(t, err)

	store.Fail(servicetest.ErrStoreDown)
	err = svc.Reset(ctx, now)
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)
	_, ok := svc.Ball(models.FactionSkull)
	assert.True(t, ok)
	emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	store.Fail(nil)

	emitter.On("Emit", ctx, events.FactionBallsResetEvent{ResetAt: now}).Return().Once()
	require.NoError(t, svc.Reset(ctx, now))
	_, ok = svc.Ball(models.FactionSkull)
	assert.False(t, ok)
	assert.Empty(t, svc.All().Balls)
	emitter.AssertExpectations(t)

	// A new day starts fresh
	recorded, err := svc.Record(ctx, models.FactionSkull, "Moon Ball")
	require.NoError(t, err)
	assert.True(t, recorded)
}

func TestFactionBallService_StoreFailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	store := new(MockFactionBallStore)
	svc := NewFactionBallService(store, nil)

	great := "Great Ball"
	store.On("Get", ctx).Return(&models.FactionBalls{Balls: map[models.Faction]*string{models.FactionYell: &great}}, nil)
	_, err := svc.Reload(ctx)
	require.NoError(t, err)

	store.On("Set", ctx, mock.Anything).Return(nil, servicetest.ErrStoreDown)
	_, err = svc.Set(ctx, models.FactionYell, "Ultra Ball")
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)

	ball, ok := svc.Ball(models.FactionYell)
	assert.True(t, ok)
	assert.Equal(t, "Great Ball", ball)
}

func TestSpookyHourService_Window(t *testing.T) {
	ctx := context.Background()
	svc := NewSpookyHourService(&servicetest.SpookyStore{})
	start := time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC)

	_, err := svc.Start(ctx, models.SpookyHour{StartsOn: start, EndsOn: start})
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.False(t, svc.Active(start))

	_, err = svc.Start(ctx, models.SpookyHour{StartsOn: start, EndsOn: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, svc.Active(start.Add(30*time.Minute)))
	assert.False(t, svc.Active(start.Add(time.Hour)))

	cleared, err := svc.ClearExpired(ctx, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, cleared)

	cleared, err = svc.ClearExpired(ctx, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, cleared)
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestSpookyHourService_ReloadPicksUpStoredWindow(t *testing.T) {
	ctx := context.Background()
	store := &servicetest.SpookyStore{}
	start := time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC)
	_, err := store.Set(ctx, models.SpookyHour{StartsOn: start, EndsOn: start.Add(time.Hour)})
	require.NoError(t, err)

	svc := NewSpookyHourService(store)
	res, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.True(t, svc.Active(start))

	_, err = store.Clear(ctx)
	require.NoError(t, err)
	res, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"singleton"}, res.Drift.Phantom)
	assert.False(t, svc.Active(start))
}
