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

type purgeFixture struct {
	alerts    *AlertService
	reminders *ReminderService
	timers    *TimerService
	tower     *BattleTowerService
	purge     *PurgeService
}

func newPurgeFixture(t *testing.T, factory UnitOfWorkFactory) purgeFixture {
	t.Helper()
	ctx := context.Background()
	f := purgeFixture{
		alerts:    NewAlertService(servicetest.NewAlertStore()),
		reminders: NewReminderService(servicetest.NewReminderStore()),
		timers:    NewTimerService(servicetest.NewTimerStore()),
		tower:     NewBattleTowerService(servicetest.NewBattleTowerStore()),
	}
	f.purge = NewPurgeService(factory, f.alerts, NewChecklistService(servicetest.NewChecklistStore()), f.reminders,
		NewScheduleService(servicetest.NewScheduleStore()), f.timers, NewUtilityService(servicetest.NewUtilityStore()),
		NewUserInfoService(servicetest.NewUserInfoStore()), f.tower, NewAuctionService(servicetest.NewAuctionStore()))

	for _, user := range []int64{1, 2} {
		_, err := f.alerts.Upsert(ctx, models.AlertKey{PokemonKey: "pikachu", ChannelID: 10, UserID: user}, models.AlertPatch{})
		require.NoError(t, err)
		_, err = f.reminders.Add(ctx, models.NewReminder{UserID: user, Message: "hi", RemindOn: time.Now()})
		require.NoError(t, err)
		_, err = f.timers.Update(ctx, user, models.TimerPatch{Pokemon: models.Set(true)})
		require.NoError(t, err)
	}
	_, err := f.tower.Register(ctx, 1, 10)
	require.NoError(t, err)
	return f
}

func TestPurgeService_ForgetUser(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserData := new(MockUserDataStore)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(mockUserData, mockBus)

	removed := map[string]int64{"market_alerts": 1, "reminders": 1, "timer_settings": 1, "battle_tower_registrations": 1}
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserData.On("DeleteUser", ctx, int64(1)).Return(removed, nil)
	mockBus.On("Publish", events.UserDataPurgedEvent{UserID: 1, Removed: removed}).Return()

	f := newPurgeFixture(t, mockFactory)
	got, err := f.purge.ForgetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, removed, got)

	assert.Empty(t, f.alerts.ForUser(1))
	assert.Empty(t, f.reminders.ForUser(1))
	_, ok := f.timers.Cached(1)
	assert.False(t, ok)
	assert.False(t, f.tower.Registered(1))

	assert.Len(t, f.alerts.ForUser(2), 1)
	assert.Len(t, f.reminders.ForUser(2), 1)
	assert.True(t, f.timers.Enabled(2, models.TimerPokemon))

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserData.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestPurgeService_FailedDeleteLeavesCachesUntouched(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserData := new(MockUserDataStore)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(mockUserData, mockBus)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserData.On("DeleteUser", ctx, int64(1)).Return(nil, servicetest.ErrStoreDown)

	f := newPurgeFixture(t, mockFactory)
	_, err := f.purge.ForgetUser(ctx, 1)
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)

	assert.Len(t, f.alerts.ForUser(1), 1)
	assert.Len(t, f.reminders.ForUser(1), 1)
	assert.True(t, f.tower.Registered(1))

	mockUoW.AssertNotCalled(t, "Commit")
	mockBus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestPurgeService_FailedCommitLeavesCachesUntouched(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserData := new(MockUserDataStore)
	mockBus := new(MockEventPublisher)
	mockUoW.SetRepositories(mockUserData, mockBus)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(servicetest.ErrStoreDown)
	mockUoW.On("Rollback").Return(nil)
	mockUserData.On("DeleteUser", ctx, int64(1)).Return(map[string]int64{"market_alerts": 1}, nil)
	mockBus.On("Publish", mock.Anything).Return()

	f := newPurgeFixture(t, mockFactory)
	_, err := f.purge.ForgetUser(ctx, 1)
	assert.ErrorIs(t, err, servicetest.ErrStoreDown)
	assert.Len(t, f.alerts.ForUser(1), 1)
}
