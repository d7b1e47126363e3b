package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mew/models"
)

// ScheduleService manages pending game cooldown notifications through a write-through list cache
type ScheduleService struct {
	*listDomain[models.ScheduleKey, models.Schedule]
	store ScheduleStore
}

// NewScheduleService creates a new schedule service with an empty cache
func NewScheduleService(store ScheduleStore) *ScheduleService {
	return &ScheduleService{
		listDomain: newListDomain("schedules",
			func(s *models.Schedule) models.ScheduleKey { return s.Key() },
			func(s *models.Schedule) int64 { return s.UserID },
			models.Schedule.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Set stores the schedule, replacing the pending one of the same type
func (s *ScheduleService) Set(ctx context.Context, schedule models.Schedule) (*models.Schedule, error) {
	key := schedule.Key()
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if schedule.ScheduledOn.IsZero() {
		return nil, fmt.Errorf("%w: %s has no time", ErrInvalidSchedule, key)
	}
	return s.put(ctx, "upsert", key, func(ctx context.Context) (*models.Schedule, error) {
		return s.store.Upsert(ctx, schedule)
	})
}

// Get returns the schedule, consulting the store when it is not cached
func (s *ScheduleService) Get(ctx context.Context, key models.ScheduleKey) (*models.Schedule, error) {
	return s.get(ctx, key, func(ctx context.Context) (*models.Schedule, error) {
		return s.store.Get(ctx, key)
	})
}

// Cached returns the schedule from memory only
func (s *ScheduleService) Cached(key models.ScheduleKey) (models.Schedule, bool) {
	return s.cache.Get(key)
}

// ForUser returns the user's pending schedules
func (s *ScheduleService) ForUser(userID int64) []models.Schedule {
	return s.cache.Owned(userID)
}

// Due returns the schedules whose time has come, oldest first
func (s *ScheduleService) Due(now time.Time) []models.Schedule {
	due := s.cache.Filter(func(sc *models.Schedule) bool { return sc.Due(now) })
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledOn.Before(due[j].ScheduledOn)
	})
	return due
}

// Complete removes a delivered or cancelled schedule
func (s *ScheduleService) Complete(ctx context.Context, key models.ScheduleKey) (bool, error) {
	return s.delete(ctx, key, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, key)
	})
}
