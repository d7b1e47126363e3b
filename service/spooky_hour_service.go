package service

import (
	"context"
	"fmt"
	"time"

	"mew/models"
)

// SpookyHourService holds the window of the current spooky hour event
type SpookyHourService struct {
	*singletonDomain[models.SpookyHour]
	store SpookyHourStore
}

// NewSpookyHourService creates a new spooky hour service with an empty cache
func NewSpookyHourService(store SpookyHourStore) *SpookyHourService {
	return &SpookyHourService{
		singletonDomain: newSingletonDomain("spooky_hour", models.SpookyHour.Clone, store.Get),
		store:           store,
	}
}

// Start stores window as the current spooky hour
func (s *SpookyHourService) Start(ctx context.Context, window models.SpookyHour) (*models.SpookyHour, error) {
	if !window.EndsOn.After(window.StartsOn) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidWindow, window.StartsOn, window.EndsOn)
	}
	return s.set(ctx, "set", func(ctx context.Context) (*models.SpookyHour, error) {
		return s.store.Set(ctx, window)
	})
}

// Clear removes the stored window
func (s *SpookyHourService) Clear(ctx context.Context) (bool, error) {
	return s.clear(ctx, s.store.Clear)
}

// ClearExpired removes the window once it has ended and reports whether it did
func (s *SpookyHourService) ClearExpired(ctx context.Context, now time.Time) (bool, error) {
	window, ok := s.Current()
	if !ok || now.Before(window.EndsOn) {
		return false, nil
	}
	return s.Clear(ctx)
}

// Current returns the stored window
func (s *SpookyHourService) Current() (models.SpookyHour, bool) {
	return s.cache.Get()
}

// Active reports whether a spooky hour is running at now
func (s *SpookyHourService) Active(now time.Time) bool {
	window, ok := s.cache.Get()
	return ok && window.Active(now)
}
