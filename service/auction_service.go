package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mew/models"
)

// AuctionService manages auction end reminders through a write-through list cache
type AuctionService struct {
	*listDomain[models.AuctionKey, models.AuctionReminder]
	store AuctionReminderStore
}

// NewAuctionService creates a new auction service with an empty cache
func NewAuctionService(store AuctionReminderStore) *AuctionService {
	return &AuctionService{
		listDomain: newListDomain("auction_reminders",
			func(a *models.AuctionReminder) models.AuctionKey { return a.Key() },
			func(a *models.AuctionReminder) int64 { return a.UserID },
			nil,
			store.ListAll,
		),
		store: store,
	}
}

// Remind stores a reminder for an auction, replacing the user's previous one for it
func (s *AuctionService) Remind(ctx context.Context, reminder models.AuctionReminder) (*models.AuctionReminder, error) {
	key := reminder.Key()
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if reminder.EndsOn.IsZero() || reminder.ChannelID == 0 {
		return nil, fmt.Errorf("%w: auction %s needs an end time and a channel", ErrInvalidSchedule, key)
	}
	return s.put(ctx, "upsert", key, func(ctx context.Context) (*models.AuctionReminder, error) {
		return s.store.Upsert(ctx, reminder)
	})
}

// Cached returns the reminder from memory only
func (s *AuctionService) Cached(key models.AuctionKey) (models.AuctionReminder, bool) {
	return s.cache.Get(key)
}

// ForUser returns the user's auction reminders
func (s *AuctionService) ForUser(userID int64) []models.AuctionReminder {
	return s.cache.Owned(userID)
}

// Due returns the reminders whose auction ends within lead of now, soonest first
func (s *AuctionService) Due(now time.Time, lead time.Duration) []models.AuctionReminder {
	due := s.cache.Filter(func(a *models.AuctionReminder) bool { return a.Due(now, lead) })
	sort.Slice(due, func(i, j int) bool {
		return due[i].EndsOn.Before(due[j].EndsOn)
	})
	return due
}

// Delete removes the reminder and reports whether the store had it
func (s *AuctionService) Delete(ctx context.Context, key models.AuctionKey) (bool, error) {
	return s.delete(ctx, key, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, key)
	})
}
