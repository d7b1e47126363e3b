package service

import (
	"context"
	"sort"
	"time"

	"mew/models"

	log "github.com/sirupsen/logrus"
)

// ReminderService manages user reminders through a write-through list cache
type ReminderService struct {
	*listDomain[models.ReminderKey, models.Reminder]
	store ReminderStore
}

// NewReminderService creates a new reminder service with an empty cache
func NewReminderService(store ReminderStore) *ReminderService {
	return &ReminderService{
		listDomain: newListDomain("reminders",
			func(r *models.Reminder) models.ReminderKey { return r.Key() },
			func(r *models.Reminder) int64 { return r.UserID },
			models.Reminder.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Add stores a new reminder. The store assigns the next per-user ID.
func (s *ReminderService) Add(ctx context.Context, n models.NewReminder) (*models.Reminder, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	// ID 0 never names a stored reminder, so this serializes a user's inserts without blocking their updates
	return s.put(ctx, "create", models.ReminderKey{UserID: n.UserID}, func(ctx context.Context) (*models.Reminder, error) {
		return s.store.Create(ctx, n)
	})
}

// Update changes only the fields set in patch. A reminder the store no
// longer has returns nil and is dropped from the cache.
func (s *ReminderService) Update(ctx context.Context, key models.ReminderKey, patch models.ReminderPatch) (*models.Reminder, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if v, ok := patch.RepeatInterval.Get(); ok && v <= 0 {
		return nil, ErrInvalidInterval
	}
	return s.put(ctx, "update", key, func(ctx context.Context) (*models.Reminder, error) {
		return s.store.Update(ctx, key, patch)
	})
}

// Get returns the reminder, consulting the store when it is not cached
func (s *ReminderService) Get(ctx context.Context, key models.ReminderKey) (*models.Reminder, error) {
	return s.get(ctx, key, func(ctx context.Context) (*models.Reminder, error) {
		return s.store.Get(ctx, key)
	})
}

// Cached returns the reminder from memory only
func (s *ReminderService) Cached(key models.ReminderKey) (models.Reminder, bool) {
	return s.cache.Get(key)
}

// ForUser returns the user's reminders ordered by ID
func (s *ReminderService) ForUser(userID int64) []models.Reminder {
	reminders := s.cache.Owned(userID)
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].UserReminderID < reminders[j].UserReminderID
	})
	return reminders
}

// Delete removes the reminder and reports whether the store had it
func (s *ReminderService) Delete(ctx context.Context, key models.ReminderKey) (bool, error) {
	return s.delete(ctx, key, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, key)
	})
}

// DeleteAllForUser removes every reminder of a user and returns how many the store held
func (s *ReminderService) DeleteAllForUser(ctx context.Context, userID int64) (int64, error) {
	unlock := s.locks.LockAll()
	defer unlock()

	return writeThrough(ctx, s.Name(), "delete_user", keyString(userID), func(ctx context.Context) (int64, error) {
		return s.store.DeleteByUser(ctx, userID)
	}, func(int64) {
		s.cache.DeleteOwner(userID)
	})
}

// Due returns the reminders whose time has come, oldest first
func (s *ReminderService) Due(now time.Time) []models.Reminder {
	due := s.cache.Filter(func(r *models.Reminder) bool { return r.Due(now) })
	sort.Slice(due, func(i, j int) bool {
		return due[i].RemindOn.Before(due[j].RemindOn)
	})
	return due
}

// Acknowledge retires a delivered reminder: a repeating one moves to its next
// occurrence after now, a one-shot one is deleted. It returns the rescheduled
// reminder, or nil once deleted.
func (s *ReminderService) Acknowledge(ctx context.Context, r models.Reminder, now time.Time) (*models.Reminder, error) {
	key := r.Key()
	next, repeats := r.NextOccurrence(now)
	if !repeats {
		_, err := s.Delete(ctx, key)
		return nil, err
	}

	updated, err := s.Update(ctx, key, models.ReminderPatch{RemindOn: models.Set(next)})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"key":     key.String(),
		"next_on": next,
	}).Debug("Rescheduled repeating reminder")
	return updated, nil
}
