package service

import (
	"context"

	"mew/events"
	"mew/models"
)

// AlertStore defines the interface for market alert data access
type AlertStore interface {
	// Upsert inserts the alert or updates only the supplied columns
	Upsert(ctx context.Context, key models.AlertKey, patch models.AlertPatch) (*models.Alert, error)

	// Get retrieves an alert, nil when absent
	Get(ctx context.Context, key models.AlertKey) (*models.Alert, error)

	// Delete removes an alert and reports whether a row went away
	Delete(ctx context.Context, key models.AlertKey) (bool, error)

	// ListAll returns every alert
	ListAll(ctx context.Context) ([]models.Alert, error)
}

// ChecklistStore defines the interface for checklist data access
type ChecklistStore interface {
	Upsert(ctx context.Context, key models.ChecklistKey, patch models.ChecklistPatch) (*models.ChecklistEntry, error)
	Get(ctx context.Context, key models.ChecklistKey) (*models.ChecklistEntry, error)
	Delete(ctx context.Context, key models.ChecklistKey) (bool, error)
	ListAll(ctx context.Context) ([]models.ChecklistEntry, error)
}

// ReminderStore defines the interface for reminder data access
type ReminderStore interface {
	// Create inserts a reminder with the next per-user ID
	Create(ctx context.Context, reminder models.NewReminder) (*models.Reminder, error)

	// Update changes the supplied columns, nil when the reminder is absent
	Update(ctx context.Context, key models.ReminderKey, patch models.ReminderPatch) (*models.Reminder, error)

	Get(ctx context.Context, key models.ReminderKey) (*models.Reminder, error)
	Delete(ctx context.Context, key models.ReminderKey) (bool, error)

	// DeleteByUser removes every reminder of a user
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	ListAll(ctx context.Context) ([]models.Reminder, error)
}

// ScheduleStore defines the interface for schedule data access
type ScheduleStore interface {
	Upsert(ctx context.Context, schedule models.Schedule) (*models.Schedule, error)
	Get(ctx context.Context, key models.ScheduleKey) (*models.Schedule, error)
	Delete(ctx context.Context, key models.ScheduleKey) (bool, error)
	ListAll(ctx context.Context) ([]models.Schedule, error)
}

// TimerSettingsStore defines the interface for timer toggle data access
type TimerSettingsStore interface {
	Upsert(ctx context.Context, userID int64, patch models.TimerPatch) (*models.TimerSettings, error)
	Get(ctx context.Context, userID int64) (*models.TimerSettings, error)
	ListAll(ctx context.Context) ([]models.TimerSettings, error)
}

// UtilitySettingsStore defines the interface for utility toggle data access
type UtilitySettingsStore interface {
	Upsert(ctx context.Context, userID int64, patch models.UtilityPatch) (*models.UtilitySettings, error)
	Get(ctx context.Context, userID int64) (*models.UtilitySettings, error)
	ListAll(ctx context.Context) ([]models.UtilitySettings, error)
}

// UserInfoStore defines the interface for user info data access
type UserInfoStore interface {
	Upsert(ctx context.Context, userID int64, patch models.UserInfoPatch) (*models.UserInfo, error)
	Get(ctx context.Context, userID int64) (*models.UserInfo, error)
	ListAll(ctx context.Context) ([]models.UserInfo, error)
}

// FactionBallStore defines the interface for faction ball data access
type FactionBallStore interface {
	// Set overwrites the supplied factions
	Set(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error)

	// Fill writes only the supplied factions that have no ball yet
	Fill(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error)

	// Get retrieves the row, nil when cleared
	Get(ctx context.Context) (*models.FactionBalls, error)

	// Clear removes the row
	Clear(ctx context.Context) (bool, error)
}

// BattleTowerStore defines the interface for battle tower registration data access
type BattleTowerStore interface {
	Register(ctx context.Context, userID, channelID int64) (*models.BattleTowerRegistration, error)
	Get(ctx context.Context, userID int64) (*models.BattleTowerRegistration, error)
	Delete(ctx context.Context, userID int64) (bool, error)
	ListAll(ctx context.Context) ([]models.BattleTowerRegistration, error)
}

// AuctionReminderStore defines the interface for auction reminder data access
type AuctionReminderStore interface {
	Upsert(ctx context.Context, reminder models.AuctionReminder) (*models.AuctionReminder, error)
	Get(ctx context.Context, key models.AuctionKey) (*models.AuctionReminder, error)
	Delete(ctx context.Context, key models.AuctionKey) (bool, error)
	ListAll(ctx context.Context) ([]models.AuctionReminder, error)
}

// SpookyHourStore defines the interface for spooky hour data access
type SpookyHourStore interface {
	Set(ctx context.Context, window models.SpookyHour) (*models.SpookyHour, error)
	Get(ctx context.Context) (*models.SpookyHour, error)
	Clear(ctx context.Context) (bool, error)
}

// MarketValueStore defines the interface for market value data access
type MarketValueStore interface {
	// Upsert min-merges true_lowest and overwrites every other supplied column
	Upsert(ctx context.Context, pokemonKey string, patch models.MarketPatch) (*models.MarketValue, error)
	Get(ctx context.Context, pokemonKey string) (*models.MarketValue, error)
	ListAll(ctx context.Context) ([]models.MarketValue, error)
}

// UserDataStore removes every row owned by a user
type UserDataStore interface {
	DeleteUser(ctx context.Context, userID int64) (map[string]int64, error)
}

// UnitOfWork manages a transaction spanning several tables
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserDataRepository() UserDataStore
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// EventPublisher queues events until the surrounding transaction commits
type EventPublisher interface {
	Publish(event events.Event)
}

// EventEmitter delivers events immediately
type EventEmitter interface {
	Emit(ctx context.Context, event events.Event)
}
