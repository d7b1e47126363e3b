package models

import (
	"fmt"
	"time"
)

// Reminder is a user-created reminder, optionally repeating
type Reminder struct {
	UserID         int64     `db:"user_id"`
	UserReminderID int       `db:"user_reminder_id"` // per-user sequence assigned at insert
	Message        string    `db:"message"`
	RemindOn       time.Time `db:"remind_on"`
	RepeatInterval *int64    `db:"repeat_interval"` // seconds, nil for one-shot reminders
	ChannelID      *int64    `db:"channel_id"`      // nil delivers by DM
	CreatedAt      time.Time `db:"created_at"`
}

// Clone returns a copy of r that shares no pointers with it
func (r Reminder) Clone() Reminder {
	c := r
	c.RepeatInterval = clonePtr(r.RepeatInterval)
	c.ChannelID = clonePtr(r.ChannelID)
	return c
}

// ReminderKey identifies a reminder
type ReminderKey struct {
	UserID         int64
	UserReminderID int
}

func (k ReminderKey) String() string {
	return fmt.Sprintf("%d/%d", k.UserID, k.UserReminderID)
}

// Validate rejects keys with a missing component
func (k ReminderKey) Validate() error {
	if k.UserID == 0 || k.UserReminderID <= 0 {
		return fmt.Errorf("%w: reminder %s", ErrInvalidKey, k)
	}
	return nil
}

// Key returns the natural key of the reminder
func (r *Reminder) Key() ReminderKey {
	return ReminderKey{UserID: r.UserID, UserReminderID: r.UserReminderID}
}

// NewReminder is the input for a reminder insert; the ID is assigned by the store
type NewReminder struct {
	UserID         int64
	Message        string
	RemindOn       time.Time
	RepeatInterval *int64
	ChannelID      *int64
}

// Validate checks the fields a reminder cannot be stored without
func (n NewReminder) Validate() error {
	if n.UserID == 0 {
		return fmt.Errorf("%w: reminder owner", ErrInvalidKey)
	}
	if n.Message == "" {
		return fmt.Errorf("reminder message is required")
	}
	if n.RemindOn.IsZero() {
		return fmt.Errorf("reminder time is required")
	}
	if n.RepeatInterval != nil && *n.RepeatInterval <= 0 {
		return fmt.Errorf("repeat interval must be positive")
	}
	return nil
}

// ReminderPatch lists the reminder columns a caller wants to change
type ReminderPatch struct {
	Message        Field[string]
	RemindOn       Field[time.Time]
	RepeatInterval Field[int64]
	ChannelID      Field[int64]
}

// Apply writes the supplied fields of p into r
func (r *Reminder) Apply(p ReminderPatch) error {
	next := *r
	if err := p.Message.ApplyValue(&next.Message); err != nil {
		return err
	}
	if err := p.RemindOn.ApplyValue(&next.RemindOn); err != nil {
		return err
	}
	p.RepeatInterval.ApplyPtr(&next.RepeatInterval)
	p.ChannelID.ApplyPtr(&next.ChannelID)
	*r = next
	return nil
}

// Due reports whether the reminder should fire at now
func (r *Reminder) Due(now time.Time) bool {
	return !r.RemindOn.After(now)
}

// NextOccurrence returns the first repeat strictly after now, skipping
// occurrences missed while the bot was offline. ok is false for one-shot reminders.
func (r *Reminder) NextOccurrence(now time.Time) (time.Time, bool) {
	if r.RepeatInterval == nil || *r.RepeatInterval <= 0 {
		return time.Time{}, false
	}
	interval := time.Duration(*r.RepeatInterval) * time.Second
	next := r.RemindOn.Add(interval)
	if !next.After(now) {
		missed := now.Sub(next)/interval + 1
		next = next.Add(missed * interval)
	}
	return next, true
}
