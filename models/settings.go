package models

import (
	"errors"
	"time"
)

// ReactType controls how a cooldown timer notifies a user
type ReactType string

const (
	ReactTypeMessage  ReactType = "message"
	ReactTypeReaction ReactType = "reaction"
)

// TimerSettings toggles the in-channel cooldown pings per game command
type TimerSettings struct {
	UserID    int64     `db:"user_id"`
	Pokemon   bool      `db:"pokemon"`
	Fish      bool      `db:"fish"`
	Battle    bool      `db:"battle"`
	Explore   bool      `db:"explore"`
	ReactType ReactType `db:"react_type"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewTimerSettings returns the column defaults for a user
func NewTimerSettings(userID int64) TimerSettings {
	return TimerSettings{UserID: userID, ReactType: ReactTypeMessage}
}

// Enabled reports whether the timer for kind is switched on
func (t *TimerSettings) Enabled(kind TimerKind) bool {
	switch kind {
	case TimerPokemon:
		return t.Pokemon
	case TimerFish:
		return t.Fish
	case TimerBattle:
		return t.Battle
	case TimerExplore:
		return t.Explore
	}
	return false
}

// TimerKind names one of the game commands with a cooldown
type TimerKind string

const (
	TimerPokemon TimerKind = "pokemon"
	TimerFish    TimerKind = "fish"
	TimerBattle  TimerKind = "battle"
	TimerExplore TimerKind = "explore"
)

// TimerPatch lists the timer columns a caller wants to change
type TimerPatch struct {
	Pokemon   Field[bool]
	Fish      Field[bool]
	Battle    Field[bool]
	Explore   Field[bool]
	ReactType Field[ReactType]
}

// Apply writes the supplied fields of p into t
func (t *TimerSettings) Apply(p TimerPatch) error {
	next := *t
	err := errors.Join(
		p.Pokemon.ApplyValue(&next.Pokemon),
		p.Fish.ApplyValue(&next.Fish),
		p.Battle.ApplyValue(&next.Battle),
		p.Explore.ApplyValue(&next.Explore),
		p.ReactType.ApplyValue(&next.ReactType),
	)
	if err != nil {
		return err
	}
	*t = next
	return nil
}

// UtilitySettings holds the per-user toggles for game reminders
type UtilitySettings struct {
	UserID         int64     `db:"user_id"`
	CatchbotRemind bool      `db:"catchbot_remind"`
	QuestRemind    bool      `db:"quest_remind"`
	SpookyPing     bool      `db:"spooky_ping"`
	Timezone       *string   `db:"timezone"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Clone returns a copy of u that shares no pointers with it
func (u UtilitySettings) Clone() UtilitySettings {
	c := u
	c.Timezone = clonePtr(u.Timezone)
	return c
}

// NewUtilitySettings returns the column defaults for a user
func NewUtilitySettings(userID int64) UtilitySettings {
	return UtilitySettings{UserID: userID, CatchbotRemind: true, QuestRemind: true}
}

// Reminds reports whether a schedule of type t should be stored for this user
func (u *UtilitySettings) Reminds(t ScheduleType) bool {
	switch t {
	case ScheduleTypeCatchbot:
		return u.CatchbotRemind
	case ScheduleTypeQuest:
		return u.QuestRemind
	}
	return true
}

// Location returns the user's timezone, or fallback when unset or unknown
func (u *UtilitySettings) Location(fallback *time.Location) *time.Location {
	if u.Timezone == nil {
		return fallback
	}
	loc, err := time.LoadLocation(*u.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// UtilityPatch lists the utility columns a caller wants to change
type UtilityPatch struct {
	CatchbotRemind Field[bool]
	QuestRemind    Field[bool]
	SpookyPing     Field[bool]
	Timezone       Field[string]
}

// Apply writes the supplied fields of p into u
func (u *UtilitySettings) Apply(p UtilityPatch) error {
	next := *u
	err := errors.Join(
		p.CatchbotRemind.ApplyValue(&next.CatchbotRemind),
		p.QuestRemind.ApplyValue(&next.QuestRemind),
		p.SpookyPing.ApplyValue(&next.SpookyPing),
	)
	if err != nil {
		return err
	}
	p.Timezone.ApplyPtr(&next.Timezone)
	*u = next
	return nil
}
