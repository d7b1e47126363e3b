package models

import (
	"fmt"
	"time"
)

// ScheduleType names a game cooldown Mew tracks for a user
type ScheduleType string

const (
	ScheduleTypeCatchbot ScheduleType = "catchbot"
	ScheduleTypeQuest    ScheduleType = "quest"
	ScheduleTypeDaycare  ScheduleType = "daycare"
	ScheduleTypeLootbox  ScheduleType = "lootbox"
)

// Valid reports whether t is a known schedule type
func (t ScheduleType) Valid() bool {
	switch t {
	case ScheduleTypeCatchbot, ScheduleTypeQuest, ScheduleTypeDaycare, ScheduleTypeLootbox:
		return true
	}
	return false
}

// Schedule is the single pending notification of one type for a user
type Schedule struct {
	UserID      int64        `db:"user_id"`
	Type        ScheduleType `db:"type"`
	ScheduledOn time.Time    `db:"scheduled_on"`
	ChannelID   *int64       `db:"channel_id"`
}

// Clone returns a copy of s that shares no pointers with it
func (s Schedule) Clone() Schedule {
	c := s
	c.ChannelID = clonePtr(s.ChannelID)
	return c
}

// ScheduleKey identifies a schedule
type ScheduleKey struct {
	UserID int64
	Type   ScheduleType
}

func (k ScheduleKey) String() string {
	return fmt.Sprintf("%d/%s", k.UserID, k.Type)
}

// Validate rejects keys with a missing or unknown component
func (k ScheduleKey) Validate() error {
	if k.UserID == 0 || !k.Type.Valid() {
		return fmt.Errorf("%w: schedule %s", ErrInvalidKey, k)
	}
	return nil
}

// Key returns the natural key of the schedule
func (s *Schedule) Key() ScheduleKey {
	return ScheduleKey{UserID: s.UserID, Type: s.Type}
}

// Due reports whether the schedule should fire at now
func (s *Schedule) Due(now time.Time) bool {
	return !s.ScheduledOn.After(now)
}
