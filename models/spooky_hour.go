package models

import "time"

// SpookyHour is the singleton window of the current spooky hour event
type SpookyHour struct {
	StartsOn  time.Time `db:"starts_on"`
	EndsOn    time.Time `db:"ends_on"`
	ChannelID *int64    `db:"channel_id"`
}

// Clone returns a copy of s that shares no pointers with it
func (s SpookyHour) Clone() SpookyHour {
	c := s
	c.ChannelID = clonePtr(s.ChannelID)
	return c
}

// Active reports whether now falls inside the window
func (s *SpookyHour) Active(now time.Time) bool {
	if s == nil {
		return false
	}
	return !now.Before(s.StartsOn) && now.Before(s.EndsOn)
}
