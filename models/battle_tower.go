package models

import "time"

// BattleTowerRegistration opts a user into the weekly battle tower reset ping
type BattleTowerRegistration struct {
	UserID       int64     `db:"user_id"`
	ChannelID    int64     `db:"channel_id"`
	RegisteredAt time.Time `db:"registered_at"`
}
