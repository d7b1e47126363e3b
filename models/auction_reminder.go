package models

import (
	"fmt"
	"time"
)

// AuctionReminder pings a user shortly before a PokéMeow auction ends
type AuctionReminder struct {
	AuctionID int64     `db:"auction_id"`
	UserID    int64     `db:"user_id"`
	Pokemon   string    `db:"pokemon"`
	EndsOn    time.Time `db:"ends_on"`
	ChannelID int64     `db:"channel_id"`
}

// AuctionKey identifies an auction reminder
type AuctionKey struct {
	AuctionID int64
	UserID    int64
}

func (k AuctionKey) String() string {
	return fmt.Sprintf("%d/%d", k.AuctionID, k.UserID)
}

// Validate rejects keys with a missing component
func (k AuctionKey) Validate() error {
	if k.AuctionID == 0 || k.UserID == 0 {
		return fmt.Errorf("%w: auction %s", ErrInvalidKey, k)
	}
	return nil
}

// Key returns the natural key of the reminder
func (a *AuctionReminder) Key() AuctionKey {
	return AuctionKey{AuctionID: a.AuctionID, UserID: a.UserID}
}

// Due reports whether the reminder should fire at now given a lead time
func (a *AuctionReminder) Due(now time.Time, lead time.Duration) bool {
	return !a.EndsOn.Add(-lead).After(now)
}
