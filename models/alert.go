package models

import (
	"errors"
	"fmt"
	"time"
)

// Alert is a market alert: ping a user when a pokemon is listed at or under a price
type Alert struct {
	UserID     int64     `db:"user_id"`
	PokemonKey string    `db:"pokemon_key"`
	DexNumber  int       `db:"dex_number"`
	MaxPrice   int64     `db:"max_price"`
	ChannelID  int64     `db:"channel_id"`
	RoleID     *int64    `db:"role_id"`
	Notify     bool      `db:"notify"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Clone returns a copy of a that shares no pointers with it
func (a Alert) Clone() Alert {
	c := a
	c.RoleID = clonePtr(a.RoleID)
	return c
}

// AlertKey identifies an alert. One user may hold alerts for the same
// pokemon in several channels.
type AlertKey struct {
	PokemonKey string
	ChannelID  int64
	UserID     int64
}

func (k AlertKey) String() string {
	return fmt.Sprintf("%s/%d/%d", k.PokemonKey, k.ChannelID, k.UserID)
}

// Validate rejects keys with a missing component
func (k AlertKey) Validate() error {
	if k.PokemonKey == "" || k.ChannelID == 0 || k.UserID == 0 {
		return fmt.Errorf("%w: alert %s", ErrInvalidKey, k)
	}
	return nil
}

// Key returns the natural key of the alert
func (a *Alert) Key() AlertKey {
	return AlertKey{PokemonKey: a.PokemonKey, ChannelID: a.ChannelID, UserID: a.UserID}
}

// AlertPatch lists the alert columns a caller wants to change
type AlertPatch struct {
	DexNumber Field[int]
	MaxPrice  Field[int64]
	RoleID    Field[int64]
	Notify    Field[bool]
}

// NewAlert returns an alert holding the column defaults for key
func NewAlert(key AlertKey) Alert {
	return Alert{
		UserID:     key.UserID,
		PokemonKey: key.PokemonKey,
		ChannelID:  key.ChannelID,
		Notify:     true,
	}
}

// Apply writes the supplied fields of p into a
func (a *Alert) Apply(p AlertPatch) error {
	next := *a
	err := errors.Join(
		p.DexNumber.ApplyValue(&next.DexNumber),
		p.MaxPrice.ApplyValue(&next.MaxPrice),
		p.Notify.ApplyValue(&next.Notify),
	)
	if err != nil {
		return err
	}
	p.RoleID.ApplyPtr(&next.RoleID)
	*a = next
	return nil
}

// Triggers reports whether a listing at price should notify this alert
func (a *Alert) Triggers(price int64) bool {
	return a.Notify && price <= a.MaxPrice
}
