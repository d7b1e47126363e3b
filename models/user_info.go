package models

import "time"

// UserInfo caches what Mew has learned about a trainer from PokéMeow output
type UserInfo struct {
	UserID    int64     `db:"user_id"`
	Username  *string   `db:"username"`
	Faction   *Faction  `db:"faction"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Clone returns a copy of u that shares no pointers with it
func (u UserInfo) Clone() UserInfo {
	c := u
	c.Username = clonePtr(u.Username)
	c.Faction = clonePtr(u.Faction)
	return c
}

// UserInfoPatch lists the user info columns a caller wants to change
type UserInfoPatch struct {
	Username Field[string]
	Faction  Field[Faction]
}

// Apply writes the supplied fields of p into u
func (u *UserInfo) Apply(p UserInfoPatch) error {
	p.Username.ApplyPtr(&u.Username)
	p.Faction.ApplyPtr(&u.Faction)
	return nil
}
