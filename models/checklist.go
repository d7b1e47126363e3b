package models

import "fmt"

// ChecklistEntry marks a pokemon missing from a user's dex
type ChecklistEntry struct {
	UserID      int64  `db:"user_id"`
	DexNumber   int    `db:"dex_number"`
	PokemonName string `db:"pokemon_name"`
	ChannelID   *int64 `db:"channel_id"`
	RoleID      *int64 `db:"role_id"`
}

// Clone returns a copy of e that shares no pointers with it
func (e ChecklistEntry) Clone() ChecklistEntry {
	c := e
	c.ChannelID = clonePtr(e.ChannelID)
	c.RoleID = clonePtr(e.RoleID)
	return c
}

// ChecklistKey identifies a checklist entry, one per user per dex number
type ChecklistKey struct {
	UserID    int64
	DexNumber int
}

func (k ChecklistKey) String() string {
	return fmt.Sprintf("%d/#%d", k.UserID, k.DexNumber)
}

// Validate rejects keys with a missing component
func (k ChecklistKey) Validate() error {
	if k.UserID == 0 || k.DexNumber <= 0 {
		return fmt.Errorf("%w: checklist %s", ErrInvalidKey, k)
	}
	return nil
}

// Key returns the natural key of the entry
func (c *ChecklistEntry) Key() ChecklistKey {
	return ChecklistKey{UserID: c.UserID, DexNumber: c.DexNumber}
}

// ChecklistPatch lists the checklist columns a caller wants to change
type ChecklistPatch struct {
	PokemonName Field[string]
	ChannelID   Field[int64]
	RoleID      Field[int64]
}

// NewChecklistEntry returns an entry holding the column defaults for key
func NewChecklistEntry(key ChecklistKey) ChecklistEntry {
	return ChecklistEntry{UserID: key.UserID, DexNumber: key.DexNumber}
}

// Apply writes the supplied fields of p into c
func (c *ChecklistEntry) Apply(p ChecklistPatch) error {
	next := *c
	if err := p.PokemonName.ApplyValue(&next.PokemonName); err != nil {
		return err
	}
	p.ChannelID.ApplyPtr(&next.ChannelID)
	p.RoleID.ApplyPtr(&next.RoleID)
	*c = next
	return nil
}
