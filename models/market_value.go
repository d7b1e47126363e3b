package models

import (
	"errors"
	"time"
)

// MarketValue tracks the observed market prices of one pokemon
type MarketValue struct {
	PokemonKey   string    `db:"pokemon_key"`
	DexNumber    int       `db:"dex_number"`
	LowestMarket *int64    `db:"lowest_market"` // lowest price on the latest listing page
	TrueLowest   *int64    `db:"true_lowest"`   // lowest price ever observed
	ListingSeen  *string   `db:"listing_seen"`  // last listing id seen
	UpdatedAt    time.Time `db:"updated_at"`
}

// Clone returns a copy of m that shares no pointers with it
func (m MarketValue) Clone() MarketValue {
	c := m
	c.LowestMarket = clonePtr(m.LowestMarket)
	c.TrueLowest = clonePtr(m.TrueLowest)
	c.ListingSeen = clonePtr(m.ListingSeen)
	return c
}

// MarketPatch lists the market columns a caller wants to change.
// TrueLowest is merged with the stored value by minimum, every other column is overwritten.
type MarketPatch struct {
	DexNumber    Field[int]
	LowestMarket Field[int64]
	TrueLowest   Field[int64]
	ListingSeen  Field[string]
}

// Apply writes the supplied fields of p into m
func (m *MarketValue) Apply(p MarketPatch) error {
	next := *m
	if err := p.DexNumber.ApplyValue(&next.DexNumber); err != nil {
		return err
	}
	p.LowestMarket.ApplyPtr(&next.LowestMarket)
	p.ListingSeen.ApplyPtr(&next.ListingSeen)
	if v, ok := p.TrueLowest.Get(); ok {
		if next.TrueLowest == nil || v < *next.TrueLowest {
			next.TrueLowest = &v
		}
	} else if p.TrueLowest.IsNull() {
		return errors.Join(ErrNullNotAllowed, errors.New("true_lowest is merge-only"))
	}
	*m = next
	return nil
}
