package service

import (
	"context"
	"fmt"

	"mew/events"
	"mew/models"
)

// Listing is one market offer read from a PokéMeow market page
type Listing struct {
	ID         string
	PokemonKey string
	DexNumber  int
	Price      int64
}

// MarketService tracks observed market prices per pokemon
type MarketService struct {
	*mapDomain[string, models.MarketValue]
	store   MarketValueStore
	emitter EventEmitter
}

// NewMarketService creates a new market service with an empty cache
func NewMarketService(store MarketValueStore, emitter EventEmitter) *MarketService {
	return &MarketService{
		mapDomain: newMapDomain("market_values",
			func(m *models.MarketValue) string { return m.PokemonKey },
			models.MarketValue.Clone,
			store.ListAll,
		),
		store:   store,
		emitter: emitter,
	}
}

// Upsert writes the supplied market columns. TrueLowest only ever decreases.
func (s *MarketService) Upsert(ctx context.Context, pokemonKey string, patch models.MarketPatch) (*models.MarketValue, error) {
	if pokemonKey == "" {
		return nil, models.ErrInvalidKey
	}
	if v, ok := patch.TrueLowest.Get(); ok && v < 0 {
		return nil, ErrNegativePrice
	}
	return s.put(ctx, "upsert", pokemonKey, func(ctx context.Context) (*models.MarketValue, error) {
		return s.store.Upsert(ctx, pokemonKey, patch)
	})
}

// RecordListing folds one observed listing into the pokemon's market value
func (s *MarketService) RecordListing(ctx context.Context, l Listing) (*models.MarketValue, error) {
	if l.Price < 0 {
		return nil, fmt.Errorf("%w: listing %s", ErrNegativePrice, l.ID)
	}
	patch := models.MarketPatch{
		LowestMarket: models.Set(l.Price),
		TrueLowest:   models.Set(l.Price),
		ListingSeen:  models.Set(l.ID),
	}
	if l.DexNumber > 0 {
		patch.DexNumber = models.Set(l.DexNumber)
	}
	v, err := s.Upsert(ctx, l.PokemonKey, patch)
	if err != nil {
		return nil, err
	}
	emit(ctx, s.emitter, events.ListingObservedEvent{
		ListingID:  l.ID,
		PokemonKey: l.PokemonKey,
		DexNumber:  v.DexNumber,
		Price:      l.Price,
		TrueLowest: derefOr(v.TrueLowest, l.Price),
	})
	return v, nil
}

// RecordPage folds a market page into the market values: each pokemon's
// lowest_market becomes the cheapest price on the page. Listings are
// recorded in page order and the first error stops the page.
func (s *MarketService) RecordPage(ctx context.Context, listings []Listing) ([]models.MarketValue, error) {
	cheapest := make(map[string]Listing)
	var order []string
	for _, l := range listings {
		c, seen := cheapest[l.PokemonKey]
		if !seen {
			order = append(order, l.PokemonKey)
		}
		if !seen || l.Price < c.Price {
			cheapest[l.PokemonKey] = l
		}
	}

	out := make([]models.MarketValue, 0, len(order))
	for _, key := range order {
		v, err := s.RecordListing(ctx, cheapest[key])
		if err != nil {
			return out, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Get returns the market value, consulting the store when it is not cached
func (s *MarketService) Get(ctx context.Context, pokemonKey string) (*models.MarketValue, error) {
	return s.get(ctx, pokemonKey, func(ctx context.Context) (*models.MarketValue, error) {
		return s.store.Get(ctx, pokemonKey)
	})
}

// Cached returns the market value from memory only
func (s *MarketService) Cached(pokemonKey string) (models.MarketValue, bool) {
	return s.cache.Get(pokemonKey)
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
