package service

import (
	"context"
	"sort"

	"mew/models"
)

// AlertService manages market alerts through a write-through list cache
type AlertService struct {
	*listDomain[models.AlertKey, models.Alert]
	store AlertStore
}

// NewAlertService creates a new alert service with an empty cache
func NewAlertService(store AlertStore) *AlertService {
	return &AlertService{
		listDomain: newListDomain("market_alerts",
			func(a *models.Alert) models.AlertKey { return a.Key() },
			func(a *models.Alert) int64 { return a.UserID },
			models.Alert.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Upsert creates the alert or changes only the fields set in patch
func (s *AlertService) Upsert(ctx context.Context, key models.AlertKey, patch models.AlertPatch) (*models.Alert, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if v, ok := patch.MaxPrice.Get(); ok && v < 0 {
		return nil, ErrNegativePrice
	}
	return s.put(ctx, "upsert", key, func(ctx context.Context) (*models.Alert, error) {
		return s.store.Upsert(ctx, key, patch)
	})
}

// Get returns the alert, consulting the store when it is not cached
func (s *AlertService) Get(ctx context.Context, key models.AlertKey) (*models.Alert, error) {
	return s.get(ctx, key, func(ctx context.Context) (*models.Alert, error) {
		return s.store.Get(ctx, key)
	})
}

// Cached returns the alert from memory only
func (s *AlertService) Cached(key models.AlertKey) (models.Alert, bool) {
	return s.cache.Get(key)
}

// ForUser returns the user's alerts in creation order
func (s *AlertService) ForUser(userID int64) []models.Alert {
	return s.cache.Owned(userID)
}

// Delete removes the alert and reports whether the store had it
func (s *AlertService) Delete(ctx context.Context, key models.AlertKey) (bool, error) {
	return s.delete(ctx, key, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, key)
	})
}

// Matching returns the enabled alerts a listing at price satisfies, cheapest limit first
func (s *AlertService) Matching(pokemonKey string, price int64) []models.Alert {
	matches := s.cache.Filter(func(a *models.Alert) bool {
		return a.PokemonKey == pokemonKey && a.Triggers(price)
	})
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MaxPrice < matches[j].MaxPrice
	})
	return matches
}
