package service

import (
	"context"

	"mew/models"
)

// ChecklistService manages missing-pokemon checklists through a write-through list cache
type ChecklistService struct {
	*listDomain[models.ChecklistKey, models.ChecklistEntry]
	store ChecklistStore
}

// NewChecklistService creates a new checklist service with an empty cache
func NewChecklistService(store ChecklistStore) *ChecklistService {
	return &ChecklistService{
		listDomain: newListDomain("missing_pokemon",
			func(c *models.ChecklistEntry) models.ChecklistKey { return c.Key() },
			func(c *models.ChecklistEntry) int64 { return c.UserID },
			models.ChecklistEntry.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Upsert creates the entry or changes only the fields set in patch
func (s *ChecklistService) Upsert(ctx context.Context, key models.ChecklistKey, patch models.ChecklistPatch) (*models.ChecklistEntry, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return s.put(ctx, "upsert", key, func(ctx context.Context) (*models.ChecklistEntry, error) {
		return s.store.Upsert(ctx, key, patch)
	})
}

// Get returns the entry, consulting the store when it is not cached
func (s *ChecklistService) Get(ctx context.Context, key models.ChecklistKey) (*models.ChecklistEntry, error) {
	return s.get(ctx, key, func(ctx context.Context) (*models.ChecklistEntry, error) {
		return s.store.Get(ctx, key)
	})
}

// Cached returns the entry from memory only
func (s *ChecklistService) Cached(key models.ChecklistKey) (models.ChecklistEntry, bool) {
	return s.cache.Get(key)
}

// ForUser returns the user's checklist
func (s *ChecklistService) ForUser(userID int64) []models.ChecklistEntry {
	return s.cache.Owned(userID)
}

// Delete removes the entry and reports whether the store had it
func (s *ChecklistService) Delete(ctx context.Context, key models.ChecklistKey) (bool, error) {
	return s.delete(ctx, key, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, key)
	})
}

// Missing returns every entry for a dex number, i.e. who to ping when it spawns
func (s *ChecklistService) Missing(dexNumber int) []models.ChecklistEntry {
	return s.cache.Filter(func(c *models.ChecklistEntry) bool {
		return c.DexNumber == dexNumber
	})
}
