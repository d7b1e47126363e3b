package service

import (
	"context"
	"sort"

	"mew/models"
)

// BattleTowerService manages the users who want the weekly battle tower ping
type BattleTowerService struct {
	*mapDomain[int64, models.BattleTowerRegistration]
	store BattleTowerStore
}

// NewBattleTowerService creates a new battle tower service with an empty cache
func NewBattleTowerService(store BattleTowerStore) *BattleTowerService {
	return &BattleTowerService{
		mapDomain: newMapDomain("battle_tower_registrations",
			func(r *models.BattleTowerRegistration) int64 { return r.UserID },
			nil,
			store.ListAll,
		),
		store: store,
	}
}

// Register subscribes the user, moving an existing registration to channelID
func (s *BattleTowerService) Register(ctx context.Context, userID, channelID int64) (*models.BattleTowerRegistration, error) {
	if userID == 0 || channelID == 0 {
		return nil, models.ErrInvalidKey
	}
	return s.put(ctx, "register", userID, func(ctx context.Context) (*models.BattleTowerRegistration, error) {
		return s.store.Register(ctx, userID, channelID)
	})
}

// Unregister removes the user's registration and reports whether there was one
func (s *BattleTowerService) Unregister(ctx context.Context, userID int64) (bool, error) {
	return s.delete(ctx, userID, func(ctx context.Context) (bool, error) {
		return s.store.Delete(ctx, userID)
	})
}

// Registered reports whether the user is subscribed
func (s *BattleTowerService) Registered(userID int64) bool {
	_, ok := s.cache.Get(userID)
	return ok
}

// Registrations returns every registration, oldest first
func (s *BattleTowerService) Registrations() []models.BattleTowerRegistration {
	regs := s.snapshot()
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].RegisteredAt.Equal(regs[j].RegisteredAt) {
			return regs[i].UserID < regs[j].UserID
		}
		return regs[i].RegisteredAt.Before(regs[j].RegisteredAt)
	})
	return regs
}

func (s *BattleTowerService) dropUser(userID int64) int {
	if s.cache.Delete(userID) {
		return 1
	}
	return 0
}
