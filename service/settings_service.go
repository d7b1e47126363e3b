package service

import (
	"context"
	"sort"

	"mew/models"
)

// TimerService manages the per-user cooldown timer toggles
type TimerService struct {
	*mapDomain[int64, models.TimerSettings]
	store TimerSettingsStore
}

// NewTimerService creates a new timer service with an empty cache
func NewTimerService(store TimerSettingsStore) *TimerService {
	return &TimerService{
		mapDomain: newMapDomain("timer_settings",
			func(t *models.TimerSettings) int64 { return t.UserID },
			nil,
			store.ListAll,
		),
		store: store,
	}
}

// Update changes only the toggles set in patch, creating the row on first use
func (s *TimerService) Update(ctx context.Context, userID int64, patch models.TimerPatch) (*models.TimerSettings, error) {
	if userID == 0 {
		return nil, models.ErrInvalidKey
	}
	if rt, ok := patch.ReactType.Get(); ok && rt != models.ReactTypeMessage && rt != models.ReactTypeReaction {
		return nil, ErrInvalidReactType
	}
	return s.put(ctx, "upsert", userID, func(ctx context.Context) (*models.TimerSettings, error) {
		return s.store.Upsert(ctx, userID, patch)
	})
}

// Get returns the stored settings, consulting the store when they are not cached
func (s *TimerService) Get(ctx context.Context, userID int64) (*models.TimerSettings, error) {
	return s.get(ctx, userID, func(ctx context.Context) (*models.TimerSettings, error) {
		return s.store.Get(ctx, userID)
	})
}

// Cached returns the stored settings from memory only. Users who never
// changed a toggle have no row.
func (s *TimerService) Cached(userID int64) (models.TimerSettings, bool) {
	return s.cache.Get(userID)
}

// Settings returns the cached settings, or the defaults for a user without a row
func (s *TimerService) Settings(userID int64) models.TimerSettings {
	if t, ok := s.cache.Get(userID); ok {
		return t
	}
	return models.NewTimerSettings(userID)
}

// Enabled reports whether the user wants a ping for kind
func (s *TimerService) Enabled(userID int64, kind models.TimerKind) bool {
	t := s.Settings(userID)
	return t.Enabled(kind)
}

func (s *TimerService) dropUser(userID int64) int {
	if s.cache.Delete(userID) {
		return 1
	}
	return 0
}

// UtilityService manages the per-user game reminder toggles
type UtilityService struct {
	*mapDomain[int64, models.UtilitySettings]
	store UtilitySettingsStore
}

// NewUtilityService creates a new utility service with an empty cache
func NewUtilityService(store UtilitySettingsStore) *UtilityService {
	return &UtilityService{
		mapDomain: newMapDomain("utility_settings",
			func(u *models.UtilitySettings) int64 { return u.UserID },
			models.UtilitySettings.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Update changes only the toggles set in patch, creating the row on first use
func (s *UtilityService) Update(ctx context.Context, userID int64, patch models.UtilityPatch) (*models.UtilitySettings, error) {
	if userID == 0 {
		return nil, models.ErrInvalidKey
	}
	return s.put(ctx, "upsert", userID, func(ctx context.Context) (*models.UtilitySettings, error) {
		return s.store.Upsert(ctx, userID, patch)
	})
}

// Get returns the stored settings, consulting the store when they are not cached
func (s *UtilityService) Get(ctx context.Context, userID int64) (*models.UtilitySettings, error) {
	return s.get(ctx, userID, func(ctx context.Context) (*models.UtilitySettings, error) {
		return s.store.Get(ctx, userID)
	})
}

// Cached returns the stored settings from memory only
func (s *UtilityService) Cached(userID int64) (models.UtilitySettings, bool) {
	return s.cache.Get(userID)
}

// Settings returns the cached settings, or the defaults for a user without a row
func (s *UtilityService) Settings(userID int64) models.UtilitySettings {
	if u, ok := s.cache.Get(userID); ok {
		return u
	}
	return models.NewUtilitySettings(userID)
}

// Reminds reports whether a schedule of type t should be kept for the user
func (s *UtilityService) Reminds(userID int64, t models.ScheduleType) bool {
	u := s.Settings(userID)
	return u.Reminds(t)
}

// SpookyPingUsers returns the users who opted into spooky hour pings
func (s *UtilityService) SpookyPingUsers() []int64 {
	var ids []int64
	for _, u := range s.cache.Filter(func(_ int64, u models.UtilitySettings) bool { return u.SpookyPing }) {
		ids = append(ids, u.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *UtilityService) dropUser(userID int64) int {
	if s.cache.Delete(userID) {
		return 1
	}
	return 0
}

// UserInfoService manages what Mew knows about each trainer
type UserInfoService struct {
	*mapDomain[int64, models.UserInfo]
	store UserInfoStore
}

// NewUserInfoService creates a new user info service with an empty cache
func NewUserInfoService(store UserInfoStore) *UserInfoService {
	return &UserInfoService{
		mapDomain: newMapDomain("user_info",
			func(u *models.UserInfo) int64 { return u.UserID },
			models.UserInfo.Clone,
			store.ListAll,
		),
		store: store,
	}
}

// Update changes only the fields set in patch, creating the row on first use
func (s *UserInfoService) Update(ctx context.Context, userID int64, patch models.UserInfoPatch) (*models.UserInfo, error) {
	if userID == 0 {
		return nil, models.ErrInvalidKey
	}
	return s.put(ctx, "upsert", userID, func(ctx context.Context) (*models.UserInfo, error) {
		return s.store.Upsert(ctx, userID, patch)
	})
}

// Get returns the user info, consulting the store when it is not cached
func (s *UserInfoService) Get(ctx context.Context, userID int64) (*models.UserInfo, error) {
	return s.get(ctx, userID, func(ctx context.Context) (*models.UserInfo, error) {
		return s.store.Get(ctx, userID)
	})
}

// Cached returns the user info from memory only
func (s *UserInfoService) Cached(userID int64) (models.UserInfo, bool) {
	return s.cache.Get(userID)
}

// Faction returns the user's known faction
func (s *UserInfoService) Faction(userID int64) (models.Faction, bool) {
	u, ok := s.cache.Get(userID)
	if !ok || u.Faction == nil {
		return "", false
	}
	return *u.Faction, true
}

// InFaction returns the users known to belong to f
func (s *UserInfoService) InFaction(f models.Faction) []int64 {
	var ids []int64
	for _, u := range s.cache.Filter(func(_ int64, u models.UserInfo) bool {
		return u.Faction != nil && *u.Faction == f
	}) {
		ids = append(ids, u.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *UserInfoService) dropUser(userID int64) int {
	if s.cache.Delete(userID) {
		return 1
	}
	return 0
}
