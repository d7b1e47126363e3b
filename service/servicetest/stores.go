// Package servicetest provides in-memory stores that behave like the
// PostgreSQL repositories, with failure injection for tests.
package servicetest

import (
	"context"
	"errors"
	"sync"

	"mew/models"
)

// ErrStoreDown is the error injected stores fail with in tests
var ErrStoreDown = errors.New("connection refused")

// Table is an in-memory table that keeps insertion order and can be told to fail
type Table[K comparable, V any] struct {
	mu    sync.Mutex
	rows  map[K]V
	order []K
	err   error
	calls int
}

func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{rows: make(map[K]V)}
}

// cloneRow deep-copies rows whose model has a Clone method, so no pointer
// field is ever shared between a table and its callers
func cloneRow[V any](v V) V {
	if c, ok := any(v).(interface{ Clone() V }); ok {
		return c.Clone()
	}
	return v
}

// Fail makes every following call return err until Fail(nil)
func (t *Table[K, V]) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// begin locks the table and returns the injected error, if any
func (t *Table[K, V]) begin() (func(), error) {
	t.mu.Lock()
	t.calls++
	if t.err != nil {
		t.mu.Unlock()
		return func() {}, t.err
	}
	return t.mu.Unlock, nil
}

// Calls returns how many store calls reached the table
func (t *Table[K, V]) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

func (t *Table[K, V]) put(k K, v V) {
	if _, ok := t.rows[k]; !ok {
		t.order = append(t.order, k)
	}
	t.rows[k] = cloneRow(v)
}

func (t *Table[K, V]) remove(k K) bool {
	if _, ok := t.rows[k]; !ok {
		return false
	}
	delete(t.rows, k)
	for i, o := range t.order {
		if o == k {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *Table[K, V]) Get(_ context.Context, k K) (*V, error) {
	done, err := t.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	v, ok := t.rows[k]
	if !ok {
		return nil, nil
	}
	v = cloneRow(v)
	return &v, nil
}

func (t *Table[K, V]) Delete(_ context.Context, k K) (bool, error) {
	done, err := t.begin()
	defer done()
	if err != nil {
		return false, err
	}
	return t.remove(k), nil
}

func (t *Table[K, V]) ListAll(context.Context) ([]V, error) {
	done, err := t.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, cloneRow(t.rows[k]))
	}
	return out, nil
}

// Row reads a stored row directly, bypassing failure injection
func (t *Table[K, V]) Row(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[k]
	return cloneRow(v), ok
}

// Seed writes a row directly, as another process would
func (t *Table[K, V]) Seed(k K, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(k, v)
}

func (t *Table[K, V]) Drop(k K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(k)
}

type AlertStore struct {
	*Table[models.AlertKey, models.Alert]
}

// NewAlertStore returns an empty store
func NewAlertStore() *AlertStore {
	return &AlertStore{NewTable[models.AlertKey, models.Alert]()}
}

func (s *AlertStore) Upsert(_ context.Context, key models.AlertKey, patch models.AlertPatch) (*models.Alert, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[key]
	if !ok {
		row = models.NewAlert(key)
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(key, row)
	return &row, nil
}

type ChecklistStore struct {
	*Table[models.ChecklistKey, models.ChecklistEntry]
}

// NewChecklistStore returns an empty store
func NewChecklistStore() *ChecklistStore {
	return &ChecklistStore{NewTable[models.ChecklistKey, models.ChecklistEntry]()}
}

func (s *ChecklistStore) Upsert(_ context.Context, key models.ChecklistKey, patch models.ChecklistPatch) (*models.ChecklistEntry, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[key]
	if !ok {
		row = models.NewChecklistEntry(key)
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(key, row)
	return &row, nil
}

type ReminderStore struct {
	*Table[models.ReminderKey, models.Reminder]
}

// NewReminderStore returns an empty store
func NewReminderStore() *ReminderStore {
	return &ReminderStore{NewTable[models.ReminderKey, models.Reminder]()}
}

func (s *ReminderStore) Create(_ context.Context, n models.NewReminder) (*models.Reminder, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	next := 1
	for k := range s.rows {
		if k.UserID == n.UserID && k.UserReminderID >= next {
			next = k.UserReminderID + 1
		}
	}
	r := models.Reminder{
		UserID:         n.UserID,
		UserReminderID: next,
		Message:        n.Message,
		RemindOn:       n.RemindOn,
		RepeatInterval: n.RepeatInterval,
		ChannelID:      n.ChannelID,
	}
	s.put(r.Key(), r)
	return &r, nil
}

func (s *ReminderStore) Update(_ context.Context, key models.ReminderKey, patch models.ReminderPatch) (*models.Reminder, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[key]
	if !ok {
		return nil, nil
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(key, row)
	return &row, nil
}

func (s *ReminderStore) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return 0, err
	}
	var n int64
	for k := range s.rows {
		if k.UserID == userID {
			s.remove(k)
			n++
		}
	}
	return n, nil
}

type ScheduleStore struct {
	*Table[models.ScheduleKey, models.Schedule]
}

// NewScheduleStore returns an empty store
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{NewTable[models.ScheduleKey, models.Schedule]()}
}

func (s *ScheduleStore) Upsert(_ context.Context, schedule models.Schedule) (*models.Schedule, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	s.put(schedule.Key(), schedule)
	return &schedule, nil
}

type AuctionStore struct {
	*Table[models.AuctionKey, models.AuctionReminder]
}

// NewAuctionStore returns an empty store
func NewAuctionStore() *AuctionStore {
	return &AuctionStore{NewTable[models.AuctionKey, models.AuctionReminder]()}
}

func (s *AuctionStore) Upsert(_ context.Context, a models.AuctionReminder) (*models.AuctionReminder, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	s.put(a.Key(), a)
	return &a, nil
}

type TimerStore struct {
	*Table[int64, models.TimerSettings]
}

// NewTimerStore returns an empty store
func NewTimerStore() *TimerStore {
	return &TimerStore{NewTable[int64, models.TimerSettings]()}
}

func (s *TimerStore) Upsert(_ context.Context, userID int64, patch models.TimerPatch) (*models.TimerSettings, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[userID]
	if !ok {
		row = models.NewTimerSettings(userID)
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(userID, row)
	return &row, nil
}

type UtilityStore struct {
	*Table[int64, models.UtilitySettings]
}

// NewUtilityStore returns an empty store
func NewUtilityStore() *UtilityStore {
	return &UtilityStore{NewTable[int64, models.UtilitySettings]()}
}

func (s *UtilityStore) Upsert(_ context.Context, userID int64, patch models.UtilityPatch) (*models.UtilitySettings, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[userID]
	if !ok {
		row = models.NewUtilitySettings(userID)
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(userID, row)
	return &row, nil
}

type UserInfoStore struct {
	*Table[int64, models.UserInfo]
}

// NewUserInfoStore returns an empty store
func NewUserInfoStore() *UserInfoStore {
	return &UserInfoStore{NewTable[int64, models.UserInfo]()}
}

func (s *UserInfoStore) Upsert(_ context.Context, userID int64, patch models.UserInfoPatch) (*models.UserInfo, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[userID]
	if !ok {
		row = models.UserInfo{UserID: userID}
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(userID, row)
	return &row, nil
}

type BattleTowerStore struct {
	*Table[int64, models.BattleTowerRegistration]
}

// NewBattleTowerStore returns an empty store
func NewBattleTowerStore() *BattleTowerStore {
	return &BattleTowerStore{NewTable[int64, models.BattleTowerRegistration]()}
}

func (s *BattleTowerStore) Register(_ context.Context, userID, channelID int64) (*models.BattleTowerRegistration, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[userID]
	if !ok {
		row = models.BattleTowerRegistration{UserID: userID}
	}
	row.ChannelID = channelID
	s.put(userID, row)
	return &row, nil
}

type MarketStore struct {
	*Table[string, models.MarketValue]
}

// NewMarketStore returns an empty store
func NewMarketStore() *MarketStore {
	return &MarketStore{NewTable[string, models.MarketValue]()}
}

func (s *MarketStore) Upsert(_ context.Context, pokemonKey string, patch models.MarketPatch) (*models.MarketValue, error) {
	done, err := s.begin()
	defer done()
	if err != nil {
		return nil, err
	}
	row, ok := s.rows[pokemonKey]
	if !ok {
		row = models.MarketValue{PokemonKey: pokemonKey}
	}
	if err := row.Apply(patch); err != nil {
		return nil, err
	}
	s.put(pokemonKey, row)
	return &row, nil
}

// Singleton backs the one-row tables
type Singleton[V any] struct {
	mu  sync.Mutex
	row *V
	err error
}

func (s *Singleton[V]) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Singleton[V]) Get(context.Context) (*V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.row == nil {
		return nil, nil
	}
	v := cloneRow(*s.row)
	return &v, nil
}

func (s *Singleton[V]) Clear(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	had := s.row != nil
	s.row = nil
	return had, nil
}

type SpookyStore struct {
	Singleton[models.SpookyHour]
}

func (s *SpookyStore) Set(_ context.Context, w models.SpookyHour) (*models.SpookyHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	stored := w.Clone()
	s.row = &stored
	return &w, nil
}

type FactionBallStore struct {
	Singleton[models.FactionBalls]
}

func (s *FactionBallStore) write(patch models.FactionBallPatch, fillOnly bool) (*models.FactionBalls, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	cur := models.FactionBalls{Balls: map[models.Faction]*string{}}
	if s.row != nil {
		cur = s.row.Clone()
	}
	if fillOnly {
		filtered := models.FactionBallPatch{}
		for f, v := range patch {
			if cur.Balls[f] == nil {
				filtered[f] = v
			}
		}
		patch = filtered
	}
	if err := cur.Apply(patch); err != nil {
		return nil, err
	}
	s.row = &cur
	out := cur.Clone()
	return &out, nil
}

func (s *FactionBallStore) Set(_ context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	return s.write(patch, false)
}

func (s *FactionBallStore) Fill(_ context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	return s.write(patch, true)
}
