package service

import (
	"context"

	"mew/events"
	"mew/models"

	"github.com/stretchr/testify/mock"
)

// MockAlertStore is a mock implementation of AlertStore
type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) Upsert(ctx context.Context, key models.AlertKey, patch models.AlertPatch) (*models.Alert, error) {
	args := m.Called(ctx, key, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertStore) Get(ctx context.Context, key models.AlertKey) (*models.Alert, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertStore) Delete(ctx context.Context, key models.AlertKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertStore) ListAll(ctx context.Context) ([]models.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

// MockMarketValueStore is a mock implementation of MarketValueStore
type MockMarketValueStore struct {
	mock.Mock
}

func (m *MockMarketValueStore) Upsert(ctx context.Context, pokemonKey string, patch models.MarketPatch) (*models.MarketValue, error) {
	args := m.Called(ctx, pokemonKey, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketValue), args.Error(1)
}

func (m *MockMarketValueStore) Get(ctx context.Context, pokemonKey string) (*models.MarketValue, error) {
	args := m.Called(ctx, pokemonKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketValue), args.Error(1)
}

func (m *MockMarketValueStore) ListAll(ctx context.Context) ([]models.MarketValue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MarketValue), args.Error(1)
}

// MockFactionBallStore is a mock implementation of FactionBallStore
type MockFactionBallStore struct {
	mock.Mock
}

func (m *MockFactionBallStore) Set(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FactionBalls), args.Error(1)
}

func (m *MockFactionBallStore) Fill(ctx context.Context, patch models.FactionBallPatch) (*models.FactionBalls, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FactionBalls), args.Error(1)
}

func (m *MockFactionBallStore) Get(ctx context.Context) (*models.FactionBalls, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FactionBalls), args.Error(1)
}

func (m *MockFactionBallStore) Clear(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockUserDataStore is a mock implementation of UserDataStore
type MockUserDataStore struct {
	mock.Mock
}

func (m *MockUserDataStore) DeleteUser(ctx context.Context, userID int64) (map[string]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userData UserDataStore
	bus      EventPublisher
}

// SetRepositories sets the stores handed out after Begin
func (m *MockUnitOfWork) SetRepositories(userData UserDataStore, bus EventPublisher) {
	m.userData = userData
	m.bus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserDataRepository() UserDataStore {
	return m.userData
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.bus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockEventEmitter is a mock implementation of EventEmitter for testing
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) Emit(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}
