package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"mew/events"
	"mew/models"

	log "github.com/sirupsen/logrus"
)

// FactionBallService tracks each faction's ball of the day
type FactionBallService struct {
	*singletonDomain[models.FactionBalls]
	store   FactionBallStore
	emitter EventEmitter
}

// NewFactionBallService creates a new faction ball service with an empty cache
func NewFactionBallService(store FactionBallStore, emitter EventEmitter) *FactionBallService {
	return &FactionBallService{
		singletonDomain: newSingletonDomain("faction_balls", models.FactionBalls.Clone, store.Get),
		store:           store,
		emitter:         emitter,
	}
}

func validFaction(f models.Faction) error {
	if !slices.Contains(models.Factions, f) {
		return fmt.Errorf("%w: %q", ErrUnknownFaction, f)
	}
	return nil
}

// Record stores ball for f unless a ball was already seen today. The first
// sighting of the day wins. It reports whether ball is the stored one.
func (s *FactionBallService) Record(ctx context.Context, f models.Faction, ball string) (bool, error) {
	if err := validFaction(f); err != nil {
		return false, err
	}
	balls, err := s.set(ctx, "fill", func(ctx context.Context) (*models.FactionBalls, error) {
		return s.store.Fill(ctx, models.FactionBallPatch{f: models.Set(ball)})
	})
	if err != nil {
		return false, err
	}
	stored, _ := balls.Ball(f)
	return stored == ball, nil
}

// Set overwrites the ball for f
func (s *FactionBallService) Set(ctx context.Context, f models.Faction, ball string) (*models.FactionBalls, error) {
	if err := validFaction(f); err != nil {
		return nil, err
	}
	return s.set(ctx, "set", func(ctx context.Context) (*models.FactionBalls, error) {
		return s.store.Set(ctx, models.FactionBallPatch{f: models.Set(ball)})
	})
}

// Unset clears the ball for f
func (s *FactionBallService) Unset(ctx context.Context, f models.Faction) (*models.FactionBalls, error) {
	if err := validFaction(f); err != nil {
		return nil, err
	}
	return s.set(ctx, "set", func(ctx context.Context) (*models.FactionBalls, error) {
		return s.store.Set(ctx, models.FactionBallPatch{f: models.Null[string]()})
	})
}

// Ball returns today's ball for f from memory
func (s *FactionBallService) Ball(f models.Faction) (string, bool) {
	balls, ok := s.cache.Get()
	if !ok {
		return "", false
	}
	return balls.Ball(f)
}

// All returns every faction's ball of the day, empty when none is known
func (s *FactionBallService) All() models.FactionBalls {
	balls, ok := s.cache.Get()
	if !ok {
		return models.FactionBalls{Balls: map[models.Faction]*string{}}
	}
	return balls
}

// Reset clears every faction's ball for the new day
func (s *FactionBallService) Reset(ctx context.Context, now time.Time) error {
	removed, err := s.clear(ctx, func(ctx context.Context) (bool, error) {
		return s.store.Clear(ctx)
	})
	if err != nil {
		return err
	}
	log.WithField("had_row", removed).Info("Faction balls reset")
	emit(ctx, s.emitter, events.FactionBallsResetEvent{ResetAt: now})
	return nil
}
