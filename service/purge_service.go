package service

import (
	"context"
	"fmt"

	"mew/events"

	log "github.com/sirupsen/logrus"
)

// userScoped is a cache holding rows owned by users
type userScoped interface {
	Name() string
	lockAll() func()
	dropUser(userID int64) int
}

// PurgeService forgets everything stored about a user
type PurgeService struct {
	uowFactory UnitOfWorkFactory
	domains    []userScoped
}

// NewPurgeService creates a purge service over the user-owned caches
func NewPurgeService(uowFactory UnitOfWorkFactory, alerts *AlertService, checklist *ChecklistService,
	reminders *ReminderService, schedules *ScheduleService, timers *TimerService, utility *UtilityService,
	users *UserInfoService, battleTower *BattleTowerService, auctions *AuctionService) *PurgeService {
	return &PurgeService{
		uowFactory: uowFactory,
		domains: []userScoped{
			alerts, checklist, reminders, schedules, timers, utility, users, battleTower, auctions,
		},
	}
}

// ForgetUser deletes every row the user owns in one transaction, then drops
// the same rows from the caches. Writers of the affected caches wait until
// both are done. A failed transaction leaves every cache untouched.
func (s *PurgeService) ForgetUser(ctx context.Context, userID int64) (map[string]int64, error) {
	if userID == 0 {
		return nil, fmt.Errorf("cannot purge user 0")
	}

	// Always taken in the same order, so two purges cannot deadlock
	for _, d := range s.domains {
		unlock := d.lockAll()
		defer unlock()
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	removed, err := uow.UserDataRepository().DeleteUser(ctx, userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Store purge failed, caches left untouched")
		return nil, err
	}

	uow.EventBus().Publish(events.UserDataPurgedEvent{UserID: userID, Removed: removed})

	if err := uow.Commit(); err != nil {
		log.WithField("user_id", userID).WithError(err).Error("Store purge commit failed, caches left untouched")
		return nil, err
	}

	dropped := log.Fields{"user_id": userID}
	for _, d := range s.domains {
		dropped[d.Name()] = d.dropUser(userID)
	}
	log.WithFields(dropped).Info("Forgot user")

	return removed, nil
}
