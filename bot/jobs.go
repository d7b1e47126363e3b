package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mew/bot/common"
	"mew/events"
	"mew/models"
	"mew/service"

	log "github.com/sirupsen/logrus"
)

// Jobs are the timer-driven scans: due reminders, schedules and auctions,
// plus the daily and weekly resets
type Jobs struct {
	services    Services
	notifier    *Notifier
	emitter     service.EventEmitter
	auctionLead time.Duration
}

// NewJobs creates the job set. auctionLead is how long before an auction
// ends its reminder fires.
func NewJobs(services Services, notifier *Notifier, emitter service.EventEmitter, auctionLead time.Duration) *Jobs {
	return &Jobs{
		services:    services,
		notifier:    notifier,
		emitter:     emitter,
		auctionLead: auctionLead,
	}
}

// ScanDue delivers everything due at now and retires it. A failed delivery
// is logged and counted, the record is still retired so it does not fire
// again on every scan.
func (j *Jobs) ScanDue(ctx context.Context, now time.Time) error {
	return errors.Join(
		j.deliverReminders(ctx, now),
		j.deliverSchedules(ctx, now),
		j.deliverAuctions(ctx, now),
	)
}

func (j *Jobs) deliverReminders(ctx context.Context, now time.Time) error {
	var errs []error
	for _, r := range j.services.Reminders.Due(now) {
		content := fmt.Sprintf("⏰ %s %s", common.MentionUser(r.UserID), r.Message)
		if r.RepeatInterval != nil {
			content += fmt.Sprintf(" (repeats every %s)", common.FormatInterval(time.Duration(*r.RepeatInterval)*time.Second))
		}
		_ = j.notifier.Deliver("reminder", r.UserID, r.ChannelID, content)

		next, err := j.services.Reminders.Acknowledge(ctx, r, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to acknowledge reminder %s: %w", r.Key(), err))
			continue
		}
		delivered := events.ReminderDeliveredEvent{UserID: r.UserID, Kind: "reminder", ReminderID: r.UserReminderID}
		if next != nil {
			delivered.NextOn = &next.RemindOn
		}
		emit(ctx, j.emitter, delivered)
	}
	return errors.Join(errs...)
}

var scheduleMessages = map[models.ScheduleType]string{
	models.ScheduleTypeCatchbot: "🤖 %s your catchbot is back",
	models.ScheduleTypeQuest:    "📜 %s you can get a new quest",
	models.ScheduleTypeDaycare:  "🥚 %s your daycare is ready",
	models.ScheduleTypeLootbox:  "🎁 %s your lootbox is ready",
}

func (j *Jobs) deliverSchedules(ctx context.Context, now time.Time) error {
	var errs []error
	for _, s := range j.services.Schedules.Due(now) {
		format, ok := scheduleMessages[s.Type]
		if !ok {
			format = "⏰ %s your " + string(s.Type) + " is ready"
		}
		_ = j.notifier.Deliver(string(s.Type), s.UserID, s.ChannelID, fmt.Sprintf(format, common.MentionUser(s.UserID)))

		if _, err := j.services.Schedules.Complete(ctx, s.Key()); err != nil {
			errs = append(errs, fmt.Errorf("failed to complete schedule %s: %w", s.Key(), err))
			continue
		}
		emit(ctx, j.emitter, events.ReminderDeliveredEvent{UserID: s.UserID, Kind: string(s.Type)})
	}
	return errors.Join(errs...)
}

func (j *Jobs) deliverAuctions(ctx context.Context, now time.Time) error {
	var errs []error
	for _, a := range j.services.Auctions.Due(now, j.auctionLead) {
		content := fmt.Sprintf("🔨 %s the auction for **%s** (`%d`) ends %s",
			common.MentionUser(a.UserID), a.Pokemon, a.AuctionID, common.FormatDiscordTimestamp(a.EndsOn, "R"))
		_ = j.notifier.Send("auction", a.ChannelID, content)

		if _, err := j.services.Auctions.Delete(ctx, a.Key()); err != nil {
			errs = append(errs, fmt.Errorf("failed to retire auction reminder %s: %w", a.Key(), err))
			continue
		}
		emit(ctx, j.emitter, events.ReminderDeliveredEvent{UserID: a.UserID, Kind: "auction"})
	}
	return errors.Join(errs...)
}

// ResetFactionBalls clears the day's faction balls
func (j *Jobs) ResetFactionBalls(ctx context.Context, now time.Time) error {
	if err := j.services.FactionBalls.Reset(ctx, now); err != nil {
		return fmt.Errorf("failed to reset faction balls: %w", err)
	}
	return nil
}

// PingBattleTower tells every registered user the battle tower has reset,
// one message per channel
func (j *Jobs) PingBattleTower(ctx context.Context) error {
	regs := j.services.BattleTower.Registrations()
	if len(regs) == 0 {
		return nil
	}

	mentions := make(map[int64][]string)
	var channels []int64
	for _, reg := range regs {
		if _, ok := mentions[reg.ChannelID]; !ok {
			channels = append(channels, reg.ChannelID)
		}
		mentions[reg.ChannelID] = append(mentions[reg.ChannelID], common.MentionUser(reg.UserID))
	}

	var errs []error
	for _, channelID := range channels {
		content := "🗼 The battle tower has reset " + strings.Join(mentions[channelID], " ")
		errs = append(errs, j.notifier.Send("battle_tower", channelID, content))
	}
	return errors.Join(errs...)
}

// ExpireSpookyHour clears a spooky hour window that has ended
func (j *Jobs) ExpireSpookyHour(ctx context.Context, now time.Time) error {
	cleared, err := j.services.SpookyHour.ClearExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to clear spooky hour: %w", err)
	}
	if cleared {
		log.Info("Spooky hour ended")
	}
	return nil
}
