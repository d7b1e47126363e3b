package bot

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"mew/bot/common"
	"mew/events"
	"mew/models"
	"mew/observability"
	"mew/pokemeow"
	"mew/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Router turns PokéMeow output and user game commands into service calls
// and notifications
type Router struct {
	pokeMeowID string
	services   Services
	notifier   *Notifier
	emitter    service.EventEmitter
	cooldowns  *cooldowns
	now        func() time.Time
}

// NewRouter creates a router for messages authored by pokeMeowID
func NewRouter(pokeMeowID string, services Services, notifier *Notifier, emitter service.EventEmitter) *Router {
	return &Router{
		pokeMeowID: pokeMeowID,
		services:   services,
		notifier:   notifier,
		emitter:    emitter,
		cooldowns:  newCooldowns(),
		now:        time.Now,
	}
}

// Close cancels every pending cooldown ping
func (r *Router) Close() {
	r.cooldowns.stop()
}

// Route handles one message. Errors are logged, never returned to Discord.
func (r *Router) Route(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil {
		return
	}

	var err error
	var kind string
	switch {
	case m.Author.ID == r.pokeMeowID:
		kind, err = r.classify(ctx, m)
	case !m.Author.Bot:
		kind, err = "timer", r.userCommand(m)
	default:
		return
	}

	if err != nil {
		log.WithFields(log.Fields{
			"kind":       kind,
			"channel_id": m.ChannelID,
			"message_id": m.ID,
		}).WithError(err).Error("Failed to handle message")
	}
}

func (r *Router) classify(ctx context.Context, m *discordgo.Message) (string, error) {
	now := r.now()
	msg := pokemeow.Classify(m, now)
	if msg.Kind == pokemeow.KindUnknown {
		return "", nil
	}
	observability.MessagesClassifiedTotal.WithLabelValues(string(msg.Kind)).Inc()

	channelID, _ := strconv.ParseInt(m.ChannelID, 10, 64)
	switch msg.Kind {
	case pokemeow.KindSpawn:
		return string(msg.Kind), r.onSpawn(channelID, msg.Spawn)
	case pokemeow.KindMarket:
		return string(msg.Kind), r.onMarket(ctx, msg.Listings)
	case pokemeow.KindCatchbot, pokemeow.KindQuest:
		return string(msg.Kind), r.onNotice(ctx, m, channelID, msg.Notice)
	case pokemeow.KindFactionBall:
		return string(msg.Kind), r.onFactionBall(ctx, msg.FactionBall)
	case pokemeow.KindSpookyHour:
		return string(msg.Kind), r.onSpookyHour(ctx, channelID, msg.SpookyEnds, now)
	case pokemeow.KindProfile:
		return string(msg.Kind), r.onProfile(ctx, m, msg.Profile)
	}
	return string(msg.Kind), nil
}

// onSpawn pings everyone missing the spawned pokemon, one message per channel
func (r *Router) onSpawn(channelID int64, spawn pokemeow.Spawn) error {
	if spawn.DexNumber <= 0 {
		return nil
	}
	entries := r.services.Checklist.Missing(spawn.DexNumber)
	if len(entries) == 0 {
		return nil
	}
	slices.SortFunc(entries, func(a, b models.ChecklistEntry) int {
		return cmp.Compare(a.UserID, b.UserID)
	})

	mentions := make(map[int64][]string)
	var channels []int64
	for _, e := range entries {
		target := channelID
		if e.ChannelID != nil {
			target = *e.ChannelID
		}
		mention := common.MentionUser(e.UserID)
		if e.RoleID != nil {
			mention = common.MentionRole(*e.RoleID)
		}
		if _, ok := mentions[target]; !ok {
			channels = append(channels, target)
		}
		if !slices.Contains(mentions[target], mention) {
			mentions[target] = append(mentions[target], mention)
		}
	}

	var errs []error
	for _, target := range channels {
		content := fmt.Sprintf("%s **%s** (#%d) just spawned in %s",
			strings.Join(mentions[target], " "), spawn.Pokemon, spawn.DexNumber, common.MentionChannel(channelID))
		errs = append(errs, r.notifier.Send("checklist", target, content))
	}
	return errors.Join(errs...)
}

// onMarket records the page and fires the alerts its cheapest listings satisfy.
// A listing already recorded as seen does not fire again.
func (r *Router) onMarket(ctx context.Context, listings []pokemeow.Listing) error {
	page := make([]service.Listing, 0, len(listings))
	seen := make(map[string]string)
	for _, l := range listings {
		if l.Key == "" {
			continue
		}
		page = append(page, service.Listing{ID: l.ID, PokemonKey: l.Key, DexNumber: l.DexNumber, Price: l.Price})
		if _, ok := seen[l.Key]; ok {
			continue
		}
		seen[l.Key] = ""
		if v, ok := r.services.Market.Cached(l.Key); ok && v.ListingSeen != nil {
			seen[l.Key] = *v.ListingSeen
		}
	}

	values, err := r.services.Market.RecordPage(ctx, page)
	errs := []error{err}
	for _, v := range values {
		if v.LowestMarket == nil || v.ListingSeen == nil || *v.ListingSeen == seen[v.PokemonKey] {
			continue
		}
		for _, a := range r.services.Alerts.Matching(v.PokemonKey, *v.LowestMarket) {
			errs = append(errs, r.fireAlert(ctx, a, *v.LowestMarket, *v.ListingSeen))
		}
	}
	return errors.Join(errs...)
}

func (r *Router) fireAlert(ctx context.Context, a models.Alert, price int64, listingID string) error {
	mention := common.MentionUser(a.UserID)
	if a.RoleID != nil {
		mention = common.MentionRole(*a.RoleID)
	}
	content := fmt.Sprintf("%s **%s** is listed for **%s** PokéCoins (limit %s), listing `%s`",
		mention, a.PokemonKey, common.FormatCoins(price), common.FormatCoins(a.MaxPrice), listingID)
	if err := r.notifier.Send("alert", a.ChannelID, content); err != nil {
		return err
	}
	emit(ctx, r.emitter, events.AlertTriggeredEvent{
		UserID:     a.UserID,
		PokemonKey: a.PokemonKey,
		ChannelID:  a.ChannelID,
		Price:      price,
		MaxPrice:   a.MaxPrice,
	})
	return nil
}

// onNotice stores a catchbot or quest schedule when the trainer wants it
func (r *Router) onNotice(ctx context.Context, m *discordgo.Message, channelID int64, n pokemeow.Notice) error {
	userID := n.UserID
	if userID == 0 {
		userID = invokerID(m)
	}
	if userID == 0 || !r.services.Utility.Reminds(userID, n.Type) {
		return nil
	}
	_, err := r.services.Schedules.Set(ctx, models.Schedule{
		UserID:      userID,
		Type:        n.Type,
		ScheduledOn: n.At,
		ChannelID:   &channelID,
	})
	return err
}

func (r *Router) onFactionBall(ctx context.Context, fb pokemeow.FactionBall) error {
	recorded, err := r.services.FactionBalls.Record(ctx, fb.Faction, fb.Ball)
	if err != nil {
		return err
	}
	if recorded {
		log.WithFields(log.Fields{"faction": fb.Faction, "ball": fb.Ball}).Info("Recorded faction ball")
	}
	return nil
}

// onSpookyHour stores the window and pings opted-in users when it opens
func (r *Router) onSpookyHour(ctx context.Context, channelID int64, ends, now time.Time) error {
	window := models.SpookyHour{StartsOn: now, EndsOn: ends, ChannelID: &channelID}
	current, ok := r.services.SpookyHour.Current()
	wasActive := ok && current.Active(now)
	if wasActive {
		window.StartsOn = current.StartsOn
	}
	if _, err := r.services.SpookyHour.Start(ctx, window); err != nil {
		return err
	}
	if wasActive {
		return nil
	}

	users := r.services.Utility.SpookyPingUsers()
	if len(users) == 0 {
		return nil
	}
	mentions := make([]string, len(users))
	for i, id := range users {
		mentions[i] = common.MentionUser(id)
	}
	content := fmt.Sprintf("👻 Spooky hour is live until %s %s",
		common.FormatDiscordTimestamp(ends, "t"), strings.Join(mentions, " "))
	return r.notifier.Send("spooky_hour", channelID, content)
}

func (r *Router) onProfile(ctx context.Context, m *discordgo.Message, p pokemeow.ProfileFaction) error {
	userID := invokerID(m)
	if userID == 0 {
		return nil
	}
	_, err := r.services.Users.Update(ctx, userID, models.UserInfoPatch{
		Username: models.Set(p.Trainer),
		Faction:  models.Set(p.Faction),
	})
	return err
}

// userCommand starts a cooldown ping for ";p" style game commands
func (r *Router) userCommand(m *discordgo.Message) error {
	cmd, ok := pokemeow.ParseTimerCommand(m.Content)
	if !ok {
		return nil
	}
	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse author ID %q: %w", m.Author.ID, err)
	}
	if !r.services.Timers.Enabled(userID, cmd.Kind) {
		return nil
	}
	channelID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse channel ID %q: %w", m.ChannelID, err)
	}

	settings := r.services.Timers.Settings(userID)
	messageID := m.ID
	r.cooldowns.start(cooldownKey{userID: userID, kind: cmd.Kind}, cmd.Cooldown, func() {
		if settings.ReactType == models.ReactTypeReaction {
			_ = r.notifier.React("timer", m.ChannelID, messageID, "⏰")
			return
		}
		_ = r.notifier.Send("timer", channelID, fmt.Sprintf("%s your %s cooldown is over", common.MentionUser(userID), cmd.Kind))
	})
	return nil
}

// invokerID finds the user a PokéMeow reply belongs to
func invokerID(m *discordgo.Message) int64 {
	var user *discordgo.User
	switch {
	case m.Interaction != nil && m.Interaction.User != nil:
		user = m.Interaction.User
	case m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil:
		user = m.ReferencedMessage.Author
	}
	if user == nil {
		return 0
	}
	id, _ := strconv.ParseInt(user.ID, 10, 64)
	return id
}

func emit(ctx context.Context, emitter service.EventEmitter, event events.Event) {
	if emitter != nil {
		emitter.Emit(ctx, event)
	}
}
