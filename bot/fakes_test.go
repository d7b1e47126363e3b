package bot

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"mew/events"
	"mew/service"
	"mew/service/servicetest"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	channelID string
	content   string
}

type reaction struct {
	channelID, messageID, emoji string
}

// fakeMessenger records outgoing Discord calls. DM channels are "dm-<user>".
type fakeMessenger struct {
	mu        sync.Mutex
	sent      []sentMessage
	reactions []reaction
	failSend  bool
}

func (m *fakeMessenger) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return nil, errors.New("discord unavailable")
	}
	m.sent = append(m.sent, sentMessage{channelID: channelID, content: data.Content})
	return &discordgo.Message{ChannelID: channelID, Content: data.Content}, nil
}

func (m *fakeMessenger) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (m *fakeMessenger) MessageReactionAdd(channelID, messageID, emoji string, _ ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, reaction{channelID: channelID, messageID: messageID, emoji: emoji})
	return nil
}

func (m *fakeMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

func (m *fakeMessenger) reacted() []reaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]reaction(nil), m.reactions...)
}

// recordingEmitter keeps every emitted event
type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (e *recordingEmitter) Emit(_ context.Context, event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) ofType(t events.EventType) []events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []events.Event
	for _, ev := range e.events {
		if ev.Type() == t {
			out = append(out, ev)
		}
	}
	return out
}

type testStores struct {
	reminders *servicetest.ReminderStore
	schedules *servicetest.ScheduleStore
	auctions  *servicetest.AuctionStore
	users     *servicetest.UserInfoStore
	spooky    *servicetest.SpookyStore
	balls     *servicetest.FactionBallStore
	market    *servicetest.MarketStore
}

func newTestServices() (Services, testStores) {
	stores := testStores{
		reminders: servicetest.NewReminderStore(),
		schedules: servicetest.NewScheduleStore(),
		auctions:  servicetest.NewAuctionStore(),
		users:     servicetest.NewUserInfoStore(),
		spooky:    &servicetest.SpookyStore{},
		balls:     &servicetest.FactionBallStore{},
		market:    servicetest.NewMarketStore(),
	}
	s := Services{
		Alerts:       service.NewAlertService(servicetest.NewAlertStore()),
		Checklist:    service.NewChecklistService(servicetest.NewChecklistStore()),
		Reminders:    service.NewReminderService(stores.reminders),
		Schedules:    service.NewScheduleService(stores.schedules),
		Auctions:     service.NewAuctionService(stores.auctions),
		Timers:       service.NewTimerService(servicetest.NewTimerStore()),
		Utility:      service.NewUtilityService(servicetest.NewUtilityStore()),
		Users:        service.NewUserInfoService(stores.users),
		FactionBalls: service.NewFactionBallService(stores.balls, nil),
		SpookyHour:   service.NewSpookyHourService(stores.spooky),
		BattleTower:  service.NewBattleTowerService(servicetest.NewBattleTowerStore()),
		Market:       service.NewMarketService(stores.market, nil),
	}
	return s, stores
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}
