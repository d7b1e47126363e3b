package bot

import (
	"context"
	"fmt"
	"time"

	"mew/bot/features/alerts"
	"mew/bot/features/auctions"
	"mew/bot/features/battletower"
	"mew/bot/features/checklist"
	"mew/bot/features/factionball"
	"mew/bot/features/privacy"
	"mew/bot/features/reminders"
	"mew/bot/features/settings"
	"mew/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	PokeMeowBotID   string
	DueScanInterval time.Duration
	AuctionLead     time.Duration
	Cron            CronConfig
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	router   *Router
	jobs     *Jobs
	stopScan func()
	stopCron func()
	cancel   context.CancelFunc

	// Features
	alerts      *alerts.Feature
	checklist   *checklist.Feature
	reminders   *reminders.Feature
	settings    *settings.Feature
	battleTower *battletower.Feature
	auctions    *auctions.Feature
	factionBall *factionball.Feature
	privacy     *privacy.Feature
}

// New connects to Discord, registers the slash commands and starts the
// background workers
func New(config Config, services Services, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	notifier := NewNotifier(dg)
	bot := &Bot{
		config:      config,
		session:     dg,
		router:      NewRouter(config.PokeMeowBotID, services, notifier, eventBus),
		jobs:        NewJobs(services, notifier, eventBus, config.AuctionLead),
		alerts:      alerts.NewFeature(services.Alerts, services.Market),
		checklist:   checklist.NewFeature(services.Checklist),
		reminders:   reminders.NewFeature(services.Reminders),
		settings:    settings.NewFeature(services.Timers, services.Utility),
		battleTower: battletower.NewFeature(services.BattleTower),
		auctions:    auctions.NewFeature(services.Auctions),
		factionBall: factionball.NewFeature(services.FactionBalls, services.Users),
		privacy:     privacy.NewFeature(services.Purge),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// PokéMeow output and game commands
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleMessageUpdate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bot.cancel = cancel
	bot.stopScan = StartDueScanWorker(ctx, bot.jobs, config.DueScanInterval)
	bot.stopCron, err = StartCronWorker(ctx, bot.jobs, config.Cron)
	if err != nil {
		bot.stopScan()
		cancel()
		dg.Close()
		return nil, fmt.Errorf("error starting cron worker: %w", err)
	}

	return bot, nil
}

// Close stops the workers, then the gateway connection
func (b *Bot) Close() error {
	b.stopScan()
	b.stopCron()
	b.cancel()
	b.router.Close()
	return b.session.Close()
}

// logPanic keeps a panicking handler from taking the gateway down
func logPanic(handler string) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"handler": handler,
			"panic":   r,
		}).Error("Recovered from handler panic")
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer logPanic("message_create")
	if m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.router.Route(context.Background(), m.Message)
}

// handleMessageUpdate picks up PokéMeow embeds that are edited in place,
// such as market pages
func (b *Bot) handleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	defer logPanic("message_update")
	if m.Author == nil || m.Author.ID != b.config.PokeMeowBotID {
		return
	}
	b.router.Route(context.Background(), m.Message)
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer logPanic("interaction")
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "alert":
		b.alerts.HandleCommand(s, i)
	case "checklist":
		b.checklist.HandleCommand(s, i)
	case "remind":
		b.reminders.HandleCommand(s, i)
	case "timers":
		b.settings.HandleTimers(s, i)
	case "utility":
		b.settings.HandleUtility(s, i)
	case "battletower":
		b.battleTower.HandleCommand(s, i)
	case "auction":
		b.auctions.HandleCommand(s, i)
	case "factionball":
		b.factionBall.HandleCommand(s, i)
	case "forgetme":
		b.privacy.HandleCommand(s, i)
	default:
		log.WithField("command", i.ApplicationCommandData().Name).Warn("Unknown command")
	}
}
