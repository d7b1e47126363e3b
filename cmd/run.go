package cmd

import (
	"context"
	"fmt"
	"time"

	"mew/bot"
	"mew/config"
	"mew/database"
	"mew/events"
	"mew/observability"
	"mew/repository"
	"mew/service"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured logrus level and format
func ConfigureLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Run initializes and starts the application with a validated configuration
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting Mew...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), database.PoolOptions{MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus, mirrored to NATS when configured
	eventBus := events.NewBus()
	if cfg.NATSServers != "" {
		nc, err := events.ConnectNATS(cfg.NATSServers)
		if err != nil {
			return err
		}
		defer nc.Drain()
		events.NewNATSBridge(nc).Attach(eventBus)
	}

	// Initialize services over their repositories
	services := bot.Services{
		Alerts:       service.NewAlertService(repository.NewAlertRepository(db)),
		Checklist:    service.NewChecklistService(repository.NewChecklistRepository(db)),
		Reminders:    service.NewReminderService(repository.NewReminderRepository(db)),
		Schedules:    service.NewScheduleService(repository.NewScheduleRepository(db)),
		Auctions:     service.NewAuctionService(repository.NewAuctionReminderRepository(db)),
		Timers:       service.NewTimerService(repository.NewTimerSettingsRepository(db)),
		Utility:      service.NewUtilityService(repository.NewUtilitySettingsRepository(db)),
		Users:        service.NewUserInfoService(repository.NewUserInfoRepository(db)),
		FactionBalls: service.NewFactionBallService(repository.NewFactionBallRepository(db), eventBus),
		SpookyHour:   service.NewSpookyHourService(repository.NewSpookyHourRepository(db)),
		BattleTower:  service.NewBattleTowerService(repository.NewBattleTowerRepository(db)),
		Market:       service.NewMarketService(repository.NewMarketValueRepository(db), eventBus),
	}
	services.Purge = service.NewPurgeService(repository.NewUnitOfWorkFactory(db, eventBus),
		services.Alerts, services.Checklist, services.Reminders, services.Schedules, services.Timers,
		services.Utility, services.Users, services.BattleTower, services.Auctions)

	// Every cache is filled before the bot can read or write it
	loader := service.NewLoader(eventBus,
		services.Alerts, services.Checklist, services.Reminders, services.Schedules, services.Auctions,
		services.Timers, services.Utility, services.Users, services.FactionBalls, services.SpookyHour,
		services.BattleTower, services.Market,
	)
	if _, err := loader.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load caches: %w", err)
	}
	stopReload := loader.Start(ctx, cfg.CacheReloadInterval)
	defer stopReload()

	// Metrics and health endpoints
	var metrics *observability.Server
	if cfg.MetricsAddr != "" {
		metrics = observability.NewServer(cfg.MetricsAddr, db)
		go func() {
			if err := metrics.Start(); err != nil {
				log.WithError(err).Error("Observability server failed")
			}
		}()
	}

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.GuildID,
		PokeMeowBotID:   cfg.PokeMeowBotID,
		DueScanInterval: cfg.DueScanInterval,
		AuctionLead:     cfg.AuctionReminderLead,
		Cron: bot.CronConfig{
			Location:         cfg.Location(),
			FactionResetSpec: cfg.FactionResetCron,
			BattleTowerSpec:  cfg.BattleTowerCron,
		},
	}, services, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Mew is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metrics != nil {
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error stopping observability server")
		}
	}

	log.Info("Shutdown completed")
	return nil
}
