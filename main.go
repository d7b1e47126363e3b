package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mew/cmd"
	"mew/config"
	"mew/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		if err := handleSubcommand(os.Args[1], os.Args[2:]); err != nil {
			log.WithField("command", os.Args[1]).WithError(err).Fatal("Command failed")
		}
		return
	}

	cfg, err := config.Init()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration, check the environment and .env files")
	}
	cmd.ConfigureLogging(cfg)

	// Cancelled on SIGINT or SIGTERM so Run can shut down gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Application error")
	}
	log.Info("Mew stopped")
}

func handleSubcommand(name string, args []string) error {
	switch name {
	case "migrate":
		// Migrations only need the database, not the Discord settings
		config.LoadEnvFiles()
		return handleMigrationCommand(args)
	case "check-config":
		return checkConfig()
	default:
		return fmt.Errorf("unknown command %q, expected migrate or check-config", name)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mew migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

// checkConfig validates the environment without connecting to anything
func checkConfig() error {
	cfg, err := config.Init()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"environment":     cfg.Environment,
		"guild_id":        cfg.GuildID,
		"pokemeow_bot_id": cfg.PokeMeowBotID,
		"reset_timezone":  cfg.Location().String(),
		"reload_interval": cfg.CacheReloadInterval,
		"due_scan":        cfg.DueScanInterval,
		"nats":            cfg.NATSServers != "",
		"metrics_addr":    cfg.MetricsAddr,
	}).Info("Configuration is valid")
	return nil
}
