package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// StartDueScanWorker starts a background worker delivering due reminders,
// schedules and auction reminders. Returns a cleanup function to stop the worker gracefully
func StartDueScanWorker(ctx context.Context, jobs *Jobs, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	scan := func() {
		if err := jobs.ScanDue(ctx, time.Now()); err != nil {
			log.WithError(err).Error("Due scan failed")
		}
	}

	go func() {
		log.Infof("Due scan worker started, scanning every %v", interval)

		// Run immediately on startup
		scan()

		for {
			select {
			case <-ctx.Done():
				log.Info("Due scan worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Due scan worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				scan()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// CronConfig holds the wall-clock triggers of the reset jobs
type CronConfig struct {
	Location         *time.Location
	FactionResetSpec string
	BattleTowerSpec  string
}

// StartCronWorker schedules the faction ball reset, the battle tower ping
// and the spooky hour expiry. Returns a cleanup function that waits for
// running jobs.
func StartCronWorker(ctx context.Context, jobs *Jobs, cfg CronConfig) (func(), error) {
	c := cron.New(cron.WithLocation(cfg.Location))

	entries := []struct {
		name string
		spec string
		run  func() error
	}{
		{"faction_reset", cfg.FactionResetSpec, func() error { return jobs.ResetFactionBalls(ctx, time.Now()) }},
		{"battle_tower", cfg.BattleTowerSpec, func() error { return jobs.PingBattleTower(ctx) }},
		{"spooky_expiry", "@every 1m", func() error { return jobs.ExpireSpookyHour(ctx, time.Now()) }},
	}
	for _, e := range entries {
		if _, err := c.AddFunc(e.spec, func() {
			if err := e.run(); err != nil {
				log.WithField("job", e.name).WithError(err).Error("Scheduled job failed")
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", e.spec, e.name, err)
		}
	}

	c.Start()
	log.WithField("timezone", cfg.Location.String()).Info("Cron worker started")

	return func() {
		<-c.Stop().Done()
		log.Info("Cron worker stopped")
	}, nil
}
