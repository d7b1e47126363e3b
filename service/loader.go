package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mew/events"
	"mew/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Loader rebuilds every cache from the store, at startup and on an interval
type Loader struct {
	domains []Reloadable
	emitter EventEmitter
}

// NewLoader creates a loader over domains. emitter may be nil.
func NewLoader(emitter EventEmitter, domains ...Reloadable) *Loader {
	return &Loader{domains: domains, emitter: emitter}
}

// LoadResult summarizes one reload cycle
type LoadResult struct {
	CycleID  string
	Domains  map[string]ReloadResult
	Failed   []string
	Duration time.Duration
}

// LoadAll reloads every domain. A domain whose fetch fails keeps its cache
// and is reported in the returned error; the other domains still reload.
func (l *Loader) LoadAll(ctx context.Context) (LoadResult, error) {
	start := time.Now()
	result := LoadResult{
		CycleID: uuid.NewString(),
		Domains: make(map[string]ReloadResult, len(l.domains)),
	}
	logger := log.WithField("cycle_id", result.CycleID)

	var errs []error
	for _, d := range l.domains {
		domainStart := time.Now()
		res, err := d.Reload(ctx)
		observability.ReloadDuration.WithLabelValues(d.Name()).Observe(time.Since(domainStart).Seconds())
		if err != nil {
			observability.ReloadFailuresTotal.WithLabelValues(d.Name()).Inc()
			logger.WithField("cache", d.Name()).WithError(err).Error("Cache reload failed, keeping previous contents")
			result.Failed = append(result.Failed, d.Name())
			errs = append(errs, fmt.Errorf("failed to reload %s: %w", d.Name(), err))
			continue
		}
		result.Domains[d.Name()] = res
		recordDrift(d.Name(), res.Drift)

		entry := logger.WithFields(log.Fields{
			"cache": d.Name(),
			"rows":  res.Rows,
		})
		if !res.Drift.Empty() {
			entry.WithFields(log.Fields{
				"missing": res.Drift.Missing,
				"stale":   res.Drift.Stale,
				"phantom": res.Drift.Phantom,
			}).Warn("Cache reload corrected drift")
		} else {
			entry.Debug("Cache reloaded")
		}
	}
	result.Duration = time.Since(start)

	logger.WithFields(log.Fields{
		"caches":   len(l.domains),
		"failed":   len(result.Failed),
		"duration": result.Duration,
	}).Info("Cache reload cycle finished")

	emit(ctx, l.emitter, reloadedEvent(result))
	return result, errors.Join(errs...)
}

// Audit compares every cache with the store without changing either
func (l *Loader) Audit(ctx context.Context) (map[string]Drift, error) {
	out := make(map[string]Drift, len(l.domains))
	var errs []error
	for _, d := range l.domains {
		drift, err := d.Audit(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to audit %s: %w", d.Name(), err))
			continue
		}
		out[d.Name()] = drift
	}
	return out, errors.Join(errs...)
}

// Start reloads every cache on each tick until ctx ends or the returned
// cleanup function is called
func (l *Loader) Start(ctx context.Context, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", interval).Info("Cache reload worker started")
		for {
			select {
			case <-ctx.Done():
				log.Info("Cache reload worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Cache reload worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				// Failures are logged per cache and retried on the next tick
				_, _ = l.LoadAll(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

func recordDrift(name string, d Drift) {
	observability.ReloadDriftTotal.WithLabelValues(name, "missing").Add(float64(len(d.Missing)))
	observability.ReloadDriftTotal.WithLabelValues(name, "stale").Add(float64(len(d.Stale)))
	observability.ReloadDriftTotal.WithLabelValues(name, "phantom").Add(float64(len(d.Phantom)))
}

func reloadedEvent(r LoadResult) events.CacheReloadedEvent {
	e := events.CacheReloadedEvent{
		CycleID:  r.CycleID,
		Rows:     make(map[string]int, len(r.Domains)),
		Drift:    make(map[string]int, len(r.Domains)),
		Failed:   r.Failed,
		Duration: r.Duration,
	}
	for name, res := range r.Domains {
		e.Rows[name] = res.Rows
		e.Drift[name] = res.Drift.Total()
	}
	return e
}
