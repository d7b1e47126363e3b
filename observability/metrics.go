package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cache metrics
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_cache_hits_total",
		Help: "The total number of cache lookups served from memory",
	}, []string{"cache"})
	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_cache_misses_total",
		Help: "The total number of cache lookups that found nothing",
	}, []string{"cache"})
	CacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mew_cache_entries",
		Help: "The number of records currently held by a cache",
	}, []string{"cache"})
	CacheIndexRebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_cache_index_rebuilds_total",
		Help: "The total number of lazy index rebuilds after a reload",
	}, []string{"cache"})

	// Store metrics
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_store_errors_total",
		Help: "The total number of failed store operations",
	}, []string{"domain", "operation"})

	// Reload metrics
	ReloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mew_cache_reload_duration_seconds",
		Help:    "Latency of a full cache reload per domain",
		Buckets: prometheus.DefBuckets,
	}, []string{"cache"})
	ReloadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_cache_reload_failures_total",
		Help: "The total number of reloads that could not fetch from the store",
	}, []string{"cache"})
	ReloadDriftTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_cache_reload_drift_total",
		Help: "The total number of divergent records corrected by a reload",
	}, []string{"cache", "kind"})

	// Bot metrics
	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_notifications_sent_total",
		Help: "The total number of notifications delivered to Discord",
	}, []string{"kind"})
	NotificationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_notification_errors_total",
		Help: "The total number of notifications Discord rejected",
	}, []string{"kind"})
	MessagesClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_messages_classified_total",
		Help: "The total number of PokéMeow messages matched by a classifier",
	}, []string{"classifier"})

	// Event metrics
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mew_events_published_total",
		Help: "The total number of events forwarded to NATS",
	}, []string{"type"})
)
