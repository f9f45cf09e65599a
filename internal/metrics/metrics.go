package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_events_built_total",
		Help: "Total number of analytics events constructed from requests.",
	})

	EventsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_events_delivered_total",
		Help: "Total number of events accepted by the ingestion endpoint.",
	})

	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_delivery_failures_total",
		Help: "Total number of events that failed delivery and were dropped.",
	})

	RequestsIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_requests_ignored_total",
		Help: "Total number of requests skipped by the ignore list.",
	})

	UACacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_ua_cache_hits_total",
		Help: "Total number of user-agent parses served from the cache.",
	})

	UACacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amptrack_ua_cache_misses_total",
		Help: "Total number of user-agent strings parsed from scratch.",
	})

	DeliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amptrack_delivery_duration_ms",
		Help:    "Latency of the synchronous delivery call in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
