package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_updates_received_total",
		Help: "Chat updates received by the webhook, labelled by outcome (enqueued, duplicate, rate_limited, ignored, error).",
	}, []string{"outcome"})

	EventsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_events_resolved_total",
		Help: "Messages resolved to a ledger event, labelled by resolution source and event type.",
	}, []string{"source", "type"})

	OracleFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_oracle_fallbacks_total",
		Help: "Resolutions that fell back to the default report, labelled by reason.",
	}, []string{"reason"})

	EventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_events_applied_total",
		Help: "Events applied to the ledger, labelled by type and status (ok, rejected, error).",
	}, []string{"type", "status"})

	EventProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sawmill_event_processing_duration_ms",
		Help:    "Worker processing latency per intake message in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000},
	})

	EntriesReclaimed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_stream_entries_reclaimed_total",
		Help: "Stale stream entries taken over from a dead consumer, labelled by outcome (processed, taken, malformed, error).",
	}, []string{"outcome"})

	RepliesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sawmill_replies_sent_total",
		Help: "Replies sent back to the chat, labelled by status (ok, error).",
	}, []string{"status"})
)
