package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_messages_total",
			Help: "Messages handled by the conversation engine, by intent and outcome.",
		},
		[]string{"intent", "outcome"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astro_cache_lookups_total",
			Help: "Astrology data cache lookups by result (hit, refresh, stale, degraded).",
		},
		[]string{"result"},
	)

	paymentsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_verified_total",
			Help: "Payment verification attempts by status.",
		},
		[]string{"status"},
	)
)
