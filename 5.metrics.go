package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters exported on /metrics. Each instance registers
// on its own registry so tests never collide with the process-wide one.
type Metrics struct {
	Registry         *prometheus.Registry
	ReplyAttempts    *prometheus.CounterVec
	ReplyFallbacks   prometheus.Counter
	DispatchActions  *prometheus.CounterVec
	AmbientGreetings prometheus.Counter
	EnabledChannels  prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		ReplyAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jarvis_reply_attempts_total",
			Help: "Provider attempts by provider and result",
		}, []string{"provider", "result"}),
		ReplyFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "jarvis_reply_fallbacks_total",
			Help: "Replies served from the static fallback corpus",
		}),
		DispatchActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jarvis_dispatch_actions_total",
			Help: "Inbound messages by classified action",
		}, []string{"action"}),
		AmbientGreetings: f.NewCounter(prometheus.CounterOpts{
			Name: "jarvis_ambient_greetings_total",
			Help: "Unsolicited greetings sent by the ambient talker",
		}),
		EnabledChannels: f.NewGauge(prometheus.GaugeOpts{
			Name: "jarvis_enabled_channels",
			Help: "Channels currently enabled",
		}),
	}
}
