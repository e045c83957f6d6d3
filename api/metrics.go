/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels
const (
	resultOK          = "ok"
	resultInvalid     = "invalid"
	resultNotFound    = "not_found"
	resultCorrupt     = "corrupt"
	resultUnavailable = "unavailable"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	registrations *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mothership",
			Name:      "registrations_total",
			Help:      "Registration requests by result.",
		}, []string{"result"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mothership",
			Name:      "resolutions_total",
			Help:      "Topic lookups by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mothership",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.registrations, m.resolutions, m.duration)
	return m
}
