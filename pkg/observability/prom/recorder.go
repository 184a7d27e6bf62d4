// Copyright (c) 2025 Simon Lapacek
// SPDX-License-Identifier: MIT

package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lapacek-labs/pocketid-operator/pkg/observability"
)

type Recorder struct {
	reconcileTotal    *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec

	retriesScheduled prometheus.Counter
	retryAttempt     prometheus.Histogram
}

func NewRecorder(registerer prometheus.Registerer) *Recorder {
	r := &Recorder{
		reconcileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketid_operator_reconcile_total",
				Help: "Number of completed reconciles by outcome/reason/phase.",
			},
			[]string{"outcome", "reason", "phase"},
		),

		reconcileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pocketid_operator_reconcile_duration_seconds",
				Help:    "Duration of a reconcile in seconds by outcome/reason/phase.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome", "reason", "phase"},
		),

		retriesScheduled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pocketid_operator_retries_scheduled_total",
				Help: "Total number of backoff retries scheduled after failed attempts.",
			},
		),

		retryAttempt: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pocketid_operator_retry_attempt",
				Help:    "Distribution of the attempt counter at the time a retry was scheduled.",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			},
		),
	}

	registerer.MustRegister(
		r.reconcileTotal,
		r.reconcileDuration,
		r.retriesScheduled,
		r.retryAttempt,
	)

	return r
}

var _ observability.Recorder = (*Recorder)(nil)

func (r *Recorder) RecordAttempt(attempt observability.Attempt, latency time.Duration) {
	outcome := string(attempt.Outcome)
	reason := string(attempt.Reason)
	phase := string(attempt.Phase)

	r.reconcileTotal.WithLabelValues(outcome, reason, phase).Inc()
	r.reconcileDuration.WithLabelValues(outcome, reason, phase).Observe(latency.Seconds())
}

func (r *Recorder) RecordRetryScheduled(retryAttempt int, delay time.Duration) {
	// The delay itself is fully determined by the attempt counter (plus
	// bounded jitter), so only the counter is exported.
	r.retriesScheduled.Inc()
	r.retryAttempt.Observe(float64(retryAttempt))
}
