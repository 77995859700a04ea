// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics exposes the airlock core's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the orchestrator, vdf and frost
// packages update as proposals move through the airlock.
type Metrics struct {
	Registry prometheus.Registerer

	ProposalsOpened     prometheus.Counter
	ProposalsApproved   prometheus.Counter
	ProposalsRejected   prometheus.Counter
	ProposalsExpired    prometheus.Counter
	ProposalsFailed     prometheus.Counter

	VDFJobsStarted   prometheus.Counter
	VDFJobsBypassed  prometheus.Counter
	VDFJobsFailed    prometheus.Counter
	VDFProgress      *prometheus.GaugeVec
	VDFDuration      prometheus.Histogram

	SigningRounds    prometheus.Counter
	SigningFailures  prometheus.Counter
}

// New creates and registers the airlock metric collectors against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Registry: reg,
		ProposalsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_proposals_opened_total",
			Help: "Total proposals opened by the orchestrator.",
		}),
		ProposalsApproved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_proposals_approved_total",
			Help: "Total proposals that finalized as approved.",
		}),
		ProposalsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_proposals_rejected_total",
			Help: "Total proposals that finalized as rejected.",
		}),
		ProposalsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_proposals_expired_total",
			Help: "Total proposals that expired without a decision.",
		}),
		ProposalsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_proposals_failed_total",
			Help: "Total proposals that failed fatally.",
		}),
		VDFJobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_vdf_jobs_started_total",
			Help: "Total VDF jobs requested.",
		}),
		VDFJobsBypassed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_vdf_jobs_bypassed_total",
			Help: "Total VDF jobs bypassed before completion.",
		}),
		VDFJobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_vdf_jobs_failed_total",
			Help: "Total VDF jobs that failed.",
		}),
		VDFProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "airlock_vdf_job_progress",
			Help: "Current progress percentage of an active VDF job.",
		}, []string{"job_id"}),
		VDFDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "airlock_vdf_job_duration_seconds",
			Help:    "Wall-clock duration of completed VDF jobs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		}),
		SigningRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_signing_rounds_total",
			Help: "Total FROST signing rounds attempted.",
		}),
		SigningFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "airlock_signing_failures_total",
			Help: "Total FROST signing rounds that failed.",
		}),
	}

	collectors := []prometheus.Collector{
		m.ProposalsOpened, m.ProposalsApproved, m.ProposalsRejected,
		m.ProposalsExpired, m.ProposalsFailed,
		m.VDFJobsStarted, m.VDFJobsBypassed, m.VDFJobsFailed,
		m.VDFProgress, m.VDFDuration,
		m.SigningRounds, m.SigningFailures,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNoOp returns a Metrics backed by a fresh, unregistered registry, for
// tests that don't want to share Prometheus' default global registry.
func NewNoOp() *Metrics {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		panic(err)
	}
	return m
}
