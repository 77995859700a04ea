// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orchestrator implements the airlock state machine of spec
// §4.5: it accepts a transaction intent, invokes the scorer,
// conditionally spawns a VDF job, opens a proposal, races VDF
// completion against voting resolution against the proposal deadline,
// and emits the final envelope or block decision. It depends on
// store, scorer, executor, vdf and frost but none of them reach back
// into it: the dependency tree is acyclic, the same shape the
// teacher's DAG engine keeps between itself and the vertex store it
// drives.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/luxfi/airlock/config"
	"github.com/luxfi/airlock/executor"
	"github.com/luxfi/airlock/frost"
	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/scorer"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/vdf"
)

// ResultStatus is the orchestrator's terminal disposition for one
// intent (spec §7: "the orchestrator returns exactly one of
// envelope(approved), envelope(rejected), block(reason), expired,
// failed(reason)").
type ResultStatus string

const (
	ResultApproved  ResultStatus = "approved"
	ResultRejected  ResultStatus = "rejected"
	ResultBlocked   ResultStatus = "blocked"
	ResultExpired   ResultStatus = "expired"
	ResultFailed    ResultStatus = "failed"
	ResultCancelled ResultStatus = "cancelled"
)

// Result is what Submit returns: exactly one terminal disposition.
// Envelope is only populated for ResultApproved and ResultRejected.
type Result struct {
	Status   ResultStatus
	Envelope types.Envelope
	Reason   error
}

// Orchestrator wires together every component a transaction intent
// passes through. All dependencies are injected at construction time;
// nothing here reaches for a package-level global.
type Orchestrator struct {
	cfg      config.Config
	store    *store.Store
	scorer   scorer.Scorer
	vdf      *vdf.Engine
	frost    *frost.Engine
	executor executor.Executor
	policy   PolicyGate

	log     log.Logger
	metrics *metrics.Metrics

	pollInterval time.Duration
	progress     chan ProgressEvent
}

// New returns an Orchestrator. policy may be nil, in which case no
// intent is ever pre-flight blocked.
func New(
	cfg config.Config,
	st *store.Store,
	sc scorer.Scorer,
	vdfEngine *vdf.Engine,
	frostEngine *frost.Engine,
	exec executor.Executor,
	policy PolicyGate,
	logger log.Logger,
	m *metrics.Metrics,
) *Orchestrator {
	if policy == nil {
		policy = openGate{}
	}
	return &Orchestrator{
		cfg:          cfg,
		store:        st,
		scorer:       sc,
		vdf:          vdfEngine,
		frost:        frostEngine,
		executor:     exec,
		policy:       policy,
		log:          logger,
		metrics:      m,
		pollInterval: 10 * time.Millisecond,
		progress:     make(chan ProgressEvent, 64),
	}
}

// WithPollInterval sets how often the race loop polls the store for
// vote resolution. Demos and tests that want to observe every
// intermediate tally want this short; production deployments can
// widen it to cut store-read pressure.
func (o *Orchestrator) WithPollInterval(d time.Duration) *Orchestrator {
	if d > 0 {
		o.pollInterval = d
	}
	return o
}

// Submit runs intent through the full airlock pipeline: pre-flight
// checks, scoring, proposal admission, the VDF/voting/deadline race,
// and envelope hand-off to the executor.
func (o *Orchestrator) Submit(ctx context.Context, intent types.Intent) (Result, error) {
	fp := intent.FingerprintOf()
	o.emit(fp, PhaseSubmitted, nil)

	if blocked, reason := o.preflight(intent); blocked {
		o.emitErr(fp, PhaseFailed, reason)
		return Result{Status: ResultBlocked, Reason: reason}, nil
	}

	if ctx.Err() != nil {
		return Result{Status: ResultCancelled, Reason: ctx.Err()}, nil
	}

	o.emit(fp, PhaseScoring, nil)
	score, flagged := o.score(ctx, intent)
	if flagged {
		o.emit(fp, PhaseFlagged, nil)
	}

	now := time.Now()
	snap, err := o.store.Open(fp, now, o.cfg.ProposalDeadline)
	if err != nil {
		return Result{}, err
	}
	o.metrics.ProposalsOpened.Inc()
	o.log.Info("proposal opened", "fingerprint", fp, "flagged", flagged, "score", score.Score)

	var vdfJobID string
	if flagged {
		id, err := o.vdf.Request(fp, o.cfg.VDFIterations)
		if err != nil {
			o.metrics.ProposalsFailed.Inc()
			return Result{Status: ResultFailed, Reason: fmt.Errorf("%w: %v", types.ErrVdfFailure, err)}, nil
		}
		vdfJobID = id
		if err := o.store.AttachVDFJob(fp, vdfJobID); err != nil {
			o.log.Warn("attach vdf job failed", "fingerprint", fp, "err", err)
		}
		o.emit(fp, PhaseVDFPending, nil)
	}

	return o.race(ctx, fp, snap.ExpiresAt, vdfJobID, flagged)
}

// preflight runs the terminal checks of spec §4.5's Submitted state.
func (o *Orchestrator) preflight(intent types.Intent) (bool, error) {
	if intent.IsEmptyDestination() {
		return true, types.ErrInvalidIntent
	}
	if o.policy.Blacklisted(intent.Caller) || o.policy.Paused() {
		return true, types.ErrBlocked
	}
	return false, nil
}

// score invokes the scorer under its configured timeout. Any error —
// including a timeout — degrades to Unflagged and continues (spec
// §4.5: "fail-open on score but never on voting").
func (o *Orchestrator) score(ctx context.Context, intent types.Intent) (types.RiskScore, bool) {
	scoreCtx, cancel := context.WithTimeout(ctx, o.cfg.ScorerTimeout)
	defer cancel()

	result, err := o.scorer.Score(scoreCtx, intent)
	if err != nil {
		o.log.Warn("scorer unavailable, degrading to unflagged", "err", err)
		return types.RiskScore{}, false
	}
	return result, result.Flagged(o.cfg.FlagThreshold)
}
