// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import "github.com/luxfi/airlock/types"

// Progress phase labels emitted on the orchestrator's best-effort
// progress surface (spec §4.5).
const (
	PhaseSubmitted     = "submitted"
	PhaseScoring       = "scoring"
	PhaseFlagged       = "flagged"
	PhaseVDFPending    = "vdf-pending"
	PhaseVotingPending = "voting-pending"
	PhaseReady         = "ready"
	PhaseExecuting     = "executing"
	PhaseComplete      = "complete"
	PhaseFailed        = "failed"
)

// ProgressEvent is one point on the orchestrator's progress stream.
type ProgressEvent struct {
	Fingerprint types.Fingerprint
	Phase       string
	Tally       *types.Tally
	VDFProgress uint64
	Err         error
}

// emit publishes ev without blocking the caller: a full progress
// channel drops the event rather than stalling a state transition,
// per spec §4.5 ("Progress emission is best-effort and MUST NOT
// block state transitions").
func (o *Orchestrator) emit(fp types.Fingerprint, phase string, tally *types.Tally) {
	if o.progress == nil {
		return
	}
	select {
	case o.progress <- ProgressEvent{Fingerprint: fp, Phase: phase, Tally: tally}:
	default:
	}
}

// emitVDFProgress publishes a vdf-pending event carrying the VDF
// job's current squaring count, the same best-effort/non-blocking way
// emit does.
func (o *Orchestrator) emitVDFProgress(fp types.Fingerprint, progress uint64) {
	if o.progress == nil {
		return
	}
	select {
	case o.progress <- ProgressEvent{Fingerprint: fp, Phase: PhaseVDFPending, VDFProgress: progress}:
	default:
	}
}

func (o *Orchestrator) emitErr(fp types.Fingerprint, phase string, err error) {
	if o.progress == nil {
		return
	}
	select {
	case o.progress <- ProgressEvent{Fingerprint: fp, Phase: phase, Err: err}:
	default:
	}
}

// Progress returns the orchestrator's progress event stream. Callers
// that don't want it MAY ignore it entirely; events are dropped, not
// queued, once the channel is full.
func (o *Orchestrator) Progress() <-chan ProgressEvent { return o.progress }
