// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/luxfi/airlock/config"
	"github.com/luxfi/airlock/frost"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/vdf"
)

// raceEvent is one signal out of the three the Racing state of spec
// §4.5 waits on: voting resolution, VDF completion, or the proposal
// deadline. vdferr is a fourth signal: a VDF failure ends the race
// through the vote path when voting has already resolved, and as a
// failed result otherwise (spec §4.5 failure semantics).
type raceEvent struct {
	kind string
	snap types.ProposalSnapshot
	job  vdf.Job
	err  error
}

// race implements the Racing/Assembling states: it waits on the first
// of {voting-resolved, vdf-ready, deadline-fired} and assembles the
// envelope the winner implies.
func (o *Orchestrator) race(ctx context.Context, fp types.Fingerprint, expiresAt time.Time, vdfJobID string, flagged bool) (Result, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan raceEvent, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		o.watchVotes(raceCtx, fp, events)
	}()

	if flagged {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.watchVDF(raceCtx, fp, vdfJobID, events)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		o.watchDeadline(raceCtx, expiresAt, events)
	}()

	for {
		select {
		case <-ctx.Done():
			cancel()
			o.bypassIfNeeded(vdfJobID)
			return Result{Status: ResultCancelled, Reason: ctx.Err()}, nil

		case ev := <-events:
			switch ev.kind {
			case "vote":
				cancel()
				return o.finishVote(ctx, fp, ev.snap, vdfJobID)

			case "vdf":
				cancel()
				return o.finishVDF(ctx, fp, ev.job)

			case "deadline":
				cancel()
				return o.finishExpired(ctx, fp, vdfJobID)

			case "vdferr":
				if snap, err := o.store.Snapshot(fp); err == nil && decide(snap.Tally, o.cfg) != types.OutcomePending {
					cancel()
					return o.finishVote(ctx, fp, snap, vdfJobID)
				}
				cancel()
				o.metrics.ProposalsFailed.Inc()
				o.emitErr(fp, PhaseFailed, ev.err)
				return Result{Status: ResultFailed, Reason: fmt.Errorf("%w: %v", types.ErrVdfFailure, ev.err)}, nil
			}
		}
	}
}

func (o *Orchestrator) watchVotes(ctx context.Context, fp types.Fingerprint, events chan<- raceEvent) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := o.store.Snapshot(fp)
		if err != nil {
			return
		}
		if snap.Finalized {
			return
		}
		o.emit(fp, PhaseVotingPending, &snap.Tally)

		if snap.Tally.Phase == types.PhaseCommit && len(snap.CommitSet) >= o.cfg.GuardianCount {
			if _, err := o.store.AdvanceToReveal(fp); err != nil {
				o.log.Warn("advance to reveal failed", "fingerprint", fp, "err", err)
			}
			continue
		}

		if decide(snap.Tally, o.cfg) == types.OutcomePending {
			continue
		}
		select {
		case events <- raceEvent{kind: "vote", snap: snap}:
		case <-ctx.Done():
		}
		return
	}
}

// watchVDF polls jobID at o.pollInterval rather than blocking on
// Await, so the race loop can observe its progress: every tick short
// of a terminal state emits a vdf-pending ProgressEvent carrying the
// squarings completed so far (spec §4.5's "vdf-pending(progress,
// eta)"), not just the one-shot event Submit emits when the job is
// first requested.
func (o *Orchestrator) watchVDF(ctx context.Context, fp types.Fingerprint, jobID string, events chan<- raceEvent) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		job, err := o.vdf.Poll(jobID)
		if err != nil {
			return
		}

		switch job.State {
		case vdf.StateReady:
			select {
			case events <- raceEvent{kind: "vdf", job: job}:
			case <-ctx.Done():
			}
			return
		case vdf.StateFailed:
			select {
			case events <- raceEvent{kind: "vdferr", err: job.Err}:
			case <-ctx.Done():
			}
			return
		case vdf.StateBypassed:
			return // bypassed elsewhere; the race already decided without us
		default:
			o.emitVDFProgress(fp, job.Progress)
		}
	}
}

func (o *Orchestrator) watchDeadline(ctx context.Context, expiresAt time.Time, events chan<- raceEvent) {
	timer := time.NewTimer(time.Until(expiresAt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	select {
	case events <- raceEvent{kind: "deadline"}:
	case <-ctx.Done():
	}
}

// decide applies spec §4.3's tally thresholds.
func decide(t types.Tally, cfg config.Config) types.Outcome {
	if t.Approve >= cfg.ApprovalThreshold {
		return types.OutcomeApproved
	}
	if t.Reject >= cfg.RejectionThreshold {
		return types.OutcomeRejected
	}
	return types.OutcomePending
}

func (o *Orchestrator) bypassIfNeeded(vdfJobID string) {
	if vdfJobID == "" {
		return
	}
	if err := o.vdf.Bypass(vdfJobID); err != nil {
		o.log.Warn("vdf bypass failed", "job_id", vdfJobID, "err", err)
	}
}

// signMessage binds the signed outcome tag to this proposal's
// fingerprint so a signature can never be replayed across proposals
// or outcomes (spec §4.2 invariants).
func signMessage(fp types.Fingerprint, tag types.OutcomeTag) []byte {
	msg := make([]byte, 0, len(fp)+len(tag))
	msg = append(msg, fp[:]...)
	msg = append(msg, tag...)
	return msg
}

// selectSigners picks exactly threshold guardian slots with a valid
// reveal out of snap. When matchVote is true only slots whose
// revealed vote equals want qualify (the approve/reject signing
// path); when false any validly-revealed slot qualifies (the
// delayed-approved signing path, where the VDF time-lock is the
// actual gate and the signature just attests committee availability).
// Slots are chosen in ascending order for determinism.
func selectSigners(snap types.ProposalSnapshot, want types.Vote, matchVote bool, threshold int) ([]frost.Slot, bool) {
	var slots []int
	for slot, r := range snap.RevealSet {
		if !r.ProofOK {
			continue
		}
		if matchVote && r.Vote != want {
			continue
		}
		slots = append(slots, slot)
	}
	if len(slots) < threshold {
		return nil, false
	}
	sort.Ints(slots)
	out := make([]frost.Slot, threshold)
	for i := 0; i < threshold; i++ {
		out[i] = frost.Slot(slots[i])
	}
	return out, true
}

func resultStatusFor(outcome types.Outcome) ResultStatus {
	switch outcome {
	case types.OutcomeApproved:
		return ResultApproved
	case types.OutcomeRejected:
		return ResultRejected
	default:
		return ResultFailed
	}
}

// finishVote assembles an envelope with a zero VDF proof from a
// resolved vote: the first race leg to fire per spec §4.5's
// "approved first" / "rejected first" rules, or the fallback when a
// VDF error leaves voting as the only remaining path.
func (o *Orchestrator) finishVote(ctx context.Context, fp types.Fingerprint, snap types.ProposalSnapshot, vdfJobID string) (Result, error) {
	o.bypassIfNeeded(vdfJobID)

	outcome := decide(snap.Tally, o.cfg)
	var want types.Vote
	var tag types.OutcomeTag
	switch outcome {
	case types.OutcomeApproved:
		want, tag = types.VoteApprove, types.OutcomeTagApproved
	case types.OutcomeRejected:
		want, tag = types.VoteReject, types.OutcomeTagRejected
	default:
		return Result{}, fmt.Errorf("airlock: finishVote called with an undecided tally")
	}

	signers, ok := selectSigners(snap, want, true, o.cfg.SigningThreshold)
	if !ok {
		o.metrics.ProposalsFailed.Inc()
		return Result{Status: ResultFailed, Reason: types.ErrSignatureAssembly}, nil
	}
	sig, err := o.frost.Sign(signMessage(fp, tag), signers)
	if err != nil {
		o.metrics.ProposalsFailed.Inc()
		return Result{Status: ResultFailed, Reason: fmt.Errorf("%w: %v", types.ErrSignatureAssembly, err)}, nil
	}

	env := types.Envelope{Fingerprint: fp, Signature: sig, OutcomeTag: tag}
	return o.finalizeAndExecute(ctx, fp, outcome, env)
}

// finishVDF assembles an envelope with a full VDF proof: the VDF race
// leg fired first while voting was still open. The threshold
// signature attests the currently-available committee co-signs the
// delayed-approved tag; it does not require the approval threshold to
// have been crossed, since the VDF delay is what gates execution here.
func (o *Orchestrator) finishVDF(ctx context.Context, fp types.Fingerprint, job vdf.Job) (Result, error) {
	snap, err := o.store.Snapshot(fp)
	if err != nil {
		o.metrics.ProposalsFailed.Inc()
		return Result{Status: ResultFailed, Reason: err}, nil
	}

	signers, ok := selectSigners(snap, 0, false, o.cfg.SigningThreshold)
	if !ok {
		o.metrics.ProposalsFailed.Inc()
		return Result{Status: ResultFailed, Reason: types.ErrSignatureAssembly}, nil
	}
	sig, err := o.frost.Sign(signMessage(fp, types.OutcomeTagDelayApproved), signers)
	if err != nil {
		o.metrics.ProposalsFailed.Inc()
		return Result{Status: ResultFailed, Reason: fmt.Errorf("%w: %v", types.ErrSignatureAssembly, err)}, nil
	}

	env := types.Envelope{Fingerprint: fp, VDFProof: job.Proof, Signature: sig, OutcomeTag: types.OutcomeTagDelayApproved}
	return o.finalizeAndExecute(ctx, fp, types.OutcomeApproved, env)
}

func (o *Orchestrator) finishExpired(ctx context.Context, fp types.Fingerprint, vdfJobID string) (Result, error) {
	o.bypassIfNeeded(vdfJobID)
	if _, err := o.store.Finalize(fp, types.OutcomeExpired); err != nil {
		o.log.Warn("finalize failed", "fingerprint", fp, "err", err)
	}
	o.metrics.ProposalsExpired.Inc()
	o.emit(fp, PhaseComplete, nil)
	return Result{Status: ResultExpired}, nil
}

func (o *Orchestrator) finalizeAndExecute(ctx context.Context, fp types.Fingerprint, outcome types.Outcome, env types.Envelope) (Result, error) {
	if _, err := o.store.Finalize(fp, outcome); err != nil {
		o.log.Warn("finalize failed", "fingerprint", fp, "err", err)
	}
	switch outcome {
	case types.OutcomeApproved:
		o.metrics.ProposalsApproved.Inc()
	case types.OutcomeRejected:
		o.metrics.ProposalsRejected.Inc()
	}

	o.emit(fp, PhaseExecuting, nil)
	status := resultStatusFor(outcome)
	if err := o.executor.Execute(ctx, env); err != nil {
		o.log.Warn("executor rejected envelope", "fingerprint", fp, "err", err)
		o.emitErr(fp, PhaseFailed, err)
		return Result{Status: status, Envelope: env, Reason: err}, nil
	}

	o.emit(fp, PhaseComplete, nil)
	return Result{Status: status, Envelope: env}, nil
}
