// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store holds every in-flight proposal's commit/reveal state.
// It is the airlock core's only mutable shared state: a single
// mutex-guarded map keyed by intent fingerprint, following the same
// in-process bookkeeping idiom the teacher's DAG vertex store uses.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/zkvote"
)

type proposal struct {
	fingerprint types.Fingerprint
	createdAt   time.Time
	expiresAt   time.Time
	phase       types.ProposalPhase
	commitSet   map[int][32]byte
	revealSet   map[int]types.Reveal
	finalized   bool
	vdfJobID    string
	outcome     types.Outcome
}

func (p *proposal) snapshot(guardianCount int) types.ProposalSnapshot {
	commitSet := make(map[int][32]byte, len(p.commitSet))
	for k, v := range p.commitSet {
		commitSet[k] = v
	}
	revealSet := make(map[int]types.Reveal, len(p.revealSet))
	for k, v := range p.revealSet {
		revealSet[k] = v
	}
	return types.ProposalSnapshot{
		Fingerprint: p.fingerprint,
		CreatedAt:   p.createdAt,
		ExpiresAt:   p.expiresAt,
		CommitSet:   commitSet,
		RevealSet:   revealSet,
		Tally:       tallyFor(revealSet, p.phase, guardianCount),
		Finalized:   p.finalized,
		VDFJobID:    p.vdfJobID,
		Outcome:     p.outcome,
	}
}

func tallyFor(revealSet map[int]types.Reveal, phase types.ProposalPhase, guardianCount int) types.Tally {
	votes := make(map[uint32]types.Vote, len(revealSet))
	for slot, r := range revealSet {
		if r.ProofOK {
			votes[uint32(slot)] = r.Vote
		}
	}
	t := zkvote.Tally(votes, guardianCount)
	t.Phase = phase
	return t
}

// Store tracks every proposal currently moving through the airlock.
type Store struct {
	mu            sync.RWMutex
	proposals     map[types.Fingerprint]*proposal
	guardianCount int
	log           log.Logger
}

// New returns an empty Store for a committee of guardianCount guardians.
func New(guardianCount int, logger log.Logger) *Store {
	return &Store{
		proposals:     make(map[types.Fingerprint]*proposal),
		guardianCount: guardianCount,
		log:           logger,
	}
}

// Open admits a new proposal into the commit phase. Re-opening an
// existing, unfinalized fingerprint is a conflict: the caller should
// be deduplicating intents by fingerprint before ever reaching here.
func (s *Store) Open(fingerprint types.Fingerprint, now time.Time, deadline time.Duration) (types.ProposalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.proposals[fingerprint]; ok && !existing.finalized {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrProposalConflict, "proposal %x already open", fingerprint)
	}

	p := &proposal{
		fingerprint: fingerprint,
		createdAt:   now,
		expiresAt:   now.Add(deadline),
		phase:       types.PhaseCommit,
		commitSet:   make(map[int][32]byte),
		revealSet:   make(map[int]types.Reveal),
		outcome:     types.OutcomePending,
	}
	s.proposals[fingerprint] = p
	return p.snapshot(s.guardianCount), nil
}

// RecordCommit records slot's commitment hash. A slot may commit at
// most once per proposal (invariant I1): a second commit from the
// same slot is a conflict, not an overwrite, and matches both
// ErrProposalConflict and ErrDuplicateSlot.
func (s *Store) RecordCommit(fingerprint types.Fingerprint, slot int, commitment [32]byte) (types.ProposalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[fingerprint]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	if p.finalized {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrAlreadyFinalized, "%x", fingerprint)
	}
	if p.phase != types.PhaseCommit {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrProposalConflict, "proposal %x is no longer in commit phase", fingerprint)
	}
	if _, exists := p.commitSet[slot]; exists {
		return types.ProposalSnapshot{}, errors.Wrapf(fmt.Errorf("%w: %w", types.ErrProposalConflict, types.ErrDuplicateSlot), "slot %d already committed on %x", slot, fingerprint)
	}

	p.commitSet[slot] = commitment
	return p.snapshot(s.guardianCount), nil
}

// AdvanceToReveal closes the commit phase and opens the reveal phase.
// The orchestrator calls this once every guardian slot has committed;
// other callers (tests, the demo CLI) may call it earlier. The store
// itself does not check how many slots actually committed.
func (s *Store) AdvanceToReveal(fingerprint types.Fingerprint) (types.ProposalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[fingerprint]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	if p.finalized {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrAlreadyFinalized, "%x", fingerprint)
	}
	if p.phase == types.PhaseCommit {
		p.phase = types.PhaseReveal
	}
	return p.snapshot(s.guardianCount), nil
}

// RecordReveal verifies and records slot's vote opening. Revealing
// without a prior commitment (invariant I2) or with a proof that
// fails verification both fail closed with ErrVoteProofInvalid; the
// former also matches ErrProposalConflict. A
// reveal arriving after the proposal's deadline has passed is
// rejected with ErrThresholdNotReached: the commit/reveal window
// closed before this slot could be counted toward either threshold.
func (s *Store) RecordReveal(fingerprint types.Fingerprint, slot int, reveal zkvote.Reveal, ps zkvote.ProofSystem, now time.Time) (types.ProposalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[fingerprint]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	if p.finalized {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrAlreadyFinalized, "%x", fingerprint)
	}
	if p.phase != types.PhaseReveal {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrProposalConflict, "proposal %x is not in the reveal phase", fingerprint)
	}
	if !now.Before(p.expiresAt) {
		return p.snapshot(s.guardianCount), errors.Wrapf(types.ErrThresholdNotReached, "proposal %x deadline passed before slot %d revealed", fingerprint, slot)
	}
	commitment, ok := p.commitSet[slot]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(fmt.Errorf("%w: %w", types.ErrProposalConflict, types.ErrVoteProofInvalid), "slot %d never committed on %x", slot, fingerprint)
	}
	if _, already := p.revealSet[slot]; already {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrDuplicateSlot, "slot %d already revealed on %x", slot, fingerprint)
	}

	proofOK := ps.VerifyReveal(fingerprint, uint32(slot), reveal, zkvote.Commitment(commitment))
	if !proofOK {
		p.revealSet[slot] = types.Reveal{Vote: reveal.Vote, ProofOK: false}
		return p.snapshot(s.guardianCount), errors.Wrapf(types.ErrVoteProofInvalid, "slot %d on %x", slot, fingerprint)
	}

	p.revealSet[slot] = types.Reveal{Vote: reveal.Vote, ProofOK: true}
	return p.snapshot(s.guardianCount), nil
}

// AttachVDFJob records the background VDF job racing this proposal's
// vote, so a later Snapshot can report it.
func (s *Store) AttachVDFJob(fingerprint types.Fingerprint, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[fingerprint]
	if !ok {
		return errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	p.vdfJobID = jobID
	return nil
}

// Snapshot returns a point-in-time, independently-mutable copy of a
// proposal's state.
func (s *Store) Snapshot(fingerprint types.Fingerprint) (types.ProposalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[fingerprint]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	return p.snapshot(s.guardianCount), nil
}

// Finalize fixes a proposal's terminal outcome (invariant I4: no
// further mutation is accepted afterward).
func (s *Store) Finalize(fingerprint types.Fingerprint, outcome types.Outcome) (types.ProposalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[fingerprint]
	if !ok {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrUnknownProposal, "%x", fingerprint)
	}
	if p.finalized {
		return types.ProposalSnapshot{}, errors.Wrapf(types.ErrAlreadyFinalized, "%x", fingerprint)
	}
	p.finalized = true
	p.outcome = outcome
	p.phase = types.PhaseComplete
	return p.snapshot(s.guardianCount), nil
}

// ExpireSweep finalizes every unfinalized proposal whose deadline has
// passed as Expired, returning the fingerprints it closed out. The
// orchestrator does not call it: it arms one deadline timer per
// proposal and finalizes an expired proposal itself.
func (s *Store) ExpireSweep(now time.Time) []types.Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []types.Fingerprint
	for fp, p := range s.proposals {
		if p.finalized || now.Before(p.expiresAt) {
			continue
		}
		p.finalized = true
		p.outcome = types.OutcomeExpired
		p.phase = types.PhaseExpired
		expired = append(expired, fp)
		s.log.Info("proposal expired", "fingerprint", fp)
	}
	return expired
}
