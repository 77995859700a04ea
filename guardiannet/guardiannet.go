// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package guardiannet is the seam between guardian voting policy (how
// a guardian decides to vote, and when) and the proposal store's
// commit-reveal bookkeeping. Real guardian transport — the wire
// protocol guardians actually speak to submit votes — is out of scope
// (spec §1); this package plays the same role the networking/sender
// package plays for consensus messages: a small interface, backed
// here by a direct in-process loopback onto the store.
package guardiannet

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/zkvote"
)

// Network is the guardian-facing half of the commit-reveal protocol:
// it mints the reveal material a guardian commits to, holds it until
// that guardian is ready to reveal, and relays both phases into the
// proposal store.
type Network struct {
	store *store.Store
	ps    zkvote.ProofSystem
	log   log.Logger

	mu      sync.Mutex
	pending map[types.Fingerprint]map[int]zkvote.Reveal
}

// New returns a Network that relays guardian votes into s.
func New(s *store.Store, ps zkvote.ProofSystem, logger log.Logger) *Network {
	return &Network{
		store:   s,
		ps:      ps,
		log:     logger,
		pending: make(map[types.Fingerprint]map[int]zkvote.Reveal),
	}
}

// Commit has guardian slot commit vote on fingerprint. The vote stays
// known only to this Network (standing in for the guardian's own
// client) until Reveal is called.
func (n *Network) Commit(fingerprint types.Fingerprint, slot int, vote types.Vote) (types.ProposalSnapshot, error) {
	var salt [32]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return types.ProposalSnapshot{}, err
	}
	reveal := zkvote.Reveal{Vote: vote, Salt: salt}
	commitment := n.ps.Commit(fingerprint, uint32(slot), reveal)

	snap, err := n.store.RecordCommit(fingerprint, slot, commitment)
	if err != nil {
		return snap, err
	}

	n.mu.Lock()
	if n.pending[fingerprint] == nil {
		n.pending[fingerprint] = make(map[int]zkvote.Reveal)
	}
	n.pending[fingerprint][slot] = reveal
	n.mu.Unlock()

	n.log.Info("guardian committed", "fingerprint", fingerprint, "slot", slot)
	return snap, nil
}

// Reveal opens slot's earlier commitment on fingerprint.
func (n *Network) Reveal(fingerprint types.Fingerprint, slot int) (types.ProposalSnapshot, error) {
	n.mu.Lock()
	reveal, ok := n.pending[fingerprint][slot]
	n.mu.Unlock()
	if !ok {
		return types.ProposalSnapshot{}, types.ErrVoteProofInvalid
	}

	snap, err := n.store.RecordReveal(fingerprint, slot, reveal, n.ps, time.Now())
	if err != nil {
		return snap, err
	}

	n.log.Info("guardian revealed", "fingerprint", fingerprint, "slot", slot, "vote", reveal.Vote)
	return snap, nil
}

// CommitAndReveal is a convenience for simulated guardians (tests,
// the demo CLI) that don't need the commit/reveal phases to actually
// straddle real wall-clock time.
func (n *Network) CommitAndReveal(fingerprint types.Fingerprint, slot int, vote types.Vote) (types.ProposalSnapshot, error) {
	if _, err := n.Commit(fingerprint, slot, vote); err != nil {
		return types.ProposalSnapshot{}, err
	}
	return n.Reveal(fingerprint, slot)
}
