// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "time"

// Reveal is one guardian's revealed vote plus its proof-verification
// result, as recorded in a proposal's reveal_set.
type Reveal struct {
	Vote     Vote
	ProofOK  bool
}

// ProposalSnapshot is an immutable, lock-free read of a proposal's
// state at one instant. The store's Snapshot returns this; callers
// (orchestrator, guardian network adapter) never see the live,
// mutex-guarded struct directly.
type ProposalSnapshot struct {
	Fingerprint Fingerprint
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CommitSet   map[int][32]byte // slot -> commitment hash
	RevealSet   map[int]Reveal   // slot -> reveal
	Tally       Tally
	Finalized   bool
	VDFJobID    string // empty if no VDF job associated
	Outcome     Outcome
}
