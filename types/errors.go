// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

// Error taxonomy for the transaction airlock core (spec §7). These are
// kinds, not wrapped types: components compare against them with
// errors.Is even after cockroachdb/errors adds stack context upstream.
var (
	// ErrInvalidIntent is returned for an empty destination or malformed
	// payload. Recovered at the boundary; never retried internally.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrBlocked marks a pre-flight policy block (blacklist or pause).
	// Not an error to callers, a terminal policy outcome.
	ErrBlocked = errors.New("blocked by pre-flight policy")

	// ErrScorerUnavailable is returned when the scorer times out or its
	// transport fails. Recovered locally by degrading to Unflagged.
	ErrScorerUnavailable = errors.New("scorer unavailable")

	// ErrProposalConflict covers duplicate fingerprint open, double
	// commit, and reveal-before-commit.
	ErrProposalConflict = errors.New("proposal conflict")

	// ErrVoteProofInvalid is returned when a reveal proof fails
	// verification. The reveal is rejected but the commitment survives.
	ErrVoteProofInvalid = errors.New("vote proof invalid")

	// ErrAlreadyFinalized is returned for any mutation attempted after a
	// proposal has reached a terminal state.
	ErrAlreadyFinalized = errors.New("proposal already finalized")

	// ErrThresholdNotReached marks a proposal deadline expiring before
	// either vote threshold was crossed.
	ErrThresholdNotReached = errors.New("vote threshold not reached before deadline")

	// ErrVdfFailure covers arithmetic error, modulus corruption, or
	// explicit cancellation distinct from bypass.
	ErrVdfFailure = errors.New("vdf computation failed")

	// ErrSignatureAssembly covers insufficient or invalid FROST shares.
	// Fatal for the intent.
	ErrSignatureAssembly = errors.New("threshold signature assembly failed")

	// ErrInsufficientParticipants is returned by frost.Sign when fewer
	// than the threshold count of slots participate.
	ErrInsufficientParticipants = errors.New("insufficient signing participants")

	// ErrInvalidShare is returned by frost.Sign when a share fails local
	// verification.
	ErrInvalidShare = errors.New("invalid signature share")

	// ErrDuplicateSlot is returned when a signing or voting participant
	// set contains the same guardian slot twice.
	ErrDuplicateSlot = errors.New("duplicate guardian slot")

	// ErrUnknownProposal is returned by the store for an unknown
	// fingerprint.
	ErrUnknownProposal = errors.New("unknown proposal")

	// ErrUnknownJob is returned by the vdf engine for an unknown job id.
	ErrUnknownJob = errors.New("unknown vdf job")
)
