// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package airlock provides a clean, single-import interface to the
// transaction airlock core: the ML-score/FROST-vote/VDF-time-lock
// middleware that gates a candidate transaction behind cryptographic
// proof of guardian approval.
package airlock

import (
	"github.com/luxfi/airlock/config"
	"github.com/luxfi/airlock/executor"
	"github.com/luxfi/airlock/frost"
	"github.com/luxfi/airlock/guardiannet"
	"github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/orchestrator"
	"github.com/luxfi/airlock/scorer"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/vdf"
	"github.com/luxfi/airlock/zkvote"
)

// Type aliases for a clean single-import experience.
type (
	// Core orchestrator surface.
	Orchestrator  = orchestrator.Orchestrator
	Result        = orchestrator.Result
	ResultStatus  = orchestrator.ResultStatus
	ProgressEvent = orchestrator.ProgressEvent
	PolicyGate    = orchestrator.PolicyGate
	StaticPolicy  = orchestrator.StaticPolicy

	// Configuration.
	Config = config.Config

	// Domain types.
	Intent             = types.Intent
	ID                 = types.ID
	Fingerprint        = types.Fingerprint
	RiskScore          = types.RiskScore
	Verdict            = types.Verdict
	Vote               = types.Vote
	Tally              = types.Tally
	ProposalPhase      = types.ProposalPhase
	ProposalSnapshot   = types.ProposalSnapshot
	Outcome            = types.Outcome
	OutcomeTag         = types.OutcomeTag
	VDFProof           = types.VDFProof
	ThresholdSignature = types.ThresholdSignature
	Envelope           = types.Envelope

	// Component surfaces, for callers assembling their own Orchestrator.
	Scorer          = scorer.Scorer
	Executor        = executor.Executor
	ProposalStore   = store.Store
	GuardianNetwork = guardiannet.Network
	VDFEngine       = vdf.Engine
	SigningEngine   = frost.Engine
	VoteProofSystem = zkvote.ProofSystem
	Logger          = log.Logger
	Metrics         = metrics.Metrics
)

// Constants re-exported for convenience.
const (
	VerdictSafe       = types.VerdictSafe
	VerdictSuspicious = types.VerdictSuspicious
	VerdictDangerous  = types.VerdictDangerous

	VoteReject  = types.VoteReject
	VoteApprove = types.VoteApprove
	VoteAbstain = types.VoteAbstain

	PhaseCommit   = types.PhaseCommit
	PhaseReveal   = types.PhaseReveal
	PhaseComplete = types.PhaseComplete
	PhaseExpired  = types.PhaseExpired

	OutcomePending  = types.OutcomePending
	OutcomeApproved = types.OutcomeApproved
	OutcomeRejected = types.OutcomeRejected
	OutcomeExpired  = types.OutcomeExpired

	OutcomeTagApproved      = types.OutcomeTagApproved
	OutcomeTagRejected      = types.OutcomeTagRejected
	OutcomeTagDelayApproved = types.OutcomeTagDelayApproved

	ResultApproved  = orchestrator.ResultApproved
	ResultRejected  = orchestrator.ResultRejected
	ResultBlocked   = orchestrator.ResultBlocked
	ResultExpired   = orchestrator.ResultExpired
	ResultFailed    = orchestrator.ResultFailed
	ResultCancelled = orchestrator.ResultCancelled
)

// Variables re-exported for convenience.
var (
	// Error taxonomy (spec §7).
	ErrInvalidIntent            = types.ErrInvalidIntent
	ErrBlocked                  = types.ErrBlocked
	ErrScorerUnavailable        = types.ErrScorerUnavailable
	ErrProposalConflict         = types.ErrProposalConflict
	ErrVoteProofInvalid         = types.ErrVoteProofInvalid
	ErrAlreadyFinalized         = types.ErrAlreadyFinalized
	ErrThresholdNotReached      = types.ErrThresholdNotReached
	ErrVdfFailure               = types.ErrVdfFailure
	ErrSignatureAssembly        = types.ErrSignatureAssembly
	ErrInsufficientParticipants = types.ErrInsufficientParticipants
	ErrInvalidShare             = types.ErrInvalidShare
	ErrDuplicateSlot            = types.ErrDuplicateSlot
	ErrUnknownProposal          = types.ErrUnknownProposal
	ErrUnknownJob               = types.ErrUnknownJob

	// Constructors.
	NewOrchestrator  = orchestrator.New
	NewStore         = store.New
	NewGuardianNet   = guardiannet.New
	NewVDFEngine     = vdf.New
	NewSigningEngine = frost.NewEngine
	NewVoteProofs    = zkvote.NewProofSystem
	DefaultConfig    = config.Default
	DemoConfig       = config.Demo

	// Signing-key ceremony.
	DKG = frost.DKG

	// Stateless verification, usable without a running engine.
	VerifyVDF       = vdf.Verify
	VerifySignature = frost.Verify
)
