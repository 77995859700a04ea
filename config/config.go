// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config holds the enumerated configuration options of the
// transaction airlock core (spec §6).
package config

import "time"

// Config holds all airlock parameters.
type Config struct {
	// GuardianCount is the total number of guardian slots, N.
	GuardianCount int `json:"guardianCount"`

	// ApprovalThreshold is the number of approvals required to finalize
	// a proposal as approved.
	ApprovalThreshold int `json:"approvalThreshold"`

	// RejectionThreshold is derived as GuardianCount - ApprovalThreshold + 1.
	RejectionThreshold int `json:"rejectionThreshold"`

	// FlagThreshold is the score at or above which the VDF path is
	// triggered.
	FlagThreshold float64 `json:"flagThreshold"`

	// VDFIterations is T, the required number of sequential squarings.
	VDFIterations uint64 `json:"vdfIterations"`

	// ProposalDeadline is the hard per-proposal deadline.
	ProposalDeadline time.Duration `json:"proposalDeadline"`

	// ScorerTimeout bounds a single scorer.Analyze call.
	ScorerTimeout time.Duration `json:"scorerTimeout"`

	// CheckpointEvery is the VDF progress/bypass checkpoint granularity,
	// in squarings.
	CheckpointEvery uint64 `json:"checkpointEvery"`

	// SigningThreshold is FROST's t, the minimum number of slots needed
	// to assemble a valid threshold signature.
	SigningThreshold int `json:"signingThreshold"`
}
