// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package types

// VDFProof is the Wesolowski proof (y, π) plus the iteration count it
// was produced for. A bypassed or never-started job yields the
// distinguished zero-proof (spec §4.1 V3): Output all-zero, Witness
// empty, Iterations 0.
type VDFProof struct {
	Output     [32]byte
	Witness    []byte
	Iterations uint64
}

// IsZero reports whether this is the distinguished zero-proof.
func (p VDFProof) IsZero() bool {
	return p.Iterations == 0 && len(p.Witness) == 0 && p.Output == [32]byte{}
}

// ThresholdSignature is a FROST Schnorr signature (R, z) over a message,
// both field elements encoded as fixed 32-byte scalars/points.
type ThresholdSignature struct {
	R [32]byte
	Z [32]byte
}

// OutcomeTag is the signed statement carried by an envelope: which
// decision the threshold signature attests to.
type OutcomeTag string

const (
	OutcomeTagApproved       OutcomeTag = "approved"
	OutcomeTagRejected       OutcomeTag = "rejected"
	OutcomeTagDelayApproved  OutcomeTag = "delayed-approved"
)

// Envelope is the final artifact produced by the orchestrator at the
// terminal transition, consumed exactly once by the executor.
type Envelope struct {
	Fingerprint Fingerprint
	VDFProof    VDFProof
	Signature   ThresholdSignature
	OutcomeTag  OutcomeTag
}
