// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package zkvote implements the guardian commit-reveal voting scheme
// (spec §4.3): guardians publish an algebraic commitment to their
// vote during the commit phase, then open it during reveal. The
// reveal "proof" binds three things at once — which slot opened it,
// that the opening matches the earlier commitment, and that the
// revealed vote lies in the valid vote domain — without ever placing
// a different guardian's unopened vote at risk.
package zkvote

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/luxfi/airlock/types"
)

// Commitment is an opaque MiMC digest of (proposalID, slot, vote, salt). MiMC is
// the hash circuit.go's Groth16 reveal circuit also uses via
// std/hash/mimc, so the fast off-circuit path below and the
// circuit-backed path in CircuitProofSystem hash identically.
type Commitment [32]byte

// Reveal is what a guardian publishes to open an earlier commitment.
type Reveal struct {
	Vote types.Vote
	Salt [32]byte
}

// ProofSystem binds guardian commitments to their openings. It is
// kept as an interface, mirroring the proving/verifying-key split the
// gnark-based proof systems in the retrieved examples use, so a
// circuit-backed implementation can stand in without touching callers.
// Every commitment is bound to the proposal it was made for: the same
// (slot, vote, salt) commits to two different values under two
// different proposals, so a commit recorded against one proposal can
// never verify as a reveal against another.
type ProofSystem interface {
	Commit(proposalID types.Fingerprint, slot uint32, reveal Reveal) Commitment
	VerifyReveal(proposalID types.Fingerprint, slot uint32, reveal Reveal, commitment Commitment) bool
}

// hashProofSystem is the production ProofSystem: an algebraic
// commitment over the BN254 scalar field, cheap enough that a real
// guardian client can recompute it locally before reporting a reveal.
type hashProofSystem struct{}

// NewProofSystem returns the production MiMC-backed ProofSystem.
func NewProofSystem() ProofSystem { return hashProofSystem{} }

func (hashProofSystem) Commit(proposalID types.Fingerprint, slot uint32, reveal Reveal) Commitment {
	return hashFields(proposalID, slot, reveal)
}

// VerifyReveal checks all three reveal-proof obligations: the vote
// lies in the valid domain, and the opening reproduces the
// commitment the guardian published during the commit phase on this
// same proposalID. Slot membership is not checked here, and the store
// records a commitment for whatever slot number it is given.
func (hashProofSystem) VerifyReveal(proposalID types.Fingerprint, slot uint32, reveal Reveal, commitment Commitment) bool {
	if !reveal.Vote.Valid() {
		return false
	}
	return hashFields(proposalID, slot, reveal) == commitment
}

func hashFields(proposalID types.Fingerprint, slot uint32, reveal Reveal) Commitment {
	h := mimc.NewMiMC()

	// proposalID and salt are arbitrary 32-byte values that can exceed the
	// BN254 scalar field; reduce them mod r first, as the circuit's
	// variable assignments are, so both paths hash the same field elements.
	reduce := func(b []byte) []byte {
		out := make([]byte, fr.Bytes)
		return new(big.Int).Mod(new(big.Int).SetBytes(b), fr.Modulus()).FillBytes(out)
	}

	h.Write(reduce(proposalID[:]))

	var buf [8]byte
	putUint64(buf[:], uint64(slot))
	h.Write(buf[:])

	putUint64(buf[:], uint64(reveal.Vote))
	h.Write(buf[:])

	h.Write(reduce(reveal.Salt[:]))

	var out Commitment
	copy(out[:], h.Sum(nil))
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
