// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkvote

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/luxfi/airlock/types"
)

// revealCircuit proves knowledge of a (slot, vote, salt) preimage of
// a public commitment, bound to the public ProposalID, without a
// verifier ever seeing the private witness directly — the same
// compile/setup/prove/verify shape the retrieved VEID keeper circuits
// use for its age/residency/score range proofs.
type revealCircuit struct {
	Slot frontend.Variable
	Vote frontend.Variable
	Salt frontend.Variable

	ProposalID frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`
}

func (c *revealCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.ProposalID, c.Slot, c.Vote, c.Salt)
	api.AssertIsEqual(h.Sum(), c.Commitment)
	return nil
}

// CircuitProofSystem is a Groth16-backed ProofSystem: reveals carry
// an actual zk-SNARK proof of the commitment opening rather than the
// opening itself, for deployments that want to keep a guardian's vote
// out of the public reveal transcript entirely (spec §4.3 leaves the
// reveal transport format to the deployer; this is the private
// variant of hashProofSystem's public opening).
type CircuitProofSystem struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewCircuitProofSystem compiles the reveal circuit and runs its
// (development-only) Groth16 setup. A production deployment would
// load pk/vk from an audited ceremony instead of generating them locally.
func NewCircuitProofSystem() (*CircuitProofSystem, error) {
	var circuit revealCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, err
	}
	return &CircuitProofSystem{ccs: ccs, pk: pk, vk: vk}, nil
}

// Prove generates a Groth16 proof that reveal opens commitment for
// slot on proposalID.
func (c *CircuitProofSystem) Prove(proposalID types.Fingerprint, slot uint32, reveal Reveal, commitment Commitment) ([]byte, error) {
	assignment := &revealCircuit{
		Slot:       new(big.Int).SetUint64(uint64(slot)),
		Vote:       new(big.Int).SetUint64(uint64(reveal.Vote)),
		Salt:       new(big.Int).SetBytes(reveal.Salt[:]),
		ProposalID: new(big.Int).SetBytes(proposalID[:]),
		Commitment: new(big.Int).SetBytes(commitment[:]),
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}
	proof, err := groth16.Prove(c.ccs, c.pk, witness)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// VerifyProof checks a Groth16 reveal proof against the publicly
// known proposalID and commitment, without ever learning the vote or
// salt that produced it.
func (c *CircuitProofSystem) VerifyProof(proposalID types.Fingerprint, commitment Commitment, proofBytes []byte) (bool, error) {
	public := &revealCircuit{
		ProposalID: new(big.Int).SetBytes(proposalID[:]),
		Commitment: new(big.Int).SetBytes(commitment[:]),
	}
	witness, err := frontend.NewWitness(public, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, err
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false, err
	}

	if err := groth16.Verify(proof, c.vk, witness); err != nil {
		return false, nil
	}
	return true, nil
}
