// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkvote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/airlock/types"
)

func TestCircuitProveAndVerify(t *testing.T) {
	cps, err := NewCircuitProofSystem()
	require.NoError(t, err)

	proposalID := testProposalID(3)
	reveal := Reveal{Vote: types.VoteApprove, Salt: [32]byte{9, 9, 9}}
	commitment := hashFields(proposalID, 3, reveal)

	proof, err := cps.Prove(proposalID, 3, reveal, commitment)
	require.NoError(t, err)

	ok, err := cps.VerifyProof(proposalID, commitment, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCircuitVerifyRejectsWrongCommitment(t *testing.T) {
	cps, err := NewCircuitProofSystem()
	require.NoError(t, err)

	proposalID := testProposalID(4)
	reveal := Reveal{Vote: types.VoteReject, Salt: [32]byte{1}}
	commitment := hashFields(proposalID, 4, reveal)
	proof, err := cps.Prove(proposalID, 4, reveal, commitment)
	require.NoError(t, err)

	wrongCommitment := hashFields(proposalID, 4, Reveal{Vote: types.VoteApprove, Salt: [32]byte{1}})
	ok, err := cps.VerifyProof(proposalID, wrongCommitment, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCircuitVerifyRejectsWrongProposal(t *testing.T) {
	cps, err := NewCircuitProofSystem()
	require.NoError(t, err)

	reveal := Reveal{Vote: types.VoteApprove, Salt: [32]byte{2}}
	commitment := hashFields(testProposalID(5), 5, reveal)
	proof, err := cps.Prove(testProposalID(5), 5, reveal, commitment)
	require.NoError(t, err)

	ok, err := cps.VerifyProof(testProposalID(6), commitment, proof)
	require.NoError(t, err)
	require.False(t, ok)
}
