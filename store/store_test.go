// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	airlocklog "github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/zkvote"
)

func testStore() *Store {
	return New(10, airlocklog.NewNoOpLogger())
}

func fp(b byte) types.Fingerprint {
	var f types.Fingerprint
	f[0] = b
	return f
}

func TestOpenThenCommitThenReveal(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)

	_, err := s.Open(fp(1), now, time.Hour)
	require.NoError(t, err)

	ps := zkvote.NewProofSystem()
	reveal := zkvote.Reveal{Vote: types.VoteApprove, Salt: [32]byte{1}}
	commitment := ps.Commit(fp(1), 1, reveal)

	_, err = s.RecordCommit(fp(1), 1, commitment)
	require.NoError(t, err)

	_, err = s.AdvanceToReveal(fp(1))
	require.NoError(t, err)

	snap, err := s.RecordReveal(fp(1), 1, reveal, ps, now)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Tally.Approve)
	require.True(t, snap.RevealSet[1].ProofOK)
}

func TestOpenConflict(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(2), now, time.Hour)
	require.NoError(t, err)
	_, err = s.Open(fp(2), now, time.Hour)
	require.Error(t, err)
}

func TestDuplicateCommitRejected(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(3), now, time.Hour)
	require.NoError(t, err)

	_, err = s.RecordCommit(fp(3), 1, [32]byte{1})
	require.NoError(t, err)
	_, err = s.RecordCommit(fp(3), 1, [32]byte{2})
	require.Error(t, err)
}

func TestRevealWithoutCommitRejected(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(4), now, time.Hour)
	require.NoError(t, err)
	_, err = s.AdvanceToReveal(fp(4))
	require.NoError(t, err)

	ps := zkvote.NewProofSystem()
	reveal := zkvote.Reveal{Vote: types.VoteApprove, Salt: [32]byte{1}}
	_, err = s.RecordReveal(fp(4), 1, reveal, ps, now)
	require.ErrorIs(t, err, types.ErrVoteProofInvalid)
}

func TestRevealWithBadProofRejected(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(5), now, time.Hour)
	require.NoError(t, err)

	ps := zkvote.NewProofSystem()
	reveal := zkvote.Reveal{Vote: types.VoteApprove, Salt: [32]byte{1}}
	commitment := ps.Commit(fp(5), 1, reveal)
	_, err = s.RecordCommit(fp(5), 1, commitment)
	require.NoError(t, err)
	_, err = s.AdvanceToReveal(fp(5))
	require.NoError(t, err)

	tampered := zkvote.Reveal{Vote: types.VoteReject, Salt: [32]byte{1}}
	_, err = s.RecordReveal(fp(5), 1, tampered, ps, now)
	require.ErrorIs(t, err, types.ErrVoteProofInvalid)

	snap, err := s.Snapshot(fp(5))
	require.NoError(t, err)
	require.False(t, snap.RevealSet[1].ProofOK)
}

func TestFinalizeIsImmutable(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(6), now, time.Hour)
	require.NoError(t, err)

	_, err = s.Finalize(fp(6), types.OutcomeApproved)
	require.NoError(t, err)

	_, err = s.Finalize(fp(6), types.OutcomeRejected)
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)

	_, err = s.RecordCommit(fp(6), 1, [32]byte{1})
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
}

func TestExpireSweep(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(7), now, time.Minute)
	require.NoError(t, err)

	expired := s.ExpireSweep(now.Add(2 * time.Minute))
	require.Len(t, expired, 1)

	snap, err := s.Snapshot(fp(7))
	require.NoError(t, err)
	require.True(t, snap.Finalized)
	require.Equal(t, types.OutcomeExpired, snap.Outcome)
}

func TestRevealAfterDeadlineRejected(t *testing.T) {
	s := testStore()
	now := time.Unix(1_700_000_000, 0)
	_, err := s.Open(fp(8), now, time.Minute)
	require.NoError(t, err)

	ps := zkvote.NewProofSystem()
	reveal := zkvote.Reveal{Vote: types.VoteApprove, Salt: [32]byte{1}}
	commitment := ps.Commit(fp(8), 1, reveal)
	_, err = s.RecordCommit(fp(8), 1, commitment)
	require.NoError(t, err)

	_, err = s.AdvanceToReveal(fp(8))
	require.NoError(t, err)

	_, err = s.RecordReveal(fp(8), 1, reveal, ps, now.Add(2*time.Minute))
	require.ErrorIs(t, err, types.ErrThresholdNotReached)
}

func TestUnknownProposalErrors(t *testing.T) {
	s := testStore()
	_, err := s.Snapshot(fp(99))
	require.ErrorIs(t, err, types.ErrUnknownProposal)
}
