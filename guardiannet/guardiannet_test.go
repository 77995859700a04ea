// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guardiannet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	airlocklog "github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/zkvote"
)

func TestCommitThenReveal(t *testing.T) {
	s := store.New(10, airlocklog.NewNoOpLogger())
	n := New(s, zkvote.NewProofSystem(), airlocklog.NewNoOpLogger())

	var f types.Fingerprint
	f[0] = 1
	_, err := s.Open(f, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = n.Commit(f, 1, types.VoteApprove)
	require.NoError(t, err)

	_, err = s.AdvanceToReveal(f)
	require.NoError(t, err)

	snap, err := n.Reveal(f, 1)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Tally.Approve)
}

func TestRevealWithoutPriorCommitFails(t *testing.T) {
	s := store.New(10, airlocklog.NewNoOpLogger())
	n := New(s, zkvote.NewProofSystem(), airlocklog.NewNoOpLogger())

	var f types.Fingerprint
	f[0] = 2
	_, err := n.Reveal(f, 1)
	require.ErrorIs(t, err, types.ErrVoteProofInvalid)
}

func TestCommitAndRevealConvenience(t *testing.T) {
	s := store.New(10, airlocklog.NewNoOpLogger())
	n := New(s, zkvote.NewProofSystem(), airlocklog.NewNoOpLogger())

	var f types.Fingerprint
	f[0] = 3
	_, err := s.Open(f, time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = s.AdvanceToReveal(f)
	require.NoError(t, err)

	snap, err := n.CommitAndReveal(f, 4, types.VoteReject)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Tally.Reject)
}
