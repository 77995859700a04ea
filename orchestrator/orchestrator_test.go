// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/airlock/config"
	"github.com/luxfi/airlock/executor"
	"github.com/luxfi/airlock/frost"
	"github.com/luxfi/airlock/guardiannet"
	airlocklog "github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
	"github.com/luxfi/airlock/scorer"
	"github.com/luxfi/airlock/store"
	"github.com/luxfi/airlock/types"
	"github.com/luxfi/airlock/vdf"
	"github.com/luxfi/airlock/zkvote"
)

type harness struct {
	orch  *Orchestrator
	store *store.Store
	net   *guardiannet.Network
	vdf   *vdf.Engine
	frost *frost.Engine
	exec  *executor.Recording
}

func newHarness(t *testing.T, cfg config.Config, sc scorer.Scorer, policy PolicyGate) harness {
	t.Helper()
	logger := airlocklog.NewNoOpLogger()
	m := metrics.NewNoOp()

	st := store.New(cfg.GuardianCount, logger)
	ps := zkvote.NewProofSystem()
	net := guardiannet.New(st, ps, logger)
	vdfEngine := vdf.New(cfg.CheckpointEvery, logger, m)

	group, shares, err := frost.DKG(cfg.GuardianCount, cfg.SigningThreshold)
	require.NoError(t, err)
	frostEngine := frost.NewEngine(group, shares, cfg.SigningThreshold, logger, m)

	exec := executor.NewRecording()
	orch := New(cfg, st, sc, vdfEngine, frostEngine, exec, policy, logger, m).WithPollInterval(2 * time.Millisecond)

	return harness{orch: orch, store: st, net: net, vdf: vdfEngine, frost: frostEngine, exec: exec}
}

func fastConfig(t *testing.T) config.Config {
	t.Helper()
	c, err := config.NewBuilder().
		WithProposalDeadline(300 * time.Millisecond).
		WithVDFIterations(200_000).
		WithCheckpointEvery(2_000).
		WithScorerTimeout(50 * time.Millisecond).
		Build()
	require.NoError(t, err)
	return c
}

func testID(b byte) types.ID {
	var id types.ID
	id[0] = b
	return id
}

func submitAsync(t *testing.T, h harness, intent types.Intent) <-chan Result {
	t.Helper()
	ch := make(chan Result, 1)
	go func() {
		r, err := h.orch.Submit(context.Background(), intent)
		require.NoError(t, err)
		ch <- r
	}()
	return ch
}

func awaitProposalOpen(t *testing.T, h harness, fp types.Fingerprint) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := h.store.Snapshot(fp)
		return err == nil
	}, time.Second, time.Millisecond)
}

func awaitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for orchestrator result")
		return Result{}
	}
}

func TestUnflaggedApprovalPasses(t *testing.T) {
	cfg := fastConfig(t)
	h := newHarness(t, cfg, scorer.NewStatic(types.RiskScore{Score: 15, Verdict: types.VerdictSafe}), nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 10}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	for slot := 1; slot <= 8; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteApprove)
		require.NoError(t, err)
	}
	_, err := h.net.Commit(fp, 9, types.VoteReject)
	require.NoError(t, err)
	_, err = h.net.Commit(fp, 10, types.VoteAbstain)
	require.NoError(t, err)

	_, err = h.store.AdvanceToReveal(fp)
	require.NoError(t, err)

	for slot := 1; slot <= 10; slot++ {
		_, err := h.net.Reveal(fp, slot)
		require.NoError(t, err)
	}

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultApproved, r.Status)
	require.True(t, r.Envelope.VDFProof.IsZero())
	require.Equal(t, types.OutcomeTagApproved, r.Envelope.OutcomeTag)
	require.True(t, frost.Verify(h.frost.GroupKey(), signMessage(fp, types.OutcomeTagApproved), r.Envelope.Signature))
	require.Len(t, h.exec.Envelopes(), 1)
}

func TestFlaggedApprovalBypassesVDF(t *testing.T) {
	cfg := fastConfig(t)
	h := newHarness(t, cfg, scorer.NewStatic(types.RiskScore{Score: 75, Verdict: types.VerdictDangerous}), nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 500}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteApprove)
		require.NoError(t, err)
	}
	_, err := h.store.AdvanceToReveal(fp)
	require.NoError(t, err)
	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Reveal(fp, slot)
		require.NoError(t, err)
	}

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultApproved, r.Status)
	require.True(t, r.Envelope.VDFProof.IsZero())
	require.Equal(t, types.OutcomeTagApproved, r.Envelope.OutcomeTag)

	snap, err := h.store.Snapshot(fp)
	require.NoError(t, err)
	job, err := h.vdf.Poll(snap.VDFJobID)
	require.NoError(t, err)
	require.Equal(t, vdf.StateBypassed, job.State)
}

func TestFlaggedRejectionBlocks(t *testing.T) {
	cfg := fastConfig(t)
	h := newHarness(t, cfg, scorer.NewStatic(types.RiskScore{Score: 95, Verdict: types.VerdictDangerous}), nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 1000}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	// 7 rejects: the rejection threshold (4) decides the vote, and the
	// rejection signature needs SigningThreshold (7) reject reveals.
	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteReject)
		require.NoError(t, err)
	}
	_, err := h.store.AdvanceToReveal(fp)
	require.NoError(t, err)
	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Reveal(fp, slot)
		require.NoError(t, err)
	}

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultRejected, r.Status)
	require.True(t, r.Envelope.VDFProof.IsZero())
	require.Equal(t, types.OutcomeTagRejected, r.Envelope.OutcomeTag)
	require.True(t, frost.Verify(h.frost.GroupKey(), signMessage(fp, types.OutcomeTagRejected), r.Envelope.Signature))
}

func TestFlaggedVDFWinsWhenVotingUndecided(t *testing.T) {
	c, err := config.NewBuilder().
		WithProposalDeadline(2 * time.Second).
		WithVDFIterations(50).
		WithCheckpointEvery(10).
		WithScorerTimeout(50 * time.Millisecond).
		Build()
	require.NoError(t, err)
	h := newHarness(t, c, scorer.NewStatic(types.RiskScore{Score: 60, Verdict: types.VerdictDangerous}), nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 200}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	// 3 approve, 7 abstain: never crosses the approve(7) or reject(4)
	// threshold, but supplies a full committee of valid reveals for the
	// delayed-approved signature.
	for slot := 1; slot <= 3; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteApprove)
		require.NoError(t, err)
	}
	for slot := 4; slot <= 10; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteAbstain)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		snap, err := h.store.Snapshot(fp)
		return err == nil && snap.Tally.Phase == types.PhaseReveal
	}, time.Second, time.Millisecond)

	for slot := 1; slot <= 10; slot++ {
		_, err := h.net.Reveal(fp, slot)
		require.NoError(t, err)
	}

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultApproved, r.Status)
	require.False(t, r.Envelope.VDFProof.IsZero())
	require.Equal(t, uint64(50), r.Envelope.VDFProof.Iterations)
	require.Equal(t, types.OutcomeTagDelayApproved, r.Envelope.OutcomeTag)
	require.True(t, vdf.Verify(fp, 50, r.Envelope.VDFProof))
}

func TestExpiryBlocksWithNoEnvelope(t *testing.T) {
	c, err := config.NewBuilder().
		WithProposalDeadline(80 * time.Millisecond).
		WithVDFIterations(50_000_000).
		WithCheckpointEvery(10_000).
		WithScorerTimeout(20 * time.Millisecond).
		Build()
	require.NoError(t, err)
	h := newHarness(t, c, scorer.NewStatic(types.RiskScore{Score: 80, Verdict: types.VerdictDangerous}), nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 300}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultExpired, r.Status)
	require.Equal(t, types.Envelope{}, r.Envelope)
	require.Empty(t, h.exec.Envelopes())

	snap, err := h.store.Snapshot(fp)
	require.NoError(t, err)
	job, err := h.vdf.Poll(snap.VDFJobID)
	require.NoError(t, err)
	require.Equal(t, vdf.StateBypassed, job.State)
}

func TestBlacklistedSenderBlockedPreflight(t *testing.T) {
	cfg := fastConfig(t)
	caller := testID(9)
	policy := StaticPolicy{Blacklist: map[types.ID]bool{caller: true}}
	h := newHarness(t, cfg, scorer.NewStatic(types.RiskScore{Score: 10}), policy)

	intent := types.Intent{Caller: caller, Destination: testID(2), Value: 1}
	r, err := h.orch.Submit(context.Background(), intent)
	require.NoError(t, err)
	require.Equal(t, ResultBlocked, r.Status)
	require.ErrorIs(t, r.Reason, types.ErrBlocked)

	_, err = h.store.Snapshot(intent.FingerprintOf())
	require.ErrorIs(t, err, types.ErrUnknownProposal)
}

func TestEmptyDestinationBlockedPreflight(t *testing.T) {
	cfg := fastConfig(t)
	h := newHarness(t, cfg, scorer.NewStatic(types.RiskScore{Score: 10}), nil)

	r, err := h.orch.Submit(context.Background(), types.Intent{Caller: testID(1)})
	require.NoError(t, err)
	require.Equal(t, ResultBlocked, r.Status)
	require.ErrorIs(t, r.Reason, types.ErrInvalidIntent)
}

func TestScorerUnavailableDegradesToUnflagged(t *testing.T) {
	cfg := fastConfig(t)
	h := newHarness(t, cfg, scorer.Unavailable{}, nil)

	intent := types.Intent{Caller: testID(1), Destination: testID(2), Value: 777}
	fp := intent.FingerprintOf()
	resultCh := submitAsync(t, h, intent)
	awaitProposalOpen(t, h, fp)

	snap, err := h.store.Snapshot(fp)
	require.NoError(t, err)
	require.Empty(t, snap.VDFJobID, "a scorer outage must degrade to Unflagged, never spawn a VDF job")

	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Commit(fp, slot, types.VoteApprove)
		require.NoError(t, err)
	}
	_, err = h.store.AdvanceToReveal(fp)
	require.NoError(t, err)
	for slot := 1; slot <= 7; slot++ {
		_, err := h.net.Reveal(fp, slot)
		require.NoError(t, err)
	}

	r := awaitResult(t, resultCh)
	require.Equal(t, ResultApproved, r.Status)
}
