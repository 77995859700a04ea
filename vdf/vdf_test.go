// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	airlocklog "github.com/luxfi/airlock/log"
	"github.com/luxfi/airlock/metrics"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return New(4, airlocklog.NewNoOpLogger(), metrics.NewNoOp())
}

func TestRequestAwaitVerify(t *testing.T) {
	e := testEngine(t)
	challenge := [32]byte{1, 2, 3}

	id, err := e.Request(challenge, 64)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	job, err := e.Await(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StateReady, job.State)
	require.False(t, job.Proof.IsZero())

	require.True(t, Verify(challenge, 64, job.Proof))
}

func TestVerifyRejectsWrongIterations(t *testing.T) {
	e := testEngine(t)
	challenge := [32]byte{9}

	id, err := e.Request(challenge, 32)
	require.NoError(t, err)
	job, err := e.Await(context.Background(), id)
	require.NoError(t, err)

	require.False(t, Verify(challenge, 33, job.Proof))
}

func TestVerifyRejectsWrongChallenge(t *testing.T) {
	e := testEngine(t)
	challenge := [32]byte{9}
	other := [32]byte{10}

	id, err := e.Request(challenge, 32)
	require.NoError(t, err)
	job, err := e.Await(context.Background(), id)
	require.NoError(t, err)

	require.False(t, Verify(other, 32, job.Proof))
}

func TestBypassYieldsZeroProof(t *testing.T) {
	e := testEngine(t)
	challenge := [32]byte{5}

	// A huge iteration count guarantees the squaring loop is still
	// running when Bypass is called.
	id, err := e.Request(challenge, 1<<40)
	require.NoError(t, err)

	require.NoError(t, e.Bypass(id))

	job, err := e.Poll(id)
	require.NoError(t, err)
	require.Equal(t, StateBypassed, job.State)
	require.True(t, job.Proof.IsZero())

	require.False(t, Verify(challenge, 1<<40, job.Proof))
}

func TestBypassIsIdempotent(t *testing.T) {
	e := testEngine(t)
	challenge := [32]byte{6}

	id, err := e.Request(challenge, 16)
	require.NoError(t, err)
	_, err = e.Await(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, e.Bypass(id))
	require.NoError(t, e.Bypass(id))

	job, err := e.Poll(id)
	require.NoError(t, err)
	require.Equal(t, StateReady, job.State)
	require.False(t, job.Proof.IsZero())
}

func TestPollUnknownJob(t *testing.T) {
	e := testEngine(t)
	_, err := e.Poll("does-not-exist")
	require.Error(t, err)
}

func TestRequestRejectsZeroIterations(t *testing.T) {
	e := testEngine(t)
	_, err := e.Request([32]byte{1}, 0)
	require.Error(t, err)
}

func TestProgressCheckpoints(t *testing.T) {
	e := New(2, airlocklog.NewNoOpLogger(), metrics.NewNoOp())
	id, err := e.Request([32]byte{7}, 8)
	require.NoError(t, err)

	_, err = e.Await(context.Background(), id)
	require.NoError(t, err)

	job, err := e.Poll(id)
	require.NoError(t, err)
	require.Equal(t, StateReady, job.State)
	require.Equal(t, uint64(8), job.Progress)
}
