// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/airlock/types"
)

func TestRecordingExecutor(t *testing.T) {
	e := NewRecording()
	env := types.Envelope{OutcomeTag: types.OutcomeTagApproved}
	require.NoError(t, e.Execute(context.Background(), env))
	require.Equal(t, []types.Envelope{env}, e.Envelopes())
}

func TestFailingExecutor(t *testing.T) {
	want := types.ErrSignatureAssembly
	e := NewFailing(want)
	err := e.Execute(context.Background(), types.Envelope{})
	require.ErrorIs(t, err, want)
	require.Empty(t, e.Envelopes())
}
