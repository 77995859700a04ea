// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestratortest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/airlock/types"
)

func TestForcedScorerReturnsResult(t *testing.T) {
	want := types.RiskScore{Score: 92, Verdict: types.VerdictDangerous}
	sc := WithForcedScorerResult(want)

	got, err := sc.Score(context.Background(), types.Intent{})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestForcedScorerReturnsError(t *testing.T) {
	want := errors.New("forced outage")
	sc := WithForcedScorerError(want)

	_, err := sc.Score(context.Background(), types.Intent{})
	require.ErrorIs(t, err, want)
}
