// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/airlock/types"
)

func TestStaticScorer(t *testing.T) {
	want := types.RiskScore{Score: 0.9, Verdict: types.VerdictDangerous}
	s := NewStatic(want)
	got, err := s.Score(context.Background(), types.Intent{})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFuncScorer(t *testing.T) {
	s := Func(func(_ context.Context, i types.Intent) (types.RiskScore, error) {
		if i.Value > 1000 {
			return types.RiskScore{Score: 0.8, Verdict: types.VerdictSuspicious}, nil
		}
		return types.RiskScore{Score: 0.1, Verdict: types.VerdictSafe}, nil
	})

	got, err := s.Score(context.Background(), types.Intent{Value: 5000})
	require.NoError(t, err)
	require.Equal(t, types.VerdictSuspicious, got.Verdict)
}

func TestUnavailableScorer(t *testing.T) {
	s := Unavailable{}
	_, err := s.Score(context.Background(), types.Intent{})
	require.ErrorIs(t, err, types.ErrScorerUnavailable)
}
