// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orchestratortest holds test-only scorer helpers that the
// production orchestrator constructor never sees. The source this
// core was distilled from keeps a "force outcome" knob reachable at
// runtime alongside its real scorer; spec §9 flags that as a design
// smell without mandating a replacement, so here the knob lives only
// behind this separate, test-importable package instead of inside
// orchestrator itself.
package orchestratortest

import (
	"context"

	"github.com/luxfi/airlock/scorer"
	"github.com/luxfi/airlock/types"
)

// ForcedScorer always returns Result (or Err, if set), regardless of
// the intent it is asked to score. It satisfies scorer.Scorer so it
// drops into any orchestrator test harness in place of a real scorer.
type ForcedScorer struct {
	Result types.RiskScore
	Err    error
}

var _ scorer.Scorer = ForcedScorer{}

// WithForcedScorerResult returns a ForcedScorer that always answers
// with result, for tests asserting a specific flagged/unflagged
// branch without depending on a real scorer's variance.
func WithForcedScorerResult(result types.RiskScore) ForcedScorer {
	return ForcedScorer{Result: result}
}

// WithForcedScorerError returns a ForcedScorer that always fails with
// err, for exercising the orchestrator's fail-open degrade path
// deterministically.
func WithForcedScorerError(err error) ForcedScorer {
	return ForcedScorer{Err: err}
}

func (f ForcedScorer) Score(context.Context, types.Intent) (types.RiskScore, error) {
	if f.Err != nil {
		return types.RiskScore{}, f.Err
	}
	return f.Result, nil
}
