// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scorer defines the boundary between the orchestrator and
// whatever risk-scoring model sits in front of it. The model itself
// (spec §4.1 calls it "the ML risk score") is out of scope for this
// module; callers wire in a Scorer the same way the networking
// package wires in a Sender — a small interface plus an in-memory
// mock for tests.
package scorer

import (
	"context"

	"github.com/luxfi/airlock/types"
)

// Scorer produces a risk assessment for an intent. Implementations
// are expected to enforce their own timeout; Score should return
// promptly once ctx is done rather than blocking past it.
type Scorer interface {
	Score(ctx context.Context, intent types.Intent) (types.RiskScore, error)
}

// Static always returns the same verdict, useful for demos and for
// tests that don't care about scoring variance.
type Static struct {
	Result types.RiskScore
}

// NewStatic returns a Scorer that always answers with result.
func NewStatic(result types.RiskScore) Static { return Static{Result: result} }

func (s Static) Score(context.Context, types.Intent) (types.RiskScore, error) {
	return s.Result, nil
}

// Func adapts a plain function into a Scorer, for tests that want a
// scorer whose answer depends on the intent.
type Func func(ctx context.Context, intent types.Intent) (types.RiskScore, error)

func (f Func) Score(ctx context.Context, intent types.Intent) (types.RiskScore, error) {
	return f(ctx, intent)
}

// Unavailable always fails, simulating the scorer service being down
// so callers can exercise the orchestrator's fail-open degrade path.
type Unavailable struct{ Err error }

func (u Unavailable) Score(context.Context, types.Intent) (types.RiskScore, error) {
	err := u.Err
	if err == nil {
		err = types.ErrScorerUnavailable
	}
	return types.RiskScore{}, err
}
