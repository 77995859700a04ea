// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scorermock is a hand-maintained stand-in for what
// `mockgen -destination scorermock/mock.go` would generate for
// scorer.Scorer; this module has no code-generation step, so the
// generated shape is written out directly instead.
package scorermock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/luxfi/airlock/types"
)

// MockScorer is a mock of the scorer.Scorer interface.
type MockScorer struct {
	ctrl     *gomock.Controller
	recorder *MockScorerMockRecorder
}

// MockScorerMockRecorder is the mock recorder for MockScorer.
type MockScorerMockRecorder struct {
	mock *MockScorer
}

// NewMockScorer creates a new mock instance.
func NewMockScorer(ctrl *gomock.Controller) *MockScorer {
	mock := &MockScorer{ctrl: ctrl}
	mock.recorder = &MockScorerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockScorer) EXPECT() *MockScorerMockRecorder {
	return m.recorder
}

// Score mocks scorer.Scorer.Score.
func (m *MockScorer) Score(ctx context.Context, intent types.Intent) (types.RiskScore, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Score", ctx, intent)
	ret0, _ := ret[0].(types.RiskScore)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Score indicates an expected call of Score.
func (mr *MockScorerMockRecorder) Score(ctx, intent interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Score", reflect.TypeOf((*MockScorer)(nil).Score), ctx, intent)
}
