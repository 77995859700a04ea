// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package executor defines the boundary the orchestrator hands a
// finished envelope across. What actually happens to an approved
// transaction downstream (broadcast, relay, settlement) is out of
// scope for this module (spec §1); callers wire in an Executor the
// same way the networking package wires in a Sender.
package executor

import (
	"context"
	"sync"

	"github.com/luxfi/airlock/types"
)

// Executor consumes a finalized envelope exactly once.
type Executor interface {
	Execute(ctx context.Context, envelope types.Envelope) error
}

// Recording is an in-memory Executor that records every envelope it
// receives, for tests and the demo CLI.
type Recording struct {
	mu        sync.Mutex
	envelopes []types.Envelope
	err       error
}

// NewRecording returns a Recording executor that always succeeds.
func NewRecording() *Recording { return &Recording{} }

// NewFailing returns a Recording executor whose Execute always fails with err.
func NewFailing(err error) *Recording { return &Recording{err: err} }

func (r *Recording) Execute(_ context.Context, envelope types.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.envelopes = append(r.envelopes, envelope)
	return nil
}

// Envelopes returns every envelope executed so far.
func (r *Recording) Envelopes() []types.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Envelope(nil), r.envelopes...)
}
