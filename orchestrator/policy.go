// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package orchestrator

import "github.com/luxfi/airlock/types"

// PolicyGate is the pre-flight blacklist/pause boundary (spec §4.5,
// §9 "Global mutable state"). Flags are process-wide but the
// orchestrator only ever reads a snapshot at proposal open; it never
// mutates them, and a later flip does not retroactively affect a
// proposal already admitted.
type PolicyGate interface {
	Blacklisted(caller types.ID) bool
	Paused() bool
}

// StaticPolicy is a PolicyGate over a fixed blacklist set and pause
// flag, for tests and the demo CLI.
type StaticPolicy struct {
	Blacklist map[types.ID]bool
	IsPaused  bool
}

func (p StaticPolicy) Blacklisted(caller types.ID) bool { return p.Blacklist[caller] }

func (p StaticPolicy) Paused() bool { return p.IsPaused }

// openGate is the no-op PolicyGate used when the orchestrator is
// constructed without one: nothing is blacklisted, the protocol is
// never paused.
type openGate struct{}

func (openGate) Blacklisted(types.ID) bool { return false }
func (openGate) Paused() bool              { return false }
