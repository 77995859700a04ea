// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"time"
)

// Builder provides a fluent interface for constructing a Config,
// accumulating the first validation error encountered so callers only
// need to check err once, at Build.
type Builder struct {
	config *Config
	err    error
}

// NewBuilder creates a new configuration builder seeded with the
// defaults of spec §6.
func NewBuilder() *Builder {
	return &Builder{
		config: &Config{
			GuardianCount:      10,
			ApprovalThreshold:  7,
			RejectionThreshold: 4,
			FlagThreshold:      50,
			VDFIterations:      300_000_000,
			ProposalDeadline:   5 * time.Minute,
			ScorerTimeout:      10 * time.Second,
			CheckpointEvery:    4096,
			SigningThreshold:   7,
		},
	}
}

// WithGuardians sets the total guardian slot count and recomputes the
// rejection threshold to keep it derived per spec §6.
func (b *Builder) WithGuardians(n int) *Builder {
	if b.err != nil {
		return b
	}
	if n < 1 {
		b.err = fmt.Errorf("guardian count must be at least 1, got %d", n)
		return b
	}
	b.config.GuardianCount = n
	b.config.RejectionThreshold = n - b.config.ApprovalThreshold + 1
	return b
}

// WithApprovalThreshold sets the required approval count and
// recomputes the derived rejection threshold.
func (b *Builder) WithApprovalThreshold(t int) *Builder {
	if b.err != nil {
		return b
	}
	if t < 1 || t > b.config.GuardianCount {
		b.err = fmt.Errorf("approval threshold must be in [1, %d], got %d", b.config.GuardianCount, t)
		return b
	}
	b.config.ApprovalThreshold = t
	b.config.RejectionThreshold = b.config.GuardianCount - t + 1
	return b
}

// WithSigningThreshold sets FROST's t. Must not exceed GuardianCount.
func (b *Builder) WithSigningThreshold(t int) *Builder {
	if b.err != nil {
		return b
	}
	if t < 1 || t > b.config.GuardianCount {
		b.err = fmt.Errorf("signing threshold must be in [1, %d], got %d", b.config.GuardianCount, t)
		return b
	}
	b.config.SigningThreshold = t
	return b
}

// WithFlagThreshold sets the score cutoff that triggers the VDF path.
func (b *Builder) WithFlagThreshold(score float64) *Builder {
	if b.err != nil {
		return b
	}
	if score < 0 || score > 100 {
		b.err = fmt.Errorf("flag threshold must be in [0, 100], got %f", score)
		return b
	}
	b.config.FlagThreshold = score
	return b
}

// WithVDFIterations sets T.
func (b *Builder) WithVDFIterations(t uint64) *Builder {
	if b.err != nil {
		return b
	}
	if t == 0 {
		b.err = fmt.Errorf("vdf iterations must be > 0")
		return b
	}
	b.config.VDFIterations = t
	return b
}

// WithProposalDeadline sets the hard per-proposal deadline.
func (b *Builder) WithProposalDeadline(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d <= 0 {
		b.err = fmt.Errorf("proposal deadline must be positive, got %s", d)
		return b
	}
	b.config.ProposalDeadline = d
	return b
}

// WithScorerTimeout sets the scorer call timeout.
func (b *Builder) WithScorerTimeout(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d <= 0 {
		b.err = fmt.Errorf("scorer timeout must be positive, got %s", d)
		return b
	}
	b.config.ScorerTimeout = d
	return b
}

// WithCheckpointEvery sets the VDF checkpoint granularity.
func (b *Builder) WithCheckpointEvery(n uint64) *Builder {
	if b.err != nil {
		return b
	}
	if n == 0 {
		b.err = fmt.Errorf("checkpoint interval must be > 0")
		return b
	}
	b.config.CheckpointEvery = n
	return b
}

// Build validates cross-field invariants and returns the final Config.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	c := *b.config
	if c.ApprovalThreshold+c.RejectionThreshold != c.GuardianCount+1 {
		return Config{}, fmt.Errorf(
			"approval (%d) + rejection (%d) thresholds must sum to guardianCount+1 (%d), got %d",
			c.ApprovalThreshold, c.RejectionThreshold, c.GuardianCount+1,
			c.ApprovalThreshold+c.RejectionThreshold,
		)
	}
	if c.SigningThreshold > c.GuardianCount {
		return Config{}, fmt.Errorf("signing threshold (%d) exceeds guardian count (%d)", c.SigningThreshold, c.GuardianCount)
	}
	return c, nil
}
