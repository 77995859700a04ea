// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package types

// Verdict is the scorer's categorical risk label, accompanying the
// numeric score.
type Verdict string

const (
	VerdictSafe       Verdict = "safe"
	VerdictSuspicious Verdict = "suspicious"
	VerdictDangerous  Verdict = "dangerous"
)

// RiskScore is the scorer's bounded-real output plus its verdict label.
// Score is expected in [0, 100]; nothing in this module clamps it.
type RiskScore struct {
	Score       float64
	Verdict     Verdict
	Explanation string
}

// Flagged reports whether this score crosses the configured flag
// threshold (spec §3: flagged ⇔ score ≥ FLAG_THRESHOLD).
func (r RiskScore) Flagged(flagThreshold float64) bool {
	return r.Score >= flagThreshold
}
