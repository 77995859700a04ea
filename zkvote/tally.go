// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package zkvote

import "github.com/luxfi/airlock/types"

// Tally counts revealed votes against the committee's expected size,
// mirroring the positive/negative counter idiom the static quorum
// checker uses, generalized to the three-way vote domain.
func Tally(revealed map[uint32]types.Vote, guardianCount int) types.Tally {
	var t types.Tally
	for _, v := range revealed {
		switch v {
		case types.VoteApprove:
			t.Approve++
		case types.VoteReject:
			t.Reject++
		case types.VoteAbstain:
			t.Abstain++
		}
	}
	t.Pending = guardianCount - len(revealed)
	if t.Pending < 0 {
		t.Pending = 0
	}
	return t
}

// Outcome applies spec §4.3's thresholds to a tally: approval clears
// at approvalThreshold approvals regardless of the rest of the
// committee; rejection clears once more than rejectionThreshold-1
// guardians reject (i.e. rejectionThreshold rejections); anything
// else is still pending while guardians remain unrevealed, and
// rejected by default once the reveal window is exhausted.
func Outcome(t types.Tally, approvalThreshold, rejectionThreshold int, revealWindowOpen bool) types.Outcome {
	if t.Approve >= approvalThreshold {
		return types.OutcomeApproved
	}
	if t.Reject >= rejectionThreshold {
		return types.OutcomeRejected
	}
	if revealWindowOpen && t.Pending > 0 {
		return types.OutcomePending
	}
	return types.OutcomeRejected
}
