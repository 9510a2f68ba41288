package models

import "github.com/NomadCrew/nomad-crew-planner/types"

// DeriveStepStatus computes a step's status from its tally.
//
// The initial step is always validated. Any other step is decided only when
// the vote count equals the member count: validated on a strict yes majority,
// rejected otherwise. Every other count, including more votes than members,
// leaves it pending.
func DeriveStepStatus(isInitial bool, counts types.VoteCounts, memberCount int) (types.StepStatus, types.VoteStats) {
	stats := types.VoteStats{
		Yes:   counts.Yes,
		No:    counts.Total - counts.Yes,
		Total: counts.Total,
	}

	switch {
	case isInitial:
		return types.StepStatusValidated, stats
	case counts.Total != memberCount:
		return types.StepStatusPending, stats
	case counts.Yes*2 > memberCount:
		return types.StepStatusValidated, stats
	default:
		return types.StepStatusRejected, stats
	}
}

func withStatus(tally types.StepTally, memberCount int) types.StepWithStatus {
	status, stats := DeriveStepStatus(tally.IsInitial, tally.Counts, memberCount)
	return types.StepWithStatus{Step: tally.Step, Status: status, VoteStats: stats}
}
