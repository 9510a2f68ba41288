package models

import (
	"testing"

	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStepStatus(t *testing.T) {
	tests := []struct {
		name      string
		isInitial bool
		counts    types.VoteCounts
		members   int
		want      types.StepStatus
	}{
		{"initial step without votes", true, types.VoteCounts{}, 4, types.StepStatusValidated},
		{"initial step with only no votes", true, types.VoteCounts{Yes: 0, Total: 4}, 4, types.StepStatusValidated},
		{"no votes yet", false, types.VoteCounts{}, 3, types.StepStatusPending},
		{"some members still to vote", false, types.VoteCounts{Yes: 2, Total: 2}, 3, types.StepStatusPending},
		{"strict majority", false, types.VoteCounts{Yes: 2, Total: 3}, 3, types.StepStatusValidated},
		{"tie is rejected", false, types.VoteCounts{Yes: 2, Total: 4}, 4, types.StepStatusRejected},
		{"unanimous no", false, types.VoteCounts{Yes: 0, Total: 2}, 2, types.StepStatusRejected},
		{"solo owner yes", false, types.VoteCounts{Yes: 1, Total: 1}, 1, types.StepStatusValidated},
		{"more votes than members", false, types.VoteCounts{Yes: 2, Total: 3}, 2, types.StepStatusPending},
		{"more votes than members with majority", false, types.VoteCounts{Yes: 3, Total: 3}, 2, types.StepStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, stats := DeriveStepStatus(tt.isInitial, tt.counts, tt.members)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.counts.Yes, stats.Yes)
			assert.Equal(t, tt.counts.Total-tt.counts.Yes, stats.No)
			assert.Equal(t, tt.counts.Total, stats.Total)
		})
	}
}

func TestDeriveStepStatus_PendingUntilEveryoneVoted(t *testing.T) {
	for members := 1; members <= 8; members++ {
		for total := 0; total < members; total++ {
			for yes := 0; yes <= total; yes++ {
				status, _ := DeriveStepStatus(false, types.VoteCounts{Yes: yes, Total: total}, members)
				assert.Equal(t, types.StepStatusPending, status, "members=%d total=%d yes=%d", members, total, yes)
			}
		}
		for yes := 0; yes <= members; yes++ {
			status, _ := DeriveStepStatus(false, types.VoteCounts{Yes: yes, Total: members}, members)
			if 2*yes > members {
				assert.Equal(t, types.StepStatusValidated, status)
			} else {
				assert.Equal(t, types.StepStatusRejected, status)
			}
		}
	}
}
