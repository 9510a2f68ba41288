package types

import "time"

// MaxVoteCommentLength bounds a vote comment, in characters.
const MaxVoteCommentLength = 500

type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusValidated StepStatus = "validated"
	StepStatusRejected  StepStatus = "rejected"
)

// Step is a destination within a trip. The initial step mirrors the trip's
// own city and is always validated.
type Step struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"tripId"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	ImageURL  string    `json:"imageUrl"`
	UserID    int64     `json:"userId"`
	IsInitial bool      `json:"isInitial"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteCounts is the raw tally for one step.
type VoteCounts struct {
	Yes   int
	Total int
}

type VoteStats struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Total int `json:"total"`
}

// StepTally is a step together with its vote counts, as read from storage.
type StepTally struct {
	Step
	Counts VoteCounts
}

type StepWithStatus struct {
	Step
	Status    StepStatus `json:"status"`
	VoteStats VoteStats  `json:"voteStats"`
}

type StepCreate struct {
	City     string `json:"city" binding:"required,max=255"`
	Country  string `json:"country" binding:"required,max=255"`
	ImageURL string `json:"imageUrl" binding:"omitempty,max=2048"`
}

type StepListResponse struct {
	Trip        *Trip            `json:"trip"`
	MemberCount int              `json:"memberCount"`
	Steps       []StepWithStatus `json:"steps"`
}

type StepCreateResponse struct {
	Trip *Trip          `json:"trip"`
	Step StepWithStatus `json:"step"`
}

// Vote is one member's yes/no on a step.
type Vote struct {
	ID        int64     `json:"id"`
	StepID    int64     `json:"stepId"`
	UserID    int64     `json:"userId"`
	Vote      bool      `json:"vote"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UserName  string    `json:"userName,omitempty"`
}

type VoteCreate struct {
	Vote    *bool   `json:"vote" binding:"required"`
	Comment *string `json:"comment"`
}

type VoteListResponse struct {
	StepID  int64     `json:"stepId"`
	Votes   []Vote    `json:"votes"`
	Summary VoteStats `json:"summary"`
}
