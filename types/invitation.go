package types

import "time"

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRefused  InvitationStatus = "refused"
)

// IsResponse reports whether s is a valid answer to an invitation.
func (s InvitationStatus) IsResponse() bool {
	return s == InvitationStatusAccepted || s == InvitationStatusRefused
}

// Invitation invites an email address to a trip. UserID stays nil until the
// address belongs to an account.
type Invitation struct {
	ID        int64            `json:"id"`
	TripID    int64            `json:"tripId"`
	Email     string           `json:"email"`
	UserID    *int64           `json:"userId"`
	Message   string           `json:"message"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type InvitationCreate struct {
	Email   string `json:"email" binding:"required,max=255"`
	Message string `json:"message" binding:"required,max=2000"`
}

type InvitationCreated struct {
	ID   int64  `json:"id"`
	Link string `json:"invitationLink"`
}

type InvitationRespond struct {
	Status InvitationStatus `json:"status" binding:"required"`
}

// InvitationDetails is what an invitee sees before answering.
type InvitationDetails struct {
	Invitation
	Trip *Trip `json:"trip"`
}

type TripInvitations struct {
	Trip        *Trip        `json:"trip"`
	Invitations []Invitation `json:"invitations"`
}
