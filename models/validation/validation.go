package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// ValidateEmail checks the address shape only. Deliverability is not checked.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return errors.ValidationFailed("Invalid email format", email)
	}
	return nil
}

// ValidateTripCreate trims the request in place and checks it. The start
// date may be any time today or later, in the server's clock.
func ValidateTripCreate(req *types.TripCreate, now time.Time) error {
	var validationErrors []string

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if req.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if req.Description == "" {
		validationErrors = append(validationErrors, "description is required")
	}
	if req.City == "" {
		validationErrors = append(validationErrors, "city is required")
	}
	if req.Country == "" {
		validationErrors = append(validationErrors, "country is required")
	}
	if req.StartAt.IsZero() {
		validationErrors = append(validationErrors, "start date is required")
	}
	if req.EndAt.IsZero() {
		validationErrors = append(validationErrors, "end date is required")
	}

	if !req.StartAt.IsZero() {
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if req.StartAt.Before(startOfToday) {
			validationErrors = append(validationErrors, "start date cannot be in the past")
		}
	}
	if !req.StartAt.IsZero() && !req.EndAt.IsZero() && !req.EndAt.After(req.StartAt) {
		validationErrors = append(validationErrors, "end date must be after start date")
	}

	if len(validationErrors) > 0 {
		return errors.ValidationFailed("Invalid trip data", strings.Join(validationErrors, "; "))
	}
	return nil
}

// ValidateStepCreate trims the request in place and checks it.
func ValidateStepCreate(req *types.StepCreate) error {
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	if req.City == "" || req.Country == "" {
		return errors.ValidationFailed("Invalid step data", "city and country are required")
	}
	return nil
}

// NormalizeVoteComment trims the comment. Blank comments become nil.
func NormalizeVoteComment(comment *string) (*string, error) {
	if comment == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > types.MaxVoteCommentLength {
		return nil, errors.ValidationFailed("Comment too long",
			fmt.Sprintf("comment cannot exceed %d characters", types.MaxVoteCommentLength))
	}
	return &trimmed, nil
}

// ValidateInvitationCreate trims the request in place and checks it.
func ValidateInvitationCreate(req *types.InvitationCreate) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)

	if req.Email == "" || req.Message == "" {
		return errors.ValidationFailed("Invalid invitation", "email and message are required")
	}
	return ValidateEmail(req.Email)
}

// ValidateInvitationOpen rejects invitations that can no longer be answered.
// Accepted and refused are terminal. A pending invitation expires once its
// trip has started; expiry is computed, never stored.
func ValidateInvitationOpen(inv *types.Invitation, trip *types.Trip, now time.Time) error {
	switch inv.Status {
	case types.InvitationStatusAccepted:
		return errors.ConflictWithTrip("invitation_accepted", "Invitation already accepted", inv.TripID)
	case types.InvitationStatusRefused:
		return errors.Gone("invitation_refused", "Invitation already refused")
	}
	if trip != nil && trip.HasStarted(now) {
		return errors.Gone("invitation_expired", "Invitation expired, the trip has already started")
	}
	return nil
}

// ValidateExpenseCreate trims the request in place and returns the checked amount.
func ValidateExpenseCreate(req *types.ExpenseCreate) (valueobjects.Money, error) {
	req.Title = strings.TrimSpace(req.Title)

	var validationErrors []string
	if req.Title == "" {
		validationErrors = append(validationErrors, "title is required")
	}
	if req.Amount == nil {
		validationErrors = append(validationErrors, "amount is required")
	}
	if req.PaidBy <= 0 {
		validationErrors = append(validationErrors, "paidBy is required")
	}
	if req.CategoryID <= 0 {
		validationErrors = append(validationErrors, "categoryId is required")
	}
	if len(validationErrors) > 0 {
		return valueobjects.Money{}, errors.ValidationFailed("Invalid expense data", strings.Join(validationErrors, "; "))
	}

	return valueobjects.NewMoney(*req.Amount)
}

// ValidateRegister trims the request in place and checks it.
func ValidateRegister(req *types.RegisterRequest) error {
	req.Firstname = strings.TrimSpace(req.Firstname)
	req.Lastname = strings.TrimSpace(req.Lastname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var validationErrors []string
	if req.Firstname == "" {
		validationErrors = append(validationErrors, "firstname is required")
	}
	if req.Lastname == "" {
		validationErrors = append(validationErrors, "lastname is required")
	}
	if !emailPattern.MatchString(req.Email) {
		validationErrors = append(validationErrors, "email is invalid")
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		validationErrors = append(validationErrors, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len([]byte(req.Password)) > MaxPasswordBytes {
		validationErrors = append(validationErrors, fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	if len(validationErrors) > 0 {
		return errors.ValidationFailed("Invalid registration", strings.Join(validationErrors, "; "))
	}
	return nil
}
