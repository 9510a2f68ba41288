package types

import "time"

// DefaultCityImage is served when no picture could be found for a city.
const DefaultCityImage = "/images/default-city.jpg"

type Trip struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	ImageURL    string    `json:"imageUrl"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasStarted reports whether the trip's start date is before now.
func (t *Trip) HasStarted(now time.Time) bool {
	return t.StartAt.Before(now)
}

type TripCreate struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description" binding:"required"`
	City        string    `json:"city" binding:"required,max=255"`
	Country     string    `json:"country" binding:"required,max=255"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	ImageURL    string    `json:"imageUrl" binding:"omitempty,max=2048"`
}

// TripWithParticipants adds the member count (owner included).
type TripWithParticipants struct {
	Trip
	Participants int `json:"participants"`
}

// TripStatusFilter narrows a user's trip list by date.
type TripStatusFilter string

const (
	TripStatusAll      TripStatusFilter = ""
	TripStatusUpcoming TripStatusFilter = "upcoming"
	TripStatusOngoing  TripStatusFilter = "ongoing"
	TripStatusPast     TripStatusFilter = "past"
)

// IsValid reports whether f is a known filter.
func (f TripStatusFilter) IsValid() bool {
	switch f {
	case TripStatusAll, TripStatusUpcoming, TripStatusOngoing, TripStatusPast:
		return true
	}
	return false
}

// Matches reports whether the trip falls in the filter's window at now.
func (f TripStatusFilter) Matches(t *Trip, now time.Time) bool {
	switch f {
	case TripStatusUpcoming:
		return t.StartAt.After(now)
	case TripStatusOngoing:
		return !t.StartAt.After(now) && !t.EndAt.Before(now)
	case TripStatusPast:
		return t.EndAt.Before(now)
	default:
		return true
	}
}

// Member is one participant of a trip, owner included.
type Member struct {
	UserID    int64  `json:"userId"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	IsOwner   bool   `json:"isOwner"`
}
