package types

// ErrorResponse documents the body written by the error middleware.
type ErrorResponse struct {
	Type    string `json:"type" example:"NOT_FOUND"`
	Message string `json:"message" example:"Trip not found"`
	Code    string `json:"code" example:"not_found"`
	Details string `json:"details,omitempty"`
	TripID  int64  `json:"tripId,omitempty"`
}

// CountResponse wraps a bare count.
type CountResponse struct {
	Count int64 `json:"count"`
}

// RemovedResponse reports whether a delete-style call changed anything.
type RemovedResponse struct {
	Removed bool `json:"removed"`
}
