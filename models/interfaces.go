package models

import (
	"context"
	"time"
)

// ImageFinder picks a picture for a city. It never fails: implementations
// fall back to types.DefaultCityImage.
type ImageFinder interface {
	FindCityImage(ctx context.Context, city, country string) string
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (token string, expiresAt time.Time, err error)
}
