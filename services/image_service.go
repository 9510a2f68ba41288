package services

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/pkg/pexels"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// ImageService finds a picture for a city through Pexels and falls back to
// the default picture on any failure.
type ImageService struct {
	client  pexels.ClientInterface
	timeout time.Duration
}

// NewImageService returns a service that always yields the default picture
// when client is nil.
func NewImageService(client pexels.ClientInterface, timeout time.Duration) *ImageService {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ImageService{client: client, timeout: timeout}
}

func (s *ImageService) FindCityImage(ctx context.Context, city, country string) string {
	if s.client == nil {
		return types.DefaultCityImage
	}

	query := pexels.BuildSearchQuery(city, country)
	if query == "" {
		return types.DefaultCityImage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.client.SearchDestinationImage(ctx, query)
	if err != nil {
		logger.GetLogger().Warnw("City image lookup failed, using default", "query", query, "error", err)
		return types.DefaultCityImage
	}
	if url == "" {
		return types.DefaultCityImage
	}
	return url
}
