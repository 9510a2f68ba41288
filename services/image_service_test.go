package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPexels struct {
	mock.Mock
}

func (m *mockPexels) SearchDestinationImage(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func TestImageService_FindCityImage(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		expect string
	}{
		{"found", "https://img/lisbon.jpg", nil, "https://img/lisbon.jpg"},
		{"nothing matched", "", nil, types.DefaultCityImage},
		{"lookup failed", "", errors.New("timeout"), types.DefaultCityImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockPexels{}
			client.On("SearchDestinationImage", mock.Anything, "Lisbon Portugal").Return(tt.url, tt.err)

			svc := NewImageService(client, time.Second)
			assert.Equal(t, tt.expect, svc.FindCityImage(context.Background(), "Lisbon", "Portugal"))
			client.AssertExpectations(t)
		})
	}

	t.Run("no client configured", func(t *testing.T) {
		svc := NewImageService(nil, 0)
		assert.Equal(t, types.DefaultCityImage, svc.FindCityImage(context.Background(), "Lisbon", "Portugal"))
	})
}
