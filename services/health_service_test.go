package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestNewHealthService(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	service := NewHealthService(mockDB, nil, "1.0.0")
	assert.Equal(t, "1.0.0", service.version)
	assert.NotNil(t, service.log)
	assert.True(t, time.Since(service.startTime) < time.Second)
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(pgxmock.PgxPoolIface, redismock.ClientMock)
		expectedStatus types.HealthStatus
		expectedComps  map[string]types.HealthStatus
	}{
		{
			name: "all services healthy",
			setupMocks: func(db pgxmock.PgxPoolIface, rd redismock.ClientMock) {
				db.ExpectPing()
				rd.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusUp,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "database recovers after a retry",
			setupMocks: func(db pgxmock.PgxPoolIface, rd redismock.ClientMock) {
				db.ExpectPing().WillReturnError(errors.New("temporary error"))
				db.ExpectPing()
				rd.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusDegraded,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusDegraded,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "database down",
			setupMocks: func(db pgxmock.PgxPoolIface, rd redismock.ClientMock) {
				db.ExpectPing().WillReturnError(errors.New("connection refused"))
				db.ExpectPing().WillReturnError(errors.New("connection refused"))
				db.ExpectPing().WillReturnError(errors.New("connection refused"))
				rd.ExpectPing().SetVal("PONG")
			},
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusDown,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "redis down",
			setupMocks: func(db pgxmock.PgxPoolIface, rd redismock.ClientMock) {
				db.ExpectPing()
				rd.ExpectPing().SetErr(errors.New("redis connection failed"))
			},
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusDown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mockDB.Close()
			redisClient, redisMock := redismock.NewClientMock()

			tt.setupMocks(mockDB, redisMock)

			service := NewHealthService(mockDB, redisClient, "2.0.0")
			service.backoff = time.Millisecond
			result := service.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedStatus, result.Status)
			assert.Equal(t, "2.0.0", result.Version)
			assert.NotEmpty(t, result.Timestamp)
			assert.NotEmpty(t, result.Uptime)
			for comp, status := range tt.expectedComps {
				assert.Equal(t, status, result.Components[comp].Status, comp)
			}

			require.NoError(t, mockDB.ExpectationsWereMet())
			require.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}
