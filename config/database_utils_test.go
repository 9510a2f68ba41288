package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePostgresPool(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DatabaseConfig
		wantTLS bool
		wantMax int32
	}{
		{
			name:    "local without tls",
			cfg:     DatabaseConfig{Host: "localhost", Port: 5432, User: "planner", Password: "secret", Name: "planner", SSLMode: "disable", MaxConnections: 20},
			wantTLS: false,
			wantMax: 20,
		},
		{
			name:    "managed database requires tls",
			cfg:     DatabaseConfig{Host: "db.example.com", Port: 5432, User: "planner", Password: "secret", Name: "planner", SSLMode: "require"},
			wantTLS: true,
			wantMax: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poolCfg, err := ConfigurePostgresPool(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, "planner", poolCfg.ConnConfig.User)
			assert.Equal(t, "planner", poolCfg.ConnConfig.Database)
			assert.Equal(t, tt.wantMax, poolCfg.MaxConns)
			assert.Equal(t, tt.wantTLS, poolCfg.ConnConfig.TLSConfig != nil)
			assert.Equal(t, 5*time.Second, poolCfg.ConnConfig.ConnectTimeout)
		})
	}
}

func TestConfigureRedisOptions(t *testing.T) {
	opts := ConfigureRedisOptions(&RedisConfig{Address: "cache:6379", DB: 2, UseTLS: true})
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)
	assert.NotNil(t, opts.TLSConfig)

	opts = ConfigureRedisOptions(&RedisConfig{Address: "localhost:6379", PoolSize: 9})
	assert.Nil(t, opts.TLSConfig)
	assert.Equal(t, 9, opts.PoolSize)
}

func TestPingRedis(t *testing.T) {
	t.Run("succeeds after a retry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))
		mock.ExpectPing().SetVal("PONG")

		require.NoError(t, PingRedis(context.Background(), client, 3, time.Millisecond))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		err := PingRedis(context.Background(), client, 2, time.Millisecond)
		assert.ErrorContains(t, err, "after 2 attempts")
	})
}
