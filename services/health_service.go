package services

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DatabasePinger is satisfied by *pgxpool.Pool.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

const (
	dbPingAttempts = 3
	dbPingBackoff  = 100 * time.Millisecond
)

type HealthService struct {
	db          DatabasePinger
	redisClient redis.UniversalClient
	version     string
	startTime   time.Time
	backoff     time.Duration
	log         *zap.SugaredLogger
}

func NewHealthService(db DatabasePinger, redisClient redis.UniversalClient, version string) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		backoff:     dbPingBackoff,
		log:         logger.GetLogger(),
	}
}

// CheckHealth pings every dependency. The overall status is the worst
// component status.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	overall := types.HealthStatusUp
	for _, c := range components {
		switch {
		case c.Status == types.HealthStatusDown:
			overall = types.HealthStatusDown
		case c.Status == types.HealthStatusDegraded && overall != types.HealthStatusDown:
			overall = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overall,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

// checkDatabase retries the ping a few times so a single dropped
// connection does not take the instance out of rotation.
func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	var err error
	for attempt := 1; attempt <= dbPingAttempts; attempt++ {
		start := time.Now()
		if err = h.db.Ping(ctx); err == nil {
			status := types.HealthStatusUp
			details := ""
			if attempt > 1 {
				status = types.HealthStatusDegraded
				details = "Database answered after retries"
			}
			return types.HealthComponent{
				Status:  status,
				Latency: time.Since(start).String(),
				Details: details,
			}
		}
		if attempt < dbPingAttempts {
			select {
			case <-ctx.Done():
				attempt = dbPingAttempts
			case <-time.After(h.backoff):
			}
		}
	}

	h.log.Errorw("Database health check failed", "error", err)
	return types.HealthComponent{
		Status:  types.HealthStatusDown,
		Details: "Database connection failed after multiple attempts",
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "Redis not configured"}
	}

	start := time.Now()
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{
		Status:  types.HealthStatusUp,
		Latency: time.Since(start).String(),
	}
}
