package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/config"
)

// Redis wraps the go-redis client. It backs both the realtime broadcast
// channels and the intake stream, so the service can start without it but
// runs degraded until it is reachable.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. The startup
// ping is bounded so an unreachable broker delays boot by at most two
// seconds.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis; realtime fanout degraded until it recovers",
			zap.String("addr", cfg.Addr),
			zap.Error(err))
	} else {
		logger.Info("connected to redis",
			zap.String("addr", cfg.Addr),
			zap.Int("db", cfg.DB))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
