package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("ratelimit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewTokenBucket),
)

// NewRedisClient returns nil when rate limiting is disabled; the token
// bucket and middleware degrade to pass-through in that case.
func NewRedisClient(cfg config.Config) *redis.Client {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})
}
