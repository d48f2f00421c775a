package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/padudon-bit/IndieBook-project/internal/config"
)

// Module provides Cache backed by Redis when REDIS_ADDR is set.
var Module = fx.Provide(newCache)

var newRedisClient = func(opts *redis.Options) redisClient {
	return redis.NewClient(opts)
}

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newCache(p cacheParams) Cache {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("catalog cache disabled")
		return NopCache{}
	}

	client := newRedisClient(&redis.Options{
		Addr:     p.Config.RedisAddr,
		Password: p.Config.RedisPassword,
		DB:       p.Config.RedisDB,
	})
	rc := NewRedisCache(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		p.Logger.Warn("redis unavailable, catalog cache disabled", slog.String("addr", p.Config.RedisAddr), slog.Any("error", err))
		_ = rc.Close()
		return NopCache{}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rc.Close()
		},
	})
	return rc
}
