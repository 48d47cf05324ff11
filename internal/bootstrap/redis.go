package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/persona-lab/persona-backend/config"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Config config.RedisConfig
	PingTO time.Duration
}

// OpenRedis connects and pings once so a bad address fails at startup.
func OpenRedis(ctx context.Context, opt RedisOptions) (*redis.Client, error) {
	if opt.Config.Addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opt.Config.Addr,
		Password: opt.Config.Password,
		DB:       opt.Config.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
