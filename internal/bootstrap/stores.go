package bootstrap

import (
	"context"

	"github.com/persona-lab/persona-backend/config"
	httpapi "github.com/persona-lab/persona-backend/internal/api/http"
	personarepo "github.com/persona-lab/persona-backend/internal/personas/repository"
	projectrepo "github.com/persona-lab/persona-backend/internal/projects/repository"
	"github.com/redis/go-redis/v9"
)

// Stores is the state backend selected by STORE_BACKEND.
type Stores struct {
	Projects projectrepo.Store
	Personas personarepo.Store
	// Pinger is nil for the in-memory backend.
	Pinger httpapi.Pinger
	Close  func() error
}

func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.Store.Backend != config.StoreRedis {
		return &Stores{
			Projects: projectrepo.NewMemoryStore(),
			Personas: personarepo.NewMemoryStore(),
			Close:    func() error { return nil },
		}, nil
	}

	client, err := OpenRedis(ctx, RedisOptions{Config: cfg.Redis})
	if err != nil {
		return nil, err
	}
	return redisStores(client, cfg.Redis.KeyPrefix), nil
}

func redisStores(client *redis.Client, prefix string) *Stores {
	return &Stores{
		Projects: projectrepo.NewRedisStore(client, prefix),
		Personas: personarepo.NewRedisStore(client, prefix),
		Pinger:   httpapi.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		Close:    client.Close,
	}
}
