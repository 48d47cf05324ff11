package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/persona-lab/persona-backend/internal/projects/domain"
	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix = "project:" // Project document: {prefix}project:{id}
	projectOrderKey  = "projects" // List of project IDs in creation order
)

// RedisStore keeps projects as JSON documents in Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Create(ctx context.Context, p *domain.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.projectKey(p.ID), data, 0)
	pipe.RPush(ctx, r.orderKey(), p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]domain.Project, error) {
	ids, err := r.client.LRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.projectKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p domain.Project
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &p, nil
}

func (r *RedisStore) projectKey(id string) string {
	return r.prefix + projectKeyPrefix + id
}

func (r *RedisStore) orderKey() string {
	return r.prefix + projectOrderKey
}
