package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/redis/go-redis/v9"
)

const (
	collectionsSetKey = "collections"         // Set of project IDs that have a collection
	baseListPrefix    = "personas:base:"      // List of base persona JSON: personas:base:{project_id}
	generatedPrefix   = "personas:generated:" // List of generated persona JSON: personas:generated:{project_id}
	updateMaxRetries  = 5
)

// RedisStore keeps persona collections as Redis lists of JSON documents.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) InitCollection(ctx context.Context, projectID string) error {
	if err := r.client.SAdd(ctx, r.collectionsKey(), projectID).Err(); err != nil {
		return fmt.Errorf("failed to init collection: %w", err)
	}
	return nil
}

func (r *RedisStore) AddBase(ctx context.Context, projectID string, p domain.Persona) error {
	return r.push(ctx, projectID, r.baseKey(projectID), p)
}

func (r *RedisStore) AppendGenerated(ctx context.Context, projectID string, ps ...domain.Persona) error {
	return r.push(ctx, projectID, r.generatedKey(projectID), ps...)
}

func (r *RedisStore) push(ctx context.Context, projectID, key string, ps ...domain.Persona) error {
	values := make([]any, 0, len(ps))
	for _, p := range ps {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal persona: %w", err)
		}
		values = append(values, data)
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, r.collectionsKey(), projectID)
	if len(values) > 0 {
		pipe.RPush(ctx, key, values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append personas: %w", err)
	}
	return nil
}

func (r *RedisStore) Collection(ctx context.Context, projectID string) (domain.Collection, error) {
	pipe := r.client.Pipeline()
	exists := pipe.SIsMember(ctx, r.collectionsKey(), projectID)
	base := pipe.LRange(ctx, r.baseKey(projectID), 0, -1)
	generated := pipe.LRange(ctx, r.generatedKey(projectID), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Collection{}, fmt.Errorf("failed to load collection: %w", err)
	}

	if !exists.Val() {
		return domain.Collection{}, domain.ErrProjectNotFound
	}

	var (
		c   domain.Collection
		err error
	)
	if c.Base, err = decodeAll(base.Val()); err != nil {
		return domain.Collection{}, err
	}
	if c.Generated, err = decodeAll(generated.Val()); err != nil {
		return domain.Collection{}, err
	}
	return c, nil
}

// UpdateBase uses optimistic locking (WATCH) on the base list so concurrent
// updates to the same project never overwrite a shifted index.
func (r *RedisStore) UpdateBase(ctx context.Context, projectID, personaID string, fn func(domain.Persona) domain.Persona) (domain.Persona, error) {
	baseKey := r.baseKey(projectID)

	var updated domain.Persona
	txf := func(tx *redis.Tx) error {
		ok, err := tx.SIsMember(ctx, r.collectionsKey(), projectID).Result()
		if err != nil {
			return fmt.Errorf("failed to check collection: %w", err)
		}
		if !ok {
			return domain.ErrProjectNotFound
		}

		items, err := tx.LRange(ctx, baseKey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to load base personas: %w", err)
		}
		personas, err := decodeAll(items)
		if err != nil {
			return err
		}

		idx := -1
		for i := range personas {
			if personas[i].ID == personaID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrPersonaNotFound
		}

		updated = fn(personas[idx])
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal persona: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LSet(ctx, baseKey, int64(idx), data)
			return nil
		})
		return err
	}

	for i := 0; i < updateMaxRetries; i++ {
		err := r.client.Watch(ctx, txf, baseKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Persona{}, err
		}
		return updated, nil
	}
	return domain.Persona{}, fmt.Errorf("failed to update persona: too much contention")
}

func decodeAll(items []string) ([]domain.Persona, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]domain.Persona, 0, len(items))
	for _, item := range items {
		var p domain.Persona
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal persona: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Helper methods for key generation
func (r *RedisStore) collectionsKey() string {
	return r.prefix + collectionsSetKey
}

func (r *RedisStore) baseKey(projectID string) string {
	return r.prefix + baseListPrefix + projectID
}

func (r *RedisStore) generatedKey(projectID string) string {
	return r.prefix + generatedPrefix + projectID
}
