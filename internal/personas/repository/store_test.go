package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(setupTestRedis(t), "test:"),
	}
}

func persona(id string, generated bool) domain.Persona {
	return domain.Persona{
		ID:         id,
		Name:       "Persona " + id,
		Age:        30,
		Occupation: "Engineer",
		Location:   "Berlin",
		Background: "Works remotely",
		Goals:      domain.StringList{"Ship faster"},
		PainPoints: domain.StringList{"Flaky CI"},
		CreatedAt:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Generated:  generated,
	}
}

func ids(ps []domain.Persona) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestStore_UnknownProject(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Collection(ctx, "nope")
			assert.ErrorIs(t, err, domain.ErrProjectNotFound)

			_, err = store.UpdateBase(ctx, "nope", "p1", func(p domain.Persona) domain.Persona { return p })
			assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		})
	}
}

func TestStore_InitCollection(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.InitCollection(ctx, "proj"))
			c, err := store.Collection(ctx, "proj")
			require.NoError(t, err)
			assert.Empty(t, c.Base)
			assert.Empty(t, c.Generated)

			require.NoError(t, store.AddBase(ctx, "proj", persona("b1", false)))
			require.NoError(t, store.InitCollection(ctx, "proj"))

			c, err = store.Collection(ctx, "proj")
			require.NoError(t, err)
			assert.Len(t, c.Base, 1, "re-initializing keeps existing personas")
		})
	}
}

func TestStore_AddBaseCreatesCollection(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.AddBase(ctx, "unregistered", persona("b1", false)))

			c, err := store.Collection(ctx, "unregistered")
			require.NoError(t, err)
			require.Len(t, c.Base, 1)
			assert.Equal(t, persona("b1", false), c.Base[0])
		})
	}
}

func TestStore_Ordering(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.AddBase(ctx, "proj", persona("b1", false)))
			require.NoError(t, store.AppendGenerated(ctx, "proj", persona("g1", true), persona("g2", true)))
			require.NoError(t, store.AddBase(ctx, "proj", persona("b2", false)))

			c, err := store.Collection(ctx, "proj")
			require.NoError(t, err)
			assert.Equal(t, []string{"b1", "b2"}, ids(c.Base))
			assert.Equal(t, []string{"g1", "g2"}, ids(c.Generated))
			assert.Equal(t, []string{"b1", "b2", "g1", "g2"}, ids(c.All()))
		})
	}
}

func TestStore_UpdateBase(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.AddBase(ctx, "proj", persona("b1", false)))
			require.NoError(t, store.AddBase(ctx, "proj", persona("b2", false)))
			require.NoError(t, store.AddBase(ctx, "proj", persona("b3", false)))
			require.NoError(t, store.AppendGenerated(ctx, "proj", persona("g1", true)))

			updated, err := store.UpdateBase(ctx, "proj", "b2", func(p domain.Persona) domain.Persona {
				p.Name = "Renamed"
				return p
			})
			require.NoError(t, err)
			assert.Equal(t, "Renamed", updated.Name)
			assert.Equal(t, "b2", updated.ID)

			c, err := store.Collection(ctx, "proj")
			require.NoError(t, err)
			assert.Equal(t, []string{"b1", "b2", "b3"}, ids(c.Base), "position is preserved")
			assert.Equal(t, "Renamed", c.Base[1].Name)

			_, err = store.UpdateBase(ctx, "proj", "g1", func(p domain.Persona) domain.Persona { return p })
			assert.ErrorIs(t, err, domain.ErrPersonaNotFound, "generated personas are not editable")

			_, err = store.UpdateBase(ctx, "proj", "missing", func(p domain.Persona) domain.Persona { return p })
			assert.ErrorIs(t, err, domain.ErrPersonaNotFound)
		})
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, store.AddBase(ctx, "proj", persona(fmt.Sprintf("b%d", i), false)))
				}(i)
			}
			wg.Wait()

			c, err := store.Collection(ctx, "proj")
			require.NoError(t, err)
			assert.Len(t, c.Base, 20)
		})
	}
}
