package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/metrics"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type countingVenues struct {
	venues    []*models.Venue
	listCalls int
	err       error
}

func (c *countingVenues) CreateVenue(_ context.Context, v *models.Venue) (*models.Venue, error) {
	c.venues = append(c.venues, v)
	return v, nil
}

func (c *countingVenues) GetVenueByID(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	for _, v := range c.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (c *countingVenues) ListVenues(context.Context) ([]*models.Venue, error) {
	c.listCalls++
	if c.err != nil {
		return nil, c.err
	}
	return append([]*models.Venue{}, c.venues...), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVenues_ListIsCachedAndInvalidatedOnCreate(t *testing.T) {
	ctx := context.Background()
	repo := &countingVenues{venues: []*models.Venue{{ID: uuid.New(), Name: "Hall", Media: []string{}}}}
	cached := NewVenues(repo, newMemCache(), time.Minute, discardLogger(), metrics.New())

	first, err := cached.ListVenues(ctx)
	require.NoError(t, err)
	second, err := cached.ListVenues(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, err = cached.CreateVenue(ctx, &models.Venue{ID: uuid.New(), Name: "Annex"})
	require.NoError(t, err)

	third, err := cached.ListVenues(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Len(t, third, 2)
}

func TestVenues_StoreErrorsAreNotCached(t *testing.T) {
	repo := &countingVenues{err: errors.New("boom")}
	cached := NewVenues(repo, newMemCache(), time.Minute, discardLogger(), nil)

	_, err := cached.ListVenues(context.Background())
	assert.Error(t, err)
	_, err = cached.ListVenues(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestVenues_UnreachableRedisFallsBackToStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	repo := &countingVenues{venues: []*models.Venue{{ID: uuid.New(), Name: "Hall"}}}
	cached := NewVenues(repo, NewRedisCache(client, "rendez"), time.Minute, discardLogger(), nil)

	venues, err := cached.ListVenues(context.Background())
	require.NoError(t, err)
	assert.Len(t, venues, 1)
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	rc := NewRedisCache(nil, "rendez")
	assert.Equal(t, "rendez:venues:all", rc.key(venuesAllKey))
	assert.Equal(t, "plain", NewRedisCache(nil, "").key("plain"))
}
