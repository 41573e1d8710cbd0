//go:build !integration

package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/model"
	red "telegram-file-relay/internal/infra/redis"
)

// --- Mocks for cache decorator tests ---

// mockInnerFileRepo mocks the database repository that the decorator wraps.
type mockInnerFileRepo struct {
	InsertFunc         func(ctx context.Context, rec *model.FileRecord) error
	FindByIDFunc       func(ctx context.Context, id string) (*model.FileRecord, error)
	ListByOwnerFunc    func(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error)
	DeleteByIDFunc     func(ctx context.Context, id string) error
	DistinctOwnersFunc func(ctx context.Context) ([]int64, error)

	findCalls int
	listCalls int
}

func (m *mockInnerFileRepo) Insert(ctx context.Context, rec *model.FileRecord) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, rec)
	}
	return nil
}

func (m *mockInnerFileRepo) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	m.findCalls++
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInnerFileRepo) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error) {
	m.listCalls++
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit)
	}
	return nil, nil
}

func (m *mockInnerFileRepo) DeleteByID(ctx context.Context, id string) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *mockInnerFileRepo) DistinctOwners(ctx context.Context) ([]int64, error) {
	if m.DistinctOwnersFunc != nil {
		return m.DistinctOwnersFunc(ctx)
	}
	return nil, nil
}

// mockRedisClient is an in-memory stand-in for our Redis wrapper.
type mockRedisClient struct {
	mu    sync.Mutex
	store map[string]string
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func newMockRedis() *mockRedisClient {
	return &mockRedisClient{store: make(map[string]string)}
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case string:
		m.store[key] = v
	case []byte:
		m.store[key] = string(v)
	}
	return nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }
