package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/domain/ports/repository"
	"telegram-file-relay/internal/infra/metrics"
	red "telegram-file-relay/internal/infra/redis"
)

var _ repository.FileRecordRepository = (*fileRepoCacheDecorator)(nil)

// fileRepoCacheDecorator caches deep-link lookups and per-owner listings in
// Redis. Writes invalidate both keys so the menu always shows a consistent
// view right after an upload or delete.
type fileRepoCacheDecorator struct {
	inner repository.FileRecordRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewFileRepoCacheDecorator(inner repository.FileRecordRepository, cache red.RedisClient, ttl time.Duration) repository.FileRecordRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &fileRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func fileIDKey(id string) string      { return fmt.Sprintf("file:id:%s", id) }
func ownerListKey(owner int64) string { return fmt.Sprintf("file:owner:%d", owner) }

func (d *fileRepoCacheDecorator) Insert(ctx context.Context, rec *model.FileRecord) error {
	if err := d.inner.Insert(ctx, rec); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, ownerListKey(rec.OwnerID))
	return nil
}

func (d *fileRepoCacheDecorator) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	key := fileIDKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var rec model.FileRecord
		if json.Unmarshal([]byte(val), &rec) == nil {
			metrics.IncCacheRequest("file", "hit")
			return &rec, nil
		}
	}

	// Cache misses and cache failures alike fall through to the database;
	// Redis being down must not take lookups with it.
	metrics.IncCacheRequest("file", "miss")
	rec, err := d.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(rec); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return rec, nil
}

func (d *fileRepoCacheDecorator) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error) {
	key := ownerListKey(ownerID)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var recs []*model.FileRecord
		if json.Unmarshal([]byte(val), &recs) == nil {
			metrics.IncCacheRequest("file_list", "hit")
			if limit > 0 && len(recs) > limit {
				recs = recs[:limit]
			}
			return recs, nil
		}
	}

	metrics.IncCacheRequest("file_list", "miss")
	recs, err := d.inner.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(recs); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return recs, nil
}

func (d *fileRepoCacheDecorator) DeleteByID(ctx context.Context, id string) error {
	// Resolve the owner first so the listing key can be invalidated too.
	// A record that is already gone leaves nothing to invalidate but the id key.
	var ownerID int64
	if rec, err := d.FindByID(ctx, id); err == nil {
		ownerID = rec.OwnerID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if err := d.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, fileIDKey(id))
	if ownerID != 0 {
		_ = d.cache.Del(ctx, ownerListKey(ownerID))
	}
	return nil
}

func (d *fileRepoCacheDecorator) DistinctOwners(ctx context.Context) ([]int64, error) {
	// Broadcast is rare and wants fresh data; no caching here.
	return d.inner.DistinctOwners(ctx)
}
