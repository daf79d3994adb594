package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedBackend is a read-through redis cache in front of another backend. Only the
// kinds it was built with are cached; writes go to the inner backend first and then
// evict the cached copy. A failing redis never fails a request.
//
// Every eviction bumps a per-key generation counter. A read that missed the cache only
// fills it when the generation is unchanged since before it read the inner backend, so
// a read racing a write never caches the value the write replaced.
type CachedBackend struct {
	Backend
	rdb    *redis.Client
	ttl    time.Duration
	kinds  map[Kind]struct{}
	prefix string
	log    *zap.Logger
}

func NewCachedBackend(inner Backend, rdb *redis.Client, ttl time.Duration, log *zap.Logger, kinds ...Kind) *CachedBackend {
	if log == nil {
		log = zap.NewNop()
	}
	set := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return &CachedBackend{
		Backend: inner,
		rdb:     rdb,
		ttl:     ttl,
		kinds:   set,
		prefix:  "kyofu:",
		log:     log,
	}
}

func (c *CachedBackend) cacheKey(kind Kind, key string) string {
	return c.prefix + string(kind) + ":" + key
}

func (c *CachedBackend) genKey(kind Kind, key string) string {
	return c.prefix + "gen:" + string(kind) + ":" + key
}

func (c *CachedBackend) cached(kind Kind) bool {
	_, ok := c.kinds[kind]
	return ok
}

func (c *CachedBackend) Get(ctx context.Context, kind Kind, key string, out any) error {
	if !c.cached(kind) {
		return c.Backend.Get(ctx, kind, key, out)
	}

	ck := c.cacheKey(kind, key)
	raw, err := c.rdb.Get(ctx, ck).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, out); jerr == nil {
			return nil
		}
		c.log.Warn("dropping undecodable cache entry", zap.String("key", ck))
		c.evict(ctx, kind, key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("cache read failed", zap.String("key", ck), zap.Error(err))
	}

	gen, genErr := c.generation(ctx, kind, key)
	if err := c.Backend.Get(ctx, kind, key, out); err != nil {
		return err
	}
	if genErr == nil {
		c.fill(ctx, kind, key, gen, out)
	}
	return nil
}

func (c *CachedBackend) generation(ctx context.Context, kind Kind, key string) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey(kind, key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

var errStaleFill = errors.New("storage: record changed during cache fill")

// fill caches doc unless an eviction happened since gen was read.
func (c *CachedBackend) fill(ctx context.Context, kind Kind, key string, gen int64, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	ck, gk := c.cacheKey(kind, key), c.genKey(kind, key)

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, ck, raw, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("cache fill skipped, record changed", zap.String("key", ck))
	default:
		c.log.Warn("cache write failed", zap.String("key", ck), zap.Error(err))
	}
}

func (c *CachedBackend) Create(ctx context.Context, kind Kind, key string, doc any) error {
	if err := c.Backend.Create(ctx, kind, key, doc); err != nil {
		return err
	}
	c.evict(ctx, kind, key)
	return nil
}

func (c *CachedBackend) Put(ctx context.Context, kind Kind, key string, doc any) error {
	if err := c.Backend.Put(ctx, kind, key, doc); err != nil {
		return err
	}
	c.evict(ctx, kind, key)
	return nil
}

func (c *CachedBackend) Delete(ctx context.Context, kind Kind, key string) error {
	if err := c.Backend.Delete(ctx, kind, key); err != nil {
		return err
	}
	c.evict(ctx, kind, key)
	return nil
}

func (c *CachedBackend) Close(ctx context.Context) error {
	err := c.Backend.Close(ctx)
	if cerr := c.rdb.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *CachedBackend) evict(ctx context.Context, kind Kind, key string) {
	if !c.cached(kind) {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, c.cacheKey(kind, key))
		p.Incr(ctx, c.genKey(kind, key))
		return nil
	})
	if err != nil {
		c.log.Warn("cache evict failed", zap.String("kind", string(kind)), zap.String("key", key), zap.Error(err))
	}
}
