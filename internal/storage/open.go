package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options selects and configures the backend behind a Store.
type Options struct {
	Driver        string // "file" or "mongo"
	Path          string
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// RedisAddr enables the guild profile cache when set.
	RedisAddr string
	RedisTTL  time.Duration

	DefaultPrefix string
}

// Open builds the backend described by opts and wraps it in a Store. An unreachable
// redis is logged and the store runs uncached.
func Open(ctx context.Context, opts Options, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var backend Backend
	switch opts.Driver {
	case "mongo":
		m, err := OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoTimeout)
		if err != nil {
			return nil, err
		}
		backend = m
	case "file", "":
		f, err := OpenFile(opts.Path, log.Named("datastore"))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.Path, err)
		}
		backend = f
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	if opts.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, guild cache disabled", zap.String("addr", opts.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			backend = NewCachedBackend(backend, rdb, opts.RedisTTL, log.Named("cache"), KindGuild)
		}
	}

	log.Info("store opened", zap.String("driver", opts.Driver))
	return New(backend, opts.DefaultPrefix, log), nil
}
