package storage

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/datastore"
)

// FileBackend keeps every record in one JSON file through datastore, under "kind:key".
type FileBackend struct {
	ds *datastore.DataStore
	mu sync.Mutex // makes Create's existence check and write atomic
}

func NewFileBackend(ds *datastore.DataStore) *FileBackend {
	return &FileBackend{ds: ds}
}

// OpenFile opens (or creates) the JSON file at path.
func OpenFile(path string, log *zap.Logger) (*FileBackend, error) {
	cfg := datastore.DefaultConfig(path)
	cfg.Logger = log
	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewFileBackend(ds), nil
}

func fileKey(kind Kind, key string) string {
	return string(kind) + ":" + key
}

func (f *FileBackend) Get(_ context.Context, kind Kind, key string, out any) error {
	ok, err := f.ds.Get(fileKey(kind, key), out)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (f *FileBackend) Create(_ context.Context, kind Kind, key string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := fileKey(kind, key)
	if f.ds.Has(k) {
		return ErrExists
	}
	return f.ds.Put(k, doc)
}

func (f *FileBackend) Put(_ context.Context, kind Kind, key string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ds.Put(fileKey(kind, key), doc)
}

func (f *FileBackend) Delete(_ context.Context, kind Kind, key string) error {
	return f.ds.Delete(fileKey(kind, key))
}

func (f *FileBackend) Scan(ctx context.Context, kind Kind, fn func(key string, decode Decoder) error) error {
	prefix := string(kind) + ":"
	for _, k := range f.ds.Keys(prefix) {
		if err := ctx.Err(); err != nil {
			return err
		}
		full := k
		decode := func(out any) error {
			ok, err := f.ds.Get(full, out)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotFound
			}
			return nil
		}
		if err := fn(strings.TrimPrefix(k, prefix), decode); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileBackend) Close(context.Context) error {
	return f.ds.Close()
}
