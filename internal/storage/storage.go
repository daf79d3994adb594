// Package storage is the Profile Store: typed access to guild, member, todo,
// relationship and RPG records over a pluggable document Backend.
package storage

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Store updates are read-modify-write. Within one process, writes to the same record
// are serialized; across processes the last write wins.
type Store struct {
	backend       Backend
	defaultPrefix string
	locks         keyLocks
	log           *zap.Logger
}

func New(backend Backend, defaultPrefix string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend:       backend,
		defaultPrefix: defaultPrefix,
		locks:         keyLocks{held: make(map[string]*keyLock)},
		log:           log,
	}
}

func (s *Store) Backend() Backend { return s.backend }

func (s *Store) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}

// get decodes a record of kind, returning ErrNotFound when absent.
func get[T any](ctx context.Context, s *Store, kind Kind, key string) (*T, error) {
	var rec T
	if err := s.backend.Get(ctx, kind, key, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// update loads a record, applies mutate and writes it back under the record lock.
func update[T any](ctx context.Context, s *Store, kind Kind, key string, mutate func(*T) error) (*T, error) {
	unlock := s.locks.lock(string(kind) + ":" + key)
	defer unlock()

	rec, err := get[T](ctx, s, kind, key)
	if err != nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	if err := s.backend.Put(ctx, kind, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// upsert is update that starts from init() when the record does not exist yet.
func upsert[T any](ctx context.Context, s *Store, kind Kind, key string, init func() T, mutate func(*T) error) (*T, error) {
	unlock := s.locks.lock(string(kind) + ":" + key)
	defer unlock()

	rec, err := get[T](ctx, s, kind, key)
	if errors.Is(err, ErrNotFound) {
		fresh := init()
		rec, err = &fresh, nil
	}
	if err != nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	if err := s.backend.Put(ctx, kind, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// keyLocks hands out one mutex per record key and forgets it once nobody holds it.
type keyLocks struct {
	mu   sync.Mutex
	held map[string]*keyLock
}

func (k *keyLocks) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.held[key]
	if !ok {
		l = &keyLock{}
		k.held[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.held, key)
		}
		k.mu.Unlock()
	}
}
