package storage

import (
	"context"
	"errors"
	"fmt"
)

// PairKey is the canonical key of an unordered pair of users.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

func relationKind(k RelationKind) (Kind, error) {
	switch k {
	case Hate:
		return KindHate, nil
	case Love:
		return KindLove, nil
	}
	return "", fmt.Errorf("unknown relation kind %q", k)
}

// Relationship returns the level between a and b; a pair never recorded is at level 0.
func (s *Store) Relationship(ctx context.Context, k RelationKind, a, b string) (RelationshipLevel, error) {
	kind, err := relationKind(k)
	if err != nil {
		return RelationshipLevel{}, err
	}
	key := PairKey(a, b)
	rec, err := get[RelationshipLevel](ctx, s, kind, key)
	if errors.Is(err, ErrNotFound) {
		return RelationshipLevel{Users: key}, nil
	}
	if err != nil {
		return RelationshipLevel{}, err
	}
	return *rec, nil
}

// AdjustRelationship adds delta to the level of the pair, never going below zero.
func (s *Store) AdjustRelationship(ctx context.Context, k RelationKind, a, b string, delta int) (*RelationshipLevel, error) {
	kind, err := relationKind(k)
	if err != nil {
		return nil, err
	}
	key := PairKey(a, b)
	return upsert(ctx, s, kind, key,
		func() RelationshipLevel { return RelationshipLevel{Users: key} },
		func(r *RelationshipLevel) error {
			r.Level = max(0, r.Level+delta)
			return nil
		})
}
