package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// errStopScan ends a Scan early once a match is found.
var errStopScan = errors.New("stop scan")

func (s *Store) RpgUser(ctx context.Context, userID string) (*RpgUser, error) {
	return get[RpgUser](ctx, s, KindRpgUser, userID)
}

// CreateRpgUser stores a new player or returns ErrExists.
func (s *Store) CreateRpgUser(ctx context.Context, u RpgUser) (*RpgUser, error) {
	if err := s.backend.Create(ctx, KindRpgUser, u.UserID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateRpgUser(ctx context.Context, userID string, mutate func(*RpgUser) error) (*RpgUser, error) {
	return update(ctx, s, KindRpgUser, userID, mutate)
}

func (s *Store) DeleteRpgUser(ctx context.Context, userID string) error {
	return s.backend.Delete(ctx, KindRpgUser, userID)
}

// Reference data is keyed by lowercased name so lookups are case-insensitive.
func refKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (s *Store) Zone(ctx context.Context, name string) (*Zone, error) {
	return get[Zone](ctx, s, KindZone, refKey(name))
}

func (s *Store) PutZone(ctx context.Context, z Zone) error {
	return s.backend.Put(ctx, KindZone, refKey(z.Name), &z)
}

// Zones returns every zone ordered by key.
func (s *Store) Zones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	err := s.backend.Scan(ctx, KindZone, func(_ string, decode Decoder) error {
		var z Zone
		if err := decode(&z); err != nil {
			return err
		}
		zones = append(zones, z)
		return nil
	})
	return zones, err
}

func (s *Store) Pnj(ctx context.Context, name string) (*Pnj, error) {
	return get[Pnj](ctx, s, KindPnj, refKey(name))
}

func (s *Store) PutPnj(ctx context.Context, p Pnj) error {
	return s.backend.Put(ctx, KindPnj, refKey(p.Name), &p)
}

func (s *Store) PutItem(ctx context.Context, it Item) error {
	return s.backend.Put(ctx, KindItem, refKey(it.Name), &it)
}

// Item returns the first item, in key order, whose name matches query. The query is a
// case-insensitive regular expression; an invalid one is matched literally.
func (s *Store) Item(ctx context.Context, query string) (*Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	var found *Item
	err = s.backend.Scan(ctx, KindItem, func(_ string, decode Decoder) error {
		var it Item
		if err := decode(&it); err != nil {
			return err
		}
		if re.MatchString(it.Name) {
			found = &it
			return errStopScan
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}
