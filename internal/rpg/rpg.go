// Package rpg holds the game rules of the Isonvale RPG on top of the profile store.
package rpg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/storage"
)

const (
	StartXP       = 0
	StartHP       = 20
	StartCoins    = 10
	StartColor    = "#54abeb"
	StartPosition = "⚓ Port Isonvale"

	// HealCost is the price in coins of a full heal.
	HealCost = 5
)

var (
	ErrNotPlaying      = errors.New("player has no rpg profile")
	ErrAlreadyPlaying  = errors.New("player already has an rpg profile")
	ErrUnknownZone     = errors.New("unknown zone")
	ErrUnreachableZone = errors.New("zone is not adjacent")
	ErrUnknownPnj      = errors.New("unknown pnj")
	ErrNoDialog        = errors.New("no such dialog")
	ErrUnknownItem     = errors.New("unknown item")
	ErrNotEnoughCoins  = errors.New("not enough coins")
	ErrFullHealth      = errors.New("already at full health")
)

// Level describes a player's progression for a given amount of xp.
type Level struct {
	Level    int
	Required int // xp still missing for the next level
	Next     int // total xp of the next level
}

// CalculateLevel returns floor(0.25·√xp) and the xp thresholds around it.
func CalculateLevel(xp int) Level {
	lvl := int(math.Floor(0.25 * math.Sqrt(float64(max(xp, 0)))))
	next := (lvl + 1) * 4 * (lvl + 1) * 4
	return Level{Level: lvl, Required: next - xp, Next: next}
}

// NewUser returns a player with the starting stats.
func NewUser(userID, userName string) storage.RpgUser {
	return storage.RpgUser{
		UserID:   userID,
		UserName: userName,
		XP:       StartXP,
		HP:       storage.HP{Level: StartHP, Max: StartHP},
		Coins:    StartCoins,
		Items:    []storage.InventoryItem{},
		Profile:  storage.RpgProfile{Color: StartColor},
		Position: StartPosition,
		Quests:   []storage.QuestProgress{},
	}
}

type Service struct {
	store *storage.Store
	log   *zap.Logger
}

func NewService(store *storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Start creates the player's profile.
func (s *Service) Start(ctx context.Context, userID, userName string) (*storage.RpgUser, error) {
	u, err := s.store.CreateRpgUser(ctx, NewUser(userID, userName))
	if errors.Is(err, storage.ErrExists) {
		return nil, ErrAlreadyPlaying
	}
	if err != nil {
		return nil, fmt.Errorf("create rpg user: %w", err)
	}
	s.log.Info("rpg player created", zap.String("user", userID))
	return u, nil
}

func (s *Service) Player(ctx context.Context, userID string) (*storage.RpgUser, error) {
	u, err := s.store.RpgUser(ctx, userID)
	return u, notPlaying(err)
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*storage.RpgUser) error) (*storage.RpgUser, error) {
	u, err := s.store.UpdateRpgUser(ctx, userID, fn)
	return u, notPlaying(err)
}

func notPlaying(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotPlaying
	}
	return err
}

// AddHP heals by hp points without going past the maximum.
func (s *Service) AddHP(ctx context.Context, userID string, hp int) (*storage.RpgUser, error) {
	return s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		u.HP.Level = min(u.HP.Level+max(hp, 0), u.HP.Max)
		return nil
	})
}

// AddXP grants xp. Negative amounts are ignored: xp only goes down through ResetXP.
func (s *Service) AddXP(ctx context.Context, userID string, xp int) (*storage.RpgUser, error) {
	return s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		u.XP += max(xp, 0)
		return nil
	})
}

func (s *Service) ResetXP(ctx context.Context, userID string) (*storage.RpgUser, error) {
	return s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		u.XP = 0
		return nil
	})
}

// AddCoins changes the balance by delta and refuses to go negative.
func (s *Service) AddCoins(ctx context.Context, userID string, delta int) (*storage.RpgUser, error) {
	return s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		if u.Coins+delta < 0 {
			return ErrNotEnoughCoins
		}
		u.Coins += delta
		return nil
	})
}

// Heal restores the player to full health for HealCost coins.
func (s *Service) Heal(ctx context.Context, userID string) (*storage.RpgUser, error) {
	return s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		if u.HP.Level >= u.HP.Max {
			return ErrFullHealth
		}
		if u.Coins < HealCost {
			return ErrNotEnoughCoins
		}
		u.Coins -= HealCost
		u.HP.Level = u.HP.Max
		return nil
	})
}

// Position returns the zone the player stands in.
func (s *Service) Position(ctx context.Context, userID string) (*storage.Zone, error) {
	u, err := s.Player(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Zone(ctx, u.Position)
}

// Zone looks a zone up by its full name, then by a case-insensitive part of it so players
// can leave the emoji out.
func (s *Service) Zone(ctx context.Context, name string) (*storage.Zone, error) {
	z, err := s.store.Zone(ctx, name)
	if !errors.Is(err, storage.ErrNotFound) {
		return z, err
	}

	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, ErrUnknownZone
	}
	zones, err := s.store.Zones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if strings.Contains(strings.ToLower(zones[i].Name), q) {
			return &zones[i], nil
		}
	}
	return nil, ErrUnknownZone
}

// Move sends the player to the named zone. When the current zone lists neighbours the
// destination must be one of them.
func (s *Service) Move(ctx context.Context, userID, zoneName string) (*storage.Zone, error) {
	dest, err := s.Zone(ctx, zoneName)
	if err != nil {
		return nil, err
	}

	_, err = s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		if strings.EqualFold(u.Position, dest.Name) {
			return nil
		}
		cur, err := s.store.Zone(ctx, u.Position)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if cur != nil && len(cur.Neighbours) > 0 && !slices.ContainsFunc(cur.Neighbours, func(n string) bool {
			return strings.EqualFold(n, dest.Name)
		}) {
			return ErrUnreachableZone
		}
		u.Position = dest.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dest, nil
}

// Dialog returns the pnj and its n-th dialog box, counted from 1.
func (s *Service) Dialog(ctx context.Context, pnjName string, n int) (*storage.Pnj, string, error) {
	p, err := s.store.Pnj(ctx, pnjName)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrUnknownPnj
	}
	if err != nil {
		return nil, "", err
	}
	if n < 1 || n > len(p.Dialogs) {
		return p, "", ErrNoDialog
	}
	return p, p.Dialogs[n-1], nil
}

func (s *Service) Item(ctx context.Context, query string) (*storage.Item, error) {
	it, err := s.store.Item(ctx, query)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnknownItem
	}
	return it, err
}

// Buy spends the item price and adds one unit of it to the inventory.
func (s *Service) Buy(ctx context.Context, userID, itemQuery string) (*storage.Item, *storage.RpgUser, error) {
	it, err := s.Item(ctx, itemQuery)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.mutate(ctx, userID, func(u *storage.RpgUser) error {
		if u.Coins < it.Price {
			return ErrNotEnoughCoins
		}
		u.Coins -= it.Price
		for i := range u.Items {
			if u.Items[i].Name == it.Name {
				u.Items[i].Quantity++
				return nil
			}
		}
		u.Items = append(u.Items, storage.InventoryItem{Name: it.Name, Quantity: 1})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return it, u, nil
}
