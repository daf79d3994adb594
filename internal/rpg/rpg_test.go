package rpg

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyofu-bot/kyofu/internal/storage"
)

func newService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	backend, err := storage.OpenFile(filepath.Join(t.TempDir(), "rpg.json"), nil)
	require.NoError(t, err)
	store := storage.New(backend, "k!", nil)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	ctx := context.Background()
	require.NoError(t, store.PutZone(ctx, storage.Zone{Name: StartPosition, Neighbours: []string{"🌲 Forêt de Lume"}}))
	require.NoError(t, store.PutZone(ctx, storage.Zone{Name: "🌲 Forêt de Lume", Neighbours: []string{StartPosition, "⛰️ Mont Kyo"}}))
	require.NoError(t, store.PutZone(ctx, storage.Zone{Name: "⛰️ Mont Kyo"}))
	require.NoError(t, store.PutPnj(ctx, storage.Pnj{Name: "Gaspard", Dialogs: []string{"Bienvenue.", "Bon vent."}}))
	require.NoError(t, store.PutItem(ctx, storage.Item{Name: "Potion de soin", Price: 4}))
	require.NoError(t, store.PutItem(ctx, storage.Item{Name: "Armure de plates", Price: 50}))

	return NewService(store, nil), store
}

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want Level
	}{
		{0, Level{Level: 0, Required: 16, Next: 16}},
		{15, Level{Level: 0, Required: 1, Next: 16}},
		{16, Level{Level: 1, Required: 48, Next: 64}},
		{100, Level{Level: 2, Required: 44, Next: 144}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestStartUsesDefaults(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	u, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)
	assert.Equal(t, NewUser("u1", "ana"), *u)
	assert.Equal(t, storage.HP{Level: 20, Max: 20}, u.HP)
	assert.Equal(t, 10, u.Coins)
	assert.Equal(t, "#54abeb", u.Profile.Color)

	_, err = s.Start(ctx, "u1", "ana")
	assert.ErrorIs(t, err, ErrAlreadyPlaying)

	_, err = s.Player(ctx, "u2")
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestHPAndCoins(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	_, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)

	_, err = store.UpdateRpgUser(ctx, "u1", func(u *storage.RpgUser) error {
		u.HP.Level = 5
		return nil
	})
	require.NoError(t, err)

	u, err := s.AddHP(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, 8, u.HP.Level)

	u, err = s.AddHP(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Equal(t, 20, u.HP.Level, "capped at max")

	_, err = s.AddCoins(ctx, "u1", -11)
	assert.ErrorIs(t, err, ErrNotEnoughCoins)
	u, err = s.AddCoins(ctx, "u1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Coins)
}

func TestHeal(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	_, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)

	_, err = s.Heal(ctx, "u1")
	assert.ErrorIs(t, err, ErrFullHealth)

	_, err = store.UpdateRpgUser(ctx, "u1", func(u *storage.RpgUser) error {
		u.HP.Level = 1
		return nil
	})
	require.NoError(t, err)

	u, err := s.Heal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, u.HP.Level)
	assert.Equal(t, 10-HealCost, u.Coins)
}

func TestXP(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	_, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)

	u, err := s.AddXP(ctx, "u1", 20)
	require.NoError(t, err)
	u, err = s.AddXP(ctx, "u1", -5)
	require.NoError(t, err)
	assert.Equal(t, 20, u.XP)

	u, err = s.ResetXP(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.XP)
}

func TestMove(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	_, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)

	_, err = s.Move(ctx, "u1", "nulle part")
	assert.ErrorIs(t, err, ErrUnknownZone)

	_, err = s.Move(ctx, "u1", "⛰️ mont kyo")
	assert.ErrorIs(t, err, ErrUnreachableZone)

	z, err := s.Move(ctx, "u1", "🌲 forêt de lume")
	require.NoError(t, err)
	assert.Equal(t, "🌲 Forêt de Lume", z.Name)

	pos, err := s.Position(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "🌲 Forêt de Lume", pos.Name)

	_, err = s.Move(ctx, "u2", StartPosition)
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestZoneMatchesWithoutEmoji(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	z, err := s.Zone(ctx, "Mont Kyo")
	require.NoError(t, err)
	assert.Equal(t, "⛰️ Mont Kyo", z.Name)

	_, err = s.Zone(ctx, "  ")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestDialog(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	p, line, err := s.Dialog(ctx, "gaspard", 2)
	require.NoError(t, err)
	assert.Equal(t, "Gaspard", p.Name)
	assert.Equal(t, "Bon vent.", line)

	_, _, err = s.Dialog(ctx, "gaspard", 3)
	assert.ErrorIs(t, err, ErrNoDialog)
	_, _, err = s.Dialog(ctx, "personne", 1)
	assert.ErrorIs(t, err, ErrUnknownPnj)
}

func TestBuy(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	_, err := s.Start(ctx, "u1", "ana")
	require.NoError(t, err)

	_, _, err = s.Buy(ctx, "u1", "armure")
	assert.ErrorIs(t, err, ErrNotEnoughCoins)

	_, _, err = s.Buy(ctx, "u1", "potion")
	require.NoError(t, err)
	it, u, err := s.Buy(ctx, "u1", "POTION")
	require.NoError(t, err)
	assert.Equal(t, "Potion de soin", it.Name)
	assert.Equal(t, 2, u.Coins)
	assert.Equal(t, []storage.InventoryItem{{Name: "Potion de soin", Quantity: 2}}, u.Items)

	_, _, err = s.Buy(ctx, "u1", "épée")
	assert.ErrorIs(t, err, ErrUnknownItem)
}
