package refdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

func TestDefaultIsValid(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, d.Zones)
	assert.NotEmpty(t, d.Pnjs)
	assert.NotEmpty(t, d.Items)
	assert.Len(t, d.Pnjs[0].Dialogs, 3)
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, rpg.StartPosition, d.Zones[0].Name)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[zones]]
name = "⚓ Port Isonvale"

[[items]]
name = "Caillou"
price = 0
`), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, d.Zones, 1)
	assert.Equal(t, "Caillou", d.Items[0].Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing start zone", `[[zones]]
name = "Ailleurs"`},
		{"unknown neighbour", `[[zones]]
name = "⚓ Port Isonvale"
neighbours = ["Atlantide"]`},
		{"pnj in unknown zone", `[[zones]]
name = "⚓ Port Isonvale"
[[pnjs]]
name = "Bob"
zone = "Atlantide"
dialogs = ["..."]`},
		{"duplicate item", `[[zones]]
name = "⚓ Port Isonvale"
[[items]]
name = "Pain"
[[items]]
name = "PAIN"`},
		{"bad toml", `[[zones]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.OpenFile(filepath.Join(t.TempDir(), "seed.json"), nil)
	require.NoError(t, err)
	store := storage.New(backend, "k!", nil)
	defer store.Close(ctx)

	d, err := Default()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, store, d, nil))
	require.NoError(t, Seed(ctx, store, d, nil), "seeding twice replaces records")

	zones, err := store.Zones(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, len(d.Zones))

	p, err := store.Pnj(ctx, "gaspard")
	require.NoError(t, err)
	assert.Equal(t, rpg.StartPosition, p.Zone)

	it, err := store.Item(ctx, "lanterne")
	require.NoError(t, err)
	assert.Equal(t, 20, it.Price)
}

// pnjRejectingBackend fails every pnj write.
type pnjRejectingBackend struct {
	storage.Backend
}

func (b pnjRejectingBackend) Put(ctx context.Context, kind storage.Kind, key string, doc any) error {
	if kind == storage.KindPnj {
		return errors.New("disk full")
	}
	return b.Backend.Put(ctx, kind, key, doc)
}

func TestSeedReportsFailingKind(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.OpenFile(filepath.Join(t.TempDir(), "seed.json"), nil)
	require.NoError(t, err)
	store := storage.New(pnjRejectingBackend{backend}, "k!", nil)
	defer store.Close(ctx)

	d, err := Default()
	require.NoError(t, err)

	err = Seed(ctx, store, d, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed pnjs")
	assert.Contains(t, err.Error(), "disk full")
}
