package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// run executes the CLI against the JSON file at path and returns its output.
func run(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	open := func(context.Context, bool) (*storage.Store, string, error) {
		b, err := storage.OpenFile(path, nil)
		if err != nil {
			return nil, "", err
		}
		return storage.New(b, "k!", nil), "", nil
	}

	var out bytes.Buffer
	root := newRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kyofu.json")

	out, err := run(t, path, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 5 zones, 3 pnjs, 4 items\n", out)

	out, err = run(t, path, "dump", "items")
	require.NoError(t, err)
	assert.Contains(t, out, "--- # items/potion de soin\n")
	assert.Contains(t, out, "price: 5")

	_, err = run(t, path, "dump", "widgets")
	assert.ErrorContains(t, err, `unknown kind "widgets"`)
}

func TestGuildShowAndDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kyofu.json")

	b, err := storage.OpenFile(path, nil)
	require.NoError(t, err)
	s := storage.New(b, "k!", nil)
	_, err = s.EnsureGuild(ctx, "g1", "Isonvale")
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	out, err := run(t, path, "guild", "show", "g1")
	require.NoError(t, err)
	assert.Contains(t, out, "guildname: Isonvale")
	assert.Contains(t, out, "k!")

	out, err = run(t, path, "guild", "delete", "g1")
	require.NoError(t, err)
	assert.Equal(t, "guild g1 deleted\n", out)

	_, err = run(t, path, "guild", "show", "g1")
	assert.ErrorContains(t, err, "has no profile")
}

func TestResetXP(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kyofu.json")

	b, err := storage.OpenFile(path, nil)
	require.NoError(t, err)
	s := storage.New(b, "k!", nil)
	svc := rpg.NewService(s, nil)
	_, err = svc.Start(ctx, "5", "lina")
	require.NoError(t, err)
	_, err = svc.AddXP(ctx, "5", 40)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	out, err := run(t, path, "reset-xp", "5")
	require.NoError(t, err)
	assert.Equal(t, "xp of lina reset\n", out)

	_, err = run(t, path, "reset-xp", "404")
	assert.Error(t, err)
}
