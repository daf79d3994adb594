// Package refdata loads the RPG reference data (zones, pnjs and items) from TOML and
// seeds it into the profile store.
package refdata

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/util"
)

//go:embed refdata.toml
var defaultData []byte

type Data struct {
	Zones []storage.Zone `toml:"zones"`
	Pnjs  []storage.Pnj  `toml:"pnjs"`
	Items []storage.Item `toml:"items"`
}

// Default returns the reference data shipped with the bot.
func Default() (*Data, error) {
	return Parse(defaultData)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := toml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode refdata: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads path, falling back to the embedded data when the file does not exist.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("read refdata: %w", err)
	}
	return Parse(raw)
}

// Validate checks that names are unique and that every zone a record points to exists,
// including the starting position of new players.
func (d *Data) Validate() error {
	zones := make(map[string]bool, len(d.Zones))
	for _, z := range d.Zones {
		k := strings.ToLower(z.Name)
		if z.Name == "" {
			return errors.New("refdata: zone without name")
		}
		if zones[k] {
			return fmt.Errorf("refdata: duplicate zone %q", z.Name)
		}
		zones[k] = true
	}
	if !zones[strings.ToLower(rpg.StartPosition)] {
		return fmt.Errorf("refdata: start zone %q is missing", rpg.StartPosition)
	}

	var errs []error
	for _, z := range d.Zones {
		for _, n := range z.Neighbours {
			if !zones[strings.ToLower(n)] {
				errs = append(errs, fmt.Errorf("refdata: zone %q has unknown neighbour %q", z.Name, n))
			}
		}
	}

	pnjs := make(map[string]bool, len(d.Pnjs))
	for _, p := range d.Pnjs {
		k := strings.ToLower(p.Name)
		if pnjs[k] {
			errs = append(errs, fmt.Errorf("refdata: duplicate pnj %q", p.Name))
		}
		pnjs[k] = true
		if p.Zone != "" && !zones[strings.ToLower(p.Zone)] {
			errs = append(errs, fmt.Errorf("refdata: pnj %q stands in unknown zone %q", p.Name, p.Zone))
		}
		if len(p.Dialogs) == 0 {
			errs = append(errs, fmt.Errorf("refdata: pnj %q has no dialog", p.Name))
		}
	}

	items := make(map[string]bool, len(d.Items))
	for _, it := range d.Items {
		k := strings.ToLower(it.Name)
		if items[k] {
			errs = append(errs, fmt.Errorf("refdata: duplicate item %q", it.Name))
		}
		items[k] = true
		if it.Price < 0 {
			errs = append(errs, fmt.Errorf("refdata: item %q has a negative price", it.Name))
		}
	}
	return errors.Join(errs...)
}

const seedWorkers = 4

// Seed writes every record into the store, replacing previous versions.
func Seed(ctx context.Context, store *storage.Store, d *Data, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	// The three kinds are independent; the first failure cancels the others.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := util.Parallel(gctx, d.Zones, seedWorkers, func(ctx context.Context, z storage.Zone) error {
			return store.PutZone(ctx, z)
		}); err != nil {
			return fmt.Errorf("seed zones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := util.Parallel(gctx, d.Pnjs, seedWorkers, func(ctx context.Context, p storage.Pnj) error {
			return store.PutPnj(ctx, p)
		}); err != nil {
			return fmt.Errorf("seed pnjs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := util.Parallel(gctx, d.Items, seedWorkers, func(ctx context.Context, it storage.Item) error {
			return store.PutItem(ctx, it)
		}); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("reference data seeded",
		zap.Int("zones", len(d.Zones)),
		zap.Int("pnjs", len(d.Pnjs)),
		zap.Int("items", len(d.Items)))
	return nil
}
