// Package content loads every YAML content directory into a single Catalog.
package content

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/gauntlet/internal/config"
	"github.com/cory-johannsen/gauntlet/internal/game/condition"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/ruleset"
	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
)

// Catalog holds all loaded content. Its registries are read-only after Load.
type Catalog struct {
	Classes    *ruleset.Registry
	Items      *inventory.Registry
	Conditions *condition.Registry
	Boards     map[string]*warrant.Board
}

// NewCatalog returns a catalog with the built-in classes and empty registries.
func NewCatalog() *Catalog {
	return &Catalog{
		Classes:    ruleset.NewRegistry(),
		Items:      inventory.NewRegistry(),
		Conditions: condition.NewRegistry(),
		Boards:     map[string]*warrant.Board{},
	}
}

// Board returns the warrant board with id.
func (c *Catalog) Board(id string) (*warrant.Board, bool) {
	b, ok := c.Boards[id]
	return b, ok
}

// BoardIDs returns every board ID, sorted.
func (c *Catalog) BoardIDs() []string {
	out := make([]string, 0, len(c.Boards))
	for id := range c.Boards {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Load reads every configured content directory in parallel and assembles a
// Catalog. Empty directory settings are skipped.
//
// Postcondition: Returns a fully populated Catalog, or the first load or
// registration error wrapped with the directory it came from.
func Load(ctx context.Context, cfg config.ContentConfig, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	var (
		classes    []*ruleset.Class
		items      []*inventory.ItemDef
		affixes    []*inventory.AffixDef
		effigies   []*inventory.EffigyDef
		boards     []*warrant.Board
		conditions *condition.Registry
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(dir string, fn func() error) {
		if dir == "" {
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	load(cfg.Classes, func() (err error) { classes, err = ruleset.LoadClasses(cfg.Classes); return })
	load(cfg.Items, func() (err error) { items, err = inventory.LoadItems(cfg.Items); return })
	load(cfg.Affixes, func() (err error) { affixes, err = inventory.LoadAffixes(cfg.Affixes); return })
	load(cfg.Effigies, func() (err error) { effigies, err = inventory.LoadEffigies(cfg.Effigies); return })
	load(cfg.Warrants, func() (err error) { boards, err = warrant.LoadBoards(cfg.Warrants); return })
	load(cfg.Conditions, func() (err error) { conditions, err = condition.LoadDirectory(cfg.Conditions); return })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	cat := NewCatalog()
	for _, c := range classes {
		cat.Classes.Register(c)
	}
	for _, d := range items {
		if err := cat.Items.RegisterItem(d); err != nil {
			return nil, fmt.Errorf("registering item from %q: %w", cfg.Items, err)
		}
	}
	for _, a := range affixes {
		if err := cat.Items.RegisterAffix(a); err != nil {
			return nil, fmt.Errorf("registering affix from %q: %w", cfg.Affixes, err)
		}
	}
	for _, e := range effigies {
		if err := cat.Items.RegisterEffigy(e); err != nil {
			return nil, fmt.Errorf("registering effigy from %q: %w", cfg.Effigies, err)
		}
	}
	for _, b := range boards {
		if _, dup := cat.Boards[b.ID]; dup {
			return nil, fmt.Errorf("registering warrant board from %q: duplicate board %q", cfg.Warrants, b.ID)
		}
		cat.Boards[b.ID] = b
	}
	if conditions != nil {
		cat.Conditions = conditions
	}

	logger.Info("content loaded",
		zap.Int("classes", len(classes)),
		zap.Int("items", len(items)),
		zap.Int("affixes", len(affixes)),
		zap.Int("effigies", len(effigies)),
		zap.Int("boards", len(boards)),
		zap.Int("conditions", len(cat.Conditions.All())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}
