// Package main provides the charsheet binary: it builds a character from
// configuration and content, equips a loadout, applies warrant nodes and
// conditions, runs an optional list of hits, and logs the resulting sheet.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gauntlet/internal/config"
	"github.com/cory-johannsen/gauntlet/internal/content"
	"github.com/cory-johannsen/gauntlet/internal/game/character"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/session"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
	"github.com/cory-johannsen/gauntlet/internal/observability"
	"github.com/cory-johannsen/gauntlet/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	classID := flag.String("class", "marauder", "class ID")
	name := flag.String("name", "Wanderer", "character name")
	xp := flag.Int("xp", 0, "experience awarded before the sheet is built")
	loadoutPath := flag.String("loadout", "", "path to a loadout YAML file")
	boardID := flag.String("warrant", "", "warrant board ID")
	points := flag.Int("points", 0, "warrant points available")
	unlock := flag.String("unlock", "", "comma-separated warrant node IDs to unlock in order")
	conds := flag.String("conditions", "", "comma-separated id[:stacks[:turns]] conditions")
	hitList := flag.String("hits", "", "comma-separated amount:type hits to take")
	loadID := flag.String("load", "", "load the character with this ID from the database")
	save := flag.Bool("save", false, "save the character to the database")
	asJSON := flag.Bool("json", false, "print the snapshot as JSON to stdout")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat, err := content.Load(ctx, cfg.Content, observability.Component(logger, "content"))
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	hits, err := parseHits(*hitList)
	if err != nil {
		logger.Fatal("parsing hits", zap.Error(err))
	}
	conditions, err := parseConditions(*conds)
	if err != nil {
		logger.Fatal("parsing conditions", zap.Error(err))
	}

	var repo *postgres.CharacterRepository
	if *loadID != "" || *save {
		pool, err := postgres.NewPool(ctx, cfg.Database, observability.Component(logger, "postgres"))
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = postgres.NewCharacterRepository(pool.DB())
	}

	sessLogger := observability.Component(logger, "session")
	opts := session.Options{Logger: sessLogger, Conditions: cat.Conditions, FeedSize: cfg.Session.FeedSize}

	var sess *session.Session
	if *loadID != "" {
		id, err := uuid.Parse(*loadID)
		if err != nil {
			logger.Fatal("parsing character ID", zap.String("id", *loadID), zap.Error(err))
		}
		snap, err := repo.Load(ctx, id)
		if err != nil {
			logger.Fatal("loading character", zap.String("id", *loadID), zap.Error(err))
		}
		sess, err = session.Restore(snap, cat, cfg.Session.StashSlots, opts)
		if err != nil {
			logger.Fatal("restoring session", zap.Error(err))
		}
	} else {
		sess, err = buildSession(cat, cfg, *classID, *name, *loadoutPath, *boardID, *points, opts)
		if err != nil {
			logger.Fatal("building character", zap.Error(err))
		}
	}

	mgr := session.NewManager()
	if err := mgr.Add(sess); err != nil {
		logger.Fatal("registering session", zap.Error(err))
	}

	if *xp > 0 {
		sess.CompleteEncounter(*xp)
	}
	for _, id := range splitList(*unlock) {
		if !sess.UnlockWarrantNode(id) {
			logger.Warn("warrant node not unlocked", zap.String("node", id))
		}
	}
	for _, c := range conditions {
		if err := sess.ApplyCondition(c.ID, c.Stacks, c.Turns); err != nil {
			logger.Warn("condition not applied", zap.String("condition", c.ID), zap.Error(err))
		}
	}
	for _, h := range hits {
		res := sess.TakeHit(h.Amount, h.Type)
		logger.Info("hit",
			zap.String("type", h.Type.String()),
			zap.Float64("raw", h.Amount),
			zap.Float64("mitigated", res.Mitigated),
			zap.Float64("guard_spent", res.GuardSpent),
			zap.Float64("shield_spent", res.ShieldSpent),
			zap.Int("health_lost", res.HealthLost),
			zap.Bool("defeated", res.Defeated),
		)
		if res.Defeated {
			break
		}
	}

	for _, e := range sess.Feed().Drain() {
		logger.Info("event", zap.String("kind", string(e.Kind)), zap.String("detail", e.Detail), zap.Float64("value", e.Value))
	}

	logSheet(logger, sess.Character)

	if *save {
		if err := repo.Save(ctx, sess.Snapshot()); err != nil {
			logger.Fatal("saving character", zap.Error(err))
		}
		logger.Info("character saved", zap.String("id", sess.ID().String()))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sess.Snapshot()); err != nil {
			logger.Fatal("encoding snapshot", zap.Error(err))
		}
	}

	if err := mgr.Remove(sess.ID()); err != nil {
		logger.Warn("removing session", zap.Error(err))
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}

func tuningFrom(c config.CombatConfig) character.Tuning {
	return character.Tuning{
		StaggerThreshold: c.StaggerThreshold,
		StaggerDecay:     c.StaggerDecay,
		GuardMultiplier:  c.GuardMultiplier,
		GuardPersistence: c.GuardPersistence,
	}
}

func buildSession(cat *content.Catalog, cfg config.Config, classID, name, loadoutPath, boardID string, points int, opts session.Options) (*session.Session, error) {
	c := character.New(cat.Classes, classID, name, tuningFrom(cfg.Combat))

	opts.Equipment = inventory.NewEquipment()
	opts.Stash = inventory.NewStash(cfg.Session.StashSlots)
	if loadoutPath != "" {
		snap, err := inventory.LoadLoadout(loadoutPath)
		if err != nil {
			return nil, err
		}
		eq, stash, err := cat.Items.Restore(snap, cfg.Session.StashSlots)
		if err != nil {
			return nil, fmt.Errorf("equipping loadout %q: %w", loadoutPath, err)
		}
		opts.Equipment, opts.Stash = eq, stash
	}

	if boardID != "" {
		board, ok := cat.Board(boardID)
		if !ok {
			return nil, fmt.Errorf("unknown warrant board %q", boardID)
		}
		opts.Warrant = &warrant.State{Controller: warrant.NewController(board, points)}
	}
	return session.New(c, opts), nil
}

func logSheet(logger *zap.Logger, c *character.Character) {
	res := make([]zap.Field, 0, len(stats.DamageTypes))
	for _, dt := range stats.DamageTypes {
		res = append(res, zap.Float64(dt.String(), c.Resistances.Get(dt)))
	}
	logger.Info("character sheet",
		zap.String("id", c.ID.String()),
		zap.String("name", c.Name),
		zap.String("class", c.Class),
		zap.Int("level", c.Level),
		zap.Int("experience", c.Experience),
		zap.Int("strength", c.Strength),
		zap.Int("dexterity", c.Dexterity),
		zap.Int("intelligence", c.Intelligence),
		zap.String("health", fmt.Sprintf("%d/%d", c.Health.Current, c.Health.Max)),
		zap.String("energy_shield", fmt.Sprintf("%.1f/%.1f", c.EnergyShield.Current, c.EnergyShield.Max)),
		zap.String("guard", fmt.Sprintf("%.1f/%.1f", c.Guard.Current, c.Guard.Max)),
		zap.String("mana", fmt.Sprintf("%d/%d", c.Mana.Current, c.Mana.Max)),
		zap.String("reliance", fmt.Sprintf("%d/%d", c.Reliance.Current, c.Reliance.Max)),
		zap.Int("attack_power", c.Derived.AttackPower),
		zap.Float64("accuracy", c.Derived.Accuracy),
		zap.Float64("armor", c.Derived.Armor),
		zap.Float64("evasion", c.Derived.Evasion),
		zap.Float64("total_defense", c.Derived.TotalDefense),
		zap.Float64("stagger_threshold", c.Stagger.Threshold),
		zap.Dict("resistances", res...),
		zap.Any("extra", c.Extra),
	)
}
