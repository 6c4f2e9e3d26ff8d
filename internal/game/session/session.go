// Package session binds a character to its equipment, warrant, and status
// effects and drives the layer refreshes that keep its stats consistent.
package session

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gauntlet/internal/game/character"
	"github.com/cory-johannsen/gauntlet/internal/game/combat"
	"github.com/cory-johannsen/gauntlet/internal/game/condition"
	"github.com/cory-johannsen/gauntlet/internal/game/inventory"
	"github.com/cory-johannsen/gauntlet/internal/game/stats"
	"github.com/cory-johannsen/gauntlet/internal/game/warrant"
)

// WarrantPointsPerLevel is the number of warrant points granted on each level up.
const WarrantPointsPerLevel = 1

var (
	// ErrNotInStash is returned when an item instance is not in the stash.
	ErrNotInStash = errors.New("item not in stash")
	// ErrUnknownCondition is returned when a condition ID has no definition.
	ErrUnknownCondition = errors.New("unknown condition")
)

// Options configures a Session. Every field is optional.
type Options struct {
	Logger     *zap.Logger
	Equipment  *inventory.Equipment
	Stash      *inventory.Stash
	Warrant    warrant.Provider
	Conditions *condition.Registry
	FeedSize   int
}

// Session is one active character with everything that contributes to its
// stats. It is not safe for concurrent use; Manager only guards the set of
// sessions.
type Session struct {
	Character *character.Character
	Equipment *inventory.Equipment
	Stash     *inventory.Stash
	Warrant   warrant.Provider
	Status    *condition.ActiveSet

	conditions *condition.Registry
	auras      map[string]map[string]float64
	feed       *Feed
	logger     *zap.Logger
}

// New creates a session for c and runs an initial refresh.
//
// Precondition: c must not be nil.
// Postcondition: every layer reflects the supplied providers.
func New(c *character.Character, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	conds := opts.Conditions
	if conds == nil {
		conds = condition.NewRegistry()
	}
	s := &Session{
		Character:  c,
		Equipment:  opts.Equipment,
		Stash:      opts.Stash,
		Warrant:    opts.Warrant,
		Status:     condition.NewActiveSet(),
		conditions: conds,
		auras:      map[string]map[string]float64{},
		feed:       NewFeed(c.ID, opts.FeedSize),
		logger:     logger.With(zap.String("character", c.ID.String()), zap.String("name", c.Name)),
	}
	s.RefreshWarrantModifiers()
	return s
}

// ID returns the character ID.
func (s *Session) ID() uuid.UUID { return s.Character.ID }

// Feed returns the session's event feed.
func (s *Session) Feed() *Feed { return s.feed }

// RefreshWarrantModifiers rebuilds every layer from its provider: the
// warrant layer is cleared, equipment and buff layers are reapplied, the
// warrant contribution is resolved live, then saved, then none, and derived
// stats are recomputed. Calling it twice in a row changes nothing.
func (s *Session) RefreshWarrantModifiers() {
	c := s.Character
	c.ClearWarrant()

	if s.Equipment == nil {
		s.logger.Warn("equipment provider unavailable; equipment layer cleared")
		c.RefreshLayer(character.LayerEquipment, nil)
	} else {
		c.RefreshLayer(character.LayerEquipment, inventory.CollectStats(s.Equipment))
	}
	c.RefreshLayer(character.LayerAura, s.auraStats())
	c.RefreshLayer(character.LayerBuff, s.Status.StatContributions())

	contrib, mode := warrant.Resolve(s.Warrant)
	if mode == warrant.ModeNone {
		s.logger.Warn("warrant provider unavailable; applying no warrant modifiers")
	} else {
		c.ApplyWarrant(contrib.Flat, contrib.Percent, contrib.Attributes)
	}
	c.CalculateDerivedStats()

	s.logger.Debug("layers refreshed",
		zap.String("warrant_mode", mode.String()),
		zap.Int("max_health", c.Health.Max),
		zap.Float64("armor", c.Derived.Armor),
	)
}

// auraStats sums every aura in ID order.
func (s *Session) auraStats() map[string]float64 {
	ids := make([]string, 0, len(s.auras))
	for id := range s.auras {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := map[string]float64{}
	for _, id := range ids {
		for k, v := range s.auras[id] {
			out[k] += v
		}
	}
	return out
}

// SetAura installs or replaces the aura id and refreshes.
func (s *Session) SetAura(id string, values map[string]float64) {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	s.auras[id] = cp
	s.RefreshWarrantModifiers()
}

// RemoveAura removes the aura id and refreshes. Unknown IDs are a no-op.
func (s *Session) RemoveAura(id string) {
	if _, ok := s.auras[id]; !ok {
		return
	}
	delete(s.auras, id)
	s.RefreshWarrantModifiers()
}

// Equip places item in slot and refreshes.
//
// Postcondition: Returns the items displaced from the equipment, or an error
// with the equipment unchanged.
func (s *Session) Equip(slot inventory.Slot, item *inventory.Item) ([]*inventory.Item, error) {
	if s.Equipment == nil {
		s.Equipment = inventory.NewEquipment()
	}
	displaced, err := s.Equipment.Equip(slot, item)
	if err != nil {
		s.logger.Info("equip rejected", zap.String("slot", string(slot)), zap.Error(err))
		return nil, fmt.Errorf("equipping %s: %w", slot, err)
	}
	s.RefreshWarrantModifiers()
	return displaced, nil
}

// Unequip empties slot and refreshes.
//
// Postcondition: Returns the removed items; empty when the slot was empty.
func (s *Session) Unequip(slot inventory.Slot) []*inventory.Item {
	if s.Equipment == nil {
		return nil
	}
	removed := s.Equipment.Unequip(slot)
	if len(removed) > 0 {
		s.RefreshWarrantModifiers()
	}
	return removed
}

// AddEffigy equips ef and refreshes.
func (s *Session) AddEffigy(ef *inventory.Effigy) error {
	if s.Equipment == nil {
		s.Equipment = inventory.NewEquipment()
	}
	if err := s.Equipment.AddEffigy(ef); err != nil {
		return fmt.Errorf("adding effigy: %w", err)
	}
	s.RefreshWarrantModifiers()
	return nil
}

// RemoveEffigy unequips the effigy instanceID and refreshes.
// Returns nil when no such effigy is equipped.
func (s *Session) RemoveEffigy(instanceID string) *inventory.Effigy {
	if s.Equipment == nil {
		return nil
	}
	ef := s.Equipment.RemoveEffigy(instanceID)
	if ef != nil {
		s.RefreshWarrantModifiers()
	}
	return ef
}

// EquipFromStash moves the stash item instanceID into slot. Displaced items
// go back to the stash; those that do not fit are returned to the caller.
//
// Postcondition: on error the stash and equipment are unchanged.
func (s *Session) EquipFromStash(instanceID string, slot inventory.Slot) ([]*inventory.Item, error) {
	if s.Stash == nil {
		return nil, fmt.Errorf("equipping %s from stash: %w", instanceID, ErrNotInStash)
	}
	item, ok := s.Stash.Take(instanceID)
	if !ok {
		return nil, fmt.Errorf("equipping %s from stash: %w", instanceID, ErrNotInStash)
	}
	displaced, err := s.Equip(slot, item)
	if err != nil {
		_ = s.Stash.Add(item)
		return nil, err
	}
	if err := s.Stash.Add(displaced...); err != nil {
		s.logger.Warn("stash full; displaced items returned", zap.Int("count", len(displaced)))
		return displaced, nil
	}
	return nil, nil
}

// UnlockWarrantNode allocates node id on the live warrant board and refreshes.
//
// Postcondition: Returns false with nothing changed when there is no live
// board or the unlock is rejected.
func (s *Session) UnlockWarrantNode(id string) bool {
	if s.Warrant == nil {
		s.logger.Warn("warrant provider unavailable; cannot unlock", zap.String("node", id))
		return false
	}
	_, ctrl, ok := s.Warrant.Live()
	if !ok {
		s.logger.Warn("no live warrant board; cannot unlock", zap.String("node", id))
		return false
	}
	if err := ctrl.Unlock(id); err != nil {
		s.logger.Info("warrant unlock rejected", zap.String("node", id), zap.Error(err))
		return false
	}
	s.RefreshWarrantModifiers()
	s.emit(Event{Kind: EventNodeUnlocked, Detail: id, Value: float64(ctrl.Points())})
	return true
}

// ApplyCondition applies stacks of the condition id for turns turn
// boundaries (-1 for encounter-long or permanent) and refreshes.
func (s *Session) ApplyCondition(id string, stacks, turns int) error {
	def, ok := s.conditions.Get(id)
	if !ok {
		return fmt.Errorf("applying condition %q: %w", id, ErrUnknownCondition)
	}
	if err := s.Status.Apply(def, stacks, turns); err != nil {
		return fmt.Errorf("applying condition %q: %w", id, err)
	}
	s.refreshBuffs()
	return nil
}

// RemoveCondition removes the condition id and refreshes.
func (s *Session) RemoveCondition(id string) {
	if !s.Status.Has(id) {
		return
	}
	s.Status.Remove(id)
	s.refreshBuffs()
}

func (s *Session) refreshBuffs() {
	c := s.Character
	c.RefreshLayer(character.LayerBuff, s.Status.StatContributions())
	c.CalculateDerivedStats()
}

// TakeHit applies raw damage of type dt through the session's status effects.
func (s *Session) TakeHit(raw float64, dt stats.DamageType) character.DamageResult {
	res := s.Character.TakeDamage(raw, dt, s.statusEffects())
	s.logger.Debug("hit taken",
		zap.String("type", dt.String()),
		zap.Float64("raw", raw),
		zap.Float64("mitigated", res.Mitigated),
		zap.Int("health", res.After.Health),
	)
	if res.Defeated {
		s.logger.Info("character defeated")
		s.emit(Event{Kind: EventDefeated, Detail: dt.String(), Value: res.Mitigated})
	}
	return res
}

// PreviewHit reports what TakeHit would do without changing anything.
func (s *Session) PreviewHit(raw float64, dt stats.DamageType) character.DamageResult {
	return s.Character.PreviewDamage(raw, dt, s.statusEffects())
}

// AddStagger adds stagger and reports whether the threshold was crossed.
func (s *Session) AddStagger(amount, effectiveness float64) bool {
	if !s.Character.Stagger.Add(amount, effectiveness) {
		return false
	}
	s.logger.Info("character staggered", zap.Float64("stagger", s.Character.Stagger.Current))
	s.emit(Event{Kind: EventStaggered, Value: s.Character.Stagger.Current})
	return true
}

func (s *Session) statusEffects() combat.StatusEffects {
	if s.Status == nil {
		return nil
	}
	return s.Status
}

// EndTurn decays stagger, carries guard over, and expires turn-based
// conditions.
//
// Postcondition: Returns the IDs of the conditions that expired, sorted.
func (s *Session) EndTurn() []string {
	c := s.Character
	c.Stagger.Decay()
	c.Guard.Carry()
	expired := s.Status.Tick()
	if len(expired) > 0 {
		s.refreshBuffs()
		for _, id := range expired {
			s.emit(Event{Kind: EventConditionExpired, Detail: id})
		}
	}
	return expired
}

// CompleteEncounter ends encounter-long conditions, clears guard and
// stagger, and awards xp. Each level gained grants WarrantPointsPerLevel
// points on the live board.
//
// Postcondition: Returns the number of levels gained.
func (s *Session) CompleteEncounter(xp int) int {
	c := s.Character
	s.Status.EndEncounter()
	c.Guard.Current = 0
	c.Stagger.Reset()

	levels := c.AddExperience(xp)
	if levels > 0 {
		if s.Warrant != nil {
			if _, ctrl, ok := s.Warrant.Live(); ok {
				ctrl.AddPoints(levels * WarrantPointsPerLevel)
			}
		}
		s.logger.Info("level up", zap.Int("level", c.Level), zap.Int("experience", c.Experience))
		s.emit(Event{Kind: EventLevelUp, Value: float64(c.Level)})
	}
	s.RefreshWarrantModifiers()
	return levels
}

func (s *Session) emit(e Event) {
	e.CharacterID = s.Character.ID
	if err := s.feed.Push(e); err != nil {
		s.logger.Debug("event dropped", zap.String("kind", string(e.Kind)), zap.Error(err))
	}
}
