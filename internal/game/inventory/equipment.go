package inventory

import (
	"errors"
	"fmt"
)

// Slot identifies one of the ten equipment slots.
type Slot string

const (
	SlotHelmet     Slot = "helmet"
	SlotBodyArmour Slot = "body_armour"
	SlotGloves     Slot = "gloves"
	SlotBoots      Slot = "boots"
	SlotBelt       Slot = "belt"
	SlotAmulet     Slot = "amulet"
	SlotRingLeft   Slot = "ring_left"
	SlotRingRight  Slot = "ring_right"
	SlotMainHand   Slot = "main_hand"
	SlotOffHand    Slot = "off_hand"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{
	SlotHelmet, SlotBodyArmour, SlotGloves, SlotBoots, SlotBelt,
	SlotAmulet, SlotRingLeft, SlotRingRight, SlotMainHand, SlotOffHand,
}

// slotDisplayNames maps every slot identifier to its human-readable label.
var slotDisplayNames = map[Slot]string{
	SlotHelmet:     "Helmet",
	SlotBodyArmour: "Body Armour",
	SlotGloves:     "Gloves",
	SlotBoots:      "Boots",
	SlotBelt:       "Belt",
	SlotAmulet:     "Amulet",
	SlotRingLeft:   "Left Ring",
	SlotRingRight:  "Right Ring",
	SlotMainHand:   "Main Hand",
	SlotOffHand:    "Off Hand",
}

// categorySlots lists the slots each item category may occupy.
var categorySlots = map[string][]Slot{
	CategoryHelmet:     {SlotHelmet},
	CategoryBodyArmour: {SlotBodyArmour},
	CategoryGloves:     {SlotGloves},
	CategoryBoots:      {SlotBoots},
	CategoryBelt:       {SlotBelt},
	CategoryAmulet:     {SlotAmulet},
	CategoryRing:       {SlotRingLeft, SlotRingRight},
	CategoryWeapon:     {SlotMainHand, SlotOffHand},
	CategoryShield:     {SlotOffHand},
}

// SlotDisplayName returns the human-readable label for slot, or the slot
// identifier itself when unknown.
func SlotDisplayName(slot Slot) string {
	if label, ok := slotDisplayNames[slot]; ok {
		return label
	}
	return string(slot)
}

// ParseSlot resolves a slot identifier.
func ParseSlot(s string) (Slot, bool) {
	slot := Slot(s)
	_, ok := slotDisplayNames[slot]
	return slot, ok
}

// CanHold reports whether def may be placed in slot, ignoring hand rules.
func CanHold(def *ItemDef, slot Slot) bool {
	for _, s := range categorySlots[def.Category] {
		if s == slot {
			if slot == SlotOffHand && def.IsTwoHanded() {
				return false
			}
			return true
		}
	}
	return false
}

// Equipment errors.
var (
	ErrUnknownSlot   = errors.New("unknown equipment slot")
	ErrSlotMismatch  = errors.New("item cannot be equipped in this slot")
	ErrOffHandLocked = errors.New("off hand is locked by a two-handed main hand weapon")
	ErrMainHandEmpty = errors.New("off hand item requires a main hand weapon")
	ErrEffigyLimit   = errors.New("no free effigy slot")
	ErrNilItem       = errors.New("item must not be nil")
)

// DefaultMaxEffigies is the effigy capacity of a new Equipment.
const DefaultMaxEffigies = 3

// Equipment holds the ten item slots and the equipped effigies of one character.
//
// Invariants:
//   - A two-handed main hand weapon forces the off hand to be empty.
//   - The off hand is never filled while the main hand is empty.
type Equipment struct {
	slots       map[Slot]*Item
	effigies    []*Effigy
	MaxEffigies int
}

// NewEquipment returns an empty Equipment.
//
// Postcondition: every slot is empty; MaxEffigies == DefaultMaxEffigies.
func NewEquipment() *Equipment {
	return &Equipment{slots: make(map[Slot]*Item), MaxEffigies: DefaultMaxEffigies}
}

// Get returns the item in slot, or nil when the slot is empty.
func (e *Equipment) Get(slot Slot) *Item {
	return e.slots[slot]
}

// Equipped returns a copy of the occupied slots.
func (e *Equipment) Equipped() map[Slot]*Item {
	out := make(map[Slot]*Item, len(e.slots))
	for s, it := range e.slots {
		if it != nil {
			out[s] = it
		}
	}
	return out
}

// Effigies returns a copy of the equipped effigy list.
func (e *Equipment) Effigies() []*Effigy {
	out := make([]*Effigy, len(e.effigies))
	copy(out, e.effigies)
	return out
}

// Equip places item in slot and returns every item it displaced.
// A two-handed main hand weapon also displaces the off hand. A weapon
// equipped into the off hand while the main hand is empty is placed in the
// main hand instead.
//
// Precondition: item and item.Def must not be nil.
// Postcondition: on error, equipment is unchanged.
func (e *Equipment) Equip(slot Slot, item *Item) ([]*Item, error) {
	if item == nil || item.Def == nil {
		return nil, ErrNilItem
	}
	if _, ok := slotDisplayNames[slot]; !ok {
		return nil, fmt.Errorf("equipping %q: %w", slot, ErrUnknownSlot)
	}
	if !CanHold(item.Def, slot) {
		return nil, fmt.Errorf("equipping %s into %s: %w", item.Def.ID, slot, ErrSlotMismatch)
	}

	if slot == SlotOffHand {
		main := e.slots[SlotMainHand]
		switch {
		case main == nil && item.Def.IsWeapon():
			slot = SlotMainHand
		case main == nil:
			return nil, fmt.Errorf("equipping %s: %w", item.Def.ID, ErrMainHandEmpty)
		case main.Def.IsTwoHanded():
			return nil, fmt.Errorf("equipping %s: %w", item.Def.ID, ErrOffHandLocked)
		}
	}

	var displaced []*Item
	if prev := e.slots[slot]; prev != nil {
		displaced = append(displaced, prev)
	}
	e.slots[slot] = item
	if slot == SlotMainHand && item.Def.IsTwoHanded() {
		if off := e.slots[SlotOffHand]; off != nil {
			displaced = append(displaced, off)
			delete(e.slots, SlotOffHand)
		}
	}
	return displaced, nil
}

// Unequip empties slot and returns the removed items. Removing the main hand
// promotes an off hand weapon into the main hand; a non-weapon off hand item
// is removed with it.
//
// Postcondition: the off hand is never filled while the main hand is empty.
func (e *Equipment) Unequip(slot Slot) []*Item {
	item := e.slots[slot]
	if item == nil {
		return nil
	}
	delete(e.slots, slot)
	removed := []*Item{item}
	if slot != SlotMainHand {
		return removed
	}
	if off := e.slots[SlotOffHand]; off != nil {
		delete(e.slots, SlotOffHand)
		if off.Def.IsWeapon() {
			e.slots[SlotMainHand] = off
		} else {
			removed = append(removed, off)
		}
	}
	return removed
}

// AddEffigy equips an effigy.
//
// Postcondition: on ErrEffigyLimit the effigy list is unchanged.
func (e *Equipment) AddEffigy(ef *Effigy) error {
	if ef == nil || ef.Def == nil {
		return ErrNilItem
	}
	if len(e.effigies) >= e.MaxEffigies {
		return ErrEffigyLimit
	}
	e.effigies = append(e.effigies, ef)
	return nil
}

// RemoveEffigy unequips the effigy with instanceID and returns it, or nil when absent.
func (e *Equipment) RemoveEffigy(instanceID string) *Effigy {
	for i, ef := range e.effigies {
		if ef.InstanceID.String() == instanceID {
			e.effigies = append(e.effigies[:i], e.effigies[i+1:]...)
			return ef
		}
	}
	return nil
}
