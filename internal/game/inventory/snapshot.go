package inventory

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Record is the serialised form of one item or effigy instance. An empty
// InstanceID is given a fresh one on restore, which lets hand-written
// loadout files omit it.
type Record struct {
	InstanceID string   `json:"instance_id,omitempty" yaml:"instance_id,omitempty"`
	Def        string   `json:"def" yaml:"def"`
	Prefixes   []string `json:"prefixes,omitempty" yaml:"prefixes,omitempty"`
	Suffixes   []string `json:"suffixes,omitempty" yaml:"suffixes,omitempty"`
}

// Snapshot is the serialised form of an Equipment plus its stash.
type Snapshot struct {
	Slots    map[Slot]Record `json:"slots" yaml:"slots"`
	Effigies []Record        `json:"effigies,omitempty" yaml:"effigies,omitempty"`
	Stash    []Record        `json:"stash,omitempty" yaml:"stash,omitempty"`
}

func itemRecord(id uuid.UUID, def string, a Affixes) Record {
	p, s := a.IDs()
	return Record{InstanceID: id.String(), Def: def, Prefixes: p, Suffixes: s}
}

// Snapshot captures the equipped items, effigies, and the optional stash.
func (e *Equipment) Snapshot(stash *Stash) Snapshot {
	out := Snapshot{Slots: make(map[Slot]Record, len(e.slots))}
	for slot, it := range e.Equipped() {
		out.Slots[slot] = itemRecord(it.InstanceID, it.Def.ID, it.Affixes)
	}
	for _, ef := range e.effigies {
		out.Effigies = append(out.Effigies, itemRecord(ef.InstanceID, ef.Def.ID, ef.Affixes))
	}
	if stash != nil {
		for _, it := range stash.items {
			out.Stash = append(out.Stash, itemRecord(it.InstanceID, it.Def.ID, it.Affixes))
		}
	}
	return out
}

// Restore rebuilds equipment and a stash of stashSlots capacity from s.
// Slots are equipped main hand first so hand rules see a consistent state.
//
// Postcondition: Returns an error naming the first record that cannot be resolved.
func (r *Registry) Restore(s Snapshot, stashSlots int) (*Equipment, *Stash, error) {
	eq := NewEquipment()
	slots := make([]Slot, 0, len(s.Slots))
	for slot := range s.Slots {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slotOrder(slots[i]) < slotOrder(slots[j]) })
	for _, slot := range slots {
		it, err := r.restoreItem(s.Slots[slot])
		if err != nil {
			return nil, nil, fmt.Errorf("restoring slot %s: %w", slot, err)
		}
		if _, err := eq.Equip(slot, it); err != nil {
			return nil, nil, fmt.Errorf("restoring slot %s: %w", slot, err)
		}
	}
	for i, rec := range s.Effigies {
		ef, err := r.NewEffigy(rec.Def, rec.Prefixes, rec.Suffixes)
		if err != nil {
			return nil, nil, fmt.Errorf("restoring effigy %d: %w", i, err)
		}
		if err := assignID(&ef.InstanceID, rec.InstanceID); err != nil {
			return nil, nil, fmt.Errorf("restoring effigy %d: %w", i, err)
		}
		if err := eq.AddEffigy(ef); err != nil {
			return nil, nil, fmt.Errorf("restoring effigy %d: %w", i, err)
		}
	}
	stash := NewStash(stashSlots)
	for i, rec := range s.Stash {
		it, err := r.restoreItem(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("restoring stash item %d: %w", i, err)
		}
		if err := stash.Add(it); err != nil {
			return nil, nil, fmt.Errorf("restoring stash item %d: %w", i, err)
		}
	}
	return eq, stash, nil
}

func (r *Registry) restoreItem(rec Record) (*Item, error) {
	it, err := r.NewItem(rec.Def, rec.Prefixes, rec.Suffixes)
	if err != nil {
		return nil, err
	}
	if err := assignID(&it.InstanceID, rec.InstanceID); err != nil {
		return nil, err
	}
	return it, nil
}

func assignID(dst *uuid.UUID, s string) error {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("instance id %q: %w", s, err)
	}
	*dst = id
	return nil
}

func slotOrder(s Slot) int {
	for i, slot := range Slots {
		if slot == s {
			return i
		}
	}
	return len(Slots)
}

// LoadLoadout parses a YAML loadout file into a Snapshot. Unknown fields are rejected.
func LoadLoadout(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("LoadLoadout: cannot read file %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("LoadLoadout: cannot parse file %q: %w", path, err)
	}
	for slot := range s.Slots {
		if _, ok := ParseSlot(string(slot)); !ok {
			return s, fmt.Errorf("LoadLoadout: %q: %w: %s", path, ErrUnknownSlot, slot)
		}
	}
	return s, nil
}
