package ruleset

import "math"

// Default resource pool sizes used by built-in classes and the neutral fallback.
const (
	DefaultMana     = 3
	DefaultReliance = 3
)

// NeutralClassID identifies the fallback class returned for unknown names.
const NeutralClassID = "neutral"

// builtinClasses are the six archetypes shipped with the game: three
// single-attribute classes (+3 primary per level) and three hybrids
// (+2/+2 per level).
var builtinClasses = []*Class{
	{
		ID: "marauder", Name: "Marauder",
		Base: Attributes{Strength: 20, Dexterity: 14, Intelligence: 14},
		Gain: Attributes{Strength: 3, Dexterity: 1, Intelligence: 1},
	},
	{
		ID: "ranger", Name: "Ranger",
		Base: Attributes{Strength: 14, Dexterity: 20, Intelligence: 14},
		Gain: Attributes{Strength: 1, Dexterity: 3, Intelligence: 1},
	},
	{
		ID: "witch", Name: "Witch",
		Base: Attributes{Strength: 14, Dexterity: 14, Intelligence: 20},
		Gain: Attributes{Strength: 1, Dexterity: 1, Intelligence: 3},
	},
	{
		ID: "duelist", Name: "Duelist",
		Base: Attributes{Strength: 17, Dexterity: 17, Intelligence: 14},
		Gain: Attributes{Strength: 2, Dexterity: 2, Intelligence: 1},
	},
	{
		ID: "templar", Name: "Templar",
		Base: Attributes{Strength: 17, Dexterity: 14, Intelligence: 17},
		Gain: Attributes{Strength: 2, Dexterity: 1, Intelligence: 2},
	},
	{
		ID: "shadow", Name: "Shadow",
		Base: Attributes{Strength: 14, Dexterity: 17, Intelligence: 17},
		Gain: Attributes{Strength: 1, Dexterity: 2, Intelligence: 2},
	},
}

// NeutralClass returns the fallback class used for unrecognised class names:
// 14/14/14 base and 1/1/1 gain.
func NeutralClass() *Class {
	return &Class{
		ID:           NeutralClassID,
		Name:         "Wanderer",
		Base:         Attributes{Strength: 14, Dexterity: 14, Intelligence: 14},
		Gain:         Attributes{Strength: 1, Dexterity: 1, Intelligence: 1},
		BaseMana:     DefaultMana,
		BaseReliance: DefaultReliance,
	}
}

// Registry provides class lookup by ID.
type Registry struct {
	classes map[string]*Class
}

// NewRegistry returns a Registry pre-populated with the built-in archetypes.
//
// Postcondition: Class(id) succeeds for every built-in class ID.
func NewRegistry() *Registry {
	r := &Registry{classes: make(map[string]*Class, len(builtinClasses))}
	for _, c := range builtinClasses {
		cp := *c
		cp.BaseMana = DefaultMana
		cp.BaseReliance = DefaultReliance
		r.classes[cp.ID] = &cp
	}
	return r
}

// Register adds or replaces a class definition.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Class(c.ID) returns c; the last registration for an ID wins.
func (r *Registry) Register(c *Class) {
	if c == nil {
		panic("Registry.Register: precondition violated: class must be non-nil")
	}
	if c.ID == "" {
		panic("Registry.Register: precondition violated: class ID must be non-empty")
	}
	r.classes[c.ID] = c
}

// Class returns the class registered for id.
//
// Postcondition: Returns (class, true) if found, or (nil, false) otherwise.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Resolve returns the class registered for id, or the neutral class when id
// is unknown. Unknown IDs are not an error.
//
// Postcondition: Returns a non-nil class.
func (r *Registry) Resolve(id string) *Class {
	if c, ok := r.classes[id]; ok {
		return c
	}
	return NeutralClass()
}

// AttributesFor resolves the attribute triple for (class, level).
func (r *Registry) AttributesFor(classID string, level int) Attributes {
	return r.Resolve(classID).AttributesAt(level)
}

// RequiredExperience returns the experience needed to advance from level to
// level+1: floor(100 × level^1.5).
//
// Precondition: level >= 1.
func RequiredExperience(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}
