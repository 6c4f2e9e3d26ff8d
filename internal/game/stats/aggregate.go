package stats

import "sort"

// Source tags a modifier entry with the layer or attribute that produced it so
// the entry can be replaced or removed without matching on its value.
type Source string

// Entry is one modifier value contributed by a source.
type Entry struct {
	Source Source
	Value  float64
}

// Modifiers holds the three composition lists for one (domain, type) key.
//
// Invariant: IncreasedTotal() == sum of Increased values;
// MoreMultiplier() == product of max(0, 1+m) over More values.
type Modifiers struct {
	Increased []Entry
	More      []Entry
	Added     []Entry
}

// IncreasedTotal returns the additive sum of all increased entries.
func (m *Modifiers) IncreasedTotal() float64 {
	if m == nil {
		return 0
	}
	return sumEntries(m.Increased)
}

// MoreMultiplier returns the product of (1+m) over all more entries. Each
// factor is floored at zero.
//
// Postcondition: Returns >= 0; returns 1 when there are no entries.
func (m *Modifiers) MoreMultiplier() float64 {
	if m == nil {
		return 1
	}
	product := 1.0
	for _, e := range m.More {
		product *= moreFactor(e.Value)
	}
	return product
}

// AddedTotal returns the flat added amount.
func (m *Modifiers) AddedTotal() float64 {
	if m == nil {
		return 0
	}
	return sumEntries(m.Added)
}

func (m *Modifiers) clone() *Modifiers {
	return &Modifiers{
		Increased: cloneEntries(m.Increased),
		More:      cloneEntries(m.More),
		Added:     cloneEntries(m.Added),
	}
}

func (m *Modifiers) removeSource(src Source) {
	m.Increased = dropSource(m.Increased, src)
	m.More = dropSource(m.More, src)
	m.Added = dropSource(m.Added, src)
}

func (m *Modifiers) empty() bool {
	return len(m.Increased) == 0 && len(m.More) == 0 && len(m.Added) == 0
}

// Key addresses one list set inside an Aggregate.
type Key struct {
	Domain Domain
	Type   DamageType
}

// Aggregate composes damage modifiers per domain and damage type, plus the
// scalar critical strike fields.
//
// Final damage for (domain, type) is
// (base + added) × (1 + Σincreased) × Π(1 + more), where untyped entries of the
// same domain contribute to every type. Aggregate is not safe for concurrent use.
type Aggregate struct {
	lists          map[Key]*Modifiers
	CritChance     float64
	CritMultiplier float64
}

// NewAggregate returns an empty Aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{lists: make(map[Key]*Modifiers)}
}

func (a *Aggregate) list(k Key) *Modifiers {
	if a.lists == nil {
		a.lists = make(map[Key]*Modifiers)
	}
	m, ok := a.lists[k]
	if !ok {
		m = &Modifiers{}
		a.lists[k] = m
	}
	return m
}

// Modifiers returns the lists stored for (d, t), or nil when nothing was added.
// The returned value is owned by the Aggregate; callers must not modify it.
func (a *Aggregate) Modifiers(d Domain, t DamageType) *Modifiers {
	return a.lists[Key{Domain: d, Type: t}]
}

// AddIncreased appends an increased entry.
func (a *Aggregate) AddIncreased(d Domain, t DamageType, src Source, v float64) {
	a.Append(KindIncreased, d, t, src, v)
}

// AddMore appends a more entry.
func (a *Aggregate) AddMore(d Domain, t DamageType, src Source, v float64) {
	a.Append(KindMore, d, t, src, v)
}

// AddAdded appends a flat added-damage entry.
func (a *Aggregate) AddAdded(d Domain, t DamageType, src Source, v float64) {
	a.Append(KindAdded, d, t, src, v)
}

// SetIncreased replaces every increased entry of src on (d, t) with a single
// entry of value v.
//
// Postcondition: exactly one increased entry tagged src exists on (d, t).
func (a *Aggregate) SetIncreased(d Domain, t DamageType, src Source, v float64) {
	a.Replace(KindIncreased, d, t, src, v)
}

// Kind selects one of the three modifier lists of a key.
type Kind int

const (
	KindAdded Kind = iota
	KindIncreased
	KindMore
)

func (m *Modifiers) entries(k Kind) *[]Entry {
	switch k {
	case KindIncreased:
		return &m.Increased
	case KindMore:
		return &m.More
	default:
		return &m.Added
	}
}

// Append adds an entry to the k list of (d, t).
func (a *Aggregate) Append(k Kind, d Domain, t DamageType, src Source, v float64) {
	es := a.list(Key{d, t}).entries(k)
	*es = append(*es, Entry{Source: src, Value: v})
}

// Replace swaps every entry of src in the k list of (d, t) for a single entry
// of value v.
func (a *Aggregate) Replace(k Kind, d Domain, t DamageType, src Source, v float64) {
	es := a.list(Key{d, t}).entries(k)
	*es = append(dropSource(*es, src), Entry{Source: src, Value: v})
}

// ListTotal returns the combined value of the k list stored exactly at (d, t):
// the sum for added and increased, the product of (1+m) minus one for more.
// Untyped entries are not folded in.
func (a *Aggregate) ListTotal(k Kind, d Domain, t DamageType) float64 {
	m := a.Modifiers(d, t)
	switch k {
	case KindIncreased:
		return m.IncreasedTotal()
	case KindMore:
		return m.MoreMultiplier() - 1
	default:
		return m.AddedTotal()
	}
}

// RemoveSource deletes every entry tagged src from every list.
func (a *Aggregate) RemoveSource(src Source) {
	for k, m := range a.lists {
		m.removeSource(src)
		if m.empty() {
			delete(a.lists, k)
		}
	}
}

// Increased returns Σincreased for (d, t) including the domain's untyped entries.
func (a *Aggregate) Increased(d Domain, t DamageType) float64 {
	total := a.Modifiers(d, t).IncreasedTotal()
	if t != Untyped {
		total += a.Modifiers(d, Untyped).IncreasedTotal()
	}
	return total
}

// More returns Π(1+more) for (d, t) including the domain's untyped entries.
func (a *Aggregate) More(d Domain, t DamageType) float64 {
	product := a.Modifiers(d, t).MoreMultiplier()
	if t != Untyped {
		product *= a.Modifiers(d, Untyped).MoreMultiplier()
	}
	return product
}

// Added returns the flat added damage for (d, t). Untyped added damage is not
// folded into typed keys.
func (a *Aggregate) Added(d Domain, t DamageType) float64 {
	return a.Modifiers(d, t).AddedTotal()
}

// Final returns the fully composed damage for a hit of base damage.
//
// Postcondition: Returns (base + Added) × (1 + Increased) × More.
func (a *Aggregate) Final(d Domain, t DamageType, base float64) float64 {
	return Compose(base, a.Added(d, t), a.Increased(d, t), a.More(d, t))
}

// Keys returns every populated key in deterministic order.
func (a *Aggregate) Keys() []Key {
	keys := make([]Key, 0, len(a.lists))
	for k := range a.lists {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Domain != keys[j].Domain {
			return keys[i].Domain < keys[j].Domain
		}
		return keys[i].Type < keys[j].Type
	})
	return keys
}

// Clone returns a deep copy; no list or map is shared with a.
func (a *Aggregate) Clone() *Aggregate {
	out := &Aggregate{
		lists:          make(map[Key]*Modifiers, len(a.lists)),
		CritChance:     a.CritChance,
		CritMultiplier: a.CritMultiplier,
	}
	for k, m := range a.lists {
		out.lists[k] = m.clone()
	}
	return out
}

// Compose applies the closed composition rule.
//
// Postcondition: Returns (base + added) × (1 + increased) × more.
func Compose(base, added, increased, more float64) float64 {
	return (base + added) * (1 + increased) * more
}

func moreFactor(v float64) float64 {
	f := 1 + v
	if f < 0 {
		return 0
	}
	return f
}

func sumEntries(es []Entry) float64 {
	total := 0.0
	for _, e := range es {
		total += e.Value
	}
	return total
}

func cloneEntries(es []Entry) []Entry {
	if es == nil {
		return nil
	}
	out := make([]Entry, len(es))
	copy(out, es)
	return out
}

func dropSource(es []Entry, src Source) []Entry {
	out := es[:0]
	for _, e := range es {
		if e.Source != src {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
