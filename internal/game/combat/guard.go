package combat

// Guard is the temporary absorption pool consumed before energy shield.
//
// Invariant: 0 <= Current <= Max; 0 <= persistence <= 1.
type Guard struct {
	Current float64
	Max     float64
	// MaxMultiplier scales maximum health into Max.
	MaxMultiplier float64
	persistence   float64
	// requested is the unclamped value last passed to SetPersistence.
	requested float64
}

// NewGuard returns an empty guard pool with the given max multiplier and
// persistence fraction (clamped to [0,1]).
func NewGuard(maxMultiplier, persistence float64) Guard {
	g := Guard{MaxMultiplier: maxMultiplier}
	g.SetPersistence(persistence)
	return g
}

// Persistence returns the fraction of guard that survives a turn boundary.
//
// Postcondition: Returns a value in [0,1].
func (g *Guard) Persistence() float64 {
	return g.persistence
}

// RequestedPersistence returns the value last passed to SetPersistence,
// before clamping.
func (g *Guard) RequestedPersistence() float64 {
	return g.requested
}

// SetPersistence stores f clamped to [0,1]. The unclamped f is kept and
// reported by RequestedPersistence.
//
// Postcondition: Persistence() is in [0,1].
func (g *Guard) SetPersistence(f float64) {
	g.requested = f
	g.persistence = clamp01(f)
}

// Resize recomputes Max from maxHealth and clamps Current to it.
//
// Postcondition: Max == maxHealth × MaxMultiplier (floored at 0); Current <= Max.
func (g *Guard) Resize(maxHealth float64) {
	g.Max = maxHealth * g.MaxMultiplier
	if g.Max < 0 {
		g.Max = 0
	}
	if g.Current > g.Max {
		g.Current = g.Max
	}
}

// Add grants amount guard, clamped to Max. Non-positive amounts are ignored.
//
// Postcondition: Current <= Max.
func (g *Guard) Add(amount float64) {
	if amount <= 0 {
		return
	}
	g.Current += amount
	if g.Current > g.Max {
		g.Current = g.Max
	}
}

// Carry applies the persistence fraction to Current. The turn driver calls it
// once per turn boundary.
//
// Postcondition: Current == previous Current × Persistence().
func (g *Guard) Carry() {
	g.Current *= g.persistence
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
