package condition

// DamageTakenMultiplier returns 1 plus the sum of every active condition's
// DamageTakenPercent × stacks / 100, floored at 0.
//
// Postcondition: Returns >= 0; returns 1 for an empty or nil set.
func (s *ActiveSet) DamageTakenMultiplier() float64 {
	if s == nil {
		return 1
	}
	mult := 1.0
	for _, ac := range s.All() {
		mult += ac.Def.DamageTakenPercent * float64(ac.Stacks) / 100
	}
	if mult < 0 {
		return 0
	}
	return mult
}

// StatContributions returns the per-stack stat maps of every active condition
// scaled by stack count and merged additively in condition ID order.
//
// Postcondition: Returns a non-nil map.
func (s *ActiveSet) StatContributions() map[string]float64 {
	out := make(map[string]float64)
	if s == nil {
		return out
	}
	for _, ac := range s.All() {
		for name, v := range ac.Def.Stats {
			out[name] += v * float64(ac.Stacks)
		}
	}
	return out
}
