package combat

// Stagger is a stun build-up meter independent of every defensive pool. It
// only reports threshold crossings; applying the stun is the caller's job.
//
// Invariant: Current >= 0.
type Stagger struct {
	Current      float64 `json:"current"`
	Threshold    float64 `json:"threshold"`
	DecayPerTurn float64 `json:"decay_per_turn"`
}

// NewStagger returns an empty meter.
func NewStagger(threshold, decayPerTurn float64) Stagger {
	return Stagger{Threshold: threshold, DecayPerTurn: decayPerTurn}
}

// Add accumulates amount × effectiveness and reports whether this call moved
// the meter from below the threshold to at-or-above it. Calls made while the
// meter is already at or above the threshold return false.
//
// Postcondition: Returns false and leaves Current unchanged when amount <= 0.
func (s *Stagger) Add(amount, effectiveness float64) bool {
	if amount <= 0 {
		return false
	}
	wasBelow := s.Current < s.Threshold
	s.Current += amount * effectiveness
	if s.Current < 0 {
		s.Current = 0
	}
	return wasBelow && s.Current >= s.Threshold
}

// Decay subtracts one turn of decay, flooring at zero.
//
// Postcondition: Current >= 0.
func (s *Stagger) Decay() {
	s.Current -= s.DecayPerTurn
	if s.Current < 0 {
		s.Current = 0
	}
}

// Reset empties the meter after the stun has been consumed.
//
// Postcondition: Current == 0.
func (s *Stagger) Reset() {
	s.Current = 0
}

// Ratio returns Current / Threshold, or 0 when Threshold is not positive.
func (s *Stagger) Ratio() float64 {
	if s.Threshold <= 0 {
		return 0
	}
	return s.Current / s.Threshold
}
