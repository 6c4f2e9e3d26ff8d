package inventory

// Provider exposes what a character currently has equipped.
type Provider interface {
	Equipped() map[Slot]*Item
	Effigies() []*Effigy
}

// CollectStats flattens every equipped item and effigy into one stat map.
// Implicit, prefix, and suffix stats are merged additively; empty slots
// contribute nothing. Items are summed in Slots order, then effigies in
// list order, so equal equipment always yields identical sums.
//
// Postcondition: Returns a non-nil map; returns an empty map when p is nil.
func CollectStats(p Provider) map[string]float64 {
	out := make(map[string]float64)
	if p == nil {
		return out
	}
	equipped := p.Equipped()
	for _, slot := range Slots {
		item := equipped[slot]
		if item == nil {
			continue
		}
		addStats(out, item.Stats())
	}
	for _, ef := range p.Effigies() {
		if ef == nil {
			continue
		}
		addStats(out, ef.Stats())
	}
	return out
}
