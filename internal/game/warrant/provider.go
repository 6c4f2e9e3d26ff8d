package warrant

// Provider exposes the warrant state of one character. Live reports the
// board graph and its controller when they are reachable; Saved reports the
// persisted snapshot.
type Provider interface {
	Live() (*Board, *Controller, bool)
	Saved() (Snapshot, bool)
}

// Mode identifies where a resolved contribution came from.
type Mode int

const (
	ModeNone Mode = iota
	ModeLive
	ModeSaved
)

// String returns "none", "live", or "saved".
func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeSaved:
		return "saved"
	default:
		return "none"
	}
}

// Resolve picks the live contribution when available, else the saved one,
// else an empty contribution. A nil provider resolves to ModeNone.
func Resolve(p Provider) (Contribution, Mode) {
	if p == nil {
		return Compute(nil, nil), ModeNone
	}
	if board, ctrl, ok := p.Live(); ok {
		return Compute(board, ctrl), ModeLive
	}
	if s, ok := p.Saved(); ok {
		return s.Contribution(), ModeSaved
	}
	return Compute(nil, nil), ModeNone
}

// State is the standard Provider: a live controller when the board is loaded,
// otherwise a stored snapshot.
type State struct {
	Controller *Controller
	Stored     *Snapshot
}

// Live implements Provider.
func (s *State) Live() (*Board, *Controller, bool) {
	if s == nil || s.Controller == nil || s.Controller.board == nil {
		return nil, nil, false
	}
	return s.Controller.board, s.Controller, true
}

// Saved implements Provider. A live controller is snapshotted on demand.
func (s *State) Saved() (Snapshot, bool) {
	if s == nil {
		return Snapshot{}, false
	}
	if s.Controller != nil && s.Controller.board != nil {
		return s.Controller.Snapshot(), true
	}
	if s.Stored != nil {
		return *s.Stored, true
	}
	return Snapshot{}, false
}
