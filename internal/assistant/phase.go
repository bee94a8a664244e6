package assistant

// Phase tracks how far the route bootstrap has progressed. Phases only
// move forward; the sole way back is an explicit Reset.
type Phase string

const (
	PhaseAskingOrigin    Phase = "asking_origin"
	PhaseAskingDest      Phase = "asking_dest"
	PhaseAskingWaypoints Phase = "asking_waypoints"
	PhaseActive          Phase = "active"
)

var phaseOrder = map[Phase]int{
	PhaseAskingOrigin:    0,
	PhaseAskingDest:      1,
	PhaseAskingWaypoints: 2,
	PhaseActive:          3,
}

// advance moves to p only if it is strictly later than the current phase.
func (s *Session) advancePhase(p Phase) {
	if phaseOrder[p] > phaseOrder[s.phase] {
		s.phase = p
	}
}
