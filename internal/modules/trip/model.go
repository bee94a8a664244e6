// README: Per-conversation trip state: resolved places, pending route
// proposal, committed stops and filters.
package trip

import (
	"strings"
	"time"

	"tastetrip/internal/maps"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/types"
)

// State is the single source of truth for one traveller's trip. It is owned
// by the conversation session; nothing else mutates it.
type State struct {
	Origin      *types.Place
	Destination *types.Place
	Waypoints   []types.Place // stops between origin and destination, visiting order

	// A proposed route parked while the assistant asks about stops. Kept
	// separate from the confirmed fields so an unanswered question never
	// looks like an active route.
	PendingOrigin      string
	PendingDestination string

	Route *maps.Route

	DepartureTime time.Time
	AddedStops    []poi.POI
	Filters       poi.Filters

	// askedStopsFor remembers destinations the stops question was already
	// asked about, so the same proposal is not intercepted twice.
	askedStopsFor map[string]bool
}

func (s *State) HasRoute() bool {
	return s.Origin != nil && s.Destination != nil && s.Route != nil
}

func (s *State) HasPending() bool {
	return s.PendingOrigin != "" && s.PendingDestination != ""
}

func (s *State) ClearPending() {
	s.PendingOrigin = ""
	s.PendingDestination = ""
}

// Dedup key for the stops question: destination name, lowercased and
// trimmed. Origin changes do not re-trigger the question.
func askedKey(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}

func (s *State) AlreadyAskedStops(destination string) bool {
	return s.askedStopsFor[askedKey(destination)]
}

func (s *State) MarkAskedStops(destination string) {
	if s.askedStopsFor == nil {
		s.askedStopsFor = map[string]bool{}
	}
	s.askedStopsFor[askedKey(destination)] = true
}

// AskedStopsList exports the dedup set for persistence.
func (s *State) AskedStopsList() []string {
	keys := make([]string, 0, len(s.askedStopsFor))
	for k := range s.askedStopsFor {
		keys = append(keys, k)
	}
	return keys
}

func (s *State) RestoreAskedStops(keys []string) {
	for _, k := range keys {
		s.MarkAskedStops(k)
	}
}

// WaypointNames lists current stop cities in visiting order.
func (s *State) WaypointNames() []string {
	names := make([]string, len(s.Waypoints))
	for i, w := range s.Waypoints {
		names[i] = w.Name
	}
	return names
}

// RouteKey identifies a route by its legs. The session compares keys to
// decide whether a recalculation actually changed the trip and deserves a
// fresh spoken summary.
func (s *State) RouteKey() string {
	if s.Origin == nil || s.Destination == nil {
		return ""
	}
	parts := make([]string, 0, len(s.Waypoints)+2)
	parts = append(parts, s.Origin.Name)
	parts = append(parts, s.WaypointNames()...)
	parts = append(parts, s.Destination.Name)
	return strings.ToLower(strings.Join(parts, "|"))
}

// HasStop checks committed POI stops by id.
func (s *State) HasStop(id int64) bool {
	for _, p := range s.AddedStops {
		if p.ID == id {
			return true
		}
	}
	return false
}

// RemoveStop drops a committed POI stop; reports whether anything changed.
func (s *State) RemoveStop(id int64) bool {
	for i, p := range s.AddedStops {
		if p.ID == id {
			s.AddedStops = append(s.AddedStops[:i], s.AddedStops[i+1:]...)
			return true
		}
	}
	return false
}

// Reset wipes everything back to a fresh conversation.
func (s *State) Reset() {
	*s = State{}
}
