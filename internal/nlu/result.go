// README: The normalized action contract both resolution paths (regex
// cascade and generative model) produce, plus the trip snapshot they read.
package nlu

import (
	"time"

	"tastetrip/internal/modules/poi"
)

// Action identifies what the caller should do with a resolved turn.
type Action string

const (
	ActionCalculateRoute   Action = "calculate_route"
	ActionAddPOI           Action = "add_poi"
	ActionRemovePOI        Action = "remove_poi"
	ActionAddWaypoint      Action = "add_waypoint"
	ActionRemoveWaypoint   Action = "remove_waypoint"
	ActionSetFilter        Action = "set_filter"
	ActionClearFilter      Action = "clear_filter"
	ActionSetDepartureTime Action = "set_departure_time"
	ActionNone             Action = "none"

	// Produced only by the deterministic cascade during route bootstrap;
	// the model never emits these.
	ActionSetOrigin      Action = "set_origin"
	ActionSetDestination Action = "set_destination"
)

// ValidAction reports membership in the action vocabulary.
func ValidAction(a Action) bool {
	switch a {
	case ActionCalculateRoute, ActionAddPOI, ActionRemovePOI, ActionAddWaypoint,
		ActionRemoveWaypoint, ActionSetFilter, ActionClearFilter,
		ActionSetDepartureTime, ActionNone, ActionSetOrigin, ActionSetDestination:
		return true
	}
	return false
}

// Args carries the per-action payload. Waypoints is never nil.
type Args struct {
	Origin      string
	Destination string
	Waypoints   []string
	POIName     string
	POI         *poi.POI
	FilterKey   string
	FilterValue bool
	Hours       int
	Minutes     int
	Tomorrow    bool
}

// Result is the single output shape of a resolved turn, identical no matter
// which path produced it.
type Result struct {
	Speak  string
	Action Action
	Args   Args
}

// Sanitize enforces the contract invariants on a result assembled from
// untrusted input: waypoints non-nil, action inside the vocabulary.
func (r Result) Sanitize() Result {
	if r.Args.Waypoints == nil {
		r.Args.Waypoints = []string{}
	}
	if !ValidAction(r.Action) {
		r.Action = ActionNone
	}
	return r
}

func none(speak string) *Result {
	return &Result{Speak: speak, Action: ActionNone, Args: Args{Waypoints: []string{}}}
}

// TripContext is the read-only snapshot of trip state a resolution turn
// sees. The session owns the live state; resolvers must not mutate it.
type TripContext struct {
	OriginName      string
	DestinationName string

	// Pending route proposal awaiting the stops question; distinct from
	// the confirmed route so same-route comparisons stay possible.
	PendingOrigin      string
	PendingDestination string

	Waypoints []string // confirmed route waypoints, visiting order

	RouteDistanceMeters  float64
	RouteDurationSeconds float64
	DepartureTime        time.Time

	AddedStops  []poi.POI // POIs committed to the trip
	VisiblePOIs []poi.POI // catalog entries on the current route, filtered
	AllPOIs     []poi.POI // full catalog
	Filters     poi.Filters

	// LastQuestion is the assistant's previous utterance; contextual
	// answers ("no, directo") are interpreted against it.
	LastQuestion string
}

func (c TripContext) HasOrigin() bool  { return c.OriginName != "" }
func (c TripContext) HasDest() bool    { return c.DestinationName != "" }
func (c TripContext) HasRoute() bool   { return c.OriginName != "" && c.DestinationName != "" }
func (c TripContext) HasPending() bool { return c.PendingOrigin != "" && c.PendingDestination != "" }

// POIList returns the catalog slice a turn should reason about: the visible
// set when non-empty, else everything.
func (c TripContext) POIList() []poi.POI {
	if len(c.VisiblePOIs) > 0 {
		return c.VisiblePOIs
	}
	return c.AllPOIs
}
