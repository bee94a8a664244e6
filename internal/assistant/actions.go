// README: Action execution: applies a resolved turn to the trip state and
// produces the spoken reply.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/trip"
	"tastetrip/internal/nlu"
	"tastetrip/internal/timeutil"
)

func (s *Session) execute(ctx context.Context, res nlu.Result) string {
	switch res.Action {
	case nlu.ActionCalculateRoute:
		return s.executeCalculateRoute(ctx, res)

	case nlu.ActionAddWaypoint:
		if len(res.Args.Waypoints) == 0 {
			return "¿En qué ciudad quieres parar?"
		}
		if !s.state.HasRoute() {
			return "Primero necesitamos una ruta. ¿Desde qué ciudad sales?"
		}
		names := append(s.state.WaypointNames(), res.Args.Waypoints...)
		return s.performRoute(ctx, s.state.Origin.Name, s.state.Destination.Name, names)

	case nlu.ActionRemoveWaypoint:
		return s.executeRemoveWaypoint(ctx, res)

	case nlu.ActionAddPOI:
		if res.Args.POI == nil {
			return res.Speak
		}
		if s.state.HasStop(res.Args.POI.ID) {
			return res.Args.POI.Name + " ya está en la ruta."
		}
		s.state.AddedStops = append(s.state.AddedStops, *res.Args.POI)
		return s.addStopReply(ctx, *res.Args.POI)

	case nlu.ActionRemovePOI:
		if res.Args.POI == nil || !s.state.RemoveStop(res.Args.POI.ID) {
			return "No encuentro esa parada en tu ruta."
		}
		if res.Speak != "" {
			return res.Speak
		}
		return "He quitado " + res.Args.POI.Name + "."

	case nlu.ActionSetFilter:
		if !s.state.Filters.Set(res.Args.FilterKey, res.Args.FilterValue) {
			return "No conozco ese filtro."
		}
		s.refreshVisible(ctx)
		if res.Speak != "" {
			return res.Speak
		}
		return s.filterSummary()

	case nlu.ActionClearFilter:
		if res.Args.FilterKey == "" {
			s.state.Filters = poi.Filters{}
		} else {
			s.state.Filters.Set(res.Args.FilterKey, false)
		}
		s.refreshVisible(ctx)
		if res.Speak != "" {
			return res.Speak
		}
		return "Filtro desactivado."

	case nlu.ActionSetDepartureTime:
		return s.executeSetDepartureTime(ctx, res)

	case nlu.ActionSetOrigin:
		// Only reachable when the cascade runs without a full route; keep
		// the name for the eventual calculation.
		if res.Args.Origin != "" {
			s.bootOrigin = res.Args.Origin
			s.advancePhase(PhaseAskingDest)
		}
		return res.Speak

	case nlu.ActionSetDestination:
		if res.Args.Destination != "" && s.originName() != "" {
			return s.executeCalculateRoute(ctx, nlu.Result{
				Action: nlu.ActionCalculateRoute,
				Args: nlu.Args{
					Origin:      s.originName(),
					Destination: res.Args.Destination,
					Waypoints:   []string{},
				},
			})
		}
		return res.Speak

	default: // ActionNone
		return res.Speak
	}
}

func (s *Session) originName() string {
	if s.state.Origin != nil {
		return s.state.Origin.Name
	}
	return s.bootOrigin
}

func (s *Session) executeCalculateRoute(ctx context.Context, res nlu.Result) string {
	origin := res.Args.Origin
	if origin == "" {
		origin = s.originName()
	}
	dest := res.Args.Destination
	if origin == "" || dest == "" {
		return "Necesito saber desde dónde sales y a dónde vas."
	}

	routeExists := s.state.HasRoute() &&
		strings.EqualFold(s.state.Origin.Name, origin) &&
		strings.EqualFold(s.state.Destination.Name, dest)

	// A brand-new destination with no stops requested gets the stops
	// question exactly once before we spend a route calculation on it.
	if !routeExists && len(res.Args.Waypoints) == 0 && !s.state.AlreadyAskedStops(dest) {
		s.state.PendingOrigin = origin
		s.state.PendingDestination = dest
		s.state.MarkAskedStops(dest)
		return fmt.Sprintf("¿Vamos directos a %s o quieres añadir alguna parada de paso?", dest)
	}

	return s.performRoute(ctx, origin, dest, res.Args.Waypoints)
}

func (s *Session) executeRemoveWaypoint(ctx context.Context, res nlu.Result) string {
	target := res.Args.POIName
	if len(res.Args.Waypoints) > 0 {
		target = res.Args.Waypoints[0]
	}
	if target == "" || !s.state.HasRoute() {
		return "No encuentro esa parada en la ruta."
	}

	kept := make([]string, 0, len(s.state.Waypoints))
	for _, w := range s.state.Waypoints {
		if !strings.Contains(strings.ToLower(w.Name), strings.ToLower(target)) {
			kept = append(kept, w.Name)
		}
	}
	if len(kept) == len(s.state.Waypoints) {
		return "No encuentro esa parada en la ruta."
	}
	return s.performRoute(ctx, s.state.Origin.Name, s.state.Destination.Name, kept)
}

// addStopReply confirms a new stop and, when a route exists, says roughly
// how much of a detour it costs.
func (s *Session) addStopReply(ctx context.Context, p poi.POI) string {
	msg := "He añadido " + p.Name + " a tu ruta."
	if !s.state.HasRoute() {
		return msg
	}
	_, extraSec, err := s.cfg.Planner.Detour(ctx,
		s.state.Origin.Coords, p.Coords, s.state.Destination.Coords, s.state.Route)
	if err != nil {
		s.log.Warn("detour estimate failed", "poi", p.Name, "error", err)
		return msg
	}
	if extraSec < 60 {
		return msg + " Apenas supone desvío."
	}
	return msg + " Supone un desvío de unos " + durationSpoken(extraSec) + "."
}

func (s *Session) executeSetDepartureTime(ctx context.Context, res nlu.Result) string {
	now := s.cfg.Clock()
	day := now
	if res.Args.Tomorrow {
		day = day.AddDate(0, 0, 1)
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), res.Args.Hours, res.Args.Minutes, 0, 0, now.Location())
	s.state.DepartureTime = t
	s.refreshVisible(ctx)

	if res.Speak != "" {
		return res.Speak
	}
	return "Salida " + timeutil.FormatRelativeDay(t, now, true) + "."
}

// performRoute geocodes, routes, refreshes visible POIs and decides what
// to announce. Pending legs are consumed whether or not the plan succeeds
// in naming replacement cities.
func (s *Session) performRoute(ctx context.Context, origin, dest string, waypoints []string) string {
	plan, err := s.cfg.Planner.Plan(ctx, origin, dest, waypoints)
	if err != nil {
		var upe *trip.UnknownPlaceError
		if errors.As(err, &upe) {
			return fmt.Sprintf("No encuentro la ciudad %s. ¿Puedes repetirla?", upe.Query)
		}
		s.log.Error("route planning failed", "error", err)
		return "No he podido calcular la ruta. Inténtalo de nuevo en un momento."
	}

	s.state.Origin = &plan.Origin
	s.state.Destination = &plan.Destination
	s.state.Waypoints = plan.Waypoints
	s.state.Route = plan.Route
	s.state.ClearPending()
	s.advancePhase(PhaseActive)

	s.refreshVisible(ctx)

	// Announce only when the route actually changed.
	key := s.state.RouteKey()
	if key == s.announcedRouteKey {
		return "La ruta sigue igual."
	}
	s.announcedRouteKey = key
	return s.routeSummary()
}

func (s *Session) refreshVisible(ctx context.Context) {
	if s.state.Route == nil {
		s.visible = nil
		return
	}
	departAt := s.state.DepartureTime
	if departAt.IsZero() {
		departAt = s.cfg.Clock()
	}
	visible, err := s.cfg.POIs.Visible(ctx, poi.VisibleQuery{
		Geometry:    s.state.Route.Geometry,
		Origin:      &s.state.Origin.Coords,
		Destination: &s.state.Destination.Coords,
		OnlyForward: true,
		Filters:     s.state.Filters,
		DepartAt:    departAt,
	})
	if err != nil {
		s.log.Error("visible poi query failed", "error", err)
		return
	}
	s.visible = visible
}

func (s *Session) filterSummary() string {
	active := s.state.Filters.Active()
	if len(active) == 0 {
		return "Sin filtros activos."
	}
	if len(s.visible) == 0 {
		return "He aplicado el filtro, pero no veo ningún sitio que lo cumpla en la ruta."
	}
	names := make([]string, 0, 3)
	for i, p := range s.visible {
		if i == 3 {
			break
		}
		names = append(names, p.Name)
	}
	return fmt.Sprintf("Con el filtro veo %s. Por ejemplo: %s.",
		countSpoken(len(s.visible), "sitio", "sitios"), strings.Join(names, ", "))
}
