// README: Trip planning service: resolves city names to coordinates and
// fetches the driving route through all stops.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"tastetrip/internal/maps"
	"tastetrip/internal/types"
)

// Geocoder resolves free text to a named coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*types.Place, error)
}

// Router fetches driving routes. GetDetourEstimate is the cheap
// no-geometry variant used to price a diversion through one extra stop.
type Router interface {
	GetRoute(ctx context.Context, origin, destination types.LatLng, waypoints []types.LatLng) (*maps.Route, error)
	GetDetourEstimate(ctx context.Context, origin, via, destination types.LatLng) (distanceMeters, durationSeconds float64, err error)
}

// UnknownPlaceError identifies which leg of the request failed to geocode,
// so the assistant can name the offending city when asking again.
type UnknownPlaceError struct {
	Query string
}

func (e *UnknownPlaceError) Error() string {
	return fmt.Sprintf("unknown place %q", e.Query)
}

// Plan is a fully resolved trip: every name geocoded, route fetched.
type Plan struct {
	Origin      types.Place
	Destination types.Place
	Waypoints   []types.Place
	Route       *maps.Route
}

type Planner struct {
	geo    Geocoder
	router Router
	log    *slog.Logger
}

func NewPlanner(geo Geocoder, router Router, log *slog.Logger) *Planner {
	return &Planner{geo: geo, router: router, log: log}
}

// Plan geocodes each leg, then routes through them. A place that cannot be
// resolved surfaces as *UnknownPlaceError naming the query.
func (p *Planner) Plan(ctx context.Context, originName, destName string, waypointNames []string) (*Plan, error) {
	origin, err := p.resolve(ctx, originName)
	if err != nil {
		return nil, err
	}
	dest, err := p.resolve(ctx, destName)
	if err != nil {
		return nil, err
	}

	waypoints := make([]types.Place, 0, len(waypointNames))
	coords := make([]types.LatLng, 0, len(waypointNames))
	for _, name := range waypointNames {
		wp, err := p.resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, *wp)
		coords = append(coords, wp.Coords)
	}

	route, err := p.router.GetRoute(ctx, origin.Coords, dest.Coords, coords)
	if err != nil {
		return nil, fmt.Errorf("route %s → %s: %w", origin.Name, dest.Name, err)
	}

	p.log.Info("trip planned",
		"origin", origin.Name,
		"destination", dest.Name,
		"waypoints", len(waypoints),
		"distance_km", route.DistanceMeters/1000)

	return &Plan{
		Origin:      *origin,
		Destination: *dest,
		Waypoints:   waypoints,
		Route:       route,
	}, nil
}

// Detour reports the extra distance and time of diverting through via,
// relative to the given base route. Results are never negative.
func (p *Planner) Detour(ctx context.Context, origin, via, destination types.LatLng, base *maps.Route) (extraMeters, extraSeconds float64, err error) {
	dist, dur, err := p.router.GetDetourEstimate(ctx, origin, via, destination)
	if err != nil {
		return 0, 0, fmt.Errorf("detour estimate: %w", err)
	}
	return math.Max(0, dist-base.DistanceMeters), math.Max(0, dur-base.DurationSeconds), nil
}

func (p *Planner) resolve(ctx context.Context, name string) (*types.Place, error) {
	place, err := p.geo.Geocode(ctx, name)
	if err != nil {
		if errors.Is(err, maps.ErrPlaceNotFound) {
			return nil, &UnknownPlaceError{Query: name}
		}
		return nil, fmt.Errorf("geocode %q: %w", name, err)
	}
	return place, nil
}
