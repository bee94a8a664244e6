package trip

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tastetrip/internal/maps"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/types"
)

func pnamed(id int64, name string) poi.POI { return poi.POI{ID: id, Name: name} }

type fakeGeo map[string]types.LatLng

func (f fakeGeo) Geocode(_ context.Context, query string) (*types.Place, error) {
	c, ok := f[query]
	if !ok {
		return nil, maps.ErrPlaceNotFound
	}
	return &types.Place{Name: query, Coords: c}, nil
}

type fakeRouter struct {
	gotWaypoints int
}

func (f *fakeRouter) GetRoute(_ context.Context, o, d types.LatLng, wps []types.LatLng) (*maps.Route, error) {
	f.gotWaypoints = len(wps)
	return &maps.Route{DistanceMeters: 530000, DurationSeconds: 19000,
		Geometry: []types.LatLng{o, d}}, nil
}

func (f *fakeRouter) GetDetourEstimate(_ context.Context, _, _, _ types.LatLng) (float64, float64, error) {
	return 545000, 19900, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPlan(t *testing.T) {
	geo := fakeGeo{
		"Madrid":  {Lat: 40.4168, Lng: -3.7038},
		"Córdoba": {Lat: 37.8882, Lng: -4.7794},
		"Sevilla": {Lat: 37.3891, Lng: -5.9845},
	}
	router := &fakeRouter{}
	p := NewPlanner(geo, router, discard())

	plan, err := p.Plan(context.Background(), "Madrid", "Sevilla", []string{"Córdoba"})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Origin.Name != "Madrid" || plan.Destination.Name != "Sevilla" {
		t.Errorf("plan = %s → %s", plan.Origin.Name, plan.Destination.Name)
	}
	if len(plan.Waypoints) != 1 || router.gotWaypoints != 1 {
		t.Errorf("waypoints: resolved %d, routed %d", len(plan.Waypoints), router.gotWaypoints)
	}
	if plan.Route.DistanceMeters != 530000 {
		t.Errorf("distance = %f", plan.Route.DistanceMeters)
	}
}

func TestDetour(t *testing.T) {
	geo := fakeGeo{}
	p := NewPlanner(geo, &fakeRouter{}, discard())
	base := &maps.Route{DistanceMeters: 530000, DurationSeconds: 19000}

	extraM, extraS, err := p.Detour(context.Background(),
		types.LatLng{Lat: 40.41, Lng: -3.70},
		types.LatLng{Lat: 39.86, Lng: -4.02},
		types.LatLng{Lat: 37.38, Lng: -5.98}, base)
	if err != nil {
		t.Fatal(err)
	}
	if extraM != 15000 || extraS != 900 {
		t.Errorf("detour = %.0f m, %.0f s; want 15000 m, 900 s", extraM, extraS)
	}
}

func TestPlan_UnknownPlaceNamesTheLeg(t *testing.T) {
	geo := fakeGeo{"Madrid": {Lat: 40.4168, Lng: -3.7038}}
	p := NewPlanner(geo, &fakeRouter{}, discard())

	_, err := p.Plan(context.Background(), "Madrid", "Xyzzy", nil)
	var upe *UnknownPlaceError
	if !errors.As(err, &upe) {
		t.Fatalf("expected UnknownPlaceError, got %v", err)
	}
	if upe.Query != "Xyzzy" {
		t.Errorf("query = %q, want Xyzzy", upe.Query)
	}
}

func TestState_AskedStopsDedup(t *testing.T) {
	var s State
	if s.AlreadyAskedStops("Sevilla") {
		t.Fatal("fresh state must not claim an asked destination")
	}
	s.MarkAskedStops("Sevilla")

	// The key is the destination name, lowercased and trimmed.
	for _, v := range []string{"Sevilla", "sevilla", "  SEVILLA  "} {
		if !s.AlreadyAskedStops(v) {
			t.Errorf("%q should hit the dedup key", v)
		}
	}
	if s.AlreadyAskedStops("Granada") {
		t.Error("different destination must not be deduped")
	}
}

func TestState_RouteKey(t *testing.T) {
	var s State
	if s.RouteKey() != "" {
		t.Errorf("empty state key = %q", s.RouteKey())
	}

	s.Origin = &types.Place{Name: "Madrid"}
	s.Destination = &types.Place{Name: "Sevilla"}
	direct := s.RouteKey()

	s.Waypoints = []types.Place{{Name: "Córdoba"}}
	withStop := s.RouteKey()
	if direct == withStop {
		t.Error("adding a waypoint must change the route key")
	}
}

func TestState_Stops(t *testing.T) {
	var s State
	s.AddedStops = append(s.AddedStops, pnamed(1, "Casa Lucio"), pnamed(2, "Bodegas Campos"))

	if !s.HasStop(1) || s.HasStop(9) {
		t.Error("HasStop membership wrong")
	}
	if !s.RemoveStop(1) || s.RemoveStop(1) {
		t.Error("RemoveStop should succeed once, then report no change")
	}
	if len(s.AddedStops) != 1 || s.AddedStops[0].ID != 2 {
		t.Errorf("stops = %+v", s.AddedStops)
	}
}
