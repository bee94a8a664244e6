package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"tastetrip/internal/nlu"
)

// activeSession drives the bootstrap to an active Madrid → Sevilla route
// with a stop in Córdoba.
func activeSession(t *testing.T) (*Session, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	s, _ := newTestSession(t, sink)
	ctx := context.Background()
	s.HandleTranscript(ctx, "de Madrid a Sevilla")
	s.HandleTranscript(ctx, "quiero parar en Córdoba")
	if s.Phase() != PhaseActive {
		t.Fatalf("setup: phase = %s", s.Phase())
	}
	return s, sink
}

func TestExecute_AddPOIAndDedup(t *testing.T) {
	s, sink := activeSession(t)
	ctx := context.Background()

	s.HandleTranscript(ctx, "añade casa lucio")
	if len(s.state.AddedStops) != 1 || s.state.AddedStops[0].Name != "Casa Lucio" {
		t.Fatalf("stops = %+v", s.state.AddedStops)
	}
	// The fake router prices the diversion at 15 extra minutes.
	if e, _ := sink.lastSpeak(); !strings.Contains(e.Text, "desvío de unos quince minutos") {
		t.Errorf("add speak = %q", e.Text)
	}

	// Adding the same place twice keeps a single entry.
	s.HandleTranscript(ctx, "añade casa lucio otra vez")
	if len(s.state.AddedStops) != 1 {
		t.Errorf("stops after repeat = %d, want 1", len(s.state.AddedStops))
	}
	if e, _ := sink.lastSpeak(); !strings.Contains(e.Text, "ya está en la ruta") {
		t.Errorf("speak = %q", e.Text)
	}
}

func TestExecute_RemoveAddedPOI(t *testing.T) {
	s, sink := activeSession(t)
	ctx := context.Background()

	s.HandleTranscript(ctx, "añade casa lucio")
	s.HandleTranscript(ctx, "quita casa lucio")
	if len(s.state.AddedStops) != 0 {
		t.Errorf("stops = %+v", s.state.AddedStops)
	}
	if e, _ := sink.lastSpeak(); !strings.Contains(e.Text, "Casa Lucio") {
		t.Errorf("speak = %q", e.Text)
	}
}

func TestExecute_RemoveWaypointRecalculates(t *testing.T) {
	s, _ := activeSession(t)

	s.mu.Lock()
	reply := s.execute(context.Background(), nlu.Result{
		Action: nlu.ActionRemoveWaypoint,
		Args:   nlu.Args{Waypoints: []string{"córdoba"}},
	})
	waypoints := s.state.WaypointNames()
	s.mu.Unlock()

	if len(waypoints) != 0 {
		t.Errorf("waypoints = %v", waypoints)
	}
	if reply == "" {
		t.Error("removal should announce the recalculated route")
	}
}

func TestExecute_RemoveUnknownWaypoint(t *testing.T) {
	s, _ := activeSession(t)

	s.mu.Lock()
	reply := s.execute(context.Background(), nlu.Result{
		Action: nlu.ActionRemoveWaypoint,
		Args:   nlu.Args{Waypoints: []string{"Albacete"}},
	})
	s.mu.Unlock()

	if !strings.Contains(reply, "No encuentro esa parada") {
		t.Errorf("reply = %q", reply)
	}
	if len(s.state.Waypoints) != 1 {
		t.Errorf("waypoints changed: %v", s.state.WaypointNames())
	}
}

func TestExecute_SetDepartureTime(t *testing.T) {
	s, _ := activeSession(t)
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	s.cfg.Clock = func() time.Time { return now }

	s.mu.Lock()
	reply := s.execute(context.Background(), nlu.Result{
		Action: nlu.ActionSetDepartureTime,
		Args:   nlu.Args{Hours: 9, Minutes: 30, Tomorrow: true},
	})
	depart := s.state.DepartureTime
	s.mu.Unlock()

	want := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	if !depart.Equal(want) {
		t.Errorf("departure = %v, want %v", depart, want)
	}
	if !strings.Contains(reply, "mañana") || !strings.Contains(reply, "09:30h") {
		t.Errorf("reply = %q", reply)
	}
}

func TestExecute_FiltersToggle(t *testing.T) {
	s, _ := activeSession(t)
	ctx := context.Background()

	s.HandleTranscript(ctx, "busca sitios con terraza")
	if !s.state.Filters.Terraza {
		t.Fatal("terraza filter should be on")
	}

	s.HandleTranscript(ctx, "quita el filtro de terraza")
	if s.state.Filters.Terraza {
		t.Error("terraza filter should be off")
	}
}

func TestExecute_RouteUnchangedAnnouncement(t *testing.T) {
	s, _ := activeSession(t)

	s.mu.Lock()
	reply := s.execute(context.Background(), nlu.Result{
		Action: nlu.ActionCalculateRoute,
		Args:   nlu.Args{Origin: "Madrid", Destination: "Sevilla", Waypoints: []string{"Córdoba"}},
	})
	s.mu.Unlock()

	if !strings.Contains(reply, "sigue igual") {
		t.Errorf("recalculating the same route should say so, got %q", reply)
	}
}
