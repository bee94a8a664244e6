package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tastetrip/internal/ai"
	"tastetrip/internal/assistant"
	"tastetrip/internal/maps"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/trip"
	"tastetrip/internal/types"
)

type stubGeo struct{}

func (stubGeo) Geocode(_ context.Context, query string) (*types.Place, error) {
	coords := map[string]types.LatLng{
		"Madrid":  {Lat: 40.4168, Lng: -3.7038},
		"Sevilla": {Lat: 37.3891, Lng: -5.9845},
	}
	c, ok := coords[query]
	if !ok {
		return nil, maps.ErrPlaceNotFound
	}
	return &types.Place{Name: query, Coords: c}, nil
}

type stubRouter struct{}

func (stubRouter) GetRoute(_ context.Context, o, d types.LatLng, _ []types.LatLng) (*maps.Route, error) {
	return &maps.Route{DistanceMeters: 530000, DurationSeconds: 19200,
		Geometry: []types.LatLng{o, d}}, nil
}

func (stubRouter) GetDetourEstimate(_ context.Context, _, _, _ types.LatLng) (float64, float64, error) {
	return 545000, 19800, nil
}

func dialAssistant(t *testing.T) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := assistant.Config{
		Agent:   ai.NewAgent(nil, discard()),
		Planner: trip.NewPlanner(stubGeo{}, stubRouter{}, discard()),
		POIs:    poi.NewService(poi.NewMemStore(poi.Seed()), discard()),
		Log:     discard(),
	}
	r := gin.New()
	r.GET("/ws", NewAssistantHandler(cfg).Serve)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilSpeak drains events until a speak frame arrives.
func readUntilSpeak(t *testing.T, conn *websocket.Conn) assistant.Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var e assistant.Event
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read: %v", err)
		}
		if e.Type == assistant.EventSpeak {
			return e
		}
	}
	t.Fatal("no speak event")
	return assistant.Event{}
}

func TestAssistantWebSocket_GreetsAndConverses(t *testing.T) {
	conn := dialAssistant(t)

	greeting := readUntilSpeak(t, conn)
	if !strings.Contains(greeting.Text, "ciudad") {
		t.Errorf("greeting = %q", greeting.Text)
	}
	if greeting.Utterance == 0 {
		t.Error("speak frames must carry an utterance number")
	}

	err := conn.WriteJSON(map[string]any{"type": "transcript", "text": "de Madrid a Sevilla"})
	if err != nil {
		t.Fatal(err)
	}
	reply := readUntilSpeak(t, conn)
	if !strings.Contains(reply.Text, "Sevilla") {
		t.Errorf("reply = %q", reply.Text)
	}
	if reply.Utterance == greeting.Utterance {
		t.Error("utterance numbers must advance")
	}
}

func TestAssistantWebSocket_PlaybackAckTriggersListen(t *testing.T) {
	conn := dialAssistant(t)
	greeting := readUntilSpeak(t, conn)

	err := conn.WriteJSON(map[string]any{"type": "playback_done", "utterance": greeting.Utterance})
	if err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var e assistant.Event
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read: %v", err)
		}
		if e.Type == assistant.EventListen {
			return
		}
	}
}
