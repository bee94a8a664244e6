package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestGeocode_PhotonHit(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Madrid" {
			t.Errorf("query = %s", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-3.7038,40.4168]},"properties":{"name":"Madrid","country":"España"}}]}`))
	}))
	defer photon.Close()

	g := NewGeocoderWithBases(photon.URL, "http://127.0.0.1:0")
	place, err := g.Geocode(context.Background(), "Madrid")
	if err != nil {
		t.Fatal(err)
	}
	if place.Name != "Madrid, España" {
		t.Errorf("name = %q", place.Name)
	}
	if place.Coords.Lat != 40.4168 || place.Coords.Lng != -3.7038 {
		t.Errorf("coords = %+v", place.Coords)
	}
}

func TestGeocode_PhotonEmptyIsNotFound(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer photon.Close()

	// A clean "no results" from Photon must NOT fall through to Nominatim.
	nominatimCalled := false
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nominatimCalled = true
		w.Write([]byte(`[]`))
	}))
	defer nominatim.Close()

	g := NewGeocoderWithBases(photon.URL, nominatim.URL)
	_, err := g.Geocode(context.Background(), "Nonexistentville")
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
	if nominatimCalled {
		t.Error("nominatim must not be called when photon answers not-found")
	}
}

func TestGeocode_NominatimFallback(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer photon.Close()

	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"37.3891","lon":"-5.9845","display_name":"Sevilla, Andalucía, España"}]`))
	}))
	defer nominatim.Close()

	g := NewGeocoderWithBases(photon.URL, nominatim.URL)
	place, err := g.Geocode(context.Background(), "Sevilla")
	if err != nil {
		t.Fatal(err)
	}
	if place.Name != "Sevilla, Andalucía, España" {
		t.Errorf("name = %q", place.Name)
	}
	if place.Coords.Lat != 37.3891 {
		t.Errorf("lat = %f", place.Coords.Lat)
	}
}

func TestGeocode_EmptyQuery(t *testing.T) {
	g := NewGeocoder()
	if _, err := g.Geocode(context.Background(), "   "); !errors.Is(err, ErrPlaceNotFound) {
		t.Errorf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestGeocode_NominatimThrottleIsSharedAcrossGoroutines(t *testing.T) {
	photon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer photon.Close()

	var mu sync.Mutex
	var arrivals []time.Time
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.Write([]byte(`[{"lat":"37.3891","lon":"-5.9845","display_name":"Sevilla"}]`))
	}))
	defer nominatim.Close()

	// One geocoder serves every session; concurrent fallbacks must still
	// honor the 1 req/sec policy.
	g := NewGeocoderWithBases(photon.URL, nominatim.URL)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Geocode(context.Background(), "Sevilla"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if len(arrivals) != 3 {
		t.Fatalf("nominatim calls = %d, want 3", len(arrivals))
	}
	sort.Slice(arrivals, func(i, j int) bool { return arrivals[i].Before(arrivals[j]) })
	for i := 1; i < len(arrivals); i++ {
		if gap := arrivals[i].Sub(arrivals[i-1]); gap < nominatimDelay-100*time.Millisecond {
			t.Errorf("requests %d and %d only %v apart", i-1, i, gap)
		}
	}
}
