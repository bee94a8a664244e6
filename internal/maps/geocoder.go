// README: Geocoding client: Photon first, Nominatim as fallback.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"tastetrip/internal/types"
)

const (
	defaultPhotonBase    = "https://photon.komoot.io"
	defaultNominatimBase = "https://nominatim.openstreetmap.org"

	// Nominatim's usage policy caps anonymous clients at 1 req/sec.
	nominatimDelay = 1100 * time.Millisecond
)

var ErrPlaceNotFound = errors.New("place not found")

type Geocoder struct {
	photonBase    string
	nominatimBase string
	client        *http.Client

	// lastNominatim throttles the fallback endpoint only; Photon has no
	// such policy. One Geocoder is shared across all sessions, so the
	// throttle window is guarded by nominatimMu.
	nominatimMu   sync.Mutex
	lastNominatim time.Time
}

func NewGeocoder() *Geocoder {
	return &Geocoder{
		photonBase:    defaultPhotonBase,
		nominatimBase: defaultNominatimBase,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

func NewGeocoderWithBases(photonBase, nominatimBase string) *Geocoder {
	g := NewGeocoder()
	g.photonBase = strings.TrimSuffix(photonBase, "/")
	g.nominatimBase = strings.TrimSuffix(nominatimBase, "/")
	return g
}

// Geocode resolves free text to a named coordinate. Photon is tried first;
// any transport failure falls through to Nominatim. ErrPlaceNotFound means
// both services answered but neither knew the place.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*types.Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrPlaceNotFound
	}

	place, err := g.photon(ctx, query)
	if err == nil {
		return place, nil
	}
	if errors.Is(err, ErrPlaceNotFound) {
		return nil, err
	}

	return g.nominatim(ctx, query)
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lng, lat
		} `json:"geometry"`
		Properties struct {
			Name    string `json:"name"`
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

func (g *Geocoder) photon(ctx context.Context, query string) (*types.Place, error) {
	u := fmt.Sprintf("%s/api/?q=%s&limit=1", g.photonBase, url.QueryEscape(query))

	var parsed photonResponse
	if err := g.getJSON(ctx, u, &parsed); err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}
	if len(parsed.Features) == 0 {
		return nil, ErrPlaceNotFound
	}

	f := parsed.Features[0]
	if len(f.Geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("photon: malformed coordinates")
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{f.Properties.Name, f.Properties.City, f.Properties.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	name := strings.Join(parts, ", ")
	if name == "" {
		name = query
	}

	return &types.Place{
		Name:   name,
		Coords: types.LatLng{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]},
	}, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *Geocoder) nominatim(ctx context.Context, query string) (*types.Place, error) {
	g.nominatimMu.Lock()
	if wait := nominatimDelay - time.Since(g.lastNominatim); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			g.nominatimMu.Unlock()
			return nil, ctx.Err()
		}
	}
	g.lastNominatim = time.Now()
	g.nominatimMu.Unlock()

	u := fmt.Sprintf("%s/search?format=json&q=%s&limit=1", g.nominatimBase, url.QueryEscape(query))

	var results []nominatimResult
	if err := g.getJSON(ctx, u, &results); err != nil {
		return nil, fmt.Errorf("nominatim: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrPlaceNotFound
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("nominatim: malformed coordinates")
	}

	return &types.Place{
		Name:   results[0].DisplayName,
		Coords: types.LatLng{Lat: lat, Lng: lng},
	}, nil
}

func (g *Geocoder) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "tastetrip/1.0")

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
