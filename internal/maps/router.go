// README: OSRM routing client; fetches driving routes with polyline
// geometry, plus a cheaper geometry-less variant for detour estimates.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tastetrip/internal/types"
)

const defaultOSRMBase = "https://router.project-osrm.org"

var ErrNoRoute = fmt.Errorf("no route found")

// Route is the routing collaborator's output the NLU core consumes.
type Route struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []types.LatLng
}

type RouteService struct {
	base   string
	client *http.Client
}

func NewRouteService() *RouteService {
	return &RouteService{
		base:   defaultOSRMBase,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewRouteServiceWithBase points the client at a non-default OSRM instance.
func NewRouteServiceWithBase(base string) *RouteService {
	s := NewRouteService()
	s.base = strings.TrimSuffix(base, "/")
	return s
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// GetRoute fetches the driving route origin → waypoints… → destination with
// full geometry.
func (s *RouteService) GetRoute(ctx context.Context, origin, destination types.LatLng, waypoints []types.LatLng) (*Route, error) {
	coords := make([]string, 0, len(waypoints)+2)
	coords = append(coords, fmt.Sprintf("%f,%f", origin.Lng, origin.Lat))
	for _, w := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", w.Lng, w.Lat))
	}
	coords = append(coords, fmt.Sprintf("%f,%f", destination.Lng, destination.Lat))

	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=polyline",
		s.base, strings.Join(coords, ";"))

	resp, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	r := resp.Routes[0]
	return &Route{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        decodePolyline(r.Geometry),
	}, nil
}

// GetDetourEstimate routes origin → via → destination without geometry and
// returns distance/duration only. Used to price a stop before committing.
func (s *RouteService) GetDetourEstimate(ctx context.Context, origin, via, destination types.LatLng) (distanceMeters, durationSeconds float64, err error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f;%f,%f?overview=false",
		s.base, origin.Lng, origin.Lat, via.Lng, via.Lat, destination.Lng, destination.Lat)

	resp, err := s.fetch(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	return resp.Routes[0].Distance, resp.Routes[0].Duration, nil
}

func (s *RouteService) fetch(ctx context.Context, url string) (*osrmResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm status %d", res.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("osrm decode: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, ErrNoRoute
	}
	return &parsed, nil
}

// decodePolyline expands a Google-encoded polyline (precision 5, the OSRM
// default) into coordinates.
func decodePolyline(encoded string) []types.LatLng {
	var coords []types.LatLng
	var lat, lng int64
	i := 0

	// next decodes one varint delta; reports false on truncated input.
	next := func() (int64, bool) {
		var delta, shift int64
		for {
			if i >= len(encoded) {
				return 0, false
			}
			b := int64(encoded[i]) - 63
			i++
			delta |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		if delta&1 != 0 {
			return ^(delta >> 1), true
		}
		return delta >> 1, true
	}

	for i < len(encoded) {
		dLat, ok := next()
		if !ok {
			break
		}
		dLng, ok := next()
		if !ok {
			break
		}
		lat += dLat
		lng += dLng
		coords = append(coords, types.LatLng{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
	}
	return coords
}
