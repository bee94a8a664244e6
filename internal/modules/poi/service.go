// README: POI catalog service: admin CRUD plus visible-POI computation
// (distance to route, direction, service filters, open-now).
package poi

import (
	"context"
	"log/slog"
	"time"

	"tastetrip/internal/timeutil"
	"tastetrip/internal/types"
)

// DefaultSearchRadiusKm bounds how far off the route a restaurant may sit
// and still be recommended.
const DefaultSearchRadiusKm = 30.0

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) List(ctx context.Context) ([]POI, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (POI, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p POI) (POI, error) {
	created, err := s.store.Create(ctx, p)
	if err == nil {
		s.log.Info("poi created", "id", created.ID, "name", created.Name)
	}
	return created, err
}

func (s *Service) Update(ctx context.Context, p POI) error {
	return s.store.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// VisibleQuery carries everything that decides whether a catalog entry is
// currently recommendable on the trip.
type VisibleQuery struct {
	Geometry    []types.LatLng
	Origin      *types.LatLng
	Destination *types.LatLng
	RadiusKm    float64
	OnlyForward bool
	Filters     Filters
	DepartAt    time.Time
}

// Visible returns the catalog entries within RadiusKm of the route polyline
// that pass the direction check and every active filter. No geometry means
// no route yet, so nothing is visible.
func (s *Service) Visible(ctx context.Context, q VisibleQuery) ([]POI, error) {
	if len(q.Geometry) == 0 {
		return nil, nil
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = DefaultSearchRadiusKm
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var visible []POI
	for _, p := range all {
		if MinDistanceToRoute(p.Coords.Lat, p.Coords.Lng, q.Geometry) > q.RadiusKm {
			continue
		}
		if q.OnlyForward && !IsForward(p.Coords.Lat, p.Coords.Lng, q.Origin, q.Destination) {
			continue
		}
		if !matchesFilters(p, q.Filters, q.DepartAt) {
			continue
		}
		visible = append(visible, p)
	}
	return visible, nil
}

func matchesFilters(p POI, f Filters, departAt time.Time) bool {
	if f.OpenNow && !timeutil.WithinOpenHours(p.Hours.Open, p.Hours.Close, departAt) {
		return false
	}
	for _, c := range []struct {
		on  bool
		tag string
	}{
		{f.EVCharger, ServiceEVCharger},
		{f.Vegan, ServiceVegan},
		{f.Wifi, ServiceWifi},
		{f.Terraza, ServiceTerraza},
		{f.PetFriendly, ServicePetFriendly},
		{f.Parking, ServiceParking},
	} {
		if c.on && !p.HasService(c.tag) {
			return false
		}
	}
	return true
}

// ServiceForFilter maps a filter key to the service tag it checks, or "".
func ServiceForFilter(key string) string {
	switch key {
	case "evCharger":
		return ServiceEVCharger
	case "vegan":
		return ServiceVegan
	case "wifi":
		return ServiceWifi
	case "terraza":
		return ServiceTerraza
	case "petFriendly":
		return ServicePetFriendly
	case "parking":
		return ServiceParking
	}
	return ""
}
