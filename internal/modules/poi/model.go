// README: POI aggregate (restaurants) and filter definitions.
package poi

import "tastetrip/internal/types"

// Service tags a restaurant can carry. Fixed vocabulary; the filter keys
// in Filters map onto these one-to-one (plus the openNow pseudo-filter).
const (
	ServiceEVCharger   = "ev_charger"
	ServiceVegan       = "vegan"
	ServiceWifi        = "wifi"
	ServiceTerraza     = "terraza"
	ServicePetFriendly = "pet_friendly"
	ServiceParking     = "parking"
)

type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type POI struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Rating      float64      `json:"rating"`
	Address     string       `json:"address"`
	Hours       Hours        `json:"hours"`
	Services    []string     `json:"services"`
	Coords      types.LatLng `json:"coords"`
}

// HasService checks tag membership.
func (p POI) HasService(tag string) bool {
	for _, s := range p.Services {
		if s == tag {
			return true
		}
	}
	return false
}

// Filters are independent boolean toggles; no mutual exclusion.
type Filters struct {
	OpenNow     bool `json:"openNow"`
	EVCharger   bool `json:"evCharger"`
	Vegan       bool `json:"vegan"`
	Wifi        bool `json:"wifi"`
	Terraza     bool `json:"terraza"`
	PetFriendly bool `json:"petFriendly"`
	Parking     bool `json:"parking"`
}

// Set flips the named filter. Unknown keys are ignored so a mis-parsed
// model reply cannot corrupt filter state.
func (f *Filters) Set(key string, value bool) bool {
	switch key {
	case "openNow":
		f.OpenNow = value
	case "evCharger":
		f.EVCharger = value
	case "vegan":
		f.Vegan = value
	case "wifi":
		f.Wifi = value
	case "terraza":
		f.Terraza = value
	case "petFriendly":
		f.PetFriendly = value
	case "parking":
		f.Parking = value
	default:
		return false
	}
	return true
}

// Active lists the keys currently switched on, in a stable order.
func (f Filters) Active() []string {
	var keys []string
	for _, e := range []struct {
		key string
		on  bool
	}{
		{"openNow", f.OpenNow},
		{"evCharger", f.EVCharger},
		{"vegan", f.Vegan},
		{"wifi", f.Wifi},
		{"terraza", f.Terraza},
		{"petFriendly", f.PetFriendly},
		{"parking", f.Parking},
	} {
		if e.on {
			keys = append(keys, e.key)
		}
	}
	return keys
}
