// README: Shared value objects used across modules.
package types

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a geocoded location: the resolved display name plus coordinates.
type Place struct {
	Name   string `json:"name"`
	Coords LatLng `json:"coords"`
}
