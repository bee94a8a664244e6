// Package poi — geo.go contains pure geographic computation helpers.
package poi

import (
	"math"

	"tastetrip/internal/types"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// MinDistanceToRoute returns the minimum distance in km from a point to a
// route polyline. Long polylines are sampled at a coarse step first and the
// search is then refined around the best sample, keeping the scan bounded
// regardless of geometry length.
func MinDistanceToRoute(lat, lng float64, geometry []types.LatLng) float64 {
	if len(geometry) == 0 {
		return math.Inf(1)
	}

	step := len(geometry) / 500
	if step < 1 {
		step = 1
	}

	minDist := math.Inf(1)
	bestIdx := 0
	for i := 0; i < len(geometry); i += step {
		d := haversineKm(lat, lng, geometry[i].Lat, geometry[i].Lng)
		if d < minDist {
			minDist = d
			bestIdx = i
		}
	}

	start := bestIdx - step
	if start < 0 {
		start = 0
	}
	end := bestIdx + step
	if end > len(geometry)-1 {
		end = len(geometry) - 1
	}
	for i := start; i <= end; i++ {
		if d := haversineKm(lat, lng, geometry[i].Lat, geometry[i].Lng); d < minDist {
			minDist = d
		}
	}

	return minDist
}

// IsForward reports whether the point projects inside the origin→destination
// segment, i.e. the detour does not double back behind the origin or shoot
// past the destination. Missing endpoints count as forward.
func IsForward(lat, lng float64, origin, dest *types.LatLng) bool {
	if origin == nil || dest == nil {
		return true
	}

	vX := dest.Lat - origin.Lat
	vY := dest.Lng - origin.Lng
	pX := lat - origin.Lat
	pY := lng - origin.Lng

	dot := pX*vX + pY*vY
	if dot < 0 {
		return false
	}
	if magSq := vX*vX + vY*vY; dot > magSq {
		return false
	}
	return true
}
