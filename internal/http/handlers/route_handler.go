// README: Route planning handler: city names in, resolved plan out.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tastetrip/internal/modules/trip"
	"tastetrip/internal/types"
)

type RouteHandler struct {
	planner *trip.Planner
}

func NewRouteHandler(planner *trip.Planner) *RouteHandler {
	return &RouteHandler{planner: planner}
}

type planRouteReq struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Waypoints   []string `json:"waypoints"`
}

type placeResp struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type planRouteResp struct {
	Origin          placeResp      `json:"origin"`
	Destination     placeResp      `json:"destination"`
	Waypoints       []placeResp    `json:"waypoints"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
	Geometry        []types.LatLng `json:"geometry"`
}

func (h *RouteHandler) Plan(c *gin.Context) {
	var req planRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == "" || req.Destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}

	plan, err := h.planner.Plan(c.Request.Context(), req.Origin, req.Destination, req.Waypoints)
	if err != nil {
		writeTripError(c, err)
		return
	}

	resp := planRouteResp{
		Origin:          toPlaceResp(plan.Origin),
		Destination:     toPlaceResp(plan.Destination),
		Waypoints:       make([]placeResp, 0, len(plan.Waypoints)),
		DistanceMeters:  plan.Route.DistanceMeters,
		DurationSeconds: plan.Route.DurationSeconds,
		Geometry:        plan.Route.Geometry,
	}
	for _, w := range plan.Waypoints {
		resp.Waypoints = append(resp.Waypoints, toPlaceResp(w))
	}
	writeJSON(c, http.StatusOK, resp)
}

func toPlaceResp(p types.Place) placeResp {
	return placeResp{Name: p.Name, Lat: p.Coords.Lat, Lng: p.Coords.Lng}
}
