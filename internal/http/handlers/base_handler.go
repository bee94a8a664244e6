// README: Shared handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tastetrip/internal/maps"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePOIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, poi.ErrNotFound):
		writeError(c, http.StatusNotFound, "poi not found")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeTripError(c *gin.Context, err error) {
	var upe *trip.UnknownPlaceError
	switch {
	case errors.As(err, &upe):
		writeError(c, http.StatusUnprocessableEntity, "unknown place: "+upe.Query)
	case errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, "no route between those places")
	default:
		writeError(c, http.StatusBadGateway, "route planning failed")
	}
}
