// README: Catalog CRUD handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tastetrip/internal/modules/poi"
)

type POIHandler struct {
	pois *poi.Service
}

func NewPOIHandler(svc *poi.Service) *POIHandler {
	return &POIHandler{pois: svc}
}

func (h *POIHandler) List(c *gin.Context) {
	all, err := h.pois.List(c.Request.Context())
	if err != nil {
		writePOIError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, all)
}

func (h *POIHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.pois.Get(c.Request.Context(), id)
	if err != nil {
		writePOIError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (h *POIHandler) Create(c *gin.Context) {
	var p poi.POI
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.pois.Create(c.Request.Context(), p)
	if err != nil {
		writePOIError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

func (h *POIHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p poi.POI
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p.ID = id
	if err := h.pois.Update(c.Request.Context(), p); err != nil {
		writePOIError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

func (h *POIHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pois.Delete(c.Request.Context(), id); err != nil {
		writePOIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
