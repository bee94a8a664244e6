package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tastetrip/internal/modules/poi"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newPOIRouter() (*gin.Engine, *poi.Service) {
	gin.SetMode(gin.TestMode)
	svc := poi.NewService(poi.NewMemStore(poi.Seed()), discard())
	h := NewPOIHandler(svc)

	r := gin.New()
	r.GET("/api/pois", h.List)
	r.GET("/api/pois/:id", h.Get)
	r.POST("/api/pois", h.Create)
	r.PUT("/api/pois/:id", h.Update)
	r.DELETE("/api/pois/:id", h.Delete)
	return r, svc
}

func TestPOIHandler_ListAndGet(t *testing.T) {
	r, _ := newPOIRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pois", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var all []poi.POI
	if err := json.Unmarshal(w.Body.Bytes(), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("seeded catalog should not be empty")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pois/1", nil))
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pois/99999", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing poi status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pois/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}
}

func TestPOIHandler_CreateUpdateDelete(t *testing.T) {
	r, _ := newPOIRouter()

	body := `{"name":"El Nuevo","category":"tapas","rating":4.2,"address":"Calle Mayor 1, Madrid","coords":{"lat":40.41,"lng":-3.70}}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/pois", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	var created poi.POI
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Fatal("created poi must get an id")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/pois", strings.NewReader(`{"category":"tapas"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("nameless create status = %d", w.Code)
	}

	update := `{"name":"El Renombrado","category":"tapas"}`
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/pois/1", strings.NewReader(update)))
	if w.Code != http.StatusOK {
		t.Errorf("update status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/pois/1", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/pois/1", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d", w.Code)
	}
}
