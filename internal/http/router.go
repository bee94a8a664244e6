// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tastetrip/internal/assistant"
	"tastetrip/internal/http/handlers"
	"tastetrip/internal/http/middleware"
	"tastetrip/internal/modules/poi"
	"tastetrip/internal/modules/trip"
)

type RouterDeps struct {
	POIs      *poi.Service
	Planner   *trip.Planner
	Assistant assistant.Config
	AdminKey  string
	Log       *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	poiHandler := handlers.NewPOIHandler(deps.POIs)
	r.GET("/api/pois", poiHandler.List)
	r.GET("/api/pois/:id", poiHandler.Get)

	admin := r.Group("/api/pois", middleware.AdminKey(deps.AdminKey))
	admin.POST("", poiHandler.Create)
	admin.PUT("/:id", poiHandler.Update)
	admin.DELETE("/:id", poiHandler.Delete)

	routeHandler := handlers.NewRouteHandler(deps.Planner)
	r.POST("/api/routes", routeHandler.Plan)

	assistantHandler := handlers.NewAssistantHandler(deps.Assistant)
	r.GET("/api/assistant/ws", assistantHandler.Serve)

	return r
}
