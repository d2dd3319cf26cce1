package api

import (
	"drone-dispatch-service/internal/api/handlers"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Dependencies of the HTTP API.
type Deps struct {
	Ref            ports.ReferenceProvider
	Planner        handlers.DeliveryPlanner
	Finder         services.PathFinder
	Geo            geo.Config
	AllowedOrigins []string
	Log            *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(loggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	health := &handlers.HealthHandler{Ref: d.Ref}
	geometry := &handlers.GeometryHandler{Cfg: d.Geo}
	drones := &handlers.DroneHandler{Ref: d.Ref, Cfg: d.Geo}
	plans := &handlers.PlanHandler{Ref: d.Ref, Planner: d.Planner, Finder: d.Finder}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Post("/distanceTo", geometry.DistanceTo)
		r.Post("/isCloseTo", geometry.IsCloseTo)
		r.Post("/nextPosition", geometry.NextPosition)
		r.Post("/isInRegion", geometry.IsInRegion)

		r.Get("/dronesWithCooling/{state}", drones.DronesWithCooling)
		r.Get("/droneDetails/{id}", drones.DroneDetails)
		r.Get("/queryAsPath/{attribute}/{value}", drones.QueryAsPath)
		r.Post("/query", drones.Query)
		r.Post("/queryAvailableDrones", drones.QueryAvailableDrones)

		r.Post("/calcPath", plans.CalcPath)
		r.Post("/calcDeliveryPath", plans.CalcDeliveryPath)
		r.Post("/calcDeliveryPathAsGeoJson", plans.CalcDeliveryPathAsGeoJSON)
	})

	return r
}
