package api

import (
	"net/http"
	"route-order-service/internal/api/handlers"
	"route-order-service/internal/ports"
)

// Dependencies of the HTTP surface. Repo and Sinks are optional.
type RouterDeps struct {
	ProviderName string
	Provider     ports.MatrixProvider
	Repo         ports.PlanRepository
	Sinks        []ports.PlanSink
	APILimit     int
	Concurrency  int
	DistanceUnit string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Provider:        deps.Provider,
		Repo:            deps.Repo,
		Sinks:           deps.Sinks,
		DefaultAPILimit: deps.APILimit,
		Concurrency:     deps.Concurrency,
		DistanceUnit:    deps.DistanceUnit,
	}

	healthHandler := &handlers.HealthHandler{
		Provider: deps.ProviderName,
		History:  deps.Repo != nil,
		Sinks:    len(deps.Sinks),
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/routes", routeHandler.Routes)

	// requestIDMiddleware runs first so the access log sees the id.
	return requestIDMiddleware(loggingMiddleware(mux))
}
