// Package api assembles the inventory server's HTTP surface: the HTML pages,
// the JSON:API resources, the OpenAPI document and the operational
// endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/artpar/inventory/internal/shell/api/middleware"
	"github.com/artpar/inventory/internal/shell/api/openapi"
	"github.com/artpar/inventory/internal/shell/api/resources"
	"github.com/artpar/inventory/internal/shell/inventory"
	"github.com/artpar/inventory/internal/shell/web"
	"github.com/gorilla/mux"
	"github.com/manyminds/api2go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// API Setup
// =============================================================================

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIConfig holds configuration for the API setup.
type APIConfig struct {
	Service *inventory.Service
	Store   Pinger
	Logger  *slog.Logger

	// MetricsEnabled mounts GET /metrics.
	MetricsEnabled bool
}

// SetupAPI creates the complete router. Operational endpoints and the
// JSON:API are matched first; every other path goes to the HTML pages.
func SetupAPI(cfg APIConfig) (http.Handler, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	pages, err := web.NewHandler(cfg.Service, cfg.Logger)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	observe := middleware.NewObserve(middleware.ObserveConfig{
		Logger:      cfg.Logger,
		SkipLogging: []string{"/health", "/ready", "/metrics"},
	})
	router.Use(observe.Handler)

	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/ready", readyHandler(cfg.Store)).Methods("GET")
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// api2go expects paths without the /api prefix
	jsonAPI := api2go.NewAPIWithResolver("v1", api2go.NewStaticResolver("/api"))
	jsonAPI.ContentType = "application/vnd.api+json"
	jsonAPI.AddResource(resources.Category{}, resources.NewCategoryResource(cfg.Service))
	jsonAPI.AddResource(resources.Item{}, resources.NewItemResource(cfg.Service))

	router.HandleFunc("/openapi.json", newOpenAPIGenerator().Handler()).Methods("GET")
	router.PathPrefix("/api").Handler(http.StripPrefix("/api", jsonAPI.Handler()))

	router.PathPrefix("/").Handler(pages.Routes())

	return router, nil
}

func newOpenAPIGenerator() *openapi.Generator {
	gen := openapi.NewGenerator(
		openapi.WithTitle("Inventory API"),
		openapi.WithVersion("1.0.0"),
		openapi.WithDescription("Categories and items, following the JSON:API specification"),
		openapi.WithServer("/"),
	)
	gen.RegisterResource(openapi.ResourceInfo{
		Name:           "categories",
		Model:          resources.Category{},
		SupportsFind:   true,
		SupportsCreate: true,
		SupportsUpdate: true,
		SupportsDelete: true,
	})
	gen.RegisterResource(openapi.ResourceInfo{
		Name:           "items",
		Model:          resources.Item{},
		Relationships:  []openapi.Relationship{{Name: "category", Type: "categories"}},
		SupportsFind:   true,
		SupportsCreate: true,
		SupportsUpdate: false, // answers 501
		SupportsDelete: true,
	})
	return gen
}

// =============================================================================
// Health Handlers
// =============================================================================

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		checks := make(map[string]string)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			checks["database"] = "failed"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "not_ready",
				"checks": checks,
			})
			return
		}
		checks["database"] = "ok"

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ready",
			"checks": checks,
		})
	}
}
