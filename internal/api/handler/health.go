package handler

import (
	"context"
	"net/http"

	"github.com/JacobChan182/NoMoreTears/internal/api/response"
	"github.com/JacobChan182/NoMoreTears/internal/routing"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// Pinger reports storage backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness reports whether the service can take traffic and which storage
// backend it is running on. A nil pinger means the in-memory fallback.
func Readiness(storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := "memory"
		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				response.ServiceUnavailable(w, "storage unreachable")
				return
			}
			backend = "mongo"
		}
		response.OK(w, map[string]string{
			"status":  "ready",
			"storage": backend,
		})
	}
}

// ListProviders returns the model allow-list and the routing defaults.
func ListProviders(router *routing.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := router.Config()
		response.OK(w, map[string]any{
			"providers": routing.AllowedModels(),
			"routing": map[string]string{
				"default_provider": cfg.DefaultProvider,
				"default_model":    cfg.DefaultModel,
				"fast_provider":    cfg.FastProvider,
				"fast_model":       cfg.FastModel,
				"logical_provider": cfg.LogicalProvider,
				"logical_model":    cfg.LogicalModel,
			},
		})
	}
}
