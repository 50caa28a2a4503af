package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deedflow/internal/transport/http/shared"
)

// Registrar mounts a feature's routes onto the root router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints. Feature handlers own their routes and
// middleware; the router only adds the operational surface.
func NewRouter(features ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "deedflow"})
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, feature := range features {
		feature.Register(r)
	}
	return r
}
