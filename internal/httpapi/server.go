package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nimbus-web/internal/config"
)

// NewHandler wraps the feature mux in the request middleware chain.
// Forwarding headers rewrite RemoteAddr only when cfg.TrustProxyHeaders is set.
func NewHandler(cfg config.Config, mux *http.ServeMux) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Mount("/", mux)
	return r
}

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
