package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns the base mux with /healthz and, when staticDir is set,
// the asset file server under /static/. Feature modules add their own routes.
func NewMux(db *sql.DB, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	if staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return mux
}
