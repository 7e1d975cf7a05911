package weather

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"nimbus-web/internal/events"
	"nimbus-web/internal/migrate"
	"nimbus-web/internal/modules/weather/views"
	"nimbus-web/internal/upstream"
)

func TestRegisterFeature(t *testing.T) {
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "-34.9667" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":12.5,"windspeed":8,"winddirection":200,"weathercode":3,"time":"2025-06-01T09:00"}}`))
	}))
	t.Cleanup(api.Close)

	mux := http.NewServeMux()
	client := upstream.NewClient(api.Client(), time.Second)
	resolve := func(string) string { return api.URL }
	if err := RegisterFeature(ctx, mux, db, client, resolve, events.Nop{}); err != nil {
		t.Fatalf("RegisterFeature() error = %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partials/clima?zona=sur", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	body := rec.Body.String()
	if n := strings.Count(body, `data-card="ok"`); n != 2 {
		t.Errorf("ok cards = %d; want 2", n)
	}
	if n := strings.Count(body, `data-card="error"`); n != 1 {
		t.Errorf("error cards = %d; want 1", n)
	}
	first := strings.Index(body, "San Rafael")
	second := strings.Index(body, "General Alvear")
	third := strings.Index(body, "Malargüe")
	if first < 0 || second < first || third < second {
		t.Errorf("cards not in directory order: %d %d %d", first, second, third)
	}
	if !strings.Contains(body, "HTTP 500") {
		t.Error("error card missing status message")
	}
}

func TestRegisterFeature_missingSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = RegisterFeature(context.Background(), http.NewServeMux(), db, upstream.NewClient(nil, 0), func(string) string { return "" }, nil)
	if err == nil {
		t.Fatal("RegisterFeature() = nil error; want directory load error")
	}
}
