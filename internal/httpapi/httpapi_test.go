package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"nimbus-web/internal/config"
	"nimbus-web/internal/utils"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestServer(t *testing.T, db *sql.DB, staticDir string) *httptest.Server {
	t.Helper()

	mux := NewMux(db, staticDir)
	mux.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	srv := NewServer(config.Config{HTTPAddr: ":0"}, mux)
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetRaw(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, openDB(t), "")

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body.status=%q want=%q", body["status"], "ok")
	}
}

func TestHealthz_closedDB(t *testing.T) {
	db := openDB(t)
	ts := newTestServer(t, db, "")
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/healthz")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusInternalServerError)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("expected message field, got %v", body)
	}
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "css", "nimbus.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, openDB(t), dir)

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/static/css/nimbus.css")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusOK)
	}
	b, _ := io.ReadAll(resp.Body)
	if string(b) != "body{}" {
		t.Errorf("body = %q", b)
	}

	resp = mustGetRaw(t, ts.Client(), ts.URL+"/static/missing.css")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing asset status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestStatic_disabled(t *testing.T) {
	ts := newTestServer(t, openDB(t), "")

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/static/css/nimbus.css")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRouting_UnknownRoute(t *testing.T) {
	ts := newTestServer(t, openDB(t), "")

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/does-not-exist")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestRouting_WrongMethod(t *testing.T) {
	ts := newTestServer(t, openDB(t), "")

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestRequestLogger(t *testing.T) {
	logs := captureLogs(t)
	ts := newTestServer(t, openDB(t), "")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("HX-Request", "true")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()

	var rec map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var m map[string]any
		if json.Unmarshal([]byte(line), &m) == nil && m["msg"] == "http request" {
			rec = m
		}
	}
	if rec == nil {
		t.Fatalf("no http request record in %s", logs.String())
	}
	if rec["path"] != "/healthz" || rec["method"] != "GET" || rec["status"] != float64(200) {
		t.Errorf("record = %v", rec)
	}
	if id, _ := rec["request_id"].(string); id == "" {
		t.Error("request_id missing")
	}
	if rec["htmx"] != true {
		t.Errorf("htmx = %v; want true", rec["htmx"])
	}
}

func TestRecoverer(t *testing.T) {
	logs := captureLogs(t)
	ts := newTestServer(t, openDB(t), "")

	resp := mustGetRaw(t, ts.Client(), ts.URL+"/panic")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d want=%d", resp.StatusCode, http.StatusInternalServerError)
	}
	if !strings.Contains(logs.String(), `"status":500`) {
		t.Errorf("panic request not logged with 500: %s", logs.String())
	}
}

func TestClientIP_forwardingHeaders(t *testing.T) {
	tests := []struct {
		name  string
		trust bool
		want  string
	}{
		{name: "ignored by default", trust: false, want: ""},
		{name: "honoured behind trusted proxy", trust: true, want: "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := NewMux(openDB(t), "")
			mux.HandleFunc("GET /ip", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, utils.ClientIP(r))
			})
			ts := httptest.NewServer(NewHandler(config.Config{TrustProxyHeaders: tt.trust}, mux))
			t.Cleanup(ts.Close)

			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/ip", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			req.Header.Set("X-Real-IP", "203.0.113.7")
			resp, err := ts.Client().Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()
			b, _ := io.ReadAll(resp.Body)
			if string(b) != tt.want {
				t.Errorf("ClientIP = %q; want %q", b, tt.want)
			}
		})
	}
}
