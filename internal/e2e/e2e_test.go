package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/texthub/textproc-gateway/internal/backend"
	"github.com/texthub/textproc-gateway/internal/db"
	"github.com/texthub/textproc-gateway/internal/gateway"
	"github.com/texthub/textproc-gateway/internal/webserver"
	"github.com/texthub/textproc-gateway/internal/worker"
)

// setupStack runs all five stub workers and the gateway HTTP surface
// against an in-memory store.
func setupStack(t *testing.T) http.Handler {
	t.Helper()

	addrs := make(map[string]string)
	for _, name := range backend.ServiceNames() {
		h, err := worker.NewHandler(name, worker.EchoGenerator{})
		if err != nil {
			t.Fatalf("worker %s: %v", name, err)
		}
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		addrs[name] = srv.URL
	}

	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := d.AutoMigrate(&db.TextRequest{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	gw := gateway.New(backend.NewRegistry(addrs), backend.NewClient(), db.NewStore(d))
	return webserver.New(gw).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestProcessAllServices(t *testing.T) {
	h := setupStack(t)

	for _, service := range backend.ServiceNames() {
		w := do(t, h, "POST", "/api/process",
			`{"text":"The quick brown fox jumps over the lazy dog.","service":"`+service+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", service, w.Code, w.Body.String())
		}
		var rec struct {
			ID            uint   `json:"id"`
			ProcessedText string `json:"processed_text"`
			ServiceUsed   string `json:"service_used"`
			Status        string `json:"status"`
		}
		if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
			t.Fatalf("%s: decode failed: %v", service, err)
		}
		if rec.ProcessedText == "" {
			t.Errorf("%s: expected non-empty processed text", service)
		}
		if rec.ServiceUsed != service || rec.Status != "completed" {
			t.Errorf("%s: unexpected record %+v", service, rec)
		}
	}

	w := do(t, h, "GET", "/api/stats", "")
	var stats struct {
		TotalRequests int64 `json:"total_requests"`
	}
	json.NewDecoder(w.Body).Decode(&stats)
	if stats.TotalRequests != 5 {
		t.Errorf("expected 5 total requests, got %d", stats.TotalRequests)
	}

	w = do(t, h, "GET", "/api/history?limit=2", "")
	var records []map[string]any
	json.NewDecoder(w.Body).Decode(&records)
	if len(records) != 2 {
		t.Errorf("expected 2 history records, got %d", len(records))
	}
}

func TestHealthAcrossStack(t *testing.T) {
	h := setupStack(t)

	w := do(t, h, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report struct {
		Status        string            `json:"status"`
		Microservices map[string]string `json:"microservices"`
	}
	json.NewDecoder(w.Body).Decode(&report)
	if report.Status != "healthy" {
		t.Errorf("expected healthy, got %q", report.Status)
	}
	for name, status := range report.Microservices {
		if status != "healthy" {
			t.Errorf("%s: expected healthy, got %q", name, status)
		}
	}
}

func TestTranslateOptionsRoundTrip(t *testing.T) {
	h := setupStack(t)

	w := do(t, h, "POST", "/api/process",
		`{"text":"good morning","service":"translate","options":{"target_language":"fr"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rec struct {
		ProcessedText string `json:"processed_text"`
	}
	json.NewDecoder(w.Body).Decode(&rec)
	if !strings.Contains(rec.ProcessedText, "fr") {
		t.Errorf("expected target language to reach the worker, got %q", rec.ProcessedText)
	}
}
