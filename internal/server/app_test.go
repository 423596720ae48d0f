package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sleepfeedbot/internal/chart"
	"sleepfeedbot/internal/config"
	"sleepfeedbot/internal/dataset"
)

type stubRenderer struct{}

func (stubRenderer) TimelinePNG(rows []chart.TimelineDay) ([]byte, error) {
	return []byte("timeline-png"), nil
}

func (stubRenderer) SummaryPNG(summary *chart.Summary) ([]byte, error) {
	return []byte("summary-png"), nil
}

func testApp() *App {
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		AppPort:         "8000",
		MaxArchiveBytes: 1 << 20,
	}
	return New(cfg, &dataset.Store{}, stubRenderer{})
}

func doRequest(app *App, method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	app.Router().ServeHTTP(recorder, req)
	return recorder
}

const sampleArchive = `{"messages": [
	{"type": "message", "date": "2025-07-01T15:40:00", "text": "13:10-15:30 сон"},
	{"type": "message", "date": "2025-07-01T14:22:00", "text": "14:20 смесь 90"}
]}`

func TestHealth(t *testing.T) {
	resp := doRequest(testApp(), http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestLoadArchiveAndReport(t *testing.T) {
	app := testApp()

	resp := doRequest(app, http.MethodPost, "/api/v1/archive", sampleArchive)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on upload, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"sleep_records":1`) {
		t.Fatalf("expected one sleep record in response: %s", resp.Body.String())
	}

	resp = doRequest(app, http.MethodGet, "/api/v1/report", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on report, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "01.07.2025") {
		t.Fatalf("expected a report block for the day: %s", resp.Body.String())
	}
}

func TestLoadArchiveMalformedKeepsPriorDataset(t *testing.T) {
	app := testApp()

	if resp := doRequest(app, http.MethodPost, "/api/v1/archive", sampleArchive); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on first upload, got %d", resp.Code)
	}

	resp := doRequest(app, http.MethodPost, "/api/v1/archive", `{"name": "not an export"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed archive, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Ingestion failed") {
		t.Fatalf("expected ingestion-failed detail: %s", resp.Body.String())
	}

	if resp := doRequest(app, http.MethodGet, "/api/v1/report", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected prior dataset to survive, got %d", resp.Code)
	}
}

func TestLoadArchiveNothingRecognized(t *testing.T) {
	resp := doRequest(testApp(), http.MethodPost, "/api/v1/archive", `{"messages": []}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "nothing recognized") {
		t.Fatalf("expected nothing-recognized status: %s", resp.Body.String())
	}
}

func TestReportWithoutDataset(t *testing.T) {
	resp := doRequest(testApp(), http.MethodGet, "/api/v1/report", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "No dataset loaded") {
		t.Fatalf("expected no-dataset detail: %s", resp.Body.String())
	}
}

func TestReportRangeDistinctSignals(t *testing.T) {
	app := testApp()
	if resp := doRequest(app, http.MethodPost, "/api/v1/archive", sampleArchive); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on upload, got %d", resp.Code)
	}

	resp := doRequest(app, http.MethodGet, "/api/v1/report?date=2030-01-01", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty range, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "requested range") {
		t.Fatalf("expected range-empty detail: %s", resp.Body.String())
	}

	resp = doRequest(app, http.MethodGet, "/api/v1/report?date=bogus", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Malformed date") {
		t.Fatalf("expected malformed-date detail: %s", resp.Body.String())
	}
}

func TestChartEndpoints(t *testing.T) {
	app := testApp()
	if resp := doRequest(app, http.MethodPost, "/api/v1/archive", sampleArchive); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on upload, got %d", resp.Code)
	}

	resp := doRequest(app, http.MethodGet, "/api/v1/charts/timeline", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png content type, got %q", resp.Header().Get("Content-Type"))
	}
	if resp.Body.String() != "timeline-png" {
		t.Fatalf("expected stub renderer output, got %q", resp.Body.String())
	}

	resp = doRequest(app, http.MethodGet, "/api/v1/charts/summary", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != "summary-png" {
		t.Fatalf("expected stub renderer output, got %q", resp.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	app := testApp()
	if resp := doRequest(app, http.MethodPost, "/api/v1/archive", sampleArchive); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on upload, got %d", resp.Code)
	}

	resp := doRequest(app, http.MethodGet, "/api/v1/export.csv", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(resp.Body.String(), "kind,day,start,end,volume_ml") {
		t.Fatalf("expected csv header, got %q", resp.Body.String())
	}

	if resp := doRequest(testApp(), http.MethodGet, "/api/v1/export.csv", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without dataset, got %d", resp.Code)
	}
}
