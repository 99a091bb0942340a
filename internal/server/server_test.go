package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/boxlogic/stowplan/pkg/pipeline"
	"github.com/boxlogic/stowplan/pkg/store"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, charmlog.New(io.Discard))
	opts = append(opts, WithLogger(charmlog.New(io.Discard)))
	srv := httptest.NewServer(New(runner, store.NewMemoryStore(), opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func validBody() string {
	return `{
		"container": {"length": 2, "width": 2, "height": 2, "unit": "m"},
		"items": [
			{"name": "crate", "length": 1, "width": 1, "height": 1, "quantity": 2, "unit": "m"}
		]
	}`
}

func postPlan(t *testing.T, srv *httptest.Server, body string) planResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/plan", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /plan status = %d, body %s", resp.StatusCode, data)
	}
	var out planResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreatePlan(t *testing.T) {
	srv := newTestServer(t)
	out := postPlan(t, srv, validBody())

	if out.ID == "" {
		t.Error("plan ID should be assigned")
	}
	if out.Utilization == "" {
		t.Error("utilization should be reported")
	}

	var sceneBody struct {
		Solids []json.RawMessage `json:"solids"`
	}
	if err := json.Unmarshal(out.Scene, &sceneBody); err != nil {
		t.Fatalf("scene payload: %v", err)
	}
	if len(sceneBody.Solids) != 2 {
		t.Errorf("solids = %d, want 2", len(sceneBody.Solids))
	}
}

func TestCreatePlanRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/plan", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var out errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Code != "INVALID_FORMAT" {
		t.Errorf("code = %q, want INVALID_FORMAT", out.Code)
	}
}

func TestCreatePlanRejectsNegativeContainer(t *testing.T) {
	srv := newTestServer(t)
	body := `{"container": {"length": -1, "width": 2, "height": 2}, "items": [{"name": "a", "length": 1, "width": 1, "height": 1}]}`
	resp, err := http.Post(srv.URL+"/plan", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetPlanRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	created := postPlan(t, srv, validBody())

	resp, err := http.Get(srv.URL + "/plans/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var plan store.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}
	if plan.ID != created.ID {
		t.Errorf("ID = %q, want %q", plan.ID, created.ID)
	}
	if len(plan.Scene.Solids) != 2 {
		t.Errorf("stored solids = %d, want 2", len(plan.Scene.Solids))
	}
}

func TestGetPlanNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/plans/unknown-id")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListPlans(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		postPlan(t, srv, validBody())
	}

	resp, err := http.Get(srv.URL + "/plans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out struct {
		Plans []store.Summary `json:"plans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Plans) != 3 {
		t.Errorf("plans = %d, want 3", len(out.Plans))
	}
}

func TestListPlansEmptyIsArray(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/plans")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(data, []byte(`"plans":[]`)) {
		t.Errorf("empty list should encode as [], got %s", data)
	}
}

func TestPlanSVG(t *testing.T) {
	srv := newTestServer(t)
	created := postPlan(t, srv, validBody())

	resp, err := http.Get(srv.URL + "/plans/" + created.ID + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Error("body should be an SVG document")
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, WithAllowedOrigins([]string{"http://localhost:5173"}))

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{"allowed origin echoed", "http://localhost:5173", "http://localhost:5173"},
		{"unknown origin gets no header", "http://evil.example.com", ""},
		{"no origin header", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, WithAllowedOrigins([]string{"http://localhost:5173"}))

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/plan", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", got)
	}
}

func TestCreatePlanWithSuppliedPositions(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"container": {"length": 2, "width": 2, "height": 2},
		"items": [],
		"packed": [
			{"name": "crate", "position": [0, 0, 0], "dimensions": {"length": 1, "width": 1, "height": 1}}
		]
	}`
	out := postPlan(t, srv, body)
	if out.ID == "" {
		t.Error("plan ID should be assigned")
	}
}
