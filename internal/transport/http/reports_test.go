package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/petalert/petmatch/internal/domain"
	domrep "github.com/petalert/petmatch/internal/domain/report"
	healthuc "github.com/petalert/petmatch/internal/usecase/health"
	reportuc "github.com/petalert/petmatch/internal/usecase/report"
)

// --- Mocks ---

type mockReportRepo struct {
	reports     map[string]domrep.Report
	created     []domrep.Report
	savedLabels any
	savedColors []string
}

func (m *mockReportRepo) Create(_ context.Context, r domrep.Report) error {
	m.created = append(m.created, r)
	return nil
}

func (m *mockReportRepo) Get(_ context.Context, id string) (domrep.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return domrep.Report{}, domain.ErrReportNotFound
	}
	return r, nil
}

func (m *mockReportRepo) ListActive(_ context.Context) ([]domrep.Report, error) {
	var out []domrep.Report
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockReportRepo) Update(_ context.Context, id string, _ reportuc.Patch) (domrep.Report, error) {
	return m.Get(context.Background(), id)
}

func (m *mockReportRepo) SetStatus(_ context.Context, id string, _ domrep.Status, _ time.Time) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	return nil
}

func (m *mockReportRepo) SaveLabels(_ context.Context, id string, labels any) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	m.savedLabels = labels
	return nil
}

func (m *mockReportRepo) SaveColors(_ context.Context, id string, colors []string) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	m.savedColors = colors
	return nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(_ context.Context) error { return p.err }

// --- Helpers ---

func storedReport(id string) domrep.Report {
	return domrep.Reconstruct(
		id, domrep.KindLost, "user-1", "dog", "Max", "", "brown", "", "golden retriever",
		map[string]any{"type": "Point", "coordinates": []any{-58.4, -34.6}},
		[]string{"photo.jpg"}, nil, nil, nil,
		domrep.StatusActive, time.Now().UTC(), time.Time{},
	)
}

func newTestRouter(repo *mockReportRepo, dbErr error) chi.Router {
	logger := zap.NewNop()
	srv := NewServer(
		reportuc.New(repo),
		nil, nil, nil,
		healthuc.New(&stubPinger{err: dbErr}, nil, nil),
		SearchDefaults{RadiusKm: 10, AutoMatchTopK: 5, EmbeddingTopK: 10},
		logger,
	)
	r := chi.NewRouter()
	srv.Mount(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

// --- Tests ---

func TestCreateReport(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{}}
	router := newTestRouter(repo, nil)

	body := `{
		"type": "lost",
		"reporter_id": "user-1",
		"species": "dog",
		"description": "golden retriever, red collar",
		"location": {"type": "Point", "coordinates": [-58.4, -34.6]},
		"pet_name": "Max"
	}`
	rec := doJSON(t, router, http.MethodPost, "/reports", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var view reportView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ID == "" || view.Kind != "lost" || view.PetName != "Max" {
		t.Errorf("view = %+v", view)
	}
	if len(repo.created) != 1 {
		t.Errorf("repo received %d creates, want 1", len(repo.created))
	}
}

func TestCreateReport_InvalidKind(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	body := `{"type": "stolen", "reporter_id": "u", "species": "dog", "description": "d", "location": {"coordinates": [0, 0]}}`
	rec := doJSON(t, router, http.MethodPost, "/reports", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", e.Code, codeBadRequest)
	}
}

func TestCreateReport_MalformedJSON(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	rec := doJSON(t, router, http.MethodPost, "/reports", `{"type":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetReport_NotFound(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	rec := doJSON(t, router, http.MethodGet, "/reports/missing", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != codeReportNotFound {
		t.Errorf("code = %q, want %q", e.Code, codeReportNotFound)
	}
}

func TestGetReport(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodGet, "/reports/r1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var view reportView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ID != "r1" || view.Species != "dog" {
		t.Errorf("view = %+v", view)
	}
}

func TestNearbyReports_MissingLat(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	rec := doJSON(t, router, http.MethodGet, "/reports/nearby?lng=-58.4", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNearbyReports(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodGet, "/reports/nearby?lat=-34.6&lng=-58.4&radius_km=5", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Reports []nearbyView `json:"reports"`
		Count   int          `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Reports) != 1 {
		t.Fatalf("count = %d, reports = %d", out.Count, len(out.Reports))
	}
	if out.Reports[0].DistanceKm != 0 {
		t.Errorf("distance = %v, want 0", out.Reports[0].DistanceKm)
	}
}

func TestNearbyReports_ConfiguredDefaultRadius(t *testing.T) {
	far := domrep.Reconstruct(
		"far", domrep.KindFound, "user-2", "dog", "", "", "", "", "a pet",
		map[string]any{"type": "Point", "coordinates": []any{0.0, 0.05}},
		nil, nil, nil, nil, domrep.StatusActive, time.Now().UTC(), time.Time{},
	)
	repo := &mockReportRepo{reports: map[string]domrep.Report{"far": far}}
	srv := NewServer(
		reportuc.New(repo),
		nil, nil, nil,
		healthuc.New(&stubPinger{}, nil, nil),
		SearchDefaults{RadiusKm: 3, AutoMatchTopK: 5, EmbeddingTopK: 10},
		zap.NewNop(),
	)
	router := chi.NewRouter()
	srv.Mount(router)

	// ~5.6 km away: inside the stock 10 km radius, outside the configured 3 km.
	rec := doJSON(t, router, http.MethodGet, "/reports/nearby?lat=0&lng=0", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 0 {
		t.Errorf("count = %d, want 0 under the configured 3 km default", out.Count)
	}
}

func TestSaveLabels(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodPost, "/reports/r1/labels",
		`{"labels": [{"label": "dog", "score": 97.5}]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if repo.savedLabels == nil {
		t.Error("labels were not persisted")
	}
}

func TestSaveLabels_WithColors(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodPost, "/reports/r1/labels",
		`{"labels": [{"label": "dog"}], "colors": ["#C9A066", "#FFFFFF"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(repo.savedColors) != 2 || repo.savedColors[0] != "#C9A066" {
		t.Errorf("colors = %v, want the posted pair", repo.savedColors)
	}
	saved, ok := repo.savedLabels.(map[string]any)
	if !ok {
		t.Fatalf("labels payload = %T, want object", repo.savedLabels)
	}
	if _, hasColors := saved["colors"]; hasColors {
		t.Error("colors must not leak into the stored labels payload")
	}
}

func TestSaveLabels_BadPayload(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	tests := []struct {
		name string
		body string
	}{
		{"labels not a list", `{"labels": "dog"}`},
		{"missing labels key", `{"tags": []}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/reports/r1/labels", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestDeleteReport(t *testing.T) {
	repo := &mockReportRepo{reports: map[string]domrep.Report{"r1": storedReport("r1")}}
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodDelete, "/reports/r1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["ok"] != true {
		t.Errorf("body = %v", out)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	rec := doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHealth_Degraded(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}},
		context.DeadlineExceeded)

	rec := doJSON(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	router := newTestRouter(&mockReportRepo{reports: map[string]domrep.Report{}}, nil)

	rec := doJSON(t, router, http.MethodGet, "/version", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["version"] == "" {
		t.Error("version missing from body")
	}
}
