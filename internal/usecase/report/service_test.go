package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petalert/petmatch/internal/domain"
	domrep "github.com/petalert/petmatch/internal/domain/report"
)

// --- Mocks ---

type mockRepo struct {
	created      []domrep.Report
	active       []domrep.Report
	getReport    domrep.Report
	err          error
	gotStatus    domrep.Status
	gotResolved  time.Time
	gotID        string
	savedLabels  any
	savedColors  []string
	statusCalled bool
}

func (m *mockRepo) Create(_ context.Context, r domrep.Report) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, r)
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domrep.Report, error) {
	if m.err != nil {
		return domrep.Report{}, m.err
	}
	m.gotID = id
	return m.getReport, nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]domrep.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.active, nil
}

func (m *mockRepo) Update(_ context.Context, id string, _ Patch) (domrep.Report, error) {
	if m.err != nil {
		return domrep.Report{}, m.err
	}
	m.gotID = id
	return m.getReport, nil
}

func (m *mockRepo) SetStatus(_ context.Context, id string, status domrep.Status, resolvedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.statusCalled = true
	m.gotID = id
	m.gotStatus = status
	m.gotResolved = resolvedAt
	return nil
}

func (m *mockRepo) SaveLabels(_ context.Context, id string, labels any) error {
	if m.err != nil {
		return m.err
	}
	m.gotID = id
	m.savedLabels = labels
	return nil
}

func (m *mockRepo) SaveColors(_ context.Context, id string, colors []string) error {
	if m.err != nil {
		return m.err
	}
	m.gotID = id
	m.savedColors = colors
	return nil
}

// --- Helpers ---

func geoPoint(lat, lon float64) map[string]any {
	return map[string]any{"type": "Point", "coordinates": []any{lon, lat}}
}

func validInput() CreateInput {
	return CreateInput{
		Kind:        domrep.KindLost,
		ReporterID:  "user-1",
		Species:     "dog",
		Description: "golden retriever, red collar",
		Location:    geoPoint(-34.6, -58.4),
		PetName:     "Max",
	}
}

func activeAt(id string, lat, lon float64) domrep.Report {
	return domrep.Reconstruct(
		id, domrep.KindFound, "user-2", "dog", "", "", "", "", "a pet",
		geoPoint(lat, lon), nil, nil, nil, nil,
		domrep.StatusActive, time.Now().UTC(), time.Time{},
	)
}

// --- Tests ---

func TestCreate(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	r, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if r.ID() == "" {
		t.Error("expected generated ID")
	}
	if r.Status() != domrep.StatusActive {
		t.Errorf("status = %q, want active", r.Status())
	}
	if r.PetName() != "Max" {
		t.Errorf("pet name = %q, want Max", r.PetName())
	}
	if len(repo.created) != 1 {
		t.Errorf("repo received %d creates, want 1", len(repo.created))
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	mutations := map[string]func(*CreateInput){
		"missing kind":        func(in *CreateInput) { in.Kind = "" },
		"invalid kind":        func(in *CreateInput) { in.Kind = "stolen" },
		"missing reporter":    func(in *CreateInput) { in.ReporterID = "" },
		"missing species":     func(in *CreateInput) { in.Species = "" },
		"missing description": func(in *CreateInput) { in.Description = "" },
		"missing location":    func(in *CreateInput) { in.Location = nil },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			repo := &mockRepo{}
			in := validInput()
			mutate(&in)

			_, err := New(repo).Create(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
			if len(repo.created) != 0 {
				t.Error("invalid input must not reach the repository")
			}
		})
	}
}

func TestNearby_SortsAndFilters(t *testing.T) {
	repo := &mockRepo{active: []domrep.Report{
		activeAt("far", 0.05, 0),
		activeAt("near", 0.01, 0),
		activeAt("outside", 1, 0),
		domrep.Reconstruct("no-location", domrep.KindFound, "u", "dog", "", "", "", "", "d",
			nil, nil, nil, nil, nil, domrep.StatusActive, time.Now().UTC(), time.Time{}),
	}}
	svc := New(repo)

	nearby, err := svc.Nearby(context.Background(), 0, 0, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	if len(nearby) != 2 {
		t.Fatalf("got %d reports, want 2", len(nearby))
	}
	if nearby[0].Report.ID() != "near" || nearby[1].Report.ID() != "far" {
		t.Errorf("order = [%s, %s], want [near, far]", nearby[0].Report.ID(), nearby[1].Report.ID())
	}
	if nearby[0].DistanceKm >= nearby[1].DistanceKm {
		t.Errorf("distances not ascending: %v, %v", nearby[0].DistanceKm, nearby[1].DistanceKm)
	}
}

func TestNearby_DefaultRadius(t *testing.T) {
	repo := &mockRepo{active: []domrep.Report{
		activeAt("within-default", 0.05, 0),
		activeAt("beyond-default", 0.2, 0),
	}}
	svc := New(repo)

	nearby, err := svc.Nearby(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}

	if len(nearby) != 1 || nearby[0].Report.ID() != "within-default" {
		t.Fatalf("got %d reports, want only within-default", len(nearby))
	}
}

func TestDelete_SoftDeletes(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	if err := svc.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if repo.gotStatus != domrep.StatusDeleted {
		t.Errorf("status = %q, want deleted", repo.gotStatus)
	}
	if !repo.gotResolved.IsZero() {
		t.Errorf("resolvedAt = %v, want zero", repo.gotResolved)
	}
}

func TestResolve_StampsTime(t *testing.T) {
	repo := &mockRepo{getReport: activeAt("r1", 0, 0)}
	svc := New(repo)

	before := time.Now().UTC()
	r, err := svc.Resolve(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if repo.gotStatus != domrep.StatusResolved {
		t.Errorf("status = %q, want resolved", repo.gotStatus)
	}
	if repo.gotResolved.Before(before) {
		t.Errorf("resolvedAt %v is before the call", repo.gotResolved)
	}
	if r.ID() != "r1" {
		t.Errorf("returned report %q, want r1", r.ID())
	}
}

func TestResolve_StatusError(t *testing.T) {
	repo := &mockRepo{err: domain.ErrReportNotFound}
	svc := New(repo)

	_, err := svc.Resolve(context.Background(), "missing")
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("err = %v, want ErrReportNotFound", err)
	}
}

func TestSaveLabels(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	payload := map[string]any{"labels": []any{map[string]any{"label": "dog"}}}
	if err := svc.SaveLabels(context.Background(), "r1", payload); err != nil {
		t.Fatalf("SaveLabels: %v", err)
	}

	if repo.gotID != "r1" || repo.savedLabels == nil {
		t.Errorf("labels not forwarded: id=%q labels=%v", repo.gotID, repo.savedLabels)
	}
}

func TestSaveColors(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	if err := svc.SaveColors(context.Background(), "r1", []string{"#aabbcc"}); err != nil {
		t.Fatalf("SaveColors: %v", err)
	}
	if len(repo.savedColors) != 1 {
		t.Errorf("colors not forwarded: %v", repo.savedColors)
	}
}
