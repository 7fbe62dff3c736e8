package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/geo"
	domrep "github.com/petalert/petmatch/internal/domain/report"
)

// CreateInput holds the fields accepted on report creation.
type CreateInput struct {
	Kind        domrep.Kind
	ReporterID  string
	Species     string
	Description string
	Location    any
	PetName     string
	Breed       string
	Color       string
	Size        string
	Photos      []string
}

// NearbyReport pairs a report with its distance from the query point.
type NearbyReport struct {
	Report     domrep.Report
	DistanceKm float64
}

// Service handles the report lifecycle: create, read, update, soft delete,
// resolve, nearby lookup and label attachment.
type Service struct {
	repo Repository
}

// New creates a report service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new active report.
func (s *Service) Create(ctx context.Context, in CreateInput) (domrep.Report, error) {
	r, err := domrep.New(uuid.NewString(), in.Kind, in.ReporterID, in.Species, in.Description, in.Location)
	if err != nil {
		return domrep.Report{}, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
	}
	r = r.WithDetails(in.PetName, in.Breed, in.Color, in.Size, in.Photos)

	if err := s.repo.Create(ctx, r); err != nil {
		return domrep.Report{}, fmt.Errorf("create report: %w", err)
	}
	return r, nil
}

// Get returns a report by id.
func (s *Service) Get(ctx context.Context, id string) (domrep.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrep.Report{}, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

// List returns all active reports, newest first.
func (s *Service) List(ctx context.Context) ([]domrep.Report, error) {
	rr, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return rr, nil
}

// Nearby returns active reports within radiusKm of (lat, lon), closest first.
// Reports without a resolvable coordinate pair are skipped.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]NearbyReport, error) {
	if radiusKm <= 0 {
		radiusKm = 10
	}
	rr, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	nearby := make([]NearbyReport, 0, len(rr))
	for _, r := range rr {
		rLat, rLon, ok := geo.ParsePoint(r.Location())
		if !ok {
			continue
		}
		d := geo.HaversineKm(lat, lon, rLat, rLon)
		if d <= radiusKm {
			nearby = append(nearby, NearbyReport{Report: r, DistanceKm: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// Update applies a partial update and returns the updated report.
func (s *Service) Update(ctx context.Context, id string, p Patch) (domrep.Report, error) {
	r, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return domrep.Report{}, fmt.Errorf("update report: %w", err)
	}
	return r, nil
}

// Delete soft-deletes a report by marking it deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.SetStatus(ctx, id, domrep.StatusDeleted, time.Time{}); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// Resolve marks a report resolved and stamps the resolution time.
func (s *Service) Resolve(ctx context.Context, id string) (domrep.Report, error) {
	if err := s.repo.SetStatus(ctx, id, domrep.StatusResolved, time.Now().UTC()); err != nil {
		return domrep.Report{}, fmt.Errorf("resolve report: %w", err)
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrep.Report{}, fmt.Errorf("get resolved report: %w", err)
	}
	return r, nil
}

// SaveLabels attaches a labels payload to a report.
func (s *Service) SaveLabels(ctx context.Context, id string, labels any) error {
	if err := s.repo.SaveLabels(ctx, id, labels); err != nil {
		return fmt.Errorf("save labels: %w", err)
	}
	return nil
}

// SaveColors attaches dominant colors to a report, most dominant first.
func (s *Service) SaveColors(ctx context.Context, id string, colors []string) error {
	if err := s.repo.SaveColors(ctx, id, colors); err != nil {
		return fmt.Errorf("save colors: %w", err)
	}
	return nil
}
