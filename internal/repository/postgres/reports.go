package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/petalert/petmatch/internal/domain"
	domrep "github.com/petalert/petmatch/internal/domain/report"
	"github.com/petalert/petmatch/internal/usecase/report"
	"github.com/petalert/petmatch/internal/usecase/search"
)

const reportColumns = `id, kind, reporter_id, species, pet_name, breed, color, size,
	description, location, photos, labels, colors, embedding, status, created_at, resolved_at`

// ReportRepository persists reports in the reports table.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report row.
func (r *ReportRepository) Create(ctx context.Context, rep domrep.Report) error {
	location, err := json.Marshal(rep.Location())
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}

	query := `
		INSERT INTO reports (id, kind, reporter_id, species, pet_name, breed, color, size,
			description, location, photos, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.ExecContext(ctx, query,
		rep.ID(), string(rep.Kind()), rep.ReporterID(), rep.Species(),
		rep.PetName(), rep.Breed(), rep.Color(), rep.Size(),
		rep.Description(), location, pq.Array(rep.Photos()),
		string(rep.Status()), rep.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Get returns a report by id.
func (r *ReportRepository) Get(ctx context.Context, id string) (domrep.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1 AND status != 'deleted'`

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domrep.Report{}, domain.ErrReportNotFound
		}
		return domrep.Report{}, fmt.Errorf("query report: %w", err)
	}
	return rep, nil
}

// ListActive returns all active reports, newest first.
func (r *ReportRepository) ListActive(ctx context.Context) ([]domrep.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = 'active' ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// Candidates returns reports matching the coarse filter, newest first.
func (r *ReportRepository) Candidates(ctx context.Context, f search.Filter) ([]domrep.Report, error) {
	where, args := []string{"status != 'deleted'"}, []any{}

	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.Species != "" {
		args = append(args, f.Species)
		where = append(where, fmt.Sprintf("species = $%d", len(args)))
	}
	if f.RequireEmbedding {
		where = append(where, "embedding IS NOT NULL")
	}

	query := `SELECT ` + reportColumns + ` FROM reports WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	return collectReports(rows)
}

// Update applies a partial update and returns the updated report.
func (r *ReportRepository) Update(ctx context.Context, id string, p report.Patch) (domrep.Report, error) {
	set, args := []string{}, []any{}

	if p.PetName != nil {
		args = append(args, *p.PetName)
		set = append(set, fmt.Sprintf("pet_name = $%d", len(args)))
	}
	if p.Breed != nil {
		args = append(args, *p.Breed)
		set = append(set, fmt.Sprintf("breed = $%d", len(args)))
	}
	if p.Color != nil {
		args = append(args, *p.Color)
		set = append(set, fmt.Sprintf("color = $%d", len(args)))
	}
	if p.Size != nil {
		args = append(args, *p.Size)
		set = append(set, fmt.Sprintf("size = $%d", len(args)))
	}
	if p.Description != nil {
		args = append(args, *p.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if p.Location != nil {
		location, err := json.Marshal(p.Location)
		if err != nil {
			return domrep.Report{}, fmt.Errorf("marshal location: %w", err)
		}
		args = append(args, location)
		set = append(set, fmt.Sprintf("location = $%d", len(args)))
	}
	if p.Photos != nil {
		args = append(args, pq.Array(p.Photos))
		set = append(set, fmt.Sprintf("photos = $%d", len(args)))
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE reports SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE id = $%d AND status != 'deleted' RETURNING `, len(args)) + reportColumns

	rep, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domrep.Report{}, domain.ErrReportNotFound
		}
		return domrep.Report{}, fmt.Errorf("update report: %w", err)
	}
	return rep, nil
}

// SetStatus updates the lifecycle status. A zero resolvedAt clears resolved_at.
func (r *ReportRepository) SetStatus(ctx context.Context, id string, status domrep.Status, resolvedAt time.Time) error {
	var resolved sql.NullTime
	if !resolvedAt.IsZero() {
		resolved = sql.NullTime{Time: resolvedAt, Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = $1, resolved_at = $2 WHERE id = $3 AND status != 'deleted'`,
		string(status), resolved, id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// SaveLabels stores the vision analysis payload and derived dominant colors.
func (r *ReportRepository) SaveLabels(ctx context.Context, id string, labels any) error {
	payload, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET labels = $1 WHERE id = $2 AND status != 'deleted'`,
		payload, id,
	)
	if err != nil {
		return fmt.Errorf("update labels: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// SaveColors stores the dominant colors, most dominant first.
func (r *ReportRepository) SaveColors(ctx context.Context, id string, colors []string) error {
	if len(colors) > domrep.MaxDominantColors {
		colors = colors[:domrep.MaxDominantColors]
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET colors = $1 WHERE id = $2 AND status != 'deleted'`,
		pq.Array(colors), id,
	)
	if err != nil {
		return fmt.Errorf("update colors: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// SetEmbedding stores the visual embedding vector.
func (r *ReportRepository) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET embedding = $1 WHERE id = $2 AND status != 'deleted'`,
		pgvector.NewVector(embedding), id,
	)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (domrep.Report, error) {
	var (
		id, kind, reporterID, species   string
		petName, breed, color, size     sql.NullString
		description                     string
		locationRaw, labelsRaw, vecRaw  []byte
		photos, colors                  pq.StringArray
		status                          string
		createdAt                       time.Time
		resolvedAt                      sql.NullTime
	)

	err := row.Scan(
		&id, &kind, &reporterID, &species, &petName, &breed, &color, &size,
		&description, &locationRaw, &photos, &labelsRaw, &colors, &vecRaw,
		&status, &createdAt, &resolvedAt,
	)
	if err != nil {
		return domrep.Report{}, err
	}

	var location, labels any
	if len(locationRaw) > 0 {
		if err := json.Unmarshal(locationRaw, &location); err != nil {
			return domrep.Report{}, fmt.Errorf("unmarshal location: %w", err)
		}
	}
	if len(labelsRaw) > 0 {
		if err := json.Unmarshal(labelsRaw, &labels); err != nil {
			return domrep.Report{}, fmt.Errorf("unmarshal labels: %w", err)
		}
	}

	var embedding []float32
	if len(vecRaw) > 0 {
		var vec pgvector.Vector
		if err := vec.Parse(string(vecRaw)); err != nil {
			return domrep.Report{}, fmt.Errorf("parse embedding: %w", err)
		}
		embedding = vec.Slice()
	}

	var resolved time.Time
	if resolvedAt.Valid {
		resolved = resolvedAt.Time
	}

	return domrep.Reconstruct(
		id, domrep.Kind(kind), reporterID, species,
		petName.String, breed.String, color.String, size.String, description,
		location, photos, labels, colors, embedding,
		domrep.Status(status), createdAt, resolved,
	), nil
}

func collectReports(rows *sql.Rows) ([]domrep.Report, error) {
	reports := []domrep.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}
