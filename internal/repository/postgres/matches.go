package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/petalert/petmatch/internal/domain/match"
)

// MatchRepository persists auto-detected and manual matches.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Insert stores a match row.
func (r *MatchRepository) Insert(ctx context.Context, m match.Match) error {
	query := `
		INSERT INTO matches (lost_report_id, found_report_id, similarity, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lost_report_id, found_report_id) DO UPDATE SET
			similarity = EXCLUDED.similarity,
			method = EXCLUDED.method
	`
	_, err := r.db.ExecContext(ctx, query,
		m.LostReportID(), m.FoundReportID(), m.Similarity(),
		string(m.MatchedBy()), string(m.Status()), m.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}
