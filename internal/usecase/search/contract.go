package search

import (
	"context"

	"github.com/petalert/petmatch/internal/domain/match"
	"github.com/petalert/petmatch/internal/domain/report"
)

// Filter holds the coarse equality predicates pushed down to the store.
// Zero values mean "any".
type Filter struct {
	Status           report.Status
	Kind             report.Kind
	Species          string
	RequireEmbedding bool
}

// CandidateSource queries report rows by coarse predicates. The full filtered
// result set is consumed per call; no pagination contract is assumed.
type CandidateSource interface {
	Candidates(ctx context.Context, f Filter) ([]report.Report, error)
}

// ReportReader reads a single report (used by auto-match for the base report).
type ReportReader interface {
	Get(ctx context.Context, id string) (report.Report, error)
}

// MatchSink persists discovered matches.
type MatchSink interface {
	Insert(ctx context.Context, m match.Match) error
}
