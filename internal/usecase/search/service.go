package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/geo"
	"github.com/petalert/petmatch/internal/domain/match"
	"github.com/petalert/petmatch/internal/domain/report"
	"github.com/petalert/petmatch/internal/domain/score"
	"github.com/petalert/petmatch/internal/domain/search"
	"github.com/petalert/petmatch/internal/domain/signal"
)

// Service is the multi-signal candidate ranking engine. All three strategies
// share the same extraction and scoring primitives; each is a pure function
// of the query signals and the candidate snapshot, so results are
// deterministic per call. The only side effect is the best-effort match
// persistence after embedding search.
type Service struct {
	source       CandidateSource
	reports      ReportReader
	sink         MatchSink
	matchesTotal *prometheus.CounterVec
	logger       *zap.Logger
	now          func() time.Time
}

// New creates a ranking service. sink may be nil to disable match persistence.
func New(source CandidateSource, reports ReportReader, sink MatchSink, logger *zap.Logger) *Service {
	return &Service{
		source:  source,
		reports: reports,
		sink:    sink,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the recency clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithMatchCounter sets the counter vec (labels "method", "status")
// incremented per match persistence attempt.
func (s *Service) WithMatchCounter(c *prometheus.CounterVec) *Service {
	s.matchesTotal = c
	return s
}

// SearchWeighted ranks active candidates around a point by the weighted
// composite of label, color, proximity and recency sub-scores. Candidates
// below the relevance floor are dropped; at most 20 results are returned.
func (s *Service) SearchWeighted(
	ctx context.Context, q search.Query, req *search.WeightedRequest,
) ([]search.Candidate, search.Stats, error) {
	f := Filter{Status: report.StatusActive}
	if req.Kinds() != search.KindFilterBoth {
		f.Kind = report.Kind(req.Kinds())
	}
	if q.Species() != "" && q.Species() != report.SpeciesOther {
		f.Species = q.Species()
	}

	candidates, err := s.source.Candidates(ctx, f)
	if err != nil {
		return nil, search.Stats{}, fmt.Errorf("fetch candidates: %w", err)
	}

	queryLabels := signal.LabelSet(q.Labels())
	queryColors := signal.ColorSet(q.Colors())
	now := s.now()

	results := make([]search.Candidate, 0, len(candidates))
	for _, c := range candidates {
		lat, lon, ok := geo.ParsePoint(c.Location())
		if !ok {
			continue
		}
		d := geo.HaversineKm(req.Lat(), req.Lon(), lat, lon)
		if d > req.RadiusKm() {
			continue
		}

		visual := score.Jaccard(queryLabels, signal.LabelSet(c.Labels()))
		color := score.Jaccard(queryColors, signal.ColorSet(c.Colors()))
		location := score.LocationScore(d, req.RadiusKm())
		recency := score.RecencyScore(c.CreatedAt(), now)
		composite := score.Composite(visual, color, location, recency)

		if composite < score.RelevanceFloor {
			continue
		}
		results = append(results, search.NewWeightedCandidate(
			c, d, visual, color, location, recency, composite,
		))
	}

	sortByScoreDesc(results)

	stats := search.Stats{TotalCandidates: len(candidates), Filtered: len(results)}
	if len(results) > search.WeightedResultCap {
		results = results[:search.WeightedResultCap]
	}
	stats.Returned = len(results)

	return results, stats, nil
}

// AutoMatch ranks opposite-kind, same-species candidates around a base report
// by label overlap minus a distance penalty. There is no relevance floor.
func (s *Service) AutoMatch(
	ctx context.Context, req *search.AutoMatchRequest,
) ([]search.Candidate, search.Stats, error) {
	base, err := s.reports.Get(ctx, req.ReportID())
	if err != nil {
		return nil, search.Stats{}, fmt.Errorf("get base report: %w", err)
	}

	baseLat, baseLon, ok := geo.ParsePoint(base.Location())
	if !ok {
		return nil, search.Stats{}, fmt.Errorf("%w: %s", domain.ErrReportHasNoLocation, base.ID())
	}
	baseLabels := signal.LabelSet(base.Labels())

	candidates, err := s.source.Candidates(ctx, Filter{
		Status:  report.StatusActive,
		Kind:    base.Kind().Opposite(),
		Species: base.Species(),
	})
	if err != nil {
		return nil, search.Stats{}, fmt.Errorf("fetch candidates: %w", err)
	}

	// Cheap bounding-box pass before the exact haversine cutoff.
	pad := geo.DegreePad(req.RadiusKm())

	results := make([]search.Candidate, 0, len(candidates))
	for _, c := range candidates {
		lat, lon, ok := geo.ParsePoint(c.Location())
		if !ok {
			continue
		}
		if !geo.InBoundingBox(baseLat, baseLon, lat, lon, pad) {
			continue
		}
		d := geo.HaversineKm(baseLat, baseLon, lat, lon)
		if d > req.RadiusKm() {
			continue
		}

		overlap := baseLabels.Intersection(signal.LabelSet(c.Labels()))
		results = append(results, search.NewOverlapCandidate(
			c, d, overlap, score.OverlapScore(overlap, d),
		))
	}

	sortByScoreDesc(results)

	stats := search.Stats{TotalCandidates: len(candidates), Filtered: len(results)}
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}
	stats.Returned = len(results)

	return results, stats, nil
}

// SearchEmbedding ranks candidates that carry an embedding by cosine
// similarity against the query embedding. Candidates without an embedding
// never appear. When the caller supplied a lost-report reference, the best
// match is persisted to the match sink; persistence failure is logged and
// never fails the call.
func (s *Service) SearchEmbedding(
	ctx context.Context, q search.Query, req *search.EmbeddingRequest,
) ([]search.Candidate, search.Stats, error) {
	if len(q.Embedding()) == 0 {
		return nil, search.Stats{}, fmt.Errorf("%w: query embedding is required", domain.ErrInvalidRequest)
	}

	candidates, err := s.source.Candidates(ctx, Filter{
		Status:           report.StatusActive,
		RequireEmbedding: true,
	})
	if err != nil {
		return nil, search.Stats{}, fmt.Errorf("fetch candidates: %w", err)
	}

	results := make([]search.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Embedding()) == 0 {
			continue
		}
		if req.HasGeo() {
			lat, lon, ok := geo.ParsePoint(c.Location())
			if !ok {
				continue
			}
			if geo.HaversineKm(req.Lat(), req.Lon(), lat, lon) > req.MaxKm() {
				continue
			}
		}
		sim := score.CosineSimilarity(q.Embedding(), c.Embedding())
		results = append(results, search.NewEmbeddingCandidate(c, sim))
	}

	sortByScoreDesc(results)

	stats := search.Stats{TotalCandidates: len(candidates), Filtered: len(results)}
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}
	stats.Returned = len(results)

	s.persistBestMatch(ctx, req.LostID(), results)

	return results, stats, nil
}

// persistBestMatch writes the top candidate to the match sink. Best-effort:
// a failed insert must not fail the ranking call.
func (s *Service) persistBestMatch(ctx context.Context, lostID string, results []search.Candidate) {
	if s.sink == nil || lostID == "" || len(results) == 0 {
		return
	}
	top := results[0]
	m := match.New(lostID, top.Report().ID(), score.Round(top.Similarity(), 4), match.MethodAutoCLIP)

	status := "ok"
	if err := s.sink.Insert(ctx, m); err != nil {
		status = "error"
		s.logger.Warn("failed to persist match",
			zap.String("lost_report_id", lostID),
			zap.String("found_report_id", top.Report().ID()),
			zap.Error(err),
		)
	}
	if s.matchesTotal != nil {
		s.matchesTotal.WithLabelValues(string(m.MatchedBy()), status).Inc()
	}
}

// sortByScoreDesc sorts descending by score. The sort is stable: candidates
// with equal scores keep the source ordering of the candidate pull.
func sortByScoreDesc(cc []search.Candidate) {
	sort.SliceStable(cc, func(i, j int) bool {
		return cc[i].Score() > cc[j].Score()
	})
}
