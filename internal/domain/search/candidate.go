package search

import (
	"github.com/petalert/petmatch/internal/domain/report"
	"github.com/petalert/petmatch/internal/domain/score"
)

// Candidate is a scored match candidate. Which fields carry meaning depends
// on the strategy that produced it: the weighted strategy fills the 0-100
// sub-scores and tier, auto-match fills overlap, and embedding search fills
// only Similarity (cosine, -1..1).
type Candidate struct {
	report     report.Report
	distanceKm float64
	visual     float64
	color      float64
	location   float64
	recency    float64
	overlap    int
	similarity float64
	composite  float64
	tier       score.Tier
}

// NewWeightedCandidate creates a candidate scored by the weighted strategy.
func NewWeightedCandidate(
	r report.Report, distanceKm, visual, color, location, recency, composite float64,
) Candidate {
	return Candidate{
		report:     r,
		distanceKm: distanceKm,
		visual:     visual,
		color:      color,
		location:   location,
		recency:    recency,
		composite:  composite,
		tier:       score.TierFor(composite),
	}
}

// NewOverlapCandidate creates a candidate scored by the auto-match strategy.
func NewOverlapCandidate(r report.Report, distanceKm float64, overlap int, composite float64) Candidate {
	return Candidate{report: r, distanceKm: distanceKm, overlap: overlap, composite: composite}
}

// NewEmbeddingCandidate creates a candidate scored by cosine similarity.
func NewEmbeddingCandidate(r report.Report, similarity float64) Candidate {
	return Candidate{report: r, similarity: similarity, composite: similarity}
}

// Report returns the candidate report.
func (c *Candidate) Report() report.Report { return c.report }

// DistanceKm returns the distance from the query point.
func (c *Candidate) DistanceKm() float64 { return c.distanceKm }

// Visual returns the label-similarity sub-score (0-100).
func (c *Candidate) Visual() float64 { return c.visual }

// Color returns the color-similarity sub-score (0-100).
func (c *Candidate) Color() float64 { return c.color }

// Location returns the proximity sub-score (0-100).
func (c *Candidate) Location() float64 { return c.location }

// Recency returns the report-age sub-score (0-100).
func (c *Candidate) Recency() float64 { return c.recency }

// Overlap returns the intersecting-label count.
func (c *Candidate) Overlap() int { return c.overlap }

// Similarity returns the embedding cosine similarity (-1..1).
func (c *Candidate) Similarity() float64 { return c.similarity }

// Score returns the strategy's ranking key.
func (c *Candidate) Score() float64 { return c.composite }

// Tier returns the confidence tier (weighted strategy only).
func (c *Candidate) Tier() score.Tier { return c.tier }

// Stats summarizes a ranking call: how many candidates the store returned,
// how many survived filtering and scoring, and how many were returned after
// the cap.
type Stats struct {
	TotalCandidates int
	Filtered        int
	Returned        int
}
