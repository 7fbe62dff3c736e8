// Package score holds the pairwise similarity functions behind candidate
// ranking. Every function is pure: a score depends only on its arguments.
package score

import (
	"math"
	"time"

	"github.com/petalert/petmatch/internal/domain/signal"
)

// Composite weights for the weighted multi-signal strategy.
const (
	WeightVisual   = 0.4
	WeightColor    = 0.3
	WeightLocation = 0.2
	WeightRecency  = 0.1
)

// RelevanceFloor is the minimum composite score a candidate must reach to be
// retained by the weighted strategy.
const RelevanceFloor = 30.0

// Tier is a human-readable confidence bucket. The wire values are the Spanish
// labels the original API consumers expect.
type Tier string

const (
	TierHigh   Tier = "Alta"
	TierMedium Tier = "Media"
	TierLow    Tier = "Baja"
)

// Jaccard returns the Jaccard index of two sets scaled to 0-100. By contract
// an empty input set on either side scores 0, not 100, even when both are
// empty.
func Jaccard(a, b signal.Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := a.Intersection(b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union) * 100
}

// LocationScore maps a distance to 0-100 with linear decay: 100 at zero
// distance, 0 at or beyond maxKm.
func LocationScore(distanceKm, maxKm float64) float64 {
	if distanceKm <= 0 {
		return 100
	}
	if distanceKm >= maxKm {
		return 0
	}
	return 100 * (1 - distanceKm/maxKm)
}

// RecencyScore maps report age to a step score: fresh reports rank higher.
// A zero creation time is scored neutrally at 50.
func RecencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 50
	}
	days := int(now.Sub(createdAt).Hours() / 24)
	switch {
	case days <= 1:
		return 100
	case days <= 7:
		return 80
	case days <= 30:
		return 60
	default:
		return 40
	}
}

// OverlapScore is the cheap auto-match ranking key: label overlap rewarded
// additively, distance penalized linearly.
func OverlapScore(overlap int, distanceKm float64) float64 {
	return float64(overlap)*10 - distanceKm*0.2
}

// CosineSimilarity returns the cosine of the angle between two vectors, in
// [-1, 1]. Mismatched lengths or zero norms score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Composite combines per-signal sub-scores (each 0-100) into the weighted
// total, also 0-100.
func Composite(visual, color, location, recency float64) float64 {
	return visual*WeightVisual + color*WeightColor + location*WeightLocation + recency*WeightRecency
}

// TierFor buckets a composite score into a confidence tier.
func TierFor(composite float64) Tier {
	switch {
	case composite >= 70:
		return TierHigh
	case composite >= 50:
		return TierMedium
	default:
		return TierLow
	}
}

// AnalysisConfidence buckets an image analysis by how many labels the vision
// provider returned.
func AnalysisConfidence(labelCount int) Tier {
	switch {
	case labelCount >= 5:
		return TierHigh
	case labelCount >= 3:
		return TierMedium
	default:
		return TierLow
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
