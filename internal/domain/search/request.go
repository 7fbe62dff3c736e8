package search

import "fmt"

// Search parameter limits.
const (
	DefaultRadiusKm      = 10.0
	WeightedResultCap    = 20
	DefaultAutoMatchTopK = 5
	DefaultEmbeddingTopK = 10
	MaxEmbeddingTopK     = 50
)

// WeightedRequest parameterizes the weighted multi-signal strategy.
type WeightedRequest struct {
	lat      float64
	lon      float64
	radiusKm float64
	kinds    KindFilter
}

// NewWeighted validates and normalizes weighted-search parameters.
// Defaults: radius 10 km, kinds "both".
func NewWeighted(lat, lon, radiusKm float64, kinds KindFilter) (WeightedRequest, error) {
	if kinds == "" {
		kinds = KindFilterBoth
	}
	if !kinds.IsValid() {
		return WeightedRequest{}, fmt.Errorf("search_type must be %q, %q or %q",
			KindFilterLost, KindFilterFound, KindFilterBoth)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return WeightedRequest{lat: lat, lon: lon, radiusKm: radiusKm, kinds: kinds}, nil
}

// Lat returns the query latitude.
func (r *WeightedRequest) Lat() float64 { return r.lat }

// Lon returns the query longitude.
func (r *WeightedRequest) Lon() float64 { return r.lon }

// RadiusKm returns the search radius.
func (r *WeightedRequest) RadiusKm() float64 { return r.radiusKm }

// Kinds returns the report-kind filter.
func (r *WeightedRequest) Kinds() KindFilter { return r.kinds }

// AutoMatchRequest parameterizes the label-overlap strategy.
type AutoMatchRequest struct {
	reportID string
	radiusKm float64
	topK     int
}

// NewAutoMatch validates and normalizes auto-match parameters.
// Defaults: radius 10 km, topK 5.
func NewAutoMatch(reportID string, radiusKm float64, topK int) (AutoMatchRequest, error) {
	if reportID == "" {
		return AutoMatchRequest{}, fmt.Errorf("report_id is required")
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if topK <= 0 {
		topK = DefaultAutoMatchTopK
	}
	return AutoMatchRequest{reportID: reportID, radiusKm: radiusKm, topK: topK}, nil
}

// ReportID returns the base report identifier.
func (r *AutoMatchRequest) ReportID() string { return r.reportID }

// RadiusKm returns the search radius.
func (r *AutoMatchRequest) RadiusKm() float64 { return r.radiusKm }

// TopK returns the result cap.
func (r *AutoMatchRequest) TopK() int { return r.topK }

// EmbeddingRequest parameterizes the embedding nearest-neighbor strategy.
// Lat/lon/maxKm are optional (set when HasGeo); lostID is the optional lost
// report reference that enables match persistence.
type EmbeddingRequest struct {
	topK   int
	lostID string
	hasGeo bool
	lat    float64
	lon    float64
	maxKm  float64
}

// NewEmbedding validates and normalizes embedding-search parameters.
// Defaults: topK 10, clamped to 50.
func NewEmbedding(topK int, lostID string) (EmbeddingRequest, error) {
	if topK <= 0 {
		topK = DefaultEmbeddingTopK
	}
	if topK > MaxEmbeddingTopK {
		return EmbeddingRequest{}, fmt.Errorf("top_k must be between 1 and %d", MaxEmbeddingTopK)
	}
	return EmbeddingRequest{topK: topK, lostID: lostID}, nil
}

// WithGeo returns a copy constrained to maxKm around (lat, lon).
func (r EmbeddingRequest) WithGeo(lat, lon, maxKm float64) EmbeddingRequest {
	r.hasGeo = true
	r.lat = lat
	r.lon = lon
	r.maxKm = maxKm
	return r
}

// TopK returns the result cap.
func (r *EmbeddingRequest) TopK() int { return r.topK }

// LostID returns the lost report reference, "" when absent.
func (r *EmbeddingRequest) LostID() string { return r.lostID }

// HasGeo reports whether a geo constraint is set.
func (r *EmbeddingRequest) HasGeo() bool { return r.hasGeo }

// Lat returns the constraint latitude.
func (r *EmbeddingRequest) Lat() float64 { return r.lat }

// Lon returns the constraint longitude.
func (r *EmbeddingRequest) Lon() float64 { return r.lon }

// MaxKm returns the constraint radius.
func (r *EmbeddingRequest) MaxKm() float64 { return r.maxKm }
