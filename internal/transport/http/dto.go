package http

import (
	"time"

	domrep "github.com/petalert/petmatch/internal/domain/report"
	domsearch "github.com/petalert/petmatch/internal/domain/search"
	"github.com/petalert/petmatch/internal/domain/score"
	reportuc "github.com/petalert/petmatch/internal/usecase/report"
)

// reportView is the wire representation of a report.
type reportView struct {
	ID          string     `json:"id"`
	Kind        string     `json:"type"`
	ReporterID  string     `json:"reporter_id"`
	Species     string     `json:"species"`
	PetName     string     `json:"pet_name,omitempty"`
	Breed       string     `json:"breed,omitempty"`
	Color       string     `json:"color,omitempty"`
	Size        string     `json:"size,omitempty"`
	Description string     `json:"description"`
	Location    any        `json:"location"`
	Photos      []string   `json:"photos,omitempty"`
	Labels      any        `json:"labels,omitempty"`
	Colors      []string   `json:"colors,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func toReportView(r *domrep.Report) reportView {
	v := reportView{
		ID:          r.ID(),
		Kind:        string(r.Kind()),
		ReporterID:  r.ReporterID(),
		Species:     r.Species(),
		PetName:     r.PetName(),
		Breed:       r.Breed(),
		Color:       r.Color(),
		Size:        r.Size(),
		Description: r.Description(),
		Location:    r.Location(),
		Photos:      r.Photos(),
		Labels:      r.Labels(),
		Colors:      r.Colors(),
		Status:      string(r.Status()),
		CreatedAt:   r.CreatedAt(),
	}
	if !r.ResolvedAt().IsZero() {
		t := r.ResolvedAt()
		v.ResolvedAt = &t
	}
	return v
}

// weightedMatch is one ranked result of the weighted strategy.
type weightedMatch struct {
	Candidate        weightedCandidate `json:"candidate"`
	DistanceKm       float64           `json:"distance_km"`
	VisualSimilarity float64           `json:"visual_similarity"`
	ColorSimilarity  float64           `json:"color_similarity"`
	LocationScore    float64           `json:"location_score"`
	TimeScore        float64           `json:"time_score"`
	TotalScore       float64           `json:"total_score"`
	MatchConfidence  score.Tier        `json:"match_confidence"`
}

type weightedCandidate struct {
	ID          string    `json:"id"`
	PetName     string    `json:"pet_name,omitempty"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	Color       string    `json:"color,omitempty"`
	Size        string    `json:"size,omitempty"`
	Description string    `json:"description"`
	Location    any       `json:"location"`
	Photos      []string  `json:"photos,omitempty"`
	Labels      any       `json:"labels,omitempty"`
	ReporterID  string    `json:"reporter_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toWeightedMatch(c *domsearch.Candidate) weightedMatch {
	r := c.Report()
	return weightedMatch{
		Candidate: weightedCandidate{
			ID:          r.ID(),
			PetName:     r.PetName(),
			Species:     r.Species(),
			Breed:       r.Breed(),
			Color:       r.Color(),
			Size:        r.Size(),
			Description: r.Description(),
			Location:    r.Location(),
			Photos:      r.Photos(),
			Labels:      r.Labels(),
			ReporterID:  r.ReporterID(),
			CreatedAt:   r.CreatedAt(),
		},
		DistanceKm:       score.Round(c.DistanceKm(), 2),
		VisualSimilarity: score.Round(c.Visual(), 1),
		ColorSimilarity:  score.Round(c.Color(), 1),
		LocationScore:    score.Round(c.Location(), 1),
		TimeScore:        score.Round(c.Recency(), 1),
		TotalScore:       score.Round(c.Score(), 1),
		MatchConfidence:  c.Tier(),
	}
}

// overlapMatch is one ranked result of the auto-match strategy.
type overlapMatch struct {
	Candidate    overlapCandidate `json:"candidate"`
	DistanceKm   float64          `json:"distance_km"`
	LabelOverlap int              `json:"label_overlap"`
	Score        float64          `json:"score"`
}

type overlapCandidate struct {
	ID       string `json:"id"`
	PetName  string `json:"pet_name,omitempty"`
	Species  string `json:"species"`
	Color    string `json:"color,omitempty"`
	Location any    `json:"location"`
	Photo    string `json:"photo,omitempty"`
	Labels   any    `json:"labels,omitempty"`
}

func toOverlapMatch(c *domsearch.Candidate) overlapMatch {
	r := c.Report()
	return overlapMatch{
		Candidate: overlapCandidate{
			ID:       r.ID(),
			PetName:  r.PetName(),
			Species:  r.Species(),
			Color:    r.Color(),
			Location: r.Location(),
			Photo:    r.FirstPhoto(),
			Labels:   r.Labels(),
		},
		DistanceKm:   score.Round(c.DistanceKm(), 2),
		LabelOverlap: c.Overlap(),
		Score:        score.Round(c.Score(), 3),
	}
}

// embeddingMatch is one ranked result of the embedding strategy.
type embeddingMatch struct {
	ReportID  string  `json:"report_id"`
	ScoreCLIP float64 `json:"score_clip"`
	Species   string  `json:"species"`
	Color     string  `json:"color,omitempty"`
	Photo     string  `json:"photo,omitempty"`
	Labels    any     `json:"labels,omitempty"`
}

func toEmbeddingMatch(c *domsearch.Candidate) embeddingMatch {
	r := c.Report()
	return embeddingMatch{
		ReportID:  r.ID(),
		ScoreCLIP: c.Similarity(),
		Species:   r.Species(),
		Color:     r.Color(),
		Photo:     r.FirstPhoto(),
		Labels:    r.Labels(),
	}
}

// nearbyView pairs a report with its distance for GET /reports/nearby.
type nearbyView struct {
	Report     reportView `json:"report"`
	DistanceKm float64    `json:"distance_km"`
}

func toNearbyView(n reportuc.NearbyReport) nearbyView {
	return nearbyView{
		Report:     toReportView(&n.Report),
		DistanceKm: score.Round(n.DistanceKm, 2),
	}
}
