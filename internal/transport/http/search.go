package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domsearch "github.com/petalert/petmatch/internal/domain/search"
	"github.com/petalert/petmatch/internal/domain/score"
	"github.com/petalert/petmatch/internal/domain/signal"
)

// handleAISearch handles POST /ai-search: analyze the uploaded image and
// rank nearby reports by the weighted multi-signal score.
func (s *Server) handleAISearch(w http.ResponseWriter, r *http.Request) {
	image, filename, err := readImageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "image file is required")
		return
	}

	lat, ok := requiredQueryFloat(r, "user_lat")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "user_lat is required")
		return
	}
	lng, ok := requiredQueryFloat(r, "user_lng")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "user_lng is required")
		return
	}
	radius, err := queryFloat(r, "radius_km", s.defaults.RadiusKm)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "radius_km must be a number")
		return
	}

	req, err := domsearch.NewWeighted(lat, lng, radius,
		domsearch.KindFilter(r.URL.Query().Get("search_type")))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	analysis, err := s.analyze.Analyze(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	q := domsearch.NewQuery(analysis.LabelsPayload(), analysis.Colors, nil, analysis.Species)

	results, stats, err := s.search.SearchWeighted(r.Context(), q, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matches := make([]weightedMatch, len(results))
	for i := range results {
		matches[i] = toWeightedMatch(&results[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": map[string]any{
			"labels":    analysis.Labels,
			"colors":    analysis.Colors,
			"species":   analysis.Species,
			"file_name": filename,
			"file_size": len(image),
		},
		"matches": matches,
		"search_metadata": map[string]any{
			"total_candidates":    stats.TotalCandidates,
			"filtered_results":    stats.Filtered,
			"returned_results":    stats.Returned,
			"search_type":         req.Kinds(),
			"radius_km":           req.RadiusKm(),
			"user_location":       map[string]float64{"lat": lat, "lng": lng},
			"detected_species":    analysis.Species,
			"analysis_confidence": analysis.Confidence,
		},
	})
}

// handleSimilarity handles POST /ai-search/similarity: score two label and
// color sets against each other (debugging aid).
func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Labels1 []map[string]any `json:"labels1"`
		Labels2 []map[string]any `json:"labels2"`
		Colors1 []string         `json:"colors1"`
		Colors2 []string         `json:"colors2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	wrap := func(labels []map[string]any) any {
		items := make([]any, len(labels))
		for i, l := range labels {
			items[i] = l
		}
		return map[string]any{"labels": items}
	}

	visual := score.Jaccard(signal.LabelSet(wrap(body.Labels1)), signal.LabelSet(wrap(body.Labels2)))
	color := score.Jaccard(signal.ColorSet(body.Colors1), signal.ColorSet(body.Colors2))

	writeJSON(w, http.StatusOK, map[string]any{
		"visual_similarity": score.Round(visual, 1),
		"color_similarity":  score.Round(color, 1),
		"combined_score":    score.Round((visual+color)/2, 1),
	})
}

// handleAutoMatch handles GET /reports/auto-match: rank opposite-kind
// reports near a base report by label overlap.
func (s *Server) handleAutoMatch(w http.ResponseWriter, r *http.Request) {
	radius, err := queryFloat(r, "radius_km", s.defaults.RadiusKm)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "radius_km must be a number")
		return
	}
	topK, err := queryInt(r, "top_k", s.defaults.AutoMatchTopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must be an integer")
		return
	}

	req, err := domsearch.NewAutoMatch(r.URL.Query().Get("report_id"), radius, topK)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	results, stats, err := s.search.AutoMatch(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matches := make([]overlapMatch, len(results))
	for i := range results {
		matches[i] = toOverlapMatch(&results[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"report_id":        req.ReportID(),
		"radius_km":        req.RadiusKm(),
		"total_candidates": stats.Filtered,
		"top_k":            matches,
	})
}

// handleIndexEmbedding handles POST /embeddings/index/{id}: embed the
// uploaded image and attach the vector to the report.
func (s *Server) handleIndexEmbedding(w http.ResponseWriter, r *http.Request) {
	image, _, err := readImageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "image file is required")
		return
	}

	reportID := chi.URLParam(r, "id")
	dims, err := s.index.IndexReport(r.Context(), reportID, image)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"report_id": reportID,
		"dims":      dims,
	})
}

// handleSearchImage handles POST /embeddings/search_image: embed the query
// image and rank indexed reports by cosine similarity. A lost_id query
// parameter makes the top hit persist as a pending match.
func (s *Server) handleSearchImage(w http.ResponseWriter, r *http.Request) {
	image, _, err := readImageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "image file is required")
		return
	}

	topK, err := queryInt(r, "top_k", s.defaults.EmbeddingTopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must be an integer")
		return
	}

	req, err := domsearch.NewEmbedding(topK, r.URL.Query().Get("lost_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	lat, latSet, err := optionalQueryFloat(r, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lat must be a number")
		return
	}
	lng, lngSet, err := optionalQueryFloat(r, "lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lng must be a number")
		return
	}
	maxKm, maxSet, err := optionalQueryFloat(r, "max_km")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "max_km must be a number")
		return
	}
	if latSet || lngSet || maxSet {
		if !latSet || !lngSet || !maxSet {
			writeError(w, http.StatusBadRequest, codeBadRequest, "lat, lng and max_km must be supplied together")
			return
		}
		if maxKm <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "max_km must be positive")
			return
		}
		req = req.WithGeo(lat, lng, maxKm)
	}

	qvec, err := s.index.EmbedQuery(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	q := domsearch.NewQuery(nil, nil, qvec, "")
	results, _, err := s.search.SearchEmbedding(r.Context(), q, &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]embeddingMatch, len(results))
	for i := range results {
		items[i] = toEmbeddingMatch(&results[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}
