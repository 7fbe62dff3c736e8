package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domrep "github.com/petalert/petmatch/internal/domain/report"
	reportuc "github.com/petalert/petmatch/internal/usecase/report"
)

type createReportRequest struct {
	Kind        string   `json:"type"`
	ReporterID  string   `json:"reporter_id"`
	Species     string   `json:"species"`
	PetName     string   `json:"pet_name"`
	Breed       string   `json:"breed"`
	Color       string   `json:"color"`
	Size        string   `json:"size"`
	Description string   `json:"description"`
	Location    any      `json:"location"`
	Photos      []string `json:"photos"`
}

// handleCreateReport handles POST /reports.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rep, err := s.reports.Create(r.Context(), reportuc.CreateInput{
		Kind:        domrep.Kind(req.Kind),
		ReporterID:  req.ReporterID,
		Species:     req.Species,
		Description: req.Description,
		Location:    req.Location,
		PetName:     req.PetName,
		Breed:       req.Breed,
		Color:       req.Color,
		Size:        req.Size,
		Photos:      req.Photos,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReportView(&rep))
}

// handleListReports handles GET /reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reports.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]reportView, len(reports))
	for i := range reports {
		items[i] = toReportView(&reports[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": items, "count": len(items)})
}

// handleGetReport handles GET /reports/{id}.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportView(&rep))
}

// handleNearbyReports handles GET /reports/nearby.
func (s *Server) handleNearbyReports(w http.ResponseWriter, r *http.Request) {
	lat, ok := requiredQueryFloat(r, "lat")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lat is required")
		return
	}
	lng, ok := requiredQueryFloat(r, "lng")
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "lng is required")
		return
	}
	radius, err := queryFloat(r, "radius_km", s.defaults.RadiusKm)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "radius_km must be a number")
		return
	}

	nearby, err := s.reports.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]nearbyView, len(nearby))
	for i, n := range nearby {
		items[i] = toNearbyView(n)
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": items, "count": len(items)})
}

type updateReportRequest struct {
	PetName     *string  `json:"pet_name"`
	Breed       *string  `json:"breed"`
	Color       *string  `json:"color"`
	Size        *string  `json:"size"`
	Description *string  `json:"description"`
	Location    any      `json:"location"`
	Photos      []string `json:"photos"`
}

// handleUpdateReport handles PATCH /reports/{id}.
func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rep, err := s.reports.Update(r.Context(), chi.URLParam(r, "id"), reportuc.Patch{
		PetName:     req.PetName,
		Breed:       req.Breed,
		Color:       req.Color,
		Size:        req.Size,
		Description: req.Description,
		Location:    req.Location,
		Photos:      req.Photos,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportView(&rep))
}

// handleDeleteReport handles DELETE /reports/{id} (soft delete).
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.reports.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleResolveReport handles POST /reports/{id}/resolve.
func (s *Server) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportView(&rep))
}

// handleSaveLabels handles POST /reports/{id}/labels: attach a label payload
// of the shape {"labels": [...]} to a report, with an optional "colors" list
// of dominant hex colors stored alongside.
func (s *Server) handleSaveLabels(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	labels, ok := payload["labels"].([]any)
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, `expected {"labels": [...]}`)
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.reports.SaveLabels(r.Context(), id, map[string]any{"labels": labels}); err != nil {
		s.handleDomainError(w, err)
		return
	}

	if rawColors, ok := payload["colors"].([]any); ok {
		colors := make([]string, 0, len(rawColors))
		for _, raw := range rawColors {
			if c, ok := raw.(string); ok && c != "" {
				colors = append(colors, c)
			}
		}
		if err := s.reports.SaveColors(r.Context(), id, colors); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": id})
}

// handleAnalyzeImage handles POST /analyze_image: label and dominant-color
// detection for an uploaded photo.
func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	image, filename, err := readImageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "image file is required")
		return
	}

	analysis, err := s.analyze.Analyze(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"labels":     analysis.Labels,
		"colors":     analysis.Colors,
		"species":    analysis.Species,
		"confidence": analysis.Confidence,
		"file_name":  filename,
		"file_size":  len(image),
	})
}

// handleCaption handles POST /caption: a short Spanish caption from labels
// and dominant colors.
func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request) {
	image, _, err := readImageFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "image file is required")
		return
	}

	caption, err := s.analyze.Caption(r.Context(), image)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"caption": caption})
}
