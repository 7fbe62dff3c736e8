package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/report"
	"github.com/petalert/petmatch/internal/domain/score"
)

// Analysis is the result of running vision analysis over an uploaded image.
type Analysis struct {
	Labels     []Label
	Colors     []string
	Species    string
	Confidence score.Tier
}

// LabelsPayload returns the analysis labels in the stored payload shape
// ({"labels": [...]}) so they can be scored against candidate reports.
func (a *Analysis) LabelsPayload() any {
	items := make([]any, len(a.Labels))
	for i, l := range a.Labels {
		items[i] = map[string]any{
			"label":          l.Label,
			"score":          l.Score,
			"original_label": l.Original,
		}
	}
	return map[string]any{"labels": items}
}

// speciesKeywords maps label substrings (English and Spanish) to species tags.
var speciesKeywords = []struct {
	keywords []string
	species  string
}{
	{[]string{"dog", "perro"}, "dog"},
	{[]string{"cat", "gato"}, "cat"},
	{[]string{"bird", "pájaro", "ave"}, "bird"},
	{[]string{"rabbit", "conejo"}, "rabbit"},
}

// Service turns an uploaded image into a query signal bundle: labels,
// dominant colors and a detected species.
type Service struct {
	vision Vision
}

// New creates an analysis service.
func New(vision Vision) *Service {
	return &Service{vision: vision}
}

// Analyze runs label and color detection over the image. A label-detection
// failure fails the whole call; color detection degrades to an empty list.
func (s *Service) Analyze(ctx context.Context, image []byte) (Analysis, error) {
	if len(image) == 0 {
		return Analysis{}, domain.ErrEmptyImage
	}

	labels, err := s.vision.DetectLabels(ctx, image)
	if err != nil {
		return Analysis{}, fmt.Errorf("detect labels: %w", err)
	}

	colors := s.vision.DetectColors(ctx, image)
	if len(colors) > report.MaxDominantColors {
		colors = colors[:report.MaxDominantColors]
	}

	return Analysis{
		Labels:     labels,
		Colors:     colors,
		Species:    DetectSpecies(labels),
		Confidence: score.AnalysisConfidence(len(labels)),
	}, nil
}

// Caption composes a short Spanish description from the top labels and
// dominant colors.
func (s *Service) Caption(ctx context.Context, image []byte) (string, error) {
	a, err := s.Analyze(ctx, image)
	if err != nil {
		return "", err
	}

	if len(a.Labels) == 0 {
		caption := "No pude identificar elementos suficientes para una descripción."
		if len(a.Colors) > 0 {
			caption += " Colores dominantes: " + strings.Join(a.Colors, ", ") + "."
		}
		return caption, nil
	}

	subject := a.Labels[0].Label
	extras := make([]string, 0, 2)
	for _, l := range a.Labels[1:] {
		if len(extras) == 2 {
			break
		}
		if l.Label != "" && !strings.EqualFold(l.Label, subject) {
			extras = append(extras, l.Label)
		}
	}

	caption := "Parece un " + subject
	if len(extras) > 0 {
		caption += ", con rasgos de " + strings.Join(extras, ", ")
	}
	caption += "."
	if len(a.Colors) > 0 {
		caption += " Colores dominantes: " + strings.Join(a.Colors, ", ") + "."
	}
	return caption, nil
}

// DetectSpecies scans labels for species keywords and returns the first hit,
// or "other" when nothing matches.
func DetectSpecies(labels []Label) string {
	for _, l := range labels {
		text := strings.ToLower(l.Label)
		for _, entry := range speciesKeywords {
			for _, kw := range entry.keywords {
				if strings.Contains(text, kw) {
					return entry.species
				}
			}
		}
	}
	return report.SpeciesOther
}
