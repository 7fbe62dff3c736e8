package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/score"
)

// --- Mocks ---

type mockVision struct {
	labels    []Label
	labelsErr error
	colors    []string
}

func (m *mockVision) DetectLabels(_ context.Context, _ []byte) ([]Label, error) {
	if m.labelsErr != nil {
		return nil, m.labelsErr
	}
	return m.labels, nil
}

func (m *mockVision) DetectColors(_ context.Context, _ []byte) []string {
	return m.colors
}

func label(text string, s float64) Label {
	return Label{Label: text, Score: s, Original: text}
}

// --- Tests ---

func TestAnalyze(t *testing.T) {
	vision := &mockVision{
		labels: []Label{
			label("Dog", 98.2), label("Golden retriever", 95.1), label("Pet", 93.0),
			label("Mammal", 91.4), label("Carnivore", 88.7),
		},
		colors: []string{"#C9A066", "#6B4F2A", "#FFFFFF"},
	}
	svc := New(vision)

	a, err := svc.Analyze(context.Background(), []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(a.Labels) != 5 {
		t.Errorf("labels = %d, want 5", len(a.Labels))
	}
	if a.Species != "dog" {
		t.Errorf("species = %q, want dog", a.Species)
	}
	if a.Confidence != score.TierHigh {
		t.Errorf("confidence = %q, want %q", a.Confidence, score.TierHigh)
	}
	if len(a.Colors) != 3 {
		t.Errorf("colors = %v, want 3 entries", a.Colors)
	}
}

func TestAnalyze_EmptyImage(t *testing.T) {
	svc := New(&mockVision{})

	_, err := svc.Analyze(context.Background(), nil)
	if !errors.Is(err, domain.ErrEmptyImage) {
		t.Errorf("err = %v, want ErrEmptyImage", err)
	}
}

func TestAnalyze_LabelFailureIsFatal(t *testing.T) {
	vision := &mockVision{labelsErr: domain.ErrVisionProviderError}
	svc := New(vision)

	_, err := svc.Analyze(context.Background(), []byte("img"))
	if !errors.Is(err, domain.ErrVisionProviderError) {
		t.Errorf("err = %v, want ErrVisionProviderError", err)
	}
}

func TestAnalyze_ColorsTruncatedToThree(t *testing.T) {
	vision := &mockVision{
		labels: []Label{label("Cat", 97.0)},
		colors: []string{"#111111", "#222222", "#333333", "#444444", "#555555"},
	}
	svc := New(vision)

	a, err := svc.Analyze(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(a.Colors) != 3 {
		t.Errorf("colors = %v, want 3 entries", a.Colors)
	}
}

func TestAnalyze_ConfidenceTiers(t *testing.T) {
	tests := []struct {
		labels int
		want   score.Tier
	}{
		{6, score.TierHigh},
		{4, score.TierMedium},
		{1, score.TierLow},
	}

	for _, tt := range tests {
		labels := make([]Label, tt.labels)
		for i := range labels {
			labels[i] = label("Dog", 90)
		}
		a, err := New(&mockVision{labels: labels}).Analyze(context.Background(), []byte("img"))
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if a.Confidence != tt.want {
			t.Errorf("%d labels: confidence = %q, want %q", tt.labels, a.Confidence, tt.want)
		}
	}
}

func TestDetectSpecies(t *testing.T) {
	tests := []struct {
		name   string
		labels []Label
		want   string
	}{
		{"english dog", []Label{label("Dog", 98)}, "dog"},
		{"spanish dog", []Label{label("Perro callejero", 90)}, "dog"},
		{"cat within compound label", []Label{label("Domestic cat", 95)}, "cat"},
		{"spanish bird", []Label{label("Pájaro", 92)}, "bird"},
		{"rabbit", []Label{label("Conejo", 92)}, "rabbit"},
		{"first hit wins", []Label{label("Cat", 90), label("Dog", 85)}, "cat"},
		{"no match", []Label{label("Furniture", 80)}, "other"},
		{"no labels", nil, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSpecies(tt.labels); got != tt.want {
				t.Errorf("DetectSpecies() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelsPayload(t *testing.T) {
	a := Analysis{Labels: []Label{label("Dog", 98.2)}}

	payload, ok := a.LabelsPayload().(map[string]any)
	if !ok {
		t.Fatal("payload is not an object")
	}
	items, ok := payload["labels"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("labels = %v, want one entry", payload["labels"])
	}
	entry := items[0].(map[string]any)
	if entry["label"] != "Dog" || entry["score"] != 98.2 {
		t.Errorf("entry = %v", entry)
	}
}

func TestCaption(t *testing.T) {
	vision := &mockVision{
		labels: []Label{label("Perro", 98), label("Golden retriever", 95), label("Mascota", 93), label("Mamífero", 90)},
		colors: []string{"#C9A066"},
	}
	svc := New(vision)

	caption, err := svc.Caption(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}

	if !strings.HasPrefix(caption, "Parece un Perro") {
		t.Errorf("caption = %q, want subject prefix", caption)
	}
	if !strings.Contains(caption, "Golden retriever") || !strings.Contains(caption, "Mascota") {
		t.Errorf("caption %q missing the two extra traits", caption)
	}
	if strings.Contains(caption, "Mamífero") {
		t.Errorf("caption %q should stop at two extra traits", caption)
	}
	if !strings.Contains(caption, "Colores dominantes: #C9A066.") {
		t.Errorf("caption %q missing colors", caption)
	}
}

func TestCaption_NoLabels(t *testing.T) {
	svc := New(&mockVision{colors: []string{"#000000"}})

	caption, err := svc.Caption(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if !strings.Contains(caption, "No pude identificar") {
		t.Errorf("caption = %q, want fallback text", caption)
	}
	if !strings.Contains(caption, "#000000") {
		t.Errorf("caption = %q, want colors appended", caption)
	}
}
