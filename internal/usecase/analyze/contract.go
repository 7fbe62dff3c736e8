package analyze

import "context"

// Label is a vision annotation with its confidence scaled to 0-100.
type Label struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Original string  `json:"original_label"`
}

// Vision detects labels and dominant colors in an image. DetectLabels
// failures are upstream errors; DetectColors is best-effort and returns an
// empty list on failure.
type Vision interface {
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)
	DetectColors(ctx context.Context, image []byte) []string
}
