package index

import (
	"context"

	"github.com/petalert/petmatch/internal/domain/report"
)

// ImageEmbedder produces a vector representation of an image.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

// Repository persists report embeddings.
type Repository interface {
	Get(ctx context.Context, id string) (report.Report, error)
	SetEmbedding(ctx context.Context, id string, embedding []float32) error
}
