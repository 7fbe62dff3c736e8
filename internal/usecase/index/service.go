package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/report"
)

// Service computes and stores image embeddings for reports.
type Service struct {
	embedder ImageEmbedder
	repo     Repository
	logger   *zap.Logger
}

// New creates an indexing service.
func New(embedder ImageEmbedder, repo Repository, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, repo: repo, logger: logger}
}

// IndexReport embeds the given image and attaches the vector to the report.
// The report must exist and the embedding must match the expected dimension.
func (s *Service) IndexReport(ctx context.Context, reportID string, image []byte) (int, error) {
	if reportID == "" {
		return 0, fmt.Errorf("%w: report id is required", domain.ErrInvalidRequest)
	}
	if len(image) == 0 {
		return 0, domain.ErrEmptyImage
	}

	if _, err := s.repo.Get(ctx, reportID); err != nil {
		return 0, fmt.Errorf("get report: %w", err)
	}

	vec, err := s.embedder.EmbedImage(ctx, image)
	if err != nil {
		return 0, fmt.Errorf("embed image: %w", err)
	}
	if len(vec) != report.EmbeddingDim {
		return 0, fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimMismatch, len(vec), report.EmbeddingDim)
	}

	if err := s.repo.SetEmbedding(ctx, reportID, vec); err != nil {
		return 0, fmt.Errorf("store embedding: %w", err)
	}

	s.logger.Debug("report indexed",
		zap.String("report_id", reportID),
		zap.Int("dim", len(vec)))

	return len(vec), nil
}

// EmbedQuery embeds an ad-hoc query image without persisting anything.
func (s *Service) EmbedQuery(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyImage
	}
	vec, err := s.embedder.EmbedImage(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("embed image: %w", err)
	}
	if len(vec) != report.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimMismatch, len(vec), report.EmbeddingDim)
	}
	return vec, nil
}
