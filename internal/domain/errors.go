package domain

import "errors"

var (
	// ErrReportNotFound signals a missing report.
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidRequest signals a request the caller must fix.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrReportHasNoLocation signals a base report without a usable coordinate pair.
	ErrReportHasNoLocation = errors.New("report has no valid location")
	// ErrVisionProviderError signals a vision API failure.
	ErrVisionProviderError = errors.New("vision provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingDimMismatch signals an embedding with the wrong dimensionality.
	ErrEmbeddingDimMismatch = errors.New("embedding dimension mismatch")
	// ErrEmptyImage signals an empty or unreadable image upload.
	ErrEmptyImage = errors.New("empty image")
)
