// Package vision wraps the Google Cloud Vision API for label and
// dominant-color detection.
package vision

import (
	"bytes"
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/petalert/petmatch/internal/domain"
	"github.com/petalert/petmatch/internal/domain/report"
	"github.com/petalert/petmatch/internal/domain/score"
	"github.com/petalert/petmatch/internal/metrics"
	"github.com/petalert/petmatch/internal/usecase/analyze"
)

// Client detects labels and dominant colors via Google Cloud Vision.
type Client struct {
	api       *vision.ImageAnnotatorClient
	maxLabels int
	logger    *zap.Logger
}

// New creates a Vision client. credentialsFile may be empty to use
// application default credentials.
func New(ctx context.Context, credentialsFile string, maxLabels int, logger *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	api, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}

	if maxLabels <= 0 {
		maxLabels = 10
	}
	return &Client{api: api, maxLabels: maxLabels, logger: logger}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if err := c.api.Close(); err != nil {
		return fmt.Errorf("close vision client: %w", err)
	}
	return nil
}

// DetectLabels annotates the image with labels, confidence scaled to 0-100.
func (c *Client) DetectLabels(ctx context.Context, image []byte) ([]analyze.Label, error) {
	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%w: read image: %s", domain.ErrVisionProviderError, err)
	}

	annotations, err := c.api.DetectLabels(ctx, img, nil, c.maxLabels)
	if err != nil {
		metrics.VisionRequestsTotal.WithLabelValues("labels", "error").Inc()
		return nil, fmt.Errorf("%w: label detection: %s", domain.ErrVisionProviderError, err)
	}
	metrics.VisionRequestsTotal.WithLabelValues("labels", "ok").Inc()

	labels := make([]analyze.Label, 0, len(annotations))
	for _, a := range annotations {
		labels = append(labels, analyze.Label{
			Label:    a.Description,
			Score:    score.Round(float64(a.Score)*100, 2),
			Original: a.Description,
		})
	}
	return labels, nil
}

// DetectColors returns up to 3 dominant colors as hex strings, most dominant
// first. Failures are logged and yield an empty list.
func (c *Client) DetectColors(ctx context.Context, image []byte) []string {
	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		c.logger.Warn("Failed to read image for color detection", zap.Error(err))
		return nil
	}

	props, err := c.api.DetectImageProperties(ctx, img, nil)
	if err != nil {
		metrics.VisionRequestsTotal.WithLabelValues("colors", "error").Inc()
		c.logger.Warn("Failed to detect image properties", zap.Error(err))
		return nil
	}
	metrics.VisionRequestsTotal.WithLabelValues("colors", "ok").Inc()

	if props == nil || props.DominantColors == nil {
		return nil
	}

	colors := make([]string, 0, report.MaxDominantColors)
	for _, ci := range props.DominantColors.Colors {
		if len(colors) == report.MaxDominantColors {
			break
		}
		if ci.Color == nil {
			continue
		}
		colors = append(colors, fmt.Sprintf("#%02X%02X%02X",
			int(ci.Color.Red), int(ci.Color.Green), int(ci.Color.Blue)))
	}
	return colors
}
