package report

import (
	"context"
	"time"

	domrep "github.com/petalert/petmatch/internal/domain/report"
)

// Patch holds partial report updates. Nil fields are left untouched.
type Patch struct {
	PetName     *string
	Breed       *string
	Color       *string
	Size        *string
	Description *string
	Location    any
	Photos      []string
}

// Repository is the storage contract for report lifecycle operations.
type Repository interface {
	Create(ctx context.Context, r domrep.Report) error
	Get(ctx context.Context, id string) (domrep.Report, error)
	ListActive(ctx context.Context) ([]domrep.Report, error)
	Update(ctx context.Context, id string, p Patch) (domrep.Report, error)
	SetStatus(ctx context.Context, id string, status domrep.Status, resolvedAt time.Time) error
	SaveLabels(ctx context.Context, id string, labels any) error
	SaveColors(ctx context.Context, id string, colors []string) error
}
