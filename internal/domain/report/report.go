package report

import (
	"fmt"
	"time"
)

// Kind distinguishes lost-pet reports from found-pet reports.
type Kind string

// Report kinds.
const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindLost || k == KindFound
}

// Opposite returns the counterpart kind for auto-matching.
func (k Kind) Opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Status is the report lifecycle state.
type Status string

// Report statuses.
const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
	StatusDeleted  Status = "deleted"
)

// SpeciesOther marks an unknown species; species filters skip it.
const SpeciesOther = "other"

// MaxDominantColors caps the stored dominant-color list.
const MaxDominantColors = 3

// EmbeddingDim is the fixed dimensionality of the visual embedding.
const EmbeddingDim = 512

// Report is a user-submitted lost/found pet record (immutable value object).
// Location and Labels keep their raw decoded payload shape; coordinate and
// label-set extraction live in the geo and signal packages.
type Report struct {
	id          string
	kind        Kind
	reporterID  string
	species     string
	petName     string
	breed       string
	color       string
	size        string
	description string
	location    any
	photos      []string
	labels      any
	colors      []string
	embedding   []float32
	status      Status
	createdAt   time.Time
	resolvedAt  time.Time
}

// New validates and creates a Report for the create path. Photos, labels,
// colors and embedding arrive later through analysis and indexing.
func New(
	id string, kind Kind, reporterID, species, description string, location any,
) (Report, error) {
	if id == "" {
		return Report{}, fmt.Errorf("report ID is required")
	}
	if !kind.IsValid() {
		return Report{}, fmt.Errorf("report kind must be %q or %q", KindLost, KindFound)
	}
	if reporterID == "" {
		return Report{}, fmt.Errorf("reporter ID is required")
	}
	if species == "" {
		return Report{}, fmt.Errorf("species is required")
	}
	if description == "" {
		return Report{}, fmt.Errorf("description is required")
	}
	if location == nil {
		return Report{}, fmt.Errorf("location is required")
	}

	return Report{
		id:          id,
		kind:        kind,
		reporterID:  reporterID,
		species:     species,
		description: description,
		location:    location,
		status:      StatusActive,
		createdAt:   time.Now().UTC(),
	}, nil
}

// WithDetails returns a copy with the optional descriptive fields set.
func (r Report) WithDetails(petName, breed, color, size string, photos []string) Report {
	r.petName = petName
	r.breed = breed
	r.color = color
	r.size = size
	r.photos = photos
	return r
}

// Reconstruct creates a Report without validation (storage hydration).
func Reconstruct(
	id string, kind Kind, reporterID, species, petName, breed, color, size, description string,
	location any, photos []string, labels any, colors []string, embedding []float32,
	status Status, createdAt, resolvedAt time.Time,
) Report {
	if len(colors) > MaxDominantColors {
		colors = colors[:MaxDominantColors]
	}
	return Report{
		id: id, kind: kind, reporterID: reporterID, species: species,
		petName: petName, breed: breed, color: color, size: size,
		description: description, location: location, photos: photos,
		labels: labels, colors: colors, embedding: embedding,
		status: status, createdAt: createdAt, resolvedAt: resolvedAt,
	}
}

// ID returns the report identifier.
func (r Report) ID() string { return r.id }

// Kind returns lost or found.
func (r Report) Kind() Kind { return r.kind }

// ReporterID returns the reporting user's identifier.
func (r Report) ReporterID() string { return r.reporterID }

// Species returns the species tag.
func (r Report) Species() string { return r.species }

// PetName returns the pet's name, if given.
func (r Report) PetName() string { return r.petName }

// Breed returns the free-text breed.
func (r Report) Breed() string { return r.breed }

// Color returns the free-text color description.
func (r Report) Color() string { return r.color }

// Size returns the free-text size.
func (r Report) Size() string { return r.size }

// Description returns the free-text description.
func (r Report) Description() string { return r.description }

// Location returns the raw location payload.
func (r Report) Location() any { return r.location }

// Photos returns the photo references.
func (r Report) Photos() []string { return r.photos }

// FirstPhoto returns the first photo reference or "".
func (r Report) FirstPhoto() string {
	if len(r.photos) == 0 {
		return ""
	}
	return r.photos[0]
}

// Labels returns the raw labels payload.
func (r Report) Labels() any { return r.labels }

// Colors returns the dominant colors, dominance order, at most 3.
func (r Report) Colors() []string { return r.colors }

// Embedding returns the visual embedding, nil before indexing.
func (r Report) Embedding() []float32 { return r.embedding }

// Status returns the lifecycle status.
func (r Report) Status() Status { return r.status }

// CreatedAt returns the creation timestamp.
func (r Report) CreatedAt() time.Time { return r.createdAt }

// ResolvedAt returns the resolution timestamp, zero if unresolved.
func (r Report) ResolvedAt() time.Time { return r.resolvedAt }
