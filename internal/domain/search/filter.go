package search

// KindFilter restricts which report kinds are considered.
type KindFilter string

// Kind filters.
const (
	KindFilterLost  KindFilter = "lost"
	KindFilterFound KindFilter = "found"
	KindFilterBoth  KindFilter = "both"
)

// IsValid checks if the filter is one of the supported values.
func (f KindFilter) IsValid() bool {
	return f == KindFilterLost || f == KindFilterFound || f == KindFilterBoth
}
