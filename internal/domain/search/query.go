package search

// Query is the per-request signal bundle scored against candidates. It has
// the same visual shape as a stored report but may originate from an ad-hoc
// uploaded image; it is built per request and discarded after scoring.
type Query struct {
	labels    any
	colors    []string
	embedding []float32
	species   string
}

// NewQuery creates a signal bundle. Labels keep the raw decoded payload
// shape ({"labels": [...]}); extraction happens at scoring time.
func NewQuery(labels any, colors []string, embedding []float32, species string) Query {
	return Query{labels: labels, colors: colors, embedding: embedding, species: species}
}

// Labels returns the raw labels payload.
func (q *Query) Labels() any { return q.labels }

// Colors returns the dominant colors.
func (q *Query) Colors() []string { return q.colors }

// Embedding returns the query embedding, nil when absent.
func (q *Query) Embedding() []float32 { return q.embedding }

// Species returns the detected species, possibly "other".
func (q *Query) Species() string { return q.species }
