package match

import "time"

// Method records how a match between two reports was discovered.
type Method string

// Match methods.
const (
	MethodManual     Method = "manual"
	MethodAutoCLIP   Method = "auto_clip"
	MethodAutoLabels Method = "auto_labels"
)

// Status is the match workflow state.
type Status string

// Match statuses.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Match associates a lost report with a found report. The lost reference is
// optional: ad-hoc image searches may discover a found report before any lost
// report exists.
type Match struct {
	lostReportID  string
	foundReportID string
	similarity    float64
	method        Method
	status        Status
	createdAt     time.Time
}

// New creates a pending match record.
func New(lostReportID, foundReportID string, similarity float64, method Method) Match {
	return Match{
		lostReportID:  lostReportID,
		foundReportID: foundReportID,
		similarity:    similarity,
		method:        method,
		status:        StatusPending,
		createdAt:     time.Now().UTC(),
	}
}

// LostReportID returns the lost report reference, "" when absent.
func (m *Match) LostReportID() string { return m.lostReportID }

// FoundReportID returns the found report reference.
func (m *Match) FoundReportID() string { return m.foundReportID }

// Similarity returns the numeric similarity score.
func (m *Match) Similarity() float64 { return m.similarity }

// MatchedBy returns the discovery method.
func (m *Match) MatchedBy() Method { return m.method }

// Status returns the workflow status.
func (m *Match) Status() Status { return m.status }

// CreatedAt returns the discovery timestamp.
func (m *Match) CreatedAt() time.Time { return m.createdAt }
