// Package report turns the assessment service's evaluation payload into a
// normalized report model and projects it into renderable view data and
// shareable report files.
package report

// Confidence is the service's stated confidence in a dimension rating.
type Confidence string

const (
	ConfidenceHigh    Confidence = "High"
	ConfidenceMedium  Confidence = "Medium"
	ConfidenceLow     Confidence = "Low"
	ConfidenceUnknown Confidence = "Unknown"
)

// Priority is a display hint on an action item. It never affects ordering:
// action items keep their input order.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// SummaryUnavailable is shown whenever the payload carried no executive
// summary. An empty string is never rendered in its place.
const SummaryUnavailable = "Summary unavailable"

// DimensionEvaluation is one skill axis scored independently. Dimension names
// are dynamic: any name the service returns is valid.
type DimensionEvaluation struct {
	Rating         float64  `json:"rating"` // 0–5; 0 when the payload had the dimension but no rating
	Confidence     Confidence `json:"confidence"`
	Assessment     string   `json:"assessment"`
	Strengths      []string `json:"strengths,omitempty"`
	Improvements   []string `json:"improvements,omitempty"`
	EvidenceQuotes []string `json:"evidence_quotes,omitempty"`
}

// ActionItem is one recommendation from the evaluation.
type ActionItem struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority"`
	Category        string   `json:"category"`
	Evidence        []string `json:"evidence,omitempty"`
	ExpectedOutcome string   `json:"expected_outcome,omitempty"`
	Timeframe       string   `json:"timeframe,omitempty"`
}

// Report is the normalized evaluation, immutable once constructed: a retry
// replaces it wholesale, never patches it in place.
type Report struct {
	// OverallScore is nil when the payload carried no score. That state is
	// surfaced as "score unavailable", never defaulted to zero.
	OverallScore *float64 `json:"overall_score"`

	// ExecutiveSummary may be empty; use Summary for display.
	ExecutiveSummary string `json:"executive_summary,omitempty"`

	// Dimensions holds only the dimensions the payload listed; unlisted
	// dimensions are absent, not zero-filled. DimensionOrder fixes the
	// presentation order.
	Dimensions     map[string]DimensionEvaluation `json:"dimensions"`
	DimensionOrder []string                       `json:"dimension_order"`

	// ActionItems in payload order.
	ActionItems []ActionItem `json:"action_items"`
}

// ScoreAvailable reports whether the payload carried an overall score.
func (r *Report) ScoreAvailable() bool { return r != nil && r.OverallScore != nil }

// Summary returns the executive summary, or the explicit unavailable marker.
func (r *Report) Summary() string {
	if r == nil || r.ExecutiveSummary == "" {
		return SummaryUnavailable
	}
	return r.ExecutiveSummary
}

// Dimension returns the named dimension evaluation.
func (r *Report) Dimension(name string) (DimensionEvaluation, bool) {
	d, ok := r.Dimensions[name]
	return d, ok
}
