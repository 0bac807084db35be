package report

import (
	"encoding/json"
	"fmt"
	"sort"
)

// The service has two evaluation response shapes: the enhanced per-dimension
// form and a legacy flat-score form. The union is resolved exactly once here;
// nothing downstream branches on payload shape again.
type payloadKind int

const (
	kindEnhanced payloadKind = iota
	kindLegacy
)

// wirePayload covers both shapes; kind detection looks at which fields are
// populated.
type wirePayload struct {
	// Enhanced form.
	OverallAssessment    *wireOverall             `json:"overall_assessment"`
	DimensionEvaluations map[string]wireDimension `json:"dimension_evaluations"`
	Summary              string                   `json:"summary"`
	ActionItems          []wireActionItem         `json:"action_items"`

	// Legacy flat-score form.
	OverallScore   *float64 `json:"overall_score"`
	OverallSummary string   `json:"overall_summary"`
}

type wireOverall struct {
	OverallScore     *float64 `json:"overall_score"`
	ExecutiveSummary string   `json:"executive_summary"`
}

// wireDimension's rating is a pointer so a present-but-unrated dimension
// (malformed partial data) is distinguishable from an absent one.
type wireDimension struct {
	Rating              *float64 `json:"rating"`
	Confidence          string   `json:"confidence"`
	Assessment          string   `json:"assessment"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Evidence            []string `json:"evidence"`
}

type wireActionItem struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        string   `json:"priority"`
	Category        string   `json:"category"`
	Evidence        []string `json:"evidence"`
	ExpectedOutcome string   `json:"expectedOutcome"`
	Timeframe       string   `json:"timeframe"`
}

// Normalize converts a raw evaluation payload of either shape into a Report.
//
// Partial data is handled per field, not per payload: a missing overall score
// yields a report whose score is marked unavailable (never zero), a missing
// summary yields the explicit unavailable marker at display time, and a
// dimension without a rating gets 0. Dimensions the payload does not list do
// not appear at all. Action items keep their input order.
func Normalize(raw json.RawMessage) (*Report, error) {
	var p wirePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed evaluation payload: %w", err)
	}

	switch detectKind(&p) {
	case kindEnhanced:
		return normalizeEnhanced(&p), nil
	default:
		return normalizeLegacy(&p), nil
	}
}

// detectKind resolves the shape union: any per-dimension material marks the
// payload as enhanced; otherwise it is treated as the legacy flat form.
func detectKind(p *wirePayload) payloadKind {
	if p.DimensionEvaluations != nil || p.OverallAssessment != nil {
		return kindEnhanced
	}
	return kindLegacy
}

func normalizeEnhanced(p *wirePayload) *Report {
	r := &Report{Dimensions: make(map[string]DimensionEvaluation, len(p.DimensionEvaluations))}

	if p.OverallAssessment != nil {
		r.OverallScore = p.OverallAssessment.OverallScore
		r.ExecutiveSummary = p.OverallAssessment.ExecutiveSummary
	}
	if r.ExecutiveSummary == "" {
		r.ExecutiveSummary = p.Summary
	}

	for name, wd := range p.DimensionEvaluations {
		rating := 0.0
		if wd.Rating != nil {
			rating = *wd.Rating
		}
		r.Dimensions[name] = DimensionEvaluation{
			Rating:         rating,
			Confidence:     normalizeConfidence(wd.Confidence),
			Assessment:     wd.Assessment,
			Strengths:      wd.Strengths,
			Improvements:   wd.AreasForImprovement,
			EvidenceQuotes: wd.Evidence,
		}
		r.DimensionOrder = append(r.DimensionOrder, name)
	}
	// JSON object order is not observable after decoding; sort for a stable
	// presentation order.
	sort.Strings(r.DimensionOrder)

	for _, wa := range p.ActionItems {
		r.ActionItems = append(r.ActionItems, ActionItem{
			Title:           wa.Title,
			Description:     wa.Description,
			Priority:        normalizePriority(wa.Priority),
			Category:        wa.Category,
			Evidence:        wa.Evidence,
			ExpectedOutcome: wa.ExpectedOutcome,
			Timeframe:       wa.Timeframe,
		})
	}
	return r
}

func normalizeLegacy(p *wirePayload) *Report {
	return &Report{
		OverallScore:     p.OverallScore,
		ExecutiveSummary: p.OverallSummary,
		Dimensions:       map[string]DimensionEvaluation{},
	}
}

func normalizeConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	}
	return ConfidenceUnknown
}

// normalizePriority passes unknown strings through as-is: priority is a
// display hint, not a control value.
func normalizePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	}
	if s == "" {
		return PriorityMedium
	}
	return Priority(s)
}
