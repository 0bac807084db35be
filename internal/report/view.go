package report

import "fmt"

// View is the renderable projection of a Report. Building it is pure: no
// network, no storage, and it never fails — partial reports produce a view
// that flags what is missing instead of crashing the pipeline.
type View struct {
	ScoreAvailable bool
	ScoreText      string // "3.8 / 5", or "Score unavailable"
	ScoreLabel     string // qualitative label; empty when unavailable
	Summary        string // never empty; marker substituted when absent

	Cards       []DimensionCard
	Radial      []RadialPoint
	ActionItems []ActionItemView
}

// DimensionCard backs one per-dimension card.
type DimensionCard struct {
	Name           string
	Rating         float64
	RatingLabel    string
	Confidence     Confidence
	Assessment     string
	Strengths      []string
	Improvements   []string
	EvidenceQuotes []string
}

// RadialPoint is one axis of the radial skill chart.
type RadialPoint struct {
	Label  string
	Rating float64 // 0–5
}

// ActionItemView backs one row of the flat action-item list, input order
// preserved.
type ActionItemView struct {
	Title           string
	Description     string
	Priority        Priority
	Category        string
	Evidence        []string
	ExpectedOutcome string
	Timeframe       string
}

// BuildView projects a Report into view data.
func BuildView(r *Report) View {
	v := View{Summary: r.Summary()}

	if r == nil {
		v.ScoreText = "Score unavailable"
		return v
	}

	if r.ScoreAvailable() {
		v.ScoreAvailable = true
		v.ScoreText = fmt.Sprintf("%.1f / 5", *r.OverallScore)
		v.ScoreLabel = ScoreLabel(*r.OverallScore)
	} else {
		v.ScoreText = "Score unavailable"
	}

	for _, name := range r.DimensionOrder {
		d, ok := r.Dimensions[name]
		if !ok {
			continue
		}
		v.Cards = append(v.Cards, DimensionCard{
			Name:           name,
			Rating:         d.Rating,
			RatingLabel:    ScoreLabel(d.Rating),
			Confidence:     d.Confidence,
			Assessment:     d.Assessment,
			Strengths:      d.Strengths,
			Improvements:   d.Improvements,
			EvidenceQuotes: d.EvidenceQuotes,
		})
		v.Radial = append(v.Radial, RadialPoint{Label: name, Rating: d.Rating})
	}

	for _, a := range r.ActionItems {
		v.ActionItems = append(v.ActionItems, ActionItemView{
			Title:           a.Title,
			Description:     a.Description,
			Priority:        a.Priority,
			Category:        a.Category,
			Evidence:        a.Evidence,
			ExpectedOutcome: a.ExpectedOutcome,
			Timeframe:       a.Timeframe,
		})
	}
	return v
}
